package repository

import (
	"context"
	"time"
)

// Invite es una invitación de alta de agencia, de un solo uso.
type Invite struct {
	ID         string
	Token      string
	Email      string
	TenantName string
	Role       Role
	ExpiresAt  time.Time
	UsedAt     *time.Time
	CreatedAt  time.Time
}

// CreateInviteInput contiene los datos para crear una invitación.
type CreateInviteInput struct {
	Token      string
	Email      string
	TenantName string
	Role       Role
	ExpiresAt  time.Time
}

// InviteRepository es el Invite Ledger.
type InviteRepository interface {
	Create(ctx context.Context, input CreateInviteInput) (*Invite, error)
}
