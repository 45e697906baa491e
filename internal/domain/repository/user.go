package repository

import (
	"context"
	"time"
)

// Role es el rol de un usuario dentro del sistema.
type Role string

const (
	RoleSuperAdmin  Role = "superadmin"
	RoleAgencyAdmin Role = "agency_admin"
	RoleAgent       Role = "agent"
	RoleCustomer    Role = "customer"
)

// Valid reporta si el rol es uno de los conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAgencyAdmin, RoleAgent, RoleCustomer:
		return true
	}
	return false
}

// User representa un usuario del sistema.
// TenantID vacío solo para superadmin.
type User struct {
	ID           string
	TenantID     string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
}

// CreateUserInput contiene los datos para crear un usuario.
type CreateUserInput struct {
	TenantID     string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
}

// UserRepository es el Credential Store.
type UserRepository interface {
	// GetByEmail busca por email (único global). Retorna ErrNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID busca por ID. Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, userID string) (*User, error)

	// Create crea un usuario activo. Retorna ErrConflict si el email ya existe.
	Create(ctx context.Context, input CreateUserInput) (*User, error)
}
