// Package auth orquesta signup de agencias, login, rotación de refresh tokens
// y logout sobre los repositorios del dominio.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/dropDatabas3/agencyhub/internal/domain/repository"
	"github.com/dropDatabas3/agencyhub/internal/email"
	jwtx "github.com/dropDatabas3/agencyhub/internal/jwt"
	"github.com/dropDatabas3/agencyhub/internal/lockout"
	"github.com/dropDatabas3/agencyhub/internal/security/password"
)

const (
	DefaultRefreshTTL = 30 * 24 * time.Hour
	DefaultInviteTTL  = 7 * 24 * time.Hour
	DefaultPlan       = "free"
)

// Notifier entrega las notificaciones de alta. Fire-and-forget desde el servicio.
type Notifier interface {
	SendWelcome(ctx context.Context, v email.WelcomeVars) error
	SendInvite(ctx context.Context, v email.InviteVars) error
}

// Deps contiene las dependencias del servicio.
type Deps struct {
	Users   repository.UserRepository
	Tenants repository.TenantRepository
	Tokens  repository.RefreshTokenRepository
	Invites repository.InviteRepository

	Hasher   *password.Hasher
	Policy   password.Policy // valor cero = sin reglas más allá de no vacía
	Signer   *jwtx.Signer
	Tracker  *lockout.Tracker
	Notifier Notifier // nil = no se notifica

	RefreshTTL time.Duration
	InviteTTL  time.Duration
	Now        func() time.Time
}

type Service struct {
	deps Deps
	// dummyHash iguala el costo de un login con email inexistente.
	dummyHash string
}

func NewService(deps Deps) (*Service, error) {
	if deps.Users == nil || deps.Tenants == nil || deps.Tokens == nil || deps.Invites == nil {
		return nil, errors.New("auth: repositories are required")
	}
	if deps.Hasher == nil || deps.Signer == nil || deps.Tracker == nil {
		return nil, errors.New("auth: hasher, signer and tracker are required")
	}
	if deps.RefreshTTL <= 0 {
		deps.RefreshTTL = DefaultRefreshTTL
	}
	if deps.InviteTTL <= 0 {
		deps.InviteTTL = DefaultInviteTTL
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	dummy, err := deps.Hasher.Hash("agencyhub-timing-equalizer")
	if err != nil {
		return nil, err
	}
	return &Service{deps: deps, dummyHash: dummy}, nil
}

// ─── DTOs ───

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

type UserInfo struct {
	ID       string          `json:"id"`
	Email    string          `json:"email"`
	Name     string          `json:"name"`
	Role     repository.Role `json:"role"`
	TenantID string          `json:"tenantId,omitempty"`
}

type TenantInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Plan string `json:"plan"`
}

type InviteInfo struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	TenantName string    `json:"tenantName"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

func userInfo(u *repository.User) UserInfo {
	return UserInfo{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, TenantID: u.TenantID}
}

func tenantInfo(t *repository.Tenant) *TenantInfo {
	return &TenantInfo{ID: t.ID, Name: t.Name, Slug: t.Slug, Plan: t.Plan}
}
