package repository

import (
	"context"
	"time"
)

// Tenant representa una agencia (organización aislada).
type Tenant struct {
	ID        string
	Name      string
	Slug      string
	Plan      string
	CreatedAt time.Time
}

// CreateTenantInput contiene los datos para provisionar un tenant.
type CreateTenantInput struct {
	Name string
	Slug string
	Plan string
}

// TenantRepository es el Tenant Provisioner.
type TenantRepository interface {
	// Create provisiona un tenant. Retorna ErrConflict si el slug ya existe.
	Create(ctx context.Context, input CreateTenantInput) (*Tenant, error)

	// GetByID busca un tenant por ID. Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, tenantID string) (*Tenant, error)

	// Provision crea el tenant y su admin en una sola unidad de trabajo: o
	// quedan los dos o ninguno. admin.TenantID se ignora y se completa con el
	// tenant creado. Retorna ErrSlugTaken o ErrEmailTaken según qué colisionó.
	Provision(ctx context.Context, tenant CreateTenantInput, admin CreateUserInput) (*Tenant, *User, error)
}
