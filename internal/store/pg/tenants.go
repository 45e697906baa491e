package pg

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dropDatabas3/agencyhub/internal/domain/repository"
)

type tenantRepo struct{ db *sql.DB }

const tenantColumns = `id, name, slug, plan, created_at`

func insertTenant(ctx context.Context, q queryer, in repository.CreateTenantInput) (*repository.Tenant, error) {
	const stmt = `
		INSERT INTO tenants (id, name, slug, plan, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING ` + tenantColumns
	var t repository.Tenant
	err := q.QueryRowContext(ctx, stmt, uuid.NewString(), in.Name, in.Slug, in.Plan).
		Scan(&t.ID, &t.Name, &t.Slug, &t.Plan, &t.CreatedAt)
	if isUniqueViolation(err) {
		return nil, repository.ErrSlugTaken
	}
	if err != nil {
		return nil, mapErr(err)
	}
	return &t, nil
}

func (r *tenantRepo) Create(ctx context.Context, in repository.CreateTenantInput) (*repository.Tenant, error) {
	if in.Name == "" || in.Slug == "" {
		return nil, repository.ErrInvalidInput
	}
	return insertTenant(ctx, r.db, in)
}

// Provision inserta tenant y admin en la misma transacción.
func (r *tenantRepo) Provision(ctx context.Context, tin repository.CreateTenantInput, admin repository.CreateUserInput) (*repository.Tenant, *repository.User, error) {
	if tin.Name == "" || tin.Slug == "" {
		return nil, nil, repository.ErrInvalidInput
	}
	if admin.Email == "" || admin.PasswordHash == "" || !admin.Role.Valid() {
		return nil, nil, repository.ErrInvalidInput
	}
	var (
		t *repository.Tenant
		u *repository.User
	)
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		if t, err = insertTenant(ctx, tx, tin); err != nil {
			return err
		}
		admin.TenantID = t.ID
		u, err = insertUser(ctx, tx, admin)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return t, u, nil
}

func (r *tenantRepo) GetByID(ctx context.Context, tenantID string) (*repository.Tenant, error) {
	if _, err := uuid.Parse(tenantID); err != nil {
		return nil, repository.ErrNotFound
	}
	const q = `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	var t repository.Tenant
	if err := r.db.QueryRowContext(ctx, q, tenantID).Scan(&t.ID, &t.Name, &t.Slug, &t.Plan, &t.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &t, nil
}
