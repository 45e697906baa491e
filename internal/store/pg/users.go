package pg

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/dropDatabas3/agencyhub/internal/domain/repository"
)

type userRepo struct{ db *sql.DB }

const userColumns = `id, COALESCE(tenant_id::text, ''), email, name, password_hash, role, is_active, created_at`

func scanUser(row interface{ Scan(...any) error }) (*repository.User, error) {
	var u repository.User
	var role string
	if err := row.Scan(&u.ID, &u.TenantID, &u.Email, &u.Name, &u.PasswordHash, &role, &u.IsActive, &u.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	u.Role = repository.Role(role)
	return &u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUser(r.db.QueryRowContext(ctx, q, strings.TrimSpace(email)))
}

func (r *userRepo) GetByID(ctx context.Context, userID string) (*repository.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, repository.ErrNotFound
	}
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, userID))
}

func (r *userRepo) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	if in.Email == "" || in.PasswordHash == "" || !in.Role.Valid() {
		return nil, repository.ErrInvalidInput
	}
	return insertUser(ctx, r.db, in)
}

func insertUser(ctx context.Context, q queryer, in repository.CreateUserInput) (*repository.User, error) {
	const stmt = `
		INSERT INTO users (id, tenant_id, email, name, password_hash, role, is_active, created_at)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, TRUE, NOW())
		RETURNING ` + userColumns
	u, err := scanUser(q.QueryRowContext(ctx, stmt,
		uuid.NewString(), in.TenantID, in.Email, in.Name, in.PasswordHash, string(in.Role)))
	if err != nil && repository.IsConflict(err) {
		return nil, repository.ErrEmailTaken
	}
	return u, err
}
