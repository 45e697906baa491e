package pg

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dropDatabas3/agencyhub/internal/domain/repository"
)

type inviteRepo struct{ db *sql.DB }

func (r *inviteRepo) Create(ctx context.Context, in repository.CreateInviteInput) (*repository.Invite, error) {
	if in.Token == "" || in.Email == "" {
		return nil, repository.ErrInvalidInput
	}
	const q = `
		INSERT INTO invites (id, token, email, tenant_name, role, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at`
	inv := repository.Invite{
		Token:      in.Token,
		Email:      in.Email,
		TenantName: in.TenantName,
		Role:       in.Role,
		ExpiresAt:  in.ExpiresAt,
	}
	if err := r.db.QueryRowContext(ctx, q, uuid.NewString(), in.Token, in.Email, in.TenantName, string(in.Role), in.ExpiresAt).
		Scan(&inv.ID, &inv.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &inv, nil
}
