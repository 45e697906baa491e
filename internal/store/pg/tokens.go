package pg

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dropDatabas3/agencyhub/internal/domain/repository"
)

type tokenRepo struct{ db *sql.DB }

const revokeTokenSQL = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = NOW() WHERE id = $1 AND revoked = FALSE`

func (r *tokenRepo) Create(ctx context.Context, in repository.CreateRefreshTokenInput) (*repository.RefreshToken, error) {
	if in.UserID == "" || in.TokenHash == "" {
		return nil, repository.ErrInvalidInput
	}
	return insertToken(ctx, r.db, in)
}

func insertToken(ctx context.Context, q queryer, in repository.CreateRefreshTokenInput) (*repository.RefreshToken, error) {
	const stmt = `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, revoked, created_at)
		VALUES ($1, $2, $3, $4, FALSE, NOW())
		RETURNING id, created_at`
	t := repository.RefreshToken{UserID: in.UserID, TokenHash: in.TokenHash, ExpiresAt: in.ExpiresAt}
	if err := q.QueryRowContext(ctx, stmt, uuid.NewString(), in.UserID, in.TokenHash, in.ExpiresAt).
		Scan(&t.ID, &t.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &t, nil
}

// revokeOne aplica el revoke condicional; 0 filas = ya revocado o inexistente.
func revokeOne(ctx context.Context, q queryer, tokenID string) error {
	res, err := q.ExecContext(ctx, revokeTokenSQL, tokenID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Rotate: revoke condicional + insert en una transacción. Si el insert falla
// el rollback devuelve el token viejo a vigente.
func (r *tokenRepo) Rotate(ctx context.Context, oldID string, next repository.CreateRefreshTokenInput) (*repository.RefreshToken, error) {
	if next.UserID == "" || next.TokenHash == "" {
		return nil, repository.ErrInvalidInput
	}
	if _, err := uuid.Parse(oldID); err != nil {
		return nil, repository.ErrNotFound
	}
	var t *repository.RefreshToken
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := revokeOne(ctx, tx, oldID); err != nil {
			return err
		}
		var err error
		t, err = insertToken(ctx, tx, next)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// FindByHash: el filtro de vigencia vive en la query.
func (r *tokenRepo) FindByHash(ctx context.Context, tokenHash string) (*repository.RefreshToken, error) {
	const q = `
		SELECT id, user_id, token_hash, expires_at, revoked, revoked_at, created_at
		  FROM refresh_tokens
		 WHERE token_hash = $1
		   AND revoked = FALSE
		   AND expires_at > NOW()`
	var (
		t         repository.RefreshToken
		revokedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, tokenHash).
		Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.Revoked, &revokedAt, &t.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	if revokedAt.Valid {
		t.RevokedAt = &revokedAt.Time
	}
	return &t, nil
}

// Revoke es condicional: solo una rotación concurrente gana.
func (r *tokenRepo) Revoke(ctx context.Context, tokenID string) error {
	if _, err := uuid.Parse(tokenID); err != nil {
		return repository.ErrNotFound
	}
	return revokeOne(ctx, r.db, tokenID)
}

func (r *tokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	const q = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = NOW() WHERE token_hash = $1 AND revoked = FALSE`
	_, err := r.db.ExecContext(ctx, q, tokenHash)
	return err
}

func (r *tokenRepo) RevokeAllForUser(ctx context.Context, userID string) (int, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return 0, nil
	}
	const q = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = NOW() WHERE user_id = $1 AND revoked = FALSE`
	res, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// CleanupExpired borra filas vencidas, revocadas o no.
func (r *tokenRepo) CleanupExpired(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
