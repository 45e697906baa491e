package repository

import (
	"context"
	"time"
)

// RefreshToken representa un refresh token persistido. Solo se guarda el hash.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	RevokedAt *time.Time
	CreatedAt time.Time
}

// CreateRefreshTokenInput contiene los datos para crear un refresh token.
type CreateRefreshTokenInput struct {
	UserID    string
	TokenHash string
	ExpiresAt time.Time
}

// RefreshTokenRepository es el ledger de refresh tokens.
type RefreshTokenRepository interface {
	// Create persiste un nuevo refresh token.
	Create(ctx context.Context, input CreateRefreshTokenInput) (*RefreshToken, error)

	// FindByHash retorna solo tokens no revocados y no expirados.
	// Retorna ErrNotFound en cualquier otro caso.
	FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)

	// Revoke revoca un token por ID. Retorna ErrNotFound si no existe
	// o ya estaba revocado (el perdedor de una rotación concurrente).
	Revoke(ctx context.Context, tokenID string) error

	// Rotate revoca oldID y persiste next en una sola unidad de trabajo. Si
	// oldID ya estaba revocado retorna ErrNotFound y next no se persiste; ante
	// cualquier otro error el token viejo sigue vigente.
	Rotate(ctx context.Context, oldID string, next CreateRefreshTokenInput) (*RefreshToken, error)

	// RevokeByHash revoca por hash. Revocar un hash desconocido no es error.
	RevokeByHash(ctx context.Context, tokenHash string) error

	// RevokeAllForUser revoca todos los tokens activos de un usuario.
	// Retorna el número de tokens revocados.
	RevokeAllForUser(ctx context.Context, userID string) (int, error)

	// CleanupExpired elimina filas vencidas. Retorna cuántas borró.
	CleanupExpired(ctx context.Context) (int, error)
}
