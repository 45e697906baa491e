package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/agencyhub/internal/authz"
	"github.com/dropDatabas3/agencyhub/internal/audit"
	"github.com/dropDatabas3/agencyhub/internal/domain/repository"
	jwtx "github.com/dropDatabas3/agencyhub/internal/jwt"
	"github.com/dropDatabas3/agencyhub/internal/metrics"
	"github.com/dropDatabas3/agencyhub/internal/observability/logger"
	tokens "github.com/dropDatabas3/agencyhub/internal/security/token"
)

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh rota el refresh token: el presentado queda revocado y se emite un par nuevo.
// Un segundo uso del mismo token (o una rotación concurrente perdida) falla con
// ErrInvalidRefreshToken.
func (s *Service) Refresh(ctx context.Context, in RefreshRequest) (*TokenPair, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.refresh"),
		logger.Op("Refresh"),
	)

	raw := strings.TrimSpace(in.RefreshToken)
	if raw == "" {
		return nil, ErrInvalidRefreshToken
	}

	rt, err := s.deps.Tokens.FindByHash(ctx, tokens.SHA256Hex(raw))
	if err != nil {
		if repository.IsNotFound(err) {
			metrics.RefreshRotations.WithLabelValues("rejected").Inc()
			return nil, ErrInvalidRefreshToken
		}
		metrics.RefreshRotations.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}

	user, err := s.deps.Users.GetByID(ctx, rt.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			metrics.RefreshRotations.WithLabelValues("rejected").Inc()
			return nil, ErrInvalidRefreshToken
		}
		metrics.RefreshRotations.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !user.IsActive {
		metrics.RefreshRotations.WithLabelValues("rejected").Inc()
		log.Info("refresh rejected: user inactive", logger.UserID(user.ID))
		return nil, ErrInvalidRefreshToken
	}

	pair, next, err := s.newTokenPair(user)
	if err != nil {
		metrics.RefreshRotations.WithLabelValues("error").Inc()
		return nil, err
	}

	// Revoke condicional + insert en una unidad: solo una rotación gana y, si
	// falla la persistencia, el token presentado sigue sirviendo.
	if _, err := s.deps.Tokens.Rotate(ctx, rt.ID, next); err != nil {
		if repository.IsNotFound(err) {
			metrics.RefreshRotations.WithLabelValues("rejected").Inc()
			audit.Log(ctx, audit.EventRefreshReplay, logger.UserID(user.ID), logger.String("token_id", rt.ID))
			return nil, ErrInvalidRefreshToken
		}
		metrics.RefreshRotations.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	metrics.RefreshRotations.WithLabelValues("rotated").Inc()
	log.Debug("refresh rotated", logger.UserID(user.ID))
	return pair, nil
}

// Logout revoca el refresh token presentado. Siempre tiene éxito: token
// desconocido, ya revocado o error de persistencia solo se loguean.
func (s *Service) Logout(ctx context.Context, in LogoutRequest) {
	raw := strings.TrimSpace(in.RefreshToken)
	if raw == "" {
		return
	}
	if err := s.deps.Tokens.RevokeByHash(ctx, tokens.SHA256Hex(raw)); err != nil {
		logger.From(ctx).Warn("logout revoke failed",
			logger.Layer("service"),
			logger.Component("auth.logout"),
			logger.Err(err),
		)
	}
}

// LogoutAll revoca todas las sesiones del usuario. Devuelve cuántas había activas.
func (s *Service) LogoutAll(ctx context.Context, userID string) (int, error) {
	n, err := s.deps.Tokens.RevokeAllForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("revoke all: %w", err)
	}
	audit.Log(ctx, audit.EventSessionsRevoked, logger.UserID(userID), logger.Int("count", n))
	return n, nil
}

// Me devuelve el usuario detrás del principal, con su tenant si tiene.
func (s *Service) Me(ctx context.Context, p authz.Principal) (*UserInfo, *TenantInfo, error) {
	u, err := s.deps.Users.GetByID(ctx, p.SubjectID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil, ErrUnknownUser
		}
		return nil, nil, err
	}
	ui := userInfo(u)
	if u.TenantID == "" {
		return &ui, nil, nil
	}
	t, err := s.deps.Tenants.GetByID(ctx, u.TenantID)
	if err != nil {
		if repository.IsNotFound(err) {
			return &ui, nil, nil
		}
		return nil, nil, err
	}
	return &ui, tenantInfo(t), nil
}

// CleanupExpiredTokens borra refresh tokens vencidos. Fuera del request path.
func (s *Service) CleanupExpiredTokens(ctx context.Context) (int, error) {
	n, err := s.deps.Tokens.CleanupExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("cleanup expired tokens: %w", err)
	}
	metrics.ExpiredTokensDeleted.Add(float64(n))
	return n, nil
}

// issueTokenPair firma el access token y persiste solo el hash del refresh token.
func (s *Service) issueTokenPair(ctx context.Context, u *repository.User) (*TokenPair, error) {
	pair, rec, err := s.newTokenPair(u)
	if err != nil {
		return nil, err
	}
	if _, err := s.deps.Tokens.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}
	return pair, nil
}

// newTokenPair arma el par sin persistir nada; rec es lo que va al ledger.
func (s *Service) newTokenPair(u *repository.User) (*TokenPair, repository.CreateRefreshTokenInput, error) {
	var rec repository.CreateRefreshTokenInput
	access, _, err := s.deps.Signer.Sign(jwtx.Claims{
		SubjectID: u.ID,
		Email:     u.Email,
		Role:      u.Role,
		TenantID:  u.TenantID,
	}, 0)
	if err != nil {
		return nil, rec, fmt.Errorf("sign access token: %w", err)
	}

	raw, err := tokens.GenerateOpaqueToken(tokens.RefreshTokenBytes)
	if err != nil {
		return nil, rec, fmt.Errorf("generate refresh token: %w", err)
	}
	rec = repository.CreateRefreshTokenInput{
		UserID:    u.ID,
		TokenHash: tokens.SHA256Hex(raw),
		ExpiresAt: s.deps.Now().Add(s.deps.RefreshTTL),
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: raw,
		ExpiresIn:    int64(s.deps.Signer.AccessTTL() / time.Second),
	}, rec, nil
}
