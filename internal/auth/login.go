package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/agencyhub/internal/audit"
	"github.com/dropDatabas3/agencyhub/internal/domain/repository"
	"github.com/dropDatabas3/agencyhub/internal/metrics"
	"github.com/dropDatabas3/agencyhub/internal/observability/logger"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	User   UserInfo  `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

// Login valida credenciales contra el Credential Store.
//
// Email inexistente, password incorrecta y cuenta inactiva devuelven el mismo
// *CredentialsError; la causa solo se loguea. Una identidad bloqueada devuelve
// *LockedError con el tiempo restante.
func (s *Service) Login(ctx context.Context, in LoginRequest) (*LoginResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("Login"),
	)

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || in.Password == "" {
		return nil, ErrInvalidInput
	}

	if s.deps.Tracker.IsLocked(ctx, in.Email) {
		metrics.LoginAttempts.WithLabelValues("locked").Inc()
		log.Info("login rejected: identity locked", logger.Email(in.Email))
		return nil, &LockedError{Remaining: s.deps.Tracker.LockoutTimeRemaining(ctx, in.Email)}
	}

	user, err := s.deps.Users.GetByEmail(ctx, in.Email)
	switch {
	case repository.IsNotFound(err):
		// mismo costo que una verificación real
		_ = s.deps.Hasher.Verify(in.Password, s.dummyHash)
		return nil, s.loginFailed(ctx, in.Email, errUserNotFound)
	case err != nil:
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !s.deps.Hasher.Verify(in.Password, user.PasswordHash) {
		return nil, s.loginFailed(ctx, in.Email, errWrongPassword)
	}
	if !user.IsActive {
		return nil, s.loginFailed(ctx, in.Email, errUserInactive)
	}

	s.deps.Tracker.ResetAttempts(ctx, in.Email)

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	log.Info("login ok", logger.UserID(user.ID), logger.TenantID(user.TenantID))
	return &LoginResult{User: userInfo(user), Tokens: *pair}, nil
}

// loginFailed registra el intento y arma el error visible.
func (s *Service) loginFailed(ctx context.Context, email string, cause error) error {
	st := s.deps.Tracker.RecordFailedAttempt(ctx, email)
	logger.From(ctx).Info("login failed",
		logger.Component("auth.login"),
		logger.Email(email),
		logger.String("cause", cause.Error()),
		logger.Int("attempts", st.Count),
	)
	if st.Locked {
		metrics.LoginAttempts.WithLabelValues("locked").Inc()
		audit.Log(ctx, audit.EventIdentityLocked, logger.Email(email), logger.Int("attempts", st.Count))
		return &LockedError{Remaining: st.LockedFor}
	}
	metrics.LoginAttempts.WithLabelValues("invalid").Inc()
	return &CredentialsError{cause: cause, RemainingAttempts: st.RemainingAttempts}
}
