package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/agencyhub/internal/audit"
	"github.com/dropDatabas3/agencyhub/internal/domain/repository"
	"github.com/dropDatabas3/agencyhub/internal/email"
	"github.com/dropDatabas3/agencyhub/internal/metrics"
	"github.com/dropDatabas3/agencyhub/internal/observability/logger"
	tokens "github.com/dropDatabas3/agencyhub/internal/security/token"
	"go.uber.org/zap"
)

type SignupRequest struct {
	Name          string `json:"name"`
	EmailAdmin    string `json:"emailAdmin"`
	Password      string `json:"password"`
	AdminName     string `json:"adminName,omitempty"`
	Plan          string `json:"plan,omitempty"`
	UseInviteFlow bool   `json:"useInviteFlow,omitempty"`
}

// SignupResult: en el flujo directo vienen Tenant/User/Tokens; en el de invitación solo Invite.
type SignupResult struct {
	Tenant *TenantInfo `json:"tenant,omitempty"`
	User   *UserInfo   `json:"user,omitempty"`
	Tokens *TokenPair  `json:"tokens,omitempty"`
	Invite *InviteInfo `json:"invite,omitempty"`
}

// slugAttempts acota los reintentos cuando el slug ya está tomado por otra agencia.
const slugAttempts = 3

// SignupAgency da de alta una agencia con su admin.
func (s *Service) SignupAgency(ctx context.Context, in SignupRequest) (*SignupResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.signup"),
		logger.Op("SignupAgency"),
	)

	in.Name = strings.TrimSpace(in.Name)
	in.EmailAdmin = strings.ToLower(strings.TrimSpace(in.EmailAdmin))
	if in.Name == "" || in.EmailAdmin == "" {
		return nil, ErrInvalidInput
	}

	switch _, err := s.deps.Users.GetByEmail(ctx, in.EmailAdmin); {
	case err == nil:
		return nil, ErrConflict
	case !repository.IsNotFound(err):
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	if in.UseInviteFlow {
		return s.signupInvite(ctx, in, log)
	}
	return s.signupDirect(ctx, in, log)
}

func (s *Service) signupDirect(ctx context.Context, in SignupRequest, log *zap.Logger) (*SignupResult, error) {
	if in.Password == "" {
		return nil, ErrInvalidInput
	}
	if ok, reasons := s.deps.Policy.Validate(in.Password); !ok {
		return nil, &WeakPasswordError{Reasons: reasons}
	}
	plan := strings.TrimSpace(in.Plan)
	if plan == "" {
		plan = DefaultPlan
	}

	hash, err := s.deps.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	name := strings.TrimSpace(in.AdminName)
	if name == "" {
		name = in.Name
	}
	tenant, user, err := s.provision(ctx, in.Name, plan, repository.CreateUserInput{
		Email:        in.EmailAdmin,
		Name:         name,
		PasswordHash: hash,
		Role:         repository.RoleAgencyAdmin,
	})
	if err != nil {
		return nil, err
	}

	if s.deps.Notifier != nil {
		err := s.deps.Notifier.SendWelcome(ctx, email.WelcomeVars{
			Name:       user.Name,
			Email:      user.Email,
			TenantName: tenant.Name,
			TenantSlug: tenant.Slug,
		})
		if err != nil {
			log.Warn("welcome notification failed", logger.TenantID(tenant.ID), logger.Err(err))
		}
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.Signups.WithLabelValues("direct").Inc()
	audit.Log(ctx, audit.EventAgencyCreated, logger.TenantID(tenant.ID), logger.TenantSlug(tenant.Slug), logger.UserID(user.ID))

	ui := userInfo(user)
	return &SignupResult{Tenant: tenantInfo(tenant), User: &ui, Tokens: pair}, nil
}

// provision crea tenant y admin juntos. Si el slug derivado ya lo usa otra
// agencia reintenta con un sufijo aleatorio; si el email se tomó entre el
// lookup y el insert devuelve ErrConflict sin dejar el tenant creado.
func (s *Service) provision(ctx context.Context, name, plan string, admin repository.CreateUserInput) (*repository.Tenant, *repository.User, error) {
	base := Slugify(name)
	if base == "" {
		return nil, nil, ErrInvalidInput
	}
	slug := base
	for i := 0; i < slugAttempts; i++ {
		t, u, err := s.deps.Tenants.Provision(ctx, repository.CreateTenantInput{Name: name, Slug: slug, Plan: plan}, admin)
		switch {
		case err == nil:
			return t, u, nil
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, nil, ErrConflict
		case !errors.Is(err, repository.ErrSlugTaken):
			return nil, nil, fmt.Errorf("provision tenant: %w", err)
		}
		suffix, gerr := tokens.GenerateOpaqueToken(3)
		if gerr != nil {
			return nil, nil, gerr
		}
		slug = withSuffix(base, Slugify(suffix))
	}
	return nil, nil, fmt.Errorf("provision tenant: %w", repository.ErrSlugTaken)
}

func withSuffix(base, suffix string) string {
	if suffix == "" {
		suffix = "x"
	}
	if limit := maxSlugLen - len(suffix) - 1; len(base) > limit {
		base = strings.TrimRight(base[:limit], "-")
	}
	return base + "-" + suffix
}

func (s *Service) signupInvite(ctx context.Context, in SignupRequest, log *zap.Logger) (*SignupResult, error) {
	tok, err := tokens.GenerateOpaqueToken(tokens.RefreshTokenBytes)
	if err != nil {
		return nil, err
	}
	inv, err := s.deps.Invites.Create(ctx, repository.CreateInviteInput{
		Token:      tok,
		Email:      in.EmailAdmin,
		TenantName: in.Name,
		Role:       repository.RoleAgencyAdmin,
		ExpiresAt:  s.deps.Now().Add(s.deps.InviteTTL),
	})
	if err != nil {
		return nil, fmt.Errorf("create invite: %w", err)
	}

	if s.deps.Notifier != nil {
		err := s.deps.Notifier.SendInvite(ctx, email.InviteVars{
			Email:      inv.Email,
			TenantName: inv.TenantName,
			Token:      inv.Token,
			ExpiresAt:  inv.ExpiresAt,
		})
		if err != nil {
			log.Warn("invite notification failed", logger.String("invite_id", inv.ID), logger.Err(err))
		}
	}

	metrics.Signups.WithLabelValues("invite").Inc()
	audit.Log(ctx, audit.EventInviteCreated, logger.String("invite_id", inv.ID), logger.Email(inv.Email))

	return &SignupResult{Invite: &InviteInfo{
		ID:         inv.ID,
		Email:      inv.Email,
		TenantName: inv.TenantName,
		ExpiresAt:  inv.ExpiresAt,
	}}, nil
}
