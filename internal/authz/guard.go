// Package authz decide, por request, si un principal puede entrar a una ruta
// según los roles declarados y el requisito de ser dueño del tenant.
package authz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/agencyhub/internal/domain/repository"
)

// Rule es la declaración de autorización de cada ruta.
type Rule struct {
	// RequiredRoles vacío = sin restricción de rol.
	RequiredRoles []repository.Role
	// RequireOwnership exige que el tenant del principal sea el resuelto
	// para el request (superadmin exento).
	RequireOwnership bool
}

// Roles arma una regla solo de roles.
func Roles(roles ...repository.Role) Rule {
	return Rule{RequiredRoles: roles}
}

// Owned devuelve una copia de r que además exige ser dueño del tenant.
func (r Rule) Owned() Rule {
	r.RequireOwnership = true
	return r
}

// ErrForbidden: todo *ForbiddenError cumple errors.Is contra él.
var ErrForbidden = errors.New("forbidden")

const (
	ReasonRole           = "insufficient role"
	ReasonTenantRequired = "tenant context required"
	ReasonCrossTenant    = "cross-tenant access denied"
)

// ForbiddenError lleva el motivo del rechazo.
type ForbiddenError struct {
	Reason        string
	RequiredRoles []repository.Role
}

func (e *ForbiddenError) Error() string {
	if len(e.RequiredRoles) > 0 {
		names := make([]string, len(e.RequiredRoles))
		for i, r := range e.RequiredRoles {
			names[i] = string(r)
		}
		return fmt.Sprintf("forbidden: %s (requires one of: %s)", e.Reason, strings.Join(names, ", "))
	}
	return "forbidden: " + e.Reason
}

func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }

// Authorize evalúa rule para p contra el tenant resuelto del request.
// Principal nil pasa: la autenticación se exige en otro lado.
func Authorize(p *Principal, rule Rule, resolvedTenantID string) error {
	if p == nil {
		return nil
	}

	if len(rule.RequiredRoles) > 0 && !hasRole(rule.RequiredRoles, p.Role) {
		return &ForbiddenError{Reason: ReasonRole, RequiredRoles: rule.RequiredRoles}
	}

	if rule.RequireOwnership && !p.IsGlobal() {
		resolved := strings.TrimSpace(resolvedTenantID)
		if resolved == "" {
			return &ForbiddenError{Reason: ReasonTenantRequired}
		}
		if p.TenantID != resolved {
			return &ForbiddenError{Reason: ReasonCrossTenant}
		}
	}
	return nil
}

func hasRole(set []repository.Role, role repository.Role) bool {
	for _, r := range set {
		if r == role {
			return true
		}
	}
	return false
}
