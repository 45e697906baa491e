package authz

import (
	"context"

	"github.com/dropDatabas3/agencyhub/internal/domain/repository"
)

// Principal es la identidad decodificada de un access token verificado.
// Vive un request y no se muta.
type Principal struct {
	SubjectID string
	Email     string
	Role      repository.Role
	TenantID  string // vacío para superadmin
}

// IsGlobal: el principal saltea los chequeos de tenant.
func (p Principal) IsGlobal() bool {
	return p.Role == repository.RoleSuperAdmin
}

type principalContextKey struct{}

// ContextWithPrincipal guarda el principal autenticado en el contexto.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, &p)
}

// PrincipalFromContext lo recupera del contexto.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	if ctx == nil {
		return nil, false
	}
	v, ok := ctx.Value(principalContextKey{}).(*Principal)
	if !ok || v == nil {
		return nil, false
	}
	cp := *v
	return &cp, true
}
