package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/agencyhub/internal/domain/repository"
)

func agent(tenant string) *Principal {
	return &Principal{SubjectID: "u1", Email: "a@x.com", Role: repository.RoleAgent, TenantID: tenant}
}

func TestAuthorize_NoPrincipalAllows(t *testing.T) {
	rule := Roles(repository.RoleSuperAdmin).Owned()
	require.NoError(t, Authorize(nil, rule, ""))
}

func TestAuthorize_RoleMembership(t *testing.T) {
	rule := Roles(repository.RoleAgencyAdmin, repository.RoleAgent)
	require.NoError(t, Authorize(agent("t1"), rule, ""))

	err := Authorize(agent("t1"), Roles(repository.RoleAgencyAdmin), "")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrForbidden))

	var fe *ForbiddenError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, ReasonRole, fe.Reason)
	require.Equal(t, []repository.Role{repository.RoleAgencyAdmin}, fe.RequiredRoles)
	require.Contains(t, err.Error(), "agency_admin")
}

func TestAuthorize_EmptyRoleSetIsUnrestricted(t *testing.T) {
	p := &Principal{SubjectID: "c1", Role: repository.RoleCustomer, TenantID: "t1"}
	require.NoError(t, Authorize(p, Rule{}, ""))
}

func TestAuthorize_Ownership(t *testing.T) {
	rule := Rule{RequireOwnership: true}

	require.NoError(t, Authorize(agent("t1"), rule, "t1"))

	var fe *ForbiddenError
	err := Authorize(agent("t1"), rule, "")
	require.True(t, errors.As(err, &fe))
	require.Equal(t, ReasonTenantRequired, fe.Reason)

	err = Authorize(agent("t1"), rule, "t2")
	require.True(t, errors.As(err, &fe))
	require.Equal(t, ReasonCrossTenant, fe.Reason)
}

func TestAuthorize_SuperadminBypassesOwnership(t *testing.T) {
	sa := &Principal{SubjectID: "root", Role: repository.RoleSuperAdmin}
	rule := Roles(repository.RoleSuperAdmin, repository.RoleAgencyAdmin).Owned()

	for _, tenant := range []string{"", "t1", "t2"} {
		require.NoError(t, Authorize(sa, rule, tenant), "tenant=%q", tenant)
	}
}

func TestAuthorize_RoleCheckedBeforeOwnership(t *testing.T) {
	rule := Roles(repository.RoleAgencyAdmin).Owned()
	var fe *ForbiddenError
	err := Authorize(agent("t1"), rule, "t2")
	require.True(t, errors.As(err, &fe))
	require.Equal(t, ReasonRole, fe.Reason)
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFromContext(context.Background())
	require.False(t, ok)

	ctx := ContextWithPrincipal(context.Background(), *agent("t9"))
	got, ok := PrincipalFromContext(ctx)
	require.True(t, ok)
	require.Equal(t, "t9", got.TenantID)

	// quien llama recibe una copia
	got.TenantID = "mutated"
	again, _ := PrincipalFromContext(ctx)
	require.Equal(t, "t9", again.TenantID)
}
