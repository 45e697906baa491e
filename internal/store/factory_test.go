package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/agencyhub/internal/domain/repository"
)

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Config{Driver: "memory"})
	require.NoError(t, err)
	require.Equal(t, "memory", s.Driver)
	require.NoError(t, s.Ping(ctx))
	t.Cleanup(func() { _ = s.Close() })

	// los repos comparten backend
	tn, err := s.Tenants.Create(ctx, repository.CreateTenantInput{Name: "Acme", Slug: "acme"})
	require.NoError(t, err)
	u, err := s.Users.Create(ctx, repository.CreateUserInput{TenantID: tn.ID, Email: "a@acme.com", PasswordHash: "h", Role: repository.RoleAgencyAdmin})
	require.NoError(t, err)
	_, err = s.Tokens.Create(ctx, repository.CreateRefreshTokenInput{UserID: u.ID, TokenHash: "h", ExpiresAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "mongo"})
	require.Error(t, err)
}
