package jwt

import (
	"errors"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/agencyhub/internal/domain/repository"
)

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := NewSigner("test-secret", "agencyhub-test", 0)
	require.NoError(t, err)
	return s
}

func TestSigner_RoundTrip(t *testing.T) {
	s := newTestSigner(t)
	require.Equal(t, DefaultAccessTTL, s.AccessTTL())

	tok, exp, err := s.Sign(Claims{SubjectID: "u1", Email: "a@acme.com", Role: repository.RoleAgencyAdmin, TenantID: "t1"}, 0)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(DefaultAccessTTL), exp, 5*time.Second)

	p, err := s.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "u1", p.SubjectID)
	require.Equal(t, "a@acme.com", p.Email)
	require.Equal(t, repository.RoleAgencyAdmin, p.Role)
	require.Equal(t, "t1", p.TenantID)
}

func TestSigner_SuperadminWithoutTenant(t *testing.T) {
	s := newTestSigner(t)
	tok, _, err := s.Sign(Claims{SubjectID: "root", Email: "root@x.com", Role: repository.RoleSuperAdmin}, time.Minute)
	require.NoError(t, err)

	p, err := s.Verify(tok)
	require.NoError(t, err)
	require.Empty(t, p.TenantID)
	require.True(t, p.IsGlobal())
}

func TestSigner_RejectsExpired(t *testing.T) {
	s := newTestSigner(t)
	past := time.Now().Add(-time.Hour)
	s.now = func() time.Time { return past }
	tok, _, err := s.Sign(Claims{SubjectID: "u1", Email: "a@x.com", Role: repository.RoleAgent, TenantID: "t1"}, time.Minute)
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.Verify(tok)
	require.True(t, errors.Is(err, ErrInvalidToken))
}

func TestSigner_RejectsMalformedAndForeign(t *testing.T) {
	s := newTestSigner(t)

	_, err := s.Verify("not-a-jwt")
	require.ErrorIs(t, err, ErrInvalidToken)

	other, err := NewSigner("other-secret", "agencyhub-test", time.Minute)
	require.NoError(t, err)
	tok, _, err := other.Sign(Claims{SubjectID: "u1", Email: "a@x.com", Role: repository.RoleAgent}, 0)
	require.NoError(t, err)
	_, err = s.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSigner_RejectsMissingClaims(t *testing.T) {
	s := newTestSigner(t)
	now := time.Now()

	// token firmado con el mismo secreto pero sin email/role
	raw := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, jwtv5.RegisteredClaims{
		Issuer:    "agencyhub-test",
		Subject:   "u1",
		ExpiresAt: jwtv5.NewNumericDate(now.Add(time.Minute)),
	})
	tok, err := raw.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = s.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = s.Sign(Claims{SubjectID: "u1"}, 0)
	require.Error(t, err)
}

func TestSigner_RejectsWrongIssuer(t *testing.T) {
	a, err := NewSigner("shared", "issuer-a", time.Minute)
	require.NoError(t, err)
	b, err := NewSigner("shared", "issuer-b", time.Minute)
	require.NoError(t, err)

	tok, _, err := a.Sign(Claims{SubjectID: "u1", Email: "a@x.com", Role: repository.RoleAgent}, 0)
	require.NoError(t, err)
	_, err = b.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewSigner_EmptySecret(t *testing.T) {
	_, err := NewSigner("  ", "", 0)
	require.Error(t, err)
}
