package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/agencyhub/internal/authz"
	"github.com/dropDatabas3/agencyhub/internal/domain/repository"
)

// DefaultAccessTTL aplica cuando el Signer se construye con TTL 0.
const DefaultAccessTTL = 15 * time.Minute

// ErrInvalidToken cubre tokens malformados, expirados, con firma inválida o sin claims requeridas.
var ErrInvalidToken = errors.New("invalid token")

// Claims es el payload que se firma en el access token.
type Claims struct {
	SubjectID string
	Email     string
	Role      repository.Role
	TenantID  string
}

type accessClaims struct {
	Email    string `json:"email"`
	Role     string `json:"role"`
	TenantID string `json:"tid,omitempty"`
	jwtv5.RegisteredClaims
}

// Signer firma y verifica access tokens HS256 con un secreto compartido.
type Signer struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
	now       func() time.Time
}

// NewSigner construye un Signer. El secreto se copia una sola vez.
func NewSigner(secret, issuer string, accessTTL time.Duration) (*Signer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt: empty signing secret")
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	return &Signer{
		secret:    []byte(secret),
		issuer:    issuer,
		accessTTL: accessTTL,
		now:       time.Now,
	}, nil
}

// AccessTTL devuelve el TTL por defecto de los access tokens.
func (s *Signer) AccessTTL() time.Duration { return s.accessTTL }

// Sign emite un token con los claims dados. ttl <= 0 usa el TTL por defecto.
func (s *Signer) Sign(c Claims, ttl time.Duration) (string, time.Time, error) {
	if c.SubjectID == "" || c.Email == "" || c.Role == "" {
		return "", time.Time{}, fmt.Errorf("jwt: sign: missing required claims")
	}
	if ttl <= 0 {
		ttl = s.accessTTL
	}
	now := s.now().UTC()
	exp := now.Add(ttl)

	claims := accessClaims{
		Email:    c.Email,
		Role:     string(c.Role),
		TenantID: c.TenantID,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   c.SubjectID,
			IssuedAt:  jwtv5.NewNumericDate(now),
			NotBefore: jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(exp),
		},
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	tk.Header["typ"] = "JWT"

	signed, err := tk.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("jwt: sign: %w", err)
	}
	return signed, exp, nil
}

// Verify valida firma, exp/nbf e issuer (si está configurado) y devuelve el Principal.
func (s *Signer) Verify(token string) (authz.Principal, error) {
	opts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwtv5.WithIssuer(s.issuer))
	}

	var claims accessClaims
	tk, err := jwtv5.ParseWithClaims(strings.TrimSpace(token), &claims, func(*jwtv5.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !tk.Valid {
		return authz.Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" || claims.Email == "" || claims.Role == "" {
		return authz.Principal{}, fmt.Errorf("%w: missing required claims", ErrInvalidToken)
	}
	role := repository.Role(claims.Role)
	if !role.Valid() {
		return authz.Principal{}, fmt.Errorf("%w: unknown role", ErrInvalidToken)
	}

	return authz.Principal{
		SubjectID: claims.Subject,
		Email:     claims.Email,
		Role:      role,
		TenantID:  claims.TenantID,
	}, nil
}
