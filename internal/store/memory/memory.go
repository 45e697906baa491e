// Package memory implementa los repositorios en memoria de proceso.
// Útil para dev y tests; no sobrevive a un reinicio.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/agencyhub/internal/domain/repository"
)

// Store agrupa los cuatro repositorios bajo un único lock.
type Store struct {
	mu      sync.RWMutex
	now     func() time.Time
	users   map[string]*repository.User // por id
	emails  map[string]string           // lower(email) -> id
	tenants map[string]*repository.Tenant
	slugs   map[string]string
	tokens  map[string]*repository.RefreshToken // por id
	hashes  map[string]string                   // hash -> id
	invites map[string]*repository.Invite
}

func New() *Store {
	return &Store{
		now:     time.Now,
		users:   map[string]*repository.User{},
		emails:  map[string]string{},
		tenants: map[string]*repository.Tenant{},
		slugs:   map[string]string{},
		tokens:  map[string]*repository.RefreshToken{},
		hashes:  map[string]string{},
		invites: map[string]*repository.Invite{},
	}
}

// WithClock reemplaza el reloj (tests).
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Users() repository.UserRepository          { return (*userRepo)(s) }
func (s *Store) Tenants() repository.TenantRepository      { return (*tenantRepo)(s) }
func (s *Store) Tokens() repository.RefreshTokenRepository { return (*tokenRepo)(s) }
func (s *Store) Invites() repository.InviteRepository      { return (*inviteRepo)(s) }

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

func normEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

// ─── Users ───

type userRepo Store

func (r *userRepo) GetByEmail(_ context.Context, email string) (*repository.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.emails[normEmail(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := *r.users[id]
	return &u, nil
}

func (r *userRepo) GetByID(_ context.Context, userID string) (*repository.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) Create(_ context.Context, in repository.CreateUserInput) (*repository.User, error) {
	if in.Email == "" || in.PasswordHash == "" || !in.Role.Valid() {
		return nil, repository.ErrInvalidInput
	}
	key := normEmail(in.Email)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.emails[key]; dup {
		return nil, repository.ErrEmailTaken
	}
	return (*Store)(r).insertUserLocked(in), nil
}

func (s *Store) insertUserLocked(in repository.CreateUserInput) *repository.User {
	u := &repository.User{
		ID:           uuid.NewString(),
		TenantID:     in.TenantID,
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    s.now(),
	}
	s.users[u.ID] = u
	s.emails[normEmail(in.Email)] = u.ID
	cp := *u
	return &cp
}

// SetActive activa/desactiva un usuario. Solo existe en memoria (seed y tests).
func (s *Store) SetActive(userID string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsActive = active
	return nil
}

// ─── Tenants ───

type tenantRepo Store

func (r *tenantRepo) Create(_ context.Context, in repository.CreateTenantInput) (*repository.Tenant, error) {
	if in.Name == "" || in.Slug == "" {
		return nil, repository.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.slugs[in.Slug]; dup {
		return nil, repository.ErrSlugTaken
	}
	return (*Store)(r).insertTenantLocked(in), nil
}

// Provision valida ambas unicidades bajo el mismo lock antes de escribir.
func (r *tenantRepo) Provision(_ context.Context, tin repository.CreateTenantInput, admin repository.CreateUserInput) (*repository.Tenant, *repository.User, error) {
	if tin.Name == "" || tin.Slug == "" {
		return nil, nil, repository.ErrInvalidInput
	}
	if admin.Email == "" || admin.PasswordHash == "" || !admin.Role.Valid() {
		return nil, nil, repository.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.slugs[tin.Slug]; dup {
		return nil, nil, repository.ErrSlugTaken
	}
	if _, dup := r.emails[normEmail(admin.Email)]; dup {
		return nil, nil, repository.ErrEmailTaken
	}
	s := (*Store)(r)
	t := s.insertTenantLocked(tin)
	admin.TenantID = t.ID
	return t, s.insertUserLocked(admin), nil
}

func (s *Store) insertTenantLocked(in repository.CreateTenantInput) *repository.Tenant {
	t := &repository.Tenant{ID: uuid.NewString(), Name: in.Name, Slug: in.Slug, Plan: in.Plan, CreatedAt: s.now()}
	s.tenants[t.ID] = t
	s.slugs[t.Slug] = t.ID
	cp := *t
	return &cp
}

// TenantCount devuelve cuántos tenants hay (tests).
func (s *Store) TenantCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tenants)
}

func (r *tenantRepo) GetByID(_ context.Context, tenantID string) (*repository.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tenants[tenantID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

// ─── Refresh tokens ───

type tokenRepo Store

func (r *tokenRepo) Create(_ context.Context, in repository.CreateRefreshTokenInput) (*repository.RefreshToken, error) {
	if in.UserID == "" || in.TokenHash == "" {
		return nil, repository.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(in)
}

func (r *tokenRepo) insertLocked(in repository.CreateRefreshTokenInput) (*repository.RefreshToken, error) {
	if _, dup := r.hashes[in.TokenHash]; dup {
		return nil, repository.ErrConflict
	}
	t := &repository.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		TokenHash: in.TokenHash,
		ExpiresAt: in.ExpiresAt,
		CreatedAt: r.now(),
	}
	r.tokens[t.ID] = t
	r.hashes[t.TokenHash] = t.ID
	cp := *t
	return &cp, nil
}

// Rotate chequea todo antes de mutar, así un error no deja el token viejo revocado.
func (r *tokenRepo) Rotate(_ context.Context, oldID string, next repository.CreateRefreshTokenInput) (*repository.RefreshToken, error) {
	if next.UserID == "" || next.TokenHash == "" {
		return nil, repository.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.tokens[oldID]
	if !ok || old.Revoked {
		return nil, repository.ErrNotFound
	}
	if _, dup := r.hashes[next.TokenHash]; dup {
		return nil, repository.ErrConflict
	}
	r.revokeLocked(old)
	return r.insertLocked(next)
}

func (r *tokenRepo) FindByHash(_ context.Context, tokenHash string) (*repository.RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.hashes[tokenHash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t := r.tokens[id]
	if t.Revoked || !t.ExpiresAt.After(r.now()) {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *tokenRepo) Revoke(_ context.Context, tokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[tokenID]
	if !ok || t.Revoked {
		return repository.ErrNotFound
	}
	r.revokeLocked(t)
	return nil
}

func (r *tokenRepo) RevokeByHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.hashes[tokenHash]; ok && !r.tokens[id].Revoked {
		r.revokeLocked(r.tokens[id])
	}
	return nil
}

func (r *tokenRepo) RevokeAllForUser(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.tokens {
		if t.UserID == userID && !t.Revoked {
			r.revokeLocked(t)
			n++
		}
	}
	return n, nil
}

func (r *tokenRepo) CleanupExpired(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	n := 0
	for id, t := range r.tokens {
		if !t.ExpiresAt.After(now) {
			delete(r.hashes, t.TokenHash)
			delete(r.tokens, id)
			n++
		}
	}
	return n, nil
}

func (r *tokenRepo) revokeLocked(t *repository.RefreshToken) {
	at := r.now()
	t.Revoked = true
	t.RevokedAt = &at
}

// ─── Invites ───

type inviteRepo Store

func (r *inviteRepo) Create(_ context.Context, in repository.CreateInviteInput) (*repository.Invite, error) {
	if in.Token == "" || in.Email == "" {
		return nil, repository.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invites {
		if inv.Token == in.Token {
			return nil, repository.ErrConflict
		}
	}
	inv := &repository.Invite{
		ID:         uuid.NewString(),
		Token:      in.Token,
		Email:      in.Email,
		TenantName: in.TenantName,
		Role:       in.Role,
		ExpiresAt:  in.ExpiresAt,
		CreatedAt:  r.now(),
	}
	r.invites[inv.ID] = inv
	cp := *inv
	return &cp, nil
}

// InvitesFor lista las invitaciones enviadas a un email (tests).
func (s *Store) InvitesFor(email string) []repository.Invite {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []repository.Invite
	for _, inv := range s.invites {
		if normEmail(inv.Email) == normEmail(email) {
			out = append(out, *inv)
		}
	}
	return out
}

// TokensFor lista los refresh tokens de un usuario, incluidos los revocados (tests).
func (s *Store) TokensFor(userID string) []repository.RefreshToken {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []repository.RefreshToken
	for _, t := range s.tokens {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out
}
