package pg

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/agencyhub/internal/domain/repository"
	migrations "github.com/dropDatabas3/agencyhub/migrations/postgres"
)

const (
	uid = "6f1c3c9e-4d7a-4f39-9a53-2f0a3c1d8b11"
	tid = "0b6e2a55-9d1f-4c37-8e0f-7a4b1c2d3e44"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

var userCols = []string{"id", "tenant_id", "email", "name", "password_hash", "role", "is_active", "created_at"}

func TestUsers_GetByEmail(t *testing.T) {
	s, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`FROM users WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WithArgs("admin@acme.com").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(uid, tid, "admin@acme.com", "Ana", "$2a$10$hash", "agency_admin", true, now))

	u, err := s.Users().GetByEmail(context.Background(), " admin@acme.com ")
	require.NoError(t, err)
	require.Equal(t, uid, u.ID)
	require.Equal(t, tid, u.TenantID)
	require.Equal(t, repository.RoleAgencyAdmin, u.Role)
	require.True(t, u.IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUsers_GetByEmailNotFound(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(`FROM users`).WithArgs("ghost@x.com").WillReturnRows(sqlmock.NewRows(userCols))

	_, err := s.Users().GetByEmail(context.Background(), "ghost@x.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUsers_GetByIDInvalidUUID(t *testing.T) {
	s, mock := newMock(t)
	_, err := s.Users().GetByID(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUsers_CreateDuplicateIsConflict(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), tid, "dup@x.com", "Dup", "hash", "agency_admin").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_uq"})

	_, err := s.Users().Create(context.Background(), repository.CreateUserInput{
		TenantID: tid, Email: "dup@x.com", Name: "Dup", PasswordHash: "hash", Role: repository.RoleAgencyAdmin,
	})
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestUsers_CreateRejectsUnknownRole(t *testing.T) {
	s, _ := newMock(t)
	_, err := s.Users().Create(context.Background(), repository.CreateUserInput{
		Email: "a@x.com", PasswordHash: "h", Role: "root",
	})
	require.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestTenants_Create(t *testing.T) {
	s, mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery(`INSERT INTO tenants`).
		WithArgs(sqlmock.AnyArg(), "Acme Tours", "acme-tours", "pro").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "plan", "created_at"}).
			AddRow(tid, "Acme Tours", "acme-tours", "pro", now))

	tn, err := s.Tenants().Create(context.Background(), repository.CreateTenantInput{Name: "Acme Tours", Slug: "acme-tours", Plan: "pro"})
	require.NoError(t, err)
	require.Equal(t, "acme-tours", tn.Slug)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTenants_ProvisionRollsBackOnEmailConflict(t *testing.T) {
	s, mock := newMock(t)
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO tenants`).
		WithArgs(sqlmock.AnyArg(), "Beta Trips", "beta-trips", "free").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "plan", "created_at"}).
			AddRow(tid, "Beta Trips", "beta-trips", "free", now))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), tid, "boss@beta.com", "Boss", "hash", "agency_admin").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_uq"})
	mock.ExpectRollback()

	_, _, err := s.Tenants().Provision(context.Background(),
		repository.CreateTenantInput{Name: "Beta Trips", Slug: "beta-trips", Plan: "free"},
		repository.CreateUserInput{Email: "boss@beta.com", Name: "Boss", PasswordHash: "hash", Role: repository.RoleAgencyAdmin})
	require.ErrorIs(t, err, repository.ErrEmailTaken)
	require.ErrorIs(t, err, repository.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTenants_ProvisionSlugTaken(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO tenants`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "tenants_slug_key"})
	mock.ExpectRollback()

	_, _, err := s.Tenants().Provision(context.Background(),
		repository.CreateTenantInput{Name: "Acme", Slug: "acme"},
		repository.CreateUserInput{Email: "a@acme.com", PasswordHash: "hash", Role: repository.RoleAgencyAdmin})
	require.ErrorIs(t, err, repository.ErrSlugTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTenants_ProvisionCommits(t *testing.T) {
	s, mock := newMock(t)
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO tenants`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "plan", "created_at"}).
			AddRow(tid, "Acme", "acme", "", now))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), tid, "a@acme.com", "", "hash", "agency_admin").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(uid, tid, "a@acme.com", "", "hash", "agency_admin", true, now))
	mock.ExpectCommit()

	tn, u, err := s.Tenants().Provision(context.Background(),
		repository.CreateTenantInput{Name: "Acme", Slug: "acme"},
		repository.CreateUserInput{Email: "a@acme.com", PasswordHash: "hash", Role: repository.RoleAgencyAdmin})
	require.NoError(t, err)
	require.Equal(t, tn.ID, u.TenantID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokens_FindByHashFiltersInQuery(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(`WHERE token_hash = \$1\s+AND revoked = FALSE\s+AND expires_at > NOW\(\)`).
		WithArgs("h1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "revoked", "revoked_at", "created_at"}))

	_, err := s.Tokens().FindByHash(context.Background(), "h1")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokens_RevokeIsConditional(t *testing.T) {
	s, mock := newMock(t)
	q := `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = NOW\(\) WHERE id = \$1 AND revoked = FALSE`
	mock.ExpectExec(q).WithArgs(uid).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(uid).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Tokens().Revoke(context.Background(), uid))
	// el segundo revoke pierde
	require.ErrorIs(t, s.Tokens().Revoke(context.Background(), uid), repository.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokens_RotateCommits(t *testing.T) {
	s, mock := newMock(t)
	exp := time.Now().Add(time.Hour)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE refresh_tokens SET revoked = TRUE`).WithArgs(uid).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO refresh_tokens`).
		WithArgs(sqlmock.AnyArg(), tid, "h2", exp).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(uid, time.Now()))
	mock.ExpectCommit()

	next, err := s.Tokens().Rotate(context.Background(), uid, repository.CreateRefreshTokenInput{UserID: tid, TokenHash: "h2", ExpiresAt: exp})
	require.NoError(t, err)
	require.Equal(t, "h2", next.TokenHash)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokens_RotateRollsBackWhenInsertFails(t *testing.T) {
	s, mock := newMock(t)
	exp := time.Now().Add(time.Hour)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE refresh_tokens SET revoked = TRUE`).WithArgs(uid).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO refresh_tokens`).WillReturnError(errors.New("conn reset"))
	mock.ExpectRollback()

	_, err := s.Tokens().Rotate(context.Background(), uid, repository.CreateRefreshTokenInput{UserID: tid, TokenHash: "h2", ExpiresAt: exp})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokens_RotateLosesRace(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE refresh_tokens SET revoked = TRUE`).WithArgs(uid).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := s.Tokens().Rotate(context.Background(), uid, repository.CreateRefreshTokenInput{UserID: tid, TokenHash: "h2", ExpiresAt: time.Now().Add(time.Hour)})
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokens_RevokeByHashUnknownIsNoError(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(`WHERE token_hash = \$1`).WithArgs("nope").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, s.Tokens().RevokeByHash(context.Background(), "nope"))
}

func TestTokens_RevokeAllAndCleanup(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(`WHERE user_id = \$1 AND revoked = FALSE`).WithArgs(uid).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM refresh_tokens WHERE expires_at <= NOW\(\)`).WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := s.Tokens().RevokeAllForUser(context.Background(), uid)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	n, err = s.Tokens().CleanupExpired(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvites_Create(t *testing.T) {
	s, mock := newMock(t)
	exp := time.Now().Add(72 * time.Hour)
	mock.ExpectQuery(`INSERT INTO invites`).
		WithArgs(sqlmock.AnyArg(), "tok", "boss@acme.com", "Acme", "agency_admin", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(uid, time.Now()))

	inv, err := s.Invites().Create(context.Background(), repository.CreateInviteInput{
		Token: "tok", Email: "boss@acme.com", TenantName: "Acme", Role: repository.RoleAgencyAdmin, ExpiresAt: exp,
	})
	require.NoError(t, err)
	require.Equal(t, uid, inv.ID)
	require.Nil(t, inv.UsedAt)
}

func TestMapErr(t *testing.T) {
	require.NoError(t, mapErr(nil))
	other := errors.New("boom")
	require.Equal(t, other, mapErr(other))
	require.ErrorIs(t, mapErr(&pgconn.PgError{Code: "23505"}), repository.ErrConflict)
	require.NotErrorIs(t, mapErr(&pgconn.PgError{Code: "23503"}), repository.ErrConflict)
}

func TestParseMigrations_Ordered(t *testing.T) {
	fsys := fstest.MapFS{
		"m/0002_b.sql":  {Data: []byte("B")},
		"m/0001_a.sql":  {Data: []byte("A")},
		"m/README.md":   {Data: []byte("x")},
		"m/10_last.sql": {Data: []byte("C")},
	}
	migs, err := ParseMigrations(fsys, "m")
	require.NoError(t, err)
	require.Len(t, migs, 3)
	require.Equal(t, []int{1, 2, 10}, []int{migs[0].Version, migs[1].Version, migs[2].Version})
	require.Equal(t, "a", migs[0].Name)
}

func TestApply_SkipsAppliedVersions(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS _migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT version FROM _migrations`).WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE two`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO _migrations`).WithArgs(2, "two").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	applied, err := s.apply(context.Background(), []Migration{
		{Version: 1, Name: "one", SQL: "CREATE TABLE one ()"},
		{Version: 2, Name: "two", SQL: "CREATE TABLE two ()"},
	})
	require.NoError(t, err)
	require.Equal(t, []int{2}, applied)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmbeddedSchemaParses(t *testing.T) {
	migs, err := ParseMigrations(migrations.FS, migrations.Dir)
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	require.Equal(t, 1, migs[0].Version)
	require.Contains(t, migs[0].SQL, "refresh_tokens")
}
