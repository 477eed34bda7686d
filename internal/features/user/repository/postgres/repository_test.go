package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jucai-fund-backend/internal/features/user/models"
	"jucai-fund-backend/internal/features/user/repository"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var userRowColumns = []string{"id", "username", "password_hash", "email", "phone", "created_at", "last_login", "status", "balance"}

func TestCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)
	created := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "hash", "alice@x.com", sqlmock.AnyArg(), models.StatusActive, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), created))

	u := &models.User{Username: "alice", PasswordHash: "hash", Email: "alice@x.com", Status: models.StatusActive, Balance: decimal.Zero}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, created, u.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolations(t *testing.T) {
	cases := map[string]error{
		"users_email_key":    repository.ErrEmailTaken,
		"users_username_key": repository.ErrUsernameTaken,
	}
	for constraint, want := range cases {
		t.Run(constraint, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewPostgresRepository(db)

			mock.ExpectQuery(`INSERT INTO users`).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: constraint})

			err := repo.Create(context.Background(), &models.User{Username: "alice", Email: "alice@x.com"})
			assert.ErrorIs(t, err, want)
		})
	}
}

func TestGetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)
	created := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, username, password_hash, email, phone, created_at, last_login, status, balance FROM users WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(int64(7), "alice", "hash", "alice@x.com", "13800138000", created, nil, 1, "50.25"))

	u, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	require.NotNil(t, u.Phone)
	assert.Equal(t, "13800138000", *u.Phone)
	assert.Nil(t, u.LastLogin)
	assert.True(t, u.Balance.Equal(decimal.RequireFromString("50.25")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := repo.GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestGetByIDForUpdate_Locks(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`FROM users WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(int64(1), "alice", "hash", "alice@x.com", nil, time.Now(), time.Now(), 1, "0"))

	u, err := repo.GetByIDForUpdate(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, u.Phone)
	assert.NotNil(t, u.LastLogin)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByUsername_DatabaseError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)
	boom := errors.New("connection reset")

	mock.ExpectQuery(`FROM users WHERE username = \$1`).WillReturnError(boom)

	_, err := repo.GetByUsername(context.Background(), "alice")
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, repository.ErrUserNotFound))
}

func TestUpdate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectExec(`UPDATE users`).
		WithArgs(int64(1), "new@x.com", sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	u := &models.User{ID: 1, Email: "new@x.com", Status: 1}
	require.NoError(t, repo.Update(context.Background(), u))
	assert.ErrorIs(t, repo.Update(context.Background(), u), repository.ErrUserNotFound)
	assert.ErrorIs(t, repo.Update(context.Background(), u), repository.ErrEmailTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLastLogin(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)
	at := time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE users SET last_login = \$2 WHERE id = \$1`).
		WithArgs(int64(1), at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateLastLogin(context.Background(), 1, at))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCount(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

var profileColumns = []string{"id", "user_id", "avatar", "real_name", "id_card", "bank_account", "bank_name", "address", "risk_level"}

func TestProfileGetOrCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfileRepository(db)

	mock.ExpectExec(`INSERT INTO personal_profiles .* ON CONFLICT \(user_id\) DO NOTHING`).
		WithArgs(int64(1), 3).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`FROM personal_profiles`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(profileColumns).
			AddRow(int64(5), int64(1), nil, nil, nil, nil, nil, nil, 3))

	p, created, err := repo.GetOrCreate(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(5), p.ID)
	assert.Equal(t, 3, p.RiskLevel)
	assert.Nil(t, p.RealName)

	mock.ExpectExec(`INSERT INTO personal_profiles`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`FROM personal_profiles`).
		WillReturnRows(sqlmock.NewRows(profileColumns).
			AddRow(int64(5), int64(1), nil, "Alice", nil, nil, "ICBC", nil, 4))

	p, created, err = repo.GetOrCreate(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Alice", *p.RealName)
	assert.Equal(t, "ICBC", *p.BankName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileUpdate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProfileRepository(db)
	name := "Alice"

	mock.ExpectExec(`UPDATE personal_profiles`).
		WithArgs(int64(1), nil, "Alice", nil, nil, nil, nil, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE personal_profiles`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	p := &models.Profile{UserID: 1, RealName: &name, RiskLevel: 4}
	require.NoError(t, repo.Update(context.Background(), p))
	assert.ErrorIs(t, repo.Update(context.Background(), p), repository.ErrProfileNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
