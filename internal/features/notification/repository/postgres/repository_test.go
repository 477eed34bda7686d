package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"reflect"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jucai-fund-backend/internal/common/pagination"
	"jucai-fund-backend/internal/features/notification/models"
	"jucai-fund-backend/internal/features/notification/repository"
)

var columns = []string{"id", "user_id", "title", "content", "type", "read", "created_at"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewNotificationRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO notifications`).
		WithArgs(int64(1), "title", "body", models.TypeTransaction, false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), now))

	n := &models.Notification{UserID: 1, Title: "title", Content: "body", Type: models.TypeTransaction}
	require.NoError(t, repo.Create(context.Background(), n))
	assert.Equal(t, int64(3), n.ID)
	assert.Equal(t, now, n.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRead_LargeBatchIsOneParameter(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(int64Array{}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := NewNotificationRepository(db)

	ids := make([]int64, 70000)
	for i := range ids {
		ids[i] = int64(i + 1)
	}

	mock.ExpectExec(`UPDATE notifications`).
		WithArgs(int64(7), idsArg(ids)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.MarkRead(context.Background(), 7, ids...)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_NoFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewNotificationRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM notifications WHERE user_id = \$1 ORDER BY created_at DESC, id DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(int64(1), 2, 4).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(5), int64(1), "b", "", "system", false, now).
			AddRow(int64(4), int64(1), "a", "", "system", true, now.Add(-time.Second)))

	list, err := repo.List(context.Background(), models.ListFilter{UserID: 1, Params: pagination.Params{Limit: 2, Offset: 4}})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(5), list[0].ID)
	assert.True(t, list[1].Read)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_WithFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewNotificationRepository(db)
	read := true
	typ := models.TypeSystem

	mock.ExpectQuery(`WHERE user_id = \$1 AND read = \$2 AND type = \$3 ORDER BY created_at DESC, id DESC LIMIT \$4 OFFSET \$5`).
		WithArgs(int64(1), true, "system", 20, 0).
		WillReturnRows(sqlmock.NewRows(columns))

	list, err := repo.List(context.Background(), models.ListFilter{UserID: 1, Read: &read, Type: &typ, Params: pagination.Default()})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDForUser(t *testing.T) {
	db, mock := newMock(t)
	repo := NewNotificationRepository(db)

	mock.ExpectQuery(`FROM notifications WHERE id = \$1 AND user_id = \$2`).
		WithArgs(int64(9), int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(9), int64(1), "t", "c", "message", false, time.Now()))
	mock.ExpectQuery(`FROM notifications WHERE id = \$1 AND user_id = \$2`).
		WithArgs(int64(9), int64(2)).
		WillReturnRows(sqlmock.NewRows(columns))

	n, err := repo.GetByIDForUser(context.Background(), 1, 9)
	require.NoError(t, err)
	assert.Equal(t, "message", n.Type)

	_, err = repo.GetByIDForUser(context.Background(), 2, 9)
	assert.ErrorIs(t, err, repository.ErrNotificationNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// int64Array passes []int64 through to the driver the way pgx stdlib does.
type int64Array struct{}

func (int64Array) ConvertValue(v any) (driver.Value, error) {
	if ids, ok := v.([]int64); ok {
		return ids, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(v)
}

// idsArg matches a single []int64 argument.
type idsArg []int64

func (a idsArg) Match(v driver.Value) bool {
	ids, ok := v.([]int64)
	return ok && reflect.DeepEqual([]int64(a), ids)
}

func TestMarkRead(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(int64Array{}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := NewNotificationRepository(db)

	mock.ExpectExec(`UPDATE notifications SET read = TRUE WHERE user_id = \$1 AND read = FALSE AND id = ANY\(\$2\)`).
		WithArgs(int64(1), idsArg{10, 11, 12}).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.MarkRead(context.Background(), 1, 10, 11, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.MarkRead(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}
