package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"jucai-fund-backend/internal/features/notification/models"
	"jucai-fund-backend/internal/features/notification/repository"
	"jucai-fund-backend/internal/platform/postgres"
)

const notificationColumns = `id, user_id, title, content, type, read, created_at`

type notificationRepository struct {
	db postgres.DBTX
}

func NewNotificationRepository(db postgres.DBTX) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (*models.Notification, error) {
	var n models.Notification
	if err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.Type, &n.Read, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, title, content, type, read)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := postgres.Executor(ctx, r.db).QueryRowContext(ctx, query,
		n.UserID, n.Title, n.Content, n.Type, n.Read,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) List(ctx context.Context, filter models.ListFilter) ([]*models.Notification, error) {
	var (
		where = []string{"user_id = $1"}
		args  = []any{filter.UserID}
	)
	if filter.Read != nil {
		args = append(args, *filter.Read)
		where = append(where, fmt.Sprintf("read = $%d", len(args)))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	args = append(args, filter.Limit, filter.Offset)

	query := fmt.Sprintf(`
		SELECT %s
		FROM notifications
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, notificationColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	rows, err := postgres.Executor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	list := make([]*models.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		list = append(list, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}
	return list, nil
}

func (r *notificationRepository) GetByIDForUser(ctx context.Context, userID, id int64) (*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1 AND user_id = $2`

	n, err := scanNotification(postgres.Executor(ctx, r.db).QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID int64, ids ...int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	// ids уходят одним параметром bigint[], размер списка не упирается в лимит bind-параметров
	query := `
		UPDATE notifications
		SET read = TRUE
		WHERE user_id = $1 AND read = FALSE AND id = ANY($2)
	`

	result, err := postgres.Executor(ctx, r.db).ExecContext(ctx, query, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
