package repository

import (
	"context"
	"errors"

	"jucai-fund-backend/internal/features/notification/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	// Create assigns ID and CreatedAt.
	Create(ctx context.Context, n *models.Notification) error
	// List returns the newest first: created_at DESC, id DESC.
	List(ctx context.Context, filter models.ListFilter) ([]*models.Notification, error)
	GetByIDForUser(ctx context.Context, userID, id int64) (*models.Notification, error)
	// MarkRead marks the given notifications of userID as read. Ids that do
	// not exist or belong to another user are skipped. Returns how many rows
	// changed from unread to read.
	MarkRead(ctx context.Context, userID int64, ids ...int64) (int64, error)
}
