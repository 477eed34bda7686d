package repository

import (
	"context"

	"jucai-fund-backend/internal/features/withdrawal/models"
)

type WithdrawalRepository interface {
	// Create assigns ID and CreatedAt.
	Create(ctx context.Context, w *models.Withdrawal) error
	// List returns the newest first: created_at DESC, id DESC.
	List(ctx context.Context, filter models.ListFilter) ([]*models.Withdrawal, error)
}
