package repository

import (
	"context"
	"errors"

	"jucai-fund-backend/internal/features/session/models"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository interface {
	// Save stores the session until its ExpiresAt.
	Save(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}
