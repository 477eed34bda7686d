package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jucai-fund-backend/internal/common/cache"
	"jucai-fund-backend/internal/features/session/models"
	"jucai-fund-backend/internal/features/session/repository"
)

type sessionRepository struct {
	cache *cache.CacheService
	now   func() time.Time
}

func NewSessionRepository(c *cache.CacheService, now func() time.Time) repository.SessionRepository {
	if now == nil {
		now = time.Now
	}
	return &sessionRepository{cache: c, now: now}
}

func sessionKey(id string) string { return "session:" + id }

func (r *sessionRepository) Save(ctx context.Context, s *models.Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", s.ID)
	}
	if err := r.cache.Set(ctx, sessionKey(s.ID), s, ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	var s models.Session
	if err := r.cache.Get(ctx, sessionKey(id), &s); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, repository.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, sessionKey(id)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
