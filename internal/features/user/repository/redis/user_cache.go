package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jucai-fund-backend/internal/common/cache"
	"jucai-fund-backend/internal/features/user/models"
)

// UserCache provides Redis-based caching for user views.
type UserCache struct {
	cache *cache.CacheService
	ttl   time.Duration
}

func NewUserCache(c *cache.CacheService, ttl time.Duration) *UserCache {
	return &UserCache{cache: c, ttl: ttl}
}

func keyByID(id int64) string { return fmt.Sprintf("user:id:%d", id) }

// Get returns the cached view, or cache.ErrCacheMiss.
func (c *UserCache) Get(ctx context.Context, id int64) (*models.UserResponse, error) {
	var u models.UserResponse
	if err := c.cache.Get(ctx, keyByID(id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Set stores the view by id.
func (c *UserCache) Set(ctx context.Context, u *models.UserResponse) error {
	if u == nil {
		return errors.New("nil user")
	}
	return c.cache.Set(ctx, keyByID(u.ID), u, c.ttl)
}

// Invalidate removes the cached view for the user.
func (c *UserCache) Invalidate(ctx context.Context, id int64) error {
	return c.cache.Delete(ctx, keyByID(id))
}
