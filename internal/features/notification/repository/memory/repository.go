package memory

import (
	"context"
	"sort"
	"sync"

	"jucai-fund-backend/internal/features/notification/models"
	"jucai-fund-backend/internal/features/notification/repository"
	"jucai-fund-backend/internal/platform/memory"
)

type NotificationRepository struct {
	mu            sync.RWMutex
	notifications map[int64]*models.Notification
	seq           memory.Sequence
	clock         *memory.Clock
}

func NewNotificationRepository(clock *memory.Clock) *NotificationRepository {
	if clock == nil {
		clock = memory.NewClock(nil)
	}
	return &NotificationRepository{notifications: make(map[int64]*models.Notification), clock: clock}
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)

func (r *NotificationRepository) Create(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n.ID = r.seq.Next()
	n.CreatedAt = r.clock.Now()
	c := *n
	r.notifications[n.ID] = &c
	return nil
}

func (r *NotificationRepository) List(_ context.Context, f models.ListFilter) ([]*models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*models.Notification, 0)
	for _, n := range r.notifications {
		if n.UserID != f.UserID {
			continue
		}
		if f.Read != nil && n.Read != *f.Read {
			continue
		}
		if f.Type != nil && n.Type != *f.Type {
			continue
		}
		c := *n
		matched = append(matched, &c)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if f.Offset >= len(matched) {
		return []*models.Notification{}, nil
	}
	end := f.Offset + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[f.Offset:end], nil
}

func (r *NotificationRepository) GetByIDForUser(_ context.Context, userID, id int64) (*models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notifications[id]
	if !ok || n.UserID != userID {
		return nil, repository.ErrNotificationNotFound
	}
	c := *n
	return &c, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, userID int64, ids ...int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var updated int64
	for _, id := range ids {
		n, ok := r.notifications[id]
		if !ok || n.UserID != userID || n.Read {
			continue
		}
		n.Read = true
		updated++
	}
	return updated, nil
}
