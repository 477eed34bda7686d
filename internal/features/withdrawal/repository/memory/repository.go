package memory

import (
	"context"
	"sort"
	"sync"

	"jucai-fund-backend/internal/features/withdrawal/models"
	"jucai-fund-backend/internal/features/withdrawal/repository"
	"jucai-fund-backend/internal/platform/memory"
)

type WithdrawalRepository struct {
	mu          sync.RWMutex
	withdrawals []*models.Withdrawal
	seq         memory.Sequence
	clock       *memory.Clock
}

func NewWithdrawalRepository(clock *memory.Clock) *WithdrawalRepository {
	if clock == nil {
		clock = memory.NewClock(nil)
	}
	return &WithdrawalRepository{clock: clock}
}

var _ repository.WithdrawalRepository = (*WithdrawalRepository)(nil)

func (r *WithdrawalRepository) Create(_ context.Context, w *models.Withdrawal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w.ID = r.seq.Next()
	w.CreatedAt = r.clock.Now()
	c := *w
	r.withdrawals = append(r.withdrawals, &c)
	return nil
}

func (r *WithdrawalRepository) List(_ context.Context, f models.ListFilter) ([]*models.Withdrawal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*models.Withdrawal, 0)
	for _, w := range r.withdrawals {
		if w.UserID != f.UserID {
			continue
		}
		if f.Status != nil && w.Status != *f.Status {
			continue
		}
		c := *w
		matched = append(matched, &c)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if f.Offset >= len(matched) {
		return []*models.Withdrawal{}, nil
	}
	end := f.Offset + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[f.Offset:end], nil
}

// Count returns the number of stored withdrawals.
func (r *WithdrawalRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.withdrawals)
}
