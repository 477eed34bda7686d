// Package memory holds process-local building blocks for the in-memory
// storage driver used in local runs and tests.
package memory

import (
	"context"
	"sync"
	"time"
)

type txKey struct{}

// Transactor serializes transactional sections. It gives isolation between
// callers of WithinTx but no rollback: a failing fn leaves earlier writes in
// place.
type Transactor struct {
	mu sync.Mutex
}

func NewTransactor() *Transactor {
	return &Transactor{}
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, struct{}{}))
}

// Clock is a monotonic time source for stores. Successive calls never return
// the same instant, so created_at ordering is strict.
type Clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now().UTC()
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

// Sequence hands out increasing int64 identifiers starting at 1.
type Sequence struct {
	mu   sync.Mutex
	next int64
}

func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}
