package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RefreshFunc produces a fresh snapshot value.
type RefreshFunc func(ctx context.Context) (any, error)

// Snapshot is a process-wide cache refreshed on a fixed interval by a
// single writer goroutine, read by any number of request handlers. It
// replaces the ambient mutable singleton the legacy polling server used:
// access goes through an explicit read/write lock, so readers can at
// worst observe a stale snapshot, never a torn one.
type Snapshot struct {
	refresh  RefreshFunc
	interval time.Duration
	log      *zap.Logger

	mu        sync.RWMutex
	value     any
	updatedAt time.Time
}

// NewSnapshot creates a snapshot cache with the given refresh function
// and interval.
func NewSnapshot(refresh RefreshFunc, interval time.Duration, log *zap.Logger) *Snapshot {
	if log == nil {
		log = zap.NewNop()
	}
	return &Snapshot{refresh: refresh, interval: interval, log: log}
}

// Start performs one synchronous refresh, then refreshes on the interval
// until the context is cancelled. A failed refresh keeps the previous
// snapshot; staleness is preferable to an empty cache.
func (s *Snapshot) Start(ctx context.Context) {
	s.tick(ctx)
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(ctx)
			}
		}
	}()
}

func (s *Snapshot) tick(ctx context.Context) {
	value, err := s.refresh(ctx)
	if err != nil {
		s.log.Warn("snapshot refresh failed, keeping previous value", zap.Error(err))
		return
	}
	s.mu.Lock()
	s.value = value
	s.updatedAt = time.Now()
	s.mu.Unlock()
}

// Get returns the current snapshot, its refresh time, and whether a
// snapshot has been taken yet.
func (s *Snapshot) Get() (any, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.updatedAt, !s.updatedAt.IsZero()
}
