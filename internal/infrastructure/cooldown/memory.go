// Package cooldown limits how often the same wallet can be flexed.
package cooldown

import (
	"context"
	"sync"
	"time"

	"bert_flex/internal/app/port"

	"github.com/patrickmn/go-cache"
)

// MemoryTracker keeps cooldowns in process memory. Entries expire on their own.
type MemoryTracker struct {
	window time.Duration
	items  *cache.Cache
	mu     sync.Mutex
	now    func() time.Time
}

var _ port.CooldownTracker = (*MemoryTracker)(nil)

// NewMemoryTracker creates a tracker with the given cooldown window.
func NewMemoryTracker(window time.Duration) *MemoryTracker {
	return &MemoryTracker{
		window: window,
		items:  cache.New(window, 2*window),
		now:    time.Now,
	}
}

// Acquire implements port.CooldownTracker.
func (t *MemoryTracker) Acquire(_ context.Context, key string) (bool, time.Duration, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if v, found := t.items.Get(key); found {
		if until, ok := v.(time.Time); ok && now.Before(until) {
			return false, until.Sub(now), nil
		}
	}
	t.items.Set(key, now.Add(t.window), t.window)
	return true, 0, nil
}
