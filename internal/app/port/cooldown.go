package port

import (
	"context"
	"time"
)

// CooldownTracker limits how often the same key may be served.
type CooldownTracker interface {
	// Acquire claims key for the cooldown window. When the key is still cooling down
	// it returns false and the time left.
	Acquire(ctx context.Context, key string) (ok bool, remaining time.Duration, err error)
}
