package signal

import (
	"sync"
	"time"
)

// CreateRateLimiter is a per-client sliding window over call creation.
type CreateRateLimiter struct {
	mu       sync.Mutex
	history  map[string][]time.Time
	limit    int
	interval time.Duration
	now      func() time.Time
}

// NewCreateRateLimiter allows limit creations per interval. A zero limit
// disables the check.
func NewCreateRateLimiter(limit int, interval time.Duration) *CreateRateLimiter {
	return &CreateRateLimiter{
		history:  make(map[string][]time.Time),
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

func (rl *CreateRateLimiter) Allow(client string) bool {
	if rl.limit <= 0 {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	windowStart := now.Add(-rl.interval)

	attempts := rl.history[client]
	fresh := attempts[:0]
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history[client] = fresh
		return false
	}
	rl.history[client] = append(fresh, now)
	return true
}
