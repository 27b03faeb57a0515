package signal

import (
	"context"
	"sync"
	"time"

	"github.com/dkeye/Dicode/internal/domain"
)

// JoinLimiter is a sliding-window limit on join requests per user.
type JoinLimiter struct {
	mu       sync.Mutex
	history  map[domain.UserID][]time.Time
	limit    int
	interval time.Duration
	now      func() time.Time
}

func NewJoinLimiter(limit int, interval time.Duration) *JoinLimiter {
	return &JoinLimiter{
		history:  make(map[domain.UserID][]time.Time),
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

func (rl *JoinLimiter) fresh(attempts []time.Time, windowStart time.Time) []time.Time {
	out := attempts[:0]
	for _, t := range attempts {
		if t.After(windowStart) {
			out = append(out, t)
		}
	}
	return out
}

func (rl *JoinLimiter) Allow(uid domain.UserID) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	attempts := rl.fresh(rl.history[uid], now.Add(-rl.interval))
	if len(attempts) >= rl.limit {
		rl.history[uid] = attempts
		return false
	}
	rl.history[uid] = append(attempts, now)
	return true
}

// Sweep forgets users without attempts inside the window.
func (rl *JoinLimiter) Sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	windowStart := rl.now().Add(-rl.interval)
	for uid, attempts := range rl.history {
		if attempts = rl.fresh(attempts, windowStart); len(attempts) == 0 {
			delete(rl.history, uid)
		} else {
			rl.history[uid] = attempts
		}
	}
}

func (rl *JoinLimiter) tracked() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.history)
}

// Run sweeps once per interval until ctx is done.
func (rl *JoinLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(rl.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Sweep()
		}
	}
}
