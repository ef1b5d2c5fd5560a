// Package fetch provides the rate-limited HTTP client and the scrapers that
// cache source payloads to disk ahead of a migration run.
package fetch

import (
	"context"
	"sync"
	"time"
)

// RateLimiter enforces per-domain request caps over one-second and
// one-minute sliding windows. Safe for concurrent use.
type RateLimiter struct {
	mu        sync.Mutex
	perSecond int
	perMinute int
	history   map[string][]time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRateLimiter creates a limiter allowing perSecond requests per second
// and perMinute per minute, tracked independently per domain.
func NewRateLimiter(perSecond, perMinute int) *RateLimiter {
	return &RateLimiter{
		perSecond: perSecond,
		perMinute: perMinute,
		history:   make(map[string][]time.Time),
		now:       time.Now,
		sleep:     sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Acquire blocks until a request to domain is permitted, or the context is
// cancelled.
func (rl *RateLimiter) Acquire(ctx context.Context, domain string) error {
	for {
		wait := rl.tryAcquire(domain)
		if wait <= 0 {
			return nil
		}
		if err := rl.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// tryAcquire records the request and returns zero when permitted, otherwise
// the duration to wait before retrying.
func (rl *RateLimiter) tryAcquire(domain string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-time.Minute)
	kept := rl.history[domain][:0]
	for _, t := range rl.history[domain] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	rl.history[domain] = kept

	inSecond := 0
	secondCutoff := now.Add(-time.Second)
	for _, t := range kept {
		if t.After(secondCutoff) {
			inSecond++
		}
	}

	if len(kept) >= rl.perMinute {
		return kept[0].Add(time.Minute).Sub(now)
	}
	if inSecond >= rl.perSecond {
		for _, t := range kept {
			if t.After(secondCutoff) {
				return t.Add(time.Second).Sub(now)
			}
		}
	}

	rl.history[domain] = append(kept, now)
	return 0
}
