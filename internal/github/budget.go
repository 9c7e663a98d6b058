package github

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RequestBudget throttles GitHub API calls against the observed rate limit.
// It starts with a conservative allowance and tightens itself from the
// X-RateLimit-* and Retry-After headers of every response it sees.
type RequestBudget struct {
	mu        sync.Mutex
	remaining int
	reset     time.Time
	cooldown  time.Time
	now       func() time.Time
}

func NewRequestBudget() *RequestBudget {
	return &RequestBudget{
		remaining: 5000, // conservative default until the first response arrives
		reset:     time.Now().Add(1 * time.Hour),
		now:       time.Now,
	}
}

// Acquire consumes one request from the budget, sleeping through any active
// cooldown or exhausted window. It returns early only on context cancellation.
func (b *RequestBudget) Acquire(ctx context.Context) error {
	if b == nil {
		return fmt.Errorf("Acquire: nil RequestBudget")
	}
	if ctx == nil {
		return fmt.Errorf("Acquire: nil context")
	}

	for {
		b.mu.Lock()
		now := b.now()

		if now.Before(b.cooldown) {
			wait := b.cooldown.Sub(now)
			b.mu.Unlock()
			if err := sleep(ctx, wait); err != nil {
				return err
			}
			continue
		}

		if b.remaining > 0 {
			b.remaining--
			b.mu.Unlock()
			return nil
		}

		// Exhausted. Once the reset time passes, allow the call through; the
		// next UpdateFromResponse refreshes the real allowance.
		if !now.Before(b.reset) {
			b.remaining = 0
			b.mu.Unlock()
			return nil
		}

		wait := b.reset.Sub(now)
		b.mu.Unlock()
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// UpdateFromResponse records the rate-limit state reported by a response.
func (b *RequestBudget) UpdateFromResponse(resp *http.Response) {
	if b == nil || resp == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
			until := b.now().Add(time.Duration(seconds) * time.Second)
			if until.After(b.cooldown) {
				b.cooldown = until
			}
		}
	}
	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil && val >= 0 {
			b.remaining = val
		}
	}
	if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil && val > 0 {
			b.reset = time.Unix(val, 0)
		}
	}
}

// Remaining reports the currently believed request allowance.
func (b *RequestBudget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remaining
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
