package network

import (
	"context"
	"fmt"
	"time"
)

// Backoff retries fn with exponential delays: 1s, 2s, 4s, then 8s between
// the remaining attempts. Retrying stops early when ctx is done.
type Backoff struct {
	Attempts int
	Delay    time.Duration
	MaxDelay time.Duration
}

func DefaultBackoff() Backoff {
	return Backoff{Attempts: 5, Delay: time.Second, MaxDelay: 8 * time.Second}
}

func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	attempts := b.Attempts
	if attempts < 1 {
		attempts = 1
	}

	delay := b.Delay
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if b.MaxDelay > 0 && delay > b.MaxDelay {
				delay = b.MaxDelay
			}
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
	}

	return fmt.Errorf("%w after %d attempts: %v", ErrRequestFailed, attempts, lastErr)
}
