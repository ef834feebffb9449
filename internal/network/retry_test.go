package network

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBackoffRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	b := Backoff{Attempts: 3, Delay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

	err := b.Retry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestBackoffRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	b := Backoff{Attempts: 4, Delay: time.Millisecond, MaxDelay: time.Millisecond}

	err := b.Retry(context.Background(), func() error {
		calls++
		return errors.New("boom")
	})
	if err == nil {
		t.Fatalf("Retry() error = nil, want error")
	}
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("Retry() error = %v, want ErrRequestFailed", err)
	}
	if calls != 4 {
		t.Fatalf("calls = %d, want 4", calls)
	}
}

func TestBackoffRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := Backoff{Attempts: 5, Delay: time.Hour}
	err := b.Retry(ctx, func() error { return errors.New("always") })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Retry() error = %v, want context.Canceled", err)
	}
}
