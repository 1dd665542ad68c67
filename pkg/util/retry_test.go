package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryFixedSucceedsAfterFailures(t *testing.T) {
	calls := 0
	v, err := RetryFixed(context.Background(), 3, time.Millisecond, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 || calls != 3 {
		t.Fatalf("unexpected v=%d calls=%d", v, calls)
	}
}

func TestRetryFixedExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := RetryFixed(context.Background(), 4, time.Millisecond, func() (string, error) {
		calls++
		return "", errors.New("down")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls != 4 {
		t.Fatalf("expected 4 attempts, got %d", calls)
	}
}

func TestRetryFixedStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()
	_, err := RetryFixed(ctx, 100, 50*time.Millisecond, func() (int, error) {
		calls++
		return 0, errors.New("down")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call before cancel, got %d", calls)
	}
}
