package util

import (
	"context"
	"fmt"
	"time"
)

// RetryFixed runs op up to attempts times, sleeping delay between failures.
// It stops early when ctx is done. attempts below 1 is treated as 1.
func RetryFixed[T any](ctx context.Context, attempts int, delay time.Duration, op func() (T, error)) (T, error) {
	if attempts < 1 {
		attempts = 1
	}

	var zero T
	var lastErr error
	for i := 1; i <= attempts; i++ {
		res, err := op()
		if err == nil {
			return res, nil
		}
		lastErr = err
		if i == attempts {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
