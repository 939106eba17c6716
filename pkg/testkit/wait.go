package testkit

import (
	"context"
	"errors"
	"time"
)

const (
	DefaultWaitTimeout  = 10 * time.Second
	DefaultWaitInterval = time.Second
)

// ErrWaitTimeout is returned when a condition never held within the timeout.
var ErrWaitTimeout = errors.New("testkit: timeout waiting for condition")

// WaitForCondition calls check until it reports true, the timeout elapses, or
// ctx ends. Zero timeout or interval take the defaults. An error from check
// stops the wait and is returned as-is.
func WaitForCondition(ctx context.Context, check func(context.Context) (bool, error), timeout, interval time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	if interval <= 0 {
		interval = DefaultWaitInterval
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := check(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ErrWaitTimeout
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
