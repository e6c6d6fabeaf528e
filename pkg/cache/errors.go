package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks a Redis call that failed to reach the server. Runners log
// it and render without the cache.
var ErrNetwork = errors.New("cache unreachable")

// RetryableError marks a failure worth another attempt, such as a refused
// connection while Redis restarts.
type RetryableError struct{ Err error }

// Retryable wraps err so Backoff.Retry tries again. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was wrapped with Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff retries an operation with a doubling delay.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// connectBackoff covers a Redis that is still starting: attempts at 0s, 1s
// and 3s.
var connectBackoff = Backoff{Attempts: 3, Delay: time.Second}

// Retry runs fn until it succeeds, returns an error not marked Retryable,
// or runs out of attempts. It returns the context error if ctx ends while
// waiting.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	delay := b.Delay
	var err error
	for i := 0; i < max(1, b.Attempts); i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
	}
	return err
}
