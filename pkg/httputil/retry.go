package httputil

import (
	"context"
	"errors"
	"time"
)

// maxRetryDelay caps the doubling backoff between attempts.
const maxRetryDelay = 10 * time.Second

// RetryableError marks a failure worth another attempt: the engine was
// unreachable, timed out, or answered 5xx.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err in a [RetryableError]. Nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err carries a [RetryableError].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Retry calls fn until it succeeds, returns an error that is not retryable,
// or has been called attempts times. The wait starts at delay and doubles
// after every retryable failure, up to 10s. A done ctx ends the wait early
// with ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		err = fn()
		if err == nil || !IsRetryable(err) || attempt >= attempts {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay = min(2*delay, maxRetryDelay)
	}
}
