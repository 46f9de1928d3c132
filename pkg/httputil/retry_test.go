package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errPermanent = errors.New("permanent")

func TestRetryableNil(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
}

func TestRetryableError(t *testing.T) {
	err := Retryable(ErrNetwork)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error() = %q, want %q", err.Error(), ErrNetwork.Error())
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("errors.Is should see through RetryableError")
	}
	if IsRetryable(errPermanent) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("success: err = %v, calls = %d, want nil, 1", err, calls)
	}

	calls = 0
	err = Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return errPermanent
	})
	if err != errPermanent || calls != 1 {
		t.Errorf("permanent: err = %v, calls = %d, want %v, 1", err, calls, errPermanent)
	}

	calls = 0
	err = Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("transient: err = %v, calls = %d, want nil, 2", err, calls)
	}

	calls = 0
	err = Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return Retryable(ErrNetwork)
	})
	if !errors.Is(err, ErrNetwork) || calls != 3 {
		t.Errorf("exhausted: err = %v, calls = %d, want %v, 3", err, calls, ErrNetwork)
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Second, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Retry() = %v, want %v", err, context.Canceled)
	}
}

func TestRetryZeroAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 0, time.Millisecond, func() error {
		calls++
		return Retryable(ErrNetwork)
	})
	if calls != 1 || !IsRetryable(err) {
		t.Errorf("err = %v, calls = %d, want retryable error after 1 call", err, calls)
	}
}
