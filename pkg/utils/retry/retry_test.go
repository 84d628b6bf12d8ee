package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nfdi-tools/magsub/pkg/utils/retry"
)

func TestBlocking(t *testing.T) {
	immediate := retry.Backoff(func(context.Context) error { return nil })

	t.Run("it returns the first successful value", func(t *testing.T) {
		calls := 0
		got, err := retry.Blocking(context.Background(), immediate, func() (string, error) {
			calls += 1
			if calls < 3 {
				return "", retry.ErrRetry
			}
			return "done", nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "done" {
			t.Errorf("unexpected value: %s", got)
		}
		if calls != 3 {
			t.Errorf("f is called %d times, expected 3", calls)
		}
	})

	t.Run("it stops on non-retriable error", func(t *testing.T) {
		expected := errors.New("fatal")
		calls := 0
		_, err := retry.Blocking(context.Background(), immediate, func() (string, error) {
			calls += 1
			return "", expected
		})
		if !errors.Is(err, expected) {
			t.Errorf("unexpected error: %v", err)
		}
		if calls != 1 {
			t.Errorf("f is called %d times, expected 1", calls)
		}
	})

	t.Run("it stops when the context is canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := retry.Blocking(ctx, retry.StaticBackoff(10*time.Millisecond), func() (int, error) {
			return 0, retry.ErrRetry
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestLimited(t *testing.T) {
	t.Run("it gives up with ErrExhausted after max attempts", func(t *testing.T) {
		immediate := retry.Backoff(func(context.Context) error { return nil })
		calls := 0
		_, err := retry.Blocking(context.Background(), retry.Limited(immediate, 4), func() (int, error) {
			calls += 1
			return 0, retry.ErrRetry
		})
		if !errors.Is(err, retry.ErrExhausted) {
			t.Errorf("unexpected error: %v", err)
		}
		if calls != 4 {
			t.Errorf("f is called %d times, expected 4", calls)
		}
	})

	t.Run("it does not interfere before the limit", func(t *testing.T) {
		immediate := retry.Backoff(func(context.Context) error { return nil })
		calls := 0
		got, err := retry.Blocking(context.Background(), retry.Limited(immediate, 10), func() (int, error) {
			calls += 1
			if calls < 2 {
				return 0, retry.ErrRetry
			}
			return 42, nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 42 {
			t.Errorf("unexpected value: %d", got)
		}
	})
}
