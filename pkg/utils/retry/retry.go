package retry

import (
	"context"
	"errors"
	"time"
)

// ErrRetry is returned by a polled function to request another attempt.
var ErrRetry = errors.New("retry")

// ErrExhausted is returned by Blocking when a Limited backoff has spent
// all of its attempts without the polled function succeeding.
var ErrExhausted = errors.New("retry attempts exhausted")

// Backoff is a (blocking) function which returns when the next attempt
// may be made.
//
// # Args
//
// - context.Context: If the context is canceled while waiting, Backoff
// returns ctx.Err().
//
// # Returns
//
// - error: nil to retry, non-nil to stop retrying.
type Backoff func(context.Context) error

// StaticBackoff returns a Backoff which waits for a fixed interval
// before each attempt.
func StaticBackoff(interval time.Duration) Backoff {
	return func(ctx context.Context) error {
		timer := time.NewTimer(interval)
		defer func() {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		}
	}
}

// Limited caps a Backoff at a fixed number of waits.
//
// After max waits have elapsed, the next call returns ErrExhausted
// instead of waiting, so a Blocking loop around it terminates instead
// of polling forever against an endpoint which never settles.
func Limited(b Backoff, max int) Backoff {
	remain := max
	return func(ctx context.Context) error {
		if remain <= 0 {
			return ErrExhausted
		}
		remain -= 1
		return b(ctx)
	}
}

// Blocking calls f until it succeeds or stops being retriable.
//
// # Args
//
// - ctx: context
//
// - b: backoff function. It is called before each attempt, the first
// one included.
//
// - f: function to be called. When f returns ErrRetry (possibly
// wrapped), Blocking waits on b and calls f again.
//
// # Returns
//
// - T: last return value of f
//
// - error: error from f (other than ErrRetry), or from b (context
// cancellation, ErrExhausted).
func Blocking[T any](ctx context.Context, b Backoff, f func() (T, error)) (T, error) {
	last := *new(T)
	for {
		if err := b(ctx); err != nil {
			return last, err
		}

		var err error
		last, err = f()
		if err == nil {
			return last, nil
		}
		if errors.Is(err, ErrRetry) {
			continue
		}
		return last, err
	}
}
