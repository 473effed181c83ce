package tool

import (
	"context"
	"time"
)

// Retry runs fn up to attempts times with a fixed delay between attempts,
// stopping early on the first nil error or when ctx is cancelled. The last
// error (or ctx.Err) is returned when every attempt fails.
//
// Both the panel target resolution and the visibility checks retry this way;
// keeping one helper makes the attempt/delay policy explicit instead of
// burying it in nested timer callbacks.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}

// RetryValue is Retry for functions that produce a value.
func RetryValue[T any](ctx context.Context, attempts int, delay time.Duration, fn func() (T, error)) (T, error) {
	var out T
	err := Retry(ctx, attempts, delay, func() error {
		v, err := fn()
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
