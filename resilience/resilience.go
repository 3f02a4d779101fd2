// Package resilience provides the single-fallback call pattern used when a
// preferred remote path has a local substitute: try the primary under a
// bounded timeout, and on failure run the fallback exactly once. No retry
// loops, no backoff ladders.
package resilience

import (
	"context"
	"time"
)

// Result carries the value plus which path produced it, so callers can
// report degraded operation.
type Result[T any] struct {
	Value        T
	UsedFallback bool
}

// CallWithFallback runs primary under the given timeout. When primary
// fails, or when its timeout expires, fallback runs once with whatever
// time remains on the parent context. Both failing returns the fallback
// error wrapped over the primary's.
func CallWithFallback[T any](ctx context.Context, timeout time.Duration, primary, fallback func(context.Context) (T, error)) (Result[T], error) {
	primaryCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		primaryCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	v, primaryErr := primary(primaryCtx)
	if primaryErr == nil {
		return Result[T]{Value: v}, nil
	}
	if fallback == nil {
		return Result[T]{}, primaryErr
	}
	if ctx.Err() != nil {
		// The caller's own deadline is gone; the fallback would only
		// inherit the same dead context.
		return Result[T]{}, primaryErr
	}

	v, fallbackErr := fallback(ctx)
	if fallbackErr != nil {
		return Result[T]{}, &FallbackError{Primary: primaryErr, Fallback: fallbackErr}
	}
	return Result[T]{Value: v, UsedFallback: true}, nil
}

// FallbackError reports that both paths failed.
type FallbackError struct {
	Primary  error
	Fallback error
}

func (e *FallbackError) Error() string {
	return "primary failed: " + e.Primary.Error() + "; fallback failed: " + e.Fallback.Error()
}

// Unwrap exposes the fallback error, which describes the last thing that
// went wrong.
func (e *FallbackError) Unwrap() error { return e.Fallback }
