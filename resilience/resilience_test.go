package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errPrimary = errors.New("primary down")

func TestCallWithFallback_PrimarySucceeds(t *testing.T) {
	fallbackRan := false
	res, err := CallWithFallback(context.Background(), time.Second,
		func(ctx context.Context) (int, error) { return 42, nil },
		func(ctx context.Context) (int, error) { fallbackRan = true; return 0, nil },
	)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if res.Value != 42 || res.UsedFallback {
		t.Fatalf("result = %+v", res)
	}
	if fallbackRan {
		t.Fatalf("fallback ran despite primary success")
	}
}

func TestCallWithFallback_FallbackOnError(t *testing.T) {
	res, err := CallWithFallback(context.Background(), time.Second,
		func(ctx context.Context) (string, error) { return "", errPrimary },
		func(ctx context.Context) (string, error) { return "local", nil },
	)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if res.Value != "local" || !res.UsedFallback {
		t.Fatalf("result = %+v", res)
	}
}

func TestCallWithFallback_FallbackOnTimeout(t *testing.T) {
	res, err := CallWithFallback(context.Background(), 10*time.Millisecond,
		func(ctx context.Context) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
		func(ctx context.Context) (string, error) { return "local", nil },
	)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if !res.UsedFallback || res.Value != "local" {
		t.Fatalf("result = %+v", res)
	}
}

func TestCallWithFallback_FallbackRunsExactlyOnce(t *testing.T) {
	calls := 0
	_, err := CallWithFallback(context.Background(), time.Second,
		func(ctx context.Context) (int, error) { return 0, errPrimary },
		func(ctx context.Context) (int, error) { calls++; return 0, errors.New("also down") },
	)
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls != 1 {
		t.Fatalf("fallback ran %d times", calls)
	}

	var both *FallbackError
	if !errors.As(err, &both) {
		t.Fatalf("err = %v", err)
	}
	if !errors.Is(both.Primary, errPrimary) {
		t.Fatalf("primary error lost: %v", both.Primary)
	}
}

func TestCallWithFallback_NilFallbackReturnsPrimaryError(t *testing.T) {
	_, err := CallWithFallback[int](context.Background(), time.Second,
		func(ctx context.Context) (int, error) { return 0, errPrimary },
		nil,
	)
	if !errors.Is(err, errPrimary) {
		t.Fatalf("err = %v", err)
	}
}

func TestCallWithFallback_CallerDeadlineSkipsFallback(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fallbackRan := false
	_, err := CallWithFallback(ctx, time.Second,
		func(ctx context.Context) (int, error) { return 0, ctx.Err() },
		func(ctx context.Context) (int, error) { fallbackRan = true; return 1, nil },
	)
	if err == nil {
		t.Fatalf("expected error")
	}
	if fallbackRan {
		t.Fatalf("fallback ran on a dead context")
	}
}
