package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/araguaina/iptu-portal-bfa/internal/infra/resilience"

	"github.com/sony/gobreaker"
)

var errIgnored = errors.New("client error")

func TestCircuitBreaker_TripsOnFailures(t *testing.T) {
	cb := resilience.NewCircuitBreaker("test", nil)

	for i := 0; i < 5; i++ {
		_, _ = cb.Execute(func() (any, error) { return nil, errors.New("boom") })
	}

	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("expected open breaker, got %s", cb.State())
	}

	_, err := cb.Execute(func() (any, error) { return "ok", nil })
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected ErrOpenState, got %v", err)
	}
}

func TestCircuitBreaker_IgnoresSuccessfulErrors(t *testing.T) {
	cb := resilience.NewCircuitBreaker("test", func(err error) bool {
		return err == nil || errors.Is(err, errIgnored)
	})

	for i := 0; i < 10; i++ {
		_, err := cb.Execute(func() (any, error) { return nil, errIgnored })
		if !errors.Is(err, errIgnored) {
			t.Fatalf("expected the original error, got %v", err)
		}
	}

	if cb.State() != gobreaker.StateClosed {
		t.Fatalf("expected closed breaker, got %s", cb.State())
	}
}

func TestBulkhead_AcquireRelease(t *testing.T) {
	bh := resilience.NewBulkhead(2)

	if err := bh.Acquire(context.Background()); err != nil {
		t.Fatalf("expected acquire, got %v", err)
	}
	if err := bh.Acquire(context.Background()); err != nil {
		t.Fatalf("expected acquire, got %v", err)
	}

	// Third acquire should block; test with timeout context
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := bh.Acquire(ctx)
	if err == nil {
		t.Fatal("expected timeout on third acquire")
	}

	// Release one slot
	bh.Release()

	if err := bh.Acquire(context.Background()); err != nil {
		t.Fatalf("expected acquire after release, got %v", err)
	}
}

func TestBulkhead_Unlimited(t *testing.T) {
	bh := resilience.NewBulkhead(0)

	for i := 0; i < 100; i++ {
		if err := bh.Acquire(context.Background()); err != nil {
			t.Fatalf("expected unlimited acquire, got %v", err)
		}
	}
	bh.Release()
}
