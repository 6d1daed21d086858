package geo

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestUpdater_ImmediateAndPeriodicPushes(t *testing.T) {
	var pushes int64
	u := NewUpdater(
		staticProvider(Position{Latitude: 1, Longitude: 2, Accuracy: 15}, nil),
		func(ctx context.Context, pos Position) error {
			atomic.AddInt64(&pushes, 1)
			return nil
		},
		20*time.Millisecond,
		Options{EnableHighAccuracy: true, Timeout: time.Second},
		nil,
		nil,
	)

	u.Start(context.Background())
	defer u.Stop()

	deadline := time.After(2 * time.Second)
	for atomic.LoadInt64(&pushes) < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 pushes, got %d", atomic.LoadInt64(&pushes))
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestUpdater_StopHaltsPushes(t *testing.T) {
	var mu sync.Mutex
	pushes := 0

	u := NewUpdater(
		staticProvider(Position{Latitude: 1, Longitude: 2}, nil),
		func(ctx context.Context, pos Position) error {
			mu.Lock()
			pushes++
			mu.Unlock()
			return nil
		},
		10*time.Millisecond,
		Options{Timeout: time.Second},
		nil,
		nil,
	)

	u.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	u.Stop()

	if u.IsRunning() {
		t.Fatalf("updater should not report running after Stop")
	}

	mu.Lock()
	after := pushes
	mu.Unlock()

	// no push may fire once Stop has returned
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	final := pushes
	mu.Unlock()

	if final != after {
		t.Fatalf("push fired after Stop: %d -> %d", after, final)
	}
}

func TestUpdater_StopIdempotentAndStartNoopWhileRunning(t *testing.T) {
	u := NewUpdater(
		staticProvider(Position{}, nil),
		func(ctx context.Context, pos Position) error { return nil },
		time.Hour,
		Options{},
		nil,
		nil,
	)

	u.Stop() // never started

	u.Start(context.Background())
	u.Start(context.Background()) // second Start is a no-op
	if !u.IsRunning() {
		t.Fatalf("expected running")
	}

	u.Stop()
	u.Stop() // second Stop is a no-op
}

func TestUpdater_RateLimiterThrottles(t *testing.T) {
	var pushes int64
	// allow exactly one push
	limiter := rate.NewLimiter(rate.Limit(0), 1)

	u := NewUpdater(
		staticProvider(Position{}, nil),
		func(ctx context.Context, pos Position) error {
			atomic.AddInt64(&pushes, 1)
			return nil
		},
		5*time.Millisecond,
		Options{Timeout: time.Second},
		limiter,
		nil,
	)

	u.Start(context.Background())
	time.Sleep(60 * time.Millisecond)
	u.Stop()

	if got := atomic.LoadInt64(&pushes); got != 1 {
		t.Fatalf("expected the limiter to allow exactly 1 push, got %d", got)
	}
}

func TestUpdater_ProviderFailureDoesNotPush(t *testing.T) {
	var pushes int64
	u := NewUpdater(
		staticProvider(Position{}, &Error{Kind: KindPositionUnavailable}),
		func(ctx context.Context, pos Position) error {
			atomic.AddInt64(&pushes, 1)
			return nil
		},
		10*time.Millisecond,
		Options{Timeout: time.Second},
		nil,
		nil,
	)

	u.Start(context.Background())
	time.Sleep(40 * time.Millisecond)
	u.Stop()

	if got := atomic.LoadInt64(&pushes); got != 0 {
		t.Fatalf("expected no pushes when fixes fail, got %d", got)
	}
}
