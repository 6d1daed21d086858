package geo

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// PushFunc delivers a fix to the backend as a continuous-update call.
type PushFunc func(ctx context.Context, pos Position) error

// Updater re-acquires a high-accuracy fix on a fixed interval and pushes it
// to the backend. It is independent of the one-shot Flow: starting it does
// not cancel a concurrent Acquire, and vice versa.
type Updater struct {
	provider Provider
	push     PushFunc
	interval time.Duration
	opts     Options
	limiter  *rate.Limiter
	logger   *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

func NewUpdater(p Provider, push PushFunc, interval time.Duration, opts Options, limiter *rate.Limiter, logger *slog.Logger) *Updater {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return &Updater{provider: p, push: push, interval: interval, opts: opts, limiter: limiter, logger: logger}
}

// Start launches the periodic loop, beginning with an immediate update.
// Calling Start while running is a no-op.
func (u *Updater) Start(ctx context.Context) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	u.cancel = cancel
	u.done = make(chan struct{})
	u.running = true

	go u.loop(ctx)
}

func (u *Updater) loop(ctx context.Context) {
	defer close(u.done)

	u.update(ctx)

	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			u.update(ctx)
		}
	}
}

func (u *Updater) update(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if !u.limiter.Allow() {
		u.logger.Debug("geo: continuous update throttled")
		return
	}

	pos, err := u.provider.CurrentPosition(ctx, u.opts)
	if err != nil {
		gerr := Classify(err)
		u.logger.Warn("geo: continuous fix failed", "kind", string(gerr.Kind), "err", err)
		return
	}

	if err := u.push(ctx, pos); err != nil {
		u.logger.Error("geo: continuous push failed", "err", err)
	}
}

// Stop cancels the interval and any outstanding fix request, and waits for
// the loop to exit. No push fires after Stop returns. Safe to call when not
// running.
func (u *Updater) Stop() {
	u.mu.Lock()
	if !u.running {
		u.mu.Unlock()
		return
	}
	cancel := u.cancel
	done := u.done
	u.running = false
	u.mu.Unlock()

	cancel()
	<-done
}

// IsRunning reports whether the periodic loop is active.
func (u *Updater) IsRunning() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.running
}
