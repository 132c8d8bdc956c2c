package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/devops-workshop/demo-apps/pkg/logger"
)

// Persistent connects once in Start and shares the handle with every request
// until Close.
//
// The handle and watcher fields are written before the state moves to READY
// and only read after observing READY or DISCONNECTED, so request handlers
// need no lock.
type Persistent[H Handle] struct {
	open  OpenFunc[H]
	opts  settings
	state atomic.Int32

	handle    H
	stopWatch context.CancelFunc
	watchDone chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// NewPersistent creates a persistent source around open.
func NewPersistent[H Handle](open OpenFunc[H], opts ...Option) *Persistent[H] {
	return &Persistent[H]{
		open: open,
		opts: applyOptions(opts),
	}
}

// Start runs INIT -> CONNECTING -> READY, or INIT -> CONNECTING -> FAILED
// when every connect attempt fails. Attempts are spaced with exponential
// backoff.
func (p *Persistent[H]) Start(ctx context.Context) error {
	if !p.state.CompareAndSwap(int32(StateInit), int32(StateConnecting)) {
		return fmt.Errorf("%w: start in state %s", ErrInvalidState, p.State())
	}
	p.opts.observer.StateChanged(StateConnecting)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.opts.backoffInitial
	b.MaxInterval = p.opts.backoffMax

	attempt := 0
	h, err := backoff.Retry(ctx, func() (H, error) {
		attempt++
		h, err := dial(ctx, p.open, p.opts.connectTimeout)
		p.opts.observer.Opened(err)
		if err != nil {
			logger.Warnf("Database connect attempt %d/%d failed: %v", attempt, p.opts.maxAttempts, err)
		}
		return h, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(p.opts.maxAttempts)))
	if err != nil {
		if p.state.CompareAndSwap(int32(StateConnecting), int32(StateFailed)) {
			p.opts.observer.StateChanged(StateFailed)
		}
		return fmt.Errorf("%w: %w", ErrConnect, err)
	}

	p.handle = h

	var watchCtx context.Context
	pinger, canPing := any(h).(Pinger)
	if canPing && p.opts.healthInterval > 0 {
		watchCtx, p.stopWatch = context.WithCancel(context.WithoutCancel(ctx))
		p.watchDone = make(chan struct{})
	}

	if !p.state.CompareAndSwap(int32(StateConnecting), int32(StateReady)) {
		// Close won the race while we were connecting.
		if p.stopWatch != nil {
			p.stopWatch()
		}
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.opts.closeTimeout)
		defer cancel()
		if err := h.Close(closeCtx); err != nil {
			logger.Warnf("Failed to close database handle: %v", err)
		}
		p.opts.observer.Closed()
		return ErrClosed
	}
	p.opts.observer.StateChanged(StateReady)

	if p.watchDone != nil {
		go p.watch(watchCtx, pinger)
	}
	return nil
}

// Acquire returns the shared handle. Releasing it does nothing; only Close
// closes the shared handle.
func (p *Persistent[H]) Acquire(context.Context) (H, ReleaseFunc, error) {
	var zero H

	switch s := p.State(); s {
	case StateReady, StateDisconnected:
		return p.handle, noopRelease, nil
	case StateClosed:
		return zero, nil, ErrClosed
	default:
		return zero, nil, fmt.Errorf("%w: state %s", ErrNotReady, s)
	}
}

// State returns the cached connection state.
func (p *Persistent[H]) State() State {
	return State(p.state.Load())
}

// Close stops the watcher and closes the shared handle. It is idempotent.
func (p *Persistent[H]) Close(ctx context.Context) error {
	p.closeOnce.Do(func() {
		prev := State(p.state.Swap(int32(StateClosed)))
		p.opts.observer.StateChanged(StateClosed)

		if prev != StateReady && prev != StateDisconnected {
			return
		}

		if p.watchDone != nil {
			p.stopWatch()
			<-p.watchDone
		}

		closeCtx, cancel := context.WithTimeout(ctx, p.opts.closeTimeout)
		defer cancel()

		if err := p.handle.Close(closeCtx); err != nil {
			p.closeErr = fmt.Errorf("close database handle: %w", err)
		}
		p.opts.observer.Closed()
	})
	return p.closeErr
}

func (p *Persistent[H]) watch(ctx context.Context, pinger Pinger) {
	defer close(p.watchDone)

	ticker := time.NewTicker(p.opts.healthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.probe(ctx, pinger)
		}
	}
}

func (p *Persistent[H]) probe(ctx context.Context, pinger Pinger) {
	pingCtx, cancel := context.WithTimeout(ctx, p.opts.connectTimeout)
	defer cancel()

	if err := pinger.Ping(pingCtx); err != nil {
		if p.state.CompareAndSwap(int32(StateReady), int32(StateDisconnected)) {
			logger.Warnf("Database connection lost: %v", err)
			p.opts.observer.StateChanged(StateDisconnected)
		}
		return
	}

	if p.state.CompareAndSwap(int32(StateDisconnected), int32(StateReady)) {
		logger.Info("Database connection restored")
		p.opts.observer.StateChanged(StateReady)
	}
}
