package lifecycle

import (
	"context"
	"fmt"
	"sync/atomic"
)

// PerRequest opens a fresh handle for every acquisition and closes it on release.
//
// There is no shared connection, so the state starts READY and follows the
// outcome of the latest open: a failed open flips it to DISCONNECTED and the
// next successful one flips it back.
type PerRequest[H Handle] struct {
	open  OpenFunc[H]
	opts  settings
	state atomic.Int32
}

// NewPerRequest creates a per-request source around open.
func NewPerRequest[H Handle](open OpenFunc[H], opts ...Option) *PerRequest[H] {
	p := &PerRequest[H]{
		open: open,
		opts: applyOptions(opts),
	}
	p.state.Store(int32(StateReady))
	return p
}

// Start is a no-op; per-request sources connect lazily.
func (p *PerRequest[H]) Start(context.Context) error {
	return nil
}

// Acquire opens a new handle. The returned ReleaseFunc closes it.
func (p *PerRequest[H]) Acquire(ctx context.Context) (H, ReleaseFunc, error) {
	var zero H

	if p.State() == StateClosed {
		return zero, nil, ErrClosed
	}

	h, err := dial(ctx, p.open, p.opts.connectTimeout)
	p.opts.observer.Opened(err)
	if err != nil {
		p.transition(StateReady, StateDisconnected)
		return zero, nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	p.transition(StateDisconnected, StateReady)

	return h, releaser(ctx, h, p.opts.closeTimeout, p.opts.observer), nil
}

// State returns the cached connection state.
func (p *PerRequest[H]) State() State {
	return State(p.state.Load())
}

// Close stops handing out handles. Handles already acquired are released by
// their own requests.
func (p *PerRequest[H]) Close(context.Context) error {
	if State(p.state.Swap(int32(StateClosed))) != StateClosed {
		p.opts.observer.StateChanged(StateClosed)
	}
	return nil
}

func (p *PerRequest[H]) transition(from, to State) {
	if p.state.CompareAndSwap(int32(from), int32(to)) {
		p.opts.observer.StateChanged(to)
	}
}
