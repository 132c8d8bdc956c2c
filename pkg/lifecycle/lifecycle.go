// Package lifecycle owns database handles for request handlers.
//
// Two styles are supported. A PerRequest source opens a new handle for every
// acquisition and closes it on release. A Persistent source connects once in
// Start, hands the shared handle to every request and closes it in Close.
// Handlers do not care which one they get: they call Use, which guarantees the
// handle is released exactly once on every exit path.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/devops-workshop/demo-apps/pkg/logger"
)

var (
	// ErrNotReady is returned when a persistent handle is requested before Start succeeded.
	ErrNotReady = errors.New("lifecycle: connection not ready")
	// ErrClosed is returned when a handle is requested after Close.
	ErrClosed = errors.New("lifecycle: source closed")
	// ErrConnect wraps failures to open a handle.
	ErrConnect = errors.New("lifecycle: connect failed")
	// ErrInvalidState is returned when Start is called twice.
	ErrInvalidState = errors.New("lifecycle: invalid state transition")
	// ErrUnknownMode is returned by ParseMode for unsupported values.
	ErrUnknownMode = errors.New("lifecycle: unknown connection mode")
)

// Handle is an open channel to a database.
type Handle interface {
	Close(ctx context.Context) error
}

// Pinger is implemented by handles that can verify liveness. Persistent
// sources use it to keep the cached state current.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpenFunc opens a new handle. On error it must not return a usable handle.
type OpenFunc[H Handle] func(ctx context.Context) (H, error)

// ReleaseFunc gives an acquired handle back. Calling it more than once is a no-op.
type ReleaseFunc func()

// Provider hands out handles to request handlers.
type Provider[H Handle] interface {
	Acquire(ctx context.Context) (H, ReleaseFunc, error)
	State() State
}

// Sequencer is the startup and shutdown side of a source.
type Sequencer interface {
	Start(ctx context.Context) error
	Close(ctx context.Context) error
	State() State
}

// Source is a Provider with a startup/shutdown sequence.
type Source[H Handle] interface {
	Provider[H]
	Sequencer
}

// Mode selects the lifecycle style of a Source.
type Mode string

const (
	ModePerRequest Mode = "per-request"
	ModePersistent Mode = "persistent"
)

// ParseMode converts a configuration value into a Mode.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModePerRequest:
		return ModePerRequest, nil
	case ModePersistent:
		return ModePersistent, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, value)
	}
}

// New builds a Source for the given mode.
func New[H Handle](mode Mode, open OpenFunc[H], opts ...Option) (Source[H], error) {
	switch mode {
	case ModePerRequest:
		return NewPerRequest(open, opts...), nil
	case ModePersistent:
		return NewPersistent(open, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// Use acquires a handle from p, runs fn with it and releases the handle on
// every path out of fn, including panics.
func Use[H Handle, R any](ctx context.Context, p Provider[H], fn func(context.Context, H) (R, error)) (R, error) {
	var zero R

	h, release, err := p.Acquire(ctx)
	if err != nil {
		return zero, err
	}
	defer release()

	return fn(ctx, h)
}

// releaser closes h once. The close runs on a context detached from the
// request so a cancelled request still releases its handle.
func releaser(ctx context.Context, h Handle, timeout time.Duration, observer Observer) ReleaseFunc {
	var once sync.Once

	return func() {
		once.Do(func() {
			closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
			defer cancel()

			if err := h.Close(closeCtx); err != nil {
				logger.Warnf("Failed to close database handle: %v", err)
			}
			observer.Closed()
		})
	}
}

func noopRelease() {}

// dial runs open under the connect timeout.
func dial[H Handle](ctx context.Context, open OpenFunc[H], timeout time.Duration) (H, error) {
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return open(dialCtx)
}
