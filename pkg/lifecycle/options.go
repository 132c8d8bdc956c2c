package lifecycle

import "time"

// Default timings used when no Option overrides them.
const (
	DefaultConnectTimeout = 5 * time.Second
	DefaultCloseTimeout   = 5 * time.Second
	DefaultBackoffInitial = 500 * time.Millisecond
	DefaultBackoffMax     = 10 * time.Second
	DefaultMaxAttempts    = 1
)

// Observer is notified about handle opens, closes and state changes.
type Observer interface {
	Opened(err error)
	Closed()
	StateChanged(state State)
}

type nopObserver struct{}

func (nopObserver) Opened(error)       {}
func (nopObserver) Closed()            {}
func (nopObserver) StateChanged(State) {}

type settings struct {
	connectTimeout time.Duration
	closeTimeout   time.Duration
	healthInterval time.Duration
	backoffInitial time.Duration
	backoffMax     time.Duration
	maxAttempts    int
	observer       Observer
}

func defaultSettings() settings {
	return settings{
		connectTimeout: DefaultConnectTimeout,
		closeTimeout:   DefaultCloseTimeout,
		backoffInitial: DefaultBackoffInitial,
		backoffMax:     DefaultBackoffMax,
		maxAttempts:    DefaultMaxAttempts,
		observer:       nopObserver{},
	}
}

func applyOptions(opts []Option) settings {
	s := defaultSettings()
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

// Option customizes a Source.
type Option func(*settings)

// WithConnectTimeout bounds every connect attempt.
func WithConnectTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.connectTimeout = d
		}
	}
}

// WithCloseTimeout bounds every close.
func WithCloseTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.closeTimeout = d
		}
	}
}

// WithHealthInterval enables the connection watcher of a persistent source.
// Zero disables it.
func WithHealthInterval(d time.Duration) Option {
	return func(s *settings) {
		if d >= 0 {
			s.healthInterval = d
		}
	}
}

// WithMaxAttempts sets how many times Start tries to connect.
func WithMaxAttempts(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithBackoff sets the exponential backoff bounds between connect attempts.
func WithBackoff(initial, maxInterval time.Duration) Option {
	return func(s *settings) {
		if initial > 0 {
			s.backoffInitial = initial
		}
		if maxInterval > 0 {
			s.backoffMax = maxInterval
		}
	}
}

// WithObserver registers an observer, typically the metrics collector.
func WithObserver(o Observer) Option {
	return func(s *settings) {
		if o != nil {
			s.observer = o
		}
	}
}
