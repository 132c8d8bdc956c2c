package lifecycle

// State is the connection state owned by a Source. Health reporting reads it
// through State() instead of inspecting driver internals.
type State int32

const (
	// StateInit is the state before Start has been called.
	StateInit State = iota
	// StateConnecting means the initial connection is being established.
	StateConnecting
	// StateReady means the connection is usable.
	StateReady
	// StateFailed means the initial connection could not be established.
	StateFailed
	// StateDisconnected means a previously ready connection stopped answering pings.
	StateDisconnected
	// StateClosed means the connection was released during shutdown.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateConnecting:
		return "CONNECTING"
	case StateReady:
		return "READY"
	case StateFailed:
		return "FAILED"
	case StateDisconnected:
		return "DISCONNECTED"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Connected reports whether the state counts as connected for health checks.
func (s State) Connected() bool {
	return s == StateReady
}
