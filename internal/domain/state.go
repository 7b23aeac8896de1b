package domain

// State of a CallSession. Values only grow, except that Failed may still be
// closed.
type State int

const (
	StateInitializing State = iota
	StateReady
	StateCalling
	StateConnected
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "INITIALIZING"
	case StateReady:
		return "READY"
	case StateCalling:
		return "CALLING"
	case StateConnected:
		return "CONNECTED"
	case StateClosed:
		return "CLOSED"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether no negotiation can happen in s anymore.
func (s State) Terminal() bool {
	return s == StateClosed || s == StateFailed
}

var transitions = map[State][]State{
	StateInitializing: {StateReady, StateFailed, StateClosed},
	StateReady:        {StateCalling, StateConnected, StateFailed, StateClosed},
	StateCalling:      {StateConnected, StateFailed, StateClosed},
	StateConnected:    {StateFailed, StateClosed},
	StateFailed:       {StateClosed},
}

// CanTransition reports whether from -> to is an edge of the call state machine.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
