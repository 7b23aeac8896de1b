package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMediaAcquisition: camera or microphone unavailable or denied.
	ErrMediaAcquisition = errors.New("media acquisition failed")
	// ErrEngineSetup: the connection engine could not be built or wired.
	ErrEngineSetup = errors.New("connection engine setup failed")
	// ErrInvalidState: operation called in a state that forbids it.
	ErrInvalidState = errors.New("invalid state")
	// ErrNegotiation: malformed or rejected offer/answer.
	ErrNegotiation = errors.New("negotiation failed")
	// ErrCandidateRejected: the engine refused a remote candidate.
	ErrCandidateRejected = errors.New("candidate rejected")
	// ErrConnectionFailed: the engine lost the peer for good.
	ErrConnectionFailed = errors.New("connection failed")
	// ErrSessionRetired: the session id was closed and will not be reissued.
	ErrSessionRetired = errors.New("session retired")
	// ErrSessionNotFound: no live session under that id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrCallBound: the session already serves a call.
	ErrCallBound = errors.New("session already bound to a call")
	// ErrCallNotFound: no relay document for the call id.
	ErrCallNotFound = errors.New("call not found")
	// ErrOfferNotReady: the call exists but its offer was not published yet.
	ErrOfferNotReady = errors.New("offer not published")
)

// StateError carries the state an operation was refused in.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s in state %s", e.Op, ErrInvalidState, e.State)
}

func (e *StateError) Unwrap() error { return ErrInvalidState }

func NewStateError(op string, s State) error {
	return &StateError{Op: op, State: s}
}
