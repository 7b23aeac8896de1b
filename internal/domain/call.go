// Package domain contains call entities without logic, just meta-data
package domain

import (
	"errors"

	"github.com/google/uuid"
)

const MaxCallIDLen = 64

var (
	ErrCallIDEmpty   = errors.New("call id empty")
	ErrCallIDTooLong = errors.New("call id too long")
)

type (
	// CallID names the relay document both peers meet on.
	CallID string
	// SessionID names one CallSession. Retired ids are never reissued.
	SessionID string
)

func NewCallID() CallID {
	return CallID(uuid.NewString())
}

func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// ParseCallID validates an id that came from outside (flags, URLs).
func ParseCallID(raw string) (CallID, error) {
	if len(raw) == 0 {
		return "", ErrCallIDEmpty
	}
	if len(raw) > MaxCallIDLen {
		return "", ErrCallIDTooLong
	}
	return CallID(raw), nil
}

func (id CallID) String() string    { return string(id) }
func (id SessionID) String() string { return string(id) }

// Role is the side of the call a peer plays.
type Role string

const (
	RoleCaller Role = "caller"
	RoleCallee Role = "callee"
)

// Peer returns the opposite side.
func (r Role) Peer() Role {
	if r == RoleCaller {
		return RoleCallee
	}
	return RoleCaller
}

// CandidateCollection is the relay collection a role publishes its candidates to.
func (r Role) CandidateCollection() string {
	if r == RoleCaller {
		return "offerCandidates"
	}
	return "answerCandidates"
}

func (r Role) Valid() bool {
	return r == RoleCaller || r == RoleCallee
}
