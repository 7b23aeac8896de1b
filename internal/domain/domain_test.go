package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateInitializing, "INITIALIZING"},
		{StateReady, "READY"},
		{StateCalling, "CALLING"},
		{StateConnected, "CONNECTED"},
		{StateClosed, "CLOSED"},
		{StateFailed, "FAILED"},
		{State(42), "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.state.String())
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from State
		to   State
		ok   bool
	}{
		{"ready after init", StateInitializing, StateReady, true},
		{"init fails", StateInitializing, StateFailed, true},
		{"init skips ready", StateInitializing, StateCalling, false},
		{"init to connected", StateInitializing, StateConnected, false},
		{"caller path", StateReady, StateCalling, true},
		{"answerer path", StateReady, StateConnected, true},
		{"answer applied", StateCalling, StateConnected, true},
		{"no way back to ready", StateCalling, StateReady, false},
		{"connected stays", StateConnected, StateCalling, false},
		{"close connected", StateConnected, StateClosed, true},
		{"close failed", StateFailed, StateClosed, true},
		{"closed is final", StateClosed, StateReady, false},
		{"closed to failed", StateClosed, StateFailed, false},
		{"failed to ready", StateFailed, StateReady, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, CanTransition(tt.from, tt.to))
		})
	}
}

func TestStateTerminal(t *testing.T) {
	assert.True(t, StateClosed.Terminal())
	assert.True(t, StateFailed.Terminal())
	assert.False(t, StateConnected.Terminal())
	assert.False(t, StateInitializing.Terminal())
}

func TestStateError(t *testing.T) {
	err := NewStateError("start call", StateCalling)
	require.True(t, errors.Is(err, ErrInvalidState))

	var se *StateError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StateCalling, se.State)
	assert.Contains(t, err.Error(), "CALLING")
}

func TestParseCallID(t *testing.T) {
	id, err := ParseCallID("abc")
	require.NoError(t, err)
	assert.Equal(t, CallID("abc"), id)

	_, err = ParseCallID("")
	assert.ErrorIs(t, err, ErrCallIDEmpty)

	_, err = ParseCallID(strings.Repeat("x", MaxCallIDLen+1))
	assert.ErrorIs(t, err, ErrCallIDTooLong)
}

func TestRole(t *testing.T) {
	assert.Equal(t, RoleCallee, RoleCaller.Peer())
	assert.Equal(t, RoleCaller, RoleCallee.Peer())
	assert.Equal(t, "offerCandidates", RoleCaller.CandidateCollection())
	assert.Equal(t, "answerCandidates", RoleCallee.CandidateCollection())
	assert.False(t, Role("spectator").Valid())
}

func TestNewIDsAreUnique(t *testing.T) {
	assert.NotEqual(t, NewCallID(), NewCallID())
	assert.NotEqual(t, NewSessionID(), NewSessionID())
}
