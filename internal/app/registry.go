package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkeye/Call/internal/core"
	"github.com/dkeye/Call/internal/domain"
	"github.com/rs/zerolog/log"
)

type sessionEntry struct {
	Session *core.Session
	Call    domain.CallID
	Role    domain.Role
	// Cancel stops the relay traffic bound to the call.
	Cancel context.CancelFunc
}

// Registry is the arena of call sessions. A retired id is remembered so a
// stale handle can never resolve to a newer session.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*sessionEntry
	retired  map[domain.SessionID]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[domain.SessionID]*sessionEntry),
		retired:  make(map[domain.SessionID]struct{}),
	}
}

func (r *Registry) Add(sess *core.Session) error {
	sid := sess.ID()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, gone := r.retired[sid]; gone {
		return domain.ErrSessionRetired
	}
	r.sessions[sid] = &sessionEntry{Session: sess}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("added session")
	return nil
}

func (r *Registry) Get(sid domain.SessionID) (*core.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Session, nil
	}
	if _, gone := r.retired[sid]; gone {
		return nil, domain.ErrSessionRetired
	}
	return nil, domain.ErrSessionNotFound
}

// BindCall records which call and side a session plays. A session serves one
// call for its whole life; binding it again fails with ErrCallBound and leaves
// the existing binding running.
func (r *Registry) BindCall(sid domain.SessionID, call domain.CallID, role domain.Role, cancel context.CancelFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		if _, gone := r.retired[sid]; gone {
			return domain.ErrSessionRetired
		}
		return domain.ErrSessionNotFound
	}
	if e.Call != "" {
		return fmt.Errorf("%w: %s", domain.ErrCallBound, e.Call)
	}
	e.Call, e.Role, e.Cancel = call, role, cancel
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("call", call.String()).Str("role", string(role)).Msg("bound call")
	return nil
}

func (r *Registry) CallOf(sid domain.SessionID) (domain.CallID, domain.Role, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok || e.Call == "" {
		return "", "", false
	}
	return e.Call, e.Role, true
}

// Retire removes the session, cancels its call binding and burns the id.
// It does not close the session.
func (r *Registry) Retire(sid domain.SessionID) bool {
	r.mu.Lock()
	e, ok := r.sessions[sid]
	delete(r.sessions, sid)
	r.retired[sid] = struct{}{}
	r.mu.Unlock()

	if ok && e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Bool("live", ok).Msg("retired session")
	return ok
}

func (r *Registry) Retired(sid domain.SessionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, gone := r.retired[sid]
	return gone
}

// Len counts live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
