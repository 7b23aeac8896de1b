package core

// Listeners holds one optional callback per session event. A nil slot is
// skipped.
type Listeners struct {
	// OnReady fires once, when local media is attached and the session is Ready.
	OnReady func()
	// OnChangeState fires on every transition; query State() for the value.
	OnChangeState func()
}

type notification int

const (
	notifyChangeState notification = iota
	notifyReady
)

// OnReady replaces the ready callback.
func (s *Session) OnReady(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners.OnReady = fn
}

// OnChangeState replaces the state change callback.
func (s *Session) OnChangeState(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners.OnChangeState = fn
}

func (s *Session) dispatch(n notification) {
	s.mu.RLock()
	var fn func()
	switch n {
	case notifyChangeState:
		fn = s.listeners.OnChangeState
	case notifyReady:
		fn = s.listeners.OnReady
	}
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// enqueue must be called with s.mu held so notifications keep transition order.
func (s *Session) enqueue(n notification) {
	select {
	case s.notify <- n:
	default:
		s.logger.Warn().Int("notification", int(n)).Msg("notification queue full, dropping")
	}
}
