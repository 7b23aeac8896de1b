package core

import (
	"context"
	"fmt"

	"github.com/dkeye/Call/internal/domain"
	"github.com/pion/webrtc/v4"
)

// StartCall creates, commits and returns the local offer. Only valid in Ready.
// Every locally gathered candidate is passed to onLocalCandidate from the
// session loop until the session closes.
func (s *Session) StartCall(ctx context.Context, onLocalCandidate func(webrtc.ICECandidateInit)) (webrtc.SessionDescription, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if st := s.State(); st != domain.StateReady {
		return webrtc.SessionDescription{}, domain.NewStateError("start call", st)
	}
	s.setCandidateForwarder(onLocalCandidate)

	offer, err := s.engine.CreateOffer(ctx)
	if err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("%w: create offer: %w", domain.ErrNegotiation, err)
	}
	if err := validateDescription(offer, webrtc.SDPTypeOffer); err != nil {
		return webrtc.SessionDescription{}, err
	}
	if err := s.engine.SetLocalDescription(ctx, offer); err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("%w: set local offer: %w", domain.ErrNegotiation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.transitionLocked(domain.StateCalling) {
		return webrtc.SessionDescription{}, domain.NewStateError("start call", s.state)
	}
	s.localDesc = &offer
	return offer, nil
}

// Resolve applies the peer's answer. The first answer moves Calling to
// Connected; any later one is ignored, as the relay may redeliver.
func (s *Session) Resolve(ctx context.Context, answer webrtc.SessionDescription) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	st := s.State()
	if st.Terminal() {
		return domain.NewStateError("resolve", st)
	}
	if s.remoteApplied() {
		s.logger.Debug().Str("state", st.String()).Msg("remote description already applied, answer ignored")
		return nil
	}
	if st != domain.StateCalling {
		return domain.NewStateError("resolve", st)
	}
	if err := validateDescription(answer, webrtc.SDPTypeAnswer); err != nil {
		return err
	}
	if err := s.engine.SetRemoteDescription(ctx, answer); err != nil {
		return fmt.Errorf("%w: apply answer: %w", domain.ErrNegotiation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.remoteDesc = &answer
	if !s.transitionLocked(domain.StateConnected) {
		return domain.NewStateError("resolve", s.state)
	}
	return nil
}

// AnswerCall applies the peer's offer and returns the committed local answer.
// Any non-terminal state is accepted unless Options.StrictAnswer is set; a
// session still initialising is waited for first.
func (s *Session) AnswerCall(ctx context.Context, offer webrtc.SessionDescription, onLocalCandidate func(webrtc.ICECandidateInit)) (webrtc.SessionDescription, error) {
	select {
	case <-s.settled:
	case <-ctx.Done():
		return webrtc.SessionDescription{}, ctx.Err()
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	st := s.State()
	if st.Terminal() || (s.opts.StrictAnswer && st != domain.StateReady) {
		return webrtc.SessionDescription{}, domain.NewStateError("answer call", st)
	}
	if err := validateDescription(offer, webrtc.SDPTypeOffer); err != nil {
		return webrtc.SessionDescription{}, err
	}
	s.setCandidateForwarder(onLocalCandidate)

	if err := s.engine.SetRemoteDescription(ctx, offer); err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("%w: apply offer: %w", domain.ErrNegotiation, err)
	}
	s.mu.Lock()
	s.remoteDesc = &offer
	s.mu.Unlock()

	answer, err := s.engine.CreateAnswer(ctx)
	if err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("%w: create answer: %w", domain.ErrNegotiation, err)
	}
	if err := validateDescription(answer, webrtc.SDPTypeAnswer); err != nil {
		return webrtc.SessionDescription{}, err
	}
	if err := s.engine.SetLocalDescription(ctx, answer); err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("%w: set local answer: %w", domain.ErrNegotiation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.transitionLocked(domain.StateConnected) && s.state != domain.StateConnected {
		return webrtc.SessionDescription{}, domain.NewStateError("answer call", s.state)
	}
	s.localDesc = &answer
	return answer, nil
}

// AddICECandidate hands a peer candidate to the engine. The engine may refuse
// candidates that arrive before the remote description; that error is returned
// as is and the session state is left alone.
func (s *Session) AddICECandidate(ctx context.Context, c webrtc.ICECandidateInit) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if st := s.State(); st.Terminal() {
		return domain.NewStateError("add ice candidate", st)
	}
	if err := s.engine.AddICECandidate(c); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCandidateRejected, err)
	}
	return nil
}

func (s *Session) setCandidateForwarder(fn func(webrtc.ICECandidateInit)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCandidate = fn
}

func (s *Session) remoteApplied() bool {
	s.mu.RLock()
	applied := s.remoteDesc != nil
	s.mu.RUnlock()
	return applied || s.engine.RemoteDescription() != nil
}

func validateDescription(desc webrtc.SessionDescription, want webrtc.SDPType) error {
	if desc.SDP == "" {
		return fmt.Errorf("%w: %s without sdp body", domain.ErrNegotiation, want)
	}
	if desc.Type != want {
		return fmt.Errorf("%w: expected %s, got %s", domain.ErrNegotiation, want, desc.Type)
	}
	return nil
}
