package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dkeye/Call/internal/domain"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Transitions per session are bounded (at most five), so this never fills.
const notifyBuffer = 8

var errNoTracks = errors.New("no local tracks")

// Options tune a new Session.
type Options struct {
	Constraints MediaConstraints
	// StrictAnswer makes AnswerCall require the Ready state.
	StrictAnswer bool
	// InitTimeout bounds local media acquisition. Zero means no limit.
	InitTimeout time.Duration
	// Listeners are installed before initialisation starts.
	Listeners Listeners
}

// Session negotiates a single call between this endpoint and one peer.
// It is single use: once Closed or Failed it must be replaced.
type Session struct {
	id     domain.SessionID
	engine ConnectionEngine
	media  MediaSource
	opts   Options
	logger zerolog.Logger

	// opMu serialises negotiation operations against the engine.
	opMu sync.Mutex

	mu          sync.RWMutex
	state       domain.State
	err         error
	local       *LocalStream
	localDesc   *webrtc.SessionDescription
	remoteDesc  *webrtc.SessionDescription
	onCandidate func(webrtc.ICECandidateInit)
	listeners   Listeners

	remote *RemoteStream

	notify     chan notification
	quit       chan struct{}
	done       chan struct{}
	settled    chan struct{}
	cancelInit context.CancelFunc
	closeOnce  sync.Once
}

// New creates the session's engine and starts initialisation in the
// background. Setup failures leave the session Failed; see Err.
func New(sid domain.SessionID, newEngine EngineFactory, media MediaSource, opts Options) *Session {
	s := &Session{
		id:        sid,
		media:     media,
		opts:      opts,
		logger:    log.With().Str("module", "core.session").Str("sid", string(sid)).Logger(),
		state:     domain.StateInitializing,
		listeners: opts.Listeners,
		remote:    &RemoteStream{},
		notify:    make(chan notification, notifyBuffer),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		settled:   make(chan struct{}),
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if opts.InitTimeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), opts.InitTimeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	s.cancelInit = cancel

	engine, err := newEngine(sid)
	if err != nil {
		cancel()
		s.fail(fmt.Errorf("%w: %w", domain.ErrEngineSetup, err))
		close(s.settled)
		go s.loop(nil)
		return s
	}
	s.engine = engine

	go s.loop(engine.Events())
	go s.initialize(ctx)
	return s
}

func (s *Session) initialize(ctx context.Context) {
	defer close(s.settled)
	defer s.cancelInit()

	tracks, err := s.media.Acquire(ctx, s.opts.Constraints)
	if err == nil && len(tracks) == 0 {
		err = errNoTracks
	}
	if err != nil {
		s.fail(fmt.Errorf("%w: %w", domain.ErrMediaAcquisition, err))
		return
	}
	if st := s.State(); st.Terminal() {
		s.logger.Warn().Str("state", st.String()).Msg("media acquired after close, releasing")
		s.media.Release(tracks)
		return
	}

	for _, t := range tracks {
		if err := s.engine.AddTrack(t); err != nil {
			s.media.Release(tracks)
			s.fail(fmt.Errorf("%w: add track %s: %w", domain.ErrEngineSetup, t.ID(), err))
			return
		}
	}

	s.mu.Lock()
	st := s.state
	if !st.Terminal() {
		s.local = newLocalStream(tracks)
		s.transitionLocked(domain.StateReady)
	}
	s.mu.Unlock()

	if st.Terminal() {
		// Closed while capture was in flight.
		s.logger.Warn().Str("state", st.String()).Msg("media acquired after close, releasing")
		s.media.Release(tracks)
		return
	}
	s.logger.Info().Int("tracks", len(tracks)).Msg("local media attached")
}

// loop is the only reader of engine events and the only caller of listeners.
func (s *Session) loop(events <-chan EngineEvent) {
	defer close(s.done)
	for {
		select {
		case n := <-s.notify:
			s.dispatch(n)
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			s.handleEvent(ev)
		case <-s.quit:
			for {
				select {
				case n := <-s.notify:
					s.dispatch(n)
				default:
					return
				}
			}
		}
	}
}

func (s *Session) handleEvent(ev EngineEvent) {
	s.mu.RLock()
	st := s.state
	fwd := s.onCandidate
	s.mu.RUnlock()
	if st == domain.StateClosed {
		return
	}

	switch ev := ev.(type) {
	case CandidateDiscovered:
		if fwd == nil {
			s.logger.Debug().Str("candidate", ev.Candidate.Candidate).Msg("candidate without forwarder, dropped")
			return
		}
		fwd(ev.Candidate)
	case TrackArrived:
		s.remote.add(ev.Track)
		s.logger.Info().
			Str("kind", ev.Track.Kind().String()).
			Str("track_id", ev.Track.ID()).
			Str("stream_id", ev.Track.StreamID()).
			Msg("remote track added")
	case ConnectionStateChanged:
		if ev.State == webrtc.PeerConnectionStateFailed {
			s.fail(fmt.Errorf("%w: peer connection %s", domain.ErrConnectionFailed, ev.State))
		}
	}
}

// transitionLocked requires s.mu held for writing.
func (s *Session) transitionLocked(to domain.State) bool {
	from := s.state
	if !domain.CanTransition(from, to) {
		return false
	}
	s.state = to
	s.logger.Info().Str("from", from.String()).Str("to", to.String()).Msg("state changed")
	s.enqueue(notifyChangeState)
	if to == domain.StateReady {
		s.enqueue(notifyReady)
	}
	return true
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Terminal() {
		s.logger.Debug().Err(err).Str("state", s.state.String()).Msg("error after terminal state ignored")
		return
	}
	s.err = err
	s.transitionLocked(domain.StateFailed)
	s.logger.Error().Err(err).Msg("session failed")
}

// Close releases the engine and local media. Safe from any state and more
// than once; the session cannot be used afterwards.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancelInit()

		s.mu.Lock()
		from := s.state
		s.transitionLocked(domain.StateClosed)
		local := s.local
		s.local = nil
		s.onCandidate = nil
		s.mu.Unlock()

		if s.engine != nil {
			if err := s.engine.Close(); err != nil {
				s.logger.Error().Err(err).Msg("engine close error")
			}
		}
		if local != nil {
			s.media.Release(local.tracks)
		}
		close(s.quit)
		s.logger.Info().Str("from", from.String()).Msg("closed")
	})
}

// WaitReady blocks until initialisation settled. It returns the failure cause
// if the session did not become usable.
func (s *Session) WaitReady(ctx context.Context) error {
	select {
	case <-s.settled:
	case <-ctx.Done():
		return ctx.Err()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch s.state {
	case domain.StateFailed:
		return s.err
	case domain.StateClosed:
		return domain.NewStateError("wait ready", s.state)
	}
	return nil
}

// Done is closed once the session is closed and every notification delivered.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) ID() domain.SessionID { return s.id }

func (s *Session) State() domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Err returns why the session failed, if it did.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// LocalStream returns nil before Ready and after Close.
func (s *Session) LocalStream() *LocalStream {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.local
}

func (s *Session) RemoteStream() *RemoteStream { return s.remote }

func (s *Session) LocalDescription() *webrtc.SessionDescription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.localDesc
}

func (s *Session) RemoteDescription() *webrtc.SessionDescription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remoteDesc
}
