package rtc

import (
	"context"
	"sync"

	"github.com/dkeye/Call/internal/core"
	"github.com/dkeye/Call/internal/domain"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// eventBuffer covers a full round of host, srflx and relay candidates plus
// the remote tracks and state changes of one call.
const eventBuffer = 128

// Engine is a core.ConnectionEngine over a single pion PeerConnection.
// Callbacks from pion are turned into core.EngineEvent values on Events().
type Engine struct {
	pc     *webrtc.PeerConnection
	sid    domain.SessionID
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
	events chan core.EngineEvent
}

var _ core.ConnectionEngine = (*Engine)(nil)

func NewEngine(api *webrtc.API, cfg webrtc.Configuration, sid domain.SessionID) (*Engine, error) {
	pc, err := api.NewPeerConnection(cfg)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		pc:     pc,
		sid:    sid,
		logger: log.With().Str("module", "webrtc").Str("sid", string(sid)).Logger(),
		events: make(chan core.EngineEvent, eventBuffer),
	}
	e.wire()
	return e, nil
}

func (e *Engine) wire() {
	e.pc.OnICEConnectionStateChange(func(s webrtc.ICEConnectionState) {
		e.logger.Info().Str("ice_state", s.String()).Msg("ICE state")
	})

	e.pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		e.logger.Info().Str("peer_connection_state", s.String()).Msg("Peer state")
		e.emit(core.ConnectionStateChanged{State: s})
	})

	e.pc.OnICECandidate(func(cand *webrtc.ICECandidate) {
		// nil marks the end of gathering
		if cand == nil {
			e.logger.Debug().Msg("ICE gathering complete")
			return
		}
		e.emit(core.CandidateDiscovered{Candidate: cand.ToJSON()})
	})

	e.pc.OnTrack(func(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		e.logger.Info().
			Str("kind", track.Kind().String()).
			Str("track_id", track.ID()).
			Str("stream_id", track.StreamID()).
			Msg("OnTrack received")
		e.emit(core.TrackArrived{Track: track})
	})
}

// emit never blocks a pion callback goroutine. Events after Close are dropped.
func (e *Engine) emit(ev core.EngineEvent) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return
	}
	select {
	case e.events <- ev:
	default:
		e.logger.Warn().Type("event", ev).Msg("event buffer full, dropping")
	}
}

func (e *Engine) Events() <-chan core.EngineEvent { return e.events }

func (e *Engine) AddTrack(track webrtc.TrackLocal) error {
	sender, err := e.pc.AddTrack(track)
	if err != nil {
		return err
	}
	go drainRTCP(sender)
	return nil
}

// drainRTCP reads incoming RTCP so interceptors (NACK, TWCC) keep working.
func drainRTCP(sender *webrtc.RTPSender) {
	buf := make([]byte, 1500)
	for {
		if _, _, err := sender.Read(buf); err != nil {
			return
		}
	}
}

func (e *Engine) CreateOffer(ctx context.Context) (webrtc.SessionDescription, error) {
	if err := ctx.Err(); err != nil {
		return webrtc.SessionDescription{}, err
	}
	return e.pc.CreateOffer(nil)
}

func (e *Engine) CreateAnswer(ctx context.Context) (webrtc.SessionDescription, error) {
	if err := ctx.Err(); err != nil {
		return webrtc.SessionDescription{}, err
	}
	return e.pc.CreateAnswer(nil)
}

func (e *Engine) SetLocalDescription(ctx context.Context, desc webrtc.SessionDescription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.pc.SetLocalDescription(desc)
}

func (e *Engine) SetRemoteDescription(ctx context.Context, desc webrtc.SessionDescription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.pc.SetRemoteDescription(desc)
}

func (e *Engine) RemoteDescription() *webrtc.SessionDescription {
	return e.pc.RemoteDescription()
}

func (e *Engine) AddICECandidate(ci webrtc.ICECandidateInit) error {
	return e.pc.AddICECandidate(ci)
}

// Close shuts the peer connection and closes Events. Safe to call twice.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	close(e.events)
	e.mu.Unlock()

	if err := e.pc.Close(); err != nil {
		e.logger.Error().Err(err).Msg("close error")
		return err
	}
	e.logger.Info().Msg("closed")
	return nil
}
