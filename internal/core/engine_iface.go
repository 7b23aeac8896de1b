package core

import (
	"context"

	"github.com/dkeye/Call/internal/domain"
	"github.com/pion/webrtc/v4"
)

//go:generate mockgen -source=engine_iface.go -destination=mocks/mock_engine.go -package=mocks

// ConnectionEngine drives offer/answer negotiation and media transport for one
// call. Owned by the session that created it; the session must Close() it.
type ConnectionEngine interface {
	// AddTrack attaches a local track to the connection.
	AddTrack(track webrtc.TrackLocal) error
	CreateOffer(ctx context.Context) (webrtc.SessionDescription, error)
	CreateAnswer(ctx context.Context) (webrtc.SessionDescription, error)
	SetLocalDescription(ctx context.Context, desc webrtc.SessionDescription) error
	SetRemoteDescription(ctx context.Context, desc webrtc.SessionDescription) error
	// RemoteDescription returns the applied remote description, or nil.
	RemoteDescription() *webrtc.SessionDescription
	// AddICECandidate applies a remote ICE candidate.
	AddICECandidate(candidate webrtc.ICECandidateInit) error
	// Events delivers engine side notifications. It is closed after Close.
	Events() <-chan EngineEvent
	// Close should stop all underlying transport resources.
	Close() error
}

// EngineFactory builds the engine of a new session.
type EngineFactory func(sid domain.SessionID) (ConnectionEngine, error)

// EngineEvent is one of CandidateDiscovered, TrackArrived, ConnectionStateChanged.
type EngineEvent interface {
	engineEvent()
}

// CandidateDiscovered reports a locally gathered ICE candidate.
type CandidateDiscovered struct {
	Candidate webrtc.ICECandidateInit
}

// TrackArrived reports a track contributed by the peer.
type TrackArrived struct {
	Track RemoteTrack
}

// ConnectionStateChanged mirrors the peer connection state.
type ConnectionStateChanged struct {
	State webrtc.PeerConnectionState
}

func (CandidateDiscovered) engineEvent()    {}
func (TrackArrived) engineEvent()           {}
func (ConnectionStateChanged) engineEvent() {}

// RemoteTrack is the part of *webrtc.TrackRemote the session cares about.
type RemoteTrack interface {
	ID() string
	StreamID() string
	Kind() webrtc.RTPCodecType
}
