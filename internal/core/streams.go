package core

import (
	"sync"

	"github.com/pion/webrtc/v4"
)

// LocalStream is the set of captured tracks attached to the engine.
type LocalStream struct {
	tracks []webrtc.TrackLocal
}

func newLocalStream(tracks []webrtc.TrackLocal) *LocalStream {
	return &LocalStream{tracks: append([]webrtc.TrackLocal(nil), tracks...)}
}

func (s *LocalStream) Tracks() []webrtc.TrackLocal {
	if s == nil {
		return nil
	}
	return append([]webrtc.TrackLocal(nil), s.tracks...)
}

// RemoteStream accumulates the peer's tracks. Tracks are only ever appended.
type RemoteStream struct {
	mu     sync.RWMutex
	tracks []RemoteTrack
}

func (s *RemoteStream) add(t RemoteTrack) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracks = append(s.tracks, t)
}

func (s *RemoteStream) Tracks() []RemoteTrack {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]RemoteTrack(nil), s.tracks...)
}

func (s *RemoteStream) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tracks)
}
