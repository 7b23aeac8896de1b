package core

import (
	"context"

	"github.com/pion/webrtc/v4"
)

//go:generate mockgen -source=media_iface.go -destination=mocks/mock_media.go -package=mocks

// MediaConstraints selects what to capture.
type MediaConstraints struct {
	Audio  bool
	Video  bool
	Width  int
	Height int
}

// MediaSource captures local audio and video. Tracks handed out by Acquire are
// given back through Release once the session no longer needs them.
type MediaSource interface {
	Acquire(ctx context.Context, c MediaConstraints) ([]webrtc.TrackLocal, error)
	Release(tracks []webrtc.TrackLocal)
}
