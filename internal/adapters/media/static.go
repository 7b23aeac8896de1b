package media

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dkeye/Call/internal/core"
	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"
	pionmedia "github.com/pion/webrtc/v4/pkg/media"
	"github.com/rs/zerolog/log"
)

const frameInterval = 20 * time.Millisecond

var (
	// opus encoding of 20ms of silence
	silenceFrame = []byte{0xf8, 0xff, 0xfe}
	// placeholder payload, only meant to keep RTP flowing
	blankFrame = []byte{0x10, 0x02, 0x00, 0x9d, 0x01, 0x2a}
)

var errNothingRequested = errors.New("neither audio nor video requested")

// Static is a headless MediaSource. Its tracks carry silence and a blank
// placeholder picture so the peer sees RTP and fires its track handlers.
type Static struct {
	mu    sync.Mutex
	pumps map[string]context.CancelFunc
}

var _ core.MediaSource = (*Static)(nil)

func NewStatic() *Static {
	return &Static{pumps: make(map[string]context.CancelFunc)}
}

func (s *Static) Acquire(ctx context.Context, c core.MediaConstraints) ([]webrtc.TrackLocal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !c.Audio && !c.Video {
		return nil, errNothingRequested
	}

	streamID := "static-" + uuid.NewString()
	var tracks []webrtc.TrackLocal
	if c.Audio {
		t, err := webrtc.NewTrackLocalStaticSample(
			webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus, ClockRate: 48000, Channels: 2},
			"audio-"+uuid.NewString(), streamID)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
		s.start(t, silenceFrame)
	}
	if c.Video {
		t, err := webrtc.NewTrackLocalStaticSample(
			webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8, ClockRate: 90000},
			"video-"+uuid.NewString(), streamID)
		if err != nil {
			s.Release(tracks)
			return nil, err
		}
		tracks = append(tracks, t)
		s.start(t, blankFrame)
	}

	log.Info().Str("module", "media").Str("stream_id", streamID).Int("tracks", len(tracks)).Msg("static media started")
	return tracks, nil
}

func (s *Static) start(t *webrtc.TrackLocalStaticSample, frame []byte) {
	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.pumps[t.ID()] = cancel
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// Unbound tracks drop samples silently.
				if err := t.WriteSample(pionmedia.Sample{Data: frame, Duration: frameInterval}); err != nil {
					log.Debug().Str("module", "media").Err(err).Str("track_id", t.ID()).Msg("write sample")
				}
			}
		}
	}()
}

// Release stops the sample pumps of the given tracks. Unknown tracks are ignored.
func (s *Static) Release(tracks []webrtc.TrackLocal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tracks {
		if cancel, ok := s.pumps[t.ID()]; ok {
			cancel()
			delete(s.pumps, t.ID())
		}
	}
}

// Active reports how many tracks are still pumping samples.
func (s *Static) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pumps)
}
