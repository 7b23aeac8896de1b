package media

import (
	"context"
	"fmt"

	"github.com/dkeye/Call/internal/core"
	"github.com/dkeye/Call/internal/domain"
	"github.com/pion/mediadevices"
	"github.com/pion/mediadevices/pkg/prop"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

// Devices captures from the local camera and microphone. Drivers and encoders
// are registered by the binary (blank imports of mediadevices drivers and the
// encoder params behind the codec selector).
type Devices struct {
	selector *mediadevices.CodecSelector
}

var _ core.MediaSource = (*Devices)(nil)

func NewDevices(selector *mediadevices.CodecSelector) *Devices {
	return &Devices{selector: selector}
}

type userMedia struct {
	stream mediadevices.MediaStream
	err    error
}

func (d *Devices) Acquire(ctx context.Context, c core.MediaConstraints) ([]webrtc.TrackLocal, error) {
	constraints := mediadevices.MediaStreamConstraints{Codec: d.selector}
	if c.Audio {
		constraints.Audio = func(mc *mediadevices.MediaTrackConstraints) {}
	}
	if c.Video {
		constraints.Video = func(mc *mediadevices.MediaTrackConstraints) {
			if c.Width > 0 {
				mc.Width = prop.Int(c.Width)
			}
			if c.Height > 0 {
				mc.Height = prop.Int(c.Height)
			}
		}
	}

	// GetUserMedia cannot be interrupted; a stream that shows up after ctx
	// is done gets closed straight away.
	res := make(chan userMedia, 1)
	go func() {
		stream, err := mediadevices.GetUserMedia(constraints)
		res <- userMedia{stream: stream, err: err}
	}()

	var um userMedia
	select {
	case um = <-res:
	case <-ctx.Done():
		go func() {
			if late := <-res; late.err == nil {
				closeTracks(late.stream.GetTracks())
			}
		}()
		return nil, ctx.Err()
	}
	if um.err != nil {
		return nil, fmt.Errorf("%w: get user media: %w", domain.ErrMediaAcquisition, um.err)
	}

	var tracks []webrtc.TrackLocal
	for _, t := range um.stream.GetTracks() {
		t.OnEnded(func(err error) {
			log.Warn().Str("module", "media").Str("track_id", t.ID()).Err(err).Msg("device track ended")
		})
		tracks = append(tracks, t)
	}
	log.Info().Str("module", "media").Int("tracks", len(tracks)).Msg("device media acquired")
	return tracks, nil
}

func (d *Devices) Release(tracks []webrtc.TrackLocal) {
	var mt []mediadevices.Track
	for _, t := range tracks {
		if m, ok := t.(mediadevices.Track); ok {
			mt = append(mt, m)
		}
	}
	closeTracks(mt)
}

func closeTracks(tracks []mediadevices.Track) {
	for _, t := range tracks {
		if err := t.Close(); err != nil {
			log.Error().Str("module", "media").Str("track_id", t.ID()).Err(err).Msg("close device track")
		}
	}
}
