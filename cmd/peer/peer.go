package main

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/dkeye/Call/internal/core"
	"github.com/dkeye/Call/internal/domain"
)

const remotePoll = 500 * time.Millisecond

// peer logs session progress and drains remote media so pion's buffers
// never stall.
type peer struct {
	ctx    context.Context
	g      *errgroup.Group
	failed chan error

	mu      sync.Mutex
	reading map[string]bool
}

func newPeer(ctx context.Context, g *errgroup.Group) *peer {
	return &peer{
		ctx:     ctx,
		g:       g,
		failed:  make(chan error, 1),
		reading: make(map[string]bool),
	}
}

func (p *peer) StateChanged(s domain.State) {
	log.Info().Str("module", "peer").Str("state", s.String()).Msg("call state")
	if s == domain.StateFailed {
		select {
		case p.failed <- errors.New("call failed"):
		default:
		}
	}
}

func (p *peer) MediaReady(local *core.LocalStream, remote *core.RemoteStream) {
	log.Info().Str("module", "peer").Int("local_tracks", len(local.Tracks())).Msg("local media ready")
	p.g.Go(func() error {
		p.watchRemote(remote)
		return nil
	})
}

func (p *peer) watchRemote(remote *core.RemoteStream) {
	ticker := time.NewTicker(remotePoll)
	defer ticker.Stop()
	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			for _, t := range remote.Tracks() {
				p.startReader(t)
			}
		}
	}
}

func (p *peer) startReader(t core.RemoteTrack) {
	tr, ok := t.(*webrtc.TrackRemote)
	if !ok {
		return
	}
	p.mu.Lock()
	if p.reading[t.ID()] {
		p.mu.Unlock()
		return
	}
	p.reading[t.ID()] = true
	p.mu.Unlock()

	log.Info().Str("module", "peer").Str("kind", t.Kind().String()).Str("track_id", t.ID()).Msg("receiving remote track")
	p.g.Go(func() error {
		var packets int
		for {
			if _, _, err := tr.ReadRTP(); err != nil {
				if !errors.Is(err, io.EOF) {
					log.Debug().Err(err).Str("module", "peer").Str("track_id", t.ID()).Msg("remote track read")
				}
				log.Info().Str("module", "peer").Str("track_id", t.ID()).Int("packets", packets).Msg("remote track ended")
				return nil
			}
			packets++
		}
	})
}
