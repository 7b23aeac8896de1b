package app

import (
	"context"
	"errors"

	"github.com/dkeye/Call/internal/core"
	"github.com/dkeye/Call/internal/domain"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

const outboxSize = 64

// outbox returns a candidate forwarder for the session. Publishing happens on
// its own goroutine so the session loop never waits on the network.
func (c *Controller) outbox(ctx context.Context, id domain.CallID, from domain.Role) func(webrtc.ICECandidateInit) {
	queue := make(chan webrtc.ICECandidateInit, outboxSize)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case cand := <-queue:
				if err := c.Relay.PublishCandidate(ctx, id, from, cand); err != nil && ctx.Err() == nil {
					log.Warn().Err(err).Str("module", "app.controller").Str("call", id.String()).Msg("publish candidate")
				}
			}
		}
	}()
	return func(cand webrtc.ICECandidateInit) {
		select {
		case queue <- cand:
		case <-ctx.Done():
		}
	}
}

// pumpAnswers applies every delivered answer; the session ignores all but the
// first. applied is closed once the remote description is in place.
func (c *Controller) pumpAnswers(ctx context.Context, sess *core.Session, answers <-chan webrtc.SessionDescription, applied chan<- struct{}) {
	closed := false
	for answer := range answers {
		if err := sess.Resolve(ctx, answer); err != nil {
			log.Warn().Err(err).Str("module", "app.controller").Str("sid", string(sess.ID())).Msg("resolve answer")
			if errors.Is(err, domain.ErrInvalidState) {
				return
			}
			continue
		}
		if !closed {
			close(applied)
			closed = true
		}
	}
}

// pumpCandidates holds remote candidates until the remote description is
// applied, since the engine refuses them before that.
func (c *Controller) pumpCandidates(ctx context.Context, sess *core.Session, remote <-chan webrtc.ICECandidateInit, applied <-chan struct{}) {
	select {
	case <-applied:
	case <-ctx.Done():
		return
	}
	for cand := range remote {
		if err := sess.AddICECandidate(ctx, cand); err != nil {
			log.Warn().Err(err).Str("module", "app.controller").Str("sid", string(sess.ID())).Msg("add remote candidate")
			if errors.Is(err, domain.ErrInvalidState) {
				return
			}
		}
	}
}
