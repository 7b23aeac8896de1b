package signal

import (
	"context"
	"errors"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

func (ctl *CallWSController) handleDescription(ctx context.Context, c *wsCallConn, msg Message) {
	if msg.SDP == "" {
		ctl.sendError(c, msg.Type+" without sdp")
		return
	}
	var err error
	if msg.Type == TypeOffer {
		err = ctl.Store.PublishOffer(ctx, c.call, msg.Description())
	} else {
		err = ctl.Store.PublishAnswer(ctx, c.call, msg.Description())
	}
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("call", c.call.String()).Str("type", msg.Type).Msg("store description")
		ctl.sendError(c, err.Error())
	}
}

func (ctl *CallWSController) handleCandidate(ctx context.Context, c *wsCallConn, msg Message) {
	if msg.Candidate == nil || !msg.From.Valid() {
		ctl.sendError(c, "candidate needs candidate and from")
		return
	}
	if err := ctl.Store.PublishCandidate(ctx, c.call, msg.From, *msg.Candidate); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("call", c.call.String()).Msg("store candidate")
		ctl.sendError(c, err.Error())
	}
}

// handleSubscribe forwards store additions to the peer for as long as the
// connection lives.
func (ctl *CallWSController) handleSubscribe(ctx context.Context, c *wsCallConn, msg Message) {
	switch msg.Topic {
	case TopicAnswer:
		answers, err := ctl.Store.SubscribeAnswer(ctx, c.call)
		if err != nil {
			ctl.sendError(c, err.Error())
			return
		}
		go forward(ctl, c, answers, func(a webrtc.SessionDescription) Message {
			return Message{Type: TypeAnswer, SDP: a.SDP}
		})
	case TopicCandidates:
		if !msg.From.Valid() {
			ctl.sendError(c, "candidates subscription needs from")
			return
		}
		cands, err := ctl.Store.SubscribeCandidates(ctx, c.call, msg.From)
		if err != nil {
			ctl.sendError(c, err.Error())
			return
		}
		from := msg.From
		go forward(ctl, c, cands, func(cand webrtc.ICECandidateInit) Message {
			return Message{Type: TypeCandidate, From: from, Candidate: &cand}
		})
	default:
		ctl.sendError(c, "unknown topic "+msg.Topic)
		return
	}
	log.Debug().Str("module", "signal").Str("call", c.call.String()).Str("topic", msg.Topic).Str("from", string(msg.From)).Msg("subscribed")
}

// forward relays a subscription until it ends. Subscribers rely on seeing
// every item, so a frame that cannot be queued closes the connection instead
// of being skipped; the peer reconnects and the store replays the collection.
func forward[T any](ctl *CallWSController, c *wsCallConn, items <-chan T, encode func(T) Message) {
	for it := range items {
		err := ctl.sendJSON(c, encode(it))
		if err == nil {
			continue
		}
		if errors.Is(err, ErrBackpressure) {
			log.Warn().Str("module", "signal").Str("call", c.call.String()).Str("client", c.client).Msg("subscriber too slow, closing connection")
			c.Close()
		}
		return
	}
}
