package app

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dkeye/Call/internal/core"
	"github.com/dkeye/Call/internal/domain"
	"github.com/rs/zerolog/log"
)

// CreateCall waits for local media, opens a call document, publishes the
// offer and keeps feeding the peer's answer and candidates into the session
// until hangup.
func (c *Controller) CreateCall(ctx context.Context) (domain.CallID, error) {
	sess := c.Current()
	if err := sess.WaitReady(ctx); err != nil {
		return "", err
	}
	if err := c.claimable("create call", sess, domain.StateReady); err != nil {
		return "", err
	}

	id, err := c.Relay.CreateCall(ctx)
	if err != nil {
		return "", fmt.Errorf("create call: %w", err)
	}
	callCtx, cancel := context.WithCancel(c.ctx)
	if err := c.bind("create call", sess, id, domain.RoleCaller, cancel); err != nil {
		cancel()
		return "", err
	}
	fail := func(err error) (domain.CallID, error) {
		cancel()
		return "", err
	}

	answers, err := c.Relay.SubscribeAnswer(callCtx, id)
	if err != nil {
		return fail(fmt.Errorf("subscribe answer: %w", err))
	}
	remote, err := c.Relay.SubscribeCandidates(callCtx, id, domain.RoleCallee)
	if err != nil {
		return fail(fmt.Errorf("subscribe candidates: %w", err))
	}

	offer, err := sess.StartCall(ctx, c.outbox(callCtx, id, domain.RoleCaller))
	if err != nil {
		return fail(err)
	}
	if err := c.Relay.PublishOffer(ctx, id, offer); err != nil {
		return fail(fmt.Errorf("publish offer: %w", err))
	}

	applied := make(chan struct{})
	go c.pumpAnswers(callCtx, sess, answers, applied)
	go c.pumpCandidates(callCtx, sess, remote, applied)

	log.Info().Str("module", "app.controller").Str("sid", string(sess.ID())).Str("call", id.String()).Msg("call created")
	return id, nil
}

// AnswerCall joins the call document id as the callee.
func (c *Controller) AnswerCall(ctx context.Context, id domain.CallID) error {
	sess := c.Current()
	if err := c.claimable("answer call", sess); err != nil {
		return err
	}

	offer, err := c.Relay.FetchOffer(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch offer: %w", err)
	}
	callCtx, cancel := context.WithCancel(c.ctx)
	if err := c.bind("answer call", sess, id, domain.RoleCallee, cancel); err != nil {
		cancel()
		return err
	}

	remote, err := c.Relay.SubscribeCandidates(callCtx, id, domain.RoleCaller)
	if err != nil {
		cancel()
		return fmt.Errorf("subscribe candidates: %w", err)
	}

	answer, err := sess.AnswerCall(ctx, offer, c.outbox(callCtx, id, domain.RoleCallee))
	if err != nil {
		cancel()
		return err
	}
	if err := c.Relay.PublishAnswer(ctx, id, answer); err != nil {
		cancel()
		return fmt.Errorf("publish answer: %w", err)
	}

	// The offer is already applied, candidates can flow right away.
	applied := make(chan struct{})
	close(applied)
	go c.pumpCandidates(callCtx, sess, remote, applied)

	log.Info().Str("module", "app.controller").Str("sid", string(sess.ID())).Str("call", id.String()).Msg("call answered")
	return nil
}

// claimable accepts an unbound live session in one of the allowed states (any
// live state when none are given). It runs before the relay is touched so a
// refused call leaves nothing behind.
func (c *Controller) claimable(op string, sess *core.Session, allowed ...domain.State) error {
	st := sess.State()
	if _, _, bound := c.Registry.CallOf(sess.ID()); bound || st.Terminal() {
		return domain.NewStateError(op, st)
	}
	if len(allowed) > 0 && !slices.Contains(allowed, st) {
		return domain.NewStateError(op, st)
	}
	return nil
}

// bind loses to a concurrent call on the same session with a state error.
func (c *Controller) bind(op string, sess *core.Session, id domain.CallID, role domain.Role, cancel context.CancelFunc) error {
	err := c.Registry.BindCall(sess.ID(), id, role, cancel)
	if errors.Is(err, domain.ErrCallBound) {
		log.Warn().Str("module", "app.controller").Str("sid", string(sess.ID())).Str("call", id.String()).Msg("session taken by a concurrent call")
		return domain.NewStateError(op, sess.State())
	}
	return err
}
