package app

import (
	"context"
	"sync"

	"github.com/dkeye/Call/internal/core"
	"github.com/dkeye/Call/internal/domain"
	"github.com/rs/zerolog/log"
)

// Observer is the UI side of a controller. Calls come from session loop
// goroutines and must not block for long.
type Observer interface {
	StateChanged(s domain.State)
	// MediaReady hands over the local stream and the (still filling) remote one.
	MediaReady(local *core.LocalStream, remote *core.RemoteStream)
}

type nopObserver struct{}

func (nopObserver) StateChanged(domain.State)                         {}
func (nopObserver) MediaReady(*core.LocalStream, *core.RemoteStream) {}

// Controller owns the current call session and glues it to the relay.
// There is always exactly one current session; Hangup swaps in a fresh one.
type Controller struct {
	Registry  *Registry
	Relay     core.SignalRelay
	NewEngine core.EngineFactory
	Media     core.MediaSource
	Options   core.Options
	Observer  Observer

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	current *core.Session
	closed  bool
}

func NewController(reg *Registry, relay core.SignalRelay, newEngine core.EngineFactory, media core.MediaSource, opts core.Options, obs Observer) *Controller {
	if obs == nil {
		obs = nopObserver{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		Registry:  reg,
		Relay:     relay,
		NewEngine: newEngine,
		Media:     media,
		Options:   opts,
		Observer:  obs,
		ctx:       ctx,
		cancel:    cancel,
	}
	c.current = c.newSession()
	return c
}

func (c *Controller) newSession() *core.Session {
	var sess *core.Session
	assigned := make(chan struct{})

	opts := c.Options
	opts.Listeners = core.Listeners{
		OnChangeState: func() {
			<-assigned
			c.onChangeState(sess)
		},
		OnReady: func() {
			<-assigned
			c.onReady(sess)
		},
	}
	sess = core.New(domain.NewSessionID(), c.NewEngine, c.Media, opts)
	close(assigned)

	if err := c.Registry.Add(sess); err != nil {
		// uuid collision with a retired id
		log.Error().Err(err).Str("module", "app.controller").Str("sid", string(sess.ID())).Msg("register session")
	}
	return sess
}

func (c *Controller) onChangeState(sess *core.Session) {
	st := sess.State()
	log.Info().Str("module", "app.controller").Str("sid", string(sess.ID())).Str("state", st.String()).Msg("state changed")
	if st == domain.StateFailed {
		log.Error().Err(sess.Err()).Str("module", "app.controller").Str("sid", string(sess.ID())).Msg("call failed")
	}
	c.Observer.StateChanged(st)
}

func (c *Controller) onReady(sess *core.Session) {
	c.Observer.MediaReady(sess.LocalStream(), sess.RemoteStream())
}

// Current returns the session calls are placed on.
func (c *Controller) Current() *core.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Hangup closes the current session and prepares a fresh one, returned.
func (c *Controller) Hangup() *core.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.current
	}
	old := c.current
	old.Close()
	c.Registry.Retire(old.ID())
	c.current = c.newSession()
	log.Info().Str("module", "app.controller").Str("old", string(old.ID())).Str("sid", string(c.current.ID())).Msg("hung up")
	return c.current
}

// Close ends the current session without preparing another.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	c.current.Close()
	c.Registry.Retire(c.current.ID())
}
