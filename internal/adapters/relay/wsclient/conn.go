package wsclient

import (
	"context"
	"sync"
	"time"

	"github.com/dkeye/Call/internal/adapters/signal"
	"github.com/dkeye/Call/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

type subscription struct {
	ctx        context.Context
	topic      string
	from       domain.Role
	answers    chan webrtc.SessionDescription
	candidates chan webrtc.ICECandidateInit
	// carried counts the connections this subscription was moved to.
	carried int
}

func (s *subscription) request() signal.Message {
	return signal.Message{Type: signal.TypeSubscribe, Topic: s.topic, From: s.from}
}

func (s *subscription) close() {
	if s.answers != nil {
		close(s.answers)
	}
	if s.candidates != nil {
		close(s.candidates)
	}
}

type callConn struct {
	id domain.CallID
	ws *websocket.Conn
	// onLost receives the live subscriptions when the relay drops the
	// connection, or nil after an orderly close.
	onLost func(subs []*subscription)

	writeMu sync.Mutex

	// mu guards subs; delivery happens with mu held so a subscription is
	// never closed under a pending send.
	mu     sync.Mutex
	subs   map[*subscription]struct{}
	done   chan struct{}
	closed bool
}

func newCallConn(id domain.CallID, ws *websocket.Conn) *callConn {
	return &callConn{
		id:     id,
		ws:     ws,
		onLost: func([]*subscription) {},
		subs:   make(map[*subscription]struct{}),
		done:   make(chan struct{}),
	}
}

func (cc *callConn) write(msg signal.Message) error {
	cc.writeMu.Lock()
	defer cc.writeMu.Unlock()
	if err := cc.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return cc.ws.WriteJSON(msg)
}

func (cc *callConn) subscribe(ctx context.Context, sub *subscription) {
	sub.ctx = ctx
	cc.mu.Lock()
	if cc.closed {
		cc.mu.Unlock()
		sub.close()
		return
	}
	cc.subs[sub] = struct{}{}
	cc.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-cc.done:
			return
		}
		cc.mu.Lock()
		defer cc.mu.Unlock()
		if _, ok := cc.subs[sub]; ok {
			delete(cc.subs, sub)
			sub.close()
		}
	}()
}

func (cc *callConn) readLoop() {
	defer cc.lost()
	for {
		var msg signal.Message
		if err := cc.ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Str("module", "relay.ws").Str("call", cc.id.String()).Msg("relay read")
			}
			return
		}
		cc.deliver(msg)
	}
}

func (cc *callConn) deliver(msg signal.Message) {
	switch msg.Type {
	case signal.TypeAnswer, signal.TypeCandidate:
	case signal.TypeError:
		log.Warn().Str("module", "relay.ws").Str("call", cc.id.String()).Str("error", msg.Error).Msg("relay error")
		return
	default:
		return
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	for sub := range cc.subs {
		switch {
		case msg.Type == signal.TypeAnswer && sub.topic == signal.TopicAnswer:
			select {
			case sub.answers <- msg.Description():
			case <-sub.ctx.Done():
			}
		case msg.Type == signal.TypeCandidate && sub.topic == signal.TopicCandidates && sub.from == msg.From && msg.Candidate != nil:
			select {
			case sub.candidates <- *msg.Candidate:
			case <-sub.ctx.Done():
			}
		}
	}
}

// detach marks the connection closed and takes its subscriptions. Only the
// first caller gets ok.
func (cc *callConn) detach() (subs []*subscription, ok bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.closed {
		return nil, false
	}
	cc.closed = true
	close(cc.done)
	for sub := range cc.subs {
		subs = append(subs, sub)
	}
	cc.subs = nil
	return subs, true
}

func (cc *callConn) shutdownWS() {
	cc.writeMu.Lock()
	_ = cc.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	cc.writeMu.Unlock()
	_ = cc.ws.Close()
}

// close ends the connection and every subscription on it.
func (cc *callConn) close() {
	subs, ok := cc.detach()
	if !ok {
		return
	}
	for _, sub := range subs {
		sub.close()
	}
	cc.shutdownWS()
	cc.onLost(nil)
}

// lost runs when reading fails; open subscriptions are handed on, still open.
func (cc *callConn) lost() {
	subs, ok := cc.detach()
	if !ok {
		return
	}
	_ = cc.ws.Close()
	cc.onLost(subs)
}
