// Package wsclient talks to the relay server: documents over HTTP, offer,
// answer and candidate traffic over one websocket per call.
package wsclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dkeye/Call/internal/adapters/relay/memory"
	"github.com/dkeye/Call/internal/adapters/signal"
	"github.com/dkeye/Call/internal/core"
	"github.com/dkeye/Call/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

var ErrRateLimited = errors.New("relay: call creation rate limited")

const (
	requestTimeout = 10 * time.Second

	resubscribeAttempts = 3
	resubscribeBackoff  = 250 * time.Millisecond
	// maxResubscribe bounds how often one subscription follows a dropped
	// connection.
	maxResubscribe = 5
)

type Client struct {
	base   *url.URL
	http   *http.Client
	dialer *websocket.Dialer

	mu     sync.Mutex
	conns  map[domain.CallID]*callConn
	closed bool
}

var _ core.SignalRelay = (*Client)(nil)

// New returns a client for the relay at baseURL (http or https). The client
// keeps the server's client token cookie across requests and websockets.
func New(baseURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("relay url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("relay url: unsupported scheme %q", u.Scheme)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		base:   u,
		http:   &http.Client{Jar: jar, Timeout: requestTimeout},
		dialer: &websocket.Dialer{Jar: jar, HandshakeTimeout: requestTimeout},
		conns:  make(map[domain.CallID]*callConn),
	}, nil
}

func (c *Client) endpoint(path string) string {
	u := *c.base
	u.Path += path
	return u.String()
}

func (c *Client) wsEndpoint(id domain.CallID) string {
	u := *c.base
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path += "/api/ws/calls/" + url.PathEscape(id.String())
	return u.String()
}

func (c *Client) CreateCall(ctx context.Context) (domain.CallID, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/api/calls"), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("create call: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
	case http.StatusTooManyRequests:
		return "", ErrRateLimited
	default:
		return "", fmt.Errorf("create call: unexpected status %s", resp.Status)
	}
	var body struct {
		ID domain.CallID `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("create call: decode: %w", err)
	}
	return domain.ParseCallID(body.ID.String())
}

func (c *Client) FetchOffer(ctx context.Context, id domain.CallID) (webrtc.SessionDescription, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/api/calls/"+url.PathEscape(id.String())), nil)
	if err != nil {
		return webrtc.SessionDescription{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("fetch offer: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return webrtc.SessionDescription{}, domain.ErrCallNotFound
	default:
		return webrtc.SessionDescription{}, fmt.Errorf("fetch offer: unexpected status %s", resp.Status)
	}
	var doc memory.Doc
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return webrtc.SessionDescription{}, fmt.Errorf("fetch offer: decode: %w", err)
	}
	if doc.Offer == nil {
		return webrtc.SessionDescription{}, domain.ErrOfferNotReady
	}
	return *doc.Offer, nil
}

func (c *Client) PublishOffer(ctx context.Context, id domain.CallID, offer webrtc.SessionDescription) error {
	return c.send(ctx, id, signal.Message{Type: signal.TypeOffer, SDP: offer.SDP})
}

func (c *Client) PublishAnswer(ctx context.Context, id domain.CallID, answer webrtc.SessionDescription) error {
	return c.send(ctx, id, signal.Message{Type: signal.TypeAnswer, SDP: answer.SDP})
}

func (c *Client) PublishCandidate(ctx context.Context, id domain.CallID, from domain.Role, cand webrtc.ICECandidateInit) error {
	return c.send(ctx, id, signal.Message{Type: signal.TypeCandidate, From: from, Candidate: &cand})
}

func (c *Client) SubscribeAnswer(ctx context.Context, id domain.CallID) (<-chan webrtc.SessionDescription, error) {
	cc, err := c.conn(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make(chan webrtc.SessionDescription)
	sub := &subscription{topic: signal.TopicAnswer, answers: out}
	cc.subscribe(ctx, sub)
	if err := cc.write(sub.request()); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SubscribeCandidates(ctx context.Context, id domain.CallID, from domain.Role) (<-chan webrtc.ICECandidateInit, error) {
	cc, err := c.conn(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make(chan webrtc.ICECandidateInit)
	sub := &subscription{topic: signal.TopicCandidates, from: from, candidates: out}
	cc.subscribe(ctx, sub)
	if err := cc.write(sub.request()); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) send(ctx context.Context, id domain.CallID, msg signal.Message) error {
	cc, err := c.conn(ctx, id)
	if err != nil {
		return err
	}
	return cc.write(msg)
}

// conn returns the websocket of a call, dialing it on first use.
func (c *Client) conn(ctx context.Context, id domain.CallID) (*callConn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, signal.ErrConnClosed
	}
	if cc, ok := c.conns[id]; ok {
		return cc, nil
	}

	ws, resp, err := c.dialer.DialContext(ctx, c.wsEndpoint(id), nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrCallNotFound
		}
		return nil, fmt.Errorf("dial relay: %w", err)
	}
	cc := newCallConn(id, ws)
	cc.onLost = func(subs []*subscription) { c.lost(cc, subs) }
	c.conns[id] = cc
	go cc.readLoop()
	log.Info().Str("module", "relay.ws").Str("call", id.String()).Msg("relay connected")
	return cc, nil
}

// lost forgets a dead connection and moves its subscriptions to a new one.
func (c *Client) lost(cc *callConn, subs []*subscription) {
	c.mu.Lock()
	if c.conns[cc.id] == cc {
		delete(c.conns, cc.id)
	}
	closed := c.closed
	c.mu.Unlock()

	if len(subs) == 0 {
		return
	}
	if closed {
		for _, sub := range subs {
			sub.close()
		}
		return
	}
	log.Warn().Str("module", "relay.ws").Str("call", cc.id.String()).Int("subscriptions", len(subs)).Msg("relay connection lost, resubscribing")
	go c.resubscribe(cc.id, subs)
}

// resubscribe redials the call and repeats each subscription request. The
// relay replays collections from the start, so consumers can see an answer
// or candidate twice. Subscriptions that cannot be carried over are closed.
func (c *Client) resubscribe(id domain.CallID, subs []*subscription) {
	live := subs[:0]
	for _, sub := range subs {
		if sub.ctx.Err() != nil || sub.carried >= maxResubscribe {
			sub.close()
			continue
		}
		sub.carried++
		live = append(live, sub)
	}
	if len(live) == 0 {
		return
	}

	var err error
	for attempt := range resubscribeAttempts {
		if attempt > 0 {
			time.Sleep(resubscribeBackoff)
		}
		var cc *callConn
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		cc, err = c.conn(ctx, id)
		cancel()
		if err != nil {
			if errors.Is(err, domain.ErrCallNotFound) || errors.Is(err, signal.ErrConnClosed) {
				break
			}
			continue
		}
		for _, sub := range live {
			cc.subscribe(sub.ctx, sub)
			if werr := cc.write(sub.request()); werr != nil {
				// the new connection failed too; its read loop hands the
				// subscriptions back
				log.Warn().Err(werr).Str("module", "relay.ws").Str("call", id.String()).Msg("resubscribe write")
				return
			}
		}
		log.Info().Str("module", "relay.ws").Str("call", id.String()).Int("subscriptions", len(live)).Msg("resubscribed")
		return
	}

	log.Error().Err(err).Str("module", "relay.ws").Str("call", id.String()).Msg("resubscribe failed, ending subscriptions")
	for _, sub := range live {
		sub.close()
	}
}

// Close drops every call connection. Subscriptions end with their channels closed.
func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	conns := make([]*callConn, 0, len(c.conns))
	for _, cc := range c.conns {
		conns = append(conns, cc)
	}
	c.mu.Unlock()

	for _, cc := range conns {
		cc.close()
	}
	return nil
}
