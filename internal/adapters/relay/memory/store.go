// Package memory keeps call documents in process: one offer, the answers as
// they are published and a candidate collection per role.
package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dkeye/Call/internal/core"
	"github.com/dkeye/Call/internal/domain"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

type call struct {
	mu         sync.RWMutex
	offer      *webrtc.SessionDescription
	answers    *feed[webrtc.SessionDescription]
	candidates map[domain.Role]*feed[webrtc.ICECandidateInit]
	// touched is the unix nano time of the last access.
	touched atomic.Int64
}

func newCall() *call {
	return &call{
		answers: newFeed[webrtc.SessionDescription](),
		candidates: map[domain.Role]*feed[webrtc.ICECandidateInit]{
			domain.RoleCaller: newFeed[webrtc.ICECandidateInit](),
			domain.RoleCallee: newFeed[webrtc.ICECandidateInit](),
		},
	}
}

// Doc is a point in time view of a call document.
type Doc struct {
	ID     domain.CallID              `json:"id"`
	Offer  *webrtc.SessionDescription `json:"offer,omitempty"`
	Answer *webrtc.SessionDescription `json:"answer,omitempty"`
	// Candidate counts per collection name (offerCandidates, answerCandidates).
	Candidates map[string]int `json:"candidates"`
}

type errInvalidRole domain.Role

func (e errInvalidRole) Error() string { return fmt.Sprintf("invalid role %q", string(e)) }

// Store holds call documents until they sit idle for longer than the sweep
// allows; nothing else removes them.
type Store struct {
	mu    sync.RWMutex
	calls map[domain.CallID]*call
	now   func() time.Time
}

var _ core.SignalRelay = (*Store)(nil)

func NewStore() *Store {
	return &Store{calls: make(map[domain.CallID]*call), now: time.Now}
}

func (s *Store) get(id domain.CallID) (*call, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.calls[id]
	if !ok {
		return nil, domain.ErrCallNotFound
	}
	c.touched.Store(s.now().UnixNano())
	return c, nil
}

func (s *Store) CreateCall(ctx context.Context) (domain.CallID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := domain.NewCallID()
	c := newCall()
	s.mu.Lock()
	c.touched.Store(s.now().UnixNano())
	s.calls[id] = c
	s.mu.Unlock()
	log.Info().Str("module", "relay.memory").Str("call", id.String()).Msg("call created")
	return id, nil
}

func (s *Store) PublishOffer(ctx context.Context, id domain.CallID, offer webrtc.SessionDescription) error {
	c, err := s.get(id)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.offer = &offer
	c.mu.Unlock()
	log.Debug().Str("module", "relay.memory").Str("call", id.String()).Msg("offer stored")
	return nil
}

func (s *Store) FetchOffer(ctx context.Context, id domain.CallID) (webrtc.SessionDescription, error) {
	c, err := s.get(id)
	if err != nil {
		return webrtc.SessionDescription{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.offer == nil {
		return webrtc.SessionDescription{}, domain.ErrOfferNotReady
	}
	return *c.offer, nil
}

// PublishAnswer appends; every answer is delivered to subscribers, the
// caller side is expected to apply only the first.
func (s *Store) PublishAnswer(ctx context.Context, id domain.CallID, answer webrtc.SessionDescription) error {
	c, err := s.get(id)
	if err != nil {
		return err
	}
	c.answers.append(answer)
	log.Debug().Str("module", "relay.memory").Str("call", id.String()).Msg("answer stored")
	return nil
}

func (s *Store) SubscribeAnswer(ctx context.Context, id domain.CallID) (<-chan webrtc.SessionDescription, error) {
	c, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return c.answers.subscribe(ctx), nil
}

func (s *Store) PublishCandidate(ctx context.Context, id domain.CallID, from domain.Role, cand webrtc.ICECandidateInit) error {
	c, err := s.get(id)
	if err != nil {
		return err
	}
	f, ok := c.candidates[from]
	if !ok {
		return errInvalidRole(from)
	}
	f.append(cand)
	return nil
}

func (s *Store) SubscribeCandidates(ctx context.Context, id domain.CallID, from domain.Role) (<-chan webrtc.ICECandidateInit, error) {
	c, err := s.get(id)
	if err != nil {
		return nil, err
	}
	f, ok := c.candidates[from]
	if !ok {
		return nil, errInvalidRole(from)
	}
	return f.subscribe(ctx), nil
}

// Get returns the current document, with the latest answer.
func (s *Store) Get(id domain.CallID) (Doc, error) {
	c, err := s.get(id)
	if err != nil {
		return Doc{}, err
	}
	doc := Doc{ID: id, Candidates: make(map[string]int, len(c.candidates))}
	c.mu.RLock()
	doc.Offer = c.offer
	c.mu.RUnlock()
	if answers, _ := c.answers.since(0); len(answers) > 0 {
		doc.Answer = &answers[len(answers)-1]
	}
	for role, f := range c.candidates {
		doc.Candidates[role.CandidateCollection()] = f.len()
	}
	return doc, nil
}

// Evict drops every call not read or written for maxIdle and reports how many
// went. Open subscriptions keep their channel until their context ends.
func (s *Store) Evict(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle).UnixNano()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, c := range s.calls {
		if c.touched.Load() < cutoff {
			delete(s.calls, id)
			n++
		}
	}
	return n
}

// Sweep evicts idle calls until ctx ends. A non-positive maxIdle keeps calls
// for the life of the process.
func (s *Store) Sweep(ctx context.Context, maxIdle time.Duration) {
	if maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(sweepInterval(maxIdle))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Evict(maxIdle); n > 0 {
				log.Info().Str("module", "relay.memory").Int("evicted", n).Int("calls", s.Len()).Msg("idle calls evicted")
			}
		}
	}
}

func sweepInterval(maxIdle time.Duration) time.Duration {
	return max(maxIdle/4, time.Second)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.calls)
}
