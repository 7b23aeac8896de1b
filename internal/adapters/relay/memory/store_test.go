package memory

import (
	"context"
	"testing"
	"time"

	"github.com/dkeye/Call/internal/domain"
	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("nothing delivered")
	}
	var zero T
	return zero
}

func TestStore_OfferAnswerRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewStore()

	id, err := s.CreateCall(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	_, err = s.FetchOffer(ctx, id)
	require.ErrorIs(t, err, domain.ErrOfferNotReady)

	offer := webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: "offer"}
	require.NoError(t, s.PublishOffer(ctx, id, offer))
	got, err := s.FetchOffer(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, offer, got)

	answers, err := s.SubscribeAnswer(ctx, id)
	require.NoError(t, err)

	answer := webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: "answer"}
	require.NoError(t, s.PublishAnswer(ctx, id, answer))
	require.NoError(t, s.PublishAnswer(ctx, id, answer))
	assert.Equal(t, answer, recv(t, answers))
	assert.Equal(t, answer, recv(t, answers), "redelivered")

	doc, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, &offer, doc.Offer)
	assert.Equal(t, answer, *doc.Answer)
}

func TestStore_LateSubscriberReplays(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewStore()
	id, err := s.CreateCall(ctx)
	require.NoError(t, err)

	c1 := webrtc.ICECandidateInit{Candidate: "candidate:1"}
	c2 := webrtc.ICECandidateInit{Candidate: "candidate:2"}
	c3 := webrtc.ICECandidateInit{Candidate: "candidate:3"}
	require.NoError(t, s.PublishCandidate(ctx, id, domain.RoleCaller, c1))
	require.NoError(t, s.PublishCandidate(ctx, id, domain.RoleCaller, c2))
	require.NoError(t, s.PublishCandidate(ctx, id, domain.RoleCallee, webrtc.ICECandidateInit{Candidate: "other side"}))

	ch, err := s.SubscribeCandidates(ctx, id, domain.RoleCaller)
	require.NoError(t, err)
	assert.Equal(t, c1, recv(t, ch))
	assert.Equal(t, c2, recv(t, ch))

	require.NoError(t, s.PublishCandidate(ctx, id, domain.RoleCaller, c3))
	assert.Equal(t, c3, recv(t, ch))

	doc, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"offerCandidates": 3, "answerCandidates": 1}, doc.Candidates)
}

func TestStore_SubscriptionEndsWithContext(t *testing.T) {
	s := NewStore()
	id, err := s.CreateCall(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := s.SubscribeAnswer(ctx, id)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not closed")
	}
}

func TestStore_UnknownCall(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	missing := domain.NewCallID()

	assert.ErrorIs(t, s.PublishOffer(ctx, missing, webrtc.SessionDescription{}), domain.ErrCallNotFound)
	_, err := s.FetchOffer(ctx, missing)
	assert.ErrorIs(t, err, domain.ErrCallNotFound)
	assert.ErrorIs(t, s.PublishAnswer(ctx, missing, webrtc.SessionDescription{}), domain.ErrCallNotFound)
	_, err = s.SubscribeAnswer(ctx, missing)
	assert.ErrorIs(t, err, domain.ErrCallNotFound)
	_, err = s.SubscribeCandidates(ctx, missing, domain.RoleCaller)
	assert.ErrorIs(t, err, domain.ErrCallNotFound)
	_, err = s.Get(missing)
	assert.ErrorIs(t, err, domain.ErrCallNotFound)

	id, err := s.CreateCall(ctx)
	require.NoError(t, err)
	assert.Error(t, s.PublishCandidate(ctx, id, domain.Role("observer"), webrtc.ICECandidateInit{}))
}

func TestStore_EvictIdleCalls(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	s := NewStore()
	s.now = func() time.Time { return now }

	stale, err := s.CreateCall(ctx)
	require.NoError(t, err)
	busy, err := s.CreateCall(ctx)
	require.NoError(t, err)

	now = now.Add(40 * time.Minute)
	require.NoError(t, s.PublishOffer(ctx, busy, webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: "offer"}))

	now = now.Add(30 * time.Minute)
	assert.Equal(t, 1, s.Evict(time.Hour))
	assert.Equal(t, 1, s.Len())
	_, err = s.Get(stale)
	assert.ErrorIs(t, err, domain.ErrCallNotFound)
	_, err = s.FetchOffer(ctx, busy)
	assert.NoError(t, err, "touched 30 minutes ago")

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, s.Evict(time.Hour))
	assert.Zero(t, s.Len())
}

func TestStore_SweepDisabled(t *testing.T) {
	s := NewStore()
	_, err := s.CreateCall(context.Background())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Sweep(context.Background(), 0)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweep with no idle limit should return at once")
	}
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, time.Second, sweepInterval(time.Second))
	assert.Equal(t, 15*time.Minute, sweepInterval(time.Hour))
}
