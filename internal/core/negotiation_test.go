package core_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/Call/internal/core"
	"github.com/dkeye/Call/internal/domain"
	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	testOffer  = webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: "v=0\r\no=- 1 1 IN IP4 0.0.0.0\r\n"}
	testAnswer = webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: "v=0\r\no=- 2 1 IN IP4 0.0.0.0\r\n"}
)

func TestSession_CallerFlow(t *testing.T) {
	f := newFixture(t)
	rec := &recorder{}
	s, _ := f.ready(core.Options{Constraints: avConstraints, Listeners: rec.listeners()})
	ctx := testCtx(t)

	f.engine.EXPECT().CreateOffer(gomock.Any()).Return(testOffer, nil)
	f.engine.EXPECT().SetLocalDescription(gomock.Any(), testOffer).Return(nil)

	offer, err := s.StartCall(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, testOffer, offer)
	assert.Equal(t, domain.StateCalling, s.State())
	require.NotNil(t, s.LocalDescription())
	assert.Equal(t, testOffer, *s.LocalDescription())

	// The relay redelivers the answer; only the first one reaches the engine.
	f.engine.EXPECT().RemoteDescription().Return(nil)
	f.engine.EXPECT().SetRemoteDescription(gomock.Any(), testAnswer).Return(nil).Times(1)

	require.NoError(t, s.Resolve(ctx, testAnswer))
	assert.Equal(t, domain.StateConnected, s.State())
	require.NoError(t, s.Resolve(ctx, testAnswer))
	assert.Equal(t, domain.StateConnected, s.State())
	require.NotNil(t, s.RemoteDescription())
	assert.Equal(t, testAnswer, *s.RemoteDescription())

	s.Close()
	waitClosed(t, s)
	assert.Equal(t, []string{"change", "ready", "change", "change", "change"}, rec.snapshot())
}

func TestSession_ResolveSkipsWhenEngineAlreadyHasRemote(t *testing.T) {
	f := newFixture(t)
	s, _ := f.ready(core.Options{})
	ctx := testCtx(t)

	f.engine.EXPECT().CreateOffer(gomock.Any()).Return(testOffer, nil)
	f.engine.EXPECT().SetLocalDescription(gomock.Any(), testOffer).Return(nil)
	_, err := s.StartCall(ctx, nil)
	require.NoError(t, err)

	applied := testAnswer
	f.engine.EXPECT().RemoteDescription().Return(&applied)

	require.NoError(t, s.Resolve(ctx, testAnswer))
	assert.Equal(t, domain.StateCalling, s.State())
}

func TestSession_AnswererFlow(t *testing.T) {
	f := newFixture(t)
	s, _ := f.ready(core.Options{Constraints: avConstraints})
	ctx := testCtx(t)

	gomock.InOrder(
		f.engine.EXPECT().SetRemoteDescription(gomock.Any(), testOffer).Return(nil),
		f.engine.EXPECT().CreateAnswer(gomock.Any()).Return(testAnswer, nil),
		f.engine.EXPECT().SetLocalDescription(gomock.Any(), testAnswer).Return(nil),
	)

	answer, err := s.AnswerCall(ctx, testOffer, nil)
	require.NoError(t, err)
	assert.Equal(t, testAnswer, answer)
	assert.Equal(t, domain.StateConnected, s.State())
	assert.Equal(t, testOffer, *s.RemoteDescription())
	assert.Equal(t, testAnswer, *s.LocalDescription())

	// A stray answer on the answering side is absorbed.
	require.NoError(t, s.Resolve(ctx, testAnswer))
	assert.Equal(t, domain.StateConnected, s.State())
}

func TestSession_AnswerWaitsForInitialisation(t *testing.T) {
	f := newFixture(t)
	tracks := testTracks(t)
	gate := make(chan struct{})
	f.media.EXPECT().Acquire(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ core.MediaConstraints) ([]webrtc.TrackLocal, error) {
			<-gate
			return tracks, nil
		})
	f.engine.EXPECT().AddTrack(gomock.Any()).Return(nil).Times(2)
	f.engine.EXPECT().SetRemoteDescription(gomock.Any(), testOffer).Return(nil)
	f.engine.EXPECT().CreateAnswer(gomock.Any()).Return(testAnswer, nil)
	f.engine.EXPECT().SetLocalDescription(gomock.Any(), testAnswer).Return(nil)
	f.engine.EXPECT().Close().Return(nil)
	f.media.EXPECT().Release(tracks)

	s := f.start(core.Options{})
	require.Equal(t, domain.StateInitializing, s.State())

	type result struct {
		desc webrtc.SessionDescription
		err  error
	}
	ctx := testCtx(t)
	out := make(chan result, 1)
	go func() {
		desc, err := s.AnswerCall(ctx, testOffer, nil)
		out <- result{desc, err}
	}()
	close(gate)

	select {
	case r := <-out:
		require.NoError(t, r.err)
		assert.Equal(t, testAnswer, r.desc)
	case <-time.After(waitTimeout):
		t.Fatal("answer did not complete")
	}
	assert.Equal(t, domain.StateConnected, s.State())
	assert.Len(t, s.LocalStream().Tracks(), 2)
}

func TestSession_StrictAnswerRequiresReady(t *testing.T) {
	f := newFixture(t)
	s, _ := f.ready(core.Options{StrictAnswer: true})
	ctx := testCtx(t)

	f.engine.EXPECT().CreateOffer(gomock.Any()).Return(testOffer, nil)
	f.engine.EXPECT().SetLocalDescription(gomock.Any(), testOffer).Return(nil)
	_, err := s.StartCall(ctx, nil)
	require.NoError(t, err)

	_, err = s.AnswerCall(ctx, testOffer, nil)
	var se *domain.StateError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, domain.StateCalling, se.State)
	assert.Equal(t, domain.StateCalling, s.State())
}

func TestSession_InvalidStateLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t)
	s, _ := f.ready(core.Options{})
	ctx := testCtx(t)

	f.engine.EXPECT().RemoteDescription().Return(nil)
	err := s.Resolve(ctx, testAnswer)
	require.ErrorIs(t, err, domain.ErrInvalidState, "no offer outstanding")
	assert.Equal(t, domain.StateReady, s.State())

	f.engine.EXPECT().SetRemoteDescription(gomock.Any(), testOffer).Return(nil)
	f.engine.EXPECT().CreateAnswer(gomock.Any()).Return(testAnswer, nil)
	f.engine.EXPECT().SetLocalDescription(gomock.Any(), testAnswer).Return(nil)
	_, err = s.AnswerCall(ctx, testOffer, nil)
	require.NoError(t, err)

	_, err = s.StartCall(ctx, nil)
	var se *domain.StateError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "start call", se.Op)
	assert.Equal(t, domain.StateConnected, se.State)
	assert.Equal(t, domain.StateConnected, s.State())
}

func TestSession_NegotiationErrors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name  string
		setup func(f *fixture)
	}{
		{
			name: "create offer fails",
			setup: func(f *fixture) {
				f.engine.EXPECT().CreateOffer(gomock.Any()).Return(webrtc.SessionDescription{}, boom)
			},
		},
		{
			name: "empty offer",
			setup: func(f *fixture) {
				f.engine.EXPECT().CreateOffer(gomock.Any()).Return(webrtc.SessionDescription{Type: webrtc.SDPTypeOffer}, nil)
			},
		},
		{
			name: "offer of wrong type",
			setup: func(f *fixture) {
				f.engine.EXPECT().CreateOffer(gomock.Any()).Return(testAnswer, nil)
			},
		},
		{
			name: "local offer refused",
			setup: func(f *fixture) {
				f.engine.EXPECT().CreateOffer(gomock.Any()).Return(testOffer, nil)
				f.engine.EXPECT().SetLocalDescription(gomock.Any(), testOffer).Return(boom)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			s, _ := f.ready(core.Options{})
			tt.setup(f)

			_, err := s.StartCall(testCtx(t), nil)
			require.ErrorIs(t, err, domain.ErrNegotiation)
			assert.Equal(t, domain.StateReady, s.State())
			assert.Nil(t, s.LocalDescription())
		})
	}
}

func TestSession_ResolveRejectsMalformedAnswer(t *testing.T) {
	f := newFixture(t)
	s, _ := f.ready(core.Options{})
	ctx := testCtx(t)

	f.engine.EXPECT().CreateOffer(gomock.Any()).Return(testOffer, nil)
	f.engine.EXPECT().SetLocalDescription(gomock.Any(), testOffer).Return(nil)
	_, err := s.StartCall(ctx, nil)
	require.NoError(t, err)

	f.engine.EXPECT().RemoteDescription().Return(nil).Times(2)
	err = s.Resolve(ctx, webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer})
	require.ErrorIs(t, err, domain.ErrNegotiation)

	f.engine.EXPECT().SetRemoteDescription(gomock.Any(), testAnswer).Return(errors.New("fingerprint mismatch"))
	err = s.Resolve(ctx, testAnswer)
	require.ErrorIs(t, err, domain.ErrNegotiation)
	assert.Equal(t, domain.StateCalling, s.State())
	assert.Nil(t, s.RemoteDescription())
}

func TestSession_AnswerRejectsMalformedOffer(t *testing.T) {
	f := newFixture(t)
	s, _ := f.ready(core.Options{})

	_, err := s.AnswerCall(testCtx(t), webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: "v=0"}, nil)
	require.ErrorIs(t, err, domain.ErrNegotiation)
	assert.Equal(t, domain.StateReady, s.State())
}

func TestSession_LocalCandidatesForwarded(t *testing.T) {
	f := newFixture(t)
	s, _ := f.ready(core.Options{})
	ctx := testCtx(t)

	var mu sync.Mutex
	var got []string
	forward := func(c webrtc.ICECandidateInit) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, c.Candidate)
	}
	collected := func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), got...)
	}

	f.engine.EXPECT().CreateOffer(gomock.Any()).Return(testOffer, nil)
	f.engine.EXPECT().SetLocalDescription(gomock.Any(), testOffer).Return(nil)
	_, err := s.StartCall(ctx, forward)
	require.NoError(t, err)

	f.events <- core.CandidateDiscovered{Candidate: webrtc.ICECandidateInit{Candidate: "candidate:1"}}
	f.events <- core.CandidateDiscovered{Candidate: webrtc.ICECandidateInit{Candidate: "candidate:2"}}
	require.Eventually(t, func() bool { return len(collected()) == 2 }, waitTimeout, 5*time.Millisecond)
	assert.Equal(t, []string{"candidate:1", "candidate:2"}, collected())

	s.Close()
	waitClosed(t, s)
	f.events <- core.CandidateDiscovered{Candidate: webrtc.ICECandidateInit{Candidate: "candidate:late"}}
	assert.Len(t, collected(), 2)
}

func TestSession_AddICECandidate(t *testing.T) {
	f := newFixture(t)
	s, _ := f.ready(core.Options{})
	ctx := testCtx(t)

	good := webrtc.ICECandidateInit{Candidate: "candidate:1 1 udp 2130706431 10.0.0.2 50000 typ host"}
	bad := webrtc.ICECandidateInit{Candidate: "garbage"}
	f.engine.EXPECT().AddICECandidate(good).Return(nil)
	f.engine.EXPECT().AddICECandidate(bad).Return(errors.New("remote description not set"))

	require.NoError(t, s.AddICECandidate(ctx, good))
	err := s.AddICECandidate(ctx, bad)
	require.ErrorIs(t, err, domain.ErrCandidateRejected)
	assert.Equal(t, domain.StateReady, s.State())
	assert.NoError(t, s.Err())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, s.AddICECandidate(cancelled, good), context.Canceled)
}
