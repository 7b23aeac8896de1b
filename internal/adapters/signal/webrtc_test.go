package signal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/Call/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wsPair returns the server end of a live websocket wrapped as a call
// connection with the given send buffer, and the client end.
func wsPair(t *testing.T, buffer int) (*wsCallConn, *websocket.Conn) {
	t.Helper()
	accepted := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		accepted <- ws
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	var ws *websocket.Conn
	select {
	case ws = <-accepted:
	case <-time.After(3 * time.Second):
		t.Fatal("upgrade never happened")
	}
	c := &wsCallConn{
		conn:   ws,
		send:   make(chan []byte, buffer),
		call:   domain.NewCallID(),
		client: "test",
	}
	t.Cleanup(c.Close)
	return c, client
}

func candidateMessage(cand webrtc.ICECandidateInit) Message {
	return Message{Type: TypeCandidate, From: domain.RoleCallee, Candidate: &cand}
}

func TestForward_QueuesEveryItem(t *testing.T) {
	ctl := NewCallWSController(nil, 0, 0)
	c, _ := wsPair(t, 4)

	items := make(chan webrtc.ICECandidateInit, 2)
	items <- webrtc.ICECandidateInit{Candidate: "candidate:1"}
	items <- webrtc.ICECandidateInit{Candidate: "candidate:2"}
	close(items)

	forward(ctl, c, items, candidateMessage)

	require.Len(t, c.send, 2)
	for _, want := range []string{"candidate:1", "candidate:2"} {
		var msg Message
		require.NoError(t, json.Unmarshal(<-c.send, &msg))
		assert.Equal(t, TypeCandidate, msg.Type)
		assert.Equal(t, want, msg.Candidate.Candidate)
	}
	c.mu.RLock()
	assert.False(t, c.closed)
	c.mu.RUnlock()
}

func TestForward_BackpressureClosesConnection(t *testing.T) {
	ctl := NewCallWSController(nil, 0, 0)
	c, client := wsPair(t, 1)

	// unbuffered and never closed: forward must stop on its own
	items := make(chan webrtc.ICECandidateInit)
	done := make(chan struct{})
	go func() {
		defer close(done)
		forward(ctl, c, items, candidateMessage)
	}()

	items <- webrtc.ICECandidateInit{Candidate: "candidate:queued"}
	items <- webrtc.ICECandidateInit{Candidate: "candidate:overflow"}

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("forward kept running after the send buffer filled")
	}

	c.mu.RLock()
	assert.True(t, c.closed, "a slow subscriber loses the connection, not the item")
	c.mu.RUnlock()
	assert.ErrorIs(t, c.TrySend([]byte("{}")), ErrConnClosed)

	require.NoError(t, client.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, _, err := client.ReadMessage()
	assert.Error(t, err, "peer sees the connection drop")
}
