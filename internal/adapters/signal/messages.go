package signal

import (
	"github.com/dkeye/Call/internal/domain"
	"github.com/pion/webrtc/v4"
)

// Message types on the call websocket.
const (
	TypeOffer     = "offer"
	TypeAnswer    = "answer"
	TypeCandidate = "candidate"
	TypeSubscribe = "subscribe"
	TypePing      = "ping"
	TypePong      = "pong"
	TypeError     = "error"
)

// Subscription topics.
const (
	TopicAnswer     = "answer"
	TopicCandidates = "candidates"
)

// Message is the single envelope used in both directions. Only the fields
// relevant to Type are set.
type Message struct {
	Type string `json:"type"`
	SDP  string `json:"sdp,omitempty"`
	// From is the role that produced a candidate, or the role whose
	// candidates a subscription follows.
	From      domain.Role              `json:"from,omitempty"`
	Topic     string                   `json:"topic,omitempty"`
	Candidate *webrtc.ICECandidateInit `json:"candidate,omitempty"`
	Error     string                   `json:"error,omitempty"`
}

func (m Message) Description() webrtc.SessionDescription {
	t := webrtc.SDPTypeOffer
	if m.Type == TypeAnswer {
		t = webrtc.SDPTypeAnswer
	}
	return webrtc.SessionDescription{Type: t, SDP: m.SDP}
}
