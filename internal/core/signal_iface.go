package core

import (
	"context"

	"github.com/dkeye/Call/internal/domain"
	"github.com/pion/webrtc/v4"
)

//go:generate mockgen -source=signal_iface.go -destination=mocks/mock_signal.go -package=mocks

// SignalRelay carries offer, answer and candidates between the two peers of a
// call. Delivery is at-least-once and unordered; subscriptions replay what is
// already stored and then follow new additions until ctx is done.
type SignalRelay interface {
	CreateCall(ctx context.Context) (domain.CallID, error)
	PublishOffer(ctx context.Context, id domain.CallID, offer webrtc.SessionDescription) error
	FetchOffer(ctx context.Context, id domain.CallID) (webrtc.SessionDescription, error)
	PublishAnswer(ctx context.Context, id domain.CallID, answer webrtc.SessionDescription) error
	SubscribeAnswer(ctx context.Context, id domain.CallID) (<-chan webrtc.SessionDescription, error)
	PublishCandidate(ctx context.Context, id domain.CallID, from domain.Role, c webrtc.ICECandidateInit) error
	SubscribeCandidates(ctx context.Context, id domain.CallID, from domain.Role) (<-chan webrtc.ICECandidateInit, error)
}
