package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreateRateLimiter_SlidingWindow(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	rl := NewCreateRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "clients are independent")

	now = now.Add(30 * time.Second)
	assert.False(t, rl.Allow("a"))

	now = now.Add(31 * time.Second)
	assert.True(t, rl.Allow("a"), "first attempts slid out of the window")
}

func TestCreateRateLimiter_Disabled(t *testing.T) {
	rl := NewCreateRateLimiter(0, time.Minute)
	for range 100 {
		assert.True(t, rl.Allow("a"))
	}
}

func TestMessage_Description(t *testing.T) {
	assert.Equal(t, "offer", Message{Type: TypeOffer, SDP: "x"}.Description().Type.String())
	assert.Equal(t, "answer", Message{Type: TypeAnswer, SDP: "x"}.Description().Type.String())
}
