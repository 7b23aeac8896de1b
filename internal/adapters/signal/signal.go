package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Call/internal/adapters/relay/memory"
	"github.com/dkeye/Call/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

const (
	sendBuffer        = 64
	defaultPingPeriod = 54 * time.Second
)

// CallWSController exposes a memory.Store to remote peers, one websocket per
// peer per call.
type CallWSController struct {
	Store      *memory.Store
	ReadLimit  int64
	PingPeriod time.Duration
}

func NewCallWSController(store *memory.Store, readLimit int64, pingPeriod time.Duration) *CallWSController {
	if pingPeriod <= 0 {
		pingPeriod = defaultPingPeriod
	}
	return &CallWSController{
		Store:      store,
		ReadLimit:  readLimit,
		PingPeriod: pingPeriod,
	}
}

// pongWait must exceed PingPeriod so one missed pong is tolerated.
func (ctl *CallWSController) pongWait() time.Duration {
	return ctl.PingPeriod * 10 / 9
}

type wsCallConn struct {
	conn   *websocket.Conn
	send   chan []byte
	call   domain.CallID
	client string

	mu     sync.RWMutex
	closed bool
}

func (c *wsCallConn) TrySend(b []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- b:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsCallConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleCall upgrades the request and serves the call document until the
// peer goes away or ctx ends.
func (ctl *CallWSController) HandleCall(ctx context.Context, c *gin.Context, id domain.CallID) {
	client := c.GetString("client_token")
	log.Info().Str("module", "signal").Str("call", id.String()).Str("client", client).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := &wsCallConn{
		conn:   ws,
		send:   make(chan []byte, sendBuffer),
		call:   id,
		client: client,
	}

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, conn)
}
