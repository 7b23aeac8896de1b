package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

func (ctl *CallWSController) writePump(ctx context.Context, c *wsCallConn) {
	ticker := time.NewTicker(ctl.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("call", c.call.String()).Msg("writePump ctx done")
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("call", c.call.String()).Msg("writePump ping")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Str("call", c.call.String()).Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *CallWSController) readPump(ctx context.Context, cancel context.CancelFunc, c *wsCallConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("call", c.call.String()).Str("client", c.client).Msg("readPump closing")
		cancel()
		c.Close()
	}()

	if ctl.ReadLimit > 0 {
		c.conn.SetReadLimit(ctl.ReadLimit)
	}
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.pongWait()))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.pongWait()))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error().Err(err).Str("module", "signal").Str("call", c.call.String()).Msg("readPump read error")
			}
			return
		}
		ctl.handleMessage(ctx, c, data)
	}
}

func (ctl *CallWSController) handleMessage(ctx context.Context, c *wsCallConn, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		ctl.sendError(c, "bad json")
		return
	}

	switch msg.Type {
	case TypeOffer, TypeAnswer:
		ctl.handleDescription(ctx, c, msg)
	case TypeCandidate:
		ctl.handleCandidate(ctx, c, msg)
	case TypeSubscribe:
		ctl.handleSubscribe(ctx, c, msg)
	case TypePing:
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("type", msg.Type).Msg("unknown signal")
		ctl.sendError(c, "unknown type "+msg.Type)
	}
}

func (ctl *CallWSController) sendJSON(c *wsCallConn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return err
	}
	if err := c.TrySend(b); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("call", c.call.String()).Msg("sendJSON dropped")
		return err
	}
	return nil
}
