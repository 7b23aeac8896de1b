package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/dkeye/Call/internal/adapters/relay/memory"
	"github.com/dkeye/Call/internal/adapters/signal"
	"github.com/dkeye/Call/internal/config"
	"github.com/dkeye/Call/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	clientTokenCookie = "ct"
	sessionName       = "CallSessions"
	lastCallKey       = "last_call"
)

func genClientToken() string {
	return uuid.NewString()
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(clientTokenCookie)
		if token == "" {
			token = genClientToken()
			c.SetCookie(clientTokenCookie, token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

type createCallResponse struct {
	ID domain.CallID `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// callID parses the :id path parameter, answering 400 when it is unusable.
func callID(c *gin.Context) (domain.CallID, bool) {
	id, err := domain.ParseCallID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return "", false
	}
	return id, true
}

func writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrCallNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, store *memory.Store, ctl *signal.CallWSController) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	cookieStore := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions(sessionName, cookieStore))
	r.Use(ClientTokenMiddleware())

	if cfg.StaticPath != "" {
		r.Static("/static", cfg.StaticPath)
	}

	limiter := signal.NewCreateRateLimiter(cfg.Relay.CreateLimit, cfg.Relay.CreateInterval)

	api := r.Group("/api")

	api.POST("/calls", func(c *gin.Context) {
		client := c.GetString("client_token")
		if !limiter.Allow(client) {
			log.Warn().Str("module", "adapters.http").Str("client", client).Msg("call creation rate limited")
			c.JSON(http.StatusTooManyRequests, errorResponse{Error: "too many calls created, retry later"})
			return
		}
		id, err := store.CreateCall(c.Request.Context())
		if err != nil {
			writeStoreError(c, err)
			return
		}

		sess := sessions.Default(c)
		sess.Set(lastCallKey, id.String())
		if err := sess.Save(); err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("session save")
		}
		c.JSON(http.StatusCreated, createCallResponse{ID: id})
	})

	// last call created by this browser/peer, for reconnecting UIs
	api.GET("/calls/last", func(c *gin.Context) {
		last, _ := sessions.Default(c).Get(lastCallKey).(string)
		if last == "" {
			c.JSON(http.StatusNotFound, errorResponse{Error: domain.ErrCallNotFound.Error()})
			return
		}
		c.JSON(http.StatusOK, createCallResponse{ID: domain.CallID(last)})
	})

	api.GET("/calls/:id", func(c *gin.Context) {
		id, ok := callID(c)
		if !ok {
			return
		}
		doc, err := store.Get(id)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	})

	api.GET("/ws/calls/:id", func(c *gin.Context) {
		id, ok := callID(c)
		if !ok {
			return
		}
		if _, err := store.Get(id); err != nil {
			writeStoreError(c, err)
			return
		}
		log.Info().Str("module", "adapters.http").Str("call", id.String()).Str("client", c.GetString("client_token")).Msg("ws call endpoint hit")
		ctl.HandleCall(ctx, c, id)
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")
	return r
}
