package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	router "github.com/dkeye/Call/internal/adapters/http"
	"github.com/dkeye/Call/internal/adapters/relay/memory"
	wssignal "github.com/dkeye/Call/internal/adapters/signal"
	"github.com/dkeye/Call/internal/config"
)

func main() {
	fs := pflag.NewFlagSet("server", pflag.ExitOnError)
	fs.Int("port", 8080, "listen port")
	fs.String("mode", "release", "gin mode: release, debug or test")
	fs.String("log_level", "info", "zerolog level")
	fs.Int("relay.create_limit", 10, "calls a client may create per interval, 0 disables")
	_ = fs.Parse(os.Args[1:])

	// Early logger so config problems are visible; level is applied after load.
	config.SetupLogger("info")

	cfg, err := config.Load(fs)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	config.SetupLogger(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store := memory.NewStore()
	ctl := wssignal.NewCallWSController(store, cfg.ReadLimit, cfg.PingPeriod)

	r := router.SetupRouter(ctx, cfg, store, ctl)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		store.Sweep(gctx, cfg.Relay.CallTTL)
		return nil
	})
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("Call relay started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		os.Exit(1)
	}
	log.Info().Int("calls", store.Len()).Msg("Server exited gracefully")
}
