// Command peer is a headless call endpoint: it either creates a call and
// prints its id, or answers a call id, then keeps the connection up until
// interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/dkeye/Call/internal/adapters/media"
	"github.com/dkeye/Call/internal/adapters/relay/wsclient"
	"github.com/dkeye/Call/internal/adapters/rtc"
	"github.com/dkeye/Call/internal/app"
	"github.com/dkeye/Call/internal/config"
	"github.com/dkeye/Call/internal/core"
	"github.com/dkeye/Call/internal/domain"
)

// newDevicesSource is set by devices.go when built with -tags devices.
var newDevicesSource func(cfg config.MediaConfig) (core.MediaSource, rtc.Option, error)

func main() {
	fs := pflag.NewFlagSet("peer", pflag.ExitOnError)
	call := fs.Bool("call", false, "create a call and print its id")
	answer := fs.String("answer", "", "answer the call with this id")
	fs.String("relay.url", "http://localhost:8080", "relay server base url")
	fs.String("media.source", config.MediaSourceStatic, "devices or static")
	fs.String("log_level", "info", "zerolog level")
	_ = fs.Parse(os.Args[1:])

	config.SetupLogger("info")
	if *call == (*answer != "") {
		log.Fatal().Msg("exactly one of --call or --answer <id> is required")
	}

	cfg, err := config.Load(fs)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	config.SetupLogger(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, *call, *answer); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("peer stopped")
		os.Exit(1)
	}
}

func mediaStack(cfg *config.Config) (core.MediaSource, core.EngineFactory, error) {
	var (
		src  core.MediaSource
		opts []rtc.Option
	)
	switch cfg.Media.Source {
	case config.MediaSourceStatic:
		src = media.NewStatic()
	case config.MediaSourceDevices:
		if newDevicesSource == nil {
			return nil, nil, fmt.Errorf("media source %q needs a build with -tags devices", cfg.Media.Source)
		}
		devices, codecs, err := newDevicesSource(cfg.Media)
		if err != nil {
			return nil, nil, err
		}
		src = devices
		opts = append(opts, codecs)
	}
	factory, err := rtc.NewFactory(cfg.ICE, opts...)
	if err != nil {
		return nil, nil, err
	}
	return src, factory, nil
}

func run(ctx context.Context, cfg *config.Config, call bool, answerID string) error {
	relay, err := wsclient.New(cfg.Relay.URL)
	if err != nil {
		return err
	}
	defer relay.Close()

	src, factory, err := mediaStack(cfg)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	p := newPeer(gctx, g)

	ctl := app.NewController(app.NewRegistry(), relay, factory, src, core.Options{
		Constraints: core.MediaConstraints{
			Audio:  cfg.Media.Audio,
			Video:  cfg.Media.Video,
			Width:  cfg.Media.Width,
			Height: cfg.Media.Height,
		},
		StrictAnswer: cfg.Call.StrictAnswer,
		InitTimeout:  cfg.Call.InitTimeout,
	}, p)
	defer ctl.Close()

	if call {
		id, err := ctl.CreateCall(ctx)
		if err != nil {
			return err
		}
		// the id is the only thing on stdout, for scripting
		fmt.Println(id)
	} else {
		id, err := domain.ParseCallID(answerID)
		if err != nil {
			return err
		}
		if err := ctl.AnswerCall(ctx, id); err != nil {
			return err
		}
	}

	g.Go(func() error {
		// Closing the call ends the remote tracks, which lets the readers return.
		defer ctl.Close()
		select {
		case <-gctx.Done():
			return gctx.Err()
		case err := <-p.failed:
			return err
		}
	})
	return g.Wait()
}
