package rtc

import (
	"fmt"

	"github.com/dkeye/Call/internal/config"
	"github.com/dkeye/Call/internal/core"
	"github.com/dkeye/Call/internal/domain"
	"github.com/pion/interceptor"
	"github.com/pion/webrtc/v4"
)

// CodecRegistrar fills the media engine with the codecs local tracks will use.
// mediadevices.CodecSelector.Populate has this shape.
type CodecRegistrar func(m *webrtc.MediaEngine)

type factoryOptions struct {
	codecs CodecRegistrar
}

type Option func(*factoryOptions)

// WithCodecs replaces pion's default codec set.
func WithCodecs(r CodecRegistrar) Option {
	return func(o *factoryOptions) { o.codecs = r }
}

// Configuration turns the ICE settings into a pion configuration.
func Configuration(cfg config.ICEConfig) webrtc.Configuration {
	var servers []webrtc.ICEServer
	if len(cfg.Servers) > 0 {
		servers = []webrtc.ICEServer{{URLs: append([]string(nil), cfg.Servers...)}}
	}
	return webrtc.Configuration{
		ICEServers:           servers,
		ICECandidatePoolSize: cfg.CandidatePoolSize,
	}
}

// NewFactory builds one pion API shared by every engine it creates.
func NewFactory(cfg config.ICEConfig, opts ...Option) (core.EngineFactory, error) {
	var o factoryOptions
	for _, opt := range opts {
		opt(&o)
	}

	m := &webrtc.MediaEngine{}
	if o.codecs != nil {
		o.codecs(m)
	} else if err := m.RegisterDefaultCodecs(); err != nil {
		return nil, fmt.Errorf("register codecs: %w", err)
	}

	ir := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(m, ir); err != nil {
		return nil, fmt.Errorf("register interceptors: %w", err)
	}

	se := webrtc.SettingEngine{LoggerFactory: LoggerFactory{}}

	api := webrtc.NewAPI(
		webrtc.WithMediaEngine(m),
		webrtc.WithInterceptorRegistry(ir),
		webrtc.WithSettingEngine(se),
	)
	pcCfg := Configuration(cfg)

	return func(sid domain.SessionID) (core.ConnectionEngine, error) {
		e, err := NewEngine(api, pcCfg, sid)
		if err != nil {
			return nil, err
		}
		return e, nil
	}, nil
}
