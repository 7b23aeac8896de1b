//go:build devices

package main

import (
	"github.com/pion/mediadevices"
	"github.com/pion/mediadevices/pkg/codec/opus"
	"github.com/pion/mediadevices/pkg/codec/vpx"
	_ "github.com/pion/mediadevices/pkg/driver/camera"
	_ "github.com/pion/mediadevices/pkg/driver/microphone"

	"github.com/dkeye/Call/internal/adapters/media"
	"github.com/dkeye/Call/internal/adapters/rtc"
	"github.com/dkeye/Call/internal/config"
	"github.com/dkeye/Call/internal/core"
)

func init() {
	newDevicesSource = func(cfg config.MediaConfig) (core.MediaSource, rtc.Option, error) {
		vpxParams, err := vpx.NewVP8Params()
		if err != nil {
			return nil, nil, err
		}
		vpxParams.BitRate = 500_000

		opusParams, err := opus.NewParams()
		if err != nil {
			return nil, nil, err
		}

		selector := mediadevices.NewCodecSelector(
			mediadevices.WithVideoEncoders(&vpxParams),
			mediadevices.WithAudioEncoders(&opusParams),
		)
		return media.NewDevices(selector), rtc.WithCodecs(selector.Populate), nil
	}
}
