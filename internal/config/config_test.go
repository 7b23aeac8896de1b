package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inTempDir runs Load from an empty directory so no repository config leaks in.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("CONFIG_ENV", "test")
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	inTempDir(t)

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
	assert.Equal(t, []string{"stun:stun1.l.google.com:19302", "stun:stun2.l.google.com:19302"}, cfg.ICE.Servers)
	assert.EqualValues(t, 10, cfg.ICE.CandidatePoolSize)
	assert.True(t, cfg.Media.Audio)
	assert.True(t, cfg.Media.Video)
	assert.Equal(t, MediaSourceDevices, cfg.Media.Source)
	assert.False(t, cfg.Call.StrictAnswer)
	assert.Equal(t, 30*time.Second, cfg.Call.InitTimeout)
	assert.Equal(t, 10, cfg.Relay.CreateLimit)
	assert.Equal(t, time.Minute, cfg.Relay.CreateInterval)
	assert.Equal(t, time.Hour, cfg.Relay.CallTTL)
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	yaml := []byte(`
port: 9000
media:
  source: static
  width: 320
call:
  strict_answer: true
relay:
  url: http://relay.test:9000
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.test.yaml"), yaml, 0o600))

	t.Setenv("CALL_MEDIA_HEIGHT", "240")
	t.Setenv("CALL_PORT", "9100")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("relay.url", "", "")
	require.NoError(t, fs.Parse([]string{"--relay.url=http://flag.test"}))

	cfg, err := Load(fs)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port, "env beats file")
	assert.Equal(t, MediaSourceStatic, cfg.Media.Source)
	assert.Equal(t, 320, cfg.Media.Width)
	assert.Equal(t, 240, cfg.Media.Height)
	assert.True(t, cfg.Call.StrictAnswer)
	assert.Equal(t, "http://flag.test", cfg.Relay.URL, "flag beats file")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:  8080,
			Media: MediaConfig{Audio: true, Source: MediaSourceStatic},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{name: "valid", mutate: func(*Config) {}, ok: true},
		{name: "zero port", mutate: func(c *Config) { c.Port = 0 }},
		{name: "port too large", mutate: func(c *Config) { c.Port = 70000 }},
		{name: "unknown source", mutate: func(c *Config) { c.Media.Source = "screen" }},
		{name: "negative call ttl", mutate: func(c *Config) { c.Relay.CallTTL = -time.Second }},
		{name: "no media", mutate: func(c *Config) { c.Media.Audio = false }},
		{name: "negative timeout", mutate: func(c *Config) { c.Call.InitTimeout = -time.Second }},
		{name: "negative limit", mutate: func(c *Config) { c.Relay.CreateLimit = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSetupLogger(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	SetupLogger("debug")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	SetupLogger("nonsense")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	SetupLogger("")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
