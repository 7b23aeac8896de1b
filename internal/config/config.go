package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Secret     string        `mapstructure:"secret"`
	LogLevel   string        `mapstructure:"log_level"`

	ICE   ICEConfig   `mapstructure:"ice"`
	Media MediaConfig `mapstructure:"media"`
	Call  CallConfig  `mapstructure:"call"`
	Relay RelayConfig `mapstructure:"relay"`
}

type ICEConfig struct {
	Servers           []string `mapstructure:"servers"`
	CandidatePoolSize uint8    `mapstructure:"candidate_pool_size"`
}

type MediaConfig struct {
	Audio  bool   `mapstructure:"audio"`
	Video  bool   `mapstructure:"video"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Source string `mapstructure:"source"`
}

type CallConfig struct {
	StrictAnswer bool          `mapstructure:"strict_answer"`
	InitTimeout  time.Duration `mapstructure:"init_timeout"`
}

type RelayConfig struct {
	URL            string        `mapstructure:"url"`
	CreateLimit    int           `mapstructure:"create_limit"`
	CreateInterval time.Duration `mapstructure:"create_interval"`
	// CallTTL evicts calls idle for this long; zero keeps them forever.
	CallTTL time.Duration `mapstructure:"call_ttl"`
}

const (
	MediaSourceDevices = "devices"
	MediaSourceStatic  = "static"
)

const envPrefix = "CALL"

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("secret", "")
	v.SetDefault("log_level", "info")

	v.SetDefault("ice.servers", []string{
		"stun:stun1.l.google.com:19302",
		"stun:stun2.l.google.com:19302",
	})
	v.SetDefault("ice.candidate_pool_size", 10)

	v.SetDefault("media.audio", true)
	v.SetDefault("media.video", true)
	v.SetDefault("media.width", 640)
	v.SetDefault("media.height", 480)
	v.SetDefault("media.source", MediaSourceDevices)

	v.SetDefault("call.strict_answer", false)
	v.SetDefault("call.init_timeout", "30s")

	v.SetDefault("relay.url", "http://localhost:8080")
	v.SetDefault("relay.create_limit", 10)
	v.SetDefault("relay.create_interval", "1m")
	v.SetDefault("relay.call_ttl", "1h")
}

// Load reads config/config.<CONFIG_ENV>.yaml over the defaults. CALL_* env
// vars and then the flags in fs (may be nil) take precedence.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Fprintf(os.Stderr, "✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fmt.Fprintf(os.Stderr, "🧩 Mode: %s | Port: %d | Media: %s\n", cfg.Mode, cfg.Port, cfg.Media.Source)
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.Media.Source {
	case MediaSourceDevices, MediaSourceStatic:
	default:
		return fmt.Errorf("unknown media source %q", c.Media.Source)
	}
	if !c.Media.Audio && !c.Media.Video {
		return fmt.Errorf("media: at least one of audio or video is required")
	}
	if c.Call.InitTimeout < 0 {
		return fmt.Errorf("negative call.init_timeout %s", c.Call.InitTimeout)
	}
	if c.Relay.CreateLimit < 0 || c.Relay.CreateInterval < 0 {
		return fmt.Errorf("relay create limit must not be negative")
	}
	if c.Relay.CallTTL < 0 {
		return fmt.Errorf("negative relay.call_ttl %s", c.Relay.CallTTL)
	}
	return nil
}
