package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ScenePath     string  `mapstructure:"scene"`
	ScriptPath    string  `mapstructure:"script"`
	OutputVideo   string  `mapstructure:"output"`
	TotalDuration float64 `mapstructure:"duration"`
	Width         int     `mapstructure:"width"`
	Height        int     `mapstructure:"height"`
	FPS           int     `mapstructure:"fps"`
	Workers       int     `mapstructure:"workers"`
	SegmentFrames int     `mapstructure:"segment_frames"`
	DPI           int     `mapstructure:"dpi"`
	AssetsPath    string  `mapstructure:"assets"`
	Focus         string  `mapstructure:"focus"` // focus detector for cover crops
	AudioPath     string  `mapstructure:"audio"`
	Reduced       bool    `mapstructure:"reduced_motion"`
	VideoEncoder  string  `mapstructure:"encoder"`
	Quality       int     `mapstructure:"quality"`
	ShowStats     bool    `mapstructure:"stats"`
	BuildVersion  string  `mapstructure:"-"`

	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
	Mail   MailConfig   `mapstructure:"mail"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// ServerConfig configures the contact API
type ServerConfig struct {
	Addr       string        `mapstructure:"addr"`
	InboxPath  string        `mapstructure:"inbox"`
	RateEvery  time.Duration `mapstructure:"rate_every"` // one request per interval per client
	RateBurst  int           `mapstructure:"rate_burst"`
	QuoteURL   string        `mapstructure:"quote_url"`
	TrustProxy bool          `mapstructure:"trust_proxy"` // client address from X-Real-IP / X-Forwarded-For
	APIURL     string        `mapstructure:"api_url"`
	APITimeout time.Duration `mapstructure:"api_timeout"`
}

type MailConfig struct {
	Domain string `mapstructure:"domain"`
	APIKey string `mapstructure:"api_key"`
	From   string `mapstructure:"from"`
	To     string `mapstructure:"to"`
}

// FrameParams describes one encoded segment of a recording
type FrameParams struct {
	Width, Height int
	FPS           int
	Duration      float64
	SegmentIndex  int
	Encoder       string
	Quality       int
}

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	// Keys without a default are invisible to AutomaticEnv during Unmarshal
	for _, key := range []string{"scene", "script", "output", "assets", "audio", "encoder",
		"mail.domain", "mail.api_key", "mail.from", "mail.to"} {
		v.SetDefault(key, "")
	}
	v.SetDefault("duration", 0.0)
	v.SetDefault("width", 1280)
	v.SetDefault("height", 720)
	v.SetDefault("fps", 30)
	v.SetDefault("workers", 0)
	v.SetDefault("segment_frames", 60)
	v.SetDefault("dpi", 150)
	v.SetDefault("focus", "contrast")
	v.SetDefault("reduced_motion", false)
	v.SetDefault("quality", 0)
	v.SetDefault("stats", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.inbox", "inquiries.db")
	v.SetDefault("server.rate_every", 10*time.Second)
	v.SetDefault("server.rate_burst", 3)
	v.SetDefault("server.quote_url", "https://buildworks.ph/#quote")
	v.SetDefault("server.trust_proxy", false)
	v.SetDefault("server.api_url", "http://localhost:8080")
	v.SetDefault("server.api_timeout", 10*time.Second)
}

// New returns a viper instance reading SCROLLFX_* variables on top of defaults
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("SCROLLFX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file and decodes every layer into a Config
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	}
	if c.Width%2 != 0 || c.Height%2 != 0 {
		return fmt.Errorf("size %dx%d must be even for yuv420p", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.TotalDuration < 0 {
		return fmt.Errorf("duration must not be negative")
	}
	if c.SegmentFrames <= 0 {
		return fmt.Errorf("segment_frames must be positive")
	}
	return nil
}

// Params returns the encoding parameters for segment i
func (c *Config) Params(i int, frames int) FrameParams {
	return FrameParams{
		Width:        c.Width,
		Height:       c.Height,
		FPS:          c.FPS,
		Duration:     float64(frames) / float64(c.FPS),
		SegmentIndex: i,
		Encoder:      c.VideoEncoder,
		Quality:      c.Quality,
	}
}
