// Package config loads application settings from an optional YAML file
// and KITCHENTAPE_* environment variables via viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hammamikhairi/kitchentape/internal/domain"
)

// Config holds all application settings.
type Config struct {
	Capture CaptureConfig `mapstructure:"capture" yaml:"capture"`
	Library LibraryConfig `mapstructure:"library" yaml:"library"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// CaptureConfig describes the requested capture device parameters.
// Width, height, and facing are hints for camera-equipped setups and are
// ignored by the audio-only device.
type CaptureConfig struct {
	SampleRate       int    `mapstructure:"sample_rate" yaml:"sample_rate"`
	Channels         int    `mapstructure:"channels" yaml:"channels"`
	ChunkIntervalMS  int    `mapstructure:"chunk_interval_ms" yaml:"chunk_interval_ms"`
	Width            int    `mapstructure:"width" yaml:"width"`
	Height           int    `mapstructure:"height" yaml:"height"`
	Facing           string `mapstructure:"facing" yaml:"facing"`
	EchoCancellation bool   `mapstructure:"echo_cancellation" yaml:"echo_cancellation"`
	NoiseSuppression bool   `mapstructure:"noise_suppression" yaml:"noise_suppression"`
}

// LibraryConfig describes the acting user of the recipe library.
type LibraryConfig struct {
	User string `mapstructure:"user" yaml:"user"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// Load reads configuration from the given file (optional) and the
// environment. Missing file is not an error; defaults apply.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("capture.sample_rate", 48000)
	v.SetDefault("capture.channels", 1)
	v.SetDefault("capture.chunk_interval_ms", 250)
	v.SetDefault("capture.width", 1280)
	v.SetDefault("capture.height", 720)
	v.SetDefault("capture.facing", "environment")
	v.SetDefault("capture.echo_cancellation", true)
	v.SetDefault("capture.noise_suppression", true)
	v.SetDefault("library.user", "me")
	v.SetDefault("log.level", "normal")
	v.SetDefault("log.file", "")

	v.SetEnvPrefix("KITCHENTAPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Capture.SampleRate <= 0 {
		return fmt.Errorf("capture.sample_rate must be > 0, got %d", c.Capture.SampleRate)
	}
	if c.Capture.Channels != 1 && c.Capture.Channels != 2 {
		return fmt.Errorf("capture.channels must be 1 or 2, got %d", c.Capture.Channels)
	}
	if c.Capture.ChunkIntervalMS <= 0 {
		return fmt.Errorf("capture.chunk_interval_ms must be > 0, got %d", c.Capture.ChunkIntervalMS)
	}
	switch c.Capture.Facing {
	case "environment", "user", "":
	default:
		return fmt.Errorf("capture.facing must be 'environment' or 'user', got %q", c.Capture.Facing)
	}
	if c.Library.User == "" {
		return fmt.Errorf("library.user must not be empty")
	}
	return nil
}

// Constraints converts the capture settings into device constraints.
func (c *Config) Constraints() domain.CaptureConstraints {
	return domain.CaptureConstraints{
		Width:            c.Capture.Width,
		Height:           c.Capture.Height,
		Facing:           c.Capture.Facing,
		EchoCancellation: c.Capture.EchoCancellation,
		NoiseSuppression: c.Capture.NoiseSuppression,
		SampleRate:       c.Capture.SampleRate,
		Channels:         c.Capture.Channels,
		ChunkInterval:    time.Duration(c.Capture.ChunkIntervalMS) * time.Millisecond,
	}
}
