package main

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/mrdg/audiograph/audio"
	"github.com/spf13/viper"
)

// Config holds the startup settings. Values come from flags, AUDIOGRAPH_* environment
// variables and an optional yaml config file, in that order of precedence.
type Config struct {
	Backend        string        `mapstructure:"backend"`
	SampleRate     float64       `mapstructure:"sample-rate"`
	BlockSize      int           `mapstructure:"block-size"`
	Channels       int           `mapstructure:"channels"`
	MaxNodes       int           `mapstructure:"max-nodes"`
	UpdateInterval time.Duration `mapstructure:"update-interval"`
	LogLevel       string        `mapstructure:"log-level"`
	Scene          string        `mapstructure:"scene"`
}

var defaults = Config{
	Backend:        audio.BackendPortAudio,
	SampleRate:     44100,
	BlockSize:      256,
	Channels:       2,
	MaxNodes:       audio.DefaultMaxNodes,
	UpdateInterval: time.Second / 60,
	LogLevel:       "info",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", defaults.Backend)
	v.SetDefault("sample-rate", defaults.SampleRate)
	v.SetDefault("block-size", defaults.BlockSize)
	v.SetDefault("channels", defaults.Channels)
	v.SetDefault("max-nodes", defaults.MaxNodes)
	v.SetDefault("update-interval", defaults.UpdateInterval)
	v.SetDefault("log-level", defaults.LogLevel)
	v.SetDefault("scene", "")
}

// loadConfig reads file, if given, or an audiograph.yaml from the working directory
// when one exists.
func loadConfig(v *viper.Viper, file string) (Config, error) {
	setDefaults(v)
	v.SetEnvPrefix("AUDIOGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("audiograph")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// playerBackends are the backends that render on their own. The offline backend
// only renders when driven by code.
var playerBackends = []string{audio.BackendPortAudio, audio.BackendOto, audio.BackendNull}

func (c Config) validate() error {
	if !slices.Contains(playerBackends, c.Backend) {
		return fmt.Errorf("backend must be one of %s: %q", strings.Join(playerBackends, ", "), c.Backend)
	}
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("sample-rate must be positive: %v", c.SampleRate)
	case c.BlockSize <= 0:
		return fmt.Errorf("block-size must be positive: %v", c.BlockSize)
	case c.Channels < 1 || c.Channels > 8:
		return fmt.Errorf("channels must be between 1 and 8: %v", c.Channels)
	case c.MaxNodes <= 0:
		return fmt.Errorf("max-nodes must be positive: %v", c.MaxNodes)
	case c.UpdateInterval <= 0:
		return fmt.Errorf("update-interval must be positive: %v", c.UpdateInterval)
	}
	if _, err := c.logLevel(); err != nil {
		return err
	}
	return nil
}

func (c Config) logLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("log-level: %w", err)
	}
	return level, nil
}

func (c Config) backendConfig() audio.BackendConfig {
	return audio.BackendConfig{
		SampleRate: c.SampleRate,
		BlockSize:  c.BlockSize,
		Channels:   c.Channels,
	}
}
