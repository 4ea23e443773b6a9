package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultImmediateTimeout = -1 * time.Millisecond
	DefaultNormalTimeout    = 5 * time.Second
)

// Config models the scheduler's YAML configuration.
//
//	immediate_timeout: -1ms
//	normal_timeout: 5s
//	log_level: info
//	log_format: text
type Config struct {
	ImmediateTimeout time.Duration `yaml:"immediate_timeout"`
	NormalTimeout    time.Duration `yaml:"normal_timeout"`

	// LogLevel is a slog level name: debug, info, warn or error, optionally
	// with an offset such as "info+2".
	LogLevel string `yaml:"log_level,omitempty"`
	// LogFormat is text or json.
	LogFormat string `yaml:"log_format,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		ImmediateTimeout: DefaultImmediateTimeout,
		NormalTimeout:    DefaultNormalTimeout,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// ParseConfig reads YAML over the defaults, so omitted keys keep their default.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("sched: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("sched: read config: %w", err)
	}

	return ParseConfig(data)
}

func (c Config) Validate() error {
	if c.NormalTimeout <= c.ImmediateTimeout {
		return errors.New("sched: normal_timeout must be greater than immediate_timeout")
	}
	if _, err := c.level(); err != nil {
		return err
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
		return nil
	default:
		return fmt.Errorf("sched: unknown log_format %q", c.LogFormat)
	}
}

// level parses LogLevel. Empty means info.
func (c Config) level() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("sched: log_level: %w", err)
	}

	return lvl, nil
}
