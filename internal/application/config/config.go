// ABOUTME: YAML configuration parsing and validation
// ABOUTME: Source priority order is configuration, not code
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen   ListenConfig   `yaml:"listen"`
	Station  StationConfig  `yaml:"station"`
	Sources  []SourceConfig `yaml:"sources"`
	Artwork  ArtworkConfig  `yaml:"artwork"`
	Database DatabaseConfig `yaml:"database"`
	Poll     PollConfig     `yaml:"poll"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ListenConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StationConfig describes the station itself, surfaced to the player
// UI so the stream URL is not hardcoded client-side.
type StationConfig struct {
	Name      string `yaml:"name"`
	StreamURL string `yaml:"stream_url"`
}

// SourceConfig is one upstream metadata source. The list order in the
// config file is the fallback priority order.
type SourceConfig struct {
	Type      string `yaml:"type"`
	URL       string `yaml:"url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type ArtworkConfig struct {
	Endpoint  string `yaml:"endpoint"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// PollConfig enables the background poller. When enabled, a single
// server-side loop resolves on an interval and HTTP reads serve the
// cached record, which also serializes history writes.
type PollConfig struct {
	Enabled    bool `yaml:"enabled"`
	IntervalMs int  `yaml:"interval_ms"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

const (
	defaultPort           = 8090
	defaultDatabaseURL    = "sqlite:history.db"
	defaultPollIntervalMs = 10000
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse yaml")
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen.Port == 0 {
		c.Listen.Port = defaultPort
	}
	if c.Database.URL == "" {
		c.Database.URL = defaultDatabaseURL
	}
	if c.Poll.IntervalMs == 0 {
		c.Poll.IntervalMs = defaultPollIntervalMs
	}
}

func (c *Config) validate() error {
	if len(c.Sources) == 0 {
		return errors.New("config: at least one source is required")
	}
	for i, src := range c.Sources {
		if src.Type == "" {
			return errors.Errorf("config: sources[%d] is missing a type", i)
		}
		if src.URL == "" {
			return errors.Errorf("config: sources[%d] (%s) is missing a url", i, src.Type)
		}
	}
	return nil
}
