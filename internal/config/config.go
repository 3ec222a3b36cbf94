// Package config loads the yaml configuration from the platform config
// directory, writing embedded defaults on first run.
package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

type Notebrook struct {
	URL     string `yaml:"url"`
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

type Config struct {
	Notebrook Notebrook `yaml:"notebrook"`
	DBPath    string    `yaml:"db_path,omitempty"`
	Timeout   string    `yaml:"timeout,omitempty"`
	Workers   int       `yaml:"workers,omitempty"`
}

// NotebrookToken returns the resolved token (config or env var).
func (c *Config) NotebrookToken() string {
	if c.Notebrook.Token != "" {
		return c.Notebrook.Token
	}
	return os.Getenv("FEEDER_NOTEBROOK_TOKEN")
}

// ValidateNotify checks the fields needed to actually dispatch
// notifications. Commands that never send skip this.
func (c *Config) ValidateNotify() error {
	if c.Notebrook.URL == "" {
		return fmt.Errorf("notebrook.url is not configured")
	}
	if _, err := url.Parse(c.Notebrook.URL); err != nil {
		return fmt.Errorf("notebrook.url: %w", err)
	}
	if c.NotebrookToken() == "" {
		return fmt.Errorf("notebrook.token is not configured (or set FEEDER_NOTEBROOK_TOKEN)")
	}
	if c.Notebrook.Channel == "" {
		return fmt.Errorf("notebrook.channel is not configured")
	}
	return nil
}

func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

func (c *Config) WorkerCount() int {
	if c.Workers <= 0 {
		return 3
	}
	return c.Workers
}

// DatabasePath resolves the sqlite location, defaulting under the
// platform data directory.
func (c *Config) DatabasePath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(xdg.DataHome, "brook-feeder", "feeder.db")
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "brook-feeder", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run.
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults.
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Notebrook.Channel == "" {
		cfg.Notebrook.Channel = defaults.Notebrook.Channel
	}
	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}
