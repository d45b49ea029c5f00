package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete application configuration.
type Config struct {
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Output     OutputConfig     `mapstructure:"output"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Log        LogConfig        `mapstructure:"log"`
}

// ExtractionConfig holds the loader and walker limits and project layout.
type ExtractionConfig struct {
	MaxDepth      int    `mapstructure:"max_depth"`
	PathSeparator string `mapstructure:"path_separator"`
	Concurrency   int    `mapstructure:"concurrency"`
	SettingsFile  string `mapstructure:"settings_file"`
	BuildFile     string `mapstructure:"build_file"`
}

// OutputConfig holds report rendering configuration.
type OutputConfig struct {
	Format string `mapstructure:"format"` // json, yaml, text
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	URL            string        `mapstructure:"url"`
	Subject        string        `mapstructure:"subject"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	Timeout        time.Duration `mapstructure:"timeout"`
	PublishRetries int           `mapstructure:"publish_retries"` // attempts after a timed out publish
}

// DatabaseConfig holds the PostgreSQL report store configuration.
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	Schema         string `mapstructure:"schema"`
	SSLMode        string `mapstructure:"sslmode"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// SetDefaults registers the default value of every configuration key.
func SetDefaults(v *viper.Viper) {
	// Extraction defaults
	v.SetDefault("extraction.max_depth", 256)
	v.SetDefault("extraction.path_separator", "/")
	v.SetDefault("extraction.concurrency", 4)
	v.SetDefault("extraction.settings_file", "settings.gradle")
	v.SetDefault("extraction.build_file", "build.gradle")

	// Output defaults
	v.SetDefault("output.format", "json")

	// NATS defaults
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.subject", "gradlemeta.reports")
	v.SetDefault("nats.max_reconnects", 5)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.timeout", "5s")
	v.SetDefault("nats.publish_retries", 2)

	// Database defaults
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "gradlemeta")
	v.SetDefault("database.user", "gradlemeta")
	v.SetDefault("database.password", "")
	v.SetDefault("database.schema", "gradlemeta")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_connections", 4)

	// Logging defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stderr")
}

// New creates a new Config instance from Viper.
func New(v *viper.Viper) (*Config, error) {
	var config Config

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Extraction.MaxDepth < 1 {
		return errors.New("extraction.max_depth must be at least 1")
	}
	if c.Extraction.PathSeparator == "" {
		return errors.New("extraction.path_separator is required")
	}
	if c.Extraction.Concurrency < 1 {
		return errors.New("extraction.concurrency must be at least 1")
	}
	if c.Extraction.SettingsFile == "" || c.Extraction.BuildFile == "" {
		return errors.New("extraction.settings_file and extraction.build_file are required")
	}

	switch c.Output.Format {
	case "json", "yaml", "text":
	default:
		return fmt.Errorf("output.format must be one of json, yaml, text: got %q", c.Output.Format)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error: got %q", c.Log.Level)
	}

	if c.NATS.Enabled {
		if err := c.NATS.Validate(); err != nil {
			return err
		}
	}
	if c.Database.Enabled {
		if err := c.Database.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Validate checks the NATS settings needed to publish reports.
func (n NATSConfig) Validate() error {
	u, err := url.Parse(n.URL)
	if err != nil || u.Scheme != "nats" || u.Host == "" {
		return fmt.Errorf("nats.url must be a nats:// URL: got %q", n.URL)
	}
	if n.Subject == "" {
		return errors.New("nats.subject is required")
	}
	if n.MaxReconnects < -1 {
		return errors.New("nats.max_reconnects must be -1 (unlimited) or greater")
	}
	if n.PublishRetries < 0 {
		return errors.New("nats.publish_retries cannot be negative")
	}
	return nil
}

// Validate checks the settings needed to connect to the report store.
func (d DatabaseConfig) Validate() error {
	if d.Host == "" {
		return errors.New("database.host is required")
	}
	if d.Port <= 0 || d.Port > 65535 {
		return errors.New("database.port must be between 1 and 65535")
	}
	if d.Name == "" {
		return errors.New("database.name is required")
	}
	if d.User == "" {
		return errors.New("database.user is required")
	}
	if d.Schema == "" {
		return errors.New("database.schema is required")
	}
	if d.MaxConnections < 0 {
		return errors.New("database.max_connections cannot be negative")
	}
	return nil
}
