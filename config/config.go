// Package config loads engine configuration with the precedence
// defaults -> YAML file -> environment overrides. Only secrets and
// deployment specific endpoints are overridable from the environment; the
// orchestration limits live in the file to keep them auditable.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete engine configuration.
type Config struct {
	Graph    GraphConfig    `yaml:"graph"`
	Session  SessionConfig  `yaml:"session"`
	Database DatabaseConfig `yaml:"database"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Model    ModelConfig    `yaml:"model"`
	Trace    TraceConfig    `yaml:"trace"`
	Log      LogConfig      `yaml:"log"`
}

// GraphConfig bounds a single turn.
type GraphConfig struct {
	// MaxSteps is the routing step ceiling; the turn fails once exceeded.
	MaxSteps int `yaml:"max_steps"`
	// TurnTimeout is the wall-clock ceiling per turn.
	TurnTimeout time.Duration `yaml:"turn_timeout"`
}

// SessionConfig governs per-session serialization and retention.
type SessionConfig struct {
	// LockTimeout bounds how long a second turn waits for the session lock.
	LockTimeout time.Duration `yaml:"lock_timeout"`
	// EvictAfter is the idle age at which a session may be evicted.
	EvictAfter time.Duration `yaml:"evict_after"`
	// HistoryLimit bounds the retained conversation history per session.
	HistoryLimit int `yaml:"history_limit"`
}

// DatabaseConfig configures the university database connection.
type DatabaseConfig struct {
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// SMTPConfig configures the outbound mail transport.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	From     string `yaml:"from"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// FetchConfig bounds external system calls.
type FetchConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// ModelConfig selects and tunes the language model provider.
type ModelConfig struct {
	Provider    string  `yaml:"provider"` // "openai", "anthropic" or "static"
	Name        string  `yaml:"name"`
	APIKey      string  `yaml:"api_key"`
	Temperature float64 `yaml:"temperature"`
}

// TraceConfig configures trace persistence.
type TraceConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the baseline configuration, safe for local development.
func Default() *Config {
	return &Config{
		Graph: GraphConfig{
			MaxSteps:    16,
			TurnTimeout: 60 * time.Second,
		},
		Session: SessionConfig{
			LockTimeout:  5 * time.Second,
			EvictAfter:   30 * time.Minute,
			HistoryLimit: 20,
		},
		Database: DatabaseConfig{
			DSN:          "file:adminflow.db",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
		SMTP: SMTPConfig{
			Host: "localhost",
			Port: 587,
			From: "registrar@campus.example",
		},
		Fetch: FetchConfig{
			Timeout: 10 * time.Second,
		},
		Model: ModelConfig{
			Provider:    "static",
			Temperature: 0.2,
		},
		Trace: TraceConfig{
			Dir: "./agent_traces",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads path (if non-empty) over the defaults, then applies
// environment overrides, then validates.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides secrets and endpoints from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv("ADMINFLOW_DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("ADMINFLOW_SMTP_PASSWORD"); v != "" {
		c.SMTP.Password = v
	}
	if v := os.Getenv("ADMINFLOW_MODEL_API_KEY"); v != "" {
		c.Model.APIKey = v
	}
	if v := os.Getenv("ADMINFLOW_MODEL_PROVIDER"); v != "" {
		c.Model.Provider = v
	}
}

// Validate rejects configurations the graph cannot run safely with.
func (c *Config) Validate() error {
	if c.Graph.MaxSteps <= 0 {
		return fmt.Errorf("graph.max_steps must be positive, got %d", c.Graph.MaxSteps)
	}
	if c.Graph.TurnTimeout <= 0 {
		return fmt.Errorf("graph.turn_timeout must be positive, got %s", c.Graph.TurnTimeout)
	}
	if c.Session.LockTimeout <= 0 {
		return fmt.Errorf("session.lock_timeout must be positive, got %s", c.Session.LockTimeout)
	}
	if c.Session.HistoryLimit <= 0 {
		return fmt.Errorf("session.history_limit must be positive, got %d", c.Session.HistoryLimit)
	}
	switch c.Model.Provider {
	case "openai", "anthropic", "static":
	default:
		return fmt.Errorf("model.provider must be openai, anthropic or static, got %q", c.Model.Provider)
	}
	return nil
}
