package config

import (
	"fmt"
	"time"

	"github.com/fyrsmithlabs/actiond/internal/extraction"
	"github.com/fyrsmithlabs/actiond/internal/logging"
)

// Config is the root actiond configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Store      StoreConfig      `koanf:"store"`
	Extraction ExtractionConfig `koanf:"extraction"`
	Logging    logging.Config   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// StoreConfig holds database settings.
type StoreConfig struct {
	Path string `koanf:"path"`
}

// ExtractionConfig holds extraction provider settings.
type ExtractionConfig struct {
	Provider  string   `koanf:"provider"`
	Model     string   `koanf:"model"`
	BaseURL   string   `koanf:"base_url"`
	APIKey    Secret   `koanf:"api_key"`
	MaxTokens int      `koanf:"max_tokens"`
	Timeout   Duration `koanf:"timeout"`
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8090
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = defaultStorePath()
	}

	// Model is left empty so each provider picks its own default.
	extractionDefaults := extraction.DefaultConfig()
	if cfg.Extraction.Provider == "" {
		cfg.Extraction.Provider = extractionDefaults.Provider
	}
	if cfg.Extraction.MaxTokens == 0 {
		cfg.Extraction.MaxTokens = extractionDefaults.MaxTokens
	}
	if cfg.Extraction.Timeout == 0 {
		cfg.Extraction.Timeout = Duration(extractionDefaults.Timeout)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Fields == nil {
		cfg.Logging.Fields = map[string]string{"service": "actiond"}
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		return fmt.Errorf("server shutdown_timeout must be > 0")
	}

	if c.Store.Path == "" {
		return fmt.Errorf("store path is required")
	}

	switch c.Extraction.Provider {
	case "ollama", "openai", "heuristic", "disabled":
	default:
		return fmt.Errorf("extraction provider must be one of ollama, openai, heuristic, disabled; got %q", c.Extraction.Provider)
	}
	if c.Extraction.Provider == "openai" && !c.Extraction.APIKey.IsSet() {
		return fmt.Errorf("extraction api_key is required for the openai provider")
	}
	if c.Extraction.MaxTokens < 1 {
		return fmt.Errorf("extraction max_tokens must be > 0, got %d", c.Extraction.MaxTokens)
	}
	if c.Extraction.Timeout.Duration() <= 0 {
		return fmt.Errorf("extraction timeout must be > 0")
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	return nil
}
