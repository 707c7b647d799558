package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the complete client configuration.
type Config struct {
	API           APIConfig     `json:"api" yaml:"api"`
	Google        GoogleConfig  `json:"google" yaml:"google"`
	Session       SessionConfig `json:"session" yaml:"session"`
	Cache         CacheConfig   `json:"cache" yaml:"cache"`
	PostLoginView string        `json:"post_login_view" yaml:"post_login_view"`
}

// APIConfig locates the journal backend.
type APIConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// GoogleConfig carries the public OAuth application identifiers. Client ids
// are not secrets but still belong in configuration, not source.
type GoogleConfig struct {
	ClientID     string `json:"client_id,omitempty" yaml:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty" yaml:"client_secret,omitempty"`
	RedirectPort int    `json:"redirect_port,omitempty" yaml:"redirect_port,omitempty"`
}

// SessionConfig locates the persisted session record.
type SessionConfig struct {
	File string `json:"file" yaml:"file"`
}

// CacheConfig locates the local entry cache.
type CacheConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// LoadFromFile loads configuration from a file (YAML or JSON), applies
// environment overrides and validates the result.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays environment variables onto the configuration. A .env
// file in the working directory is honored when present.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("TRADEJOURNAL_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		c.Google.ClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		c.Google.ClientSecret = v
	}
	if v := os.Getenv("TRADEJOURNAL_SESSION_FILE"); v != "" {
		c.Session.File = v
	}
	if v := os.Getenv("TRADEJOURNAL_CACHE_DB"); v != "" {
		c.Cache.DBPath = v
	}
	if v := os.Getenv("GOOGLE_REDIRECT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Google.RedirectPort = port
		}
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.Session.File == "" {
		return fmt.Errorf("session.file is required")
	}
	if c.Google.RedirectPort < 0 || c.Google.RedirectPort > 65535 {
		return fmt.Errorf("google.redirect_port must be a valid port")
	}
	if c.PostLoginView != "journal" && c.PostLoginView != "home" {
		return fmt.Errorf("post_login_view must be 'journal' or 'home'")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	dir, err := os.UserHomeDir()
	if err != nil {
		dir = "."
	}
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8081",
		},
		Google: GoogleConfig{
			// Port 0 picks a free loopback port for the consent redirect.
			RedirectPort: 0,
		},
		Session: SessionConfig{
			File: filepath.Join(dir, ".tradejournal", "session.json"),
		},
		Cache: CacheConfig{
			DBPath: filepath.Join(dir, ".tradejournal", "cache.sqlite"),
		},
		PostLoginView: "journal",
	}
}
