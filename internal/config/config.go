// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for the
// donna client.
//
// Configuration sources, in order of precedence:
//   - environment variables (DONNA_BASE_URL, DONNA_TYPING_DELAY_MS)
//   - ~/.donna/config.toml
//   - built-in defaults
//
// The backend base URL is the single source for every endpoint; no
// component carries its own host.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/donnalabs/donna-tui/internal/util"
)

// Defaults.
const (
	DefaultBaseURL        = "http://localhost:8000"
	DefaultRequestTimeout = 30 * time.Second
	DefaultTypingDelayMs  = 30
	DefaultHistoryLimit   = 50
)

// Config is the complete client configuration.
type Config struct {
	// BaseURL is the DONNA backend base URL.
	BaseURL string `toml:"base_url"`

	// RequestTimeoutSecs bounds non-streaming API requests.
	RequestTimeoutSecs int `toml:"request_timeout_secs"`

	// TypingDelayMs is the pause between revealed words in an answer.
	// Zero disables the typing animation.
	TypingDelayMs int `toml:"typing_delay_ms"`

	// HistoryLimit caps chat-history listings.
	HistoryLimit int `toml:"history_limit"`

	// UI holds presentation options.
	UI UIConfig `toml:"ui"`
}

// UIConfig contains presentation options.
type UIConfig struct {
	// ShowSuggestions toggles the suggested-questions panel.
	ShowSuggestions bool `toml:"show_suggestions"`

	// ShowSummary toggles the case summary panel.
	ShowSummary bool `toml:"show_summary"`

	// CompactMode collapses message spacing in the transcript.
	CompactMode bool `toml:"compact_mode"`
}

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		BaseURL:            DefaultBaseURL,
		RequestTimeoutSecs: int(DefaultRequestTimeout / time.Second),
		TypingDelayMs:      DefaultTypingDelayMs,
		HistoryLimit:       DefaultHistoryLimit,
		UI: UIConfig{
			ShowSuggestions: true,
			ShowSummary:     true,
		},
	}
}

// ConfigDir returns the donna config directory (~/.donna), creating it
// if needed.
func ConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(homeDir, ".donna")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// Path returns the config file path.
func Path() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file, applies env overrides and validates.
// A missing file yields the defaults; a malformed file is an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads configuration from an explicit path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides layers environment variables over file values.
func (c *Config) applyEnvOverrides() {
	if base := os.Getenv("DONNA_BASE_URL"); base != "" {
		c.BaseURL = base
	}
	if delay := os.Getenv("DONNA_TYPING_DELAY_MS"); delay != "" {
		if n, err := strconv.Atoi(delay); err == nil && n >= 0 {
			c.TypingDelayMs = n
		}
	}
}

// Validate checks invariants and normalizes out-of-range values.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url must not be empty")
	}
	parsed, err := url.Parse(c.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("base_url %q is not a valid URL", c.BaseURL)
	}

	if c.RequestTimeoutSecs <= 0 {
		c.RequestTimeoutSecs = int(DefaultRequestTimeout / time.Second)
	}
	if c.TypingDelayMs < 0 {
		c.TypingDelayMs = 0
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = DefaultHistoryLimit
	}
	return nil
}

// Save writes the configuration to the default path atomically.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveToPath(path)
}

// SaveToPath writes the configuration to an explicit path.
func (c *Config) SaveToPath(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0644)
}

// RequestTimeout returns the request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

// TypingDelay returns the typing delay as a duration.
func (c *Config) TypingDelay() time.Duration {
	return time.Duration(c.TypingDelayMs) * time.Millisecond
}
