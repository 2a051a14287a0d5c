// Copyright (c) 2025 Donna Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.TypingDelayMs != DefaultTypingDelayMs {
		t.Errorf("TypingDelayMs = %d, want %d", cfg.TypingDelayMs, DefaultTypingDelayMs)
	}
	if !cfg.UI.ShowSuggestions || !cfg.UI.ShowSummary {
		t.Error("panel defaults should be on")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
base_url = "http://donna.internal:9000"
typing_delay_ms = 0
history_limit = 10

[ui]
show_suggestions = false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.BaseURL != "http://donna.internal:9000" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.TypingDelayMs != 0 {
		t.Errorf("TypingDelayMs = %d, want 0", cfg.TypingDelayMs)
	}
	if cfg.HistoryLimit != 10 {
		t.Errorf("HistoryLimit = %d, want 10", cfg.HistoryLimit)
	}
	if cfg.UI.ShowSuggestions {
		t.Error("show_suggestions = true, want false")
	}
}

func TestLoadMalformedFileIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("base_url = ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromPath(path); err == nil {
		t.Error("malformed config should be an error, not silent defaults")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DONNA_BASE_URL", "http://override:8080")
	t.Setenv("DONNA_TYPING_DELAY_MS", "5")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.BaseURL != "http://override:8080" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.TypingDelayMs != 5 {
		t.Errorf("TypingDelayMs = %d, want 5", cfg.TypingDelayMs)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.BaseURL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Error("invalid base_url should fail validation")
	}

	cfg = Default()
	cfg.BaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty base_url should fail validation")
	}

	// Out-of-range numeric values are normalized, not rejected.
	cfg = Default()
	cfg.TypingDelayMs = -5
	cfg.RequestTimeoutSecs = 0
	cfg.HistoryLimit = -1
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.TypingDelayMs != 0 {
		t.Errorf("TypingDelayMs = %d, want 0", cfg.TypingDelayMs)
	}
	if cfg.RequestTimeoutSecs <= 0 || cfg.HistoryLimit <= 0 {
		t.Error("numeric fields not restored to defaults")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.BaseURL = "http://roundtrip:8000"
	cfg.HistoryLimit = 7
	cfg.UI.CompactMode = true
	if err := cfg.SaveToPath(path); err != nil {
		t.Fatalf("SaveToPath failed: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if loaded.BaseURL != cfg.BaseURL || loaded.HistoryLimit != 7 || !loaded.UI.CompactMode {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := Default()
	cfg.RequestTimeoutSecs = 45
	cfg.TypingDelayMs = 15

	if got := cfg.RequestTimeout(); got != 45*time.Second {
		t.Errorf("RequestTimeout = %v", got)
	}
	if got := cfg.TypingDelay(); got != 15*time.Millisecond {
		t.Errorf("TypingDelay = %v", got)
	}
}
