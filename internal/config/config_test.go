package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Fatalf("APIBaseURL = %q, want %q", cfg.APIBaseURL, defaultAPIBaseURL)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Fatalf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
	if cfg.HistoryLimit != 10 {
		t.Fatalf("HistoryLimit = %d, want 10", cfg.HistoryLimit)
	}
	if cfg.Storage.Backend != BackendFile {
		t.Fatalf("Storage.Backend = %q, want %q", cfg.Storage.Backend, BackendFile)
	}
	if cfg.Pricing.DefaultPrice != 10 {
		t.Fatalf("DefaultPrice = %v, want 10", cfg.Pricing.DefaultPrice)
	}

	wantDataDir, err := expandPath(defaultDataDir)
	if err != nil {
		t.Fatalf("expandPath(defaultDataDir) returned error: %v", err)
	}
	if cfg.DataDir != wantDataDir {
		t.Fatalf("DataDir = %q, want %q", cfg.DataDir, wantDataDir)
	}
	if cfg.LogPath() != filepath.Join(wantDataDir, "shaker.log") {
		t.Fatalf("LogPath = %q, want %q", cfg.LogPath(), filepath.Join(wantDataDir, "shaker.log"))
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
api_base_url = "  http://localhost:9000/api  "
request_timeout = "3s"
data_dir = "  ~/.shaker  "
history_limit = 25
log_level = " DEBUG "

[storage]
backend = "Redis"
redis_addr = "10.0.0.5:6380"
redis_db = 2
redis_prefix = "bar"

[pricing]
default_price = 7.5

[pricing.overrides]
"11007" = 12.5
" 11000 " = 0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:9000/api" {
		t.Fatalf("APIBaseURL = %q, want %q", cfg.APIBaseURL, "http://localhost:9000/api")
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("RequestTimeout = %v, want 3s", cfg.RequestTimeout)
	}
	if !strings.HasPrefix(cfg.DataDir, home) {
		t.Fatalf("DataDir = %q, want it under HOME %q", cfg.DataDir, home)
	}
	if cfg.HistoryLimit != 25 {
		t.Fatalf("HistoryLimit = %d, want 25", cfg.HistoryLimit)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	want := Storage{Backend: BackendRedis, RedisAddr: "10.0.0.5:6380", RedisDB: 2, RedisPrefix: "bar"}
	if cfg.Storage != want {
		t.Fatalf("Storage = %+v, want %+v", cfg.Storage, want)
	}
	if cfg.Pricing.DefaultPrice != 7.5 {
		t.Fatalf("DefaultPrice = %v, want 7.5", cfg.Pricing.DefaultPrice)
	}
	if got := cfg.Pricing.Overrides[11007]; got != 12.5 {
		t.Fatalf("Overrides[11007] = %v, want 12.5", got)
	}
	if got, ok := cfg.Pricing.Overrides[11000]; !ok || got != 0 {
		t.Fatalf("Overrides[11000] = %v, %v; want 0, true", got, ok)
	}
	if cfg.StoreDir() != filepath.Join(cfg.DataDir, "store") {
		t.Fatalf("StoreDir = %q, want %q", cfg.StoreDir(), filepath.Join(cfg.DataDir, "store"))
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
api_base_url = "   "
data_dir = ""
history_limit = 0

[pricing]
default_price = 0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Fatalf("APIBaseURL = %q, want %q", cfg.APIBaseURL, defaultAPIBaseURL)
	}
	if cfg.HistoryLimit != defaultHistoryLimit {
		t.Fatalf("HistoryLimit = %d, want %d", cfg.HistoryLimit, defaultHistoryLimit)
	}
	if cfg.Pricing.DefaultPrice != 0 {
		t.Fatalf("DefaultPrice = %v, want explicit 0", cfg.Pricing.DefaultPrice)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name string
		body string
	}{
		{"malformed toml", "not valid toml {{{"},
		{"bad timeout", `request_timeout = "soon"`},
		{"zero timeout", `request_timeout = "0s"`},
		{"unknown backend", "[storage]\nbackend = \"sqlite\""},
		{"negative redis db", "[storage]\nredis_db = -1"},
		{"negative price", "[pricing]\ndefault_price = -1.0"},
		{"non-numeric override", "[pricing.overrides]\nmojito = 3.0"},
		{"negative override", "[pricing.overrides]\n\"11000\" = -2.0"},
		{"nan price", "[pricing]\ndefault_price = nan"},
		{"infinite price", "[pricing]\ndefault_price = -inf"},
		{"infinite override", "[pricing.overrides]\n\"11000\" = inf"},
		{"nan override", "[pricing.overrides]\n\"11000\" = nan"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Fatalf("Load returned nil error for %q", tt.body)
			}
		})
	}
}

func TestLoad_DefaultPathUsesHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "shaker")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("history_limit = 3\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HistoryLimit != 3 {
		t.Fatalf("HistoryLimit = %d, want 3", cfg.HistoryLimit)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/data")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "data") {
		t.Fatalf("expandPath = %q, want %q", got, filepath.Join(home, "data"))
	}
	if _, err := expandPath("   "); err == nil {
		t.Fatal("expandPath of blank path returned nil error")
	}
}
