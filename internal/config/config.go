package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Storage backends understood by the application.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds the settings shaker reads at startup.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	DataDir        string
	HistoryLimit   int
	LogLevel       string
	Storage        Storage
	Pricing        Pricing
}

// Storage selects where favorites, cart and history are persisted.
type Storage struct {
	Backend     string
	RedisAddr   string
	RedisDB     int
	RedisPrefix string
}

// Pricing assigns unit prices to drinks added to the cart.
type Pricing struct {
	DefaultPrice float64
	Overrides    map[int64]float64
}

const (
	defaultConfigPath     = "~/.config/shaker/config.toml"
	defaultAPIBaseURL     = "https://www.thecocktaildb.com/api/json/v1/1"
	defaultRequestTimeout = 10 * time.Second
	defaultDataDir        = "~/.local/share/shaker"
	defaultHistoryLimit   = 10
	defaultLogLevel       = "info"
	defaultRedisAddr      = "127.0.0.1:6379"
	defaultRedisPrefix    = "shaker"
	defaultPrice          = 10.0
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBaseURL:     defaultAPIBaseURL,
		RequestTimeout: defaultRequestTimeout,
		DataDir:        mustExpand(defaultDataDir),
		HistoryLimit:   defaultHistoryLimit,
		LogLevel:       defaultLogLevel,
		Storage: Storage{
			Backend:     BackendFile,
			RedisAddr:   defaultRedisAddr,
			RedisPrefix: defaultRedisPrefix,
		},
		Pricing: Pricing{DefaultPrice: defaultPrice},
	}
}

type rawConfig struct {
	APIBaseURL     string `toml:"api_base_url"`
	RequestTimeout string `toml:"request_timeout"`
	DataDir        string `toml:"data_dir"`
	HistoryLimit   int    `toml:"history_limit"`
	LogLevel       string `toml:"log_level"`
	Storage        struct {
		Backend     string `toml:"backend"`
		RedisAddr   string `toml:"redis_addr"`
		RedisDB     int    `toml:"redis_db"`
		RedisPrefix string `toml:"redis_prefix"`
	} `toml:"storage"`
	Pricing struct {
		DefaultPrice *float64           `toml:"default_price"`
		Overrides    map[string]float64 `toml:"overrides"`
	} `toml:"pricing"`
}

// Load locates and parses the shaker config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse request_timeout: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("request_timeout must be positive, got %s", v)
		}
		cfg.RequestTimeout = d
	}
	if v := strings.TrimSpace(raw.DataDir); v != "" {
		cfg.DataDir = mustExpand(v)
	}
	if raw.HistoryLimit > 0 {
		cfg.HistoryLimit = raw.HistoryLimit
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	if v := strings.ToLower(strings.TrimSpace(raw.Storage.Backend)); v != "" {
		switch v {
		case BackendFile, BackendRedis, BackendMemory:
			cfg.Storage.Backend = v
		default:
			return Config{}, fmt.Errorf("unknown storage backend %q", v)
		}
	}
	if v := strings.TrimSpace(raw.Storage.RedisAddr); v != "" {
		cfg.Storage.RedisAddr = v
	}
	if raw.Storage.RedisDB < 0 {
		return Config{}, fmt.Errorf("redis_db must not be negative, got %d", raw.Storage.RedisDB)
	}
	cfg.Storage.RedisDB = raw.Storage.RedisDB
	if v := strings.TrimSpace(raw.Storage.RedisPrefix); v != "" {
		cfg.Storage.RedisPrefix = v
	}

	if p := raw.Pricing.DefaultPrice; p != nil {
		if !validPrice(*p) {
			return Config{}, fmt.Errorf("default_price must be a finite non-negative number, got %v", *p)
		}
		cfg.Pricing.DefaultPrice = *p
	}
	if len(raw.Pricing.Overrides) > 0 {
		cfg.Pricing.Overrides = make(map[int64]float64, len(raw.Pricing.Overrides))
		for key, price := range raw.Pricing.Overrides {
			id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
			if err != nil {
				return Config{}, fmt.Errorf("pricing override %q: drink id must be numeric", key)
			}
			if !validPrice(price) {
				return Config{}, fmt.Errorf("pricing override %q: price must be a finite non-negative number, got %v", key, price)
			}
			cfg.Pricing.Overrides[id] = price
		}
	}

	return cfg, nil
}

func validPrice(p float64) bool {
	return p >= 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}

// LogPath returns the path of the application log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir + "/shaker.log")
	}
	return filepath.Join(c.DataDir, "shaker.log")
}

// StoreDir returns the directory used by the file storage backend.
func (c Config) StoreDir() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir + "/store")
	}
	return filepath.Join(c.DataDir, "store")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
