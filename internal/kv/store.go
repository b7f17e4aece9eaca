package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/five82/shaker/internal/logging"
)

// Store reads and writes versioned JSON values through a Backend.
// A Store with a nil backend behaves as unavailable storage.
type Store struct {
	backend Backend
	log     *slog.Logger
}

// NewStore returns a Store over backend.
func NewStore(backend Backend, logger *slog.Logger) *Store {
	return &Store{backend: backend, log: logging.OrDiscard(logger).With("component", "kv")}
}

// logger returns the store's logger, or the process default for a nil Store.
func (s *Store) logger() *slog.Logger {
	if s == nil || s.log == nil {
		return slog.Default()
	}
	return s.log
}

type envelope struct {
	Version int             `json:"v"`
	Data    json.RawMessage `json:"data"`
}

// Read decodes the value stored under key. It returns def when storage is
// unavailable, the key is unset, or the payload does not decode as schema
// version.
func Read[T any](ctx context.Context, s *Store, key string, version int, def T) T {
	if s == nil || s.backend == nil {
		s.logger().Warn("storage unavailable, using default", "key", key)
		return def
	}
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.log.Warn("storage read failed, using default", "key", key, "error", err)
		return def
	}
	if !ok {
		return def
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		s.log.Warn("malformed stored value, using default", "key", key, "error", err)
		return def
	}
	if env.Version != version {
		s.log.Warn("stored schema version mismatch, using default", "key", key, "stored", env.Version, "want", version)
		return def
	}
	var value T
	if err := json.Unmarshal(env.Data, &value); err != nil {
		s.log.Warn("stored payload does not match schema, using default", "key", key, "error", err)
		return def
	}
	return value
}

// Write encodes value under key. Failures are logged and returned; callers
// may ignore the error since persistence is best effort.
func Write[T any](ctx context.Context, s *Store, key string, version int, value T) error {
	if s == nil || s.backend == nil {
		s.logger().Error("storage unavailable, value not persisted", "key", key)
		return ErrUnavailable
	}
	data, err := json.Marshal(value)
	if err != nil {
		s.log.Error("encode value failed", "key", key, "error", err)
		return fmt.Errorf("encode %s: %w", key, err)
	}
	payload, err := json.Marshal(envelope{Version: version, Data: data})
	if err != nil {
		s.log.Error("encode envelope failed", "key", key, "error", err)
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.backend.Set(ctx, key, string(payload)); err != nil {
		s.log.Error("storage write failed", "key", key, "error", err)
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}
