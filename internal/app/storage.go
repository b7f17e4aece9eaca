package app

import (
	"context"
	"fmt"

	"github.com/five82/shaker/internal/config"
	"github.com/five82/shaker/internal/kv"
)

// openBackend returns the durable storage selected by cfg and a function
// releasing it.
func openBackend(ctx context.Context, cfg config.Config) (kv.Backend, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendFile, "":
		return kv.NewFileBackend(cfg.StoreDir()), func() {}, nil
	case config.BackendMemory:
		return kv.NewMemoryBackend(), func() {}, nil
	case config.BackendRedis:
		rb, err := kv.DialRedis(ctx, cfg.Storage.RedisAddr, cfg.Storage.RedisDB, cfg.Storage.RedisPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("connect storage: %w", err)
		}
		return rb, func() { _ = rb.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
