package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/five82/shaker/internal/config"
	"github.com/five82/shaker/internal/kv"
)

func TestOpenBackend_File(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()

	backend, closeFn, err := openBackend(context.Background(), cfg)
	if err != nil {
		t.Fatalf("openBackend returned error: %v", err)
	}
	defer closeFn()

	if _, ok := backend.(*kv.FileBackend); !ok {
		t.Fatalf("backend = %T, want *kv.FileBackend", backend)
	}
	if err := backend.Set(context.Background(), "cart", "{}"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.DataDir, "store", "cart.json")); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
}

func TestOpenBackend_Memory(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = config.BackendMemory

	backend, closeFn, err := openBackend(context.Background(), cfg)
	if err != nil {
		t.Fatalf("openBackend returned error: %v", err)
	}
	defer closeFn()
	if _, ok := backend.(*kv.MemoryBackend); !ok {
		t.Fatalf("backend = %T, want *kv.MemoryBackend", backend)
	}
}

func TestOpenBackend_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := config.Default()
	cfg.Storage.Backend = config.BackendRedis
	cfg.Storage.RedisAddr = mr.Addr()
	cfg.Storage.RedisPrefix = "test"

	backend, closeFn, err := openBackend(context.Background(), cfg)
	if err != nil {
		t.Fatalf("openBackend returned error: %v", err)
	}
	defer closeFn()

	if err := backend.Set(context.Background(), "favorites", "[]"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	got, err := mr.Get("test:favorites")
	if err != nil || got != "[]" {
		t.Fatalf("redis value = %q, %v; want %q", got, err, "[]")
	}
}

func TestOpenBackend_Errors(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := config.Default()
	cfg.Storage.Backend = config.BackendRedis
	cfg.Storage.RedisAddr = addr
	if _, _, err := openBackend(context.Background(), cfg); err == nil {
		t.Fatal("openBackend with unreachable redis returned nil error")
	}

	cfg.Storage.Backend = "sqlite"
	if _, _, err := openBackend(context.Background(), cfg); err == nil {
		t.Fatal("openBackend with unknown backend returned nil error")
	}
}
