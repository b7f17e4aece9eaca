package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileBackend_MissingKey(t *testing.T) {
	b := NewFileBackend(filepath.Join(t.TempDir(), "data"))

	_, ok, err := b.Get(context.Background(), "favorites")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if ok {
		t.Fatal("Get ok = true for missing key")
	}
}

func TestFileBackend_SetCreatesDirAndOverwrites(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "data")
	b := NewFileBackend(dir)

	if err := b.Set(ctx, "cart", "first"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := b.Set(ctx, "cart", "second"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, ok, err := b.Get(ctx, "cart")
	if err != nil || !ok {
		t.Fatalf("Get = (%q, %v, %v), want value", got, ok, err)
	}
	if got != "second" {
		t.Fatalf("Get = %q, want second", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "cart.json" {
		t.Fatalf("dir entries = %v, want only cart.json", entries)
	}
}

func TestFileBackend_RejectsInvalidKeys(t *testing.T) {
	b := NewFileBackend(t.TempDir())
	for _, key := range []string{"", "../escape", "a/b", "with space"} {
		if err := b.Set(context.Background(), key, "x"); err == nil {
			t.Fatalf("Set(%q) returned nil error, want invalid key", key)
		}
	}
}

func TestFileBackend_EmptyDirIsUnavailable(t *testing.T) {
	b := NewFileBackend("  ")
	if _, _, err := b.Get(context.Background(), "cart"); err != ErrUnavailable {
		t.Fatalf("Get error = %v, want ErrUnavailable", err)
	}
}

func TestFileBackend_StoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewStore(NewFileBackend(dir), nil)

	if err := Write(ctx, s, "search_history", 1, []string{"mojito", "daiquiri"}); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	reopened := NewStore(NewFileBackend(dir), nil)
	got := Read(ctx, reopened, "search_history", 1, []string(nil))
	if len(got) != 2 || got[0] != "mojito" || got[1] != "daiquiri" {
		t.Fatalf("Read = %#v, want [mojito daiquiri]", got)
	}
}
