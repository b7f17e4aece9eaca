// Package history keeps the list of recent successful search terms.
package history

import (
	"context"
	"strings"

	"github.com/five82/shaker/internal/kv"
)

const (
	// StorageKey names the persisted search history.
	StorageKey    = "search_history"
	schemaVersion = 1

	// DefaultLimit caps the history when no limit is configured.
	DefaultLimit = 10
)

// History is an ordered, deduplicated, most-recent-first list of terms
// bounded by a maximum length. It is not safe for concurrent use.
type History struct {
	store *kv.Store
	limit int
	terms []string
}

// Load reads the history from store once. A limit of zero or less uses
// DefaultLimit. Stored entries are cleaned up the same way Record would.
func Load(ctx context.Context, store *kv.Store, limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	h := &History{store: store, limit: limit}
	stored := kv.Read(ctx, store, StorageKey, schemaVersion, []string(nil))
	seen := make(map[string]bool, len(stored))
	for _, term := range stored {
		term = strings.TrimSpace(term)
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		h.terms = append(h.terms, term)
		if len(h.terms) == h.limit {
			break
		}
	}
	return h
}

// Record moves term to the front, removing any earlier occurrence, and
// truncates to the limit. Callers record only searches that returned results.
func (h *History) Record(ctx context.Context, term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	next := make([]string, 0, min(len(h.terms)+1, h.limit))
	next = append(next, term)
	for _, existing := range h.terms {
		if len(next) == h.limit {
			break
		}
		if existing != term {
			next = append(next, existing)
		}
	}
	h.terms = next
	_ = kv.Write(ctx, h.store, StorageKey, schemaVersion, h.terms)
}

// List returns the terms, most recent first.
func (h *History) List() []string {
	if len(h.terms) == 0 {
		return nil
	}
	out := make([]string, len(h.terms))
	copy(out, h.terms)
	return out
}
