// Package favorites tracks the drinks a user has marked as liked.
//
// The collection is keyed by the recipe API's drink id and is written through
// to the kv store after every change, so the stored set never lags memory by
// more than the update in progress.
package favorites

import (
	"context"
	"strings"

	"github.com/five82/shaker/internal/kv"
)

const (
	// StorageKey names the persisted favorites set.
	StorageKey    = "favorites"
	schemaVersion = 1
)

// Item is a favorited drink.
type Item struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// Collection is an insertion-ordered set of Items. It is not safe for
// concurrent use; the owning session serializes access.
type Collection struct {
	store *kv.Store
	items []Item
	index map[string]int
}

// Load restores the collection from store. Duplicate or blank ids found in
// storage are dropped.
func Load(ctx context.Context, store *kv.Store) *Collection {
	c := &Collection{store: store, index: make(map[string]int)}
	for _, item := range kv.Read(ctx, store, StorageKey, schemaVersion, []Item(nil)) {
		if strings.TrimSpace(item.ID) == "" {
			continue
		}
		if _, dup := c.index[item.ID]; dup {
			continue
		}
		c.index[item.ID] = len(c.items)
		c.items = append(c.items, item)
	}
	return c
}

// Add inserts item unless an entry with the same ID exists. It reports
// whether the collection changed.
func (c *Collection) Add(ctx context.Context, item Item) bool {
	if strings.TrimSpace(item.ID) == "" || c.Contains(item.ID) {
		return false
	}
	c.index[item.ID] = len(c.items)
	c.items = append(c.items, item)
	c.persist(ctx)
	return true
}

// Remove deletes the entry for id. Absent ids are a no-op.
func (c *Collection) Remove(ctx context.Context, id string) bool {
	pos, ok := c.index[id]
	if !ok {
		return false
	}
	c.items = append(c.items[:pos], c.items[pos+1:]...)
	delete(c.index, id)
	for i := pos; i < len(c.items); i++ {
		c.index[c.items[i].ID] = i
	}
	c.persist(ctx)
	return true
}

// Toggle removes item when it is a favorite and adds it otherwise. It
// returns true when the item is a favorite afterwards.
func (c *Collection) Toggle(ctx context.Context, item Item) bool {
	if c.Contains(item.ID) {
		c.Remove(ctx, item.ID)
		return false
	}
	return c.Add(ctx, item)
}

// Contains reports whether id is a favorite.
func (c *Collection) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Items returns a copy of the favorites in insertion order.
func (c *Collection) Items() []Item {
	if len(c.items) == 0 {
		return nil
	}
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection) Len() int {
	return len(c.items)
}

func (c *Collection) persist(ctx context.Context) {
	// Write failures are logged by the store; memory stays authoritative.
	_ = kv.Write(ctx, c.store, StorageKey, schemaVersion, c.items)
}
