package state

import (
	"time"

	"github.com/five82/shaker/internal/cart"
	"github.com/five82/shaker/internal/favorites"
	"github.com/five82/shaker/internal/querycache"
)

// Snapshot is a read-only copy of the session state for rendering.
type Snapshot struct {
	Favorites   []favorites.Item
	Cart        cart.State
	CartCount   int
	History     []string
	Fetches     map[string]querycache.Entry
	LastError   error
	LastUpdated time.Time
}

// IsFavorite reports whether id is in the snapshot's favorites.
func (s Snapshot) IsFavorite(id string) bool {
	for _, item := range s.Favorites {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Fetch returns the fetch state for a query key built with SearchKey or
// DrinkKey. Unknown keys are UNFETCHED.
func (s Snapshot) Fetch(key string) querycache.Entry {
	if e, ok := s.Fetches[key]; ok {
		return e
	}
	return querycache.Entry{Status: querycache.Unfetched}
}

// Quantity returns the cart quantity for id, or 0.
func (s Snapshot) Quantity(id int64) int {
	for _, item := range s.Cart.Items {
		if item.ID == id {
			return item.Quantity
		}
	}
	return 0
}
