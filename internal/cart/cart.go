// Package cart implements the shopping cart ledger: line items with
// quantities and a running total.
//
// Total is maintained incrementally on every mutation and must equal the sum
// of UnitPrice*Quantity over the current items. Verify recomputes that sum so
// callers and tests can detect drift.
package cart

import (
	"context"
	"log/slog"
	"math"

	"github.com/five82/shaker/internal/kv"
	"github.com/five82/shaker/internal/logging"
)

const (
	// StorageKey names the persisted cart state.
	StorageKey    = "cart"
	schemaVersion = 1

	// totalTolerance absorbs float rounding between the running total and a
	// recomputed sum.
	totalTolerance = 1e-6
)

// LineItem is one purchasable drink in the cart.
type LineItem struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

// Subtotal returns UnitPrice*Quantity.
func (l LineItem) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// State is the observable cart: ordered items plus the running total.
type State struct {
	Items []LineItem `json:"items"`
	Total float64    `json:"total"`
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := State{Total: s.Total}
	if len(s.Items) > 0 {
		out.Items = make([]LineItem, len(s.Items))
		copy(out.Items, s.Items)
	}
	return out
}

// Ledger owns the cart state and writes it through to the kv store. It is
// not safe for concurrent use; the owning session serializes access.
type Ledger struct {
	store *kv.Store
	state State
}

// Load restores the ledger from store. Line items with a non-positive
// quantity, a negative price or a duplicate id are dropped, and a stored
// total that disagrees with its items is rebuilt.
func Load(ctx context.Context, store *kv.Store, logger *slog.Logger) *Ledger {
	log := logging.OrDiscard(logger)
	stored := kv.Read(ctx, store, StorageKey, schemaVersion, State{})

	l := &Ledger{store: store}
	seen := make(map[int64]bool, len(stored.Items))
	for _, item := range stored.Items {
		if item.Quantity < 1 || item.UnitPrice < 0 || seen[item.ID] {
			log.Warn("dropping invalid stored cart item", "id", item.ID, "quantity", item.Quantity)
			continue
		}
		seen[item.ID] = true
		l.state.Items = append(l.state.Items, item)
	}
	l.state.Total = stored.Total
	if drift := l.Verify(); drift != 0 || len(l.state.Items) != len(stored.Items) {
		log.Warn("stored cart total drifted, rebuilding", "stored", stored.Total, "drift", drift)
		l.state.Total = sum(l.state.Items)
	}
	return l
}

// AddItem adds one unit of item. An existing line item with the same ID has
// its quantity incremented; otherwise item is appended with quantity 1.
// item.Quantity is ignored.
func (l *Ledger) AddItem(ctx context.Context, item LineItem) {
	if i := l.find(item.ID); i >= 0 {
		l.state.Items[i].Quantity++
		l.state.Total += l.state.Items[i].UnitPrice
	} else {
		item.Quantity = 1
		l.state.Items = append(l.state.Items, item)
		l.state.Total += item.UnitPrice
	}
	l.persist(ctx)
}

// RemoveItem deletes the line item for id. Absent ids are a no-op.
func (l *Ledger) RemoveItem(ctx context.Context, id int64) bool {
	i := l.find(id)
	if i < 0 {
		return false
	}
	l.removeAt(i)
	l.persist(ctx)
	return true
}

// UpdateQuantity sets the quantity of the line item for id and adjusts the
// total by the difference. A quantity of zero or less removes the line item.
// Absent ids are a no-op.
func (l *Ledger) UpdateQuantity(ctx context.Context, id int64, quantity int) bool {
	i := l.find(id)
	if i < 0 {
		return false
	}
	if quantity <= 0 {
		l.removeAt(i)
	} else {
		item := &l.state.Items[i]
		l.state.Total += float64(quantity-item.Quantity) * item.UnitPrice
		item.Quantity = quantity
	}
	l.persist(ctx)
	return true
}

// Clear empties the cart and resets the total.
func (l *Ledger) Clear(ctx context.Context) {
	l.state = State{}
	l.persist(ctx)
}

// State returns a copy of the current cart.
func (l *Ledger) State() State {
	return l.state.Clone()
}

// Count returns the number of units across all line items.
func (l *Ledger) Count() int {
	n := 0
	for _, item := range l.state.Items {
		n += item.Quantity
	}
	return n
}

// Verify returns the difference between the running total and the
// recomputed sum of products, or 0 when they agree within rounding.
func (l *Ledger) Verify() float64 {
	drift := l.state.Total - sum(l.state.Items)
	if math.Abs(drift) <= totalTolerance {
		return 0
	}
	return drift
}

func (l *Ledger) removeAt(i int) {
	l.state.Total -= l.state.Items[i].Subtotal()
	l.state.Items = append(l.state.Items[:i], l.state.Items[i+1:]...)
	if len(l.state.Items) == 0 {
		// Snap accumulated rounding error back to zero on an empty cart.
		l.state.Items = nil
		l.state.Total = 0
	}
}

func (l *Ledger) find(id int64) int {
	for i, item := range l.state.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) persist(ctx context.Context) {
	_ = kv.Write(ctx, l.store, StorageKey, schemaVersion, l.state)
}

func sum(items []LineItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}
