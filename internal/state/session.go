package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/five82/shaker/internal/cart"
	"github.com/five82/shaker/internal/cocktaildb"
	"github.com/five82/shaker/internal/favorites"
	"github.com/five82/shaker/internal/history"
	"github.com/five82/shaker/internal/kv"
	"github.com/five82/shaker/internal/logging"
	"github.com/five82/shaker/internal/querycache"
)

var (
	// ErrEmptyTerm is returned by Search for a blank term.
	ErrEmptyTerm = errors.New("search term is empty")
	// ErrClosed is returned by actions on a closed session.
	ErrClosed = errors.New("session closed")
)

const (
	searchKeyPrefix = "search:"
	drinkKeyPrefix  = "drink:"
)

// SearchKey is the query key shown in snapshots for a search term.
func SearchKey(term string) string { return searchKeyPrefix + strings.TrimSpace(term) }

// DrinkKey is the query key shown in snapshots for a drink lookup.
func DrinkKey(id string) string { return drinkKeyPrefix + strings.TrimSpace(id) }

// Options configure a Session.
type Options struct {
	Store        *kv.Store
	Lookup       cocktaildb.Lookup
	Prices       Prices
	HistoryLimit int
	Logger       *slog.Logger
}

// Session is the client state container for one run of the application.
type Session struct {
	id     string
	log    *slog.Logger
	prices Prices

	searches *querycache.Cache[[]cocktaildb.Drink]
	drinks   *querycache.Cache[cocktaildb.Drink]

	mu          sync.Mutex
	favorites   *favorites.Collection
	cart        *cart.Ledger
	history     *history.History
	lastErr     error
	lastUpdated time.Time
	closed      bool
}

// Open loads persisted state and returns a ready Session.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.Lookup == nil {
		return nil, fmt.Errorf("session requires a recipe lookup")
	}
	id := uuid.NewString()
	log := logging.OrDiscard(opts.Logger).With("session", id)

	s := &Session{
		id:          id,
		log:         log,
		prices:      opts.Prices,
		favorites:   favorites.Load(ctx, opts.Store),
		cart:        cart.Load(ctx, opts.Store, log),
		history:     history.Load(ctx, opts.Store, opts.HistoryLimit),
		lastUpdated: time.Now(),
	}
	lookup := opts.Lookup
	s.searches = querycache.New(func(ctx context.Context, term string) ([]cocktaildb.Drink, error) {
		return lookup.SearchByName(ctx, term)
	}, log)
	s.drinks = querycache.New(func(ctx context.Context, id string) (cocktaildb.Drink, error) {
		d, err := lookup.LookupByID(ctx, id)
		if err != nil {
			return cocktaildb.Drink{}, err
		}
		return *d, nil
	}, log)

	log.Info("session opened",
		"favorites", s.favorites.Len(),
		"cart_items", s.cart.Count(),
		"history", len(s.history.List()))
	return s, nil
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// Close ends the session. Later actions are rejected. Safe to call twice.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	st := s.cart.State()
	s.log.Info("session closed",
		"favorites", s.favorites.Len(),
		"cart_items", s.cart.Count(),
		"cart_total", st.Total)
	return nil
}

// AddFavorite marks item as a favorite. Duplicates are ignored.
func (s *Session) AddFavorite(ctx context.Context, item favorites.Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	changed := s.favorites.Add(ctx, item)
	s.touch()
	return changed
}

// RemoveFavorite unmarks id. Unknown ids are ignored.
func (s *Session) RemoveFavorite(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	changed := s.favorites.Remove(ctx, id)
	s.touch()
	return changed
}

// ToggleFavorite flips the favorite state of drink and returns the new state.
func (s *Session) ToggleFavorite(ctx context.Context, drink cocktaildb.Drink) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.favorites.Contains(drink.ID)
	}
	now := s.favorites.Toggle(ctx, favorites.Item{
		ID:           drink.ID,
		Name:         drink.Name,
		ThumbnailURL: drink.Thumbnail,
	})
	s.touch()
	return now
}

// IsFavorite reports whether id is a favorite.
func (s *Session) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorites.Contains(id)
}

// AddToCart adds one unit of drink at its configured price.
func (s *Session) AddToCart(ctx context.Context, drink cocktaildb.Drink) error {
	id, err := drink.NumericID()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.cart.AddItem(ctx, cart.LineItem{ID: id, Name: drink.Name, UnitPrice: s.prices.Price(id)})
	s.touch()
	return nil
}

// RemoveFromCart deletes the line item for id.
func (s *Session) RemoveFromCart(ctx context.Context, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	changed := s.cart.RemoveItem(ctx, id)
	s.touch()
	return changed
}

// SetQuantity sets the quantity for id; zero or less removes the line item.
func (s *Session) SetQuantity(ctx context.Context, id int64, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	changed := s.cart.UpdateQuantity(ctx, id, quantity)
	s.touch()
	return changed
}

// ClearCart empties the cart.
func (s *Session) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.cart.Clear(ctx)
	s.touch()
}

// Search returns the drinks matching term, reusing a cached result when one
// exists. Non-empty results are recorded in the history.
func (s *Session) Search(ctx context.Context, term string) ([]cocktaildb.Drink, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptyTerm
	}
	if s.isClosed() {
		return nil, ErrClosed
	}

	drinks, err := s.searches.Get(ctx, term)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.lastErr = fmt.Errorf("search %q: %w", term, err)
		}
		s.touch()
		return nil, err
	}
	s.lastErr = nil
	if len(drinks) > 0 && !s.closed {
		s.history.Record(ctx, term)
	}
	for _, d := range drinks {
		s.drinks.Prime(d.ID, d)
	}
	s.touch()
	return cloneDrinks(drinks), nil
}

// Lookup returns the drink with id, reusing a cached result when one exists.
func (s *Session) Lookup(ctx context.Context, id string) (cocktaildb.Drink, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return cocktaildb.Drink{}, fmt.Errorf("drink id required")
	}
	if s.isClosed() {
		return cocktaildb.Drink{}, ErrClosed
	}

	drink, err := s.drinks.Get(ctx, id)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.lastErr = fmt.Errorf("lookup %s: %w", id, err)
		}
		s.touch()
		return cocktaildb.Drink{}, err
	}
	s.lastErr = nil
	s.touch()
	return drink.Clone(), nil
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	fetches := make(map[string]querycache.Entry)
	for term, e := range s.searches.States() {
		fetches[SearchKey(term)] = e
	}
	for id, e := range s.drinks.States() {
		fetches[DrinkKey(id)] = e
	}

	snap := Snapshot{
		Favorites:   s.favorites.Items(),
		Cart:        s.cart.State(),
		CartCount:   s.cart.Count(),
		History:     s.history.List(),
		Fetches:     fetches,
		LastUpdated: s.lastUpdated,
	}
	if s.lastErr != nil {
		snap.LastError = fmt.Errorf("%w", s.lastErr)
	}
	return snap
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// touch records the time of the latest state change. Callers hold s.mu.
func (s *Session) touch() {
	s.lastUpdated = time.Now()
}

func cloneDrinks(drinks []cocktaildb.Drink) []cocktaildb.Drink {
	if len(drinks) == 0 {
		return nil
	}
	out := make([]cocktaildb.Drink, len(drinks))
	for i, d := range drinks {
		out[i] = d.Clone()
	}
	return out
}
