package state

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/five82/shaker/internal/cocktaildb"
	"github.com/five82/shaker/internal/favorites"
	"github.com/five82/shaker/internal/kv"
	"github.com/five82/shaker/internal/querycache"
)

var (
	mojito    = cocktaildb.Drink{ID: "11000", Name: "Mojito", Thumbnail: "https://example.com/mojito.jpg"}
	margarita = cocktaildb.Drink{ID: "11007", Name: "Margarita", Thumbnail: "https://example.com/margarita.jpg"}
)

type fakeLookup struct {
	mu       sync.Mutex
	results  map[string][]cocktaildb.Drink
	failWith error
	gate     chan struct{} // when non-nil, searches block until closed

	searchCalls atomic.Int32
	lookupCalls atomic.Int32
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{results: map[string][]cocktaildb.Drink{
		"mojito":    {mojito},
		"margarita": {margarita},
		"daiquiri":  {{ID: "11006", Name: "Daiquiri"}},
	}}
}

func (f *fakeLookup) SearchByName(ctx context.Context, term string) ([]cocktaildb.Drink, error) {
	f.searchCalls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.results[term], nil
}

func (f *fakeLookup) LookupByID(ctx context.Context, id string) (*cocktaildb.Drink, error) {
	f.lookupCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, drinks := range f.results {
		for _, d := range drinks {
			if d.ID == id {
				return &d, nil
			}
		}
	}
	return nil, cocktaildb.ErrNotFound
}

func (f *fakeLookup) setFailure(err error) {
	f.mu.Lock()
	f.failWith = err
	f.mu.Unlock()
}

func openSession(t *testing.T, lookup cocktaildb.Lookup, store *kv.Store) *Session {
	t.Helper()
	if store == nil {
		store = kv.NewStore(kv.NewMemoryBackend(), nil)
	}
	s, err := Open(context.Background(), Options{
		Store:  store,
		Lookup: lookup,
		Prices: Prices{Default: 10},
	})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_RequiresLookup(t *testing.T) {
	if _, err := Open(context.Background(), Options{}); err == nil {
		t.Fatal("Open without lookup returned nil error")
	}
}

func TestSearch_RecordsOnlyNonEmptyResults(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, newFakeLookup(), nil)

	for _, term := range []string{"mojito", "daiquiri", "nothing-here", "mojito"} {
		if _, err := s.Search(ctx, term); err != nil {
			t.Fatalf("Search(%q) error: %v", term, err)
		}
	}

	got := s.Snapshot().History
	if len(got) != 2 || got[0] != "mojito" || got[1] != "daiquiri" {
		t.Fatalf("History = %v, want [mojito daiquiri]", got)
	}
}

func TestSearch_BlankTermDoesNotFetch(t *testing.T) {
	lookup := newFakeLookup()
	s := openSession(t, lookup, nil)

	if _, err := s.Search(context.Background(), "   "); !errors.Is(err, ErrEmptyTerm) {
		t.Fatalf("Search blank error = %v, want ErrEmptyTerm", err)
	}
	if lookup.searchCalls.Load() != 0 {
		t.Fatalf("search calls = %d, want 0", lookup.searchCalls.Load())
	}
}

func TestSearch_ReusesCachedResult(t *testing.T) {
	ctx := context.Background()
	lookup := newFakeLookup()
	s := openSession(t, lookup, nil)

	first, _ := s.Search(ctx, "mojito")
	second, _ := s.Search(ctx, " mojito ")
	if lookup.searchCalls.Load() != 1 {
		t.Fatalf("search calls = %d, want 1", lookup.searchCalls.Load())
	}
	if len(first) != 1 || len(second) != 1 || first[0].ID != second[0].ID {
		t.Fatalf("results differ: %v vs %v", first, second)
	}
	if st := s.Snapshot().Fetch(SearchKey("mojito")); st.Status != querycache.Succeeded {
		t.Fatalf("fetch state = %v, want SUCCEEDED", st.Status)
	}
}

func TestSearch_FailureSurfacesAndRetries(t *testing.T) {
	ctx := context.Background()
	lookup := newFakeLookup()
	lookup.setFailure(errors.New("api down"))
	s := openSession(t, lookup, nil)

	if _, err := s.Search(ctx, "mojito"); err == nil {
		t.Fatal("Search returned nil error, want failure")
	}
	snap := s.Snapshot()
	if snap.LastError == nil {
		t.Fatal("LastError = nil after failed search")
	}
	if st := snap.Fetch(SearchKey("mojito")); st.Status != querycache.Failed || st.Err == nil {
		t.Fatalf("fetch state = %+v, want FAILED", st)
	}
	if len(snap.History) != 0 {
		t.Fatalf("History = %v, want empty after failure", snap.History)
	}

	lookup.setFailure(nil)
	if _, err := s.Search(ctx, "mojito"); err != nil {
		t.Fatalf("retry error: %v", err)
	}
	if lookup.searchCalls.Load() != 2 {
		t.Fatalf("search calls = %d, want 2", lookup.searchCalls.Load())
	}
	if s.Snapshot().LastError != nil {
		t.Fatal("LastError should clear after a successful retry")
	}
}

func TestSearch_ConcurrentSameTermFetchesOnce(t *testing.T) {
	lookup := newFakeLookup()
	lookup.gate = make(chan struct{})
	s := openSession(t, lookup, nil)

	var wg sync.WaitGroup
	results := make([][]cocktaildb.Drink, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = s.Search(context.Background(), "margarita")
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(lookup.gate)
	wg.Wait()

	if lookup.searchCalls.Load() != 1 {
		t.Fatalf("search calls = %d, want 1", lookup.searchCalls.Load())
	}
	for i := range 2 {
		if len(results[i]) != 1 || results[i][0].ID != margarita.ID {
			t.Fatalf("caller %d result = %v, want margarita", i, results[i])
		}
	}
}

func TestSearch_OtherActionsProceedWhileInFlight(t *testing.T) {
	lookup := newFakeLookup()
	lookup.gate = make(chan struct{})
	s := openSession(t, lookup, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Search(context.Background(), "mojito")
	}()

	deadline := time.Now().Add(2 * time.Second)
	for s.Snapshot().Fetch(SearchKey("mojito")).Status != querycache.InFlight {
		if time.Now().After(deadline) {
			t.Fatal("search never went IN_FLIGHT")
		}
		time.Sleep(time.Millisecond)
	}

	if !s.AddFavorite(context.Background(), favorites.Item{ID: "1", Name: "A"}) {
		t.Fatal("AddFavorite during in-flight search reported no change")
	}
	close(lookup.gate)
	<-done
}

func TestSearch_PrimesDrinkCache(t *testing.T) {
	ctx := context.Background()
	lookup := newFakeLookup()
	s := openSession(t, lookup, nil)

	if _, err := s.Search(ctx, "mojito"); err != nil {
		t.Fatalf("Search error: %v", err)
	}
	d, err := s.Lookup(ctx, "11000")
	if err != nil || d.Name != "Mojito" {
		t.Fatalf("Lookup = %v, %v; want Mojito", d, err)
	}
	if lookup.lookupCalls.Load() != 0 {
		t.Fatalf("lookup calls = %d, want 0", lookup.lookupCalls.Load())
	}
}

func TestLookup_CachesAndReportsNotFound(t *testing.T) {
	ctx := context.Background()
	lookup := newFakeLookup()
	s := openSession(t, lookup, nil)

	for range 2 {
		if _, err := s.Lookup(ctx, "11007"); err != nil {
			t.Fatalf("Lookup error: %v", err)
		}
	}
	if lookup.lookupCalls.Load() != 1 {
		t.Fatalf("lookup calls = %d, want 1", lookup.lookupCalls.Load())
	}

	if _, err := s.Lookup(ctx, "404"); !errors.Is(err, cocktaildb.ErrNotFound) {
		t.Fatalf("Lookup(404) error = %v, want ErrNotFound", err)
	}
	if st := s.Snapshot().Fetch(DrinkKey("404")); st.Status != querycache.Failed {
		t.Fatalf("fetch state = %v, want FAILED", st.Status)
	}
}

func TestFavorites_ThroughSessionAndPersisted(t *testing.T) {
	ctx := context.Background()
	store := kv.NewStore(kv.NewMemoryBackend(), nil)
	s := openSession(t, newFakeLookup(), store)

	if !s.ToggleFavorite(ctx, mojito) {
		t.Fatal("ToggleFavorite should add mojito")
	}
	s.AddFavorite(ctx, favorites.Item{ID: margarita.ID, Name: margarita.Name})
	s.AddFavorite(ctx, favorites.Item{ID: margarita.ID, Name: margarita.Name})
	if !s.IsFavorite(mojito.ID) || len(s.Snapshot().Favorites) != 2 {
		t.Fatalf("favorites = %v, want mojito and margarita", s.Snapshot().Favorites)
	}
	if !s.RemoveFavorite(ctx, margarita.ID) {
		t.Fatal("RemoveFavorite reported no change")
	}

	reopened := openSession(t, newFakeLookup(), store)
	snap := reopened.Snapshot()
	if len(snap.Favorites) != 1 || !snap.IsFavorite(mojito.ID) {
		t.Fatalf("reopened favorites = %v, want [mojito]", snap.Favorites)
	}
	if snap.Favorites[0].ThumbnailURL != mojito.Thumbnail {
		t.Fatalf("thumbnail = %q, want %q", snap.Favorites[0].ThumbnailURL, mojito.Thumbnail)
	}
}

func TestCart_ThroughSession(t *testing.T) {
	ctx := context.Background()
	store := kv.NewStore(kv.NewMemoryBackend(), nil)
	s := openSession(t, newFakeLookup(), store)

	if err := s.AddToCart(ctx, mojito); err != nil {
		t.Fatalf("AddToCart error: %v", err)
	}
	_ = s.AddToCart(ctx, mojito)
	_ = s.AddToCart(ctx, margarita)
	s.SetQuantity(ctx, 11000, 5)

	snap := s.Snapshot()
	if snap.Cart.Total != 60 || snap.CartCount != 6 || snap.Quantity(11000) != 5 {
		t.Fatalf("cart = %+v count %d, want total 60 count 6", snap.Cart, snap.CartCount)
	}

	reopened := openSession(t, newFakeLookup(), store)
	if reopened.Snapshot().Cart.Total != 60 {
		t.Fatalf("reopened total = %v, want 60", reopened.Snapshot().Cart.Total)
	}

	s.RemoveFromCart(ctx, 11007)
	s.ClearCart(ctx)
	if snap := s.Snapshot(); len(snap.Cart.Items) != 0 || snap.Cart.Total != 0 {
		t.Fatalf("cart after clear = %+v, want empty", snap.Cart)
	}
}

func TestAddToCart_RejectsNonNumericID(t *testing.T) {
	s := openSession(t, newFakeLookup(), nil)
	if err := s.AddToCart(context.Background(), cocktaildb.Drink{ID: "abc"}); err == nil {
		t.Fatal("AddToCart returned nil error for non-numeric id")
	}
}

func TestClose_RejectsLaterActions(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, newFakeLookup(), nil)
	if err := s.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close error: %v", err)
	}

	if s.AddFavorite(ctx, favorites.Item{ID: "1"}) {
		t.Fatal("AddFavorite on closed session reported a change")
	}
	if err := s.AddToCart(ctx, mojito); !errors.Is(err, ErrClosed) {
		t.Fatalf("AddToCart error = %v, want ErrClosed", err)
	}
	if _, err := s.Search(ctx, "mojito"); !errors.Is(err, ErrClosed) {
		t.Fatalf("Search error = %v, want ErrClosed", err)
	}
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, newFakeLookup(), nil)
	_ = s.AddToCart(ctx, mojito)
	s.AddFavorite(ctx, favorites.Item{ID: "1", Name: "A"})

	snap := s.Snapshot()
	snap.Cart.Items[0].Quantity = 99
	snap.Favorites[0].Name = "changed"

	again := s.Snapshot()
	if again.Cart.Items[0].Quantity != 1 || again.Favorites[0].Name != "A" {
		t.Fatal("Snapshot shares state with the session")
	}
	if !again.LastUpdated.After(time.Time{}) {
		t.Fatal("LastUpdated is zero")
	}
	if _, err := uuid.Parse(s.ID()); err != nil {
		t.Fatalf("ID %q is not a UUID: %v", s.ID(), err)
	}
}

func TestPrices(t *testing.T) {
	p := Prices{Default: 10, Overrides: map[int64]float64{11007: 12.5, 1: -3}}
	if got := p.Price(11000); got != 10 {
		t.Fatalf("Price(default) = %v, want 10", got)
	}
	if got := p.Price(11007); got != 12.5 {
		t.Fatalf("Price(override) = %v, want 12.5", got)
	}
	if got := p.Price(1); got != 0 {
		t.Fatalf("Price(negative) = %v, want 0", got)
	}

	odd := Prices{Default: math.NaN(), Overrides: map[int64]float64{11007: math.Inf(1), 2: math.Inf(-1)}}
	for _, id := range []int64{11000, 11007, 2} {
		if got := odd.Price(id); got != 0 {
			t.Fatalf("Price(%d) = %v, want 0 for non-finite price", id, got)
		}
	}
}

func TestCart_NonFinitePriceStillPersists(t *testing.T) {
	ctx := context.Background()
	store := kv.NewStore(kv.NewMemoryBackend(), nil)
	s, err := Open(ctx, Options{
		Store:  store,
		Lookup: newFakeLookup(),
		Prices: Prices{Default: math.NaN()},
	})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := s.AddToCart(ctx, mojito); err != nil {
		t.Fatalf("AddToCart error: %v", err)
	}
	if total := s.Snapshot().Cart.Total; total != 0 {
		t.Fatalf("total = %v, want 0", total)
	}
	_ = s.Close()

	reopened := openSession(t, newFakeLookup(), store)
	cart := reopened.Snapshot().Cart
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 1 {
		t.Fatalf("reopened cart = %+v, want one mojito", cart.Items)
	}
}
