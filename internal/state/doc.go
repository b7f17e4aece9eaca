// Package state holds shaker's client state for one session.
//
// # Overview
//
// Session is the single state container the UI talks to. It is built once at
// startup by Open, handed to the UI, and torn down by Close. It owns:
//
//   - the favorites collection (write-through to the kv store)
//   - the cart ledger (write-through to the kv store)
//   - the recent-search history (read at Open, written on successful searches)
//   - two query caches: search results by term and drinks by id
//
// # Actions
//
// The UI dispatches user actions to Session methods: AddFavorite,
// RemoveFavorite, ToggleFavorite, AddToCart, RemoveFromCart, SetQuantity,
// ClearCart, Search and Lookup. Collection mutations are serialized by a
// mutex and run to completion. Search and Lookup wait on the network outside
// that mutex, so favorites and cart actions keep working while a fetch is in
// flight.
//
// A search is recorded in the history only when it returns at least one
// drink. Drinks returned by a search also prime the by-id cache, so opening
// one of them does not fetch it again.
//
// # Snapshots
//
// Snapshot returns a deep copy of everything the UI renders: favorites, cart,
// history, per-key fetch states and the last fetch error. Callers may keep or
// modify a snapshot freely.
//
//	snap := session.Snapshot()
//	if snap.Fetch(state.SearchKey("mojito")).Status == querycache.InFlight {
//		// render a spinner
//	}
package state
