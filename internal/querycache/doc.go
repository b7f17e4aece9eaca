// Package querycache decides, per query key, whether to reuse a fetched
// remote result or issue a new fetch.
//
// Each key moves through a small state machine:
//
//	UNFETCHED ──Get──▶ IN_FLIGHT ──ok──▶ SUCCEEDED (cached for the session)
//	                       │
//	                       └──err──▶ FAILED ──Get──▶ IN_FLIGHT (retry)
//
// Concurrent Get calls for a key that is IN_FLIGHT share the single pending
// fetch (golang.org/x/sync/singleflight). The successful value is stored
// before the waiters are released, so no caller that arrives afterwards
// triggers a second fetch. Failures are recorded for display but never
// cached.
//
// The fetch runs detached from the caller's cancellation. A caller that gives
// up gets ctx.Err(), while the fetch completes in the background and its
// result is cached for the next Get. The cache adds no timeouts of its own;
// the fetch function owns that policy.
package querycache
