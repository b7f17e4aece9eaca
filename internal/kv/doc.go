// Package kv persists shaker's client state in a string-keyed store.
//
// A Backend is the durable storage boundary: it maps string keys to string
// values and knows nothing about what they hold. Three backends exist:
//
//   - FileBackend: one file per key under the data directory (default)
//   - RedisBackend: a Redis database, optionally with a key prefix
//   - MemoryBackend: an in-process map, used by tests and ephemeral sessions
//
// Store layers typed, versioned JSON values on top of a Backend. Every value
// is written inside an envelope carrying a schema version:
//
//	{"v":1,"data":[{"id":"11000","name":"Mojito"}]}
//
// Read never fails the caller. A missing backend, an unset key, malformed JSON
// or a schema version mismatch all return the caller's default and log a
// warning. Write is best effort: failures are logged and returned, and callers
// keep their in-memory state as the source of truth for the session.
package kv
