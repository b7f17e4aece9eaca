// Package app is the composition root for shaker.
//
// Run loads the TOML config and user preferences, opens the log file, builds
// the storage backend and the recipe API client, opens a state.Session and
// hands it to the terminal UI. It blocks until the UI exits.
//
// Storage is chosen by [storage] backend in the config:
//
//   - file: one JSON file per key under <data_dir>/store (default)
//   - redis: keys under <redis_prefix>:<key> on redis_addr
//   - memory: nothing survives the process, useful for trying shaker out
//
// Failing to load the config, open the log or reach Redis is fatal. Once the
// session is open, storage and network failures are logged and surfaced in
// the UI instead.
package app
