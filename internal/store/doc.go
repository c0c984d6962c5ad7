// Package store provides SQLite-backed durable storage for caja.
//
// The store is a small keyed slot table. Each register component owns exactly
// one slot (order, counter, ledger) and never reads another component's slot.
// A slot holds one JSON document plus its SHA-256 checksum so that a torn or
// hand-edited row is detected on read instead of being trusted.
//
// # Database Configuration
//
//   - WAL mode: crash-safe writes on a single-operator device
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - single connection: SQLite has one writer
//
// Writes that still hit SQLITE_BUSY or SQLITE_LOCKED after the busy timeout
// are retried a few times with backoff before the error is returned.
//
// Memory is an in-process implementation of the same contract used by tests
// and by callers that run without a database file.
package store
