// Package preferences manages the persisted daily-item subscription
// preference: whether the device is subscribed, and at which local hour
// delivery is wanted.
//
// # Cache Semantics
//
// Cache is the single writer of the preference. It mirrors the backing
// Store in memory: the mirror is populated on first read and never
// invalidated afterwards, so out-of-process writes to the underlying
// store are only observed by constructing a new Cache. Mutators persist
// through to the store first, then fire the change callback exactly once.
//
// # Legacy Records
//
// Records written before the delivery hour existed carry only the
// subscribed flag. The first hour read defaults such records to
// DefaultHour and persists the default, so the record is upgraded in
// place without user action.
//
// # Stores
//
// Three Store implementations are provided: MemoryStore (tests,
// embedding), FileStore (versioned JSON state file), and SQLiteStore
// (modernc.org/sqlite, single key-value table).
package preferences
