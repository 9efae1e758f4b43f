// Package repositories implements the session store consulted by every step of the authorization bridge.
//
// # Contract
//
// A [SessionStore] maps an untrusted, caller-chosen identifier to a [models.Session].
// Stores are volatile: nothing survives a restart, and no implementation accepts a file path.
//
//   - [MemoryStore] : mutex-guarded map, the default backend
//   - [SQLiteStore] : a private in-memory SQLite database with the embedded schema
//
// # Concurrency
//
// Every method is atomic with respect to the others. Concurrent writes to the same identifier are
// last-writer-wins: a second [SessionStore.Begin] resets a connected session to pending, and two racing
// [SessionStore.Connect] calls leave whichever tokens were written last. Authorization codes are single-use,
// so duplicate callbacks for one code cannot both succeed upstream.
//
// Records handed out are copies; mutating them does not change the store.
package repositories
