// Package db contains the data-access layer for PassForge.
//
// The package exposes a `Store` interface backed by a centralized Bun-based
// implementation, plus package-level helpers that delegate to the store set
// via `InitDB`. Low-level Bun helpers (used for SQL queries) live in
// `bun_adapter.go`; the store adapter calls those helpers and is responsible
// for higher-level concerns such as audit logging.
//
// Testing notes
//   - Prefer `db.InitDB("sqlite", ":memory:")` in tests that need real DB
//     semantics and migrations.
//   - `NewStoreFromDSN` returns an isolated Store when a test must not touch
//     the package-level one.
package db
