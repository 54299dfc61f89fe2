// Package store provides the SQLite-backed site store.
//
// The store holds databases, activities, partners, locations, the
// administrative hierarchy, attributes, indicators and their reported
// values, plus per-user view permissions.
//
// # Critical Patterns
//
// Authorization scope
//   - Every site read joins the caller's visibility: database owner, a
//     permission with allow_view_all, or allow_view on the site's partner
//   - Counts and page numbers apply the same scope as page queries
//
// Deterministic ordering
//   - Every site ORDER BY ends with s.id ASC
//   - Identical requests return identical pages
//
// Dates
//   - Stored as YYYY-MM-DD TEXT so range predicates compare lexically
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Two drivers are supported: "sqlite3" (mattn/go-sqlite3, cgo) is the
// default and "sqlite" (modernc.org/sqlite) is a pure-Go alternative.
package store
