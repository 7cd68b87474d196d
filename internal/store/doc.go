// Package store provides the page and category-membership storage that
// lists are rendered from.
//
// The layout follows MediaWiki:
//   - page: one row per page (namespace, DB-key title, length, touched time,
//     view counter, redirect flag)
//   - categorylinks: one row per (page, category) membership, with the time
//     the page was added and its sort key
//   - flaggedpages: optional review status per page
//
// Renders only read. Writes happen through Seed, which loads a YAML fixture
// in a single transaction.
//
// # Database Configuration
//
// SQLite (github.com/mattn/go-sqlite3):
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// PostgreSQL (github.com/jackc/pgx/v5/stdlib) is supported read-only against
// an existing schema with the same table and column names.
//
// Timestamps are stored as 14-digit UTC strings; see ParseTimestamp.
package store
