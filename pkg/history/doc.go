// Package history persists export run outcomes to a SQLite database.
//
// Each run is stored with its per-index results so operators can audit
// what was exported, when, and which indices failed. The store is
// optional: esdump records history only when a database path is
// configured.
package history
