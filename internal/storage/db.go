package storage

import (
	"database/sql"
)

// DB is the SQLite-backed storage engine. Every query carries the scope
// predicate (family_id, or user_id for identity-level lookups) so rows from
// another family are unreachable by construction.
type DB struct {
	db *sql.DB
}

// NewDB wraps an opened *sql.DB (see internal/database.Open).
func NewDB(db *sql.DB) *DB {
	return &DB{db: db}
}

var _ Storage = (*DB)(nil)
