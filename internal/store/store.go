package store

import "database/sql"

// Store provides persistence backed by Postgres. It implements the
// listings.Repository interface.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}
