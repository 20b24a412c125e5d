package store

import (
	"basegraph.app/rollcall/core/db"
)

// Store hands out the typed stores over one database handle.
type Store struct {
	db *db.DB
}

func New(database *db.DB) *Store {
	return &Store{db: database}
}

func (s *Store) CommandRuns() CommandRunStore {
	return newCommandRunStore(s.db.Pool())
}
