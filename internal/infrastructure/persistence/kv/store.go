// Package kv wraps the embedded BadgerDB key-value store that backs all
// server-side feedback state.
package kv

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Store owns the badger database handle shared by the repositories.
type Store struct {
	db *badger.DB
}

// Options configures how the store is opened.
type Options struct {
	Path     string
	InMemory bool
}

// Open opens (or creates) the badger database at the configured path.
// Badger's own logger is silenced; storage events are logged by the
// repositories through the channeled logger instead.
func Open(opts Options) (*Store, error) {
	badgerOpts := badger.DefaultOptions(opts.Path)
	badgerOpts.Logger = nil
	if opts.InMemory {
		badgerOpts = badgerOpts.WithInMemory(true).WithDir("").WithValueDir("")
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open key-value store: %w", err)
	}

	return &Store{db: db}, nil
}

// DB exposes the underlying handle to the repositories.
func (s *Store) DB() *badger.DB {
	return s.db
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
