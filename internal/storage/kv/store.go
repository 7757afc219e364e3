package kv

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"

	domainErrors "github.com/polkiloo/fitinbox/internal/domain/errors"
)

// Store keeps cart sessions in an embedded Pebble database so a restart
// does not empty every cart.
type Store struct {
	db *pebble.DB
}

// Open opens or creates the database in dir.
func Open(dir string, opts *pebble.Options) (*Store, error) {
	if opts == nil {
		opts = &pebble.Options{}
	}
	db, err := pebble.Open(filepath.Clean(dir), opts)
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns a copy of the value stored under key.
func (s *Store) Get(key string) ([]byte, error) {
	v, closer, err := s.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()
	return append([]byte(nil), v...), nil
}

// Set writes value and syncs the WAL.
func (s *Store) Set(key string, value []byte) error {
	return s.db.Set([]byte(key), value, pebble.Sync)
}

// Remove deletes key. Missing keys are not an error.
func (s *Store) Remove(key string) error {
	return s.db.Delete([]byte(key), pebble.Sync)
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
