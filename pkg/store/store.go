// Package store is a small FRU image inventory on pebble. Images are
// stored raw, keyed by a caller-supplied ID or a generated ksuid; every
// write is validated by a tolerant decode first, so the inventory never
// holds structurally broken images.
package store

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/frukit/pkg/fru"
)

// ErrNotFound is returned by Get and Delete for unknown IDs.
var ErrNotFound = errors.New("fru image not found")

type Store struct {
	db *pebble.DB
}

// Open opens (or creates) the inventory at path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return &Store{db: db}, nil
}

// Create stores data under a freshly generated ksuid and returns it.
func (s *Store) Create(data []byte) (string, error) {
	id := ksuid.New().String()
	if err := s.Put(id, data); err != nil {
		return "", err
	}
	return id, nil
}

// Put stores data under id, replacing any previous image. The image must
// decode (tolerantly); structural failures reject the write.
func (s *Store) Put(id string, data []byte) error {
	if id == "" {
		return errors.New("empty id")
	}
	if _, err := fru.Decode(data, &fru.Collector{}); err != nil {
		return fmt.Errorf("invalid fru image: %w", err)
	}
	if err := s.db.Set([]byte(id), data, pebble.NoSync); err != nil {
		return fmt.Errorf("failed to store image %s: %w", id, err)
	}
	return nil
}

// Get returns the image stored under id.
func (s *Store) Get(id string) ([]byte, error) {
	data, closer, err := s.db.Get([]byte(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", id, err)
	}
	defer closer.Close()

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Delete removes the image stored under id.
func (s *Store) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.db.Delete([]byte(id), pebble.NoSync); err != nil {
		return fmt.Errorf("failed to delete image %s: %w", id, err)
	}
	return nil
}

// List returns all stored IDs in key order.
func (s *Store) List() ([]string, error) {
	iter, err := s.db.NewIter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer iter.Close()

	var ids []string
	for iter.First(); iter.Valid(); iter.Next() {
		ids = append(ids, string(iter.Key()))
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return ids, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
