package storage

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore implements Store using BadgerDB
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a store at path. An empty path opens
// an in-memory store.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable BadgerDB logs

	// Tables are written once and read whole; small memtables suffice.
	opts.MemTableSize = 16 << 20
	opts.ValueThreshold = 1 << 10 // small tables live in the LSM tree
	opts.NumCompactors = 2

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	return &BadgerStore{db: db}, nil
}

// Save writes the encoded table under key, replacing any previous value
func (s *BadgerStore) Save(key Key, distances []int) (int, error) {
	value := EncodeTable(distances)
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key.Bytes(), value)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to save %s: %w", key, err)
	}
	return len(value), nil
}

// Load reads the table stored under key
func (s *BadgerStore) Load(key Key) ([]int, bool, error) {
	var distances []int

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key.Bytes())
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			distances, err = DecodeTable(val)
			return err
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return distances, true, nil
}

// Delete removes the table stored under key, if any
func (s *BadgerStore) Delete(key Key) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(key.Bytes()); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
		return nil
	})
}

// Keys lists every stored table
func (s *BadgerStore) Keys() ([]Key, error) {
	var keys []Key

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false // keys only
		opts.Prefix = []byte(keyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			k, err := ParseKey(it.Item().KeyCopy(nil))
			if err != nil {
				return err
			}
			keys = append(keys, k)
		}
		return nil
	})

	return keys, err
}

// Close closes the store
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
