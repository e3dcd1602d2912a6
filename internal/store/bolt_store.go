// internal/store/bolt_store.go
package store

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"movierental/internal/catalog"
)

const (
	bucketName = "storefront"
	rentalsKey = "rentedMovies"
)

// BoltStore persists client-side state in a single-file key-value store,
// the durable analogue of browser local storage.
type BoltStore struct {
	db *bolt.DB
}

// Open opens or creates the state file at path.
func Open(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open state file: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create state bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// LoadRentals reads the persisted rented movies. A missing key yields an
// empty set.
func (s *BoltStore) LoadRentals() ([]catalog.Movie, error) {
	var movies []catalog.Movie
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(bucketName)).Get([]byte(rentalsKey))
		if raw == nil {
			return nil
		}
		return json.Unmarshal(raw, &movies)
	})
	if err != nil {
		return nil, fmt.Errorf("load rentals: %w", err)
	}
	return movies, nil
}

// SaveRentals overwrites the persisted rented movies. The write is committed
// before this returns, so a reload immediately afterwards sees it.
func (s *BoltStore) SaveRentals(movies []catalog.Movie) error {
	raw, err := json.Marshal(movies)
	if err != nil {
		return fmt.Errorf("encode rentals: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(rentalsKey), raw)
	})
	if err != nil {
		return fmt.Errorf("save rentals: %w", err)
	}
	return nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
