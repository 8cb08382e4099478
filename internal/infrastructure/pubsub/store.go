package pubsub

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	subsBucket        = []byte("subscriptions")
	subsByEventBucket = []byte("subscriptionsbyevent")

	// separator equivalent character is ÿ.
	// Should be fine to use such value  since it's not used for Secret (jwt
	// base64-encoded token), nor for Endpoint (http url).
	separator = []byte{255}
)

const (
	dbFilename  = "webhooks.db"
	openTimeout = time.Second
)

type store struct {
	db *bolt.DB
}

func newStore(datadir string) (*store, error) {
	if err := os.MkdirAll(datadir, 0700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(
		filepath.Join(datadir, dbFilename), 0600,
		&bolt.Options{Timeout: openTimeout},
	)
	if err != nil {
		return nil, fmt.Errorf("opening webhooks db: %w", err)
	}
	return &store{db}, nil
}

func (s *store) Init() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{subsBucket, subsByEventBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *store) Close() error {
	return s.db.Close()
}

func (s *store) get(bucket, key []byte) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return ErrStoreNotInitialized
		}
		if v := b.Get(key); v != nil {
			value = append([]byte{}, v...)
		}
		return nil
	})
	return value, err
}

func (s *store) getAll(bucket []byte) (map[string][]byte, error) {
	values := make(map[string][]byte)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return ErrStoreNotInitialized
		}
		return b.ForEach(func(k, v []byte) error {
			values[string(k)] = append([]byte{}, v...)
			return nil
		})
	})
	return values, err
}

// update runs fn in a single read-write transaction.
func (s *store) update(fn func(subs, subsByEvent *bolt.Bucket) error) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		subs, subsByEvent := tx.Bucket(subsBucket), tx.Bucket(subsByEventBucket)
		if subs == nil || subsByEvent == nil {
			return ErrStoreNotInitialized
		}
		return fn(subs, subsByEvent)
	})
}
