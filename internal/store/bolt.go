package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/goliatone/go-recipes/recipe"
)

const bucketRecipes = "recipes"

// BoltStore keeps payloads in a single bbolt bucket keyed by persistence key.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens (or creates) the database file at path. The file lock
// bbolt takes is waited on for at most a second.
func OpenBoltStore(path string) (*BoltStore, error) {
	if path == "" {
		return nil, errors.New("store: bolt driver requires a path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", filepath.Dir(path), err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open bolt %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketRecipes))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: initialize bolt bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Load(ctx context.Context, key string) (*recipe.Recipe, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var payload []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRecipes))
		v := b.Get([]byte(key))
		if v == nil {
			return notFound(key)
		}
		// v is only valid inside the transaction.
		payload = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r, err := Decode(payload)
	if err != nil {
		return nil, err
	}
	return loaded(r), nil
}

func (s *BoltStore) Save(ctx context.Context, key string, r recipe.Recipe) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := Encode(r)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketRecipes)).Put([]byte(key), payload)
	})
}

func (s *BoltStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketRecipes)).Delete([]byte(key))
	})
}

// PutRaw stores payload verbatim, bypassing encoding.
func (s *BoltStore) PutRaw(key string, payload []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketRecipes)).Put([]byte(key), payload)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
