package credstore

import (
	"context"
	"errors"
	"time"

	bolt "go.etcd.io/bbolt"
)

var credentialsBucket = []byte("credentials")

var errBucketMissing = errors.New("credentials bucket missing")

// BoltStore keeps credentials in a single bbolt bucket. Batches run in one
// read-write transaction, so they are atomic.
type BoltStore struct {
	db *bolt.DB
}

func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, unavailable("open", "", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(credentialsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, unavailable("init", "", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) update(ctx context.Context, fn func(b *bolt.Bucket) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(credentialsBucket)
		if b == nil {
			return errBucketMissing
		}
		return fn(b)
	})
}

func (s *BoltStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, unavailable("get", key, err)
	}

	var (
		value string
		ok    bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(credentialsBucket)
		if b == nil {
			return errBucketMissing
		}
		// the slice is only valid inside the transaction
		if v := b.Get([]byte(key)); v != nil {
			value, ok = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", false, unavailable("get", key, err)
	}
	return value, ok, nil
}

func (s *BoltStore) Set(ctx context.Context, key, value string) error {
	err := s.update(ctx, func(b *bolt.Bucket) error {
		return b.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return unavailable("set", key, err)
	}
	return nil
}

func (s *BoltStore) Delete(ctx context.Context, key string) error {
	err := s.update(ctx, func(b *bolt.Bucket) error {
		return b.Delete([]byte(key))
	})
	if err != nil {
		return unavailable("delete", key, err)
	}
	return nil
}

func (s *BoltStore) SetMany(ctx context.Context, values map[string]string) error {
	err := s.update(ctx, func(b *bolt.Bucket) error {
		for k, v := range values {
			if err := b.Put([]byte(k), []byte(v)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return unavailable("set", "", err)
	}
	return nil
}

func (s *BoltStore) DeleteMany(ctx context.Context, keys ...string) error {
	err := s.update(ctx, func(b *bolt.Bucket) error {
		for _, k := range keys {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return unavailable("delete", "", err)
	}
	return nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
