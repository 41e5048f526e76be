package cache

import (
	"encoding/binary"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

// BoltStore is the default persistent cache backend. Each category gets its
// own bucket so ClearCategory is a single DeleteBucket inside one write
// transaction; an index bucket maps keys back to their category so Get and
// Delete do not need the caller to know it.
type BoltStore struct {
	db     *bolt.DB
	hits   atomic.Int64
	misses atomic.Int64
}

var indexBucket = []byte("index")

func categoryBucket(category string) []byte {
	return []byte("cat|" + category)
}

// OpenBolt initializes or opens a BoltStore at the given path.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(indexBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put stores value with an absolute expiry computed as now+ttl.
// Value layout: 8 bytes big endian unix-milli expiry || raw value.
func (s *BoltStore) Put(key string, value []byte, category string, ttl time.Duration) error {
	expiresAt := int64(0)
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).UnixMilli()
	}
	buf := make([]byte, 8+len(value))
	binary.BigEndian.PutUint64(buf[:8], uint64(expiresAt))
	copy(buf[8:], value)

	return s.db.Update(func(tx *bolt.Tx) error {
		idx := tx.Bucket(indexBucket)
		// A key that moves category must leave its old bucket.
		if old := idx.Get([]byte(key)); old != nil && string(old) != category {
			if ob := tx.Bucket(categoryBucket(string(old))); ob != nil {
				if err := ob.Delete([]byte(key)); err != nil {
					return err
				}
			}
		}
		if err := idx.Put([]byte(key), []byte(category)); err != nil {
			return err
		}
		b, err := tx.CreateBucketIfNotExists(categoryBucket(category))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), buf)
	})
}

// Get returns the cached value if present and not expired.
func (s *BoltStore) Get(key string) ([]byte, error) {
	var out []byte
	var expired bool
	var exists bool
	if err := s.db.View(func(tx *bolt.Tx) error {
		category := tx.Bucket(indexBucket).Get([]byte(key))
		if category == nil {
			return nil
		}
		b := tx.Bucket(categoryBucket(string(category)))
		if b == nil {
			return nil
		}
		v := b.Get([]byte(key))
		if v == nil {
			return nil
		}
		exists = true
		expiresAt := int64(binary.BigEndian.Uint64(v[:8]))
		if expiresAt > 0 && time.Now().UnixMilli() > expiresAt {
			expired = true
			return nil
		}
		out = append([]byte(nil), v[8:]...)
		return nil
	}); err != nil {
		return nil, err
	}
	if !exists {
		s.misses.Add(1)
		return nil, ErrNotFound
	}
	if expired {
		s.misses.Add(1)
		return nil, ErrExpired
	}
	s.hits.Add(1)
	return out, nil
}

// Delete removes a key and its index entry.
func (s *BoltStore) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		idx := tx.Bucket(indexBucket)
		category := idx.Get([]byte(key))
		if category == nil {
			return nil
		}
		if b := tx.Bucket(categoryBucket(string(category))); b != nil {
			if err := b.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return idx.Delete([]byte(key))
	})
}

// ClearCategory drops the category bucket and its index entries in one
// write transaction.
func (s *BoltStore) ClearCategory(category string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(categoryBucket(category)); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		idx := tx.Bucket(indexBucket)
		c := idx.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if string(v) == category {
				if err := c.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Stats counts indexed keys and reports hit/miss totals.
func (s *BoltStore) Stats() (Stats, error) {
	var entries int64
	if err := s.db.View(func(tx *bolt.Tx) error {
		entries = int64(tx.Bucket(indexBucket).Stats().KeyN)
		return nil
	}); err != nil {
		return Stats{}, err
	}
	return Stats{Entries: entries, Hits: s.hits.Load(), Misses: s.misses.Load()}, nil
}
