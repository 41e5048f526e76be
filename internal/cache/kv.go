package cache

import (
	"errors"
	"time"
)

// KV is the persistent cache contract shared by the in-process stores and
// the socket client. Implementations must be safe for concurrent use by
// multiple goroutines.
//
// Entries carry a category label so one logical dataset can be cleared
// without touching the others. Expiry is lazy: expired entries are reported
// as ErrExpired on read and stay on disk until overwritten or cleared.
type KV interface {
	// Get returns the cached value, ErrNotFound when absent, or ErrExpired
	// when present but past its TTL.
	Get(key string) ([]byte, error)
	// Put stores value under key with the given category label. ttl <= 0
	// means the entry never expires.
	Put(key string, value []byte, category string, ttl time.Duration) error
	// Delete removes a single key.
	Delete(key string) error
	// ClearCategory removes every entry tagged with category, expired or
	// not. The removal is atomic: a concurrent Get observes either the old
	// value or a miss, never a partial state.
	ClearCategory(category string) error
	// Stats reports the entry count and hit/miss counters.
	Stats() (Stats, error)
}

// Stats summarizes cache effectiveness since the store was opened.
type Stats struct {
	Entries int64 `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

var (
	ErrNotFound = errors.New("cache: not found")
	ErrExpired  = errors.New("cache: expired")
)
