// Package store provides a thin bbolt wrapper for forecast's response cache.
//
// The cache holds the raw forecast document per location so that repeated
// plots within max_cache_age do not hit the API. Freshness is decided by the
// caller from the stored fetch time; nothing is evicted automatically.
//
// Buckets:
//
//	forecasts — raw forecast documents keyed by "lat,lon"
//	_meta     — internal: schema version, created_at
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Current schema version. Bump when bucket layout or key format changes.
const schemaVersion = 1

// Bucket name constants.
var (
	bucketForecasts = []byte("forecasts")
	bucketInternal  = []byte("_meta")
)

// AllBuckets lists every user-visible bucket for stats and clear operations.
var AllBuckets = []string{"forecasts"}

// Store wraps a bbolt database.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

// Open opens (or creates) the bbolt database at path.
// Parent directories are created automatically.
// Runs schema migrations on every open.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening db %s: %w", path, err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the filesystem path of the open database.
func (s *Store) Path() string {
	return s.db.Path()
}

// SetClock replaces the time source used to stamp entries.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// ─── Migrations ───────────────────────────────────────────────────────────────

// migrate ensures all buckets exist and schema is current.
func (s *Store) migrate() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketForecasts, bucketInternal} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
			}
		}

		meta := tx.Bucket(bucketInternal)
		if meta.Get([]byte("schema_version")) == nil {
			if err := meta.Put([]byte("schema_version"), []byte(strconv.Itoa(schemaVersion))); err != nil {
				return err
			}
			if err := meta.Put([]byte("created_at"), []byte(time.Now().UTC().Format(time.RFC3339))); err != nil {
				return err
			}
		}
		return nil
	})
}

// ─── Forecasts ────────────────────────────────────────────────────────────────

// Key builds the canonical cache key for a location: "lat,lon" with the
// shortest decimal representation of each coordinate.
func Key(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)
}

// Entry is the on-disk envelope for one cached forecast document.
type Entry struct {
	Key       string          `json:"key"`
	FetchedAt time.Time       `json:"fetched_at"`
	Body      json.RawMessage `json:"body"`
}

// Fresh reports whether the entry is younger than maxAge at now. A
// non-positive maxAge means no entry is ever fresh.
func (e Entry) Fresh(maxAge time.Duration, now time.Time) bool {
	if maxAge <= 0 {
		return false
	}
	return now.Sub(e.FetchedAt) < maxAge
}

// PutForecast stores a raw forecast document under key, stamping FetchedAt.
// body must be valid JSON.
func (s *Store) PutForecast(key string, body []byte) error {
	if !json.Valid(body) {
		return fmt.Errorf("caching %s: body is not valid JSON", key)
	}
	b, err := json.Marshal(Entry{
		Key:       key,
		FetchedAt: s.now().UTC(),
		Body:      body,
	})
	if err != nil {
		return fmt.Errorf("encoding forecast: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketForecasts).Put([]byte(key), b)
	})
}

// GetForecast retrieves a cached forecast by key.
// Returns (entry, true, nil) if found, (zero, false, nil) if not found.
func (s *Store) GetForecast(key string) (Entry, bool, error) {
	var e Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketForecasts).Get([]byte(key))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &e)
	})
	if err != nil {
		return Entry{}, false, fmt.Errorf("decoding cached forecast %s: %w", key, err)
	}
	return e, e.Key != "", nil
}

// ListForecasts returns every cached entry, newest first.
func (s *Store) ListForecasts() ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketForecasts).ForEach(func(k, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			entries = append(entries, e)
			return nil
		})
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].FetchedAt.After(entries[j].FetchedAt)
	})
	return entries, err
}

// DeleteForecast removes a cached forecast. Deleting a missing key is not an
// error.
func (s *Store) DeleteForecast(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketForecasts).Delete([]byte(key))
	})
}

// ─── Stats & Maintenance ──────────────────────────────────────────────────────

// BucketStats holds row count and byte size for a single bucket.
type BucketStats struct {
	Name  string
	Count int
	Bytes int64
}

// Stats returns row counts and approximate sizes for all buckets.
func (s *Store) Stats() ([]BucketStats, error) {
	var stats []BucketStats
	err := s.db.View(func(tx *bolt.Tx) error {
		for _, name := range AllBuckets {
			b := tx.Bucket([]byte(name))
			if b == nil {
				continue
			}
			var count int
			var bytes int64
			_ = b.ForEach(func(k, v []byte) error {
				count++
				bytes += int64(len(k) + len(v))
				return nil
			})
			stats = append(stats, BucketStats{Name: name, Count: count, Bytes: bytes})
		}
		return nil
	})
	return stats, err
}

// ClearBucket deletes all entries in the named bucket.
func (s *Store) ClearBucket(name string) error {
	known := false
	for _, b := range AllBuckets {
		if b == name {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("unknown bucket %q", name)
	}
	bname := []byte(name)
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bname); err != nil {
			return fmt.Errorf("clearing bucket %s: %w", name, err)
		}
		_, err := tx.CreateBucket(bname)
		return err
	})
}
