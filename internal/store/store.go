// Package store provides the durable key-value cache backing the catalog and
// identity machines: the session-scoped genre-cache snapshot and the
// per-identity favorites lists.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/vkozyrev/cinescope/internal/domain"
)

// Bucket names
var (
	bucketSession   = []byte("session")
	bucketFavorites = []byte("favorites")
)

const (
	// snapshotKey is the fixed session-store key for the genre-cache snapshot.
	snapshotKey = "movies_genre_cache"

	// favoritesPrefix scopes favorites keys. The bare prefix is the legacy
	// pre-identity key, migrated to the first email that reads favorites.
	favoritesPrefix = "cinescope-favorites"
)

func favoritesKey(email string) string {
	return favoritesPrefix + "-" + email
}

// Snapshot is the serialized genre-cache state written after genre fetches
// and pagination advances, and read once at process start.
type Snapshot struct {
	GenreCache          map[string][]domain.Movie `json:"genreCache"`
	CurrentGenre        string                    `json:"currentGenre"`
	GenreDisplayedCount map[string]int            `json:"genreDisplayedCount"`
	Timestamp           int64                     `json:"timestamp"` // unix milliseconds
}

// Store implements durable persistence using BoltDB. With an empty directory
// it runs memory-only (no persistence), which tests rely on.
type Store struct {
	db *bolt.DB

	mu  sync.RWMutex
	mem map[string][]byte // memory-only mode
}

// New opens (or creates) the store in the given directory.
func New(dir string) (*Store, error) {
	if dir == "" {
		return &Store{mem: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "cinescope.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketSession, bucketFavorites} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *Store) get(bucket []byte, key string, dest interface{}) bool {
	if s.db == nil {
		s.mu.RLock()
		data, ok := s.mem[string(bucket)+":"+key]
		s.mu.RUnlock()
		if !ok {
			return false
		}
		return json.Unmarshal(data, dest) == nil
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (s *Store) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if s.db == nil {
		s.mu.Lock()
		s.mem[string(bucket)+":"+key] = data
		s.mu.Unlock()
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *Store) delete(bucket []byte, key string) {
	if s.db == nil {
		s.mu.Lock()
		delete(s.mem, string(bucket)+":"+key)
		s.mu.Unlock()
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

// === Session snapshot ===

// SaveSnapshot overwrites the genre-cache snapshot.
func (s *Store) SaveSnapshot(snap *Snapshot) error {
	return s.set(bucketSession, snapshotKey, snap)
}

// LoadSnapshot returns the stored snapshot if one exists and is younger than
// maxAge. A stale snapshot is deleted and not returned.
func (s *Store) LoadSnapshot(maxAge time.Duration) (*Snapshot, bool) {
	var snap Snapshot
	if !s.get(bucketSession, snapshotKey, &snap) {
		return nil, false
	}

	age := time.Since(time.UnixMilli(snap.Timestamp))
	if age < 0 || age >= maxAge {
		s.delete(bucketSession, snapshotKey)
		return nil, false
	}
	return &snap, true
}

// === Favorites ===

// Favorites returns the stored favorites list for an identity. A list stored
// under the legacy unscoped key is migrated to this identity and the legacy
// key removed.
func (s *Store) Favorites(email string) ([]domain.Movie, error) {
	var movies []domain.Movie
	if s.get(bucketFavorites, favoritesKey(email), &movies) {
		return movies, nil
	}

	if s.get(bucketFavorites, favoritesPrefix, &movies) {
		if err := s.set(bucketFavorites, favoritesKey(email), movies); err != nil {
			return nil, fmt.Errorf("migrate legacy favorites: %w", err)
		}
		s.delete(bucketFavorites, favoritesPrefix)
		return movies, nil
	}

	return nil, nil
}

// SaveFavorites persists the full favorites list for an identity.
func (s *Store) SaveFavorites(email string, movies []domain.Movie) error {
	if movies == nil {
		movies = []domain.Movie{}
	}
	return s.set(bucketFavorites, favoritesKey(email), movies)
}
