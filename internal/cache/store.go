package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/suratku/suratku/internal/logging"
)

const (
	fileExtension = ".json"
	tempPattern   = ".entry-*.tmp"
)

// Cache errors.
var (
	ErrNotFound   = errors.New("cache entry not found")
	ErrExpired    = errors.New("cache entry expired")
	ErrInvalidKey = errors.New("cache key cannot be empty")
	ErrDisabled   = errors.New("cache is disabled")
)

// Store keeps entries as JSON files in one directory. A disabled Store
// misses on every Get and ignores Set. Safe for concurrent use.
type Store struct {
	directory string
	enabled   bool
	ttl       time.Duration
	now       func() time.Time

	mu sync.RWMutex
}

// NewStore returns a store in directory with the given TTL, creating the
// directory. A disabled store touches nothing on disk.
func NewStore(directory string, enabled bool, ttl time.Duration) (*Store, error) {
	if !enabled || ttl <= 0 {
		return &Store{now: time.Now}, nil
	}
	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if err := os.MkdirAll(directory, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Store{directory: directory, enabled: true, ttl: ttl, now: time.Now}, nil
}

// WithClock returns a copy of s reading time from now. Used by tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	return &Store{directory: s.directory, enabled: s.enabled, ttl: s.ttl, now: now}
}

// Enabled reports whether the store caches anything.
func (s *Store) Enabled() bool {
	return s.enabled
}

// Key derives a file-safe key from its parts.
func Key(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}

// Get returns the entry stored under key.
func (s *Store) Get(key string) (*Entry, error) {
	if !s.enabled {
		return nil, ErrDisabled
	}
	if key == "" {
		return nil, ErrInvalidKey
	}

	path := s.path(key)
	s.mu.RLock()
	data, err := os.ReadFile(path)
	s.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading cache file: %w", err)
	}

	var entry Entry
	if err = json.Unmarshal(data, &entry); err != nil {
		_ = s.Delete(key)
		return nil, fmt.Errorf("%w: unreadable entry: %w", ErrNotFound, err)
	}
	if entry.ExpiredAt(s.now()) {
		_ = s.Delete(key)
		return nil, ErrExpired
	}
	return &entry, nil
}

// Set stores data under key for the store's TTL.
func (s *Store) Set(key string, data json.RawMessage) error {
	if !s.enabled {
		return ErrDisabled
	}
	if key == "" {
		return ErrInvalidKey
	}

	now := s.now()
	payload, err := json.Marshal(Entry{Key: key, Data: data, CreatedAt: now, ExpiresAt: now.Add(s.ttl)})
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.directory, tempPattern)
	if err != nil {
		return fmt.Errorf("creating cache temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err = tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing cache file: %w", err)
	}
	if err = os.Rename(tmpName, s.path(key)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("renaming cache file: %w", err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if !s.enabled {
		return ErrDisabled
	}
	if key == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting cache file: %w", err)
	}
	return nil
}

// Clear removes every entry.
func (s *Store) Clear() error {
	if !s.enabled {
		return ErrDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != fileExtension {
			continue
		}
		if err = os.Remove(filepath.Join(s.directory, e.Name())); err != nil {
			return fmt.Errorf("removing cache file %s: %w", e.Name(), err)
		}
	}
	return nil
}

func (s *Store) path(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(key)
	return filepath.Join(s.directory, safe+fileExtension)
}

// Fetch returns the value cached under key, or calls load and caches its
// result. Cache failures never fail the call; they are logged and load's
// result is used. A nil store always loads.
func Fetch[T any](ctx context.Context, s *Store, key string, load func(context.Context) (T, error)) (T, error) {
	log := logging.FromContext(ctx)

	if s != nil && s.enabled {
		if entry, err := s.Get(key); err == nil {
			var v T
			if err = json.Unmarshal(entry.Data, &v); err == nil {
				log.Debug().Str("component", "cache").Str("key", key[:min(12, len(key))]).Msg("cache hit")
				return v, nil
			}
		}
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	if s != nil && s.enabled {
		data, marshalErr := json.Marshal(v)
		if marshalErr == nil {
			marshalErr = s.Set(key, data)
		}
		if marshalErr != nil {
			log.Warn().Str("component", "cache").Err(marshalErr).Msg("could not cache value")
		}
	}
	return v, nil
}
