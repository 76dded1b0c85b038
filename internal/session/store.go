package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StoreVersion is the schema version of the session file.
const StoreVersion = 1

type storeData struct {
	Version int      `json:"version"`
	Session *Session `json:"session"`
}

// Store persists a Session as a JSON file readable only by its owner.
type Store struct {
	filePath string
}

// NewStore returns a store backed by filePath.
func NewStore(filePath string) (*Store, error) {
	if filePath == "" {
		return nil, errors.New("session file path cannot be empty")
	}
	return &Store{filePath: filePath}, nil
}

// Path returns the session file path.
func (s *Store) Path() string {
	return s.filePath
}

// Load reads the stored session. It returns ErrNotLoggedIn when there is
// none and ErrSessionCorrupted when the file cannot be decoded.
func (s *Store) Load() (*Session, error) {
	unlock, err := acquireFileLock(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("acquiring file lock: %w", err)
	}
	defer unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	var stored storeData
	if err = json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionCorrupted, err)
	}
	if stored.Version != StoreVersion {
		return nil, fmt.Errorf("%w: unsupported version %d (expected %d)",
			ErrSessionCorrupted, stored.Version, StoreVersion)
	}
	if stored.Session == nil || stored.Session.Token == "" {
		return nil, ErrNotLoggedIn
	}
	return stored.Session, nil
}

// Active loads the session and rejects it once expired. An expired session
// is removed from disk.
func (s *Store) Active(now time.Time) (*Session, error) {
	sess, err := s.Load()
	if err != nil {
		return nil, err
	}
	if sess.Expired(now) {
		_ = s.Clear()
		return nil, ErrSessionExpired
	}
	return sess, nil
}

// Save writes sess atomically.
func (s *Store) Save(sess *Session) error {
	if sess == nil || sess.Token == "" {
		return errors.New("session must carry a token")
	}

	unlock, err := acquireFileLock(s.filePath)
	if err != nil {
		return fmt.Errorf("acquiring file lock: %w", err)
	}
	defer unlock()

	data, err := json.MarshalIndent(storeData{Version: StoreVersion, Session: sess}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(s.filePath), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	tmpPath := s.filePath + ".tmp"
	if err = os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing session temp file: %w", err)
	}
	if err = os.Rename(tmpPath, s.filePath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming session temp file: %w", err)
	}
	return nil
}

// Clear removes the stored session. Clearing an absent session is not an
// error.
func (s *Store) Clear() error {
	unlock, err := acquireFileLock(s.filePath)
	if err != nil {
		return fmt.Errorf("acquiring file lock: %w", err)
	}
	defer unlock()

	if err = os.Remove(s.filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}
