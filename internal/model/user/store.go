package user

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrExists reports a registration attempt for a taken username.
var ErrExists = errors.New("username already exists")

// record is the on-disk account shape, keyed by username in users.json.
// Field names match files written by earlier server versions.
type record struct {
	Hash        string `json:"hash"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

// FileStore keeps all accounts in a single JSON file, rewritten through
// a temp file on every registration so a crash never leaves a truncated
// user database. Reads are served from memory after the initial load.
type FileStore struct {
	mu    sync.RWMutex
	path  string
	users map[string]record
}

// NewFileStore loads the account file at path, tolerating its absence.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, users: make(map[string]record)}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("reading user store %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.users); err != nil {
		return nil, fmt.Errorf("parsing user store %s: %w", path, err)
	}
	return s, nil
}

// Register creates an account with a bcrypt hash of the password and
// persists the store before the new account becomes visible.
func (s *FileStore) Register(username, displayName, password string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hashing password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; ok {
		return User{}, ErrExists
	}

	s.users[username] = record{
		Hash:        string(hash),
		DisplayName: displayName,
		CreatedAt:   time.Now().Unix(),
	}
	if err := s.flushLocked(); err != nil {
		delete(s.users, username)
		return User{}, err
	}

	return User{ID: username, DisplayName: displayName}, nil
}

// Authenticate verifies the password against the stored hash.
func (s *FileStore) Authenticate(username, password string) (User, bool) {
	s.mu.RLock()
	rec, ok := s.users[username]
	s.mu.RUnlock()

	if !ok {
		return User{}, false
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.Hash), []byte(password)) != nil {
		return User{}, false
	}
	return User{ID: username, DisplayName: rec.DisplayName}, true
}

// FindByID looks up an account by username.
func (s *FileStore) FindByID(username string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.users[username]
	if !ok {
		return User{}, false
	}
	return User{ID: username, DisplayName: rec.DisplayName}, true
}

func (s *FileStore) flushLocked() error {
	payload, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding user store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "users-*.tmp")
	if err != nil {
		return fmt.Errorf("writing user store: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing user store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing user store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing user store: %w", err)
	}
	return nil
}
