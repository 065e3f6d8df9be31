package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Credential store keys. Nothing else is persisted on the device.
const (
	KeyAccessToken   = "access_token"
	KeyIDToken       = "id_token"
	KeyExpiresAt     = "expires_at"
	KeyNotifications = "notifications_enabled"
)

var ErrNoSession = errors.New("no session in credential store")

// CredentialStore is the device's secure key-value storage. Reads and writes
// are atomic per key; SetSession and ClearSession move the token trio
// together so a partial session is never observable.
type CredentialStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	SetSession(sess Session) error
	GetSession() (Session, error)
	ClearSession() error
}

// MemoryStore is an in-memory CredentialStore, used in tests and as the
// fallback when no credentials file is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key], nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *MemoryStore) SetSession(sess Session) error {
	if !sess.Valid() {
		return errors.New("refusing to store partial session")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeSession(s.values, sess)
	return nil
}

func (s *MemoryStore) GetSession() (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return readSession(s.values)
}

func (s *MemoryStore) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clearSession(s.values)
	return nil
}

// FileStore persists credentials as a single JSON document, rewritten via a
// temp-file rename so each write lands atomically.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore opens (or lazily creates) a credential file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.load()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.load()
	if err != nil {
		return err
	}
	delete(values, key)
	return s.save(values)
}

func (s *FileStore) SetSession(sess Session) error {
	if !sess.Valid() {
		return errors.New("refusing to store partial session")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.load()
	if err != nil {
		return err
	}
	writeSession(values, sess)
	return s.save(values)
}

func (s *FileStore) GetSession() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.load()
	if err != nil {
		return Session{}, err
	}
	return readSession(values)
}

func (s *FileStore) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.load()
	if err != nil {
		return err
	}
	clearSession(values)
	return s.save(values)
}

func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return values, nil
}

func (s *FileStore) save(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func writeSession(values map[string]string, sess Session) {
	values[KeyAccessToken] = sess.AccessToken
	values[KeyIDToken] = sess.IDToken
	values[KeyExpiresAt] = sess.ExpiresAt.UTC().Format(expiresAtLayout)
}

func readSession(values map[string]string) (Session, error) {
	sess := Session{
		AccessToken: values[KeyAccessToken],
		IDToken:     values[KeyIDToken],
	}
	if raw := values[KeyExpiresAt]; raw != "" {
		parsed, err := parseExpiresAt(raw)
		if err != nil {
			return Session{}, err
		}
		sess.ExpiresAt = parsed
	}
	if !sess.Valid() {
		return Session{}, ErrNoSession
	}
	return sess, nil
}

func clearSession(values map[string]string) {
	delete(values, KeyAccessToken)
	delete(values, KeyIDToken)
	delete(values, KeyExpiresAt)
}
