package famclient

import (
	"os"
	"path/filepath"
	"strings"
)

// Session storage keys. One value per key, mirroring the two-slot layout the
// session has always had.
const (
	keyFamilyCode  = "family_code"
	keyCurrentUser = "current_user"
)

// LocalStorage is a small string key-value surface for session persistence.
// Reads never fail: a missing or unreadable value is simply absent.
type LocalStorage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// FileStorage keeps one file per key under a state directory.
type FileStorage struct {
	dir string
}

// NewFileStorage creates the state directory if needed.
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileStorage{dir: dir}, nil
}

func (s *FileStorage) path(key string) string {
	return filepath.Join(s.dir, key)
}

// Get returns the stored value. Any read failure is reported as absence.
func (s *FileStorage) Get(key string) (string, bool) {
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(raw)), true
}

func (s *FileStorage) Set(key, value string) error {
	return os.WriteFile(s.path(key), []byte(value), 0o600)
}

func (s *FileStorage) Remove(key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// MemoryStorage is an in-process LocalStorage for tests.
type MemoryStorage struct {
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (s *MemoryStorage) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStorage) Set(key, value string) error {
	s.values[key] = value
	return nil
}

func (s *MemoryStorage) Remove(key string) error {
	delete(s.values, key)
	return nil
}
