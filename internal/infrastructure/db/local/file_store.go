// Package local stores the console session in a file on disk.
package local

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/99minutos/ims-console/internal/core/ports"
)

const nonceSize = 24

// FileStore keeps session keys in a single JSON file, optionally sealed
// with a secret. Writes replace the file atomically.
type FileStore struct {
	path string
	key  *[32]byte

	mu sync.Mutex
}

var _ ports.DurableStore = (*FileStore)(nil)

// DefaultPath returns $IMS_HOME/session, or ~/.ims/session when unset.
func DefaultPath() (string, error) {
	home := os.Getenv("IMS_HOME")
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		home = filepath.Join(h, ".ims")
	}
	return filepath.Join(home, "session"), nil
}

// NewFileStore opens a store at path, creating its directory. A non-empty
// secret seals the file contents.
func NewFileStore(path, secret string) (*FileStore, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	s := &FileStore{path: path}
	if secret != "" {
		k := sha256.Sum256([]byte(secret))
		s.key = &k
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *FileStore) Path() string { return s.path }

// Ping checks that the session directory is still there.
func (s *FileStore) Ping(context.Context) error {
	if _, err := os.Stat(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("session directory: %w", err)
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

func (s *FileStore) SetAll(_ context.Context, entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.read()
	if err != nil {
		return err
	}
	for k, v := range entries {
		m[k] = v
	}
	return s.write(m)
}

func (s *FileStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.read()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(m, k)
	}
	if len(m) == 0 {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove session file: %w", err)
		}
		return nil
	}
	return s.write(m)
}

// read loads the file. A missing file is empty; a file that cannot be
// opened or parsed is removed and reads as empty so the session starts over.
func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if s.key != nil {
		opened, ok := s.open(data)
		if !ok {
			return s.removeCorrupt()
		}
		data = opened
	}
	m := map[string]string{}
	if err := json.Unmarshal(data, &m); err != nil {
		return s.removeCorrupt()
	}
	return m, nil
}

func (s *FileStore) removeCorrupt() (map[string]string, error) {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove corrupt session file: %w", err)
	}
	return map[string]string{}, nil
}

func (s *FileStore) write(m map[string]string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	if s.key != nil {
		if data, err = s.seal(data); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

func (s *FileStore) seal(plain []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plain, &nonce, s.key), nil
}

func (s *FileStore) open(box []byte) ([]byte, bool) {
	if len(box) < nonceSize+secretbox.Overhead {
		return nil, false
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	return secretbox.Open(nil, box[nonceSize:], &nonce, s.key)
}
