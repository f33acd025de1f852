package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"alumni/session"
)

// fileEnvelope is the on-disk format. Exactly one of Items or Sealed is set.
type fileEnvelope struct {
	Items  map[string]string `json:"items,omitempty"`
	Salt   []byte            `json:"salt,omitempty"`
	Sealed []byte            `json:"sealed,omitempty"`
}

// FileStorage keeps session items in a JSON file readable only by the
// owner. When a secret is set the items are sealed with XChaCha20-Poly1305.
type FileStorage struct {
	mu     sync.Mutex
	path   string
	secret string
}

func NewFileStorage(path, secret string) *FileStorage {
	return &FileStorage{path: path, secret: secret}
}

// DefaultSessionPath is session.json under the user config directory.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "alumni", "session.json"), nil
}

func (s *FileStorage) Path() string {
	return s.path
}

func (s *FileStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := items[key]
	return v, ok, nil
}

func (s *FileStorage) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}
	items[key] = value
	return s.save(items)
}

// RemoveItem deletes key. The file is removed once it holds nothing.
func (s *FileStorage) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)
	if len(items) == 0 {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove session file: %w", err)
		}
		return nil
	}
	return s.save(items)
}

func (s *FileStorage) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var env fileEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse session file %s: %w", s.path, err)
	}
	if env.Sealed == nil {
		if env.Items == nil {
			env.Items = map[string]string{}
		}
		return env.Items, nil
	}

	if s.secret == "" {
		return nil, ErrSessionKey
	}
	plaintext, err := open(s.secret, env.Salt, env.Sealed)
	if err != nil {
		return nil, err
	}
	items := map[string]string{}
	if err := json.Unmarshal(plaintext, &items); err != nil {
		return nil, fmt.Errorf("parse sealed session: %w", err)
	}
	return items, nil
}

func (s *FileStorage) save(items map[string]string) error {
	var env fileEnvelope
	if s.secret == "" {
		env.Items = items
	} else {
		plaintext, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		env.Salt, env.Sealed, err = seal(s.secret, plaintext)
		if err != nil {
			return err
		}
	}

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
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

var _ session.Storage = (*FileStorage)(nil)
