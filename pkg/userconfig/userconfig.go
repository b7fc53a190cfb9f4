// Package userconfig provides the durable per-user key/value state of an
// application. The state lives in ~/.config/<namespace>/config.yaml and holds
// values such as the anonymous telemetry identity.
//
// Keys are dotted paths ("telemetry.deviceId"); each segment becomes a nested
// YAML mapping in the file.
package userconfig

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/natefinch/atomic"

	"github.com/keystone-go/keystone/pkg/paths"
)

// Store is a synchronous key/value store. Set and Delete are durable when
// they return.
type Store interface {
	// Get returns the value stored under key, if any.
	Get(key string) (any, bool)
	// Set stores value under key.
	Set(key string, value any) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// Path returns the path to the state file of the given namespace.
func Path(namespace string) string {
	return filepath.Join(paths.GetConfigDir(namespace), "config.yaml")
}

// FileStore is a Store backed by a YAML file. The file is read once when the
// store is opened; every mutation rewrites it atomically.
type FileStore struct {
	mu   sync.Mutex
	path string
	data tree
}

// Open loads the state file of the given namespace.
//
// A missing or unreadable file yields an empty store: callers see every key as
// absent and proceed as on a first run. The file is only rewritten on the next
// mutation.
func Open(namespace string) *FileStore {
	return openFrom(Path(namespace))
}

func openFrom(path string) *FileStore {
	data, err := readState(path)
	if err != nil {
		slog.Warn("Ignoring unreadable user config", "path", path, "error", err)
		data = tree{}
	}
	return &FileStore{path: path, data: data}
}

// readState reads and parses the state file, returning an empty tree if the
// file doesn't exist.
func readState(path string) (tree, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return tree{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if data == nil {
		data = map[string]any{}
	}

	return tree(data), nil
}

// Path returns the file backing the store.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.data.get(key)
}

func (s *FileStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.data.set(key, value); err != nil {
		return err
	}
	return s.save()
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.data.delete(key) {
		return nil
	}
	return s.save()
}

// save must be called with s.mu held.
func (s *FileStore) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	raw, err := yaml.Marshal(map[string]any(s.data))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// MemoryStore is a Store that never touches the filesystem.
type MemoryStore struct {
	mu   sync.Mutex
	data tree
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: tree{}}
}

func (s *MemoryStore) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.data.get(key)
}

func (s *MemoryStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.data.set(key, value)
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.delete(key)
	return nil
}
