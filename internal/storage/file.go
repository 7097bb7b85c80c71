package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File persists keys as a single JSON object on disk. Every write replaces
// the whole file through a temp file and rename.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile returns a File backed by path. The file and its directory are
// created on first write.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *File) SetMany(values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, err := f.load()
	if err != nil {
		// A corrupt file is replaced rather than merged.
		current = map[string]string{}
	}
	for k, v := range values {
		current[k] = v
	}
	return f.save(current)
}

func (f *File) Remove(keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, err := f.load()
	if err != nil {
		current = map[string]string{}
	}
	for _, k := range keys {
		delete(current, k)
	}
	if len(current) == 0 {
		return f.remove()
	}
	return f.save(current)
}

func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remove()
}

func (f *File) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", f.path, err)
	}
	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", f.path, err)
	}
	return values, nil
}

func (f *File) save(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("storage: encode: %w", err)
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("storage: create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("storage: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck // no-op after a successful rename

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("storage: chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("storage: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("storage: replace %s: %w", f.path, err)
	}
	return nil
}

func (f *File) remove() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: remove %s: %w", f.path, err)
	}
	return nil
}
