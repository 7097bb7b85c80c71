// Package storage provides the durable key-value store that backs the
// client session across restarts.
package storage

import (
	"sync"

	"github.com/lcconsultores/ticketera/pkg/domain"
)

// Storage is a small string key-value store. SetMany and Remove apply all of
// their keys in one write so readers never observe a partial update.
type Storage interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	SetMany(values map[string]string) error
	Remove(keys ...string) error
	// Clear removes every key.
	Clear() error
}

// Memory is an in-process Storage. The zero value is ready to use.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory returns a Memory seeded with values.
func NewMemory(values map[string]string) *Memory {
	m := &Memory{values: make(map[string]string, len(values))}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) SetMany(values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string, len(values))
	}
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

func (m *Memory) Remove(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = nil
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// Token reads the persisted bearer token, empty when absent.
func Token(s Storage) (string, error) {
	v, _, err := s.Get(domain.KeyToken)
	return v, err
}
