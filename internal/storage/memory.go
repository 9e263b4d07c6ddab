package storage

import (
	"bytes"
	"slices"
	"strings"
	"sync"
)

// MemoryDB implements DB using an in-memory map. It backs the registry
// when no data directory is configured, and in tests.
type MemoryDB struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates a new in-memory database.
func NewMemory() *MemoryDB {
	return &MemoryDB{
		data: make(map[string][]byte),
	}
}

// Get retrieves a value by key.
func (m *MemoryDB) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(v), nil
}

// Put stores a key-value pair.
func (m *MemoryDB) Put(key, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	m.mu.Lock()
	m.data[string(key)] = v
	m.mu.Unlock()
	return nil
}

// Delete removes a key. Missing keys are not an error.
func (m *MemoryDB) Delete(key []byte) error {
	m.mu.Lock()
	delete(m.data, string(key))
	m.mu.Unlock()
	return nil
}

// Has checks if a key exists.
func (m *MemoryDB) Has(key []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[string(key)]
	return ok, nil
}

// ForEach iterates over all keys with the given prefix in key order.
// The lock is released before fn runs, so fn may write to the DB.
func (m *MemoryDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	p := string(prefix)
	m.mu.RLock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, p) {
			keys = append(keys, k)
		}
	}
	values := make(map[string][]byte, len(keys))
	for _, k := range keys {
		values[k] = bytes.Clone(m.data[k])
	}
	m.mu.RUnlock()

	slices.Sort(keys)
	for _, k := range keys {
		if err := fn([]byte(k), values[k]); err != nil {
			return err
		}
	}
	return nil
}

// DropPrefix removes every key under prefix.
func (m *MemoryDB) DropPrefix(prefix []byte) error {
	p := string(prefix)
	m.mu.Lock()
	for k := range m.data {
		if strings.HasPrefix(k, p) {
			delete(m.data, k)
		}
	}
	m.mu.Unlock()
	return nil
}

// Close drops all data.
func (m *MemoryDB) Close() error {
	m.mu.Lock()
	clear(m.data)
	m.mu.Unlock()
	return nil
}
