// Package store provides the key-value persistence layer for banca.
// Each collection is held as one JSON blob under a fixed key and is always
// read and written as a full snapshot.
package store

import (
	"errors"
	"sync"
)

// ErrClosed is returned by a KV that has already been closed.
var ErrClosed = errors.New("store closed")

// KV is a flat blob store keyed by collection name.
type KV interface {
	// Get returns the blob stored under key. ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	// Put replaces the blob stored under key.
	Put(key string, value []byte) error
	Close() error
}

// MemoryKV is a map-backed KV, used for tests and throwaway runs.
type MemoryKV struct {
	mu     sync.Mutex
	data   map[string][]byte
	closed bool
}

// NewMemoryKV returns an empty in-memory KV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// Get implements KV.
func (m *MemoryKV) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, false, ErrClosed
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Put implements KV.
func (m *MemoryKV) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

// Close implements KV.
func (m *MemoryKV) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Driver names accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Open returns the KV for driver. path is ignored by the memory driver.
func Open(driver, path string) (KV, error) {
	switch driver {
	case "", DriverSQLite:
		return OpenSQLite(path)
	case DriverMemory:
		return NewMemoryKV(), nil
	default:
		return nil, errors.New("unknown store driver: " + driver)
	}
}
