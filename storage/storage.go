// Package storage provides the durable key-value store that keeps a session
// across restarts.
package storage

import (
	"errors"
	"sync"
)

// ErrClosed is returned when the store is used before Open or after Close.
var ErrClosed = errors.New("storage: store is closed")

// Entry is one key-value pair of a batch write.
type Entry struct {
	Key   string
	Value string
}

// Store is a string key-value store. Get returns "" for missing keys.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	// SetMany writes entries in order as one batch: all of them or none.
	SetMany(entries []Entry) error
	// Clear removes every key, not only the ones the caller wrote.
	Clear() error
}

// Memory is a non-durable Store.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) SetMany(entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.values[e.Key] = e.Value
	}
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]string)
	return nil
}

// Len reports the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
