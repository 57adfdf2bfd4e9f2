// Package cache holds read-through caching for hot lookups.
package cache

import (
	"context"
	"encoding/json"
	"sync"
)

// Cache stores JSON-encoded values by key
type Cache interface {
	// Get decodes the value stored at key into dest and reports whether it was present
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

// Noop never stores anything
type Noop struct{}

func (Noop) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (Noop) Set(context.Context, string, interface{}) error         { return nil }
func (Noop) Delete(context.Context, ...string) error                { return nil }

// Memory is a process-local cache, used by tests and the in-memory server mode
type Memory struct {
	mu    sync.Mutex
	items map[string][]byte
}

// NewMemory creates an empty Memory cache
func NewMemory() *Memory {
	return &Memory{items: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	raw, ok := m.items[key]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *Memory) Set(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.items[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.items, k)
	}
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored keys
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
