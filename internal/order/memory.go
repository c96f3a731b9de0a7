package order

import (
	"context"
	"sync"
)

// MemoryStore provides an in-memory implementation of Store for tests and
// single-process deployments.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]Draft
	orders map[string]Order
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		drafts: make(map[string]Draft),
		orders: make(map[string]Order),
	}
}

// SaveDraft replaces the draft slot for key.
func (m *MemoryStore) SaveDraft(_ context.Context, key string, draft Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[key] = draft
	return nil
}

// LoadDraft returns the draft for key or ErrNotFound.
func (m *MemoryStore) LoadDraft(_ context.Context, key string) (Draft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	draft, ok := m.drafts[key]
	if !ok {
		return Draft{}, ErrNotFound
	}
	return draft, nil
}

// ClearDraft removes the draft slot for key.
func (m *MemoryStore) ClearDraft(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, key)
	return nil
}

// SaveOrder replaces the order slot for key.
func (m *MemoryStore) SaveOrder(_ context.Context, key string, order Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[key] = order
	return nil
}

// LoadOrder returns the order for key or ErrNotFound.
func (m *MemoryStore) LoadOrder(_ context.Context, key string) (Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ord, ok := m.orders[key]
	if !ok {
		return Order{}, ErrNotFound
	}
	return ord, nil
}

// ClearOrder removes the order slot for key.
func (m *MemoryStore) ClearOrder(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.orders, key)
	return nil
}
