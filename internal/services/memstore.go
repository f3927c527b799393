package services

import (
	"context"
	"maps"
	"sort"
	"sync"
)

// MemoryStore is an in-process DocumentStore for development and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]map[string]map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string]map[string]any)}
}

func (m *MemoryStore) Get(_ context.Context, collection, id string) (map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return maps.Clone(doc), nil
}

func (m *MemoryStore) Set(_ context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.docs[collection] == nil {
		m.docs[collection] = make(map[string]map[string]any)
	}
	m.docs[collection][id] = maps.Clone(fields)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.docs[collection], id)
	return nil
}

func (m *MemoryStore) FindBy(_ context.Context, collection, field string, value any) (string, map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Map order is random; scan ids sorted so the first match is stable.
	ids := make([]string, 0, len(m.docs[collection]))
	for id := range m.docs[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		doc := m.docs[collection][id]
		if v, ok := doc[field]; ok && v == value {
			return id, maps.Clone(doc), nil
		}
	}
	return "", nil, ErrNotFound
}
