package mocks

import (
	"context"
	"fmt"

	"github.com/example/webstore/internal/infrastructure/store"
	"github.com/example/webstore/internal/model"
)

// MockLookupStore is an in-memory LookupStore for testing
type MockLookupStore struct {
	db *Database
}

func NewMockLookupStore(db *Database) *MockLookupStore {
	return &MockLookupStore{db: db}
}

func (m *MockLookupStore) rows(kind store.LookupKind) (map[int]model.Lookup, error) {
	rows, ok := m.db.lookups[kind]
	if !ok {
		return nil, fmt.Errorf("unknown lookup kind %q", kind)
	}
	return rows, nil
}

func (m *MockLookupStore) List(ctx context.Context, kind store.LookupKind) ([]model.Lookup, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	rows, err := m.rows(kind)
	if err != nil {
		return nil, err
	}
	out := make([]model.Lookup, 0, len(rows))
	for _, id := range sortedKeys(rows) {
		out = append(out, rows[id])
	}
	return out, nil
}

func (m *MockLookupStore) Get(ctx context.Context, kind store.LookupKind, id int) (*model.Lookup, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	rows, err := m.rows(kind)
	if err != nil {
		return nil, err
	}
	l, ok := rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &l, nil
}

func (m *MockLookupStore) Create(ctx context.Context, kind store.LookupKind, name string) (*model.Lookup, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	rows, err := m.rows(kind)
	if err != nil {
		return nil, err
	}
	l := model.Lookup{ID: m.db.nextID(), Name: name}
	rows[l.ID] = l
	return &l, nil
}

func (m *MockLookupStore) Update(ctx context.Context, kind store.LookupKind, id int, name string) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	rows, err := m.rows(kind)
	if err != nil {
		return err
	}
	if _, ok := rows[id]; !ok {
		return store.ErrNotFound
	}
	rows[id] = model.Lookup{ID: id, Name: name}
	return nil
}

func (m *MockLookupStore) Delete(ctx context.Context, kind store.LookupKind, id int) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	rows, err := m.rows(kind)
	if err != nil {
		return err
	}
	if _, ok := rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(rows, id)
	return nil
}
