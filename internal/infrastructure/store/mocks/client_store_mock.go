package mocks

import (
	"context"

	"github.com/example/webstore/internal/infrastructure/store"
	"github.com/example/webstore/internal/model"
)

// MockClientStore is an in-memory ClientStore for testing
type MockClientStore struct {
	db *Database

	GetCalls  []int
	CreateErr error
}

func NewMockClientStore(db *Database) *MockClientStore {
	return &MockClientStore{db: db}
}

func (m *MockClientStore) List(ctx context.Context) ([]model.Client, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	out := make([]model.Client, 0, len(m.db.clients))
	for _, id := range sortedKeys(m.db.clients) {
		out = append(out, m.db.clients[id])
	}
	return out, nil
}

func (m *MockClientStore) Get(ctx context.Context, id int) (*model.Client, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	m.GetCalls = append(m.GetCalls, id)
	c, ok := m.db.clients[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (m *MockClientStore) Create(ctx context.Context, c *model.Client) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	c.ID = m.db.nextID()
	m.db.clients[c.ID] = *c
	return nil
}

func (m *MockClientStore) Update(ctx context.Context, c *model.Client) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.clients[c.ID]; !ok {
		return store.ErrNotFound
	}
	m.db.clients[c.ID] = *c
	return nil
}

func (m *MockClientStore) Delete(ctx context.Context, id int) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.clients[id]; !ok {
		return store.ErrNotFound
	}
	for _, o := range m.db.orders {
		if o.ClientID == id {
			return store.ErrConflict
		}
	}
	delete(m.db.clients, id)
	return nil
}
