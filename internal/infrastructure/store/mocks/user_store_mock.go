package mocks

import (
	"context"
	"fmt"

	"github.com/example/webstore/internal/infrastructure/store"
	"github.com/example/webstore/internal/model"
)

// MockUserStore is an in-memory UserStore for testing
type MockUserStore struct {
	db *Database

	CreateCalls []model.User
}

func NewMockUserStore(db *Database) *MockUserStore {
	return &MockUserStore{db: db}
}

func (m *MockUserStore) List(ctx context.Context) ([]model.User, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	out := make([]model.User, 0, len(m.db.users))
	for _, id := range sortedKeys(m.db.users) {
		out = append(out, m.db.users[id])
	}
	return out, nil
}

func (m *MockUserStore) Get(ctx context.Context, id int) (*model.User, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	u, ok := m.db.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	for _, u := range m.db.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MockUserStore) Create(ctx context.Context, u *model.User) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	m.CreateCalls = append(m.CreateCalls, *u)
	for _, existing := range m.db.users {
		if existing.Username == u.Username {
			return fmt.Errorf("%w: username taken", store.ErrConflict)
		}
	}
	u.ID = m.db.nextID()
	m.db.users[u.ID] = *u
	return nil
}

func (m *MockUserStore) UpdateRole(ctx context.Context, id int, role string, clientID *int) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	u, ok := m.db.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Role = role
	u.ClientID = clientID
	m.db.users[id] = u
	return nil
}

func (m *MockUserStore) Delete(ctx context.Context, id int) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.db.users, id)
	return nil
}

func (m *MockUserStore) CountByRole(ctx context.Context, role string) (int, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	n := 0
	for _, u := range m.db.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}
