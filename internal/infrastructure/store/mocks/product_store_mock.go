package mocks

import (
	"context"
	"slices"

	"github.com/example/webstore/internal/infrastructure/store"
	"github.com/example/webstore/internal/model"
	"github.com/shopspring/decimal"
)

// MockProductStore is an in-memory ProductStore for testing
type MockProductStore struct {
	db *Database

	// For tracking calls in tests
	GetCalls      []int
	LockCalls     [][]int
	UpdateCalls   []model.Product
	DiscountCalls []DiscountCall
	GetErr        error
}

// DiscountCall records parameters passed to SetDiscount
type DiscountCall struct {
	ID      int
	Percent decimal.Decimal
}

// NewMockProductStore creates a MockProductStore over db
func NewMockProductStore(db *Database) *MockProductStore {
	return &MockProductStore{db: db}
}

func (m *MockProductStore) List(ctx context.Context) ([]model.Product, error) {
	return m.Search(ctx, model.ProductFilter{})
}

func (m *MockProductStore) Get(ctx context.Context, id int) (*model.Product, error) {
	m.db.mu.Lock()
	m.GetCalls = append(m.GetCalls, id)
	m.db.mu.Unlock()
	return m.get(id)
}

// LockForUpdate records the ids in the order the rows would be locked
func (m *MockProductStore) LockForUpdate(ctx context.Context, ids []int) error {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	m.db.mu.Lock()
	m.LockCalls = append(m.LockCalls, sorted)
	m.db.mu.Unlock()
	return nil
}

func (m *MockProductStore) get(id int) (*model.Product, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	p, ok := m.db.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (m *MockProductStore) Search(ctx context.Context, f model.ProductFilter) ([]model.Product, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	out := make([]model.Product, 0)
	for _, id := range sortedKeys(m.db.products) {
		p := m.db.products[id]
		if matches(p, f) {
			out = append(out, p)
		}
	}
	return out, nil
}

func matches(p model.Product, f model.ProductFilter) bool {
	switch {
	case f.CategoryID != nil && p.CategoryID != *f.CategoryID:
		return false
	case f.GenderID != nil && p.GenderID != *f.GenderID:
		return false
	case f.BrandID != nil && p.BrandID != *f.BrandID:
		return false
	case f.SizeID != nil && !slices.Contains(p.SizeIDs, *f.SizeID):
		return false
	case f.ColorID != nil && !slices.Contains(p.ColorIDs, *f.ColorID):
		return false
	case f.PriceMin != nil && p.Price.LessThan(*f.PriceMin):
		return false
	case f.PriceMax != nil && p.Price.GreaterThan(*f.PriceMax):
		return false
	case f.InStock != nil && *f.InStock && p.Quantity <= 0:
		return false
	}
	return true
}

func (m *MockProductStore) Create(ctx context.Context, p *model.Product) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	p.ID = m.db.nextID()
	m.db.products[p.ID] = *p
	return nil
}

func (m *MockProductStore) Update(ctx context.Context, p *model.Product) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	m.UpdateCalls = append(m.UpdateCalls, *p)
	if _, ok := m.db.products[p.ID]; !ok {
		return store.ErrNotFound
	}
	m.db.products[p.ID] = *p
	return nil
}

func (m *MockProductStore) SetDiscount(ctx context.Context, id int, percent decimal.Decimal) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	m.DiscountCalls = append(m.DiscountCalls, DiscountCall{ID: id, Percent: percent})
	p, ok := m.db.products[id]
	if !ok {
		return store.ErrNotFound
	}
	p.DiscountPercent = decimal.NewNullDecimal(percent)
	m.db.products[id] = p
	return nil
}

func (m *MockProductStore) Delete(ctx context.Context, id int) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if _, ok := m.db.products[id]; !ok {
		return store.ErrNotFound
	}
	for _, o := range m.db.orders {
		for _, item := range o.Items {
			if item.ProductID == id {
				return store.ErrConflict
			}
		}
	}
	delete(m.db.products, id)
	return nil
}
