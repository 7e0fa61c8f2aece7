package mocks

import (
	"context"
	"time"

	"github.com/example/webstore/internal/infrastructure/store"
	"github.com/example/webstore/internal/model"
)

// MockOrderStore is an in-memory OrderStore for testing
type MockOrderStore struct {
	db *Database

	// For tracking calls in tests
	CreateCalls       []model.Order
	UpdateStatusCalls []UpdateStatusCall
	ReservedCalls     []int
	CreateErr         error
	UpdateStatusErr   error
}

// UpdateStatusCall records parameters passed to UpdateStatus
type UpdateStatusCall struct {
	ID     int
	Status model.OrderStatus
}

// NewMockOrderStore creates a MockOrderStore over db
func NewMockOrderStore(db *Database) *MockOrderStore {
	return &MockOrderStore{db: db}
}

func (m *MockOrderStore) Create(ctx context.Context, order *model.Order) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	m.CreateCalls = append(m.CreateCalls, cloneOrder(*order))
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.db.insertOrder(order)
	return nil
}

func (m *MockOrderStore) Get(ctx context.Context, id int) (*model.Order, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	o, ok := m.db.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	o = cloneOrder(o)
	return &o, nil
}

func (m *MockOrderStore) GetDetailed(ctx context.Context, id int) (*model.Order, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	o, ok := m.db.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	o = m.detail(o)
	return &o, nil
}

func (m *MockOrderStore) ListDetailed(ctx context.Context) ([]model.Order, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	out := make([]model.Order, 0, len(m.db.orders))
	for _, id := range sortedKeys(m.db.orders) {
		out = append(out, m.detail(m.db.orders[id]))
	}
	return out, nil
}

// detail must be called with the read lock held
func (m *MockOrderStore) detail(o model.Order) model.Order {
	o = cloneOrder(o)
	if c, ok := m.db.clients[o.ClientID]; ok {
		o.Client = &c
	}
	for i := range o.Items {
		if p, ok := m.db.products[o.Items[i].ProductID]; ok {
			o.Items[i].Product = &p
		}
	}
	return o
}

func (m *MockOrderStore) UpdateStatus(ctx context.Context, id int, status model.OrderStatus) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	m.UpdateStatusCalls = append(m.UpdateStatusCalls, UpdateStatusCall{ID: id, Status: status})
	if m.UpdateStatusErr != nil {
		return m.UpdateStatusErr
	}
	o, ok := m.db.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.Status = status
	m.db.orders[id] = o
	return nil
}

func (m *MockOrderStore) ReservedQuantity(ctx context.Context, productID int) (int, error) {
	m.db.mu.Lock()
	m.ReservedCalls = append(m.ReservedCalls, productID)
	m.db.mu.Unlock()

	return m.sum(productID, func(s model.OrderStatus) bool { return s != model.OrderCancelled }), nil
}

func (m *MockOrderStore) SoldQuantity(ctx context.Context, productID int) (int, error) {
	return m.sum(productID, func(s model.OrderStatus) bool { return s == model.OrderConfirmed }), nil
}

func (m *MockOrderStore) sum(productID int, match func(model.OrderStatus) bool) int {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	total := 0
	for _, o := range m.db.orders {
		if !match(o.Status) {
			continue
		}
		for _, item := range o.Items {
			if item.ProductID == productID {
				total += item.Quantity
			}
		}
	}
	return total
}

func (m *MockOrderStore) ConfirmedSales(ctx context.Context, from, to time.Time) ([]model.SalesLine, error) {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()

	var lines []model.SalesLine
	for _, id := range sortedKeys(m.db.orders) {
		o := m.db.orders[id]
		if o.Status != model.OrderConfirmed || o.CreatedAt.Before(from) || o.CreatedAt.After(to) {
			continue
		}
		for _, item := range o.Items {
			p, ok := m.db.products[item.ProductID]
			if !ok {
				continue
			}
			lines = append(lines, model.SalesLine{
				OrderID:         o.ID,
				ProductID:       p.ID,
				ProductName:     p.Name,
				Price:           p.Price,
				DiscountPercent: p.DiscountPercent,
				Quantity:        item.Quantity,
			})
		}
	}
	return lines, nil
}
