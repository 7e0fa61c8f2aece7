package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/webstore/internal/domain/domainerr"
	"github.com/example/webstore/internal/infrastructure/store/mocks"
	"github.com/example/webstore/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

type fixture struct {
	db      *mocks.Database
	client  model.Client
	shirt   model.Product
	jeans   model.Product
	socks   model.Product
	service *Service
}

func newFixture() *fixture {
	db := mocks.NewDatabase()
	f := &fixture{db: db, service: NewService(mocks.NewMockOrderStore(db))}
	f.client = db.AddClient(model.Client{FullName: "Lena", Email: "lena@example.com"})
	f.shirt = db.AddProduct(model.Product{Name: "Shirt", Price: decimal.NewFromInt(20), Quantity: 100})
	f.jeans = db.AddProduct(model.Product{
		Name:            "Jeans",
		Price:           decimal.NewFromInt(80),
		DiscountPercent: decimal.NewNullDecimal(decimal.NewFromInt(25)),
		Quantity:        100,
	})
	f.socks = db.AddProduct(model.Product{Name: "Socks", Price: decimal.RequireFromString("4.50"), Quantity: 100})
	return f
}

func (f *fixture) order(at time.Time, status model.OrderStatus, items ...model.OrderItem) {
	f.db.AddOrder(model.Order{CreatedAt: at, Status: status, ClientID: f.client.ID, Items: items})
}

func item(p model.Product, qty int) model.OrderItem {
	return model.OrderItem{ProductID: p.ID, Quantity: qty}
}

// ============================================
// Generate Tests
// ============================================

func TestService_Generate_ConfirmedOnly(t *testing.T) {
	f := newFixture()
	f.order(day.Add(9*time.Hour), model.OrderConfirmed, item(f.shirt, 3), item(f.jeans, 1))
	f.order(day.Add(10*time.Hour), model.OrderPending, item(f.shirt, 50))
	f.order(day.Add(11*time.Hour), model.OrderCancelled, item(f.jeans, 50))
	f.order(day.Add(12*time.Hour), model.OrderConfirmed, item(f.socks, 2))

	r, err := f.service.Generate(context.Background(), day, day.Add(24*time.Hour))

	require.NoError(t, err)
	// 3*20 + 1*80*0.75 + 2*4.50
	assert.True(t, r.TotalEarnings.Equal(decimal.RequireFromString("129")), r.TotalEarnings.String())
	require.NotNil(t, r.TopProductID)
	assert.Equal(t, f.shirt.ID, *r.TopProductID)
}

func TestService_Generate_WindowIsInclusive(t *testing.T) {
	f := newFixture()
	f.order(day, model.OrderConfirmed, item(f.shirt, 1))
	f.order(day.Add(time.Hour), model.OrderConfirmed, item(f.shirt, 1))
	f.order(day.Add(time.Hour+time.Nanosecond), model.OrderConfirmed, item(f.shirt, 1))
	f.order(day.Add(-time.Nanosecond), model.OrderConfirmed, item(f.shirt, 1))

	r, err := f.service.Generate(context.Background(), day, day.Add(time.Hour))

	require.NoError(t, err)
	assert.True(t, r.TotalEarnings.Equal(decimal.NewFromInt(40)))
}

func TestService_Generate_Empty(t *testing.T) {
	f := newFixture()

	r, err := f.service.Generate(context.Background(), day, day.Add(time.Hour))

	require.NoError(t, err)
	assert.True(t, r.TotalEarnings.IsZero())
	assert.Nil(t, r.TopProductID)
	assert.Equal(t, day, r.FromDate)
}

func TestService_Generate_InvalidRange(t *testing.T) {
	f := newFixture()

	_, err := f.service.Generate(context.Background(), day.Add(time.Hour), day)

	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.ErrorIs(t, err, domainerr.ErrValidation)
}

type failingSales struct{}

func (failingSales) ConfirmedSales(context.Context, time.Time, time.Time) ([]model.SalesLine, error) {
	return nil, errors.New("db down")
}

func TestService_Generate_SourceError(t *testing.T) {
	service := NewService(failingSales{})

	_, err := service.Generate(context.Background(), day, day.Add(time.Hour))

	assert.ErrorContains(t, err, "db down")
	assert.False(t, domainerr.IsDomain(err))
}

// ============================================
// Daily / Monthly Tests
// ============================================

func TestService_Daily(t *testing.T) {
	f := newFixture()
	f.order(day.Add(23*time.Hour+59*time.Minute), model.OrderConfirmed, item(f.jeans, 2))
	f.order(day.AddDate(0, 0, 1), model.OrderConfirmed, item(f.jeans, 5))

	r, err := f.service.Daily(context.Background(), day.Add(13*time.Hour))

	require.NoError(t, err)
	assert.Equal(t, day, r.FromDate)
	assert.Equal(t, day.AddDate(0, 0, 1).Add(-time.Nanosecond), r.ToDate)
	assert.True(t, r.TotalEarnings.Equal(decimal.NewFromInt(120)))
}

func TestService_Monthly(t *testing.T) {
	f := newFixture()
	f.order(time.Date(2024, 2, 29, 18, 0, 0, 0, time.UTC), model.OrderConfirmed, item(f.shirt, 1))
	f.order(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), model.OrderConfirmed, item(f.shirt, 1))

	r, err := f.service.Monthly(context.Background(), 2024, 2)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), r.FromDate)
	assert.True(t, r.TotalEarnings.Equal(decimal.NewFromInt(20)))
}

func TestService_Monthly_InvalidMonth(t *testing.T) {
	f := newFixture()
	for _, m := range []int{0, 13, -1} {
		_, err := f.service.Monthly(context.Background(), 2024, m)
		assert.ErrorIs(t, err, ErrInvalidMonth)
	}
}

// ============================================
// Top Products Tests
// ============================================

func TestService_TopProducts_Ordering(t *testing.T) {
	f := newFixture()
	f.order(day.Add(time.Hour), model.OrderConfirmed, item(f.socks, 4), item(f.jeans, 4))
	f.order(day.Add(2*time.Hour), model.OrderConfirmed, item(f.shirt, 7))

	top, err := f.service.TopProducts(context.Background(), day, day.Add(24*time.Hour), 0)

	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, f.shirt.ID, top[0].ProductID)
	assert.Equal(t, "Shirt", top[0].ProductName)
	assert.Equal(t, 7, top[0].QuantitySold)
	assert.True(t, top[0].TotalEarnings.Equal(decimal.NewFromInt(140)))
	// jeans and socks tie on quantity; lower id first
	assert.Equal(t, f.jeans.ID, top[1].ProductID)
	assert.True(t, top[1].TotalEarnings.Equal(decimal.NewFromInt(240)))
	assert.Equal(t, f.socks.ID, top[2].ProductID)
	assert.True(t, top[2].TotalEarnings.Equal(decimal.NewFromInt(18)))
}

func TestService_TopProducts_Limit(t *testing.T) {
	f := newFixture()
	f.order(day.Add(time.Hour), model.OrderConfirmed, item(f.shirt, 3), item(f.jeans, 2), item(f.socks, 1))

	top, err := f.service.TopProducts(context.Background(), day, day.Add(24*time.Hour), 2)

	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, []int{f.shirt.ID, f.jeans.ID}, []int{top[0].ProductID, top[1].ProductID})
}
