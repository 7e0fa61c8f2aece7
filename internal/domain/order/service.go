package order

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/example/webstore/internal/domain/domainerr"
	"github.com/example/webstore/internal/infrastructure/store"
	"github.com/example/webstore/internal/metrics"
	"github.com/example/webstore/internal/model"
	"go.uber.org/zap"
)

var (
	ErrEmptyOrder      = domainerr.New(domainerr.ErrValidation, "order must contain at least one item")
	ErrInvalidQuantity = domainerr.New(domainerr.ErrValidation, "item quantity must be positive")
	ErrInvalidStatus   = domainerr.New(domainerr.ErrValidation, "invalid order status")
	ErrClientNotFound  = domainerr.New(domainerr.ErrNotFound, "client does not exist")
	ErrProductNotFound = domainerr.New(domainerr.ErrNotFound, "product does not exist")
	ErrOrderNotFound   = domainerr.New(domainerr.ErrNotFound, "order not found")
	ErrOutOfStock      = domainerr.New(domainerr.ErrInsufficientStock, "product out of stock")
	ErrNotEnoughStock  = domainerr.New(domainerr.ErrInsufficientStock, "not enough stock")
)

// EventPublisher delivers order events. kafka.Producer satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, any) error { return nil }

// ItemRequest is one requested line of a new order.
type ItemRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type Service struct {
	orders    store.OrderStore
	products  store.ProductStore
	clients   store.ClientStore
	tx        store.Transactor
	publisher EventPublisher
	metrics   *metrics.Registry
	log       *zap.Logger
	lockStock bool
	now       func() time.Time
}

type Option func(*Service)

func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithMetrics(m *metrics.Registry) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithStockLocking controls whether the stock check and the insert share one
// transaction with the product rows locked. Enabled by default.
func WithStockLocking(enabled bool) Option {
	return func(s *Service) { s.lockStock = enabled }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(orders store.OrderStore, products store.ProductStore, clients store.ClientStore, tx store.Transactor, opts ...Option) *Service {
	s := &Service{
		orders:    orders,
		products:  products,
		clients:   clients,
		tx:        tx,
		publisher: nopPublisher{},
		log:       zap.NewNop(),
		lockStock: true,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates stock for every requested item and persists a Pending order.
// The first failing check aborts the call and nothing is written.
func (s *Service) Create(ctx context.Context, clientID int, userID *int, items []ItemRequest) (*model.Order, error) {
	if len(items) == 0 {
		s.metrics.OrderRejected(rejectReason(ErrEmptyOrder))
		return nil, ErrEmptyOrder
	}

	var order *model.Order
	place := func(ctx context.Context) error {
		if err := s.checkAvailability(ctx, clientID, items); err != nil {
			return err
		}
		o := s.newOrder(clientID, userID, items)
		if err := s.orders.Create(ctx, o); err != nil {
			return fmt.Errorf("persist order: %w", err)
		}
		order = o
		return nil
	}

	var err error
	if s.lockStock {
		err = s.tx.WithinTx(ctx, place)
	} else {
		err = place(ctx)
	}
	if err != nil {
		s.metrics.OrderRejected(rejectReason(err))
		if !domainerr.IsDomain(err) {
			s.log.Error("create order failed", zap.Int("client_id", clientID), zap.Error(err))
		}
		return nil, err
	}

	s.metrics.OrderCreated()
	s.log.Info("order created",
		zap.Int("order_id", order.ID),
		zap.Int("client_id", clientID),
		zap.Int("items", len(order.Items)))
	s.publish(ctx, order.ID, EventOrderPlaced, placedEvent(order))
	return order, nil
}

func (s *Service) checkAvailability(ctx context.Context, clientID int, items []ItemRequest) error {
	if _, err := s.clients.Get(ctx, clientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("load client %d: %w", clientID, err)
	}

	if s.lockStock {
		if err := s.products.LockForUpdate(ctx, productIDs(items)); err != nil {
			return err
		}
	}

	for _, item := range items {
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: product %d, quantity %d", ErrInvalidQuantity, item.ProductID, item.Quantity)
		}

		product, err := s.loadProduct(ctx, item.ProductID)
		if err != nil {
			return err
		}

		reserved, err := s.orders.ReservedQuantity(ctx, item.ProductID)
		if err != nil {
			return fmt.Errorf("reserved quantity of product %d: %w", item.ProductID, err)
		}

		available := product.Quantity - reserved
		if available <= 0 {
			return fmt.Errorf("%w: product %d has initial stock %d and %d reserved",
				ErrOutOfStock, product.ID, product.Quantity, reserved)
		}
		if item.Quantity > available {
			return fmt.Errorf("%w: product %d has %d available, %d requested",
				ErrNotEnoughStock, product.ID, available, item.Quantity)
		}
	}
	return nil
}

func (s *Service) loadProduct(ctx context.Context, id int) (*model.Product, error) {
	p, err := s.products.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, id)
		}
		return nil, fmt.Errorf("load product %d: %w", id, err)
	}
	return p, nil
}

// productIDs returns the distinct product ids of items in ascending order.
func productIDs(items []ItemRequest) []int {
	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

func (s *Service) newOrder(clientID int, userID *int, items []ItemRequest) *model.Order {
	o := &model.Order{
		CreatedAt: s.now().UTC(),
		Status:    model.OrderPending,
		ClientID:  clientID,
		UserID:    userID,
		Items:     make([]model.OrderItem, len(items)),
	}
	for i, item := range items {
		o.Items[i] = model.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return o
}

// UpdateStatus sets the order status. Any status may follow any other.
func (s *Service) UpdateStatus(ctx context.Context, id int, raw string) error {
	current, err := s.orders.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("load order %d: %w", id, err)
	}

	status, err := ParseStatus(raw)
	if err != nil {
		return err
	}

	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("update order %d status: %w", id, err)
	}

	s.metrics.StatusChanged(string(status))
	s.log.Info("order status changed",
		zap.Int("order_id", id),
		zap.String("from", string(current.Status)),
		zap.String("to", string(status)))
	s.publish(ctx, id, EventOrderStatusChanged, OrderStatusChanged{
		OrderID:   id,
		ClientID:  current.ClientID,
		From:      current.Status,
		To:        status,
		ChangedAt: s.now().UTC(),
	})
	return nil
}

// Get returns the order with its client and item products.
func (s *Service) Get(ctx context.Context, id int) (*model.Order, error) {
	o, err := s.orders.GetDetailed(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order %d: %w", id, err)
	}
	return o, nil
}

func (s *Service) List(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orders.ListDetailed(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// ReservedQuantity is the stock held by orders that are not Cancelled.
func (s *Service) ReservedQuantity(ctx context.Context, productID int) (int, error) {
	return s.orders.ReservedQuantity(ctx, productID)
}

// publish is best effort: the order is already committed.
func (s *Service) publish(ctx context.Context, orderID int, eventType string, payload any) {
	evt, err := NewEvent(eventType, orderID, s.now().UTC(), payload)
	if err != nil {
		s.log.Error("build order event", zap.String("event", eventType), zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, strconv.Itoa(orderID), evt); err != nil {
		s.log.Warn("publish order event failed",
			zap.String("event", eventType),
			zap.Int("order_id", orderID),
			zap.Error(err))
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domainerr.ErrValidation):
		return "validation"
	case errors.Is(err, domainerr.ErrNotFound):
		return "not_found"
	case errors.Is(err, domainerr.ErrInsufficientStock):
		return "insufficient_stock"
	default:
		return "error"
	}
}
