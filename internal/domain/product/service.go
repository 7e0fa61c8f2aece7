package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/webstore/internal/domain/domainerr"
	"github.com/example/webstore/internal/infrastructure/store"
	"github.com/example/webstore/internal/model"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = domainerr.New(domainerr.ErrNotFound, "product does not exist")
	ErrInvalidName     = domainerr.New(domainerr.ErrValidation, "name is required")
	ErrInvalidPrice    = domainerr.New(domainerr.ErrValidation, "price must be positive")
	ErrInvalidQuantity = domainerr.New(domainerr.ErrValidation, "quantity must not be negative")
	ErrInvalidDiscount = domainerr.New(domainerr.ErrValidation, "discount must be between 0 and 100")
	ErrIDMismatch      = domainerr.New(domainerr.ErrValidation, "product id does not match the request path")
	ErrProductInUse    = domainerr.New(domainerr.ErrConflict, "product is in use or references a missing catalog entry")
)

var hundred = decimal.NewFromInt(100)

type Service struct {
	products store.ProductStore
	orders   store.OrderStore
}

func NewService(products store.ProductStore, orders store.OrderStore) *Service {
	return &Service{products: products, orders: orders}
}

func (s *Service) List(ctx context.Context) ([]model.Product, error) {
	return s.products.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int) (*model.Product, error) {
	p, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *Service) Search(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	return s.products.Search(ctx, filter)
}

func (s *Service) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	if err := validate(p); err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, conflict(err)
	}
	return p, nil
}

// Update replaces the product addressed by id. The body id must match.
func (s *Service) Update(ctx context.Context, id int, p *model.Product) error {
	if p.ID != id {
		return ErrIDMismatch
	}
	if err := validate(p); err != nil {
		return err
	}
	if err := s.products.Update(ctx, p); err != nil {
		return conflict(notFound(err))
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return conflict(notFound(err))
	}
	return nil
}

func (s *Service) ApplyDiscount(ctx context.Context, id int, percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return ErrInvalidDiscount
	}
	if err := s.products.SetDiscount(ctx, id, percent); err != nil {
		return notFound(err)
	}
	return nil
}

func (s *Service) RemoveDiscount(ctx context.Context, id int) error {
	if err := s.products.SetDiscount(ctx, id, decimal.Zero); err != nil {
		return notFound(err)
	}
	return nil
}

// Quantity reports initial stock, units sold in Confirmed orders and what
// remains. Pending orders are not counted as sold here, unlike the
// reservation check used when placing orders.
func (s *Service) Quantity(ctx context.Context, id int) (*model.ProductQuantity, error) {
	p, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	sold, err := s.orders.SoldQuantity(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("sold quantity of product %d: %w", id, err)
	}
	return &model.ProductQuantity{
		ProductID:       p.ID,
		Name:            p.Name,
		InitialQuantity: p.Quantity,
		SoldQuantity:    sold,
		CurrentQuantity: p.Quantity - sold,
	}, nil
}

func validate(p *model.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	switch {
	case p.Name == "":
		return ErrInvalidName
	case !p.Price.IsPositive():
		return ErrInvalidPrice
	case p.Quantity < 0:
		return ErrInvalidQuantity
	case p.DiscountPercent.Valid && (p.DiscountPercent.Decimal.IsNegative() || p.DiscountPercent.Decimal.GreaterThan(hundred)):
		return ErrInvalidDiscount
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrProductNotFound
	}
	return err
}

func conflict(err error) error {
	if errors.Is(err, store.ErrConflict) {
		return ErrProductInUse
	}
	return err
}
