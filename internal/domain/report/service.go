// Package report aggregates revenue from confirmed orders. Revenue is
// computed from the products' current price and discount since order items
// carry no price of their own.
package report

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/example/webstore/internal/domain/domainerr"
	"github.com/example/webstore/internal/infrastructure/store"
	"github.com/example/webstore/internal/model"
	"github.com/shopspring/decimal"
)

// DefaultTopN is used when a top products request names no positive limit.
const DefaultTopN = 5

var (
	ErrInvalidRange = domainerr.New(domainerr.ErrValidation, "from must not be after to")
	ErrInvalidMonth = domainerr.New(domainerr.ErrValidation, "month must be between 1 and 12")
)

// SalesSource lists the confirmed order lines inside a window.
// store.OrderStore satisfies it.
type SalesSource interface {
	ConfirmedSales(ctx context.Context, from, to time.Time) ([]model.SalesLine, error)
}

var _ SalesSource = (store.OrderStore)(nil)

type Service struct {
	sales SalesSource
}

func NewService(sales SalesSource) *Service {
	return &Service{sales: sales}
}

// Generate sums earnings over Confirmed orders created in [from, to] and
// names the product with the most units sold.
func (s *Service) Generate(ctx context.Context, from, to time.Time) (*model.Report, error) {
	totals, err := s.aggregate(ctx, from, to)
	if err != nil {
		return nil, err
	}

	r := &model.Report{FromDate: from, ToDate: to, TotalEarnings: decimal.Zero}
	for _, t := range totals {
		r.TotalEarnings = r.TotalEarnings.Add(t.TotalEarnings)
	}
	if len(totals) > 0 {
		id := totals[0].ProductID
		r.TopProductID = &id
	}
	return r, nil
}

// Daily covers the calendar day of date in date's location.
func (s *Service) Daily(ctx context.Context, date time.Time) (*model.Report, error) {
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return s.Generate(ctx, from, from.AddDate(0, 0, 1).Add(-time.Nanosecond))
}

// Monthly covers the calendar month in UTC.
func (s *Service) Monthly(ctx context.Context, year, month int) (*model.Report, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return s.Generate(ctx, from, from.AddDate(0, 1, 0).Add(-time.Nanosecond))
}

// TopProducts returns up to topN products by units sold.
func (s *Service) TopProducts(ctx context.Context, from, to time.Time, topN int) ([]model.TopProduct, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}
	totals, err := s.aggregate(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if len(totals) > topN {
		totals = totals[:topN]
	}
	return totals, nil
}

// aggregate returns per-product totals ordered by quantity desc, then
// product id asc.
func (s *Service) aggregate(ctx context.Context, from, to time.Time) ([]model.TopProduct, error) {
	if from.After(to) {
		return nil, ErrInvalidRange
	}
	lines, err := s.sales.ConfirmedSales(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load confirmed sales: %w", err)
	}

	byProduct := make(map[int]*model.TopProduct)
	for _, l := range lines {
		t, ok := byProduct[l.ProductID]
		if !ok {
			t = &model.TopProduct{ProductID: l.ProductID, ProductName: l.ProductName, TotalEarnings: decimal.Zero}
			byProduct[l.ProductID] = t
		}
		t.QuantitySold += l.Quantity
		t.TotalEarnings = t.TotalEarnings.Add(lineRevenue(l))
	}

	out := make([]model.TopProduct, 0, len(byProduct))
	for _, t := range byProduct {
		out = append(out, *t)
	}
	slices.SortFunc(out, func(a, b model.TopProduct) int {
		if c := cmp.Compare(b.QuantitySold, a.QuantitySold); c != 0 {
			return c
		}
		return cmp.Compare(a.ProductID, b.ProductID)
	})
	return out, nil
}

func lineRevenue(l model.SalesLine) decimal.Decimal {
	return model.FinalPrice(l.Price, l.DiscountPercent).Mul(decimal.NewFromInt(int64(l.Quantity)))
}
