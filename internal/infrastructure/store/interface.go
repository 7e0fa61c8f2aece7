package store

import (
	"context"
	"errors"
	"time"

	"github.com/example/webstore/internal/model"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a row addressed by id or key does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned on unique or foreign key violations.
	ErrConflict = errors.New("record conflicts with existing data")
)

// Transactor runs fn inside a database transaction carried by the context.
// Nested calls join the outer transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// OrderStore persists orders together with their items.
type OrderStore interface {
	// Create writes the order and all its items atomically and fills in generated ids.
	Create(ctx context.Context, order *model.Order) error
	Get(ctx context.Context, id int) (*model.Order, error)
	// GetDetailed returns the order with its client and item products populated.
	GetDetailed(ctx context.Context, id int) (*model.Order, error)
	ListDetailed(ctx context.Context) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id int, status model.OrderStatus) error
	// ReservedQuantity sums item quantities of the product across orders that are not Cancelled.
	ReservedQuantity(ctx context.Context, productID int) (int, error)
	// SoldQuantity sums item quantities of the product across Confirmed orders.
	SoldQuantity(ctx context.Context, productID int) (int, error)
	// ConfirmedSales lists items of Confirmed orders created within [from, to].
	ConfirmedSales(ctx context.Context, from, to time.Time) ([]model.SalesLine, error)
}

// ProductStore persists catalog products.
type ProductStore interface {
	List(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id int) (*model.Product, error)
	// LockForUpdate locks the product rows until the surrounding transaction
	// ends. Rows are locked in ascending id order whatever the order of ids.
	LockForUpdate(ctx context.Context, ids []int) error
	Search(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	SetDiscount(ctx context.Context, id int, percent decimal.Decimal) error
	Delete(ctx context.Context, id int) error
}

type ClientStore interface {
	List(ctx context.Context) ([]model.Client, error)
	Get(ctx context.Context, id int) (*model.Client, error)
	Create(ctx context.Context, client *model.Client) error
	Update(ctx context.Context, client *model.Client) error
	Delete(ctx context.Context, id int) error
}

type UserStore interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id int) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	UpdateRole(ctx context.Context, id int, role string, clientID *int) error
	Delete(ctx context.Context, id int) error
	CountByRole(ctx context.Context, role string) (int, error)
}

// LookupKind names one of the catalog dimension tables.
type LookupKind string

const (
	LookupCategory LookupKind = "categories"
	LookupBrand    LookupKind = "brands"
	LookupSize     LookupKind = "sizes"
	LookupColor    LookupKind = "colors"
	LookupGender   LookupKind = "genders"
)

// LookupKinds lists every supported kind.
var LookupKinds = []LookupKind{LookupCategory, LookupBrand, LookupSize, LookupColor, LookupGender}

// Valid reports whether k is a supported kind.
func (k LookupKind) Valid() bool {
	for _, known := range LookupKinds {
		if k == known {
			return true
		}
	}
	return false
}

type LookupStore interface {
	List(ctx context.Context, kind LookupKind) ([]model.Lookup, error)
	Get(ctx context.Context, kind LookupKind, id int) (*model.Lookup, error)
	Create(ctx context.Context, kind LookupKind, name string) (*model.Lookup, error)
	Update(ctx context.Context, kind LookupKind, id int, name string) error
	Delete(ctx context.Context, kind LookupKind, id int) error
}
