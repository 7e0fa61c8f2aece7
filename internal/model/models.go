package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderConfirmed OrderStatus = "Confirmed"
	OrderCancelled OrderStatus = "Cancelled"
)

// Role names carried in users and tokens.
const (
	RoleAdmin    = "admin"
	RoleAdvanced = "advanced"
	RoleSimple   = "simple"
)

// Client is a customer who places orders.
type Client struct {
	ID       int    `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// Lookup is a named catalog dimension row (category, brand, size, color, gender).
type Lookup struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Product is a catalog item. Quantity is the initial stock, not live stock.
type Product struct {
	ID              int                 `json:"id"`
	Name            string              `json:"name"`
	Description     *string             `json:"description"`
	Price           decimal.Decimal     `json:"price"`
	DiscountPercent decimal.NullDecimal `json:"discountPercent"`
	Quantity        int                 `json:"quantity"`
	ImageURL        *string             `json:"imageUrl"`
	CategoryID      int                 `json:"categoryId"`
	BrandID         int                 `json:"brandId"`
	GenderID        int                 `json:"genderId"`
	SizeIDs         []int               `json:"sizeIds,omitempty"`
	ColorIDs        []int               `json:"colorIds,omitempty"`

	Category *Lookup  `json:"category,omitempty"`
	Brand    *Lookup  `json:"brand,omitempty"`
	Gender   *Lookup  `json:"gender,omitempty"`
	Sizes    []Lookup `json:"sizes,omitempty"`
	Colors   []Lookup `json:"colors,omitempty"`
}

// FinalPrice is the current price after the current discount.
func (p *Product) FinalPrice() decimal.Decimal {
	return FinalPrice(p.Price, p.DiscountPercent)
}

// FinalPrice applies a nullable percentage discount to price.
func FinalPrice(price decimal.Decimal, discount decimal.NullDecimal) decimal.Decimal {
	if !discount.Valid {
		return price
	}
	factor := decimal.NewFromInt(1).Sub(discount.Decimal.Div(decimal.NewFromInt(100)))
	return price.Mul(factor)
}

// ProductFilter narrows a product search. Nil fields are ignored.
type ProductFilter struct {
	CategoryID *int
	GenderID   *int
	BrandID    *int
	PriceMin   *decimal.Decimal
	PriceMax   *decimal.Decimal
	SizeID     *int
	ColorID    *int
	InStock    *bool
}

// ProductQuantity is the availability snapshot of a product.
type ProductQuantity struct {
	ProductID       int    `json:"productId"`
	Name            string `json:"name"`
	InitialQuantity int    `json:"initialQuantity"`
	SoldQuantity    int    `json:"soldQuantity"`
	CurrentQuantity int    `json:"currentQuantity"`
}

// Order is a client's purchase. Items are owned by the order and written with it.
type Order struct {
	ID        int         `json:"id"`
	CreatedAt time.Time   `json:"createdAt"`
	Status    OrderStatus `json:"status"`
	ClientID  int         `json:"clientId"`
	UserID    *int        `json:"userId,omitempty"`
	Items     []OrderItem `json:"items"`

	Client *Client `json:"client,omitempty"`
}

// OrderItem is one product line of an order. There is no price snapshot.
type OrderItem struct {
	ID        int `json:"id"`
	OrderID   int `json:"orderId"`
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`

	Product *Product `json:"product,omitempty"`
}

// SalesLine is one item of a confirmed order joined with the product's current pricing.
type SalesLine struct {
	OrderID         int
	ProductID       int
	ProductName     string
	Price           decimal.Decimal
	DiscountPercent decimal.NullDecimal
	Quantity        int
}

// User is an account. PasswordHash never leaves the server.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	ClientID     *int   `json:"clientId"`
}

// Report summarizes confirmed sales over a closed time window.
type Report struct {
	FromDate      time.Time       `json:"fromDate"`
	ToDate        time.Time       `json:"toDate"`
	TotalEarnings decimal.Decimal `json:"totalEarnings"`
	TopProductID  *int            `json:"topProductId"`
}

// TopProduct is one row of the best sellers report.
type TopProduct struct {
	ProductID     int             `json:"productId"`
	ProductName   string          `json:"productName"`
	QuantitySold  int             `json:"quantitySold"`
	TotalEarnings decimal.Decimal `json:"totalEarnings"`
}
