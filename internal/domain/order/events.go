package order

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/webstore/internal/model"
	"github.com/google/uuid"
)

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
)

// Event is the envelope published for every order change.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OrderID    int             `json:"orderId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

type PlacedItem struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type OrderPlaced struct {
	OrderID  int          `json:"orderId"`
	ClientID int          `json:"clientId"`
	UserID   *int         `json:"userId,omitempty"`
	Items    []PlacedItem `json:"items"`
	PlacedAt time.Time    `json:"placedAt"`
}

type OrderStatusChanged struct {
	OrderID   int               `json:"orderId"`
	ClientID  int               `json:"clientId"`
	From      model.OrderStatus `json:"from"`
	To        model.OrderStatus `json:"to"`
	ChangedAt time.Time         `json:"changedAt"`
}

// NewEvent wraps payload in an envelope with a fresh id.
func NewEvent(eventType string, orderID int, at time.Time, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s: %w", eventType, err)
	}
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		OrderID:    orderID,
		OccurredAt: at,
		Data:       data,
	}, nil
}

func placedEvent(o *model.Order) OrderPlaced {
	items := make([]PlacedItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = PlacedItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return OrderPlaced{
		OrderID:  o.ID,
		ClientID: o.ClientID,
		UserID:   o.UserID,
		Items:    items,
		PlacedAt: o.CreatedAt,
	}
}
