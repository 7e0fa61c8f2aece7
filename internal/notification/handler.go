package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/webstore/internal/domain/order"
	"github.com/example/webstore/internal/email"
	"github.com/example/webstore/internal/infrastructure/store"
	"go.uber.org/zap"
)

// Mailer sends customer emails. email.Service satisfies it.
type Mailer interface {
	SendOrderConfirmation(to string, o email.OrderSummary) error
	SendStatusUpdate(to string, u email.StatusUpdate) error
}

// Handler turns order events into customer emails
type Handler struct {
	mailer   Mailer
	clients  store.ClientStore
	products store.ProductStore
	log      *zap.Logger
}

func NewHandler(mailer Mailer, clients store.ClientStore, products store.ProductStore, log *zap.Logger) *Handler {
	return &Handler{mailer: mailer, clients: clients, products: products, log: log}
}

// HandleEvent processes one message from the order topic. Events for
// clients that no longer exist are skipped.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var evt order.Event
	if err := json.Unmarshal(value, &evt); err != nil {
		return fmt.Errorf("decode event %s: %w", key, err)
	}

	switch evt.Type {
	case order.EventOrderPlaced:
		var e order.OrderPlaced
		if err := json.Unmarshal(evt.Data, &e); err != nil {
			return fmt.Errorf("decode %s: %w", evt.Type, err)
		}
		return h.orderPlaced(ctx, e)
	case order.EventOrderStatusChanged:
		var e order.OrderStatusChanged
		if err := json.Unmarshal(evt.Data, &e); err != nil {
			return fmt.Errorf("decode %s: %w", evt.Type, err)
		}
		return h.statusChanged(ctx, e)
	default:
		h.log.Debug("ignoring event", zap.String("type", evt.Type), zap.String("id", evt.ID))
		return nil
	}
}

func (h *Handler) orderPlaced(ctx context.Context, e order.OrderPlaced) error {
	client, err := h.clients.Get(ctx, e.ClientID)
	if err != nil {
		return h.skipMissing(err, "client", e.ClientID, e.OrderID)
	}

	summary := email.OrderSummary{OrderID: e.OrderID, ClientName: client.FullName}
	for _, item := range e.Items {
		p, err := h.products.Get(ctx, item.ProductID)
		if err != nil {
			return h.skipMissing(err, "product", item.ProductID, e.OrderID)
		}
		summary.Lines = append(summary.Lines, email.Line{
			Name:      p.Name,
			Quantity:  item.Quantity,
			UnitPrice: p.FinalPrice(),
		})
	}

	if err := h.mailer.SendOrderConfirmation(client.Email, summary); err != nil {
		return err
	}
	h.log.Info("order confirmation sent", zap.Int("order_id", e.OrderID), zap.String("to", client.Email))
	return nil
}

func (h *Handler) statusChanged(ctx context.Context, e order.OrderStatusChanged) error {
	client, err := h.clients.Get(ctx, e.ClientID)
	if err != nil {
		return h.skipMissing(err, "client", e.ClientID, e.OrderID)
	}

	err = h.mailer.SendStatusUpdate(client.Email, email.StatusUpdate{
		OrderID:    e.OrderID,
		ClientName: client.FullName,
		From:       string(e.From),
		To:         string(e.To),
	})
	if err != nil {
		return err
	}
	h.log.Info("status update sent",
		zap.Int("order_id", e.OrderID),
		zap.String("status", string(e.To)),
		zap.String("to", client.Email))
	return nil
}

func (h *Handler) skipMissing(err error, entity string, id, orderID int) error {
	if errors.Is(err, store.ErrNotFound) {
		h.log.Warn("skipping notification", zap.String("missing", entity), zap.Int("id", id), zap.Int("order_id", orderID))
		return nil
	}
	return fmt.Errorf("load %s %d: %w", entity, id, err)
}
