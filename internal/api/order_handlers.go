package api

import (
	"fmt"
	"net/http"

	"github.com/example/webstore/internal/api/middleware"
	"github.com/example/webstore/internal/domain/domainerr"
	"github.com/example/webstore/internal/domain/order"
	"go.uber.org/zap"
)

var errNoClient = domainerr.New(domainerr.ErrValidation, "logged-in user is not linked to a client")

// OrderHandlers serves /api/orders
type OrderHandlers struct {
	orders *order.Service
	log    *zap.Logger
}

func NewOrderHandlers(orders *order.Service, log *zap.Logger) *OrderHandlers {
	return &OrderHandlers{orders: orders, log: log}
}

type createOrderRequest struct {
	Items []order.ItemRequest `json:"items"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// Create places an order for the caller's client. Every domain failure,
// including a missing product, is reported as 400.
func (h *OrderHandlers) Create(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientID(r.Context())
	if !ok {
		respondJSONError(w, errNoClient.Error(), http.StatusBadRequest)
		return
	}

	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if len(req.Items) == 0 {
		respondJSONError(w, order.ErrEmptyOrder.Error(), http.StatusBadRequest)
		return
	}

	var userID *int
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
		userID = &claims.UserID
	}

	created, err := h.orders.Create(r.Context(), clientID, userID, req.Items)
	if err != nil {
		if domainerr.IsDomain(err) {
			respondJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		respondError(w, r, h.log, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/orders/%d", created.ID))
	respondJSON(w, http.StatusCreated, created)
}

func (h *OrderHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), id, req.Status); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandlers) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	o, err := h.orders.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}
