package api

import (
	"net/http"
	"strconv"

	"github.com/example/webstore/internal/domain/client"
	"github.com/example/webstore/internal/model"
	"go.uber.org/zap"
)

// ClientHandlers serves /api/clients
type ClientHandlers struct {
	clients *client.Service
	log     *zap.Logger
}

func NewClientHandlers(clients *client.Service, log *zap.Logger) *ClientHandlers {
	return &ClientHandlers{clients: clients, log: log}
}

func (h *ClientHandlers) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clients.List(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, clients)
}

func (h *ClientHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	c, err := h.clients.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *ClientHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var c model.Client
	if err := decodeJSON(r, &c); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	c.ID = 0
	created, err := h.clients.Create(r.Context(), &c)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	w.Header().Set("Location", "/api/clients/"+strconv.Itoa(created.ID))
	respondJSON(w, http.StatusCreated, created)
}

func (h *ClientHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	var c model.Client
	if err := decodeJSON(r, &c); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if err := h.clients.Update(r.Context(), id, &c); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ClientHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if err := h.clients.Delete(r.Context(), id); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
