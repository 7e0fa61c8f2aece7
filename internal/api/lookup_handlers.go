package api

import (
	"net/http"
	"strconv"

	"github.com/example/webstore/internal/domain/catalog"
	"github.com/example/webstore/internal/infrastructure/store"
	"go.uber.org/zap"
)

// LookupHandlers serves one catalog dimension such as /api/brands
type LookupHandlers struct {
	catalog *catalog.Service
	kind    store.LookupKind
	log     *zap.Logger
}

func NewLookupHandlers(c *catalog.Service, kind store.LookupKind, log *zap.Logger) *LookupHandlers {
	return &LookupHandlers{catalog: c, kind: kind, log: log}
}

type lookupRequest struct {
	Name string `json:"name"`
}

func (h *LookupHandlers) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.catalog.List(r.Context(), h.kind)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *LookupHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	entry, err := h.catalog.Get(r.Context(), h.kind, id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

func (h *LookupHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	entry, err := h.catalog.Create(r.Context(), h.kind, req.Name)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	w.Header().Set("Location", "/api/"+string(h.kind)+"/"+strconv.Itoa(entry.ID))
	respondJSON(w, http.StatusCreated, entry)
}

func (h *LookupHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	var req lookupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if err := h.catalog.Update(r.Context(), h.kind, id, req.Name); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LookupHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if err := h.catalog.Delete(r.Context(), h.kind, id); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
