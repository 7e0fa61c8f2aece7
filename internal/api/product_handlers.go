package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/example/webstore/internal/domain/domainerr"
	"github.com/example/webstore/internal/domain/product"
	"github.com/example/webstore/internal/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductHandlers serves /api/products
type ProductHandlers struct {
	products *product.Service
	log      *zap.Logger
}

func NewProductHandlers(products *product.Service, log *zap.Logger) *ProductHandlers {
	return &ProductHandlers{products: products, log: log}
}

type discountRequest struct {
	DiscountPercent decimal.Decimal `json:"discountPercent"`
}

func (h *ProductHandlers) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// Search filters products by the optional query parameters categoryId,
// genderId, brandId, priceMin, priceMax, sizeId, colorId and inStock.
func (h *ProductHandlers) Search(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r.URL.Query())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	products, err := h.products.Search(r.Context(), filter)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	p, err := h.products.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *ProductHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var p model.Product
	if err := decodeJSON(r, &p); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	p.ID = 0
	created, err := h.products.Create(r.Context(), &p)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	w.Header().Set("Location", "/api/products/"+strconv.Itoa(created.ID))
	respondJSON(w, http.StatusCreated, created)
}

func (h *ProductHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	var p model.Product
	if err := decodeJSON(r, &p); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if err := h.products.Update(r.Context(), id, &p); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if err := h.products.Delete(r.Context(), id); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandlers) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	var req discountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if err := h.products.ApplyDiscount(r.Context(), id, req.DiscountPercent); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandlers) RemoveDiscount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if err := h.products.RemoveDiscount(r.Context(), id); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Quantity reports initial, sold and current stock for one product.
func (h *ProductHandlers) Quantity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	q, err := h.products.Quantity(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, q)
}

func parseProductFilter(q url.Values) (model.ProductFilter, error) {
	var f model.ProductFilter
	ints := map[string]**int{
		"categoryId": &f.CategoryID,
		"genderId":   &f.GenderID,
		"brandId":    &f.BrandID,
		"sizeId":     &f.SizeID,
		"colorId":    &f.ColorID,
	}
	for name, dst := range ints {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return f, domainerr.Newf(domainerr.ErrValidation, "invalid %s %q", name, raw)
		}
		*dst = &v
	}

	prices := map[string]**decimal.Decimal{"priceMin": &f.PriceMin, "priceMax": &f.PriceMax}
	for name, dst := range prices {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return f, domainerr.Newf(domainerr.ErrValidation, "invalid %s %q", name, raw)
		}
		*dst = &v
	}

	if raw := q.Get("inStock"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, domainerr.Newf(domainerr.ErrValidation, "invalid inStock %q", raw)
		}
		f.InStock = &v
	}
	return f, nil
}
