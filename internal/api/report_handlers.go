package api

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/example/webstore/internal/domain/domainerr"
	"github.com/example/webstore/internal/domain/report"
	"go.uber.org/zap"
)

// ReportHandlers serves /api/reports
type ReportHandlers struct {
	reports *report.Service
	log     *zap.Logger
}

func NewReportHandlers(reports *report.Service, log *zap.Logger) *ReportHandlers {
	return &ReportHandlers{reports: reports, log: log}
}

// Range handles GET /api/reports?from=&to=
func (h *ReportHandlers) Range(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r.URL.Query())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	rep, err := h.reports.Generate(r.Context(), from, to)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

func (h *ReportHandlers) Daily(w http.ResponseWriter, r *http.Request) {
	date, err := parseTime("date", r.URL.Query().Get("date"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	rep, err := h.reports.Daily(r.Context(), date)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

func (h *ReportHandlers) Monthly(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := parseInt("year", q.Get("year"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	month, err := parseInt("month", q.Get("month"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	rep, err := h.reports.Monthly(r.Context(), year, month)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

func (h *ReportHandlers) TopProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to, err := parseRange(q)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	topN := report.DefaultTopN
	if raw := q.Get("topN"); raw != "" {
		if topN, err = parseInt("topN", raw); err != nil {
			respondError(w, r, h.log, err)
			return
		}
	}
	top, err := h.reports.TopProducts(r.Context(), from, to, topN)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, top)
}

func parseRange(q url.Values) (time.Time, time.Time, error) {
	from, err := parseTime("from", q.Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseTime("to", q.Get("to"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

// parseTime accepts YYYY-MM-DD or RFC 3339. Bare dates are UTC midnight.
func parseTime(name, raw string) (time.Time, error) {
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domainerr.Newf(domainerr.ErrValidation, "invalid %s %q", name, raw)
}

func parseInt(name, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domainerr.Newf(domainerr.ErrValidation, "invalid %s %q", name, raw)
	}
	return v, nil
}
