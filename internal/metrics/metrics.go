package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns the service collectors. A nil *Registry is valid and records nothing.
type Registry struct {
	reg             *prometheus.Registry
	OrdersCreated   prometheus.Counter
	OrdersRejected  *prometheus.CounterVec
	StatusChanges   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "webstore_orders_created_total",
		Help: "Orders persisted.",
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webstore_orders_rejected_total",
		Help: "Order placements rejected, by reason.",
	}, []string{"reason"})
	statusChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webstore_order_status_changes_total",
		Help: "Order status updates, by new status.",
	}, []string{"status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "webstore_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "code"})

	r.MustRegister(
		created, rejected, statusChanges, duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Registry{
		reg:             r,
		OrdersCreated:   created,
		OrdersRejected:  rejected,
		StatusChanges:   statusChanges,
		RequestDuration: duration,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

func (r *Registry) OrderCreated() {
	if r == nil {
		return
	}
	r.OrdersCreated.Inc()
}

func (r *Registry) OrderRejected(reason string) {
	if r == nil {
		return
	}
	r.OrdersRejected.WithLabelValues(reason).Inc()
}

func (r *Registry) StatusChanged(status string) {
	if r == nil {
		return
	}
	r.StatusChanges.WithLabelValues(status).Inc()
}

func (r *Registry) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.RequestDuration.WithLabelValues(method, route, strconv.Itoa(code)).Observe(elapsed.Seconds())
}
