package api

import (
	"net/http"
	"time"

	"github.com/example/webstore/internal/api/middleware"
	"github.com/example/webstore/internal/domain/catalog"
	"github.com/example/webstore/internal/domain/client"
	"github.com/example/webstore/internal/domain/order"
	"github.com/example/webstore/internal/domain/product"
	"github.com/example/webstore/internal/domain/report"
	"github.com/example/webstore/internal/domain/user"
	"github.com/example/webstore/internal/infrastructure/store"
	"github.com/example/webstore/internal/metrics"
	"github.com/example/webstore/internal/model"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterConfig carries the services and settings the HTTP surface needs.
// Metrics may be nil.
type RouterConfig struct {
	Orders   *order.Service
	Products *product.Service
	Catalog  *catalog.Service
	Clients  *client.Service
	Users    *user.Service
	Reports  *report.Service
	Tokens   middleware.TokenValidator

	Metrics        *metrics.Registry
	Logger         *zap.Logger
	AllowedOrigins []string
	RequestTimeout time.Duration
	SecureCookie   bool
}

var (
	staff   = []string{model.RoleAdmin, model.RoleAdvanced}
	anyRole = []string{model.RoleAdmin, model.RoleAdvanced, model.RoleSimple}
)

func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log, cfg.Metrics))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	authenticate := middleware.AuthMiddleware(cfg.Tokens)
	requireRole := func(roles []string) func(http.Handler) http.Handler {
		return middleware.RequireRole(roles...)
	}

	orders := NewOrderHandlers(cfg.Orders, log)
	products := NewProductHandlers(cfg.Products, log)
	clients := NewClientHandlers(cfg.Clients, log)
	users := NewUserHandlers(cfg.Users, log)
	authH := NewAuthHandlers(cfg.Users, cfg.SecureCookie, log)
	reports := NewReportHandlers(cfg.Reports, log)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authH.Register)
			r.Post("/login", authH.Login)
			r.Post("/logout", authH.Logout)
			r.With(authenticate).Get("/me", authH.Me)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", orders.Create)
			r.Group(func(r chi.Router) {
				r.Use(requireRole(staff))
				r.Get("/", orders.List)
				r.Get("/{id}", orders.Get)
				r.Put("/{id}/status", orders.UpdateStatus)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.List)
			r.Get("/search", products.Search)
			r.Get("/{id}", products.Get)
			r.Get("/{id}/quantity", products.Quantity)
			r.Group(func(r chi.Router) {
				r.Use(authenticate, requireRole(anyRole))
				r.Post("/", products.Create)
				r.Put("/{id}", products.Update)
				r.Delete("/{id}", products.Delete)
			})
			r.Group(func(r chi.Router) {
				r.Use(authenticate, requireRole([]string{model.RoleAdmin}))
				r.Put("/{id}/discount", products.ApplyDiscount)
				r.Delete("/{id}/discount", products.RemoveDiscount)
			})
		})

		for _, kind := range store.LookupKinds {
			h := NewLookupHandlers(cfg.Catalog, kind, log)
			r.Route("/"+string(kind), func(r chi.Router) {
				r.Get("/", h.List)
				r.Get("/{id}", h.Get)
				r.Group(func(r chi.Router) {
					r.Use(authenticate, requireRole(anyRole))
					r.Post("/", h.Create)
					r.Put("/{id}", h.Update)
					r.Delete("/{id}", h.Delete)
				})
			})
		}

		r.Route("/clients", func(r chi.Router) {
			r.Use(authenticate, requireRole(staff))
			r.Get("/", clients.List)
			r.Post("/", clients.Create)
			r.Get("/{id}", clients.Get)
			r.Put("/{id}", clients.Update)
			r.Delete("/{id}", clients.Delete)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authenticate, requireRole([]string{model.RoleAdmin}))
			r.Get("/", users.List)
			r.Post("/", users.Create)
			r.Get("/{id}", users.Get)
			r.Put("/{id}/role", users.UpdateRole)
			r.Delete("/{id}", users.Delete)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(authenticate, requireRole(staff))
			r.Get("/", reports.Range)
			r.Get("/daily", reports.Daily)
			r.Get("/monthly", reports.Monthly)
			r.Get("/top-products", reports.TopProducts)
		})
	})

	return r
}
