package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/webstore/internal/api"
	"github.com/example/webstore/internal/auth"
	"github.com/example/webstore/internal/config"
	"github.com/example/webstore/internal/domain/catalog"
	"github.com/example/webstore/internal/domain/client"
	"github.com/example/webstore/internal/domain/order"
	"github.com/example/webstore/internal/domain/product"
	"github.com/example/webstore/internal/domain/report"
	"github.com/example/webstore/internal/domain/user"
	"github.com/example/webstore/internal/infrastructure/kafka"
	"github.com/example/webstore/internal/infrastructure/store"
	"github.com/example/webstore/internal/logger"
	"github.com/example/webstore/internal/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load(os.Getenv("WEBSTORE_CONFIG"))
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("api stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	decimal.MarshalJSONWithoutQuotes = true

	db, err := store.ConnectPostgres(ctx, cfg.Database.URL, store.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("connected to postgres")

	if cfg.Database.Migrate {
		if err := store.Migrate(db); err != nil {
			return err
		}
		log.Info("migrations applied")
	}

	pg := store.NewPostgres(db)
	orders := store.NewPostgresOrderStore(pg)
	products := store.NewPostgresProductStore(pg)
	clients := store.NewPostgresClientStore(pg)
	users := store.NewPostgresUserStore(pg)
	lookups := store.NewPostgresLookupStore(pg)

	reg := metrics.NewRegistry()
	orderOpts := []order.Option{
		order.WithStockLocking(cfg.Orders.LockStock),
		order.WithMetrics(reg),
		order.WithLogger(log.Named("orders")),
	}
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		orderOpts = append(orderOpts, order.WithPublisher(producer))
		log.Info("publishing order events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	tokens := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.Expiry)
	userSvc := user.NewService(users, clients, pg, auth.NewPasswords(bcrypt.DefaultCost), tokens, log.Named("users"))

	if cfg.Admin.Password != "" {
		created, err := userSvc.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password)
		if err != nil {
			return err
		}
		if created {
			log.Info("admin account created", zap.String("username", cfg.Admin.Username))
		}
	}

	router := api.NewRouter(api.RouterConfig{
		Orders:         order.NewService(orders, products, clients, pg, orderOpts...),
		Products:       product.NewService(products, orders),
		Catalog:        catalog.NewService(lookups),
		Clients:        client.NewService(clients),
		Users:          userSvc,
		Reports:        report.NewService(orders),
		Tokens:         tokens,
		Metrics:        reg,
		Logger:         log,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
		SecureCookie:   cfg.Server.SecureCookie,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
