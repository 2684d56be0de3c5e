package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/tene-backend/config"
	"github.com/ikkim/tene-backend/internal/app/controller"
	"github.com/ikkim/tene-backend/internal/app/repository"
	"github.com/ikkim/tene-backend/internal/app/service"
	"github.com/ikkim/tene-backend/internal/cart"
	"github.com/ikkim/tene-backend/internal/db"
	"github.com/ikkim/tene-backend/internal/router"
	"github.com/ikkim/tene-backend/internal/scheduler"
	"github.com/ikkim/tene-backend/internal/storage"
	"github.com/ikkim/tene-backend/internal/websocket"
	"github.com/ikkim/tene-backend/pkg/logger"
	"github.com/ikkim/tene-backend/pkg/orderapi"
	"github.com/ikkim/tene-backend/pkg/redis"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := cfg.Server.LogLevel
	if logLevel == "" {
		logLevel = "info"
		if cfg.Server.Environment == "development" {
			logLevel = "debug"
		}
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Server.LogFormat,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting tene cart server", map[string]interface{}{
		"environment":  cfg.Server.Environment,
		"port":         cfg.Server.Port,
		"log_level":    logLevel,
		"cart_storage": cfg.Cart.Storage,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database (product catalog, postgres cart snapshots)
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is optional unless it backs the carts
	if cfg.Redis.Enabled {
		if err := redis.Init(ctx, &cfg.Redis); err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		defer redis.Close()
	}

	cartStorage, purger, err := newCartStorage(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize cart storage", err)
	}

	registry := cart.NewRegistry(func(sessionID string) cart.Persistence {
		return cart.NewStoragePersistence(cartStorage, cart.SessionKey(cfg.Cart.StorageKey, sessionID))
	})
	hub := websocket.NewHub()

	orderClient, err := orderapi.NewClient(orderapi.Config{
		BaseURL: cfg.OrderAPI.BaseURL,
		Timeout: cfg.OrderAPI.Timeout,
	})
	if err != nil {
		logger.Fatal("Failed to initialize order API client", err)
	}

	// Initialize services
	productService := service.NewProductService(repository.NewProductRepository(db.GetDB()))
	cartService := service.NewCartService(registry, productService, cfg.Cart.DeliveryPrice, hub)
	checkoutService := service.NewCheckoutService(registry, orderClient)

	// Setup router
	r := router.NewRouter(
		controller.NewProductController(productService),
		controller.NewCartController(cartService),
		controller.NewCheckoutController(checkoutService),
		controller.NewCartStreamController(hub, cartService, cfg.CORS.AllowedOrigins),
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	evictionScheduler := scheduler.NewCartEvictionScheduler(
		cfg.Cart.EvictionSpec,
		registry,
		cfg.Cart.IdleTTL,
		purger,
		cfg.Cart.Retention,
	)
	if err := evictionScheduler.Start(); err != nil {
		logger.Fatal("Failed to start cart eviction scheduler", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		evictionScheduler.Stop()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", err)
		return
	}
	logger.Info("Server stopped successfully")
}

// newCartStorage picks the cart backend. The purger is non-nil only for
// backends that need the app to expire old carts.
func newCartStorage(cfg *config.Config) (cart.KeyValueStorage, scheduler.SnapshotPurger, error) {
	switch cfg.Cart.Storage {
	case config.StorageFile:
		fs, err := storage.NewFileStorage(cfg.Cart.FileDir)
		if err != nil {
			return nil, nil, err
		}
		return fs, nil, nil

	case config.StorageRedis:
		// keys expire through the redis TTL
		return redis.NewCartStorage(redis.GetClient(), cfg.Cart.Retention), nil, nil

	case config.StoragePostgres:
		snapshots := repository.NewCartSnapshotRepository(db.GetDB())
		return snapshots, snapshots, nil

	case config.StorageS3:
		return storage.NewS3CartStorage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.CartPrefix,
		), nil, nil

	default:
		logger.Warn("Carts are kept in memory and lost on restart", nil)
		return cart.NewMemoryStorage(), nil, nil
	}
}
