package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"assetverse/auth"
	"assetverse/cache"
	"assetverse/config"
	"assetverse/database"
	"assetverse/events"
	"assetverse/handlers"
	"assetverse/middleware"
	"assetverse/payment"
	"assetverse/repository"
	"assetverse/routes"
	"assetverse/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	// Database connection
	client, err := database.Connect(ctx, cfg.Mongo.URI, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Disconnect(client, logger)

	if err := database.EnsureIndexes(ctx, client.Database(cfg.Mongo.Database)); err != nil {
		logger.Fatal("Failed to create indexes", zap.Error(err))
	}

	store := repository.New(client, cfg.Mongo.Database, cfg.Mongo.Transactions, logger)

	catalog, err := database.LoadCatalog(cfg.PackagesFile)
	if err != nil {
		logger.Fatal("Failed to load package catalog", zap.Error(err))
	}
	if err := database.SeedPackages(ctx, store.Packages, catalog, logger); err != nil {
		logger.Warn("Package seeding failed", zap.Error(err))
	}

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to set up token verification", zap.Error(err))
	}

	gateway, err := payment.New(cfg.Payment.Provider, payment.Options{
		Currency:          cfg.Payment.Currency,
		ClientDomain:      cfg.Server.ClientDomain,
		StripeSecret:      cfg.Payment.StripeSecret,
		RazorpayKeyID:     cfg.Payment.RazorpayKeyID,
		RazorpayKeySecret: cfg.Payment.RazorpayKeySecret,
	})
	if err != nil {
		logger.Warn("Payments disabled", zap.String("provider", cfg.Payment.Provider), zap.Error(err))
	}

	// Realtime fan-out: browsers always, Kafka when brokers are configured
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	publishers := events.Fanout{hub}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := events.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		defer producer.Close()
		publishers = append(publishers, producer)
	}

	responseCache := newCache(ctx, cfg, logger)

	h := handlers.New(handlers.Deps{
		Users:          store.Users,
		Assets:         store.Assets,
		Requests:       store.Requests,
		Packages:       store.Packages,
		Payments:       store.Payments,
		Affiliations:   store.Affiliations,
		AssignedAssets: store.AssignedAssets,
		Tx:             store,
		Health:         store,
		Gateway:        gateway,
		Events:         publishers,
		Cache:          responseCache,
		Logger:         logger,
	})

	// Router setup
	router := mux.NewRouter()
	routes.RegisterRoutes(router, h, middleware.Gate(verifier, logger), hub.Serve(verifier))

	// HTTP server configuration
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      routes.Wrap(router, logger, cfg.Server.CorsAllowedOrigins),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("AssetVerse server listening",
			zap.String("port", cfg.Server.Port),
			zap.String("payment_provider", cfg.Payment.Provider),
			zap.Bool("transactions", cfg.Mongo.Transactions),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced shutdown", zap.Error(err))
	}
	logger.Info("Server stopped gracefully")
}

// newVerifier prefers the identity provider's service account and falls back
// to a shared HMAC secret for local setups.
func newVerifier(ctx context.Context, cfg *config.Config) (auth.Verifier, error) {
	if cfg.Auth.FirebaseServiceKey != "" {
		return auth.NewFirebaseVerifier(ctx, cfg.Auth.FirebaseServiceKey)
	}
	if cfg.Auth.JWTSecret != "" {
		return auth.NewJWTVerifier(cfg.Auth.JWTSecret)
	}
	return nil, errors.New("FB_SERVICE_KEY or JWT_SECRET must be set")
}

func newCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) cache.Cache {
	if cfg.Redis.Addr == "" {
		return cache.NewMemory()
	}
	c, err := cache.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Warn("Redis unavailable, responses will not be cached", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	return c
}
