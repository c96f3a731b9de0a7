package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rulerankit14/buy-instagram-followers/internal/api"
	"github.com/rulerankit14/buy-instagram-followers/internal/config"
	"github.com/rulerankit14/buy-instagram-followers/internal/instagram"
	"github.com/rulerankit14/buy-instagram-followers/internal/order"
	"github.com/rulerankit14/buy-instagram-followers/internal/payments/cashfree"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("validate config", zap.Error(err))
	}

	ctx := context.Background()

	store, cleanup, err := newStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("init store", zap.Error(err))
	}
	defer cleanup()

	resolverOpts := []instagram.Option{instagram.WithFetchTimeout(cfg.FetchTimeout)}
	if cfg.ProfileBaseURL != "" || cfg.ProxyBaseURL != "" {
		resolverOpts = append(resolverOpts, instagram.WithEndpoints(cfg.ProfileBaseURL, cfg.ProxyBaseURL))
	}
	resolver := instagram.NewResolver(logger.Named("resolver"), resolverOpts...)

	if cfg.CashfreeAppID == "" {
		logger.Warn("cashfree credentials not configured; order creation will fail")
	}
	gateway := cashfree.NewClient(cfg.CashfreeAppID, cfg.CashfreeSecretKey)

	srv := api.New(resolver, store, gateway, logger.Named("api"), api.WithReturnURL(cfg.ReturnURL))

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return context.Background()
		},
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server started", zap.String("addr", cfg.ListenAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-shutdownCtx.Done()

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}

func newStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (order.Store, func(), error) {
	if cfg.RedisURL == "" {
		logger.Info("using in-memory order store")
		return order.NewMemoryStore(), func() {}, nil
	}

	store, err := order.NewRedisStoreFromURL(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("connected to redis")
	return store, func() { _ = store.Close() }, nil
}
