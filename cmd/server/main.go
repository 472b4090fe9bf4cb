package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-web/internal/config"
	"storefront-web/internal/db"
	"storefront-web/internal/logger"
	"storefront-web/internal/metrics"
	"storefront-web/internal/middleware"
	"storefront-web/internal/storage"
	"storefront-web/internal/web"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

type closer func() error

var (
	initStoreFunc   = initStore
	initMetricsFunc = initMetrics
	startServerFunc = startServer
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appMetrics, stopMetrics, err := initMetricsFunc(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := stopMetrics(); err != nil {
			logger.L().Warn("error shutting down meter provider", zap.Error(err))
		}
	}()

	local, closeStore, err := initStoreFunc(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	if mem, ok := local.(*storage.MemoryStore); ok {
		go mem.Run(ctx, cfg.MemoryIdleTTL)
	}
	session := storage.NewMemoryStore()
	go session.Run(ctx, cfg.SessionIdleTTL)

	limiter := middleware.NewRateLimiter(cfg.InternalSecretKey, cfg.TrustProxy)
	go limiter.Run(ctx)

	handler, err := newServer(cfg, local, session, appMetrics, limiter)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L().Info("🚀 storefront running",
		zap.String("addr", "http://localhost:"+cfg.AppPort),
		zap.String("api", cfg.APIURL),
		zap.String("store", cfg.StoreDriver),
	)
	return startServerFunc(ctx, server)
}

// initMetrics returns nil metrics when no OTLP endpoint is configured; every
// recorder accepts a nil receiver.
func initMetrics(ctx context.Context, cfg *config.Config) (*metrics.AppMetrics, closer, error) {
	if !cfg.MetricsEnabled() {
		return nil, func() error { return nil }, nil
	}

	m, provider, err := metrics.InitMetrics(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return m, func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return provider.Shutdown(shutdownCtx)
	}, nil
}

// initStore opens the store that keeps visitor state across sessions.
func initStore(cfg *config.Config) (storage.Store, closer, error) {
	if cfg.StoreDriver == "memory" {
		return storage.NewMemoryStore(), func() error { return nil }, nil
	}

	database, err := db.NewDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.NewSQLStore(database, cfg.StoreDriver)
	if err != nil {
		_ = database.Close()
		return nil, nil, err
	}
	return store, database.Close, nil
}

func newServer(cfg *config.Config, local, session storage.Store, m *metrics.AppMetrics, limiter *middleware.RateLimiter) (http.Handler, error) {
	h, err := web.NewHandler(web.Deps{
		Config:  cfg,
		Local:   local,
		Session: session,
		Metrics: m,
	})
	if err != nil {
		return nil, err
	}
	return setupRouter(cfg, h, m, limiter), nil
}

func setupRouter(cfg *config.Config, h *web.Handler, m *metrics.AppMetrics, limiter *middleware.RateLimiter) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware(m))
	h.Register(r)

	// Outermost last.
	var handler http.Handler = r
	handler = middleware.LoggingMiddleware(handler)
	handler = limiter.Middleware(handler)
	handler = middleware.VisitorMiddleware(cfg.VisitorCookie, cfg.AppEnv == "production")(handler)
	handler = middleware.Recover(handler)
	handler = logger.RequestIDMiddleware(handler)
	return handler
}

// startServer serves until ctx is done, then drains in-flight requests.
func startServer(ctx context.Context, server *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.L().Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.L().Info("Server exited")
	return nil
}
