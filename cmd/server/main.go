package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yinchen618/pu-in-practice/internal/config"
	"github.com/yinchen618/pu-in-practice/internal/experiment"
	"github.com/yinchen618/pu-in-practice/internal/handlers"
	"github.com/yinchen618/pu-in-practice/internal/jobs"
	"github.com/yinchen618/pu-in-practice/internal/metrics"
	"github.com/yinchen618/pu-in-practice/internal/registry"
	"github.com/yinchen618/pu-in-practice/internal/requests"
	"github.com/yinchen618/pu-in-practice/internal/routers"
	"github.com/yinchen618/pu-in-practice/internal/utils"
)

func registerRoutes(router *chi.Mux, modelHandler *handlers.ModelHandler, configHandler *handlers.ConfigHandler, healthHandler *handlers.HealthHandler) {
	routers.HealthRoutes(router, healthHandler)
	routers.CaseStudyRoutes(router, modelHandler, configHandler)
}

// cacheBackend bundles the response cache with its readiness probe and
// teardown. pinger is nil for the in-process cache.
type cacheBackend struct {
	cache  requests.Cache
	pinger handlers.Pinger
	close  func()
}

func newCacheBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*cacheBackend, error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cache := requests.NewRedisCache(rdb)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := cache.Ping(pingCtx); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Info("Redis response cache connected", zap.String("addr", cfg.Redis.Addr), zap.Int("db", cfg.Redis.DB))

		return &cacheBackend{
			cache:  cache,
			pinger: cache,
			close:  func() { _ = rdb.Close() },
		}, nil
	default:
		cache := requests.NewMemoryCache(time.Minute)
		return &cacheBackend{
			cache: cache,
			close: cache.Close,
		}, nil
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	utils.InitLogger(cfg.LogLevel)
	logger := utils.GetLogger()
	defer logger.Sync()

	logger.Info("Configuration loaded",
		zap.String("api_base", cfg.APIBase),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.Duration("cache_ttl", cfg.Cache.TTL))

	backend, err := newCacheBackend(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize response cache", zap.Error(err))
	}
	defer backend.close()

	manager := requests.NewManager(&http.Client{Timeout: cfg.HTTPTimeout}, backend.cache, cfg.Cache.TTL, logger)
	modelRegistry := registry.New(cfg.APIBase, manager, logger)
	resolver := experiment.NewResolver(cfg.APIBase, manager, logger)

	modelHandler := handlers.NewModelHandler(modelRegistry)
	configHandler := handlers.NewConfigHandler(resolver)
	healthHandler := handlers.NewHealthHandler(modelRegistry, resolver, backend.pinger, cfg)

	warmer := jobs.NewCacheWarmer(modelRegistry, resolver, cfg.Warmer, cfg.HTTPTimeout*3, logger)
	if err := warmer.Start(); err != nil {
		logger.Error("Failed to start cache warmer", zap.Error(err))
	}

	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware("case-study", routePattern))

	registerRoutes(router, modelHandler, configHandler, healthHandler)

	serverAddr := ":" + cfg.Port

	// http server with timeouts
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// starting server in a goroutine
	go func() {
		logger.Info("Case study gateway starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Case study gateway shutting down...")

	warmer.Stop()

	// graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("Case study gateway exited")
}
