package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"water-route-service/internal/adapters/distance"
	"water-route-service/internal/adapters/lock"
	routeobs "water-route-service/internal/adapters/observability"
	"water-route-service/internal/adapters/repositories"
	"water-route-service/internal/adapters/repositories/memory"
	"water-route-service/internal/adapters/repositories/postgres"
	"water-route-service/internal/api"
	"water-route-service/internal/config"
	"water-route-service/internal/platform/db"
	"water-route-service/internal/platform/observability"
	"water-route-service/internal/ports"
	"water-route-service/internal/services"
)

const serviceName = "water-route-service"

// main is the application composition root.
// It wires concrete adapters (Postgres or memory, Redis or in-process locks) behind ports and starts the HTTP server.
func main() {
	hadDotEnv := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	instruments, shutdown, err := observability.Init(ctx, observability.Options{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Debug:       !cfg.Production(),
	})
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger
	if !hadDotEnv {
		logger.Info("no .env file found (using environment variables)")
	}

	orders, routes, closeRepo, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to configure repositories", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRepo()

	locker, closeLocker, err := buildLocker(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to configure locker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeLocker()

	core, err := services.NewRouteService(orders, routes, locker, distance.Haversine{}, cfg.Routing,
		services.WithLogger(logger))
	if err != nil {
		logger.Error("failed to build route service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	svc := routeobs.New(core,
		routeobs.WithLogger(logger),
		routeobs.WithTracer(instruments.Tracer("internal.services.route")),
		routeobs.WithMeter(instruments.Meter("internal.services.route")),
	)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(svc, api.RouterConfig{
		ServiceName: serviceName,
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
		Registry:    instruments.Registry,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server exited", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
}

// buildRepositories uses Postgres when DATABASE_URL is set and an in-memory
// store seeded from SEED_PATH otherwise.
func buildRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.OrderRepository, ports.RouteRepository, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
		store := memory.NewStore()
		if err := repositories.SeedFromJSON(ctx, store, cfg.SeedPath); err != nil {
			logger.Warn("seeding in-memory store failed", slog.String("path", cfg.SeedPath), slog.String("error", err.Error()))
		}
		return store, store, func() {}, nil
	}

	sqlDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	gdb, err := db.OpenGorm(sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, nil, err
	}

	logger.Info("repositories configured with postgres")
	repo := postgres.NewRepository(gdb)
	return repo, repo, func() { _ = sqlDB.Close() }, nil
}

// buildLocker shares locks through Redis when REDIS_ADDR is set.
func buildLocker(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.Locker, func(), error) {
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set, using in-process route locks")
		return lock.NewKeyedMutex(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	locker, err := lock.NewRedisLocker(client, cfg.LockTTL, lock.WithLockLogger(logger))
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	logger.Info("route locks shared through redis", slog.String("addr", cfg.RedisAddr))
	return locker, func() { _ = client.Close() }, nil
}
