package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/khatahq/khata/internal/adapter/http"
	"github.com/khatahq/khata/internal/adapter/http/handler"
	"github.com/khatahq/khata/internal/adapter/http/middleware"
	postgresRepo "github.com/khatahq/khata/internal/adapter/repository/postgres"
	redisRepo "github.com/khatahq/khata/internal/adapter/repository/redis"
	"github.com/khatahq/khata/internal/infrastructure/config"
	"github.com/khatahq/khata/internal/infrastructure/logger"
	"github.com/khatahq/khata/internal/infrastructure/metrics"
	"github.com/khatahq/khata/internal/infrastructure/postgres"
	"github.com/khatahq/khata/internal/infrastructure/redis"
	"github.com/khatahq/khata/internal/usecase"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()
	go samplePoolStats(ctx, pool, m)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	clientRepo := postgresRepo.NewClientRepository(pool)
	workRepo := postgresRepo.NewWorkRepository(pool)
	historyRepo := postgresRepo.NewHistoryRepository(pool)
	statsCache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(appLogger)

	// Initialize use cases
	clientUC := usecase.NewClientUseCase(clientRepo, idGen)
	ledgerUC := usecase.NewLedgerUseCase(txManager, clientRepo, workRepo, historyRepo, idGen, m)
	workUC := usecase.NewWorkUseCase(txManager, clientRepo, workRepo, ledgerUC, idGen, retrier, statsCache, m)
	historyUC := usecase.NewHistoryUseCase(clientRepo, workRepo, historyRepo)
	analyticsUC := usecase.NewAnalyticsUseCase(workRepo)

	// Initialize handlers
	clientHandler := handler.NewClientHandler(clientUC)
	workHandler := handler.NewWorkHandler(workUC)
	ledgerHandler := handler.NewLedgerHandler(ledgerUC)
	historyHandler := handler.NewHistoryHandler(historyUC)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ClientHandler:    clientHandler,
		WorkHandler:      workHandler,
		LedgerHandler:    ledgerHandler,
		HistoryHandler:   historyHandler,
		AnalyticsHandler: analyticsHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		RateLimiter:      rateLimiter,
		Logger:           appLogger,
		APIKey:           cfg.APIKey,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// samplePoolStats feeds connection pool gauges until ctx is cancelled.
func samplePoolStats(ctx context.Context, pool *pgxpool.Pool, m *metrics.Metrics) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.DBConnections.Set(float64(pool.Stat().TotalConns()))
		}
	}
}
