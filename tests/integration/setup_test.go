package integration

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/rs/zerolog"

	adaptershttp "github.com/khatahq/khata/internal/adapter/http"
	"github.com/khatahq/khata/internal/adapter/http/handler"
	"github.com/khatahq/khata/internal/adapter/repository/postgres"
	redisrepo "github.com/khatahq/khata/internal/adapter/repository/redis"
	infraredis "github.com/khatahq/khata/internal/infrastructure/redis"
	"github.com/khatahq/khata/internal/usecase"
	"github.com/khatahq/khata/tests/testutil"
)

// setupRouter wires the full HTTP stack against the test database and a
// real Redis instance. Metrics stay nil so repeated setups do not fight
// over the default Prometheus registry.
func setupRouter(t *testing.T, testDB *testutil.TestDB) http.Handler {
	t.Helper()

	ctx := context.Background()

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { _ = redisClient.Close() })

	pool := testDB.Pool
	txManager := postgres.NewTxManager(pool)
	clientRepo := postgres.NewClientRepository(pool)
	workRepo := postgres.NewWorkRepository(pool)
	historyRepo := postgres.NewHistoryRepository(pool)
	statsCache := redisrepo.NewCache(redisClient)
	idempotencyStore := redisrepo.NewIdempotencyStore(redisClient)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier(zerolog.Nop())

	clientUC := usecase.NewClientUseCase(clientRepo, idGen)
	ledgerUC := usecase.NewLedgerUseCase(txManager, clientRepo, workRepo, historyRepo, idGen, nil)
	workUC := usecase.NewWorkUseCase(txManager, clientRepo, workRepo, ledgerUC, idGen, retrier, statsCache, nil)
	historyUC := usecase.NewHistoryUseCase(clientRepo, workRepo, historyRepo)
	analyticsUC := usecase.NewAnalyticsUseCase(workRepo)

	return adaptershttp.NewRouter(adaptershttp.RouterConfig{
		ClientHandler:    handler.NewClientHandler(clientUC),
		WorkHandler:      handler.NewWorkHandler(workUC),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC),
		HistoryHandler:   handler.NewHistoryHandler(historyUC),
		AnalyticsHandler: handler.NewAnalyticsHandler(analyticsUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore: idempotencyStore,
		Logger:           zerolog.Nop(),
	})
}
