package usecase

import (
	"context"
	"time"

	"github.com/khatahq/khata/internal/domain"
)

// ClientRepository defines data access for clients.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Client, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Client, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance int64, updatedAt time.Time) error
	Update(ctx context.Context, client *domain.Client) error
	List(ctx context.Context, limit, offset int) ([]*domain.Client, error)
	ListIDs(ctx context.Context) ([]string, error)
}

// WorkRepository defines data access for work transactions.
type WorkRepository interface {
	Create(ctx context.Context, tx Transaction, work *domain.WorkTransaction) error
	GetByID(ctx context.Context, id string) (*domain.WorkTransaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.WorkTransaction, error)
	Update(ctx context.Context, tx Transaction, work *domain.WorkTransaction) error
	Delete(ctx context.Context, tx Transaction, id string) error
	List(ctx context.Context, filter domain.WorkFilter) ([]*domain.WorkTransaction, error)
	SumRemainderByClient(ctx context.Context, tx Transaction, clientID string) (int64, error)
	Stats(ctx context.Context) (*domain.WorkStats, error)
	IncomeByMonth(ctx context.Context, from time.Time) ([]*domain.MonthlyIncome, error)
	StatsByWorkType(ctx context.Context) ([]*domain.WorkTypeStats, error)
}

// HistoryRepository defines data access for balance history entries.
// Entries are append-only; PruneOldest is the only deletion path.
type HistoryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.BalanceHistoryEntry) error
	ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.BalanceHistoryEntry, error)
	ListByClientAsc(ctx context.Context, clientID string, limit int) ([]*domain.BalanceHistoryEntry, error)
	ListByClientRange(ctx context.Context, clientID string, from, to time.Time) ([]*domain.BalanceHistoryEntry, error)
	CountByClient(ctx context.Context, clientID string) (int64, error)
	PruneOldest(ctx context.Context, clientID string, keep int) (int64, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
