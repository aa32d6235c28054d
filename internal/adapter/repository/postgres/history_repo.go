package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khatahq/khata/internal/domain"
	"github.com/khatahq/khata/internal/usecase"
)

const historyColumns = `id, client_id, work_id, previous_balance, new_balance, balance_change, change_type, description, created_at`

// HistoryRepository implements usecase.HistoryRepository over the
// append-only balance_history table.
type HistoryRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{pool: pool}
}

// Create appends a history entry inside the caller's transaction.
func (r *HistoryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.BalanceHistoryEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	query := `
		INSERT INTO balance_history (` + historyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := pgxTx.Exec(ctx, query,
		entry.ID,
		entry.ClientID,
		nullIfEmpty(entry.WorkID),
		entry.PreviousBalance,
		entry.NewBalance,
		entry.BalanceChange,
		string(entry.ChangeType),
		entry.Description,
		timeToPgTimestamptz(entry.CreatedAt),
	)

	return err
}

// ListByClient returns a client's entries newest first.
func (r *HistoryRepository) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.BalanceHistoryEntry, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM balance_history
		WHERE client_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, clientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectHistory(rows)
}

// ListByClientAsc returns a client's entries oldest first, for timeline
// replays.
func (r *HistoryRepository) ListByClientAsc(ctx context.Context, clientID string, limit int) ([]*domain.BalanceHistoryEntry, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM balance_history
		WHERE client_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, clientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectHistory(rows)
}

// ListByClientRange returns a client's entries within an optional time
// window, oldest first. Zero bounds are open-ended.
func (r *HistoryRepository) ListByClientRange(ctx context.Context, clientID string, from, to time.Time) ([]*domain.BalanceHistoryEntry, error) {
	conditions := []string{"client_id = $1"}
	args := []any{clientID}

	if !from.IsZero() {
		args = append(args, timeToPgTimestamptz(from))
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}

	if !to.IsZero() {
		args = append(args, timeToPgTimestamptz(to))
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	query := `
		SELECT ` + historyColumns + `
		FROM balance_history
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectHistory(rows)
}

// CountByClient counts a client's history entries.
func (r *HistoryRepository) CountByClient(ctx context.Context, clientID string) (int64, error) {
	var count int64

	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM balance_history WHERE client_id = $1`, clientID,
	).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// PruneOldest deletes everything but a client's most recent keep entries
// and reports how many rows went away.
func (r *HistoryRepository) PruneOldest(ctx context.Context, clientID string, keep int) (int64, error) {
	query := `
		DELETE FROM balance_history
		WHERE client_id = $1
		  AND id NOT IN (
			SELECT id FROM balance_history
			WHERE client_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		  )
	`

	tag, err := r.pool.Exec(ctx, query, clientID, keep)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func collectHistory(rows pgx.Rows) ([]*domain.BalanceHistoryEntry, error) {
	var entries []*domain.BalanceHistoryEntry

	for rows.Next() {
		var (
			e         domain.BalanceHistoryEntry
			workID    pgtype.Text
			change    string
			createdAt pgtype.Timestamptz
		)

		err := rows.Scan(&e.ID, &e.ClientID, &workID, &e.PreviousBalance,
			&e.NewBalance, &e.BalanceChange, &change, &e.Description, &createdAt)
		if err != nil {
			return nil, err
		}

		e.WorkID = workID.String
		e.ChangeType = domain.ChangeType(change)
		e.CreatedAt = createdAt.Time

		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
