package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khatahq/khata/internal/domain"
	"github.com/khatahq/khata/internal/usecase"
)

const workColumns = `id, client_id, work_date, total_price, paid_amount, work_types, description, payment_status, created_at, updated_at`

// WorkRepository implements usecase.WorkRepository.
type WorkRepository struct {
	pool *pgxpool.Pool
}

// NewWorkRepository creates a new WorkRepository.
func NewWorkRepository(pool *pgxpool.Pool) *WorkRepository {
	return &WorkRepository{pool: pool}
}

// Create inserts a work transaction inside the caller's transaction.
func (r *WorkRepository) Create(ctx context.Context, tx usecase.Transaction, work *domain.WorkTransaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO work_transactions (` + workColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := pgxTx.Exec(ctx, query,
		work.ID,
		work.ClientID,
		workDateToPgDate(work.Date),
		work.TotalPrice,
		work.PaidAmount,
		work.WorkTypes,
		work.Description,
		string(work.PaymentStatus),
		timeToPgTimestamptz(work.CreatedAt),
		timeToPgTimestamptz(work.UpdatedAt),
	)

	return err
}

// GetByID retrieves a work transaction by ID.
func (r *WorkRepository) GetByID(ctx context.Context, id string) (*domain.WorkTransaction, error) {
	query := `SELECT ` + workColumns + ` FROM work_transactions WHERE id = $1`

	return scanWork(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a work transaction with a FOR UPDATE lock.
func (r *WorkRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.WorkTransaction, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + workColumns + ` FROM work_transactions WHERE id = $1 FOR UPDATE`

	return scanWork(pgxTx.QueryRow(ctx, query, id))
}

// Update rewrites a work transaction inside the caller's transaction.
func (r *WorkRepository) Update(ctx context.Context, tx usecase.Transaction, work *domain.WorkTransaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE work_transactions
		SET client_id = $2, work_date = $3, total_price = $4, paid_amount = $5,
		    work_types = $6, description = $7, payment_status = $8, updated_at = $9
		WHERE id = $1
	`

	tag, err := pgxTx.Exec(ctx, query,
		work.ID,
		work.ClientID,
		workDateToPgDate(work.Date),
		work.TotalPrice,
		work.PaidAmount,
		work.WorkTypes,
		work.Description,
		string(work.PaymentStatus),
		timeToPgTimestamptz(work.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrWorkNotFound
	}

	return nil
}

// Delete removes a work transaction inside the caller's transaction.
func (r *WorkRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `DELETE FROM work_transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrWorkNotFound
	}

	return nil
}

// List queries work transactions with optional filters, newest work date
// first.
func (r *WorkRepository) List(ctx context.Context, filter domain.WorkFilter) ([]*domain.WorkTransaction, error) {
	var (
		conditions []string
		args       []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.ClientID != "" {
		conditions = append(conditions, "client_id = "+arg(filter.ClientID))
	}

	if len(filter.WorkTypes) > 0 {
		// Overlap: the work matches when it carries any requested type.
		conditions = append(conditions, "work_types && "+arg(filter.WorkTypes))
	}

	if filter.PaymentStatus != "" {
		conditions = append(conditions, "payment_status = "+arg(string(filter.PaymentStatus)))
	}

	if !filter.From.IsZero() {
		conditions = append(conditions, "work_date >= "+arg(workDateToPgDate(filter.From)))
	}

	if !filter.To.IsZero() {
		conditions = append(conditions, "work_date <= "+arg(workDateToPgDate(filter.To)))
	}

	query := `SELECT ` + workColumns + ` FROM work_transactions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY work_date DESC, created_at DESC"
	query += " LIMIT " + arg(filter.Limit)
	query += " OFFSET " + arg(filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var works []*domain.WorkTransaction
	for rows.Next() {
		work, err := scanWork(rows)
		if err != nil {
			return nil, err
		}

		works = append(works, work)
	}

	return works, rows.Err()
}

// SumRemainderByClient computes the client's balance from scratch as the
// sum of unpaid remainders.
func (r *WorkRepository) SumRemainderByClient(ctx context.Context, tx usecase.Transaction, clientID string) (int64, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		SELECT COALESCE(SUM(total_price - paid_amount), 0)
		FROM work_transactions
		WHERE client_id = $1
	`

	var sum int64
	if err := pgxTx.QueryRow(ctx, query, clientID).Scan(&sum); err != nil {
		return 0, err
	}

	return sum, nil
}

// Stats aggregates counts and sums over all work transactions.
func (r *WorkRepository) Stats(ctx context.Context) (*domain.WorkStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(paid_amount), 0),
			COALESCE(SUM(total_price - paid_amount), 0),
			COALESCE(SUM(total_price), 0),
			COUNT(*) FILTER (WHERE payment_status = 'paid'),
			COUNT(*) FILTER (WHERE payment_status = 'partial'),
			COUNT(*) FILTER (WHERE payment_status = 'unpaid')
		FROM work_transactions
	`

	var stats domain.WorkStats
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.Count,
		&stats.TotalIncome,
		&stats.TotalDue,
		&stats.TotalValue,
		&stats.PaidCount,
		&stats.PartialCount,
		&stats.UnpaidCount,
	)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// IncomeByMonth aggregates billing per calendar month of the work date,
// oldest first.
func (r *WorkRepository) IncomeByMonth(ctx context.Context, from time.Time) ([]*domain.MonthlyIncome, error) {
	query := `
		SELECT
			date_trunc('month', work_date)::date AS month,
			COALESCE(SUM(paid_amount), 0),
			COALESCE(SUM(total_price), 0),
			COUNT(*)
		FROM work_transactions
		WHERE work_date >= $1
		GROUP BY month
		ORDER BY month
	`

	rows, err := r.pool.Query(ctx, query, pgtype.Date{Time: from, Valid: true})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.MonthlyIncome
	for rows.Next() {
		var (
			m     domain.MonthlyIncome
			month pgtype.Date
		)

		if err := rows.Scan(&month, &m.Income, &m.Billed, &m.Count); err != nil {
			return nil, err
		}

		m.Month = month.Time
		result = append(result, &m)
	}

	return result, rows.Err()
}

// StatsByWorkType aggregates works per work type. A work carrying several
// types counts toward each of them.
func (r *WorkRepository) StatsByWorkType(ctx context.Context) ([]*domain.WorkTypeStats, error) {
	query := `
		SELECT
			work_type,
			COUNT(*),
			COALESCE(SUM(total_price), 0),
			COALESCE(SUM(paid_amount), 0)
		FROM work_transactions, unnest(work_types) AS work_type
		GROUP BY work_type
		ORDER BY SUM(paid_amount) DESC, work_type
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.WorkTypeStats
	for rows.Next() {
		var s domain.WorkTypeStats
		if err := rows.Scan(&s.WorkType, &s.Count, &s.Billed, &s.Collected); err != nil {
			return nil, err
		}

		result = append(result, &s)
	}

	return result, rows.Err()
}

func scanWork(row pgx.Row) (*domain.WorkTransaction, error) {
	var (
		w                    domain.WorkTransaction
		workDate             pgtype.Date
		status               string
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&w.ID, &w.ClientID, &workDate, &w.TotalPrice, &w.PaidAmount,
		&w.WorkTypes, &w.Description, &status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkNotFound
		}

		return nil, err
	}

	w.Date = domain.NewWorkDate(workDate.Time)
	w.PaymentStatus = domain.PaymentStatus(status)
	w.CreatedAt = createdAt.Time
	w.UpdatedAt = updatedAt.Time

	return &w, nil
}

func workDateToPgDate(d domain.WorkDate) pgtype.Date {
	return pgtype.Date{Time: d.Time(), Valid: true}
}
