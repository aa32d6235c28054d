package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khatahq/khata/internal/domain"
	"github.com/khatahq/khata/internal/usecase"
)

const pgErrUniqueViolation = "23505"

const clientColumns = `id, name, phone, email, pan, aadhar, work_types, balance, created_at, updated_at`

// ClientRepository implements usecase.ClientRepository.
type ClientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

// Create creates a new client.
func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		client.ID,
		client.Name,
		nullIfEmpty(client.Phone),
		nullIfEmpty(client.Email),
		nullIfEmpty(client.PAN),
		nullIfEmpty(client.Aadhar),
		emptyIfNil(client.WorkTypes),
		client.Balance,
		timeToPgTimestamptz(client.CreatedAt),
		timeToPgTimestamptz(client.UpdatedAt),
	)

	return mapClientConstraintErr(err)
}

// GetByID retrieves a client by ID.
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	return scanClient(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a client by ID with a FOR UPDATE lock.
func (r *ClientRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Client, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1 FOR UPDATE`

	return scanClient(pgxTx.QueryRow(ctx, query, id))
}

// GetByIDsForUpdate retrieves multiple clients with FOR UPDATE locks.
// Rows come back in ID order, matching the order callers lock in.
func (r *ClientRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Client, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = ANY($1) ORDER BY id FOR UPDATE`

	rows, err := pgxTx.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectClients(rows)
}

// UpdateBalance updates the running balance of a client.
func (r *ClientRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance int64, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `UPDATE clients SET balance = $2, updated_at = $3 WHERE id = $1`

	tag, err := pgxTx.Exec(ctx, query, id, balance, timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrClientNotFound
	}

	return nil
}

// Update updates a client's directory fields. The balance column is
// deliberately not touched here.
func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	query := `
		UPDATE clients
		SET name = $2, phone = $3, email = $4, pan = $5, aadhar = $6,
		    work_types = $7, updated_at = $8
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		client.ID,
		client.Name,
		nullIfEmpty(client.Phone),
		nullIfEmpty(client.Email),
		nullIfEmpty(client.PAN),
		nullIfEmpty(client.Aadhar),
		emptyIfNil(client.WorkTypes),
		timeToPgTimestamptz(client.UpdatedAt),
	)
	if err != nil {
		return mapClientConstraintErr(err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrClientNotFound
	}

	return nil
}

// List lists clients with pagination, newest first.
func (r *ClientRepository) List(ctx context.Context, limit, offset int) ([]*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectClients(rows)
}

// ListIDs returns the IDs of all clients.
func (r *ClientRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM clients ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var (
		c                        domain.Client
		phone, email, pan, aadhar pgtype.Text
		createdAt, updatedAt      pgtype.Timestamptz
	)

	err := row.Scan(&c.ID, &c.Name, &phone, &email, &pan, &aadhar,
		&c.WorkTypes, &c.Balance, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}

		return nil, err
	}

	c.Phone = phone.String
	c.Email = email.String
	c.PAN = pan.String
	c.Aadhar = aadhar.String
	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time

	return &c, nil
}

func collectClients(rows pgx.Rows) ([]*domain.Client, error) {
	var clients []*domain.Client

	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}

		clients = append(clients, client)
	}

	return clients, rows.Err()
}

// mapClientConstraintErr translates unique-index violations into the
// domain's duplicate errors.
func mapClientConstraintErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgErrUniqueViolation {
		return err
	}

	switch pgErr.ConstraintName {
	case "clients_phone_uniq":
		return domain.ErrDuplicatePhone
	case "clients_pan_uniq":
		return domain.ErrDuplicatePAN
	case "clients_aadhar_uniq":
		return domain.ErrDuplicateAadhar
	}

	return err
}

// Type conversion helpers.

// emptyIfNil keeps a nil slice out of the NOT NULL work_types column;
// pgx encodes nil slices as SQL NULL.
func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}

	return s
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
