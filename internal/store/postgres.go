// Package store is the Postgres data-access layer shared by the gateway and
// ledger processes. Both connect to the same database but write distinct
// tables: the gateway owns idempotency_keys and notifications, the ledger
// owns ledger_entries, and accounts is treated as externally provisioned
// (read-only from both) per the seeded demo accounts in cmd/seeder.
package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrAccountNotFound     = errors.New("store: account not found")
	ErrIdempotencyConflict = errors.New("store: idempotency key already in progress")
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, so query helpers
// below can run either directly against the pool or inside a caller-managed
// transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// NewPool opens a connection pool against dsn. Callers should call
// EnsureSchema once after NewPool to create any tables that don't already
// exist.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// EnsureSchema creates the tables this system needs if they are missing.
// Both cmd/gateway and cmd/ledger call it at startup; running it twice is
// harmless since every statement is IF NOT EXISTS.
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, stmt := range schemaStatements {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		currency TEXT NOT NULL,
		start_balance BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS ledger_entries (
		id BIGSERIAL PRIMARY KEY,
		tx_id UUID NOT NULL,
		account_id UUID NOT NULL REFERENCES accounts(id),
		direction TEXT NOT NULL CHECK (direction IN ('DEBIT', 'CREDIT')),
		amount BIGINT NOT NULL CHECK (amount > 0),
		currency TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS ledger_entries_account_id_idx ON ledger_entries(account_id)`,
	`CREATE INDEX IF NOT EXISTS ledger_entries_tx_id_idx ON ledger_entries(tx_id)`,
	`CREATE TABLE IF NOT EXISTS idempotency_keys (
		key TEXT PRIMARY KEY,
		request_hash TEXT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('IN_PROGRESS', 'SUCCESS', 'FAILED')),
		tx_id UUID,
		response_body JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id BIGSERIAL PRIMARY KEY,
		account_id UUID NOT NULL,
		tx_id UUID NOT NULL,
		direction TEXT NOT NULL CHECK (direction IN ('DEBIT', 'CREDIT')),
		amount BIGINT NOT NULL,
		currency TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation (code 23505), the signal the idempotency admission path uses to
// detect a concurrent or replayed insert.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsLockNotAvailable reports whether err is Postgres's lock_not_available
// (55P03), returned by SELECT ... FOR UPDATE NOWAIT under contention.
func IsLockNotAvailable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "55P03"
}
