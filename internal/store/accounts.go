package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

type Account struct {
	ID           string
	Name         string
	Currency     string
	StartBalance int64
	CreatedAt    time.Time
}

// AccountCurrency returns the account's settlement currency, or
// ErrAccountNotFound if no such account is seeded.
func AccountCurrency(ctx context.Context, q Querier, accountID string) (string, error) {
	var currency string
	err := q.QueryRow(ctx, `SELECT currency FROM accounts WHERE id = $1`, accountID).Scan(&currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrAccountNotFound
	}
	return currency, err
}

// AccountExists is a lighter-weight existence check used by the gateway
// before it acquires locks, so a bad account id fails before any lock or RPC
// round trip.
func AccountExists(ctx context.Context, q Querier, accountID string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, accountID).Scan(&exists)
	return exists, err
}

func GetAccount(ctx context.Context, q Querier, accountID string) (*Account, error) {
	var a Account
	err := q.QueryRow(ctx, `SELECT id, name, currency, start_balance, created_at FROM accounts WHERE id = $1`, accountID).
		Scan(&a.ID, &a.Name, &a.Currency, &a.StartBalance, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func ListAccounts(ctx context.Context, q Querier) ([]Account, error) {
	rows, err := q.Query(ctx, `SELECT id, name, currency, start_balance, created_at FROM accounts ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Currency, &a.StartBalance, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
