package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// LockAndGetCurrency takes a row lock on accounts.id within the caller's
// transaction and returns its currency in the same round trip: it both
// serializes concurrent transfers touching this account and resolves
// currency for the mismatch check. Callers must lock the two accounts in a
// consistent order (lexicographic by id) to avoid a two-account deadlock;
// ledgersvc does this before calling.
//
// NOWAIT surfaces contention as an immediate error instead of queuing behind
// the holder: the gateway's Redis lock already serializes transfers issued
// through /transfer, so a row lock held here is either a transfer submitted
// directly over the RPC (bypassing the gateway's lock) or one running past
// its lock TTL. Either way, queuing would only hold the transaction open
// longer; callers classify IsLockNotAvailable and surface it as a retryable
// failure instead.
func LockAndGetCurrency(ctx context.Context, tx pgx.Tx, accountID string) (string, error) {
	var currency string
	err := tx.QueryRow(ctx, `SELECT currency FROM accounts WHERE id = $1 FOR UPDATE NOWAIT`, accountID).Scan(&currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrAccountNotFound
	}
	return currency, err
}

// Balance computes an account's current balance as start_balance plus the
// signed sum of its ledger_entries: balance is never stored, only derived.
func Balance(ctx context.Context, q Querier, accountID string) (int64, error) {
	var balance int64
	err := q.QueryRow(ctx, `
		SELECT a.start_balance + COALESCE(SUM(
			CASE WHEN le.direction = 'CREDIT' THEN le.amount
			     WHEN le.direction = 'DEBIT' THEN -le.amount
			     ELSE 0 END
		), 0)
		FROM accounts a
		LEFT JOIN ledger_entries le ON le.account_id = a.id
		WHERE a.id = $1
		GROUP BY a.start_balance`, accountID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrAccountNotFound
	}
	return balance, err
}

// RecordTransfer inserts the DEBIT leg against fromID and the CREDIT leg
// against toID that together make up one transfer, both tagged with txID so
// GetAllEntries can rejoin them.
func RecordTransfer(ctx context.Context, tx pgx.Tx, txID, fromID, toID string, amount int64, currency string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO ledger_entries (tx_id, account_id, direction, amount, currency)
		VALUES ($1, $2, 'DEBIT', $3, $4), ($1, $5, 'CREDIT', $3, $4)`,
		txID, fromID, amount, currency, toID)
	return err
}

type Entry struct {
	TxID        string
	FromAccount string
	ToAccount   string
	Amount      int64
	Currency    string
	CreatedAt   time.Time
}

// GetAllEntries rejoins each transfer's DEBIT and CREDIT rows by tx_id into
// one record via a self-join.
func GetAllEntries(ctx context.Context, q Querier) ([]Entry, error) {
	rows, err := q.Query(ctx, `
		SELECT d.tx_id, d.account_id, c.account_id, d.amount, d.currency, d.created_at
		FROM ledger_entries d
		JOIN ledger_entries c ON c.tx_id = d.tx_id AND c.direction = 'CREDIT'
		WHERE d.direction = 'DEBIT'
		ORDER BY d.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.TxID, &e.FromAccount, &e.ToAccount, &e.Amount, &e.Currency, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
