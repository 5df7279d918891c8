package store

import (
	"context"
	"time"
)

type Notification struct {
	AccountID string
	TxID      string
	Direction string
	Amount    int64
	Currency  string
	Message   string
	CreatedAt time.Time
}

// InsertNotification persists a record of a notification leg the gateway's
// fan-out sent (or attempted), independent of whether the downstream RPC to
// the notifications service succeeded, so /notifications reflects what was
// attempted rather than only what was acknowledged.
func InsertNotification(ctx context.Context, q Querier, n Notification) error {
	_, err := q.Exec(ctx, `
		INSERT INTO notifications (account_id, tx_id, direction, amount, currency, message)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		n.AccountID, n.TxID, n.Direction, n.Amount, n.Currency, n.Message)
	return err
}

func ListNotifications(ctx context.Context, q Querier) ([]Notification, error) {
	rows, err := q.Query(ctx, `
		SELECT account_id, tx_id, direction, amount, currency, message, created_at
		FROM notifications ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.AccountID, &n.TxID, &n.Direction, &n.Amount, &n.Currency, &n.Message, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
