package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

type IdempotencyRecord struct {
	Key          string
	RequestHash  string
	Status       string
	TxID         *string
	ResponseBody []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GetIdempotencyRecord looks up key and returns (nil, nil) if it has never
// been seen, distinguishing "no record" from a real error so callers can
// treat a miss as the ordinary admission path.
func GetIdempotencyRecord(ctx context.Context, q Querier, key string) (*IdempotencyRecord, error) {
	var r IdempotencyRecord
	err := q.QueryRow(ctx, `SELECT key, request_hash, status, tx_id, response_body FROM idempotency_keys WHERE key = $1`, key).
		Scan(&r.Key, &r.RequestHash, &r.Status, &r.TxID, &r.ResponseBody)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// InsertInProgress admits key into the idempotency table as IN_PROGRESS.
// The primary key constraint is the coordinator: a concurrent or replayed
// request racing this insert gets ErrIdempotencyConflict instead of a
// duplicate IN_PROGRESS row.
func InsertInProgress(ctx context.Context, q Querier, key, requestHash string) error {
	_, err := q.Exec(ctx, `INSERT INTO idempotency_keys (key, request_hash, status) VALUES ($1, $2, 'IN_PROGRESS')`, key, requestHash)
	if IsUniqueViolation(err) {
		return ErrIdempotencyConflict
	}
	return err
}

// FinalizeIdempotency moves key from IN_PROGRESS to a terminal status,
// recording the tx_id (if any) and the JSON response body to replay on
// future requests carrying the same key.
func FinalizeIdempotency(ctx context.Context, q Querier, key, status string, txID *string, responseBody []byte) error {
	_, err := q.Exec(ctx, `
		UPDATE idempotency_keys
		SET status = $2, tx_id = $3, response_body = $4, updated_at = now()
		WHERE key = $1`, key, status, txID, responseBody)
	return err
}

// ListIdempotencyRecords returns every admitted key, most recently updated
// first, for the gateway's read-only /idempotency_keys listing.
func ListIdempotencyRecords(ctx context.Context, q Querier) ([]IdempotencyRecord, error) {
	rows, err := q.Query(ctx, `
		SELECT key, request_hash, status, tx_id, response_body, created_at, updated_at
		FROM idempotency_keys ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []IdempotencyRecord
	for rows.Next() {
		var r IdempotencyRecord
		if err := rows.Scan(&r.Key, &r.RequestHash, &r.Status, &r.TxID, &r.ResponseBody, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
