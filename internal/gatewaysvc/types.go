package gatewaysvc

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// TransferRequest is the gateway's public POST /transfer body.
type TransferRequest struct {
	FromAccount    string `json:"from_account"`
	ToAccount      string `json:"to_account"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	IdempotencyKey string `json:"idempotency_key"`
}

// TransferResponse is the gateway's public transfer result JSON, also what
// gets persisted verbatim into idempotency_keys.response_body for
// byte-identical replay.
type TransferResponse struct {
	TxID             string `json:"tx_id"`
	FromAccount      string `json:"from_account"`
	ToAccount        string `json:"to_account"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	FromBalanceAfter int64  `json:"from_balance_after"`
	ToBalanceAfter   int64  `json:"to_balance_after"`
	Status           string `json:"status"`
	Message          string `json:"message,omitempty"`
}

type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
	Currency  string `json:"currency"`
}

var (
	ErrInvalidRequest      = errors.New("gatewaysvc: invalid request")
	ErrAccountNotFound     = errors.New("gatewaysvc: account not found")
	ErrLockConflict        = errors.New("gatewaysvc: could not acquire account locks")
	ErrIdempotencyMismatch = errors.New("gatewaysvc: idempotency key reused with a different request")
)

const (
	minIdempotencyKeyLen = 1
	maxIdempotencyKeyLen = 128
	defaultCurrency      = "INR"
)

// validate applies the boundary checks that must reject before any external
// I/O besides the idempotency lookup itself.
func (r *TransferRequest) validate() error {
	if r.Currency == "" {
		r.Currency = defaultCurrency
	}
	if _, err := uuid.Parse(r.FromAccount); err != nil {
		return fmt.Errorf("%w: from_account is not a UUID", ErrInvalidRequest)
	}
	if _, err := uuid.Parse(r.ToAccount); err != nil {
		return fmt.Errorf("%w: to_account is not a UUID", ErrInvalidRequest)
	}
	if r.FromAccount == r.ToAccount {
		return fmt.Errorf("%w: from_account and to_account must differ", ErrInvalidRequest)
	}
	if r.Amount <= 0 {
		return fmt.Errorf("%w: amount must be >= 1", ErrInvalidRequest)
	}
	if len(r.IdempotencyKey) < minIdempotencyKeyLen || len(r.IdempotencyKey) > maxIdempotencyKeyLen {
		return fmt.Errorf("%w: idempotency_key must be 1..128 chars", ErrInvalidRequest)
	}
	return nil
}

// requestHash fingerprints the request body stored alongside an idempotency
// record. Transfer rejects a key reused with a different fingerprint rather
// than silently replaying or overwriting the earlier request's outcome.
func requestHash(r *TransferRequest) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d|%s", r.FromAccount, r.ToAccount, r.Amount, r.Currency)))
	return hex.EncodeToString(sum[:])
}
