// Package ledgersvc implements LedgerService: the transactional double-entry
// book. Transfer validates currency and funds and atomically records one
// DEBIT/CREDIT pair per tx_id; GetBalance and GetAllEntries serve the
// derived read side.
package ledgersvc

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/easpayments/ledgercore/internal/rpcpb"
	"github.com/easpayments/ledgercore/internal/store"
)

type Server struct {
	rpcpb.UnimplementedLedgerServiceServer
	db  *pgxpool.Pool
	log *zap.SugaredLogger
}

func New(db *pgxpool.Pool, log *zap.SugaredLogger) *Server {
	return &Server{db: db, log: log}
}

// failed builds a FAILED response without touching the database; used for
// the amount<=0 early-out, which needs no transaction.
func failed(from, to, currency string, amount int64, message string) *rpcpb.TransferResponse {
	return &rpcpb.TransferResponse{
		FromAccount: from,
		ToAccount:   to,
		Amount:      amount,
		Currency:    currency,
		Status:      "FAILED",
		Message:     message,
	}
}

func (s *Server) Transfer(ctx context.Context, req *rpcpb.TransferRequest) (*rpcpb.TransferResponse, error) {
	if req.Amount <= 0 {
		return failed(req.FromAccount, req.ToAccount, req.Currency, req.Amount, "Amount must be > 0"), nil
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	resp, err := s.transferInTx(ctx, tx, req)
	if err != nil {
		if businessErr, ok := asBusinessFailure(err); ok {
			return failed(req.FromAccount, req.ToAccount, req.Currency, req.Amount, businessErr), nil
		}
		s.log.Errorw("ledger transfer failed", "from", req.FromAccount, "to", req.ToAccount, "err", err)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		s.log.Errorw("ledger transfer commit failed", "from", req.FromAccount, "to", req.ToAccount, "err", err)
		return nil, err
	}
	return resp, nil
}

// businessFailure marks errors that should surface as a
// TransferResponse{status: FAILED} rather than an RPC error: the ledger ran
// to a deterministic, expected outcome.
type businessFailure struct{ message string }

func (e *businessFailure) Error() string { return e.message }

func asBusinessFailure(err error) (string, bool) {
	var bf *businessFailure
	if errors.As(err, &bf) {
		return bf.message, true
	}
	return "", false
}

func (s *Server) transferInTx(ctx context.Context, tx pgx.Tx, req *rpcpb.TransferRequest) (*rpcpb.TransferResponse, error) {
	ids := []string{req.FromAccount, req.ToAccount}
	sort.Strings(ids)

	currencies := make(map[string]string, 2)
	for _, id := range ids {
		cur, err := store.LockAndGetCurrency(ctx, tx, id)
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil, &businessFailure{"Account not found"}
		}
		if store.IsLockNotAvailable(err) {
			return nil, &businessFailure{"Account locked by another transfer, retry"}
		}
		if err != nil {
			return nil, err
		}
		currencies[id] = cur
	}

	fromCurrency, toCurrency := currencies[req.FromAccount], currencies[req.ToAccount]
	if fromCurrency != toCurrency {
		return nil, &businessFailure{"Currency mismatch"}
	}

	fromBalance, err := store.Balance(ctx, tx, req.FromAccount)
	if err != nil {
		return nil, err
	}
	if fromBalance < req.Amount {
		return nil, &businessFailure{"Insufficient funds"}
	}

	txID := uuid.NewString()
	if err := store.RecordTransfer(ctx, tx, txID, req.FromAccount, req.ToAccount, req.Amount, fromCurrency); err != nil {
		return nil, err
	}

	fromAfter, err := store.Balance(ctx, tx, req.FromAccount)
	if err != nil {
		return nil, err
	}
	toAfter, err := store.Balance(ctx, tx, req.ToAccount)
	if err != nil {
		return nil, err
	}

	return &rpcpb.TransferResponse{
		TxID:             txID,
		FromAccount:      req.FromAccount,
		ToAccount:        req.ToAccount,
		Amount:           req.Amount,
		Currency:         fromCurrency,
		FromBalanceAfter: fromAfter,
		ToBalanceAfter:   toAfter,
		Status:           "SUCCESS",
	}, nil
}

// GetBalance returns balance=0, currency=INR for an unknown account rather
// than an error: a preserved backward-compatibility behavior, not a bug.
func (s *Server) GetBalance(ctx context.Context, req *rpcpb.BalanceRequest) (*rpcpb.BalanceResponse, error) {
	currency, err := store.AccountCurrency(ctx, s.db, req.AccountID)
	if errors.Is(err, store.ErrAccountNotFound) {
		return &rpcpb.BalanceResponse{AccountID: req.AccountID, Balance: 0, Currency: "INR"}, nil
	}
	if err != nil {
		return nil, err
	}

	balance, err := store.Balance(ctx, s.db, req.AccountID)
	if err != nil {
		return nil, err
	}
	return &rpcpb.BalanceResponse{AccountID: req.AccountID, Balance: balance, Currency: currency}, nil
}

func (s *Server) GetAllEntries(ctx context.Context, _ *rpcpb.GetAllEntriesRequest) (*rpcpb.GetAllEntriesResponse, error) {
	entries, err := store.GetAllEntries(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]*rpcpb.LedgerEntry, len(entries))
	for i, e := range entries {
		out[i] = &rpcpb.LedgerEntry{
			TxID:        e.TxID,
			FromAccount: e.FromAccount,
			ToAccount:   e.ToAccount,
			Amount:      e.Amount,
			Currency:    e.Currency,
			CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	return &rpcpb.GetAllEntriesResponse{Entries: out}, nil
}
