// Package gatewaysvc implements the gateway's transfer orchestration: the
// idempotent-admission, lock-acquisition, ledger-delegation, lock-release,
// finalize, and notification-scheduling sequence that backs POST /transfer.
package gatewaysvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/easpayments/ledgercore/internal/gatewaysvc/notifyfanout"
	"github.com/easpayments/ledgercore/internal/lock"
	"github.com/easpayments/ledgercore/internal/rpcpb"
	"github.com/easpayments/ledgercore/internal/store"
)

// ledgerClient is the subset of rpcpb.LedgerServiceClient the service needs,
// narrowed away from the variadic grpc.CallOption signature so tests can
// supply a plain fake.
type ledgerClient interface {
	Transfer(ctx context.Context, in *rpcpb.TransferRequest) (*rpcpb.TransferResponse, error)
	GetBalance(ctx context.Context, in *rpcpb.BalanceRequest) (*rpcpb.BalanceResponse, error)
}

type ledgerClientAdapter struct {
	client rpcpb.LedgerServiceClient
}

func (a ledgerClientAdapter) Transfer(ctx context.Context, in *rpcpb.TransferRequest) (*rpcpb.TransferResponse, error) {
	return a.client.Transfer(ctx, in)
}

func (a ledgerClientAdapter) GetBalance(ctx context.Context, in *rpcpb.BalanceRequest) (*rpcpb.BalanceResponse, error) {
	return a.client.GetBalance(ctx, in)
}

func NewLedgerClientAdapter(client rpcpb.LedgerServiceClient) ledgerClient {
	return ledgerClientAdapter{client: client}
}

type Service struct {
	db     store.Querier
	locker *lock.Locker
	ledger ledgerClient
	fanout *notifyfanout.Dispatcher
	log    *zap.SugaredLogger
}

func NewService(db store.Querier, locker *lock.Locker, ledger ledgerClient, fanout *notifyfanout.Dispatcher, log *zap.SugaredLogger) *Service {
	return &Service{db: db, locker: locker, ledger: ledger, fanout: fanout, log: log}
}

// Transfer runs the admission-through-notification sequence in order. Both
// a freshly computed response and a replayed one return 200 at the HTTP
// layer; the caller can't tell them apart from the return value alone.
func (s *Service) Transfer(ctx context.Context, req TransferRequest) (*TransferResponse, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	// Step 1: idempotency pre-check.
	rec, err := store.GetIdempotencyRecord(ctx, s.db, req.IdempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("gatewaysvc: idempotency lookup: %w", err)
	}
	if rec != nil && rec.RequestHash != requestHash(&req) {
		return nil, fmt.Errorf("%w", ErrIdempotencyMismatch)
	}
	if rec != nil && (rec.Status == "SUCCESS" || rec.Status == "FAILED") {
		var resp TransferResponse
		if err := json.Unmarshal(rec.ResponseBody, &resp); err != nil {
			return nil, fmt.Errorf("gatewaysvc: decode stored response: %w", err)
		}
		return &resp, nil
	}

	// Step 2: idempotency admission. A duplicate-key conflict means the row
	// already exists (from this lookup or a concurrent admission); ignore it
	// and proceed exactly as if this call had created it.
	if err := store.InsertInProgress(ctx, s.db, req.IdempotencyKey, requestHash(&req)); err != nil && !errors.Is(err, store.ErrIdempotencyConflict) {
		return nil, fmt.Errorf("gatewaysvc: idempotency admission: %w", err)
	}

	// Step 3: account existence.
	fromOK, err := store.AccountExists(ctx, s.db, req.FromAccount)
	if err != nil {
		return nil, err
	}
	toOK, err := store.AccountExists(ctx, s.db, req.ToAccount)
	if err != nil {
		return nil, err
	}
	if !fromOK || !toOK {
		// No state recorded here: the idempotency row stays IN_PROGRESS, so a
		// retry issued after the missing account is provisioned can still
		// succeed instead of replaying a permanently burned failure.
		return nil, fmt.Errorf("%w", ErrAccountNotFound)
	}

	// Step 4: lock acquisition.
	tokens, err := s.locker.AcquireAccountLocks(ctx, []string{req.FromAccount, req.ToAccount}, lock.DefaultTTL)
	if err != nil {
		// No state recorded for a lock conflict: the idempotency row stays
		// IN_PROGRESS, exactly the state a retry needs to see.
		return nil, fmt.Errorf("%w", ErrLockConflict)
	}
	// Step 6: lock release, on every exit path.
	defer func() {
		if errs := s.locker.ReleaseAccountLocks(context.WithoutCancel(ctx), tokens); len(errs) > 0 {
			s.log.Warnw("failed to release account locks", "idempotency_key", req.IdempotencyKey, "errs", errs)
		}
	}()

	// Step 5: ledger RPC.
	ledgerResp, err := s.ledger.Transfer(ctx, &rpcpb.TransferRequest{
		FromAccount:    req.FromAccount,
		ToAccount:      req.ToAccount,
		Amount:         req.Amount,
		Currency:       req.Currency,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		// RPC failure/timeout: the idempotency row must stay IN_PROGRESS —
		// never write a terminal state when the ledger's actual outcome is
		// unknown to us.
		s.log.Errorw("ledger transfer rpc failed", "idempotency_key", req.IdempotencyKey, "err", err)
		return nil, fmt.Errorf("gatewaysvc: ledger transfer: %w", err)
	}

	// Step 7: response shaping.
	resp := &TransferResponse{
		TxID:             ledgerResp.TxID,
		FromAccount:      ledgerResp.FromAccount,
		ToAccount:        ledgerResp.ToAccount,
		Amount:           ledgerResp.Amount,
		Currency:         ledgerResp.Currency,
		FromBalanceAfter: ledgerResp.FromBalanceAfter,
		ToBalanceAfter:   ledgerResp.ToBalanceAfter,
		Status:           ledgerResp.Status,
		Message:          ledgerResp.Message,
	}

	// Step 8: idempotency finalization.
	s.finalize(ctx, req.IdempotencyKey, resp)

	// Step 9: schedule notifications, detached, only for a money-moving
	// success.
	if resp.Status == "SUCCESS" {
		s.fanout.Schedule(notifyfanout.Job{Legs: [2]notifyfanout.Leg{
			{
				AccountID: resp.FromAccount,
				TxID:      resp.TxID,
				Direction: "DEBIT",
				Amount:    resp.Amount,
				Currency:  resp.Currency,
				Message:   fmt.Sprintf("Debited %d %s for transfer %s", resp.Amount, resp.Currency, resp.TxID),
			},
			{
				AccountID: resp.ToAccount,
				TxID:      resp.TxID,
				Direction: "CREDIT",
				Amount:    resp.Amount,
				Currency:  resp.Currency,
				Message:   fmt.Sprintf("Credited %d %s for transfer %s", resp.Amount, resp.Currency, resp.TxID),
			},
		}})
	}

	return resp, nil
}

func (s *Service) finalize(ctx context.Context, key string, resp *TransferResponse) {
	body, err := json.Marshal(resp)
	if err != nil {
		s.log.Errorw("failed to marshal response for finalization", "idempotency_key", key, "err", err)
		return
	}
	var txID *string
	if resp.TxID != "" {
		txID = &resp.TxID
	}
	if err := store.FinalizeIdempotency(ctx, s.db, key, resp.Status, txID, body); err != nil {
		s.log.Errorw("failed to finalize idempotency record", "idempotency_key", key, "err", err)
	}
}

// GetBalance proxies to the ledger's GetBalance RPC, the authority on
// derived balances, rather than recomputing it from the gateway's own
// connection.
func (s *Service) GetBalance(ctx context.Context, accountID string) (*BalanceResponse, error) {
	resp, err := s.ledger.GetBalance(ctx, &rpcpb.BalanceRequest{AccountID: accountID})
	if err != nil {
		return nil, err
	}
	return &BalanceResponse{AccountID: resp.AccountID, Balance: resp.Balance, Currency: resp.Currency}, nil
}
