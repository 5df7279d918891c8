package gatewaysvc

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/easpayments/ledgercore/internal/gatewaysvc/notifyfanout"
	"github.com/easpayments/ledgercore/internal/lock"
	"github.com/easpayments/ledgercore/internal/rpcpb"
)

// fakeRow implements pgx.Row with a closure, so each fakeQuerier query site
// can shape the Scan behavior for its own column list without a generic
// reflection-based scanner.
type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

// fakeQuerier is a minimal in-memory stand-in for store.Querier, covering
// exactly the idempotency and account-existence queries gatewaysvc.Transfer
// issues. Its Query always returns an error, since nothing on this path uses
// it.
type fakeQuerier struct {
	mu sync.Mutex

	idempotencyRecord *idempotencyRow
	insertConflict    bool
	accountsExist     map[string]bool

	finalizeCalls []finalizeCall
}

type idempotencyRow struct {
	requestHash  string
	status       string
	txID         *string
	responseBody []byte
}

type finalizeCall struct {
	key    string
	status string
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	switch {
	case strings.Contains(sql, "FROM idempotency_keys"):
		rec := f.idempotencyRecord
		return fakeRow{scan: func(dest ...any) error {
			if rec == nil {
				return pgx.ErrNoRows
			}
			*dest[0].(*string) = args[0].(string)
			*dest[1].(*string) = rec.requestHash
			*dest[2].(*string) = rec.status
			*dest[3].(**string) = rec.txID
			*dest[4].(*[]byte) = rec.responseBody
			return nil
		}}
	case strings.Contains(sql, "EXISTS(SELECT 1 FROM accounts"):
		id := args[0].(string)
		exists := f.accountsExist[id]
		return fakeRow{scan: func(dest ...any) error {
			*dest[0].(*bool) = exists
			return nil
		}}
	default:
		return fakeRow{scan: func(dest ...any) error { return errors.New("fakeQuerier: unexpected QueryRow: " + sql) }}
	}
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case strings.Contains(sql, "INSERT INTO idempotency_keys"):
		if f.insertConflict {
			return pgconn.CommandTag{}, &pgconn.PgError{Code: "23505"}
		}
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case strings.Contains(sql, "UPDATE idempotency_keys"):
		f.finalizeCalls = append(f.finalizeCalls, finalizeCall{key: args[0].(string), status: args[1].(string)})
		return pgconn.NewCommandTag("UPDATE 1"), nil
	default:
		return pgconn.CommandTag{}, errors.New("fakeQuerier: unexpected Exec: " + sql)
	}
}

func (f *fakeQuerier) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("fakeQuerier: Query not supported")
}

type fakeLedgerClient struct {
	mu            sync.Mutex
	transferCalls int
	transferResp  *rpcpb.TransferResponse
	transferErr   error
}

func (f *fakeLedgerClient) Transfer(_ context.Context, _ *rpcpb.TransferRequest) (*rpcpb.TransferResponse, error) {
	f.mu.Lock()
	f.transferCalls++
	f.mu.Unlock()
	if f.transferErr != nil {
		return nil, f.transferErr
	}
	return f.transferResp, nil
}

func (f *fakeLedgerClient) GetBalance(_ context.Context, in *rpcpb.BalanceRequest) (*rpcpb.BalanceResponse, error) {
	return &rpcpb.BalanceResponse{AccountID: in.AccountID, Balance: 0, Currency: "INR"}, nil
}

func newTestService(t *testing.T, db *fakeQuerier, ledger ledgerClient) *Service {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	locker := lock.New(redisClient)
	fanout := notifyfanout.New(db, noopNotifier{}, zap.NewNop().Sugar(), 16)
	return NewService(db, locker, ledger, fanout, zap.NewNop().Sugar())
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, *rpcpb.NotifyRequest) (*rpcpb.NotifyResponse, error) {
	return &rpcpb.NotifyResponse{OK: true}, nil
}

func TestTransfer_HappyPathFinalizesSuccess(t *testing.T) {
	from, to := uuid.NewString(), uuid.NewString()
	db := &fakeQuerier{accountsExist: map[string]bool{from: true, to: true}}
	ledger := &fakeLedgerClient{transferResp: &rpcpb.TransferResponse{
		TxID: "tx-1", FromAccount: from, ToAccount: to, Amount: 100, Currency: "INR",
		FromBalanceAfter: 900, ToBalanceAfter: 600, Status: "SUCCESS",
	}}
	svc := newTestService(t, db, ledger)

	resp, err := svc.Transfer(context.Background(), TransferRequest{
		FromAccount: from, ToAccount: to, Amount: 100, Currency: "INR", IdempotencyKey: "key-1",
	})
	require.NoError(t, err)
	require.Equal(t, "SUCCESS", resp.Status)
	require.Equal(t, int64(900), resp.FromBalanceAfter)
	require.Equal(t, 1, ledger.transferCalls)
	require.Len(t, db.finalizeCalls, 1)
	require.Equal(t, "SUCCESS", db.finalizeCalls[0].status)
}

func TestTransfer_IdempotentReplayBypassesLedger(t *testing.T) {
	stored := TransferResponse{
		TxID: "tx-1", FromAccount: "a", ToAccount: "b", Amount: 100,
		Currency: "INR", FromBalanceAfter: 900, ToBalanceAfter: 600, Status: "SUCCESS",
	}
	body, err := json.Marshal(stored)
	require.NoError(t, err)

	req := TransferRequest{
		FromAccount: uuid.NewString(), ToAccount: uuid.NewString(), Amount: 100,
		Currency: "INR", IdempotencyKey: "key-1",
	}
	db := &fakeQuerier{idempotencyRecord: &idempotencyRow{requestHash: requestHash(&req), status: "SUCCESS", responseBody: body}}
	ledger := &fakeLedgerClient{}
	svc := newTestService(t, db, ledger)

	resp, err := svc.Transfer(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, stored, *resp)
	require.Equal(t, 0, ledger.transferCalls, "replay must not call the ledger")
}

func TestTransfer_TerminalFailedReplaysStoredFailure(t *testing.T) {
	stored := TransferResponse{
		FromAccount: "a", ToAccount: "b", Amount: 100, Currency: "INR",
		Status: "FAILED", Message: "Insufficient funds",
	}
	body, err := json.Marshal(stored)
	require.NoError(t, err)

	req := TransferRequest{
		FromAccount: uuid.NewString(), ToAccount: uuid.NewString(), Amount: 100,
		Currency: "INR", IdempotencyKey: "key-2",
	}
	db := &fakeQuerier{idempotencyRecord: &idempotencyRow{requestHash: requestHash(&req), status: "FAILED", responseBody: body}}
	ledger := &fakeLedgerClient{}
	svc := newTestService(t, db, ledger)

	resp, err := svc.Transfer(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, stored, *resp)
	require.Equal(t, 0, ledger.transferCalls)
}

func TestTransfer_DuplicateAdmissionIsIgnored(t *testing.T) {
	from, to := uuid.NewString(), uuid.NewString()
	db := &fakeQuerier{
		accountsExist:  map[string]bool{from: true, to: true},
		insertConflict: true,
	}
	ledger := &fakeLedgerClient{transferResp: &rpcpb.TransferResponse{
		TxID: "tx-1", FromAccount: from, ToAccount: to, Amount: 100, Currency: "INR", Status: "SUCCESS",
	}}
	svc := newTestService(t, db, ledger)

	resp, err := svc.Transfer(context.Background(), TransferRequest{
		FromAccount: from, ToAccount: to, Amount: 100, Currency: "INR", IdempotencyKey: "key-3",
	})
	require.NoError(t, err)
	require.Equal(t, "SUCCESS", resp.Status)
	require.Equal(t, 1, ledger.transferCalls)
}

func TestTransfer_UnknownAccountRejectedLeavesIdempotencyInProgress(t *testing.T) {
	from, to := uuid.NewString(), uuid.NewString()
	db := &fakeQuerier{accountsExist: map[string]bool{from: true}}
	ledger := &fakeLedgerClient{}
	svc := newTestService(t, db, ledger)

	_, err := svc.Transfer(context.Background(), TransferRequest{
		FromAccount: from, ToAccount: to, Amount: 100, Currency: "INR", IdempotencyKey: "key-4",
	})
	require.ErrorIs(t, err, ErrAccountNotFound)
	require.Equal(t, 0, ledger.transferCalls)
	require.Empty(t, db.finalizeCalls, "an account-not-found rejection must never write a terminal idempotency state")
}

func TestTransfer_IdempotencyKeyReusedWithDifferentRequestIsRejected(t *testing.T) {
	from, to := uuid.NewString(), uuid.NewString()
	db := &fakeQuerier{
		accountsExist:     map[string]bool{from: true, to: true},
		idempotencyRecord: &idempotencyRow{requestHash: "stale-hash-from-a-different-request", status: "IN_PROGRESS"},
	}
	ledger := &fakeLedgerClient{}
	svc := newTestService(t, db, ledger)

	_, err := svc.Transfer(context.Background(), TransferRequest{
		FromAccount: from, ToAccount: to, Amount: 100, Currency: "INR", IdempotencyKey: "key-7",
	})
	require.ErrorIs(t, err, ErrIdempotencyMismatch)
	require.Equal(t, 0, ledger.transferCalls)
	require.Empty(t, db.finalizeCalls)
}

func TestTransfer_LockConflictLeavesIdempotencyInProgress(t *testing.T) {
	from, to := uuid.NewString(), uuid.NewString()
	db := &fakeQuerier{accountsExist: map[string]bool{from: true, to: true}}
	ledger := &fakeLedgerClient{transferResp: &rpcpb.TransferResponse{Status: "SUCCESS"}}
	svc := newTestService(t, db, ledger)

	// Hold the lock on `from` out from under the service before it tries.
	held, err := svc.locker.AcquireAccountLocks(context.Background(), []string{from}, time.Minute)
	require.NoError(t, err)
	defer svc.locker.ReleaseAccountLocks(context.Background(), held)

	_, err = svc.Transfer(context.Background(), TransferRequest{
		FromAccount: from, ToAccount: to, Amount: 100, Currency: "INR", IdempotencyKey: "key-5",
	})
	require.ErrorIs(t, err, ErrLockConflict)
	require.Equal(t, 0, ledger.transferCalls)
	require.Empty(t, db.finalizeCalls, "a lock conflict must never finalize the idempotency record")
}

func TestTransfer_RpcFailureLeavesIdempotencyInProgress(t *testing.T) {
	from, to := uuid.NewString(), uuid.NewString()
	db := &fakeQuerier{accountsExist: map[string]bool{from: true, to: true}}
	ledger := &fakeLedgerClient{transferErr: errors.New("unavailable")}
	svc := newTestService(t, db, ledger)

	_, err := svc.Transfer(context.Background(), TransferRequest{
		FromAccount: from, ToAccount: to, Amount: 100, Currency: "INR", IdempotencyKey: "key-6",
	})
	require.Error(t, err)
	require.Empty(t, db.finalizeCalls, "an RPC failure must never write a terminal idempotency state")
}
