package ledgersvc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/easpayments/ledgercore/internal/rpcpb"
)

func TestTransfer_NonPositiveAmountFailsWithoutTransaction(t *testing.T) {
	// A nil *pgxpool.Pool would panic on BeginTx, so this only passes if the
	// amount<=0 guard in Transfer really does return before touching s.db.
	s := New(nil, zap.NewNop().Sugar())

	resp, err := s.Transfer(nil, &rpcpb.TransferRequest{
		FromAccount: "a", ToAccount: "b", Amount: 0, Currency: "INR",
	})
	require.NoError(t, err)
	require.Equal(t, "FAILED", resp.Status)
	require.Equal(t, "Amount must be > 0", resp.Message)

	resp, err = s.Transfer(nil, &rpcpb.TransferRequest{
		FromAccount: "a", ToAccount: "b", Amount: -5, Currency: "INR",
	})
	require.NoError(t, err)
	require.Equal(t, "FAILED", resp.Status)
}

func TestFailed_PreservesRequestFields(t *testing.T) {
	resp := failed("acct-a", "acct-b", "INR", 100, "Insufficient funds")
	require.Equal(t, "acct-a", resp.FromAccount)
	require.Equal(t, "acct-b", resp.ToAccount)
	require.Equal(t, "INR", resp.Currency)
	require.Equal(t, int64(100), resp.Amount)
	require.Equal(t, "FAILED", resp.Status)
	require.Equal(t, "Insufficient funds", resp.Message)
	require.Zero(t, resp.TxID)
	require.Zero(t, resp.FromBalanceAfter)
}

func TestBusinessFailure_ErrorMessage(t *testing.T) {
	bf := &businessFailure{"Currency mismatch"}
	require.Equal(t, "Currency mismatch", bf.Error())
}

func TestAsBusinessFailure_MatchesWrappedBusinessFailure(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), &businessFailure{"Account not found"})
	msg, ok := asBusinessFailure(wrapped)
	require.True(t, ok)
	require.Equal(t, "Account not found", msg)
}

func TestAsBusinessFailure_RejectsOrdinaryError(t *testing.T) {
	_, ok := asBusinessFailure(errors.New("connection reset"))
	require.False(t, ok)
}
