package rpcpb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransferRequestRoundTrip(t *testing.T) {
	want := &TransferRequest{
		FromAccount:    "acct-a",
		ToAccount:      "acct-b",
		Amount:         12345,
		Currency:       "INR",
		IdempotencyKey: "key-1",
	}
	got := &TransferRequest{}
	require.NoError(t, got.UnmarshalVT(want.MarshalVT()))
	require.Equal(t, want, got)
}

func TestTransferResponseRoundTrip(t *testing.T) {
	want := &TransferResponse{
		TxID:             "tx-1",
		FromAccount:      "acct-a",
		ToAccount:        "acct-b",
		Amount:           500,
		Currency:         "INR",
		FromBalanceAfter: 9500,
		ToBalanceAfter:   1500,
		Status:           "SUCCESS",
		Message:          "",
	}
	got := &TransferResponse{}
	require.NoError(t, got.UnmarshalVT(want.MarshalVT()))
	require.Equal(t, want, got)
}

func TestTransferResponseRoundTrip_FailedWithMessage(t *testing.T) {
	want := &TransferResponse{
		FromAccount: "acct-a",
		ToAccount:   "acct-b",
		Amount:      500,
		Currency:    "INR",
		Status:      "FAILED",
		Message:     "Insufficient funds",
	}
	got := &TransferResponse{}
	require.NoError(t, got.UnmarshalVT(want.MarshalVT()))
	require.Equal(t, want, got)
}

func TestBalanceRoundTrip(t *testing.T) {
	want := &BalanceResponse{AccountID: "acct-a", Balance: -1, Currency: "INR"}
	got := &BalanceResponse{}
	require.NoError(t, got.UnmarshalVT(want.MarshalVT()))
	require.Equal(t, want, got)
}

func TestGetAllEntriesResponseRoundTrip(t *testing.T) {
	want := &GetAllEntriesResponse{
		Entries: []*LedgerEntry{
			{TxID: "tx-1", FromAccount: "a", ToAccount: "b", Amount: 100, Currency: "INR", CreatedAt: "2026-01-01T00:00:00Z"},
			{TxID: "tx-2", FromAccount: "b", ToAccount: "c", Amount: 200, Currency: "INR", CreatedAt: "2026-01-02T00:00:00Z"},
		},
	}
	got := &GetAllEntriesResponse{}
	require.NoError(t, got.UnmarshalVT(want.MarshalVT()))
	require.Equal(t, want, got)
}

func TestGetAllEntriesResponseRoundTrip_Empty(t *testing.T) {
	want := &GetAllEntriesResponse{}
	got := &GetAllEntriesResponse{}
	require.NoError(t, got.UnmarshalVT(want.MarshalVT()))
	require.Empty(t, got.Entries)
}

func TestNotifyRoundTrip(t *testing.T) {
	want := &NotifyRequest{
		AccountID: "acct-a",
		TxID:      "tx-1",
		Amount:    100,
		Direction: "DEBIT",
		Currency:  "INR",
		Message:   "Debited 100 INR for transfer tx-1",
	}
	got := &NotifyRequest{}
	require.NoError(t, got.UnmarshalVT(want.MarshalVT()))
	require.Equal(t, want, got)
}

func TestNotifyResponseRoundTrip(t *testing.T) {
	for _, ok := range []bool{true, false} {
		want := &NotifyResponse{OK: ok}
		got := &NotifyResponse{}
		require.NoError(t, got.UnmarshalVT(want.MarshalVT()))
		require.Equal(t, want, got)
	}
}

func TestUnknownFieldsAreSkipped(t *testing.T) {
	// A message with an unrecognized field number (99) followed by a known
	// one must still parse the known field, exercising consumeFields'
	// forward-compatible skip path.
	req := &BalanceRequest{AccountID: "acct-a"}
	b := appendStringField(nil, 99, "from-the-future")
	b = append(b, req.MarshalVT()...)

	got := &BalanceRequest{}
	require.NoError(t, got.UnmarshalVT(b))
	require.Equal(t, "acct-a", got.AccountID)
}
