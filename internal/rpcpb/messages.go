// Package rpcpb defines the wire messages and service descriptors shared by the
// ledger and notifications gRPC services. The generated-stub shape (service
// descriptors, Client/Server interface pairs, Unimplemented embeds) mirrors what
// protoc-gen-go-grpc would produce from a ledgercore/v1/ledger.proto; the message
// marshaling mirrors the MarshalVT/UnmarshalVT fast-path methods vtprotobuf
// generates, hand-written here because no protoc toolchain is available to
// generate either (see codec.go).
package rpcpb

// TransferRequest is the gateway's request to LedgerService.Transfer.
type TransferRequest struct {
	FromAccount    string
	ToAccount      string
	Amount         int64
	Currency       string
	IdempotencyKey string
}

// TransferResponse is the ledger's outcome for one Transfer call.
type TransferResponse struct {
	TxID             string
	FromAccount      string
	ToAccount        string
	Amount           int64
	Currency         string
	FromBalanceAfter int64
	ToBalanceAfter   int64
	Status           string
	Message          string
}

// BalanceRequest asks the ledger for one account's derived balance.
type BalanceRequest struct {
	AccountID string
}

// BalanceResponse is the ledger's answer to a BalanceRequest.
type BalanceResponse struct {
	AccountID string
	Balance   int64
	Currency  string
}

// LedgerEntry is one DEBIT/CREDIT pair, joined back into a single transfer leg.
type LedgerEntry struct {
	TxID        string
	FromAccount string
	ToAccount   string
	Amount      int64
	Currency    string
	CreatedAt   string
}

// GetAllEntriesRequest takes no parameters; it lists every recorded transfer.
type GetAllEntriesRequest struct{}

// GetAllEntriesResponse carries every ledger transfer, most recent work done
// directly against ledger_entries and joined in the ledger service.
type GetAllEntriesResponse struct {
	Entries []*LedgerEntry
}

// NotifyRequest is one leg (DEBIT or CREDIT) of a completed transfer.
type NotifyRequest struct {
	AccountID string
	TxID      string
	Amount    int64
	Direction string
	Currency  string
	Message   string
}

// NotifyResponse acknowledges a Notify call.
type NotifyResponse struct {
	OK bool
}
