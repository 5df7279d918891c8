// Package rpcclient wraps the gateway's two outbound gRPC connections
// (ledger and notifications): one dial per target at startup, reused for
// every call rather than redialed per request.
package rpcclient

import (
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/easpayments/ledgercore/internal/rpcpb"
)

// dial opens a connection to target. Transport is plaintext: these services
// run on a private network between processes.
func dial(target string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("rpcclient: dial %s: %w", target, err)
	}
	return conn, nil
}

// LedgerClient bundles a connection to the ledger service with its typed
// stub, so callers never import rpcpb directly.
type LedgerClient struct {
	conn *grpc.ClientConn
	rpcpb.LedgerServiceClient
}

func NewLedgerClient(target string) (*LedgerClient, error) {
	conn, err := dial(target)
	if err != nil {
		return nil, err
	}
	return &LedgerClient{conn: conn, LedgerServiceClient: rpcpb.NewLedgerServiceClient(conn)}, nil
}

func (c *LedgerClient) Close() error {
	return c.conn.Close()
}

// NotifyClient bundles a connection to the notifications service.
type NotifyClient struct {
	conn *grpc.ClientConn
	rpcpb.NotificationServiceClient
}

func NewNotifyClient(target string) (*NotifyClient, error) {
	conn, err := dial(target)
	if err != nil {
		return nil, err
	}
	return &NotifyClient{conn: conn, NotificationServiceClient: rpcpb.NewNotificationServiceClient(conn)}, nil
}

func (c *NotifyClient) Close() error {
	return c.conn.Close()
}
