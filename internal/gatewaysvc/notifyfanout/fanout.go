// Package notifyfanout runs the gateway's notification fan-out: a bounded
// channel feeding a small worker pool, detached from the HTTP response path
// so a slow or failing downstream notify call never holds up a transfer
// response.
package notifyfanout

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/easpayments/ledgercore/internal/rpcpb"
	"github.com/easpayments/ledgercore/internal/store"
)

// Leg is one notification message: either the DEBIT or CREDIT side of a
// transfer.
type Leg struct {
	AccountID string
	TxID      string
	Direction string
	Amount    int64
	Currency  string
	Message   string
}

// Job is one transfer's fan-out work: the DEBIT leg always precedes the
// CREDIT leg in the slice, and workers process legs in order within a job.
type Job struct {
	Legs [2]Leg
}

// notifier is the subset of rpcpb.NotificationServiceClient the dispatcher
// needs; satisfied by clientAdapter wrapping that client, and by a
// hand-rolled fake in tests.
type notifier interface {
	Notify(ctx context.Context, in *rpcpb.NotifyRequest) (*rpcpb.NotifyResponse, error)
}

// clientAdapter narrows rpcpb.NotificationServiceClient's variadic
// grpc.CallOption signature down to notifier's, so production code can pass
// an *rpcclient.NotifyClient directly.
type clientAdapter struct {
	client rpcpb.NotificationServiceClient
}

func (a clientAdapter) Notify(ctx context.Context, in *rpcpb.NotifyRequest) (*rpcpb.NotifyResponse, error) {
	return a.client.Notify(ctx, in)
}

func NewClientAdapter(client rpcpb.NotificationServiceClient) notifier {
	return clientAdapter{client: client}
}

type Dispatcher struct {
	db     store.Querier
	client notifier
	log    *zap.SugaredLogger
	jobs   chan Job
}

// New builds a dispatcher with the given queue depth; call Start to spin up
// its workers.
func New(db store.Querier, client notifier, log *zap.SugaredLogger, queueDepth int) *Dispatcher {
	return &Dispatcher{db: db, client: client, log: log, jobs: make(chan Job, queueDepth)}
}

// Start launches workers goroutines that drain the job queue until ctx is
// canceled.
func (d *Dispatcher) Start(ctx context.Context, workers int) {
	for i := 0; i < workers; i++ {
		go d.worker(ctx)
	}
}

// Schedule enqueues job without blocking the caller. If the queue is full
// the job is dropped and logged rather than applying backpressure to the
// transfer path; delivery is at-least-once, not guaranteed.
func (d *Dispatcher) Schedule(job Job) {
	select {
	case d.jobs <- job:
	default:
		d.log.Warnw("notification queue full, dropping job", "tx_id", job.Legs[0].TxID)
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-d.jobs:
			d.process(job)
		}
	}
}

// process persists then sends each leg of job in order (DEBIT before
// CREDIT), swallowing and logging any failure so one bad leg never blocks
// the other or crashes the worker.
func (d *Dispatcher) process(job Job) {
	for _, leg := range job.Legs {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		if err := store.InsertNotification(ctx, d.db, store.Notification{
			AccountID: leg.AccountID,
			TxID:      leg.TxID,
			Direction: leg.Direction,
			Amount:    leg.Amount,
			Currency:  leg.Currency,
			Message:   leg.Message,
		}); err != nil {
			d.log.Errorw("failed to persist notification", "tx_id", leg.TxID, "direction", leg.Direction, "err", err)
		}

		if _, err := d.client.Notify(ctx, &rpcpb.NotifyRequest{
			AccountID: leg.AccountID,
			TxID:      leg.TxID,
			Amount:    leg.Amount,
			Direction: leg.Direction,
			Currency:  leg.Currency,
			Message:   leg.Message,
		}); err != nil {
			d.log.Errorw("notification RPC failed", "tx_id", leg.TxID, "direction", leg.Direction, "err", err)
		}

		cancel()
	}
}
