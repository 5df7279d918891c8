// Command gateway runs the HTTP front door: idempotent transfer admission,
// distributed account locking, and delegation to the ledger over gRPC.
// Bootstrap shape (env-driven config, explicit connect-then-serve, graceful
// shutdown on signal) follows WizardBeardStudio-open-rgs-go's cmd/rgsd.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/easpayments/ledgercore/internal/config"
	"github.com/easpayments/ledgercore/internal/gatewaysvc"
	"github.com/easpayments/ledgercore/internal/gatewaysvc/notifyfanout"
	"github.com/easpayments/ledgercore/internal/lock"
	"github.com/easpayments/ledgercore/internal/logging"
	"github.com/easpayments/ledgercore/internal/rpcclient"
	"github.com/easpayments/ledgercore/internal/store"
)

const (
	fanoutQueueDepth = 1024
	fanoutWorkers    = 8
)

func main() {
	log := logging.New("gateway")
	defer log.Sync()

	cfg, err := config.LoadGatewayConfig()
	if err != nil {
		log.Fatalw("failed to load config", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.NewPool(ctx, cfg.DB.DSN())
	if err != nil {
		log.Fatalw("failed to connect to postgres", "err", err)
	}
	defer db.Close()
	if err := store.EnsureSchema(ctx, db); err != nil {
		log.Fatalw("failed to ensure schema", "err", err)
	}

	redisClient, err := lock.Connect(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalw("failed to connect to redis", "err", err)
	}
	defer redisClient.Close()
	locker := lock.New(redisClient)

	ledgerConn, err := rpcclient.NewLedgerClient(cfg.LedgerTarget)
	if err != nil {
		log.Fatalw("failed to dial ledger service", "err", err)
	}
	defer ledgerConn.Close()

	notifyConn, err := rpcclient.NewNotifyClient(cfg.NotifyTarget)
	if err != nil {
		log.Fatalw("failed to dial notifications service", "err", err)
	}
	defer notifyConn.Close()

	fanout := notifyfanout.New(db, notifyfanout.NewClientAdapter(notifyConn.NotificationServiceClient), log, fanoutQueueDepth)
	fanout.Start(ctx, fanoutWorkers)

	svc := gatewaysvc.NewService(db, locker, gatewaysvc.NewLedgerClientAdapter(ledgerConn.LedgerServiceClient), fanout, log)
	handler := gatewaysvc.NewHandler(svc, db, log)

	srv := &http.Server{
		Addr:         cfg.APIHost + ":" + cfg.APIPort,
		Handler:      handler.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Infow("gateway listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("gateway server failed", "err", err)
		}
	}()

	<-ctx.Done()
	log.Infow("shutting down gateway")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("gateway shutdown error", "err", err)
	}
}
