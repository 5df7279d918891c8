// Command ledger runs LedgerService: the transactional double-entry book
// reached over gRPC. Bootstrap mirrors WizardBeardStudio-open-rgs-go's
// cmd/rgsd (env-driven config, grpc.NewServer, register, serve, graceful
// stop on signal).
package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/easpayments/ledgercore/internal/config"
	"github.com/easpayments/ledgercore/internal/ledgersvc"
	"github.com/easpayments/ledgercore/internal/logging"
	"github.com/easpayments/ledgercore/internal/rpcpb"
	"github.com/easpayments/ledgercore/internal/store"
)

func main() {
	log := logging.New("ledger")
	defer log.Sync()

	cfg, err := config.LoadLedgerConfig()
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

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		log.Fatalw("failed to listen", "err", err)
	}

	grpcServer := grpc.NewServer()
	rpcpb.RegisterLedgerServiceServer(grpcServer, ledgersvc.New(db, log))
	reflection.Register(grpcServer)

	go func() {
		<-ctx.Done()
		log.Infow("shutting down ledger service")
		grpcServer.GracefulStop()
	}()

	log.Infow("ledger service listening", "addr", lis.Addr().String())
	if err := grpcServer.Serve(lis); err != nil {
		log.Fatalw("ledger server failed", "err", err)
	}
}
