// Command notifications runs NotificationService, the sink RPC the gateway's
// fan-out delivers each transfer leg to.
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
	"github.com/easpayments/ledgercore/internal/logging"
	"github.com/easpayments/ledgercore/internal/notifysvc"
	"github.com/easpayments/ledgercore/internal/rpcpb"
)

func main() {
	log := logging.New("notifications")
	defer log.Sync()

	cfg, err := config.LoadNotifyConfig()
	if err != nil {
		log.Fatalw("failed to load config", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		log.Fatalw("failed to listen", "err", err)
	}

	grpcServer := grpc.NewServer()
	rpcpb.RegisterNotificationServiceServer(grpcServer, notifysvc.New(log))
	reflection.Register(grpcServer)

	go func() {
		<-ctx.Done()
		log.Infow("shutting down notifications service")
		grpcServer.GracefulStop()
	}()

	log.Infow("notifications service listening", "addr", lis.Addr().String())
	if err := grpcServer.Serve(lis); err != nil {
		log.Fatalw("notifications server failed", "err", err)
	}
}
