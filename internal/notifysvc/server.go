// Package notifysvc implements NotificationService: a trivial sink that
// records one structured log line per leg and acknowledges.
package notifysvc

import (
	"context"

	"go.uber.org/zap"

	"github.com/easpayments/ledgercore/internal/rpcpb"
)

type Server struct {
	rpcpb.UnimplementedNotificationServiceServer
	log *zap.SugaredLogger
}

func New(log *zap.SugaredLogger) *Server {
	return &Server{log: log}
}

func (s *Server) Notify(_ context.Context, req *rpcpb.NotifyRequest) (*rpcpb.NotifyResponse, error) {
	s.log.Infow("notification",
		"account_id", req.AccountID,
		"tx_id", req.TxID,
		"direction", req.Direction,
		"amount", req.Amount,
		"currency", req.Currency,
		"message", req.Message,
	)
	return &rpcpb.NotifyResponse{OK: true}, nil
}
