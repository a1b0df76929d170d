package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/ogurasousui/weekly-ops-dashboard/internal/adapters/grpc/dashboardpb"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/adapters/grpc/handler"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/member"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/core/weeklystatus"
	"github.com/ogurasousui/weekly-ops-dashboard/internal/platform/logger"
	"google.golang.org/grpc"
)

// Server は gRPC サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr string
	grpcServer *grpc.Server
	log        *logger.Logger
}

// New は指定されたアドレスで待ち受ける gRPC サーバーを構築します。
// interceptors はリカバリーとアクセスログの内側で、登録順に実行されます。
func New(listenAddr string, reports weeklystatus.UseCase, members member.UseCase, log *logger.Logger, interceptors ...grpc.UnaryServerInterceptor) *Server {
	if log == nil {
		log = logger.NewNop()
	}

	chain := append([]grpc.UnaryServerInterceptor{
		RecoveryUnaryInterceptor(log),
		LoggingUnaryInterceptor(log),
	}, interceptors...)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(chain...))

	dashboardpb.RegisterWeeklyReportServiceServer(srv, handler.NewWeeklyReportGrpcHandler(reports))
	dashboardpb.RegisterMemberServiceServer(srv, handler.NewMemberGrpcHandler(members))

	return &Server{
		listenAddr: listenAddr,
		grpcServer: srv,
		log:        log,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}

	go func() {
		<-ctx.Done()
		s.log.Info("shutting down gRPC server")
		s.grpcServer.GracefulStop()
	}()

	s.log.Info("gRPC server listening", "addr", lis.Addr().String())
	return s.Serve(lis)
}

// Serve は lis で待ち受けます。GracefulStop による停止はエラーとして扱いません。
func (s *Server) Serve(lis net.Listener) error {
	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}
	return nil
}

// GracefulStop はサーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.grpcServer.GracefulStop()
}
