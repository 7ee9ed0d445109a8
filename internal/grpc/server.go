package grpc

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// DefaultCheckInterval 数据库探活间隔
const DefaultCheckInterval = 10 * time.Second

// Pinger *sql.DB 即满足
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server wraps the gRPC server
type Server struct {
	grpcServer *grpc.Server
	listener   net.Listener
	health     *health.Server
	pinger     Pinger
	interval   time.Duration

	stopOnce sync.Once
	stop     chan struct{}
}

// NewServer 监听指定端口，注册健康检查和反射服务
func NewServer(port int, pinger Pinger) (*Server, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", port, err)
	}
	return NewServerWithListener(listener, pinger), nil
}

func NewServerWithListener(listener net.Listener, pinger Pinger) *Server {
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()

	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	return &Server{
		grpcServer: grpcServer,
		listener:   listener,
		health:     healthServer,
		pinger:     pinger,
		interval:   DefaultCheckInterval,
		stop:       make(chan struct{}),
	}
}

// CheckHealth ping 数据库并更新总体状态
func (s *Server) CheckHealth(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := s.pinger.PingContext(ctx); err != nil {
		log.Warn().Err(err).Msg("数据库探活失败")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	return status
}

func (s *Server) watch() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.interval)
			s.CheckHealth(ctx)
			cancel()
		}
	}
}

// Start starts the gRPC server (blocking)
func (s *Server) Start() error {
	s.CheckHealth(context.Background())
	go s.watch()
	return s.grpcServer.Serve(s.listener)
}

// Stop gracefully stops the gRPC server
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
	})
}

// GetAddr returns the server address
func (s *Server) GetAddr() string {
	return s.listener.Addr().String()
}
