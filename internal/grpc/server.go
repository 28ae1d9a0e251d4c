package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName 健康检查中注册的服务名
const ServiceName = "fittrack.challenge.v1.ChallengeService"

// Pinger 健康检查依赖的存储
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server wraps the gRPC server
type Server struct {
	grpcServer *grpc.Server
	listener   net.Listener
	health     *health.Server
	stores     []Pinger
}

// NewServer creates a gRPC server exposing the standard health service
// The service is SERVING only while every store answers a ping
func NewServer(port int, stores ...Pinger) (*Server, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", port, err)
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	s := &Server{
		grpcServer: grpcServer,
		listener:   listener,
		health:     healthServer,
		stores:     stores,
	}
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return s, nil
}

// Start starts the gRPC server (blocking)
func (s *Server) Start() error {
	return s.grpcServer.Serve(s.listener)
}

// Stop gracefully stops the gRPC server
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

// GetAddr returns the server address
func (s *Server) GetAddr() string {
	return s.listener.Addr().String()
}

// Refresh pings the stores and updates the serving status
func (s *Server) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	for _, store := range s.stores {
		if err := store.PingContext(ctx); err != nil {
			s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
			return err
		}
	}
	s.setStatus(healthpb.HealthCheckResponse_SERVING)
	return nil
}

// Watch refreshes the status every interval until ctx is done
func (s *Server) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

func (s *Server) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	// 空服务名表示整个服务器
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
