// Package grpcserver exposes the standard gRPC health service so orchestrators
// can probe the transcription API without going through HTTP.
package grpcserver

import (
	"errors"
	"fmt"
	"net"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported for the transcription API.
const ServiceName = "audioscript.Transcription"

// HealthServer serves grpc.health.v1.Health on its own listener.
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	listener net.Listener
	logger   *logrus.Logger
}

// NewHealthServer listens on addr and registers the health service.
// Both the overall and the ServiceName status start as SERVING.
func NewHealthServer(addr string, logger *logrus.Logger) (*HealthServer, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return &HealthServer{server: srv, health: hs, listener: lis, logger: logger}, nil
}

// Addr returns the address the server is listening on.
func (s *HealthServer) Addr() string {
	return s.listener.Addr().String()
}

// Serve blocks until the server stops.
func (s *HealthServer) Serve() error {
	s.logger.WithField("addr", s.Addr()).Info("gRPC health server listening")
	if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("grpc serve: %w", err)
	}
	return nil
}

// Stop marks every service NOT_SERVING and stops the server gracefully.
func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
	s.logger.Info("gRPC health server stopped")
}
