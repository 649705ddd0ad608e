// Package grpc exposes the standard gRPC health service. The serving status
// follows a periodic readiness probe of the storage backend.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is reported alongside the empty (whole-server) service name.
const ServiceName = "tasktracker.TaskTracker"

const defaultProbeInterval = 10 * time.Second

// ProbeFunc reports whether the backend is ready; nil means serving.
type ProbeFunc func(ctx context.Context) error

type HealthServer struct {
	address       string
	logger        logging.Logger
	probe         ProbeFunc
	probeInterval time.Duration
	health        *health.Server
}

func NewHealthServer(address string, l logging.Logger, probe ProbeFunc) *HealthServer {
	return &HealthServer{
		address:       address,
		logger:        l.With("module", "grpc_server"),
		probe:         probe,
		probeInterval: defaultProbeInterval,
		health:        health.NewServer(),
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *HealthServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *HealthServer) serve(ctx context.Context, listen net.Listener) error {

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.check(ctx)

	go func() {
		ticker := time.NewTicker(s.probeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.check(ctx)
			}
		}
	}()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

func (s *HealthServer) check(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if s.probe != nil {
		pctx, cancel := context.WithTimeout(ctx, s.probeInterval/2)
		err := s.probe(pctx)
		cancel()
		if err != nil {
			s.logger.Warn(ctx, "readiness probe failed", "error", err.Error())
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
