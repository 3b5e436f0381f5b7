// Package grpc exposes the synchronization state over the standard gRPC health protocol.
package grpc

import (
	"context"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/tair/fabstock/internal/provider"
	"github.com/tair/fabstock/pkg/logger"
)

// SyncService is the health service name that follows the orchestrator state.
const SyncService = "fabstock.sync"

// HealthServer mirrors the orchestrator lifecycle onto gRPC health statuses.
type HealthServer struct {
	*health.Server
}

// NewHealthServer creates a health server reporting SyncService as NOT_SERVING until the first load.
func NewHealthServer() *HealthServer {
	s := &HealthServer{Server: health.NewServer()}
	s.SetServingStatus(SyncService, healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// Observe records a lifecycle transition. It is meant to be passed as provider.Options.OnStateChange.
func (s *HealthServer) Observe(state provider.State) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if state == provider.StateReady {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.SetServingStatus(SyncService, status)

	logger.Logger.Debug().
		Str("state", string(state)).
		Str("health", status.String()).
		Msg("Sync health updated")
}

// NewServer builds a gRPC server with tracing, logging, health and reflection.
func NewServer(hs *HealthServer) *grpc.Server {
	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(LoggingInterceptor),
	)
	healthpb.RegisterHealthServer(server, hs)
	reflection.Register(server)
	return server
}

// LoggingInterceptor logs gRPC requests
func LoggingInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	event := logger.Debug(ctx)
	if err != nil {
		event = logger.Warn(ctx).Err(err)
	}
	event.
		Str("method", info.FullMethod).
		Dur("duration", time.Since(start)).
		Msg("gRPC request completed")

	return resp, err
}
