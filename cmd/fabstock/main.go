package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"

	_ "github.com/tair/fabstock/docs"
	"github.com/tair/fabstock/internal/app"
	"github.com/tair/fabstock/internal/config"
	grpcDelivery "github.com/tair/fabstock/internal/delivery/grpc"
	httpDelivery "github.com/tair/fabstock/internal/delivery/http"
	"github.com/tair/fabstock/pkg/logger"
	"github.com/tair/fabstock/pkg/tracing"
)

const version = "1.0.0"

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Str("notify_driver", cfg.NotifyDriver).
		Msg("Starting fabstock")

	if cfg.JWTSecret == "" {
		logger.Logger.Fatal().Msg("JWT_SECRET is required")
	}

	var tp trace.TracerProvider
	if cfg.TracingEnabled {
		var err error
		tp, err = tracing.InitTracer(cfg.ServiceName, version, cfg.JaegerEndpoint)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, cleanup, err := app.InitializeApp(ctx, cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize application")
	}

	// A failed first load leaves the store in its error state; the API still serves it.
	if err := application.Store.Start(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Initial load failed")
	}

	httpServer := newHTTPServer(application, cfg)
	grpcServer := grpcDelivery.NewServer(application.Health)

	errCh := make(chan error, 2)
	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Str("swagger", "/swagger/").
			Msg("HTTP server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := serveGRPC(grpcServer, cfg.GRPCPort); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Logger.Info().Msg("Shutting down servers...")
	case err := <-errCh:
		logger.Logger.Error().Err(err).Msg("Server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	grpcServer.GracefulStop()

	// Drains pending writes before the local store is closed.
	cleanup()

	if tp != nil {
		if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
			logger.Logger.Error().Err(err).Msg("Tracer shutdown failed")
		}
	}

	logger.Logger.Info().Msg("Server stopped")
}

func newHTTPServer(application *app.App, cfg config.Config) *http.Server {
	router := mux.NewRouter()

	mwConfig := httpDelivery.DefaultMiddlewareConfig(cfg.CORSAllowedOrigins)
	mwConfig.EnableTracing = cfg.TracingEnabled
	httpDelivery.RegisterMiddlewares(router, mwConfig)

	application.Handler.RegisterRoutes(router)
	application.Handler.RegisterHealthCheck(router)
	httpDelivery.RegisterSwaggerDocs(router)

	router.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           httpDelivery.SetupCORS(mwConfig)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func serveGRPC(server *grpc.Server, port string) error {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return err
	}

	logger.Logger.Info().
		Str("port", port).
		Str("health_service", grpcDelivery.SyncService).
		Msg("gRPC server started")

	return server.Serve(lis)
}
