// Package app assembles the process from configuration.
package app

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/tair/fabstock/internal/advisor"
	"github.com/tair/fabstock/internal/auth"
	"github.com/tair/fabstock/internal/config"
	grpcDelivery "github.com/tair/fabstock/internal/delivery/grpc"
	httpDelivery "github.com/tair/fabstock/internal/delivery/http"
	"github.com/tair/fabstock/internal/localstore"
	"github.com/tair/fabstock/internal/mailer"
	"github.com/tair/fabstock/internal/provider"
	"github.com/tair/fabstock/internal/remote"
	"github.com/tair/fabstock/pkg/logger"
)

// App is the assembled process.
type App struct {
	Config  config.Config
	Local   *localstore.Store
	Store   *provider.Provider
	Health  *grpcDelivery.HealthServer
	Handler *httpDelivery.Handler
}

// ProvideRegisterer returns the registerer served on /metrics.
func ProvideRegisterer() prometheus.Registerer {
	return prometheus.DefaultRegisterer
}

// ProvideLocalStore opens the local database.
func ProvideLocalStore(cfg config.Config) (*localstore.Store, func(), error) {
	kv, err := localstore.Open(cfg.LocalDBPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Logger.Info().Str("path", cfg.LocalDBPath).Msg("Local store opened")
	return kv, func() { kv.Close() }, nil
}

// ProvideRedis connects to Redis when configured. A nil client disables caching and rate limiting.
func ProvideRedis(ctx context.Context, cfg config.Config) (*redis.Client, func()) {
	if !cfg.RedisEnabled() {
		return nil, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unreachable, continuing without it")
	} else {
		logger.Logger.Info().Str("addr", cfg.RedisAddr).Msg("Connected to Redis")
	}
	return client, func() { client.Close() }
}

// ProvideHealthServer creates the gRPC health server.
func ProvideHealthServer() *grpcDelivery.HealthServer {
	return grpcDelivery.NewHealthServer()
}

// ProvideProvider creates the orchestrator from the persisted settings. It is not started.
func ProvideProvider(ctx context.Context, kv *localstore.Store, connect remote.Connector, hs *grpcDelivery.HealthServer, reg prometheus.Registerer) (*provider.Provider, func()) {
	p := provider.New(provider.Options{
		Local:         kv,
		Connect:       connect,
		Settings:      provider.LoadSettings(ctx, kv),
		Metrics:       provider.NewMetrics(reg),
		OnStateChange: hs.Observe,
	})
	return p, func() {
		if err := p.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close store")
		}
	}
}

// ProvideMailer creates the email dispatch client.
func ProvideMailer(cfg config.Config) *mailer.Client {
	return mailer.New(cfg.EmailJSEndpoint, cfg.AppURL)
}

// ProvideAuthService creates the authentication service.
func ProvideAuthService(cfg config.Config, store *provider.Provider, m *mailer.Client) (*auth.Service, error) {
	return auth.NewService(auth.Config{
		Secret:       cfg.JWTSecret,
		SessionTTL:   cfg.SessionTTL,
		MagicLinkTTL: cfg.MagicLinkTTL,
		AppURL:       cfg.AppURL,
	}, store, m)
}

// ProvideAdvisor creates the AI advisor. Without an API key it runs disabled.
func ProvideAdvisor(ctx context.Context, cfg config.Config, rdb *redis.Client) (*advisor.Advisor, error) {
	var cache advisor.Cache
	if rdb != nil {
		cache = advisor.NewRedisCache(rdb, cfg.ServiceName+":advisor:")
	}

	if cfg.GeminiAPIKey == "" {
		logger.Logger.Warn().Msg("GEMINI_API_KEY not set, assistant disabled")
		return advisor.New(nil, cache), nil
	}

	gen, err := advisor.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}
	return advisor.New(gen, cache), nil
}

// ProvideRateLimiter limits assistant calls per member.
func ProvideRateLimiter(cfg config.Config, rdb *redis.Client) *httpDelivery.RateLimiter {
	return httpDelivery.NewRateLimiter(rdb, cfg.ServiceName+":ratelimit:", cfg.AssistantRateLimit, time.Minute)
}

// ProvideHTTPMetrics registers the request metrics.
func ProvideHTTPMetrics(reg prometheus.Registerer) *httpDelivery.Metrics {
	return httpDelivery.NewMetrics(reg)
}

// ProvideHandler creates the REST handler.
func ProvideHandler(
	store *provider.Provider,
	authn *auth.Service,
	adv *advisor.Advisor,
	m *mailer.Client,
	limiter *httpDelivery.RateLimiter,
	metrics *httpDelivery.Metrics,
) *httpDelivery.Handler {
	return httpDelivery.NewHandler(httpDelivery.Options{
		Store:     store,
		Auth:      authn,
		Assistant: adv,
		Inviter:   m,
		Limiter:   limiter,
		Metrics:   metrics,
	})
}
