//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"github.com/tair/fabstock/internal/config"
)

var InfrastructureSet = wire.NewSet(
	ProvideRegisterer,
	ProvideLocalStore,
	ProvideRedis,
	NewConnector,
)

var SyncSet = wire.NewSet(
	ProvideHealthServer,
	ProvideProvider,
)

var ServiceSet = wire.NewSet(
	ProvideMailer,
	ProvideAuthService,
	ProvideAdvisor,
	ProvideRateLimiter,
	ProvideHTTPMetrics,
	ProvideHandler,
)

// InitializeApp builds the application with all dependencies
func InitializeApp(ctx context.Context, cfg config.Config) (*App, func(), error) {
	wire.Build(
		InfrastructureSet,
		SyncSet,
		ServiceSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
