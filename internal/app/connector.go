package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tair/fabstock/internal/config"
	"github.com/tair/fabstock/internal/domain"
	"github.com/tair/fabstock/internal/remote"
	"github.com/tair/fabstock/kafka"
	"github.com/tair/fabstock/pkg/database"
	"github.com/tair/fabstock/pkg/logger"
)

const (
	breakerMaxFailures = 5
	breakerCooldown    = 30 * time.Second
)

// NewConnector returns the remote.Connector used by the orchestrator. Each call opens
// a PostgreSQL connection from the endpoint URL and key, makes sure the collection
// tables exist and attaches the configured change notifier.
func NewConnector(cfg config.Config, rdb *redis.Client) remote.Connector {
	return func(ctx context.Context, url, key string) (remote.Client, error) {
		dbCfg, err := database.ConfigFromURL(url, key)
		if err != nil {
			return nil, &domain.ConfigurationError{Message: "invalid remote endpoint", Err: err}
		}

		db, err := database.NewGormConnection(ctx, dbCfg)
		if err != nil {
			return nil, &domain.RemoteError{Op: "connect", Err: err}
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, &domain.RemoteError{Op: "connect", Err: err}
		}

		if err := remote.EnsureTables(db); err != nil {
			sqlDB.Close()
			return nil, &domain.RemoteError{Op: "connect", Err: err}
		}

		// Notifiers outlive the call that opened them.
		notifier, err := newNotifier(context.WithoutCancel(ctx), cfg, rdb, db, dbCfg)
		if err != nil {
			sqlDB.Close()
			var configErr *domain.ConfigurationError
			if errors.As(err, &configErr) {
				return nil, err
			}
			return nil, &domain.RemoteError{Op: "connect", Err: err}
		}

		store := remote.NewStore(db, notifier,
			remote.WithBreaker(remote.NewBreaker("remote-store", breakerMaxFailures, breakerCooldown)),
			remote.WithCloser(sqlDB.Close),
		)

		logger.Info(ctx).
			Str("host", dbCfg.Host).
			Str("database", dbCfg.DBName).
			Str("notify_driver", cfg.NotifyDriver).
			Msg("Remote backend connected")
		return remote.NewTracingClient(store), nil
	}
}

func newNotifier(ctx context.Context, cfg config.Config, rdb *redis.Client, db *gorm.DB, dbCfg database.Config) (remote.Notifier, error) {
	switch cfg.NotifyDriver {
	case config.NotifyPostgres:
		if err := remote.InstallChangeTriggers(db); err != nil {
			return nil, err
		}
		pg, err := remote.NewPgNotifier(dbCfg.DSN())
		if err != nil {
			return nil, err
		}
		return pg, nil

	case config.NotifyRedis:
		if rdb == nil {
			return nil, &domain.ConfigurationError{Message: fmt.Sprintf("notify driver %q requires REDIS_ADDR", cfg.NotifyDriver)}
		}
		rn, err := remote.NewRedisNotifier(ctx, rdb)
		if err != nil {
			return nil, err
		}
		return rn, nil

	case config.NotifyKafka:
		publisher, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.ServiceName)
		if err != nil {
			return nil, err
		}
		// A group per process so every instance sees every change.
		consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.ServiceName+"-"+uuid.NewString(), []string{kafka.TopicTableChanges})
		if err != nil {
			publisher.Close()
			return nil, err
		}
		return kafka.NewNotifier(ctx, publisher, consumer), nil

	case config.NotifyMemory:
		return remote.NewHub(), nil

	default:
		return nil, &domain.ConfigurationError{Message: fmt.Sprintf("unknown notify driver %q", cfg.NotifyDriver)}
	}
}
