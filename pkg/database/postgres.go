package database

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tair/fabstock/pkg/logger"
)

// Config holds database configuration
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	// ConnectTimeout bounds each dial. Zero leaves it to the driver.
	ConnectTimeout time.Duration
}

// DefaultConnectTimeout applies to endpoints built by ConfigFromURL.
const DefaultConnectTimeout = 10 * time.Second

// DSN renders the keyword/value connection string understood by both pgx and lib/pq.
func (c Config) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, quote(c.Password), c.DBName, c.SSLMode,
	)
	if secs := int(c.ConnectTimeout.Round(time.Second) / time.Second); secs > 0 {
		dsn += fmt.Sprintf(" connect_timeout=%d", secs)
	}
	return dsn
}

func quote(v string) string {
	if v == "" || strings.ContainsAny(v, ` '\`) {
		return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v) + "'"
	}
	return v
}

// ConfigFromURL builds a Config from a postgres:// endpoint URL and an API key used as the password.
func ConfigFromURL(rawURL, key string) (Config, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Config{}, fmt.Errorf("invalid endpoint URL: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return Config{}, fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return Config{}, fmt.Errorf("endpoint URL has no host")
	}

	cfg := Config{
		Host:     u.Hostname(),
		Port:     u.Port(),
		User:     u.User.Username(),
		Password: strings.TrimSpace(key),
		DBName:   strings.TrimPrefix(u.Path, "/"),
		SSLMode:  u.Query().Get("sslmode"),

		ConnectTimeout: DefaultConnectTimeout,
	}
	if cfg.Port == "" {
		cfg.Port = "5432"
	}
	if cfg.User == "" {
		cfg.User = "postgres"
	}
	if cfg.DBName == "" {
		cfg.DBName = "postgres"
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "require"
	}
	return cfg, nil
}

// NewGormConnection opens a GORM connection to PostgreSQL and verifies it within ctx
func NewGormConnection(ctx context.Context, cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Logger.Info().
		Str("host", cfg.Host).
		Str("database", cfg.DBName).
		Msg("Successfully connected to PostgreSQL database")
	return db, nil
}
