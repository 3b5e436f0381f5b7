package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tair/fabstock/internal/advisor"
	"github.com/tair/fabstock/internal/mailer"
)

// Notification drivers for remote change events.
const (
	NotifyPostgres = "postgres"
	NotifyRedis    = "redis"
	NotifyKafka    = "kafka"
	NotifyMemory   = "memory"
)

// Config holds process configuration read from the environment.
type Config struct {
	Environment string
	LogLevel    string
	ServiceName string
	HTTPPort    string
	GRPCPort    string
	LocalDBPath string

	TracingEnabled bool
	JaegerEndpoint string

	JWTSecret    string
	SessionTTL   time.Duration
	MagicLinkTTL time.Duration
	AppURL       string

	GeminiAPIKey       string
	GeminiModel        string
	AssistantRateLimit int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	NotifyDriver string
	KafkaBrokers []string

	EmailJSEndpoint    string
	CORSAllowedOrigins []string
}

// IsDevelopment reports whether the process runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Environment != "production"
}

// RedisEnabled reports whether a Redis address was configured.
func (c Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		ServiceName: getEnv("SERVICE_NAME", "fabstock"),
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		GRPCPort:    getEnv("GRPC_PORT", "9090"),
		LocalDBPath: getEnv("LOCAL_DB_PATH", "fabstock.db"),

		TracingEnabled: getBool("TRACING_ENABLED", true),
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		SessionTTL:   getDuration("SESSION_TTL", 24*time.Hour),
		MagicLinkTTL: getDuration("MAGIC_LINK_TTL", 15*time.Minute),
		AppURL:       strings.TrimRight(getEnv("APP_URL", "http://localhost:8080"), "/"),

		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", advisor.DefaultModel),
		AssistantRateLimit: getInt("ASSISTANT_RATE_LIMIT", 20),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),

		NotifyDriver: strings.ToLower(getEnv("NOTIFY_DRIVER", NotifyPostgres)),
		KafkaBrokers: getList("KAFKA_BROKERS", []string{"localhost:9092"}),

		EmailJSEndpoint:    getEnv("EMAILJS_ENDPOINT", mailer.DefaultEndpoint),
		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
