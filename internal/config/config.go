package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Order placement modes.
const (
	OrderModeAtomic = "atomic"
	OrderModeLegacy = "legacy"
)

// Numeric coercion modes for partial updates.
const (
	CoercionStrict = "strict"
	CoercionLegacy = "legacy"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis (email index, idempotency keys). Optional.
	RedisURL string

	// JWT issued after identity provider login
	JWTSecret string
	JWTExpiry time.Duration

	// Identity provider (Cognito)
	AWSRegion       string
	CognitoClientID string

	// Behavior switches
	OrderPlacementMode string
	NumericCoercion    string

	// Audit log hook
	AuditFlushInterval time.Duration
	AuditBufferSize    int

	// Observability
	LogLevel           string
	LogFile            string
	SystemLogRetention time.Duration
	SentryDSN          string
	AppEnv             string
	ServiceName        string
	OTLPEndpoint       string
	TracesStdout       bool

	// Server
	Port        string
	CORSOrigins string
	UploadDir   string
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, relying on environment")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "storefront"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisURL: getEnv("REDIS_URL", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRY", "24h"), 24*time.Hour),

		AWSRegion:       getEnv("AWS_REGION", "ap-southeast-1"),
		CognitoClientID: getEnv("COGNITO_CLIENT_ID", ""),

		OrderPlacementMode: getEnv("ORDER_PLACEMENT_MODE", OrderModeAtomic),
		NumericCoercion:    getEnv("NUMERIC_COERCION", CoercionStrict),

		AuditFlushInterval: parseDuration(getEnv("AUDIT_FLUSH_INTERVAL", "2s"), 2*time.Second),
		AuditBufferSize:    parseInt(getEnv("AUDIT_BUFFER_SIZE", "50"), 50),

		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFile:            getEnv("LOG_FILE", ""),
		SystemLogRetention: parseDuration(getEnv("SYSTEM_LOG_RETENTION", "720h"), 30*24*time.Hour),
		SentryDSN:          getEnv("SENTRY_DSN", ""),
		AppEnv:             getEnv("APP_ENV", "development"),
		ServiceName:        getEnv("SERVICE_NAME", "storefront-backend"),
		OTLPEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		TracesStdout:       getEnv("OTEL_TRACES_STDOUT", "false") == "true",

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
	}
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD environment variable is required")
	}
	switch c.OrderPlacementMode {
	case OrderModeAtomic, OrderModeLegacy:
	default:
		return fmt.Errorf("unknown ORDER_PLACEMENT_MODE %q", c.OrderPlacementMode)
	}
	switch c.NumericCoercion {
	case CoercionStrict, CoercionLegacy:
	default:
		return fmt.Errorf("unknown NUMERIC_COERCION %q", c.NumericCoercion)
	}
	return nil
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
