package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/MiguelMaleico/credit360-smart-market/pkg/kafka"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/postgres"
)

// Storage and session backends.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
}

// Postgres converts to the shared pool configuration.
func (c DatabaseConfig) Postgres() postgres.Config {
	return postgres.Config{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		Database: c.Name,
		SSLMode:  c.SSLMode,
		MaxConns: int32(c.MaxConns),
	}
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
}

// Client converts to the shared Kafka client configuration.
func (c KafkaConfig) Client() kafka.Config {
	return kafka.Config{Brokers: c.Brokers, ConsumerGroup: c.ConsumerGroup}
}

// Enabled reports whether events leave the process.
func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 }

type JWTConfig struct {
	Secret string
	// PrivateKeyFile switches token signing to RS256 when set.
	PrivateKeyFile string
	Issuer         string
	Expiration     time.Duration
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

// Enabled reports whether the gRPC listener serves TLS.
func (c TLSConfig) Enabled() bool { return c.CertFile != "" && c.KeyFile != "" }

type Config struct {
	ServiceName string
	HTTPPort    int
	GRPCPort    int

	StorageDriver string
	SessionStore  string
	DB            DatabaseConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	JWT           JWTConfig
	GRPCTLS       TLSConfig

	// GRPCReflection exposes the reflection service for tools like grpcurl.
	GRPCReflection bool

	OTLPEndpoint         string
	ConsentSweepSchedule string
	RateLimitRPS         int
	LogLevel             string
	LogFormat            string
	SeedDemoData         bool
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("ignoring unreadable .env file", "error", err)
	}

	return Config{
		ServiceName: getEnv("SERVICE_NAME", "credit360-marketplace"),
		HTTPPort:    getEnvInt("HTTP_PORT", 8080),
		GRPCPort:    getEnvInt("GRPC_PORT", 9090),

		StorageDriver: getEnv("STORAGE_DRIVER", DriverMemory),
		SessionStore:  getEnv("SESSION_STORE", DriverMemory),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "credit360"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "credit360_marketplace"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers:       kafka.ParseBrokers(getEnv("KAFKA_BROKERS", "")),
			Topic:         getEnv("KAFKA_TOPIC", "credit360.marketplace.events"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "credit360-notifications"),
		},
		JWT: JWTConfig{
			Secret:         getEnv("JWT_SECRET", ""),
			PrivateKeyFile: getEnv("JWT_PRIVATE_KEY_FILE", ""),
			Issuer:         getEnv("JWT_ISSUER", "credit360"),
			Expiration:     getEnvDuration("JWT_EXPIRATION", 24*time.Hour),
		},
		GRPCTLS: TLSConfig{
			CertFile: getEnv("GRPC_TLS_CERT", ""),
			KeyFile:  getEnv("GRPC_TLS_KEY", ""),
		},
		GRPCReflection: getEnvBool("GRPC_REFLECTION", false),

		OTLPEndpoint:         getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ConsentSweepSchedule: getEnv("CONSENT_SWEEP_SCHEDULE", "@every 1h"),
		RateLimitRPS:         getEnvInt("RATE_LIMIT_RPS", 20),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "json"),
		SeedDemoData:         getEnvBool("SEED_DEMO_DATA", true),
	}
}

// Validate reports inconsistent settings.
func (c Config) Validate() error {
	var errs []error
	switch c.StorageDriver {
	case DriverMemory:
	case DriverPostgres:
		if c.DB.Password == "" {
			errs = append(errs, errors.New("DB_PASSWORD is required when STORAGE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver))
	}
	switch c.SessionStore {
	case DriverMemory:
	case DriverRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when SESSION_STORE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported SESSION_STORE %q", c.SessionStore))
	}
	if c.JWT.Secret == "" && c.JWT.PrivateKeyFile == "" {
		errs = append(errs, errors.New("JWT_SECRET or JWT_PRIVATE_KEY_FILE is required"))
	}
	if c.JWT.Expiration <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION must be positive"))
	}
	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		errs = append(errs, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set"))
	}
	if (c.GRPCTLS.CertFile == "") != (c.GRPCTLS.KeyFile == "") {
		errs = append(errs, errors.New("GRPC_TLS_CERT and GRPC_TLS_KEY must be set together"))
	}
	if c.RateLimitRPS < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS must not be negative"))
	}
	return errors.Join(errs...)
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
