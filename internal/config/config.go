package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Env  string `validate:"required,oneof=development stage production"`
	Http Http
	Log  Log

	Cors CORS `validate:"required"`

	Storage  Storage
	Postgres Postgres `validate:"required"`
	Mongo    Mongo    `validate:"required"`

	Redis Redis `validate:"required"`
	Kafka Kafka `validate:"required"`

	Auth    Auth    `validate:"required"`
	Cache   Cache   `validate:"required"`
	Momo    Momo    `validate:"required"`
	Sweeper Sweeper `validate:"required"`
}

type Http struct {
	Host string `validate:"required,hostname|ip"`
	Port string `validate:"required,gt=0,lte=65535"`
}

type Log struct {
	// File enables a rotating log file next to stdout when set.
	File       string
	MaxSizeMB  int `validate:"gte=0"`
	MaxBackups int `validate:"gte=0"`
}

type Storage struct {
	Driver string `validate:"required,oneof=postgres mongo"`
}

type Kafka struct {
	GroupID string   `validate:"required"`
	Brokers []string `validate:"required,min=1,dive,hostname_port"`

	RestockTopic string `validate:"required"`
	EventsTopic  string `validate:"required"`

	ReaderMaxWait time.Duration `validate:"gte=0"`
	BatchTimeout  time.Duration `validate:"gte=0"`
}

type Postgres struct {
	Host     string `validate:"required,hostname|ip"`
	Port     int    `validate:"required,gt=0,lte=65535"`
	DBName   string `validate:"required"`
	User     string `validate:"required"`
	Password string `validate:"required"`

	SSLMode string `validate:"required,oneof=disable require verify-ca verify-full"`

	MaxOpenConns    int           `validate:"gte=1"`
	MaxIdleConns    int           `validate:"gte=0"`
	ConnMaxLifetime time.Duration `validate:"gte=0"`

	// AutoMigrate applies the embedded schema migrations on startup.
	AutoMigrate bool
}

type Mongo struct {
	URI      string `validate:"required,uri"`
	Database string `validate:"required"`
}

type Redis struct {
	Addr     string `validate:"required,hostname_port"`
	Password string
	DB       int `validate:"gte=0"`

	IdempotencyTTL time.Duration `validate:"gt=0"`
}

type Auth struct {
	JWTSecret string `validate:"required,min=16"`
}

type Cache struct {
	Capacity int           `validate:"gt=0"`
	TTL      time.Duration `validate:"gt=0"`
}

type Momo struct {
	Endpoint    string `validate:"required,url"`
	PartnerCode string `validate:"required"`
	AccessKey   string `validate:"required"`
	SecretKey   string `validate:"required"`
	RedirectURL string `validate:"required,url"`
	IPNURL      string `validate:"required,url"`
	RequestType string `validate:"required"`
	Lang        string `validate:"oneof=vi en"`

	Timeout time.Duration `validate:"gt=0"`
}

type Sweeper struct {
	Interval  time.Duration `validate:"gt=0"`
	Deadline  time.Duration `validate:"gt=0"`
	BatchSize int           `validate:"gt=0"`
}

type CORS struct {
	AllowedOrigins []string `validate:"required,min=1,dive,url"`
}

func New() Config {
	return Config{
		Env: env("ENV", "development"),

		Http: Http{
			Host: env("HOST", "localhost"),
			Port: env("PORT", "8080"),
		},

		Log: Log{
			File:       env("LOG_FILE", ""),
			MaxSizeMB:  envInt("LOG_MAX_SIZE_MB", 50),
			MaxBackups: envInt("LOG_MAX_BACKUPS", 3),
		},

		Cors: CORS{
			AllowedOrigins: strings.Split(env("ALLOWED_CORS_ORIGINS", "http://localhost:3000"), ","),
		},

		Storage: Storage{
			Driver: env("STORAGE_DRIVER", DriverPostgres),
		},

		Kafka: Kafka{
			GroupID: env("KAFKA_GROUP_ID", "order-service"),
			Brokers: strings.Split(env("KAFKA_BROKERS", "localhost:9092"), ","),

			RestockTopic: env("KAFKA_RESTOCK_TOPIC", "inventory-restock"),
			EventsTopic:  env("KAFKA_EVENTS_TOPIC", "order-events"),

			ReaderMaxWait: envDuration("KAFKA_READER_MAX_WAIT", 10*time.Millisecond),
			BatchTimeout:  envDuration("KAFKA_BATCH_TIMEOUT", 10*time.Millisecond),
		},

		Postgres: Postgres{
			Port:     envInt("POSTGRES_PORT", 5432),
			Host:     env("POSTGRES_HOST", "localhost"),
			DBName:   env("POSTGRES_DB", "lapzone"),
			User:     env("POSTGRES_USER", ""),
			Password: env("POSTGRES_PASSWORD", ""),

			SSLMode: env("POSTGRES_SSL_MODE", "disable"),

			MaxOpenConns:    envInt("POSTGRES_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("POSTGRES_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: envDuration("POSTGRES_CONN_MAX_LIFETIME", 5*time.Minute),

			AutoMigrate: envBool("POSTGRES_AUTO_MIGRATE", true),
		},

		Mongo: Mongo{
			URI:      env("MONGO_URI", "mongodb://localhost:27017"),
			Database: env("MONGO_DATABASE", "lapzone"),
		},

		Redis: Redis{
			Addr:     env("REDIS_ADDR", "localhost:6379"),
			Password: env("REDIS_PASSWORD", ""),
			DB:       envInt("REDIS_DB", 0),

			IdempotencyTTL: envDuration("IDEMPOTENCY_TTL", 24*time.Hour),
		},

		Auth: Auth{
			JWTSecret: env("JWT_SECRET", ""),
		},

		Cache: Cache{
			Capacity: envInt("CACHE_CAPACITY", 1000),
			TTL:      envDuration("CACHE_TTL", 10*time.Minute),
		},

		Momo: Momo{
			Endpoint:    env("MOMO_ENDPOINT", "https://test-payment.momo.vn/v2/gateway/api/create"),
			PartnerCode: env("MOMO_PARTNER_CODE", ""),
			AccessKey:   env("MOMO_ACCESS_KEY", ""),
			SecretKey:   env("MOMO_SECRET_KEY", ""),
			RedirectURL: env("MOMO_REDIRECT_URL", "http://localhost:3000/payment/result"),
			IPNURL:      env("MOMO_IPN_URL", "http://localhost:8080/payments/momo/ipn"),
			RequestType: env("MOMO_REQUEST_TYPE", "captureWallet"),
			Lang:        env("MOMO_LANG", "vi"),
			Timeout:     envDuration("MOMO_TIMEOUT", 30*time.Second),
		},

		Sweeper: Sweeper{
			Interval:  envDuration("SWEEPER_INTERVAL", time.Hour),
			Deadline:  envDuration("SWEEPER_DEADLINE", 100*time.Minute),
			BatchSize: envInt("SWEEPER_BATCH_SIZE", 100),
		},
	}
}

// Validate checks the config. Only the selected storage backend is required.
func (c Config) Validate() error {
	validate := validator.New()
	if c.Storage.Driver == DriverMongo {
		return validate.StructExcept(c, "Postgres")
	}
	return validate.StructExcept(c, "Mongo")
}

func env(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}
