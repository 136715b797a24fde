package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment override, e.g. SMC_DATABASE_PASSWORD
const EnvPrefix = "SMC"

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
)

type Config struct {
	Server     ServerConfig     `toml:"server" envconfig:"SERVER"`
	Storage    StorageConfig    `toml:"storage" envconfig:"STORAGE"`
	Database   DatabaseConfig   `toml:"database" envconfig:"DATABASE"`
	Mongo      MongoConfig      `toml:"mongo" envconfig:"MONGO"`
	Redis      RedisConfig      `toml:"redis" envconfig:"REDIS"`
	RabbitMQ   RabbitMQConfig   `toml:"rabbitmq" envconfig:"RABBITMQ"`
	Auth       AuthConfig       `toml:"auth" envconfig:"AUTH"`
	Logs       LogsConfig       `toml:"logs" envconfig:"LOGS"`
	Metrics    MetricsConfig    `toml:"metrics" envconfig:"METRICS"`
	RateLimit  RateLimitConfig  `toml:"ratelimit" envconfig:"RATELIMIT"`
	CORS       CORSConfig       `toml:"cors" envconfig:"CORS"`
	Scheduling SchedulingConfig `toml:"scheduling" envconfig:"SCHEDULING"`
}

// ServerConfig timeouts are in seconds
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" envconfig:"HTTP_PORT"`
	ReadTimeout     int `toml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    int `toml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     int `toml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout int `toml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// StorageConfig selects the persistence gateway
type StorageConfig struct {
	Driver string `toml:"driver" envconfig:"DRIVER"` // postgres | mongo | memory
}

type DatabaseConfig struct {
	Host            string `toml:"host" envconfig:"HOST"`
	Port            int    `toml:"port" envconfig:"PORT"`
	User            string `toml:"user" envconfig:"USER"`
	Password        string `toml:"password" envconfig:"PASSWORD"`
	DBName          string `toml:"dbname" envconfig:"DBNAME"`
	SSLMode         string `toml:"sslmode" envconfig:"SSLMODE"`
	MaxOpenConns    int    `toml:"max_open_conns" envconfig:"MAX_OPEN_CONNS"`
	MaxIdleConns    int    `toml:"max_idle_conns" envconfig:"MAX_IDLE_CONNS"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" envconfig:"CONN_MAX_LIFETIME"` // seconds
}

// DSN builds a lib/pq connection string
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}

type MongoConfig struct {
	URI      string `toml:"uri" envconfig:"URI"`
	Database string `toml:"database" envconfig:"DATABASE"`
	Timeout  int    `toml:"timeout" envconfig:"TIMEOUT"` // seconds
}

// RedisConfig backs the month availability cache; disabled means no cache
type RedisConfig struct {
	Enabled  bool   `toml:"enabled" envconfig:"ENABLED"`
	Addr     string `toml:"addr" envconfig:"ADDR"`
	Password string `toml:"password" envconfig:"PASSWORD"`
	DB       int    `toml:"db" envconfig:"DB"`
}

// RabbitMQConfig: lifecycle events go out on Exchange, payment outcomes come in on PaymentExchange
type RabbitMQConfig struct {
	Enabled         bool   `toml:"enabled" envconfig:"ENABLED"`
	URL             string `toml:"url" envconfig:"URL"`
	Exchange        string `toml:"exchange" envconfig:"EXCHANGE"`
	PaymentExchange string `toml:"payment_exchange" envconfig:"PAYMENT_EXCHANGE"`
	PaymentQueue    string `toml:"payment_queue" envconfig:"PAYMENT_QUEUE"`
	Prefetch        int    `toml:"prefetch" envconfig:"PREFETCH"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret" envconfig:"JWT_SECRET"`
	Issuer    string `toml:"issuer" envconfig:"ISSUER"`
}

type LogsConfig struct {
	File  string `toml:"file" envconfig:"FILE"`
	Level string `toml:"level" envconfig:"LEVEL"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" envconfig:"ENABLED"`
	Path        string `toml:"path" envconfig:"PATH"`
	ServiceName string `toml:"service_name" envconfig:"SERVICE_NAME"`
}

type RateLimitConfig struct {
	Enabled bool    `toml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `toml:"rps" envconfig:"RPS"`
	Burst   int     `toml:"burst" envconfig:"BURST"`
	IdleTTL int     `toml:"idle_ttl" envconfig:"IDLE_TTL"` // seconds
}

type CORSConfig struct {
	AllowedOrigins   []string `toml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	AllowCredentials bool     `toml:"allow_credentials" envconfig:"ALLOW_CREDENTIALS"`
}

type SchedulingConfig struct {
	Timezone string `toml:"timezone" envconfig:"TIMEZONE"`
	CacheTTL int    `toml:"cache_ttl" envconfig:"CACHE_TTL"` // seconds
}

// Location resolves the timezone "now" is evaluated in
func (s SchedulingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

// Default returns a configuration that runs locally with the in-memory store
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Storage: StorageConfig{Driver: StorageMemory},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "event_scheduling",
			Timeout:  10,
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		RabbitMQ: RabbitMQConfig{
			Exchange:        "booking.exchange",
			PaymentExchange: "payment.exchange",
			PaymentQueue:    "scheduling.payment.q",
			Prefetch:        10,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "event-scheduling",
		},
		RateLimit: RateLimitConfig{
			RPS:     10,
			Burst:   20,
			IdleTTL: 600,
		},
		Scheduling: SchedulingConfig{
			Timezone: "UTC",
			CacheTTL: 300,
		},
	}
}

// Load reads path on top of the defaults, then .env, then SMC_* environment overrides.
// A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("config: decode %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: stat %s: %w", path, err)
		}
	}

	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		add("server.http_port must be 1-65535")
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
			add("database.host, database.dbname and database.user are required for the postgres driver")
		}
	case StorageMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			add("mongo.uri and mongo.database are required for the mongo driver")
		}
	default:
		add("storage.driver must be one of %s, %s, %s", StoragePostgres, StorageMongo, StorageMemory)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		add("redis.addr is required when redis is enabled")
	}
	if c.RabbitMQ.Enabled && (c.RabbitMQ.URL == "" || c.RabbitMQ.Exchange == "") {
		add("rabbitmq.url and rabbitmq.exchange are required when rabbitmq is enabled")
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		add("auth.jwt_secret is required")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		add("ratelimit.rps and ratelimit.burst must be positive")
	}
	if _, err := c.Scheduling.Location(); err != nil {
		add("scheduling.timezone: %v", err)
	}
	if c.Scheduling.CacheTTL < 0 {
		add("scheduling.cache_ttl must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: invalid: %s", strings.Join(problems, "; "))
	}
	return nil
}
