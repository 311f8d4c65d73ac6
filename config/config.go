package config

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

const EnvPrefix = "FOODFLOW"

const (
	CatalogSourceFixtures = "fixtures"
	CatalogSourcePostgres = "postgres"
)

type Config struct {
	App      AppConfig
	Catalog  CatalogConfig
	DB       DBConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Checkout CheckoutConfig
	Tracking TrackingConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Catalog.Source {
	case CatalogSourceFixtures, CatalogSourcePostgres:
	default:
		return fmt.Errorf("unknown catalog source %q", c.Catalog.Source)
	}
	if c.Tracking.Interval <= 0 {
		return fmt.Errorf("tracking interval must be positive")
	}
	if c.Checkout.TaxRate.IsNegative() {
		return fmt.Errorf("tax rate must not be negative")
	}
	return nil
}

type AppConfig struct {
	Env       string `envconfig:"FOODFLOW_APP_ENV" default:"dev"`
	Port      string `envconfig:"FOODFLOW_APP_PORT" default:"8084"`
	BaseURL   string `envconfig:"FOODFLOW_BASE_URL" default:"http://localhost:8084"`
	LogLevel  string `envconfig:"FOODFLOW_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"FOODFLOW_LOG_FORMAT" default:"json"`

	CORSOrigins     []string `envconfig:"FOODFLOW_CORS_ORIGINS" default:"*"`
	BroadcastBuffer int      `envconfig:"FOODFLOW_BROADCAST_BUFFER" default:"64"`
}

func (a AppConfig) Addr() string {
	return ":" + a.Port
}

type CatalogConfig struct {
	Source string `envconfig:"FOODFLOW_CATALOG_SOURCE" default:"fixtures"`
	UserID string `envconfig:"FOODFLOW_CATALOG_USER_ID" default:"user-1"`
}

type DBConfig struct {
	Host            string        `envconfig:"FOODFLOW_DB_HOST" default:"localhost"`
	Port            int           `envconfig:"FOODFLOW_DB_PORT" default:"5432"`
	Name            string        `envconfig:"FOODFLOW_DB_NAME" default:"foodflow"`
	User            string        `envconfig:"FOODFLOW_DB_USER" default:"postgres"`
	Password        string        `envconfig:"FOODFLOW_DB_PASSWORD"`
	SSLMode         string        `envconfig:"FOODFLOW_DB_SSLMODE" default:"disable"`
	MaxOpenConns    int           `envconfig:"FOODFLOW_DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"FOODFLOW_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"FOODFLOW_DB_CONN_MAX_LIFETIME" default:"1h"`
}

func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Enabled bool   `envconfig:"FOODFLOW_REDIS_ENABLED" default:"false"`
	Host    string `envconfig:"FOODFLOW_REDIS_HOST" default:"localhost"`
	Port    int    `envconfig:"FOODFLOW_REDIS_PORT" default:"6379"`
	Channel string `envconfig:"FOODFLOW_REDIS_CHANNEL" default:"foodflow:state"`
}

func (r RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

type KafkaConfig struct {
	Enabled bool   `envconfig:"FOODFLOW_KAFKA_ENABLED" default:"false"`
	Broker  string `envconfig:"FOODFLOW_KAFKA_BROKER" default:"localhost:9092"`
	Topic   string `envconfig:"FOODFLOW_KAFKA_TOPIC" default:"foodflow.orders"`
}

type CheckoutConfig struct {
	PlacementDelay     time.Duration   `envconfig:"FOODFLOW_CHECKOUT_PLACEMENT_DELAY" default:"1500ms"`
	DeliveryETA        time.Duration   `envconfig:"FOODFLOW_CHECKOUT_DELIVERY_ETA" default:"45m"`
	TaxRate            decimal.Decimal `envconfig:"FOODFLOW_CHECKOUT_TAX_RATE" default:"0.05"`
	DefaultDeliveryFee decimal.Decimal `envconfig:"FOODFLOW_CHECKOUT_DEFAULT_DELIVERY_FEE" default:"30"`
}

type TrackingConfig struct {
	Interval time.Duration `envconfig:"FOODFLOW_TRACKING_INTERVAL" default:"8s"`
}

func NewPostgres(cfg DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

func NewRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr(),
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

func NewKafkaWriter(cfg KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(cfg.Broker),
		Topic:    cfg.Topic,
		Balancer: &kafka.Hash{},
	}
}
