package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"finassist/pkg/errors"
)

type Config struct {
	App           AppConfig
	Postgres      PostgresConfig
	ClickHouse    ClickHouseConfig
	Redis         RedisConfig
	AI            AIConfig
	MarketData    MarketDataConfig
	NewsFeed      NewsFeedConfig
	ErrorTracking ErrorTrackingConfig
	Orchestrator  OrchestratorConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"finassist"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" required:"true"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	Database string `envconfig:"POSTGRES_DB" required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"25"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// ClickHouseConfig points at the ClickHouse instance backing NewsGraph's
// embedding-similarity search over the article corpus.
type ClickHouseConfig struct {
	Host     string `envconfig:"CLICKHOUSE_HOST" required:"true"`
	Port     int    `envconfig:"CLICKHOUSE_PORT" default:"9000"`
	User     string `envconfig:"CLICKHOUSE_USER" default:"default"`
	Password string `envconfig:"CLICKHOUSE_PASSWORD"`
	Database string `envconfig:"CLICKHOUSE_DB" default:"finassist"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" required:"true"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AIConfig holds the language-model and embedding provider credentials.
type AIConfig struct {
	OpenAIKey      string `envconfig:"OPENAI_API_KEY" required:"true"`
	ChatModel      string `envconfig:"OPENAI_CHAT_MODEL" default:"gpt-4o-mini"`
	EmbeddingModel string `envconfig:"OPENAI_EMBEDDING_MODEL" default:"text-embedding-3-small"`
}

// MarketDataConfig points at the upstream quote provider DataAgent calls
// through the MarketData capability.
type MarketDataConfig struct {
	BaseURL string        `envconfig:"MARKET_DATA_BASE_URL" required:"true"`
	APIKey  string        `envconfig:"MARKET_DATA_API_KEY"`
	Timeout time.Duration `envconfig:"MARKET_DATA_TIMEOUT" default:"10s"`
}

// NewsFeedConfig points at the live news search endpoint NewsAgent
// merges with the news graph's stored corpus.
type NewsFeedConfig struct {
	BaseURL string        `envconfig:"NEWS_FEED_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"NEWS_FEED_TIMEOUT" default:"10s"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// OrchestratorConfig carries the tunables spec §6 exposes as environment
// overrides on top of orchestrator.DefaultConfig's hardcoded defaults.
type OrchestratorConfig struct {
	WorkerPoolSize int           `envconfig:"ORCHESTRATOR_WORKER_POOL_SIZE" default:"8"`
	RequestTimeout time.Duration `envconfig:"ORCHESTRATOR_REQUEST_TIMEOUT" default:"120s"`
	MaxGraphHops   int           `envconfig:"ORCHESTRATOR_MAX_GRAPH_HOPS" default:"32"`
}

// Load reads configuration from environment variables. It first tries to
// load a .env file, ignoring the error if one isn't present (useful for
// local development).
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
