package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Postgres PostgresConfig
	Upstream UpstreamConfig
	Crawler  CrawlerConfig
}

type AppConfig struct {
	Env string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type UpstreamConfig struct {
	BaseURL         string
	GraphQLPath     string
	UserAgent       string
	StoreID         int
	ShoppingContext string
	RequestTimeout  time.Duration
}

type CrawlerConfig struct {
	CategoriesFile      string
	PageSize            int
	MaxPages            int
	MaxRateLimitRetries int
	SessionSettleDelay  time.Duration
	PageDelay           time.Duration
	RateLimitCooldown   time.Duration
	CategoryPause       time.Duration
}

func LoadEnv() *Config {
	return &Config{
		App: AppConfig{
			Env: getEnv("APP_ENV", "dev"),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5432"),
			User:            getEnv("POSTGRES_USER", "grocery"),
			Password:        getEnv("POSTGRES_PASSWORD", "grocery"),
			DBName:          getEnv("POSTGRES_DB", "grocery_prices"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
		},
		Upstream: UpstreamConfig{
			BaseURL:         getEnv("UPSTREAM_BASE_URL", "https://www.heb.com"),
			GraphQLPath:     getEnv("UPSTREAM_GRAPHQL_PATH", "/graphql"),
			UserAgent:       getEnv("UPSTREAM_USER_AGENT", defaultUserAgent),
			StoreID:         getEnvInt("UPSTREAM_STORE_ID", 793),
			ShoppingContext: getEnv("UPSTREAM_SHOPPING_CONTEXT", "CURBSIDE_PICKUP"),
			RequestTimeout:  getEnvDuration("UPSTREAM_REQUEST_TIMEOUT", 30*time.Second),
		},
		Crawler: CrawlerConfig{
			CategoriesFile:      getEnv("CRAWLER_CATEGORIES_FILE", "categories.csv"),
			PageSize:            getEnvInt("CRAWLER_PAGE_SIZE", 50),
			MaxPages:            getEnvInt("CRAWLER_MAX_PAGES", 100),
			MaxRateLimitRetries: getEnvInt("CRAWLER_MAX_RATE_LIMIT_RETRIES", 10),
			SessionSettleDelay:  getEnvDuration("CRAWLER_SESSION_SETTLE_DELAY", 2*time.Second),
			PageDelay:           getEnvDuration("CRAWLER_PAGE_DELAY", 2*time.Second),
			RateLimitCooldown:   getEnvDuration("CRAWLER_RATE_LIMIT_COOLDOWN", 30*time.Second),
			CategoryPause:       getEnvDuration("CRAWLER_CATEGORY_PAUSE", 3*time.Second),
		},
	}
}

// Mimics a desktop browser; the upstream API rejects obvious bot agents.
const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
