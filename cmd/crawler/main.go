package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmassey/grocery-prices/config"
	"github.com/dmassey/grocery-prices/internal/category"
	catalogRepoPkg "github.com/dmassey/grocery-prices/internal/catalog/repository"
	"github.com/dmassey/grocery-prices/internal/crawler"
	postgres "github.com/dmassey/grocery-prices/pkg/database"
	"github.com/dmassey/grocery-prices/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.App.Env == "dev" || cfg.App.Env == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: secondsDuration(cfg.Postgres.ConnMaxLifetime),
		ConnMaxIdleTime: secondsDuration(cfg.Postgres.ConnMaxIdleTime),
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// Graceful shutdown: SIGINT/SIGTERM cancels the run mid-category.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 4. Initialize Store
	repo := catalogRepoPkg.NewPGRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		appLogger.Fatal("Could not ensure database schema", zap.Error(err))
	}

	// 5. Load category list
	categories, err := category.LoadCSV(cfg.Crawler.CategoriesFile)
	if err != nil {
		appLogger.Fatal("Could not load category list", zap.Error(err))
	}
	appLogger.Info("Loaded category list",
		zap.String("file", cfg.Crawler.CategoriesFile),
		zap.Int("count", len(categories)),
	)

	// 6. Wire the crawl pipeline
	sessions := crawler.NewSessionProvider(crawler.SessionProviderConfig{
		BaseURL:        cfg.Upstream.BaseURL,
		UserAgent:      cfg.Upstream.UserAgent,
		RequestTimeout: cfg.Upstream.RequestTimeout,
		SettleDelay:    cfg.Crawler.SessionSettleDelay,
	}, appLogger)

	fetcher := crawler.NewPageFetcher(crawler.FetcherConfig{
		BaseURL:         cfg.Upstream.BaseURL,
		GraphQLPath:     cfg.Upstream.GraphQLPath,
		UserAgent:       cfg.Upstream.UserAgent,
		StoreID:         cfg.Upstream.StoreID,
		ShoppingContext: cfg.Upstream.ShoppingContext,
		PageSize:        cfg.Crawler.PageSize,
	}, appLogger)

	catCrawler := crawler.NewCategoryCrawler(sessions, fetcher, repo, crawler.CrawlerConfig{
		MaxPages:            cfg.Crawler.MaxPages,
		MaxRateLimitRetries: cfg.Crawler.MaxRateLimitRetries,
		PageDelay:           cfg.Crawler.PageDelay,
		RateLimitCooldown:   cfg.Crawler.RateLimitCooldown,
	}, appLogger)

	runner := crawler.NewRunner(catCrawler, repo, cfg.Crawler.CategoryPause, appLogger)

	// 7. Run
	summary := runner.Run(ctx, categories)
	fmt.Println(summary.String())
}

func secondsDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}
