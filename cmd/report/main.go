package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmassey/grocery-prices/config"
	reportRepoPkg "github.com/dmassey/grocery-prices/internal/report/repository"
	reportUCPkg "github.com/dmassey/grocery-prices/internal/report/usecase"
	postgres "github.com/dmassey/grocery-prices/pkg/database"
	"github.com/dmassey/grocery-prices/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     true,
		Encoding:          "console",
		Level:             cfg.Logger.Level,
		DisableCaller:     true,
		DisableStacktrace: true,
	})
	defer appLogger.Sync()

	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	repo := reportRepoPkg.NewPGRepository(db)
	uc := reportUCPkg.NewReportUseCase(repo, appLogger)

	text, err := uc.BuildReport(ctx)
	if err != nil {
		appLogger.Fatal("Could not build report", zap.Error(err))
	}
	fmt.Println(text)
}
