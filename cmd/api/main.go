package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "expense-workflow/internal/adapter/http"
	mw "expense-workflow/internal/adapter/middleware"
	mysqlrepo "expense-workflow/internal/adapter/repository/mysql"
	"expense-workflow/internal/config"
	"expense-workflow/internal/currency"
	"expense-workflow/internal/infrastructure/cache"
	"expense-workflow/internal/infrastructure/db"
	"expense-workflow/internal/infrastructure/logger"
	"expense-workflow/internal/usecase/company"
	"expense-workflow/internal/usecase/expense"
	"expense-workflow/internal/usecase/rule"
	"expense-workflow/internal/usecase/user"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, OutputPath: cfg.LogOutput})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	gdb, err := db.Open(cfg.DBDriver, cfg.DSN(), cfg.DBLogLevel)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rdb, err := cache.OpenRedis(context.Background(), cache.RedisConfig{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	var store currency.Store = currency.NewMemoryStore()
	if cfg.RateCacheBackend == "redis" {
		store = cache.NewRedisRateStore(rdb)
	}
	source := currency.NewHTTPSource(cfg.CurrencyAPIBaseURL, cfg.RestCountriesURL, cfg.UpstreamTimeout())
	rates := currency.NewRateCache(source, store, cfg.CurrencyCacheTTL(), log.Named("fx"))

	repos := mysqlrepo.Repos(gdb)
	tx := mysqlrepo.NewGormUoW(gdb)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	httpadp.Register(e, httpadp.Routes{
		Health:      httpadp.NewHandler(sqlDB),
		Companies:   httpadp.NewCompanyHandler(company.NewUsecase(repos.Companies, tx, rates, log.Named("company"))),
		Users:       httpadp.NewUserHandler(user.NewUsecase(repos.Users, log.Named("user"))),
		Expenses:    httpadp.NewExpenseHandler(expense.NewUsecase(repos, tx, currency.NewConverter(rates), log.Named("expense"))),
		Rules:       httpadp.NewRuleHandler(rule.NewUsecase(repos.Rules, log.Named("rule"))),
		Directory:   repos.Users,
		Idempotency: mw.Idempotency(rdb, cfg.IdempotencyTTL(), log.Named("idempotency")),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.AppPort
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("db_driver", cfg.DBDriver), zap.String("rate_cache", cfg.RateCacheBackend))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
