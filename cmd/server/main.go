package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	httpAdapter "github.com/mitraisp/mitrabooks/internal/adapter/http"
	"github.com/mitraisp/mitrabooks/internal/adapter/http/handler"
	postgresRepo "github.com/mitraisp/mitrabooks/internal/adapter/repository/postgres"
	redisRepo "github.com/mitraisp/mitrabooks/internal/adapter/repository/redis"
	"github.com/mitraisp/mitrabooks/internal/infrastructure/config"
	"github.com/mitraisp/mitrabooks/internal/infrastructure/logger"
	"github.com/mitraisp/mitrabooks/internal/infrastructure/postgres"
	"github.com/mitraisp/mitrabooks/internal/infrastructure/redis"
	"github.com/mitraisp/mitrabooks/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx := context.Background()

	// Database
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	ruleRepo := postgresRepo.NewRuleRepository(pool)
	periodRepo := postgresRepo.NewPeriodRepository(pool)
	journalRepo := postgresRepo.NewJournalRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log)

	var ruleCache usecase.RuleCache
	if cfg.RuleCacheTTL > 0 {
		ruleCache = redisRepo.NewRuleCache(redisClient)
	}

	// Use cases
	accountUC := usecase.NewAccountUseCase(accountRepo, ruleRepo, journalRepo, idGen)
	ruleUC := usecase.NewRuleUseCase(ruleRepo, ruleCache, cfg.RuleCacheTTL, idGen)
	periodUC := usecase.NewPeriodUseCase(txManager, periodRepo, retrier, idGen)
	postingUC := usecase.NewPostingUseCase(txManager, periodRepo, accountRepo, journalRepo, ruleUC, retrier, idGen)
	journalUC := usecase.NewJournalUseCase(journalRepo)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo)

	// Handlers
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   handler.NewAccountHandler(accountUC),
		PeriodHandler:    handler.NewPeriodHandler(periodUC),
		RuleHandler:      handler.NewRuleHandler(ruleUC),
		EventHandler:     handler.NewEventHandler(postingUC),
		JournalHandler:   handler.NewJournalHandler(journalUC, postingUC),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		Logger:           log,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}
