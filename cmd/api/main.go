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

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"budgetwise/internal/categorization"
	"budgetwise/internal/config"
	"budgetwise/internal/database"
	"budgetwise/internal/logger"
	"budgetwise/internal/queue"
	"budgetwise/internal/repository"
	"budgetwise/internal/repository/memory"
	"budgetwise/internal/services"
)

// @title           BudgetWise API
// @version         1.0
// @description     BudgetWise tracks budgets, categories and transactions, imports bank CSV exports and categorizes spending.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 10 * time.Second

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	store, ping, closeStore, err := openStore(appConfig)
	if err != nil {
		return err
	}
	defer closeStore()

	// Optional categorization: the queue hands work to the worker, the
	// OpenRouter client categorizes and reads invoices inline.
	var txOptions []services.TransactionOption
	if appConfig.OpenRouterAPIKey != "" {
		categorizer, err := categorization.NewOpenRouter(categorization.Config{
			APIKey:       appConfig.OpenRouterAPIKey,
			Model:        appConfig.OpenRouterModel,
			InvoiceModel: appConfig.OpenRouterInvoiceModel,
			Recorder:     services.NewLLMUsageService(store),
		})
		if err != nil {
			return fmt.Errorf("failed to create categorizer: %w", err)
		}
		txOptions = append(txOptions, services.WithCategorizer(categorizer), services.WithInvoiceParser(categorizer))
		log.Infow("LLM categorization enabled",
			"model", appConfig.OpenRouterModel,
			"invoice_model", appConfig.OpenRouterInvoiceModel)
	}
	if appConfig.AMQPURL != "" {
		jobs, err := queue.NewClient(appConfig.AMQPURL, "", "")
		if err != nil {
			return fmt.Errorf("failed to connect to message broker: %w", err)
		}
		defer func() { _ = jobs.Close() }()
		txOptions = append(txOptions, services.WithCategorizationQueue(jobs))
		log.Infow("Categorization queue enabled", "queue", queue.DefaultQueue)
	}

	router := newRouter(appConfig, store, ping, txOptions...)

	server := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("Starting BudgetWise API on port %s (storage: %s)", appConfig.Port, appConfig.StorageDriver)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStore returns the repositories for the configured driver, a ping
// function (nil for memory) and a close function.
func openStore(cfg *config.Config) (repository.Store, func(context.Context) error, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Get().Warn("Using in-memory storage: data is lost on restart")
		return memory.NewStore(), nil, func() {}, nil
	}

	dbManager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return repository.Store{}, nil, nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.Migrate(); err != nil {
		_ = dbManager.Close()
		return repository.Store{}, nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	closeFn := func() {
		if err := dbManager.Close(); err != nil {
			logger.Get().Warnw("Failed to close database", "error", err)
		}
	}
	return dbManager.Store(), dbManager.Ping, closeFn, nil
}
