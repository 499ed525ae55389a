// Command categorize-worker consumes categorization jobs from RabbitMQ and
// assigns categories to imported transactions with the LLM categorizer.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"budgetwise/internal/categorization"
	"budgetwise/internal/config"
	"budgetwise/internal/database"
	apperrors "budgetwise/internal/errors"
	"budgetwise/internal/logger"
	"budgetwise/internal/queue"
	"budgetwise/internal/services"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Worker error: %v", err)
	}
}

func run() error {
	log := logger.Named("worker")
	log.Info("Starting categorize-worker")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.AMQPURL == "" {
		return errors.New("AMQP_URL is required")
	}
	if cfg.StorageDriver == config.StorageMemory {
		return errors.New("the worker needs shared storage: set STORAGE_DRIVER to postgres or sqlite")
	}

	dbManager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = dbManager.Close() }()

	categorizer, err := categorization.NewOpenRouter(categorization.Config{
		APIKey:   cfg.OpenRouterAPIKey,
		Model:    cfg.OpenRouterModel,
		Recorder: services.NewLLMUsageService(dbManager.Store()),
	})
	if err != nil {
		return fmt.Errorf("failed to create categorizer: %w", err)
	}

	jobs, err := queue.NewClient(cfg.AMQPURL, "", "")
	if err != nil {
		return fmt.Errorf("failed to initialize AMQP client: %w", err)
	}
	defer func() { _ = jobs.Close() }()

	transactions := services.NewTransactionService(dbManager.Store(), services.WithCategorizer(categorizer))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := jobs.Consume(ctx, categorizeJob(transactions))
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("categorize-worker stopped")
	return nil
}

// categorizeJob adapts the transaction service to the queue handler. Jobs
// for transactions that no longer exist are acknowledged and dropped.
func categorizeJob(transactions services.TransactionServicer) queue.Handler {
	log := logger.Named("worker")
	return func(ctx context.Context, job *queue.CategorizationJob) error {
		result, err := transactions.CategorizeTransaction(ctx, job.UserID, job.TransactionID)
		if err != nil {
			if errors.Is(err, apperrors.ErrTransactionNotFound) {
				log.Warnw("Skipping job for missing transaction", "transaction_id", job.TransactionID)
				return nil
			}
			return err
		}
		if result == nil {
			log.Debugw("Transaction left uncategorized", "transaction_id", job.TransactionID)
			return nil
		}
		log.Infow("Transaction categorized",
			"transaction_id", job.TransactionID,
			"category_id", result.CategoryID,
		)
		return nil
	}
}
