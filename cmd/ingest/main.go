// Package main ingests raw transactions from a JSON file or a WebSocket
// feed into the transaction store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"wallet-credit-lab/internal/config"
	"wallet-credit-lab/internal/ingestion"
	"wallet-credit-lab/internal/logging"
	"wallet-credit-lab/internal/observability"
	"wallet-credit-lab/internal/storage"
	"wallet-credit-lab/internal/storage/memory"
	"wallet-credit-lab/internal/storage/migrations"
	"wallet-credit-lab/internal/storage/postgres"
)

func main() {
	input := flag.String("input", "", "Raw transaction JSON file (overrides FEED_URL)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *input == "" && cfg.FeedURL == "" {
		fmt.Fprintln(os.Stderr, "Usage: ingest -input <transactions.json>, or set FEED_URL")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, stopping ingestion", zap.String("signal", sig.String()))
		cancel()
	}()

	if cfg.MetricsAddr != "" {
		go func() {
			logger.Info("metrics endpoint listening", zap.String("addr", cfg.MetricsAddr))
			if err := observability.Serve(cfg.MetricsAddr); err != nil {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	store, err := openTransactionStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store setup failed", zap.Error(err))
	}

	var source ingestion.TransactionSource
	if *input != "" {
		source = ingestion.NewFileSource(*input)
	} else {
		feed := ingestion.NewFeedSource(cfg.FeedURL, nil, logger)
		defer feed.Close()
		source = feed
	}

	runner := ingestion.NewRunner(ingestion.RunnerOptions{
		Source:        source,
		Store:         store,
		BatchSize:     cfg.FeedBatchSize,
		FlushInterval: cfg.FlushTimeout,
		Logger:        logger,
	})

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("ingestion failed", zap.Error(err))
	}

	stats := runner.Stats()
	fmt.Printf("Ingestion finished: %d received, %d stored, %d dropped, %d duplicates\n",
		stats.RecordsReceived, stats.RecordsStored, stats.RecordsDropped, stats.Duplicates)
	for _, w := range runner.DropStats().Warnings() {
		fmt.Printf("  warning: %s\n", w)
	}
}

// openTransactionStore wires Postgres when POSTGRES_URL is set.
// Memory is only useful for dry runs; nothing survives the process.
func openTransactionStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.TransactionStore, error) {
	if cfg.PostgresURL == "" {
		logger.Warn("POSTGRES_URL not set, ingesting into memory (dry run)")
		return memory.NewTransactionStore(), nil
	}

	pool, err := postgres.NewPool(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, err
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return nil, err
	}

	logger.Info("using postgres transaction store")
	return postgres.NewTransactionStore(pool), nil
}
