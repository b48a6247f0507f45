// Package main scores a raw transaction JSON file and writes the report
// and score CSVs.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"wallet-credit-lab/internal/config"
	"wallet-credit-lab/internal/logging"
	"wallet-credit-lab/internal/pipeline"
	"wallet-credit-lab/internal/storage"
	"wallet-credit-lab/internal/storage/memory"
	"wallet-credit-lab/internal/storage/migrations"
	"wallet-credit-lab/internal/storage/postgres"
)

func main() {
	input := flag.String("input", "", "Raw transaction JSON file (required)")
	outputDir := flag.String("output-dir", "", "Output directory for generated files")
	workers := flag.Int("workers", 0, "Feature extraction workers (0 = GOMAXPROCS)")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: score -input <transactions.json> [-output-dir docs]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if *outputDir == "" {
		*outputDir = cfg.OutputDir
	}
	if *workers == 0 {
		*workers = cfg.WorkerCount
	}

	logger, err := logging.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, cancelling", zap.String("signal", sig.String()))
		cancel()
	}()

	txStore, scoreStore, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store setup failed", zap.Error(err))
	}

	p := pipeline.New(pipeline.Options{
		TransactionStore: txStore,
		ScoreStore:       scoreStore,
		OutputDir:        *outputDir,
		Workers:          *workers,
		Logger:           logger,
	})

	result, err := p.RunFile(ctx, *input)
	if err != nil {
		logger.Fatal("pipeline failed", zap.Error(err))
	}

	fmt.Printf("Scored %d wallets (%d records decoded, %d dropped)\n",
		result.WalletsScored, result.RecordsDecoded, result.RecordsDropped)
	for _, f := range result.OutputFiles {
		fmt.Printf("  - %s\n", f)
	}
}

// openStores wires Postgres stores when POSTGRES_URL is set, memory
// stores otherwise.
func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.TransactionStore, storage.ScoreStore, error) {
	if cfg.PostgresURL == "" {
		logger.Info("POSTGRES_URL not set, using in-memory stores")
		return memory.NewTransactionStore(), memory.NewScoreStore(), nil
	}

	pool, err := postgres.NewPool(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, nil, err
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return nil, nil, err
	}

	logger.Info("using postgres stores")
	return postgres.NewTransactionStore(pool), postgres.NewScoreStore(pool), nil
}
