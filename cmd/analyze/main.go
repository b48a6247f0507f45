// Package main computes a score distribution snapshot from stored wallet
// scores and prints the analysis report.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"wallet-credit-lab/internal/analysis"
	"wallet-credit-lab/internal/config"
	"wallet-credit-lab/internal/logging"
	"wallet-credit-lab/internal/reporting"
	"wallet-credit-lab/internal/storage"
	"wallet-credit-lab/internal/storage/clickhouse"
	"wallet-credit-lab/internal/storage/memory"
	"wallet-credit-lab/internal/storage/migrations"
	"wallet-credit-lab/internal/storage/postgres"
)

func main() {
	outputPath := flag.String("output", "", "Write the markdown report to a file instead of stdout")
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

	if cfg.PostgresURL == "" {
		fmt.Fprintln(os.Stderr, "POSTGRES_URL is required: analysis reads previously stored scores")
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.PostgresURL)
	if err != nil {
		logger.Fatal("postgres connect failed", zap.Error(err))
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		logger.Fatal("postgres migrations failed", zap.Error(err))
	}
	scoreStore := postgres.NewScoreStore(pool)
	txStore := postgres.NewTransactionStore(pool)

	statsStore, err := openStatsStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("stats store setup failed", zap.Error(err))
	}

	agg := analysis.NewAggregator(scoreStore, statsStore)
	stats, err := agg.ComputeAndStore(ctx)
	if err != nil {
		if errors.Is(err, analysis.ErrNoScores) {
			fmt.Fprintln(os.Stderr, "No scores stored yet; run the score command first")
			os.Exit(1)
		}
		if errors.Is(err, storage.ErrDuplicateKey) {
			logger.Warn("snapshot for this second already exists")
		} else {
			logger.Fatal("aggregation failed", zap.Error(err))
		}
	}
	if stats != nil {
		logger.Info("snapshot stored",
			zap.Int("total_wallets", stats.TotalWallets),
			zap.Float64("mean", stats.Mean),
			zap.Int64("computed_at", stats.ComputedAt))
	}

	report, err := reporting.NewGenerator(scoreStore, txStore).Generate(ctx)
	if err != nil {
		logger.Fatal("report generation failed", zap.Error(err))
	}

	md := reporting.RenderMarkdown(report)
	if *outputPath == "" {
		fmt.Print(md)
		return
	}
	if err := os.WriteFile(*outputPath, []byte(md), 0o644); err != nil {
		logger.Fatal("write report failed", zap.Error(err))
	}
	fmt.Printf("Report written to %s\n", *outputPath)
}

// openStatsStore wires ClickHouse when CLICKHOUSE_DSN is set, memory
// otherwise.
func openStatsStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.ScoreStatsStore, error) {
	if cfg.ClickhouseDSN == "" {
		logger.Info("CLICKHOUSE_DSN not set, snapshot kept in memory only")
		return memory.NewScoreStatsStore(), nil
	}

	conn, err := clickhouse.NewConn(ctx, cfg.ClickhouseDSN)
	if err != nil {
		return nil, err
	}
	if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
		return nil, err
	}

	logger.Info("using clickhouse stats store")
	return clickhouse.NewScoreStatsStore(conn), nil
}
