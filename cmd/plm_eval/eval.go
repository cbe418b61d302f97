package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/plm-eval/internal/embedding"
	"github.com/DjordjeVuckovic/plm-eval/internal/encoder"
	"github.com/DjordjeVuckovic/plm-eval/internal/eval/report"
	"github.com/DjordjeVuckovic/plm-eval/internal/eval/runner"
	"github.com/DjordjeVuckovic/plm-eval/internal/eval/suite"
	"github.com/DjordjeVuckovic/plm-eval/internal/registry"
	"github.com/DjordjeVuckovic/plm-eval/internal/storage"
	"github.com/DjordjeVuckovic/plm-eval/internal/storage/es"
	"github.com/DjordjeVuckovic/plm-eval/internal/storage/pg"
	"github.com/DjordjeVuckovic/plm-eval/internal/tracing"
	"github.com/spf13/cobra"
)

func evalCmd() *cobra.Command {
	cfg := &cliConfig{}

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate one model and write its results table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return runEval(cmd.Context(), cfg)
		},
	}

	cfg.bind(cmd.Flags())
	return cmd
}

func runEval(ctx context.Context, cfg *cliConfig) error {
	shutdown, err := tracing.Setup(ctx, tracing.Config{Enabled: cfg.Trace})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Warn("tracer shutdown failed", "error", err)
		}
	}()

	suiteCfg := suite.Default()
	if cfg.SuitePath != "" {
		if suiteCfg, err = suite.LoadFromFile(cfg.SuitePath); err != nil {
			return err
		}
	}

	pooling, err := encoder.ParsePooling(cfg.Pooling)
	if err != nil {
		return err
	}

	backends, err := embedding.LoadConfigFromEnv()
	if err != nil {
		return err
	}

	// connect sinks before the run
	sinks, cleanup, err := createSinks(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	model, err := registry.Default().Build(ctx, cfg.TextModel, backends, registry.Options{
		Pooling:   pooling,
		BatchSize: suiteCfg.BatchSize,
	})
	if err != nil {
		return err
	}
	slog.Info("evaluating model",
		"model", model.Name(),
		"family", model.Family(),
		"batch_size", model.BatchSize(),
		"suite", suiteCfg.Name,
		"tasks", len(suiteCfg.Tasks),
		"fast", suiteCfg.FastEvaluation,
	)

	var opts []runner.Option
	if cfg.StoreEmbeddings {
		opts = append(opts, runner.WithKeepEmbeddings())
	}

	res, err := runner.Evaluate(ctx, model, cfg.Epoch, suiteCfg, opts...)
	if err != nil {
		return err
	}

	rec := report.Generate(model.Name(), model.Family(), res)

	path := report.OutputPath(cfg.OutputDir, model.Name())
	if err := report.WriteTSV(rec, path); err != nil {
		return err
	}
	slog.Info("results written", "path", path, "run_id", rec.RunID)

	if cfg.JSONPath != "" {
		if err := report.WriteJSON(rec, cfg.JSONPath); err != nil {
			return err
		}
	}

	report.WriteTable(rec, os.Stdout)

	return storage.SaveAll(ctx, rec, sinks...)
}

func createSinks(ctx context.Context, cfg *cliConfig) ([]storage.Sink, func(), error) {
	var sinks []storage.Sink
	var cleanups []func()

	cleanup := func() {
		for _, c := range cleanups {
			c()
		}
	}

	if cfg.PgConnStr != "" {
		pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{
			ConnStr:        cfg.PgConnStr,
			RegisterVector: cfg.StoreEmbeddings,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("pg connection: %w", err)
		}
		cleanups = append(cleanups, pool.Close)

		sinks = append(sinks, pg.NewResultStore(pool))
		if cfg.StoreEmbeddings {
			sinks = append(sinks, pg.NewEmbeddingStore(pool))
		}
		slog.Info("enabled sink", "name", "postgres", "embeddings", cfg.StoreEmbeddings)
	}

	if addrs := cfg.esAddresses(); len(addrs) > 0 {
		idx, err := es.NewResultIndexer(ctx, es.ClientConfig{
			Addresses: addrs,
			IndexName: cfg.EsIndex,
			Username:  os.Getenv("PLM_ES_USERNAME"),
			Password:  os.Getenv("PLM_ES_PASSWORD"),
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("es indexer: %w", err)
		}

		sinks = append(sinks, idx)
		slog.Info("enabled sink", "name", "elasticsearch", "index", cfg.EsIndex)
	}

	return sinks, cleanup, nil
}
