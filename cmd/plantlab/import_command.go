package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"plant-growth-lab/internal/config"
	"plant-growth-lab/internal/pipeline"
	"plant-growth-lab/internal/storage"
	chstore "plant-growth-lab/internal/storage/clickhouse"
	"plant-growth-lab/internal/storage/migrations"
	pgstore "plant-growth-lab/internal/storage/postgres"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a CSV export into the sample warehouse",
		Long: "Import reads the dataset's CSV export and writes its samples to Postgres or\n" +
			"ClickHouse, applying schema migrations first. Analyses then read it with\n" +
			"--source postgres or --source clickhouse.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind == config.KindPorometer {
				return fmt.Errorf("porometer readings are read from CSV only")
			}
			cfg, err := ctx.loadConfig(kind)
			if err != nil {
				return err
			}
			if cfg.Dataset.Input == "" {
				return fmt.Errorf("dataset.input or --input is required for import")
			}

			logger, err := ctx.logger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			logger = logger.With("component", "import", "dataset", cfg.Dataset.Name)

			store, closeFn, err := openWarehouse(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			n, err := pipeline.Import(cmd.Context(), cfg, store)
			if err != nil {
				return err
			}
			logger.Info("import complete", "samples", n, "source", cfg.Storage.Source)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d samples into %s dataset %s\n", n, cfg.Storage.Source, cfg.Dataset.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", config.KindGrowth, "Dataset kind: growth or transpiration")
	return cmd
}

// openWarehouse connects to the configured warehouse and brings its schema
// up to date.
func openWarehouse(ctx context.Context, cfg *config.Config) (storage.SampleStore, func(), error) {
	switch cfg.Storage.Source {
	case config.SourcePostgres:
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if _, err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return pgstore.NewSampleStore(pool), pool.Close, nil
	case config.SourceClickhouse:
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("migrate clickhouse: %w", err)
		}
		return chstore.NewSampleStore(conn), func() { conn.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("import needs --source postgres or clickhouse, got %q", cfg.Storage.Source)
	}
}
