package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:           "plantlab",
		Short:         "Daily transform engine for plant growth and transpiration campaigns",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Configuration file (default: embedded preset for --vintage)")
	pf.IntVar(&flags.vintage, "vintage", 0, "Campaign year selecting the embedded preset")
	pf.StringVar(&flags.input, "input", "", "Input CSV export")
	pf.StringVar(&flags.outputDir, "output-dir", "", "Directory receiving reports and figures")
	pf.StringVar(&flags.source, "source", "", "Sample source: csv, memory, postgres or clickhouse")
	pf.StringVar(&flags.postgresDSN, "postgres-dsn", "", "Postgres connection string")
	pf.StringVar(&flags.clickhouseDSN, "clickhouse-dsn", "", "ClickHouse connection string")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&flags.logFormat, "log-format", "console", "Log format: console or json")
	pf.StringVar(&flags.metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
	pf.BoolVar(&flags.noFigures, "no-figures", false, "Skip figure rendering")

	for _, kind := range analysisKinds {
		rootCmd.AddCommand(newAnalysisCommand(ctx, kind))
	}
	rootCmd.AddCommand(newImportCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
