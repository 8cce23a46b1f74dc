package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"plant-growth-lab/internal/config"
	"plant-growth-lab/internal/observability"
	"plant-growth-lab/internal/pipeline"
	"plant-growth-lab/internal/reporting"
)

var analysisKinds = []string{config.KindGrowth, config.KindTranspiration, config.KindPorometer}

var analysisShort = map[string]string{
	config.KindGrowth:        "Mean daily growth dynamics from leaf elongation encoders",
	config.KindTranspiration: "Mean daily transpiration and transpiration rate from pot balances",
	config.KindPorometer:     "Stomatal conductance regression and grouped summaries",
}

func newAnalysisCommand(ctx *commandContext, kind string) *cobra.Command {
	return &cobra.Command{
		Use:   kind,
		Short: analysisShort[kind],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig(kind)
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			m := observability.NewMetrics("plantlab")
			res, runErr := pipeline.New(cfg).WithLogger(logger).WithMetrics(m).Run(runCtx)
			if cfg.Output.MetricsFile != "" {
				if err := m.WriteTextfile(cfg.Output.MetricsFile); err != nil {
					logger.Error("metrics not written", "error", err)
				}
			}
			if runErr != nil {
				return runErr
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func printResult(out io.Writer, res *pipeline.Result) {
	r := res.Report
	fmt.Fprintf(out, "%s report for %s (run %s)\n\n", r.Pipeline, r.Dataset, r.RunID)

	if len(r.Profiles) > 0 {
		fmt.Fprintln(out, reporting.ProfileTableText(r.Profiles))
	}
	if reg := r.Regression; reg != nil {
		fmt.Fprintf(out, "%s ~ %s: slope %.4f, intercept %.4f, r %.4f (n = %d)\n\n",
			reg.Y, reg.X, reg.Slope, reg.Intercept, reg.R, reg.N)
	}
	for _, g := range r.Groups {
		fmt.Fprintln(out, g.Title)
		fmt.Fprintln(out, reporting.GroupTableText(g))
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintf(out, "%d warnings, see %s\n", len(r.Warnings), reporting.MarkdownFile)
	}

	fmt.Fprintln(out, "Files:")
	for _, f := range res.Files {
		fmt.Fprintf(out, "  - %s\n", f)
	}
}
