package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"bond-tc-sim/internal/analysis"
	"bond-tc-sim/internal/report"

	"github.com/spf13/cobra"
)

type simulateFlags struct {
	config      string
	out         string
	summary     string
	xlsx        string
	seed        uint64
	workers     int
	mode        string
	attribution bool
	plot        string
	plotPaths   int
}

func newSimulateCmd(a *app) *cobra.Command {
	var f simulateFlags
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run one scenario and print per-day statistics",
		Example: `  tcsim simulate --config examples/scenario.yaml --out results/paths.csv
  tcsim simulate --mode legacy --seed 7 --attribution`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(f.config)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = &f.seed
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = f.workers
			}
			if cmd.Flags().Changed("mode") {
				cfg.Mode = f.mode
			}
			if f.attribution {
				cfg.Components = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			driver, err := a.newDriver(cfg)
			if err != nil {
				return err
			}
			seed := cfg.ResolveSeed()
			res, err := driver.Run(cmd.Context(), cfg.Scenario(seed), seed)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			stats := analysis.Describe(res.Paths)
			fmt.Fprintf(out, "scenario %s  mode=%s  seed=%d  noise=%.6f\n",
				res.Scenario.Label(), res.Behavior.Mode(), res.Seed, res.Scenario.Noise)
			fmt.Fprintf(out, "%d paths x %d days in %s, %d floor events\n\n",
				res.Scenario.NumPaths, res.Scenario.NDays, res.Elapsed, res.FloorEvents)
			if err := report.WriteSummaryTable(out, stats); err != nil {
				return err
			}
			if final, ok := analysis.Final(stats); ok {
				fmt.Fprintf(out, "\nfinal-day cost, %s\n", report.SummarizeCost(final, res.Scenario.LotSize))
			}
			if attr := analysis.FactorAttribution(res.Components); attr != nil {
				fmt.Fprintln(out, "\nmean contribution by factor:")
				if err := report.WriteAttributionTable(out, attr); err != nil {
					return err
				}
			}

			if f.out != "" {
				if err := writeOutput(f.out, func(w io.Writer) error { return report.WritePathsCSV(w, res.Paths) }); err != nil {
					return err
				}
				fmt.Fprintf(out, "\nwrote paths to %s\n", f.out)
			}
			if f.summary != "" {
				if err := writeOutput(f.summary, func(w io.Writer) error { return report.WriteSummaryCSV(w, stats) }); err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote summary to %s\n", f.summary)
			}
			if f.xlsx != "" {
				if err := writeOutput(f.xlsx, func(w io.Writer) error { return report.WriteXLSX(w, res) }); err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote workbook to %s\n", f.xlsx)
			}
			if f.plot != "" {
				format, err := report.ParseChartFormat(filepath.Ext(f.plot))
				if err != nil {
					return err
				}
				if err := writeOutput(f.plot, func(w io.Writer) error { return report.WriteFanChart(w, res, format, f.plotPaths) }); err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote chart to %s\n", f.plot)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&f.config, "config", "", "scenario YAML (defaults when omitted)")
	cmd.Flags().StringVar(&f.out, "out", "", "write the paths matrix as CSV")
	cmd.Flags().StringVar(&f.summary, "summary", "", "write per-day statistics as CSV")
	cmd.Flags().StringVar(&f.xlsx, "xlsx", "", "write an XLSX workbook")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed (overrides the config)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "simulation goroutines (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&f.mode, "mode", "", "corrected or legacy")
	cmd.Flags().StringVar(&f.plot, "plot", "", "write a fan chart (.png or .svg)")
	cmd.Flags().IntVar(&f.plotPaths, "plot-paths", 20, "individual paths drawn on the chart")
	cmd.Flags().BoolVar(&f.attribution, "attribution", false, "report the mean contribution of each factor")
	return cmd
}

// writeOutput ensures the output dir exists before writing.
func writeOutput(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return report.WriteFile(path, write)
}
