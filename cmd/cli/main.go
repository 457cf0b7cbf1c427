// Command tcsim simulates bond transaction-cost paths from the command line.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"bond-tc-sim/internal/config"
	"bond-tc-sim/internal/logging"
	"bond-tc-sim/internal/model"
	"bond-tc-sim/internal/sim"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries state shared by every subcommand.
type app struct {
	logLevel  string
	logFormat string
	logger    *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "tcsim",
		Short:         "Monte Carlo simulator for bond transaction costs",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.logger = logging.New(a.logLevel, a.logFormat, cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "text", "log format (text, json)")

	root.AddCommand(
		newSimulateCmd(a),
		newCompareCmd(a),
		newCorrelationCmd(a),
		newFactorsCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tcsim %s\n", version)
		},
	}
}

func newFactorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "factors",
		Short: "List every legal factor selection with its mean and volatility",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "base: mean=%g vol=%g\n\n", model.DefaultBase.Mean, model.DefaultBase.Vol)
			printTable(out, "sector_choice", model.Sectors)
			printTable(out, "ratings_choice", model.Ratings)
			printTable(out, "maturity_choice", model.Maturities)
			printTable(out, "liquidity_choice", model.LiquidityTiers)
			printTable(out, "lotsize_choice", model.LotSizes)
			fmt.Fprintf(out, "modes: %s (default), %s\n", sim.ModeCorrected, sim.ModeLegacy)
			return nil
		},
	}
}

func printTable[K comparable](out io.Writer, title string, t model.Table[K]) {
	fmt.Fprintf(out, "%s (%d):\n", title, t.Len())
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, k := range t.Keys() {
		p, err := t.Lookup(k)
		if err != nil {
			continue
		}
		fmt.Fprintf(tw, "  %v\tmean=%g\tvol=%g\n", k, p.Mean, p.Vol)
	}
	tw.Flush()
	fmt.Fprintln(out)
}

// loadConfig reads path, or returns the defaults when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		c := config.Default()
		return c, c.Validate()
	}
	return config.Load(path)
}

// newDriver builds a driver for cfg with the app's logger.
func (a *app) newDriver(cfg *config.Config) (*sim.Driver, error) {
	behavior, err := cfg.Behavior()
	if err != nil {
		return nil, err
	}
	return sim.NewDriver(cfg.CorrelationMatrix(),
		sim.WithBehavior(behavior),
		sim.WithWorkers(cfg.Workers),
		sim.WithComponents(cfg.Components),
		sim.WithLogger(a.logger),
	)
}
