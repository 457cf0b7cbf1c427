package main

import (
	"fmt"

	"bond-tc-sim/internal/analysis"
	"bond-tc-sim/internal/config"
	"bond-tc-sim/internal/report"
	"bond-tc-sim/internal/sim"

	"github.com/spf13/cobra"
)

func newCompareCmd(a *app) *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "compare CONFIG CONFIG...",
		Short: "Run several scenarios with one seed and rank them by final-day mean TC",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgs := make([]*config.Config, len(args))
			for i, path := range args {
				cfg, err := config.Load(path)
				if err != nil {
					return err
				}
				cfgs[i] = cfg
			}

			shared := cfgs[0].ResolveSeed()
			if cmd.Flags().Changed("seed") {
				shared = seed
			}

			results := make([]*sim.Result, 0, len(cfgs))
			for i, cfg := range cfgs {
				driver, err := a.newDriver(cfg)
				if err != nil {
					return fmt.Errorf("%s: %w", args[i], err)
				}
				res, err := driver.Run(cmd.Context(), cfg.Scenario(shared), shared)
				if err != nil {
					return fmt.Errorf("%s: %w", args[i], err)
				}
				results = append(results, res)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "seed=%d\n", shared)
			return report.WriteRankingTable(out, analysis.RankByFinalMean(results))
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "shared random seed (default: the first config's)")
	return cmd
}
