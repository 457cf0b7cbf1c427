package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"bond-tc-sim/internal/analysis"
	"bond-tc-sim/internal/model"
)

// WriteSummaryTable prints per-day statistics as an aligned text table.
func WriteSummaryTable(out io.Writer, stats []analysis.DayStats) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "day\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax\t")
	for _, s := range stats {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			s.Day, s.Count,
			fmtShort(s.Mean), fmtShort(s.Std), fmtShort(s.Min),
			fmtShort(s.Q25), fmtShort(s.Median), fmtShort(s.Q75), fmtShort(s.Max))
	}
	return tw.Flush()
}

// WriteAttributionTable prints the per-day mean contribution of each factor.
func WriteAttributionTable(out io.Writer, attr []analysis.DayAttribution) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "day\t")
	for _, f := range model.Factors {
		fmt.Fprintf(tw, "%s\t", f)
	}
	fmt.Fprintln(tw, "total\t")
	for _, a := range attr {
		fmt.Fprintf(tw, "%d\t", a.Day)
		for _, f := range model.Factors {
			fmt.Fprintf(tw, "%s\t", fmtShort(a.Means[f]))
		}
		fmt.Fprintf(tw, "%s\t\n", fmtShort(a.Total))
	}
	return tw.Flush()
}

// WriteRankingTable prints a scenario comparison, cheapest first.
func WriteRankingTable(out io.Writer, ranked []analysis.RankedScenario) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "rank\tscenario\tfinal mean\tfinal median\tfinal std\t")
	for _, r := range ranked {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n",
			r.Rank, r.Label, fmtShort(r.Final.Mean), fmtShort(r.Final.Median), fmtShort(r.Final.Std))
	}
	return tw.Flush()
}

func fmtShort(x float64) string {
	if x != x {
		return "NaN"
	}
	return fmt.Sprintf("%.4f", x)
}
