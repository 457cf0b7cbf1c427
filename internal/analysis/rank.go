package analysis

import (
	"sort"

	"bond-tc-sim/internal/sim"
)

// RankedScenario is one scenario's summary inside a comparison.
type RankedScenario struct {
	Rank   int
	Label  string
	Result *sim.Result
	Days   []DayStats
	Final  DayStats
}

// RankByFinalMean summarises each result and sorts ascending by the mean
// total TC of the final day, so the cheapest scenario ranks first. Ties keep
// input order.
func RankByFinalMean(results []*sim.Result) []RankedScenario {
	out := make([]RankedScenario, 0, len(results))
	for _, r := range results {
		days := Describe(r.Paths)
		final, _ := Final(days)
		out = append(out, RankedScenario{
			Label:  r.Scenario.Label(),
			Result: r,
			Days:   days,
			Final:  final,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Final.Mean < out[j].Final.Mean
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
