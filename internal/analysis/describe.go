package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DayStats summarises one day across every path of an ensemble.
// Std is the sample standard deviation and is NaN for a single path.
type DayStats struct {
	Day    int
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Describe computes per-day statistics of a paths × days matrix, one entry
// per column. Quartiles interpolate linearly between order statistics.
func Describe(m mat.Matrix) []DayStats {
	paths, days := m.Dims()
	out := make([]DayStats, days)
	col := make([]float64, paths)
	for j := 0; j < days; j++ {
		mat.Col(col, j, m)
		out[j] = describeColumn(j, col)
	}
	return out
}

func describeColumn(day int, vals []float64) DayStats {
	s := DayStats{Day: day, Count: len(vals)}
	if len(vals) == 0 {
		s.Mean, s.Std = math.NaN(), math.NaN()
		return s
	}
	s.Mean, s.Std = stat.MeanStdDev(vals, nil)
	if len(vals) == 1 {
		s.Std = math.NaN()
	}

	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q25 = percentileSorted(sorted, 0.25)
	s.Median = percentileSorted(sorted, 0.5)
	s.Q75 = percentileSorted(sorted, 0.75)
	return s
}

// Final returns the statistics of the last day, or false for an empty summary.
func Final(stats []DayStats) (DayStats, bool) {
	if len(stats) == 0 {
		return DayStats{}, false
	}
	return stats[len(stats)-1], true
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
