package analysis

import (
	"bond-tc-sim/internal/model"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DayAttribution is the mean contribution of each factor on one day.
type DayAttribution struct {
	Day   int
	Means [model.NumFactors]float64
	// Total is the sum of Means, excluding noise.
	Total float64
}

// FactorAttribution averages each factor's component matrix across paths.
// Factors missing from components contribute zero. It returns nil when
// components is empty.
func FactorAttribution(components map[model.Factor]*mat.Dense) []DayAttribution {
	var paths, days int
	for _, m := range components {
		paths, days = m.Dims()
		break
	}
	if days == 0 {
		return nil
	}

	out := make([]DayAttribution, days)
	col := make([]float64, paths)
	for j := range out {
		out[j].Day = j
		for _, f := range model.Factors {
			m, ok := components[f]
			if !ok {
				continue
			}
			mat.Col(col, j, m)
			mean := stat.Mean(col, nil)
			out[j].Means[f] = mean
			out[j].Total += mean
		}
	}
	return out
}
