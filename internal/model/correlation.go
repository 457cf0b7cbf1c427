package model

var defaultCorrelation = [NumCorrelated][NumCorrelated]float64{
	{1, 0.10613038, 0.06720876, 0.0723708, 0.07090028},
	{0.10613038, 1, 0.1690226, 0.08636133, 0.08066976},
	{0.06720876, 0.1690226, 1, 0.06547732, 0.04201025},
	{0.0723708, 0.08636133, 0.06547732, 1, 0.060396},
	{0.07090028, 0.08066976, 0.04201025, 0.060396, 1},
}

// DefaultCorrelation returns a fresh copy of the correlation matrix over
// {base, sector, rating, maturity, liquidity}, in that order.
func DefaultCorrelation() [][]float64 {
	out := make([][]float64, NumCorrelated)
	for i := range defaultCorrelation {
		row := make([]float64, NumCorrelated)
		copy(row, defaultCorrelation[i][:])
		out[i] = row
	}
	return out
}
