package analysis

import (
	"fmt"

	"bond-tc-sim/internal/model"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// IncrementCorrelation estimates the correlation matrix of per-factor
// increment samples. Each column of the result corresponds to one factor.
func IncrementCorrelation(sample [model.NumFactors][]float64) (*mat.SymDense, error) {
	n := len(sample[0])
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples, got %d", model.ErrInvalidDimension, n)
	}
	x := mat.NewDense(n, model.NumFactors, nil)
	for f, col := range sample {
		if len(col) != n {
			return nil, fmt.Errorf("%w: factor %s has %d samples, want %d",
				model.ErrInvalidDimension, model.Factor(f), len(col), n)
		}
		x.SetCol(f, col)
	}
	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, x, nil)
	return &corr, nil
}

// MaxCorrelationError is the largest absolute difference between the
// estimated and target correlation over the correlated factors.
func MaxCorrelationError(got mat.Symmetric, target [][]float64) float64 {
	var worst float64
	for i := range target {
		for j := range target[i] {
			d := got.At(i, j) - target[i][j]
			if d < 0 {
				d = -d
			}
			if d > worst {
				worst = d
			}
		}
	}
	return worst
}
