package sim

import (
	"time"

	"bond-tc-sim/internal/model"

	"gonum.org/v1/gonum/mat"
)

// Result is one ensemble: rows are paths, columns are days.
type Result struct {
	Scenario model.Scenario
	Seed     uint64
	Behavior Behavior

	// Paths holds total daily TC, shape (NumPaths, NDays).
	Paths *mat.Dense

	// Components holds each factor's contribution with the same shape as
	// Paths. Nil unless the driver was built WithComponents(true).
	Components map[model.Factor]*mat.Dense

	FloorEvents int64
	Elapsed     time.Duration
}

// Dims returns (paths, days).
func (r *Result) Dims() (paths, days int) {
	return r.Paths.Dims()
}

// Row returns a copy of path i.
func (r *Result) Row(i int) []float64 {
	return mat.Row(nil, i, r.Paths)
}

// Rows copies the matrix into a slice of paths.
func (r *Result) Rows() [][]float64 {
	n, _ := r.Paths.Dims()
	out := make([][]float64, n)
	for i := range out {
		out[i] = r.Row(i)
	}
	return out
}
