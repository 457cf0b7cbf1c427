package sim

import (
	"fmt"
	"math"

	"bond-tc-sim/internal/model"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// symmetryTol bounds |c[i][j]-c[j][i]| and |c[i][i]-1|.
const symmetryTol = 1e-9

// CorrelationEngine turns independent standard-normal draws into jointly
// correlated Wiener increments using the lower Cholesky factor L of a
// correlation matrix: increments = Z·sqrt(dt)·Lᵀ.
type CorrelationEngine struct {
	dim  int
	data []float64
	chol mat.Cholesky
	l    *mat.TriDense
}

// NewCorrelationEngine validates corr and factorizes it once.
// corr must be square, symmetric, unit-diagonal and positive definite.
func NewCorrelationEngine(corr [][]float64) (*CorrelationEngine, error) {
	n := len(corr)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty correlation matrix", model.ErrInvalidDimension)
	}
	data := make([]float64, 0, n*n)
	for i, row := range corr {
		if len(row) != n {
			return nil, fmt.Errorf("%w: correlation row %d has %d entries, want %d", model.ErrInvalidDimension, i, len(row), n)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: correlation[%d][%d] is not finite", model.ErrInvalidParameter, i, j)
			}
		}
		data = append(data, row...)
	}
	for i := 0; i < n; i++ {
		if math.Abs(corr[i][i]-1) > symmetryTol {
			return nil, fmt.Errorf("%w: correlation[%d][%d] = %v, want 1", model.ErrInvalidParameter, i, i, corr[i][i])
		}
		for j := i + 1; j < n; j++ {
			if math.Abs(corr[i][j]-corr[j][i]) > symmetryTol {
				return nil, fmt.Errorf("%w: correlation matrix not symmetric at (%d,%d)", model.ErrInvalidParameter, i, j)
			}
		}
	}

	e := &CorrelationEngine{dim: n, data: data}
	if ok := e.chol.Factorize(mat.NewSymDense(n, data)); !ok {
		return nil, model.ErrNonPositiveDefinite
	}
	e.l = mat.NewTriDense(n, mat.Lower, nil)
	e.chol.LTo(e.l)
	return e, nil
}

// Dim is the number of correlated columns produced per draw.
func (e *CorrelationEngine) Dim() int { return e.dim }

// Lower returns a copy of the Cholesky factor.
func (e *CorrelationEngine) Lower() *mat.TriDense {
	out := mat.NewTriDense(e.dim, mat.Lower, nil)
	e.chol.LTo(out)
	return out
}

// Correlation returns a copy of the target matrix.
func (e *CorrelationEngine) Correlation() *mat.SymDense {
	data := make([]float64, len(e.data))
	copy(data, e.data)
	return mat.NewSymDense(e.dim, data)
}

// Increments draws an nDays × Dim matrix of correlated increments, scaled
// by sqrt(timestep). Draws are taken row by row from r, so each call
// advances the stream by nDays*Dim normals.
func (e *CorrelationEngine) Increments(r *rand.Rand, nDays int, timestep float64) *mat.Dense {
	sd := math.Sqrt(timestep)
	z := make([]float64, nDays*e.dim)
	for i := range z {
		z[i] = r.NormFloat64() * sd
	}
	var out mat.Dense
	out.Mul(mat.NewDense(nDays, e.dim, z), e.l.T())
	return &out
}
