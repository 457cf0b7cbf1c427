package sim

import (
	"context"
	"math"
	"testing"
	"time"

	"bond-tc-sim/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

type recordingObserver struct {
	calls  int
	paths  int
	days   int
	floors int64
}

func (o *recordingObserver) ObserveRun(paths, days int, floors int64, _ time.Duration) {
	o.calls++
	o.paths, o.days, o.floors = paths, days, floors
}

func newTestDriver(t *testing.T, opts ...Option) *Driver {
	t.Helper()
	d, err := NewDriver(model.DefaultCorrelation(), opts...)
	require.NoError(t, err)
	return d
}

func exampleScenario() model.Scenario {
	s := model.DefaultScenario()
	s.Sector = "Technology"
	s.Rating = "AAA"
	s.Maturity = 1
	s.Liquidity = 5
	s.LotSize = 10000000
	s.NDays = 10
	s.NumPaths = 5
	return s
}

func TestRunScenarioExample(t *testing.T) {
	for _, b := range []Behavior{Corrected(), Legacy()} {
		t.Run(b.Mode(), func(t *testing.T) {
			d := newTestDriver(t, WithBehavior(b), WithComponents(true))
			s := exampleScenario()
			s.Noise = DrawNoise(99, 0.001)

			res, err := d.Run(context.Background(), s, 42)
			require.NoError(t, err)

			paths, days := res.Dims()
			assert.Equal(t, 5, paths)
			assert.Equal(t, 10, days)
			for i := 0; i < paths; i++ {
				for j := 0; j < days; j++ {
					v := res.Paths.At(i, j)
					assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
				}
			}
			assert.Len(t, res.Rows(), 5)
			assert.Equal(t, b, res.Behavior)
		})
	}
}

func TestRunReproducible(t *testing.T) {
	s := model.DefaultScenario()
	s.NumPaths = 200
	s.Noise = 0.0005

	for _, b := range []Behavior{Corrected(), Legacy()} {
		t.Run(b.Mode(), func(t *testing.T) {
			a, err := newTestDriver(t, WithBehavior(b)).Run(context.Background(), s, 2024)
			require.NoError(t, err)
			again, err := newTestDriver(t, WithBehavior(b)).Run(context.Background(), s, 2024)
			require.NoError(t, err)
			parallel, err := newTestDriver(t, WithBehavior(b), WithWorkers(7)).Run(context.Background(), s, 2024)
			require.NoError(t, err)
			other, err := newTestDriver(t, WithBehavior(b)).Run(context.Background(), s, 2025)
			require.NoError(t, err)

			assert.True(t, mat.Equal(a.Paths, again.Paths), "same seed must be bit-identical")
			assert.True(t, mat.Equal(a.Paths, parallel.Paths), "worker count must not change results")
			assert.False(t, mat.Equal(a.Paths, other.Paths))
		})
	}
}

func TestRunFloorsComponents(t *testing.T) {
	s := exampleScenario()
	s.NumPaths = 300
	s.NDays = 30
	s.Base = model.FactorParams{Mean: -1, Vol: 0.001}

	t.Run("legacy leaves base initial unfloored", func(t *testing.T) {
		res, err := newTestDriver(t, WithBehavior(Legacy()), WithComponents(true)).Run(context.Background(), s, 5)
		require.NoError(t, err)
		assertFloored(t, res, true)
		for i := 0; i < s.NumPaths; i++ {
			assert.Less(t, res.Components[model.FactorBase].At(i, 0), 0.0)
		}
	})

	t.Run("corrected floors base initial", func(t *testing.T) {
		res, err := newTestDriver(t, WithComponents(true)).Run(context.Background(), s, 5)
		require.NoError(t, err)
		assertFloored(t, res, false)
		for i := 0; i < s.NumPaths; i++ {
			assert.Equal(t, 0.0, res.Components[model.FactorBase].At(i, 0))
		}
	})
}

func assertFloored(t *testing.T, res *Result, skipBaseInitial bool) {
	t.Helper()
	for _, f := range model.Factors {
		m := res.Components[f]
		r, c := m.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				if skipBaseInitial && f == model.FactorBase && j == 0 {
					continue
				}
				if !assert.GreaterOrEqual(t, m.At(i, j), 0.0, "%s path %d day %d", f, i, j) {
					return
				}
			}
		}
	}
}

func TestRunNoiseIsShared(t *testing.T) {
	s := exampleScenario()
	s.NumPaths = 20
	s.Noise = -0.75

	res, err := newTestDriver(t, WithComponents(true), WithWorkers(3)).Run(context.Background(), s, 8)
	require.NoError(t, err)

	for i := 0; i < s.NumPaths; i++ {
		for j := 0; j < s.NDays; j++ {
			var sum float64
			for _, f := range model.Factors {
				sum += res.Components[f].At(i, j)
			}
			assert.Equal(t, sum+s.Noise, res.Paths.At(i, j))
		}
	}
}

func TestDrawNoise(t *testing.T) {
	assert.Equal(t, DrawNoise(10, 0.001), DrawNoise(10, 0.001))
	assert.NotEqual(t, DrawNoise(10, 0.001), DrawNoise(11, 0.001))
	assert.Zero(t, DrawNoise(10, 0))
}

func TestRunRejectsBeforeSimulating(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.Scenario)
		wantErr error
	}{
		{"unknown sector", func(s *model.Scenario) { s.Sector = "Crypto" }, model.ErrInvalidFactorSelection},
		{"zero days", func(s *model.Scenario) { s.NDays = 0 }, model.ErrInvalidDimension},
		{"zero paths", func(s *model.Scenario) { s.NumPaths = 0 }, model.ErrInvalidDimension},
		{"negative timestep", func(s *model.Scenario) { s.Timestep = -1 }, model.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := &recordingObserver{}
			d := newTestDriver(t, WithObserver(obs))
			s := exampleScenario()
			tt.mutate(&s)

			res, err := d.Run(context.Background(), s, 1)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, res)
			assert.Zero(t, obs.calls)
		})
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestDriver(t).Run(ctx, exampleScenario(), 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunObserver(t *testing.T) {
	obs := &recordingObserver{}
	s := exampleScenario()
	res, err := newTestDriver(t, WithObserver(obs)).Run(context.Background(), s, 3)
	require.NoError(t, err)

	assert.Equal(t, 1, obs.calls)
	assert.Equal(t, 5, obs.paths)
	assert.Equal(t, 10, obs.days)
	assert.Equal(t, res.FloorEvents, obs.floors)
	assert.Nil(t, res.Components)
}

func TestNewDriverValidatesCorrelation(t *testing.T) {
	_, err := NewDriver([][]float64{{1, 0}, {0, 1}})
	assert.ErrorIs(t, err, model.ErrInvalidDimension)

	bad := model.DefaultCorrelation()
	for i := range bad {
		for j := range bad[i] {
			if i != j {
				bad[i][j] = -0.5
			}
		}
	}
	_, err = NewDriver(bad)
	assert.ErrorIs(t, err, model.ErrNonPositiveDefinite)
}

func TestLiquidityVolSource(t *testing.T) {
	s := model.DefaultScenario()
	s.NumPaths = 2000
	s.NDays = 2
	s.Liquidity = 1 // mean 5, vol 0.1

	initialSpread := func(b Behavior) float64 {
		res, err := newTestDriver(t, WithBehavior(b), WithComponents(true)).Run(context.Background(), s, 17)
		require.NoError(t, err)
		return stat.StdDev(mat.Col(nil, 0, res.Components[model.FactorLiquidity]), nil)
	}

	assert.Greater(t, initialSpread(Legacy()), 1.0, "legacy uses the mean (5) as volatility")
	assert.Less(t, initialSpread(Corrected()), 0.5)
}

func TestLotSizeIncrements(t *testing.T) {
	dt := 1.0 / 252

	t.Run("reuses base column", func(t *testing.T) {
		d := newTestDriver(t, WithBehavior(Behavior{SharedIncrements: true}))
		dW := d.increments(newStream(4), 10, dt)
		assert.Equal(t, dW[model.FactorBase], dW[model.FactorLotSize])
	})

	t.Run("independent", func(t *testing.T) {
		d := newTestDriver(t)
		dW := d.increments(newStream(4), 10, dt)
		assert.NotEqual(t, dW[model.FactorBase], dW[model.FactorLotSize])
		for f := range dW {
			assert.Len(t, dW[f], 10)
		}
	})
}

func TestCrossFactorCorrelation(t *testing.T) {
	const n = 50000
	target := model.DefaultCorrelation()

	t.Run("shared draw converges to target", func(t *testing.T) {
		sample, err := newTestDriver(t).IncrementSample(31, n, 1.0/252)
		require.NoError(t, err)
		for i := 0; i < model.NumCorrelated; i++ {
			for j := i + 1; j < model.NumCorrelated; j++ {
				got := stat.Correlation(sample[i], sample[j], nil)
				assert.InDelta(t, target[i][j], got, 0.025, "corr(%s,%s)", model.Factor(i), model.Factor(j))
			}
		}
		lot := stat.Correlation(sample[model.FactorBase], sample[model.FactorLotSize], nil)
		assert.InDelta(t, 0, lot, 0.025)
	})

	t.Run("per-factor draws carry no correlation", func(t *testing.T) {
		sample, err := newTestDriver(t, WithBehavior(Legacy())).IncrementSample(31, n, 1.0/252)
		require.NoError(t, err)
		for i := 0; i < model.NumFactors; i++ {
			for j := i + 1; j < model.NumFactors; j++ {
				got := stat.Correlation(sample[i], sample[j], nil)
				assert.InDelta(t, 0, got, 0.025, "corr(%s,%s)", model.Factor(i), model.Factor(j))
			}
		}
	})

	_, err := newTestDriver(t).IncrementSample(1, 0, 1.0/252)
	assert.ErrorIs(t, err, model.ErrInvalidDimension)
}

func TestIncrementSampleUsesIntegratedRow(t *testing.T) {
	d := newTestDriver(t)
	sample, err := d.IncrementSample(9, 3, 1.0/252)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		dW := d.increments(newStream(pathSeed(9, i)), 2, 1.0/252)
		for _, f := range model.Factors {
			assert.Equal(t, dW[f][1], sample[f][i], "%s sample %d", f, i)
		}
	}
}

func TestBehaviorMode(t *testing.T) {
	b, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, Corrected(), b)

	b, err = ParseMode(" Legacy ")
	require.NoError(t, err)
	assert.Equal(t, Legacy(), b)
	assert.Equal(t, ModeLegacy, b.Mode())

	_, err = ParseMode("turbo")
	assert.Error(t, err)

	assert.Equal(t, "custom", Behavior{SharedIncrements: true}.Mode())
}
