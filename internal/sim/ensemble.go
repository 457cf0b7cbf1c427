package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"bond-tc-sim/internal/model"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Observer receives one notification per completed run.
type Observer interface {
	ObserveRun(paths, days int, floors int64, elapsed time.Duration)
}

// Driver simulates ensembles of transaction-cost paths.
// A Driver is immutable after construction and safe for concurrent Runs.
type Driver struct {
	engine         *CorrelationEngine
	behavior       Behavior
	workers        int
	keepComponents bool
	logger         *slog.Logger
	observer       Observer
}

type Option func(*Driver)

// WithBehavior selects legacy or corrected model behavior. Default: Corrected().
func WithBehavior(b Behavior) Option {
	return func(d *Driver) { d.behavior = b }
}

// WithWorkers sets the number of goroutines simulating paths.
// n <= 0 uses GOMAXPROCS. Default: 1.
func WithWorkers(n int) Option {
	return func(d *Driver) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		d.workers = n
	}
}

// WithComponents keeps each factor's paths × days matrix on the result.
func WithComponents(keep bool) Option {
	return func(d *Driver) { d.keepComponents = keep }
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(d *Driver) { d.observer = o }
}

// NewDriver builds a driver over a NumCorrelated × NumCorrelated correlation matrix.
func NewDriver(corr [][]float64, opts ...Option) (*Driver, error) {
	if len(corr) != model.NumCorrelated {
		return nil, fmt.Errorf("%w: correlation matrix must be %dx%d, got %d rows",
			model.ErrInvalidDimension, model.NumCorrelated, model.NumCorrelated, len(corr))
	}
	engine, err := NewCorrelationEngine(corr)
	if err != nil {
		return nil, fmt.Errorf("correlation engine: %w", err)
	}
	d := &Driver{
		engine:   engine,
		behavior: Corrected(),
		workers:  1,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *Driver) Behavior() Behavior { return d.behavior }

func (d *Driver) Engine() *CorrelationEngine { return d.engine }

// Run simulates s.NumPaths independent paths of s.NDays days. Path i draws
// only from a stream seeded by (seed, i), so the result is bit-identical
// for a given seed regardless of the worker count. s.Noise is added to
// every entry unchanged. The scenario is validated before any draw; any
// error aborts the whole run.
func (d *Driver) Run(ctx context.Context, s model.Scenario, seed uint64) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	params, err := s.FactorParams()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	d.logger.InfoContext(ctx, "starting ensemble run",
		"scenario", s.Label(),
		"paths", s.NumPaths,
		"days", s.NDays,
		"seed", seed,
		"mode", d.behavior.Mode(),
		"workers", d.workers,
	)

	res := &Result{
		Scenario: s,
		Seed:     seed,
		Behavior: d.behavior,
		Paths:    mat.NewDense(s.NumPaths, s.NDays, nil),
	}
	if d.keepComponents {
		res.Components = make(map[model.Factor]*mat.Dense, model.NumFactors)
		for _, f := range model.Factors {
			res.Components[f] = mat.NewDense(s.NumPaths, s.NDays, nil)
		}
	}

	workers := d.workers
	if workers > s.NumPaths {
		workers = s.NumPaths
	}

	var floors atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			p := newPathBuffers(s.NDays)
			done := 0
			for i := w; i < s.NumPaths; i += workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				floors.Add(int64(d.simulatePath(newStream(pathSeed(seed, i)), s, params, p)))
				res.Paths.SetRow(i, p.total)
				if res.Components != nil {
					for _, f := range model.Factors {
						res.Components[f].SetRow(i, p.comps[f])
					}
				}
				done++
			}
			d.logger.DebugContext(ctx, "worker finished", "worker", w, "paths", done)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		d.logger.WarnContext(ctx, "ensemble run aborted", "scenario", s.Label(), "error", err)
		return nil, fmt.Errorf("run ensemble: %w", err)
	}

	res.FloorEvents = floors.Load()
	res.Elapsed = time.Since(start)
	if d.observer != nil {
		d.observer.ObserveRun(s.NumPaths, s.NDays, res.FloorEvents, res.Elapsed)
	}
	d.logger.InfoContext(ctx, "ensemble run completed",
		"scenario", s.Label(),
		"duration", res.Elapsed,
		"floor_events", res.FloorEvents,
	)
	return res, nil
}

// pathBuffers is per-worker scratch space reused across paths.
type pathBuffers struct {
	comps  [model.NumFactors][]float64
	slices [][]float64
	total  []float64
}

func newPathBuffers(n int) *pathBuffers {
	p := &pathBuffers{total: make([]float64, n), slices: make([][]float64, model.NumFactors)}
	for i := range p.comps {
		p.comps[i] = make([]float64, n)
		p.slices[i] = p.comps[i]
	}
	return p
}

// simulatePath fills p with one path's six components and their total,
// returning the number of floor events.
func (d *Driver) simulatePath(st *stream, s model.Scenario, params [model.NumFactors]model.FactorParams, p *pathBuffers) int {
	dW := d.increments(st, s.NDays, s.Timestep)

	floors := 0
	for _, f := range model.Factors {
		fp := params[f]
		vol := fp.Vol
		if f == model.FactorLiquidity && !d.behavior.LiquidityVolFromVolTable {
			vol = fp.Mean
		}
		floor := f != model.FactorBase || d.behavior.FloorBaseInitial
		x0 := initialValue(st, fp.Mean, vol, floor)
		floors += Integrate(p.comps[f], OUParams{
			Mean:     fp.Mean,
			Vol:      vol,
			Speed:    s.ReversionSpeed,
			Timestep: s.Timestep,
		}, x0, dW[f])
	}
	Aggregate(p.total, p.slices, s.Noise)
	return floors
}

// increments returns the increment column each factor integrates against.
func (d *Driver) increments(st *stream, nDays int, timestep float64) [model.NumFactors][]float64 {
	var out [model.NumFactors][]float64

	var shared *mat.Dense
	if d.behavior.SharedIncrements {
		shared = d.engine.Increments(st.Rand, nDays, timestep)
	}
	draw := func(col int) []float64 {
		m := shared
		if m == nil {
			m = d.engine.Increments(st.Rand, nDays, timestep)
		}
		return mat.Col(nil, col, m)
	}

	for _, f := range model.Factors {
		if f.Correlated() {
			out[f] = draw(int(f))
		}
	}

	if d.behavior.LotSizeIndependent {
		sd := math.Sqrt(timestep)
		col := make([]float64, nDays)
		for i := range col {
			col[i] = st.NormFloat64() * sd
		}
		out[model.FactorLotSize] = col
	} else {
		out[model.FactorLotSize] = draw(int(model.FactorBase))
	}
	return out
}

// IncrementSample draws n increment rows as the driver would for one path
// each and returns them column-wise per factor. Each sample is row 1 of a
// two-day draw, since Integrate never reads row 0. It is a diagnostic for
// checking realized cross-factor correlation.
func (d *Driver) IncrementSample(seed uint64, n int, timestep float64) ([model.NumFactors][]float64, error) {
	var out [model.NumFactors][]float64
	if n <= 0 {
		return out, fmt.Errorf("%w: sample size must be > 0, got %d", model.ErrInvalidDimension, n)
	}
	for f := range out {
		out[f] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		dW := d.increments(newStream(pathSeed(seed, i)), 2, timestep)
		for f := range out {
			out[f][i] = dW[f][1]
		}
	}
	return out, nil
}
