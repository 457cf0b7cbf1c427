package model

import "fmt"

// Scenario is one fixed sector/rating/maturity/liquidity/lot-size combination
// plus the global process parameters. It is a value: the ensemble driver never
// mutates it.
//
// Units:
// - costs (means, noise): basis points of notional
// - Timestep: years per simulated day (1/252 by default)
// - ReversionSpeed: per year
type Scenario struct {
	NumPaths       int
	NDays          int
	Timestep       float64
	ReversionSpeed float64

	Base FactorParams

	Sector    string
	Rating    string
	Maturity  int
	Liquidity int
	LotSize   int

	// Noise is added to every day of every path. It is fixed for the
	// scenario's lifetime; callers draw it once (see sim.DrawNoise).
	Noise float64
}

// DefaultScenario returns the reference scenario with a zero noise term.
func DefaultScenario() Scenario {
	return Scenario{
		NumPaths:       1000,
		NDays:          10,
		Timestep:       1.0 / 252,
		ReversionSpeed: 0.5,
		Base:           DefaultBase,
		Sector:         "Industrials",
		Rating:         "BBB+",
		Maturity:       10,
		Liquidity:      3,
		LotSize:        100000,
	}
}

// Numeric bounds. Anything wider than a whole notional in basis points, or
// a timestep longer than a year, is a unit mistake rather than a scenario.
const (
	MaxAbsCostBps = 10000
	MaxTimestep   = 1
	MaxSpeed      = 10000
)

// Validate checks dimensions, numeric ranges and categorical membership.
// It performs no random draws.
func (s Scenario) Validate() error {
	if s.NumPaths <= 0 {
		return fmt.Errorf("%w: num_paths must be > 0, got %d", ErrInvalidDimension, s.NumPaths)
	}
	if s.NDays <= 0 {
		return fmt.Errorf("%w: n_days must be > 0, got %d", ErrInvalidDimension, s.NDays)
	}
	if !within(s.Timestep, 0, MaxTimestep) || s.Timestep == 0 {
		return fmt.Errorf("%w: timestep must be in (0, %d], got %v", ErrInvalidParameter, MaxTimestep, s.Timestep)
	}
	if !within(s.ReversionSpeed, 0, MaxSpeed) {
		return fmt.Errorf("%w: mean_reversion_speed must be in [0, %d], got %v", ErrInvalidParameter, MaxSpeed, s.ReversionSpeed)
	}
	if !within(s.Base.Mean, -MaxAbsCostBps, MaxAbsCostBps) {
		return fmt.Errorf("%w: base_mean must be in [-%d, %d], got %v", ErrInvalidParameter, MaxAbsCostBps, MaxAbsCostBps, s.Base.Mean)
	}
	if !within(s.Base.Vol, 0, MaxAbsCostBps) {
		return fmt.Errorf("%w: base_vol must be in [0, %d], got %v", ErrInvalidParameter, MaxAbsCostBps, s.Base.Vol)
	}
	if !within(s.Noise, -MaxAbsCostBps, MaxAbsCostBps) {
		return fmt.Errorf("%w: noise must be in [-%d, %d], got %v", ErrInvalidParameter, MaxAbsCostBps, MaxAbsCostBps, s.Noise)
	}
	_, err := s.FactorParams()
	return err
}

// FactorParams resolves the scenario's categorical choices against the
// factor library, indexed by Factor.
func (s Scenario) FactorParams() ([NumFactors]FactorParams, error) {
	var out [NumFactors]FactorParams
	var err error

	out[FactorBase] = s.Base
	if out[FactorSector], err = Sectors.Lookup(s.Sector); err != nil {
		return out, err
	}
	if out[FactorRating], err = Ratings.Lookup(s.Rating); err != nil {
		return out, err
	}
	if out[FactorMaturity], err = Maturities.Lookup(s.Maturity); err != nil {
		return out, err
	}
	if out[FactorLiquidity], err = LiquidityTiers.Lookup(s.Liquidity); err != nil {
		return out, err
	}
	if out[FactorLotSize], err = LotSizes.Lookup(s.LotSize); err != nil {
		return out, err
	}
	return out, nil
}

// Label is a short human-readable identifier for logs and reports.
func (s Scenario) Label() string {
	return fmt.Sprintf("%s/%s/%dy/L%d/%d", s.Sector, s.Rating, s.Maturity, s.Liquidity, s.LotSize)
}

// within reports lo <= x <= hi; NaN is never within.
func within(x, lo, hi float64) bool {
	return x >= lo && x <= hi
}
