package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibrarySizes(t *testing.T) {
	assert.Equal(t, 10, Sectors.Len())
	assert.Equal(t, 16, Ratings.Len())
	assert.Equal(t, 30, Maturities.Len())
	assert.Equal(t, 5, LiquidityTiers.Len())
	assert.Equal(t, 4, LotSizes.Len())
}

func TestTableLookup(t *testing.T) {
	tests := []struct {
		name string
		get  func() (FactorParams, error)
		want FactorParams
	}{
		{"sector industrials", func() (FactorParams, error) { return Sectors.Lookup("Industrials") }, FactorParams{7, 0.001}},
		{"sector energy", func() (FactorParams, error) { return Sectors.Lookup("Energy") }, FactorParams{8, 0.1}},
		{"rating BBB+", func() (FactorParams, error) { return Ratings.Lookup("BBB+") }, FactorParams{4, 0.001}},
		{"rating B-", func() (FactorParams, error) { return Ratings.Lookup("B-") }, FactorParams{6, 0.1}},
		{"maturity 10y", func() (FactorParams, error) { return Maturities.Lookup(10) }, FactorParams{0, 0.001}},
		{"maturity 30y", func() (FactorParams, error) { return Maturities.Lookup(30) }, FactorParams{0, 0.1}},
		{"liquidity tier 1", func() (FactorParams, error) { return LiquidityTiers.Lookup(1) }, FactorParams{5, 0.1}},
		{"liquidity tier 3", func() (FactorParams, error) { return LiquidityTiers.Lookup(3) }, FactorParams{3, 0.001}},
		{"lot 100k", func() (FactorParams, error) { return LotSizes.Lookup(100000) }, FactorParams{5, 0.001}},
		{"lot 10mm", func() (FactorParams, error) { return LotSizes.Lookup(10000000) }, FactorParams{0, 0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.get()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTableLookupUnknown(t *testing.T) {
	_, err := Sectors.Lookup("Crypto")
	assert.ErrorIs(t, err, ErrInvalidFactorSelection)
	assert.Contains(t, err.Error(), "Crypto")

	_, err = Maturities.Lookup(31)
	assert.ErrorIs(t, err, ErrInvalidFactorSelection)

	_, err = LotSizes.Lookup(250000)
	assert.ErrorIs(t, err, ErrInvalidFactorSelection)
}

func TestTableKeysAreCopies(t *testing.T) {
	keys := Sectors.Keys()
	require.Len(t, keys, 10)
	assert.Equal(t, "Industrials", keys[0])
	assert.Equal(t, "Technology", keys[9])

	keys[0] = "Crypto"
	assert.False(t, Sectors.Contains("Crypto"))
	assert.Equal(t, "Industrials", Sectors.Keys()[0])
}

func TestFactor(t *testing.T) {
	for i, f := range Factors {
		assert.Equal(t, Factor(i), f)
	}
	assert.Equal(t, "lot_size", FactorLotSize.String())
	assert.Equal(t, "factor(9)", Factor(9).String())
	assert.True(t, FactorLiquidity.Correlated())
	assert.False(t, FactorLotSize.Correlated())
	assert.False(t, Factor(-1).Correlated())
}

func TestDefaultCorrelation(t *testing.T) {
	c := DefaultCorrelation()
	require.Len(t, c, NumCorrelated)
	for i := range c {
		require.Len(t, c[i], NumCorrelated)
		assert.Equal(t, 1.0, c[i][i])
		for j := range c {
			assert.Equal(t, c[i][j], c[j][i])
		}
	}

	c[0][1] = 0.9
	assert.Equal(t, 0.10613038, DefaultCorrelation()[0][1])
}

func TestScenarioValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Scenario)
		wantErr error
	}{
		{"default is valid", func(*Scenario) {}, nil},
		{"technology AAA example", func(s *Scenario) {
			s.Sector, s.Rating, s.Maturity, s.Liquidity, s.LotSize = "Technology", "AAA", 1, 5, 10000000
			s.NDays, s.NumPaths = 10, 5
		}, nil},
		{"unknown sector", func(s *Scenario) { s.Sector = "Crypto" }, ErrInvalidFactorSelection},
		{"unknown rating", func(s *Scenario) { s.Rating = "CCC" }, ErrInvalidFactorSelection},
		{"maturity zero", func(s *Scenario) { s.Maturity = 0 }, ErrInvalidFactorSelection},
		{"liquidity six", func(s *Scenario) { s.Liquidity = 6 }, ErrInvalidFactorSelection},
		{"odd lot", func(s *Scenario) { s.LotSize = 123 }, ErrInvalidFactorSelection},
		{"zero paths", func(s *Scenario) { s.NumPaths = 0 }, ErrInvalidDimension},
		{"negative days", func(s *Scenario) { s.NDays = -1 }, ErrInvalidDimension},
		{"zero timestep", func(s *Scenario) { s.Timestep = 0 }, ErrInvalidParameter},
		{"nan speed", func(s *Scenario) { s.ReversionSpeed = math.NaN() }, ErrInvalidParameter},
		{"negative base vol", func(s *Scenario) { s.Base.Vol = -0.1 }, ErrInvalidParameter},
		{"infinite noise", func(s *Scenario) { s.Noise = math.Inf(1) }, ErrInvalidParameter},
		{"huge base mean", func(s *Scenario) { s.Base.Mean = 1e308 }, ErrInvalidParameter},
		{"huge negative base mean", func(s *Scenario) { s.Base.Mean = -1e5 }, ErrInvalidParameter},
		{"nan base mean", func(s *Scenario) { s.Base.Mean = math.NaN() }, ErrInvalidParameter},
		{"huge base vol", func(s *Scenario) { s.Base.Vol = 1e308 }, ErrInvalidParameter},
		{"timestep over a year", func(s *Scenario) { s.Timestep = 2 }, ErrInvalidParameter},
		{"huge speed", func(s *Scenario) { s.ReversionSpeed = 1e9 }, ErrInvalidParameter},
		{"huge noise", func(s *Scenario) { s.Noise = -1e300 }, ErrInvalidParameter},
		{"bounds are inclusive", func(s *Scenario) {
			s.Base = FactorParams{Mean: -MaxAbsCostBps, Vol: MaxAbsCostBps}
			s.Timestep, s.ReversionSpeed, s.Noise = MaxTimestep, MaxSpeed, MaxAbsCostBps
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultScenario()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestScenarioFactorParams(t *testing.T) {
	s := DefaultScenario()
	p, err := s.FactorParams()
	require.NoError(t, err)

	assert.Equal(t, DefaultBase, p[FactorBase])
	assert.Equal(t, FactorParams{7, 0.001}, p[FactorSector])
	assert.Equal(t, FactorParams{4, 0.001}, p[FactorRating])
	assert.Equal(t, FactorParams{0, 0.001}, p[FactorMaturity])
	assert.Equal(t, FactorParams{3, 0.001}, p[FactorLiquidity])
	assert.Equal(t, FactorParams{5, 0.001}, p[FactorLotSize])
	assert.Equal(t, "Industrials/BBB+/10y/L3/100000", s.Label())
}
