package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"bond-tc-sim/internal/model"
	"bond-tc-sim/internal/sim"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeepsDefaults(t *testing.T) {
	c, err := Parse([]byte(`
num_paths: 25
sector_choice: Technology
ratings_choice: AAA
seed: 7
`))
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, 25, c.NumPaths)
	assert.Equal(t, "Technology", c.SectorChoice)
	assert.Equal(t, 10, c.NDays)
	assert.Equal(t, 5.0, c.BaseMean)
	assert.Equal(t, 0.5, c.MeanReversionSpeed)
	assert.Equal(t, 1.0/252, c.Timestep)
	assert.Equal(t, 100000, c.LotsizeChoice)
	assert.Equal(t, DefaultNoiseVol, c.NoiseVol)
	require.NotNil(t, c.Seed)
	assert.Equal(t, uint64(7), c.ResolveSeed())

	b, err := c.Behavior()
	require.NoError(t, err)
	assert.Equal(t, sim.Corrected(), b)
	assert.Equal(t, model.DefaultCorrelation(), c.CorrelationMatrix())
}

func TestScenarioNoise(t *testing.T) {
	c := Default()
	s1 := c.Scenario(3)
	s2 := c.Scenario(3)
	assert.Equal(t, s1.Noise, s2.Noise)
	assert.NotZero(t, s1.Noise)
	assert.Equal(t, sim.DrawNoise(3, DefaultNoiseVol), s1.Noise)

	fixed := 0.25
	c.Noise = &fixed
	assert.Equal(t, 0.25, c.Scenario(3).Noise)

	c.Noise = nil
	c.NoiseVol = 0
	assert.Zero(t, c.Scenario(3).Noise)

	s := Default().Scenario(1)
	assert.Equal(t, "Industrials/BBB+/10y/L3/100000", s.Label())
	assert.Equal(t, model.DefaultBase, s.Base)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{"unknown sector", "sector_choice: Crypto", model.ErrInvalidFactorSelection},
		{"unknown maturity", "maturity_choice: 31", model.ErrInvalidFactorSelection},
		{"unknown lot size", "lotsize_choice: 250000", model.ErrInvalidFactorSelection},
		{"zero paths", "num_paths: 0", model.ErrInvalidDimension},
		{"negative days", "n_days: -1", model.ErrInvalidDimension},
		{"zero timestep", "timestep: 0", model.ErrInvalidParameter},
		{"negative noise vol", "noise_vol: -0.1", model.ErrInvalidParameter},
		{"nan noise vol", "noise_vol: .nan", model.ErrInvalidParameter},
		{"huge noise vol", "noise_vol: 1e6", model.ErrInvalidParameter},
		{"huge base mean", "base_mean: 1e308", model.ErrInvalidParameter},
		{"nan base mean", "base_mean: .nan", model.ErrInvalidParameter},
		{"huge base vol", "base_vol: 1e308", model.ErrInvalidParameter},
		{"huge speed", "mean_reversion_speed: 1e9", model.ErrInvalidParameter},
		{"timestep over a year", "timestep: 2", model.ErrInvalidParameter},
		{"huge fixed noise", "noise: -1e300", model.ErrInvalidParameter},
		{"unknown sector with fixed noise", "sector_choice: Crypto\nnoise: 0.5", model.ErrInvalidFactorSelection},
		{"bad mode", "mode: turbo", model.ErrInvalidParameter},
		{"negative workers", "workers: -2", model.ErrInvalidParameter},
		{"empty rating", `ratings_choice: ""`, model.ErrInvalidParameter},
		{"correlation wrong size", "correlation: [[1, 0], [0, 1]]", model.ErrInvalidDimension},
		{"correlation not positive definite", `correlation:
  - [1, -0.5, -0.5, -0.5, -0.5]
  - [-0.5, 1, -0.5, -0.5, -0.5]
  - [-0.5, -0.5, 1, -0.5, -0.5]
  - [-0.5, -0.5, -0.5, 1, -0.5]
  - [-0.5, -0.5, -0.5, -0.5, 1]`, model.ErrNonPositiveDefinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			assert.ErrorIs(t, c.Validate(), tt.wantErr)
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}

func TestValidateDrawsNoNoise(t *testing.T) {
	c, err := Parse([]byte("sector_choice: Crypto\nnoise_vol: 1000"))
	require.NoError(t, err)
	assert.ErrorIs(t, c.Validate(), model.ErrInvalidFactorSelection)

	c.SectorChoice = "Energy"
	require.NoError(t, c.Validate())
	assert.Nil(t, c.Noise, "validation must not fix the noise term")
	assert.Equal(t, sim.DrawNoise(7, 1000), c.Scenario(7).Noise)
}

func TestValidCorrelationOverride(t *testing.T) {
	c, err := Parse([]byte(`mode: legacy
correlation:
  - [1, 0, 0, 0, 0]
  - [0, 1, 0, 0, 0]
  - [0, 0, 1, 0, 0]
  - [0, 0, 0, 1, 0]
  - [0, 0, 0, 0, 1]
`))
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	assert.Equal(t, 1.0, c.CorrelationMatrix()[4][4])

	b, err := c.Behavior()
	require.NoError(t, err)
	assert.Equal(t, sim.Legacy(), b)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte("num_paths: 3\nliquidity_choice: 5\n"), 0o644))

	c, err := Load(good)
	require.NoError(t, err)
	assert.Equal(t, 3, c.NumPaths)
	assert.Equal(t, 5, c.LiquidityChoice)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("liquidity_choice: 9\n"), 0o644))
	_, err = Load(bad)
	assert.ErrorIs(t, err, model.ErrInvalidFactorSelection)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("num_paths: [\n"), 0o644))
	_, err = Load(broken)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadServer(t *testing.T) {
	t.Setenv("TCSIM_PORT", "9090")
	t.Setenv("TCSIM_ENV", "production")
	t.Setenv("TCSIM_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("TCSIM_CACHE_TTL", "5m")

	c, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, ":9090", c.Addr())
	assert.True(t, c.Production())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
	assert.Equal(t, 5*time.Minute, c.CacheTTL)
	assert.Equal(t, 20, c.RateLimitBurst)
	assert.Equal(t, "info", c.LogLevel)

	t.Setenv("TCSIM_PORT", "0")
	_, err = LoadServer()
	assert.Error(t, err)

	t.Setenv("TCSIM_PORT", "not-a-port")
	_, err = LoadServer()
	assert.Error(t, err)
}

func TestLoadExamples(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "examples", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			c, err := Load(path)
			require.NoError(t, err)
			_, err = c.Behavior()
			assert.NoError(t, err)
		})
	}

	legacy, err := Load(filepath.Join("..", "..", "examples", "legacy.yaml"))
	require.NoError(t, err)
	b, err := legacy.Behavior()
	require.NoError(t, err)
	assert.Equal(t, sim.Legacy(), b)
}
