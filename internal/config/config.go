package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"bond-tc-sim/internal/model"
	"bond-tc-sim/internal/sim"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk scenario shape (YAML). Keys left out of a file keep
// the values from Default.
type Config struct {
	NumPaths           int     `yaml:"num_paths" json:"num_paths" validate:"lte=10000000"`
	BaseMean           float64 `yaml:"base_mean" json:"base_mean" validate:"gte=-10000,lte=10000"`
	MeanReversionSpeed float64 `yaml:"mean_reversion_speed" json:"mean_reversion_speed" validate:"gte=0,lte=10000"`
	BaseVol            float64 `yaml:"base_vol" json:"base_vol" validate:"gte=0,lte=10000"`
	NDays              int     `yaml:"n_days" json:"n_days" validate:"lte=100000"`
	Timestep           float64 `yaml:"timestep" json:"timestep" validate:"gt=0,lte=1"`

	SectorChoice    string `yaml:"sector_choice" json:"sector_choice" validate:"required"`
	RatingsChoice   string `yaml:"ratings_choice" json:"ratings_choice" validate:"required"`
	MaturityChoice  int    `yaml:"maturity_choice" json:"maturity_choice"`
	LiquidityChoice int    `yaml:"liquidity_choice" json:"liquidity_choice"`
	LotsizeChoice   int    `yaml:"lotsize_choice" json:"lotsize_choice"`

	// Seed drives every random draw of the run. Nil means pick one at run time.
	Seed *uint64 `yaml:"seed" json:"seed,omitempty"`
	// Noise fixes the noise term. Nil means draw it from N(0, NoiseVol).
	Noise    *float64 `yaml:"noise" json:"noise,omitempty" validate:"omitempty,gte=-10000,lte=10000"`
	NoiseVol float64  `yaml:"noise_vol" json:"noise_vol" validate:"gte=0,lte=1000"`

	Mode    string `yaml:"mode" json:"mode" validate:"omitempty,oneof=corrected legacy"`
	Workers int    `yaml:"workers" json:"workers" validate:"gte=0,lte=1024"`

	// Correlation overrides the default 5x5 matrix when set.
	Correlation [][]float64 `yaml:"correlation" json:"correlation,omitempty"`
	// Components keeps per-factor paths for attribution.
	Components bool `yaml:"components" json:"components"`
}

const DefaultNoiseVol = 0.001

var validate = validator.New()

// Default returns the reference scenario.
func Default() *Config {
	s := model.DefaultScenario()
	return &Config{
		NumPaths:           s.NumPaths,
		BaseMean:           s.Base.Mean,
		MeanReversionSpeed: s.ReversionSpeed,
		BaseVol:            s.Base.Vol,
		NDays:              s.NDays,
		Timestep:           s.Timestep,
		SectorChoice:       s.Sector,
		RatingsChoice:      s.Rating,
		MaturityChoice:     s.Maturity,
		LiquidityChoice:    s.Liquidity,
		LotsizeChoice:      s.LotSize,
		NoiseVol:           DefaultNoiseVol,
		Mode:               sim.ModeCorrected,
	}
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadUnchecked reads a scenario file over the defaults without validating it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse decodes YAML over the defaults.
func Parse(raw []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	return c, nil
}

// Validate checks field bounds, then the scenario itself, the mode and any
// correlation override. Bound violations wrap model.ErrInvalidParameter.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidParameter, err)
	}
	if _, err := c.Behavior(); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidParameter, err)
	}
	if math.IsNaN(c.NoiseVol) {
		return fmt.Errorf("%w: noise_vol must be a number", model.ErrInvalidParameter)
	}
	// Validate the scenario without drawing noise.
	var noise float64
	if c.Noise != nil {
		noise = *c.Noise
	}
	if err := c.scenario(noise).Validate(); err != nil {
		return err
	}
	if c.Correlation != nil {
		if len(c.Correlation) != model.NumCorrelated {
			return fmt.Errorf("%w: correlation must be %dx%d", model.ErrInvalidDimension, model.NumCorrelated, model.NumCorrelated)
		}
		if _, err := sim.NewCorrelationEngine(c.Correlation); err != nil {
			return fmt.Errorf("correlation: %w", err)
		}
	}
	return nil
}

// Scenario builds the model scenario. Unless Noise is fixed, the noise term
// is drawn from seed, so the same seed always gives the same scenario.
func (c *Config) Scenario(seed uint64) model.Scenario {
	if c.Noise != nil {
		return c.scenario(*c.Noise)
	}
	return c.scenario(sim.DrawNoise(seed, c.NoiseVol))
}

func (c *Config) scenario(noise float64) model.Scenario {
	return model.Scenario{
		NumPaths:       c.NumPaths,
		NDays:          c.NDays,
		Timestep:       c.Timestep,
		ReversionSpeed: c.MeanReversionSpeed,
		Base:           model.FactorParams{Mean: c.BaseMean, Vol: c.BaseVol},
		Sector:         c.SectorChoice,
		Rating:         c.RatingsChoice,
		Maturity:       c.MaturityChoice,
		Liquidity:      c.LiquidityChoice,
		LotSize:        c.LotsizeChoice,
		Noise:          noise,
	}
}

func (c *Config) Behavior() (sim.Behavior, error) {
	return sim.ParseMode(c.Mode)
}

// CorrelationMatrix returns the override or the default matrix.
func (c *Config) CorrelationMatrix() [][]float64 {
	if c.Correlation != nil {
		return c.Correlation
	}
	return model.DefaultCorrelation()
}

// ResolveSeed returns the configured seed, or a clock-derived one. Callers
// should log the result so a run can be repeated.
func (c *Config) ResolveSeed() uint64 {
	if c.Seed != nil {
		return *c.Seed
	}
	return uint64(time.Now().UnixNano())
}
