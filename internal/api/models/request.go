package models

import "bond-tc-sim/internal/config"

// SimulationRequest represents the request body for running a simulation.
// Every scenario field is optional; omitted fields keep the defaults.
type SimulationRequest struct {
	NumPaths           *int     `json:"num_paths,omitempty"`
	BaseMean           *float64 `json:"base_mean,omitempty"`
	MeanReversionSpeed *float64 `json:"mean_reversion_speed,omitempty"`
	BaseVol            *float64 `json:"base_vol,omitempty"`
	NDays              *int     `json:"n_days,omitempty"`
	Timestep           *float64 `json:"timestep,omitempty"`

	SectorChoice    *string `json:"sector_choice,omitempty"`
	RatingsChoice   *string `json:"ratings_choice,omitempty"`
	MaturityChoice  *int    `json:"maturity_choice,omitempty"`
	LiquidityChoice *int    `json:"liquidity_choice,omitempty"`
	LotsizeChoice   *int    `json:"lotsize_choice,omitempty"`

	Seed     *uint64  `json:"seed,omitempty"`
	Noise    *float64 `json:"noise,omitempty"`
	NoiseVol *float64 `json:"noise_vol,omitempty"`
	Mode     string   `json:"mode,omitempty" binding:"omitempty,oneof=corrected legacy"`

	Correlation [][]float64 `json:"correlation,omitempty"`

	Options SimulationOptions `json:"options,omitempty"`
}

// SimulationOptions controls what the response carries.
type SimulationOptions struct {
	IncludePaths bool `json:"include_paths,omitempty"` // default: false
	Attribution  bool `json:"attribution,omitempty"`   // per-factor mean contributions
}

// Apply overlays the request's set fields onto c.
func (r SimulationRequest) Apply(c *config.Config) {
	setInt(&c.NumPaths, r.NumPaths)
	setFloat(&c.BaseMean, r.BaseMean)
	setFloat(&c.MeanReversionSpeed, r.MeanReversionSpeed)
	setFloat(&c.BaseVol, r.BaseVol)
	setInt(&c.NDays, r.NDays)
	setFloat(&c.Timestep, r.Timestep)
	if r.SectorChoice != nil {
		c.SectorChoice = *r.SectorChoice
	}
	if r.RatingsChoice != nil {
		c.RatingsChoice = *r.RatingsChoice
	}
	setInt(&c.MaturityChoice, r.MaturityChoice)
	setInt(&c.LiquidityChoice, r.LiquidityChoice)
	setInt(&c.LotsizeChoice, r.LotsizeChoice)
	if r.Seed != nil {
		seed := *r.Seed
		c.Seed = &seed
	}
	if r.Noise != nil {
		noise := *r.Noise
		c.Noise = &noise
	}
	setFloat(&c.NoiseVol, r.NoiseVol)
	if r.Mode != "" {
		c.Mode = r.Mode
	}
	if r.Correlation != nil {
		c.Correlation = r.Correlation
	}
	if r.Options.Attribution {
		c.Components = true
	}
}

// CompareRequest runs each variation over the base scenario with the same
// seed and ranks them by final-day mean TC.
type CompareRequest struct {
	Base       SimulationRequest `json:"base"`
	Variations []Variation       `json:"variations" binding:"required,min=1,max=32,dive"`
}

// Variation defines a scenario to compare against the others.
type Variation struct {
	Name      string            `json:"name" binding:"required"`
	Overrides SimulationRequest `json:"overrides"`
}

// PathsQuery selects the export format for GET /simulations/:id/paths.
type PathsQuery struct {
	Format string `form:"format" binding:"omitempty,oneof=json csv xlsx png svg"`
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
