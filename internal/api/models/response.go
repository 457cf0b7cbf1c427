package models

import (
	"math"

	"bond-tc-sim/internal/analysis"
	"bond-tc-sim/internal/model"
)

// SimulationResponse represents the response from a simulation run
type SimulationResponse struct {
	ID          string        `json:"id"`
	Status      string        `json:"status"`
	Scenario    ScenarioInfo  `json:"scenario"`
	Summary     []DayStats    `json:"summary"`
	FinalCost   CostInfo      `json:"final_cost"`
	Attribution []Attribution `json:"attribution,omitempty"`
	Paths       [][]float64   `json:"paths,omitempty"`
	FloorEvents int64         `json:"floor_events"`
	ElapsedMS   float64       `json:"elapsed_ms"`
}

// ScenarioInfo echoes the resolved scenario
type ScenarioInfo struct {
	Label              string  `json:"label"`
	NumPaths           int     `json:"num_paths"`
	NDays              int     `json:"n_days"`
	Timestep           float64 `json:"timestep"`
	MeanReversionSpeed float64 `json:"mean_reversion_speed"`
	BaseMean           float64 `json:"base_mean"`
	BaseVol            float64 `json:"base_vol"`
	SectorChoice       string  `json:"sector_choice"`
	RatingsChoice      string  `json:"ratings_choice"`
	MaturityChoice     int     `json:"maturity_choice"`
	LiquidityChoice    int     `json:"liquidity_choice"`
	LotsizeChoice      int     `json:"lotsize_choice"`
	Noise              float64 `json:"noise"`
	Seed               uint64  `json:"seed"`
	Mode               string  `json:"mode"`
}

// DayStats is one day of cross-path statistics. Std is null for a single path.
type DayStats struct {
	Day    int      `json:"day"`
	Count  int      `json:"count"`
	Mean   float64  `json:"mean"`
	Std    *float64 `json:"std"`
	Min    float64  `json:"min"`
	Q25    float64  `json:"q25"`
	Median float64  `json:"median"`
	Q75    float64  `json:"q75"`
	Max    float64  `json:"max"`
}

// CostInfo is the final-day TC in currency for the scenario's lot size
type CostInfo struct {
	LotSize int     `json:"lot_size"`
	Mean    *string `json:"mean"`
	Median  *string `json:"median"`
	Q25     *string `json:"q25"`
	Q75     *string `json:"q75"`
	Max     *string `json:"max"`
}

// Attribution is the mean contribution of each factor on one day
type Attribution struct {
	Day     int                `json:"day"`
	Factors map[string]float64 `json:"factors"`
	Total   float64            `json:"total"`
}

// PathsResponse represents a stored run's full paths matrix
type PathsResponse struct {
	ID       string      `json:"id"`
	NumPaths int         `json:"num_paths"`
	NDays    int         `json:"n_days"`
	Paths    [][]float64 `json:"paths"`
}

// CompareResponse represents the response from a comparison
type CompareResponse struct {
	Seed     uint64             `json:"seed"`
	Rankings []ComparisonResult `json:"rankings"`
}

// ComparisonResult contains results for one variation
type ComparisonResult struct {
	Rank        int      `json:"rank"`
	Name        string   `json:"name"`
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	FinalMean   float64  `json:"final_mean"`
	FinalMedian float64  `json:"final_median"`
	FinalStd    *float64 `json:"final_std"`
	FinalCost   CostInfo `json:"final_cost"`
}

// FactorsResponse lists every legal factor selection
type FactorsResponse struct {
	Base           FactorOption   `json:"base"`
	Sectors        []FactorOption `json:"sectors"`
	Ratings        []FactorOption `json:"ratings"`
	Maturities     []FactorOption `json:"maturities"`
	LiquidityTiers []FactorOption `json:"liquidity_tiers"`
	LotSizes       []FactorOption `json:"lot_sizes"`
	Correlation    [][]float64    `json:"correlation"`
	Modes          []string       `json:"modes"`
}

// FactorOption is one category with its OU parameters
type FactorOption struct {
	Key  any     `json:"key"`
	Mean float64 `json:"mean"`
	Vol  float64 `json:"vol"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewDayStats converts analysis output into its JSON form.
func NewDayStats(stats []analysis.DayStats) []DayStats {
	out := make([]DayStats, len(stats))
	for i, s := range stats {
		out[i] = DayStats{
			Day:    s.Day,
			Count:  s.Count,
			Mean:   s.Mean,
			Std:    FiniteOrNil(s.Std),
			Min:    s.Min,
			Q25:    s.Q25,
			Median: s.Median,
			Q75:    s.Q75,
			Max:    s.Max,
		}
	}
	return out
}

func NewAttribution(attr []analysis.DayAttribution) []Attribution {
	if attr == nil {
		return nil
	}
	out := make([]Attribution, len(attr))
	for i, a := range attr {
		factors := make(map[string]float64, model.NumFactors)
		for _, f := range model.Factors {
			factors[f.String()] = a.Means[f]
		}
		out[i] = Attribution{Day: a.Day, Factors: factors, Total: a.Total}
	}
	return out
}

// FiniteOrNil maps NaN and infinities to null.
func FiniteOrNil(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}
