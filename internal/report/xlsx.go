package report

import (
	"fmt"
	"io"
	"math"

	"bond-tc-sim/internal/analysis"
	"bond-tc-sim/internal/model"
	"bond-tc-sim/internal/sim"

	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary     = "Summary"
	SheetPaths       = "Paths"
	SheetAttribution = "Attribution"
	SheetScenario    = "Scenario"
)

// WriteXLSX writes a workbook with the per-day summary, the full paths
// matrix, the scenario parameters and, when the result carries components,
// the per-factor attribution.
func WriteXLSX(out io.Writer, res *sim.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}
	stats := analysis.Describe(res.Paths)
	if err := writeSummarySheet(f, stats); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	if err := writePathsSheet(f, res); err != nil {
		return fmt.Errorf("paths sheet: %w", err)
	}
	if attr := analysis.FactorAttribution(res.Components); attr != nil {
		if err := writeAttributionSheet(f, attr); err != nil {
			return fmt.Errorf("attribution sheet: %w", err)
		}
	}
	if err := writeScenarioSheet(f, res); err != nil {
		return fmt.Errorf("scenario sheet: %w", err)
	}
	f.SetActiveSheet(0)
	return f.Write(out)
}

func writeSummarySheet(f *excelize.File, stats []analysis.DayStats) error {
	if err := setRow(f, SheetSummary, 1, toCells(summaryHeader)); err != nil {
		return err
	}
	for i, s := range stats {
		row := []interface{}{s.Day, s.Count,
			cell(s.Mean), cell(s.Std), cell(s.Min),
			cell(s.Q25), cell(s.Median), cell(s.Q75), cell(s.Max)}
		if err := setRow(f, SheetSummary, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writePathsSheet(f *excelize.File, res *sim.Result) error {
	if _, err := f.NewSheet(SheetPaths); err != nil {
		return err
	}
	n, days := res.Dims()
	header := []interface{}{"path"}
	for j := 0; j < days; j++ {
		header = append(header, dayColumn(j))
	}
	if err := setRow(f, SheetPaths, 1, header); err != nil {
		return err
	}
	row := make([]interface{}, days+1)
	for i := 0; i < n; i++ {
		row[0] = i
		for j := 0; j < days; j++ {
			row[j+1] = cell(res.Paths.At(i, j))
		}
		if err := setRow(f, SheetPaths, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeAttributionSheet(f *excelize.File, attr []analysis.DayAttribution) error {
	if _, err := f.NewSheet(SheetAttribution); err != nil {
		return err
	}
	header := []interface{}{"day"}
	for _, fac := range model.Factors {
		header = append(header, fac.String())
	}
	header = append(header, "total")
	if err := setRow(f, SheetAttribution, 1, header); err != nil {
		return err
	}
	for i, a := range attr {
		row := []interface{}{a.Day}
		for _, fac := range model.Factors {
			row = append(row, cell(a.Means[fac]))
		}
		row = append(row, cell(a.Total))
		if err := setRow(f, SheetAttribution, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeScenarioSheet(f *excelize.File, res *sim.Result) error {
	if _, err := f.NewSheet(SheetScenario); err != nil {
		return err
	}
	s := res.Scenario
	rows := [][]interface{}{
		{"parameter", "value"},
		{"num_paths", s.NumPaths},
		{"n_days", s.NDays},
		{"timestep", s.Timestep},
		{"mean_reversion_speed", s.ReversionSpeed},
		{"base_mean", s.Base.Mean},
		{"base_vol", s.Base.Vol},
		{"sector_choice", s.Sector},
		{"ratings_choice", s.Rating},
		{"maturity_choice", s.Maturity},
		{"liquidity_choice", s.Liquidity},
		{"lotsize_choice", s.LotSize},
		{"noise", s.Noise},
		{"seed", fmt.Sprintf("%d", res.Seed)},
		{"mode", res.Behavior.Mode()},
		{"floor_events", res.FloorEvents},
	}
	for i, r := range rows {
		if err := setRow(f, SheetScenario, i+1, r); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	addr, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, addr, &values)
}

func toCells(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// cell leaves NaN cells blank.
func cell(x float64) interface{} {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return x
}
