package report

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"

	"bond-tc-sim/internal/analysis"
	"bond-tc-sim/internal/model"

	"gonum.org/v1/gonum/mat"
)

// WriteFile creates path and hands it to write.
func WriteFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WritePathsCSV writes one row per path and one column per day.
func WritePathsCSV(out io.Writer, paths mat.Matrix) error {
	w := csv.NewWriter(out)

	n, days := paths.Dims()
	header := make([]string, 0, days+1)
	header = append(header, "path")
	for j := 0; j < days; j++ {
		header = append(header, dayColumn(j))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	row := make([]string, days+1)
	for i := 0; i < n; i++ {
		row[0] = strconv.Itoa(i)
		for j := 0; j < days; j++ {
			row[j+1] = fmtFloat(paths.At(i, j))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

var summaryHeader = []string{"day", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// WriteSummaryCSV writes per-day statistics, one row per day.
func WriteSummaryCSV(out io.Writer, stats []analysis.DayStats) error {
	w := csv.NewWriter(out)
	if err := w.Write(summaryHeader); err != nil {
		return err
	}
	for _, s := range stats {
		row := []string{
			strconv.Itoa(s.Day),
			strconv.Itoa(s.Count),
			fmtFloat(s.Mean),
			fmtFloat(s.Std),
			fmtFloat(s.Min),
			fmtFloat(s.Q25),
			fmtFloat(s.Median),
			fmtFloat(s.Q75),
			fmtFloat(s.Max),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteAttributionCSV writes the mean contribution of every factor per day.
func WriteAttributionCSV(out io.Writer, attr []analysis.DayAttribution) error {
	w := csv.NewWriter(out)
	header := []string{"day"}
	for _, f := range model.Factors {
		header = append(header, f.String())
	}
	header = append(header, "total")
	if err := w.Write(header); err != nil {
		return err
	}
	for _, a := range attr {
		row := []string{strconv.Itoa(a.Day)}
		for _, f := range model.Factors {
			row = append(row, fmtFloat(a.Means[f]))
		}
		row = append(row, fmtFloat(a.Total))
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func dayColumn(j int) string {
	return "day_" + strconv.Itoa(j)
}

// fmtFloat renders NaN as an empty cell.
func fmtFloat(x float64) string {
	if math.IsNaN(x) {
		return ""
	}
	return strconv.FormatFloat(x, 'f', 6, 64)
}
