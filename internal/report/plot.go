package report

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"bond-tc-sim/internal/analysis"
	"bond-tc-sim/internal/sim"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ChartFormats are the image formats WriteFanChart renders.
var ChartFormats = []string{"png", "svg"}

const (
	chartWidth  = 8 * vg.Inch
	chartHeight = 5 * vg.Inch
)

var (
	rangeFill  = color.RGBA{R: 70, G: 130, B: 180, A: 40}
	iqrFill    = color.RGBA{R: 70, G: 130, B: 180, A: 110}
	medianLine = color.RGBA{R: 25, G: 60, B: 120, A: 255}
	meanLine   = color.RGBA{R: 200, G: 80, B: 40, A: 255}
	sampleLine = color.RGBA{R: 90, G: 90, B: 90, A: 120}
)

// ParseChartFormat normalizes a format name or file extension ("PNG", ".svg").
func ParseChartFormat(s string) (string, error) {
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	for _, ok := range ChartFormats {
		if f == ok {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported chart format %q (want one of %s)", s, strings.Join(ChartFormats, ", "))
}

// WriteFanChart renders the ensemble as a fan chart: the min-max and
// interquartile bands per day, the median and mean lines, and up to
// samplePaths individual paths.
func WriteFanChart(out io.Writer, res *sim.Result, format string, samplePaths int) error {
	format, err := ParseChartFormat(format)
	if err != nil {
		return err
	}
	stats := analysis.Describe(res.Paths)
	if len(stats) == 0 {
		return fmt.Errorf("no days to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%s, %d paths)", res.Scenario.Label(), res.Behavior.Mode(), res.Scenario.NumPaths)
	p.X.Label.Text = "day"
	p.Y.Label.Text = "transaction cost (bps)"
	p.Add(plotter.NewGrid())

	band := func(lo, hi func(analysis.DayStats) float64, fill color.Color) (*plotter.Polygon, error) {
		pts := make(plotter.XYs, 0, 2*len(stats))
		for _, s := range stats {
			pts = append(pts, plotter.XY{X: float64(s.Day), Y: hi(s)})
		}
		for i := len(stats) - 1; i >= 0; i-- {
			pts = append(pts, plotter.XY{X: float64(stats[i].Day), Y: lo(stats[i])})
		}
		poly, err := plotter.NewPolygon(pts)
		if err != nil {
			return nil, err
		}
		poly.Color = fill
		poly.LineStyle.Width = 0
		return poly, nil
	}
	line := func(y func(analysis.DayStats) float64, c color.Color, width vg.Length) (*plotter.Line, error) {
		pts := make(plotter.XYs, len(stats))
		for i, s := range stats {
			pts[i] = plotter.XY{X: float64(s.Day), Y: y(s)}
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		l.Color = c
		l.Width = width
		return l, nil
	}

	full, err := band(func(s analysis.DayStats) float64 { return s.Min }, func(s analysis.DayStats) float64 { return s.Max }, rangeFill)
	if err != nil {
		return fmt.Errorf("min-max band: %w", err)
	}
	iqr, err := band(func(s analysis.DayStats) float64 { return s.Q25 }, func(s analysis.DayStats) float64 { return s.Q75 }, iqrFill)
	if err != nil {
		return fmt.Errorf("interquartile band: %w", err)
	}
	p.Add(full, iqr)

	paths, days := res.Dims()
	if samplePaths > paths {
		samplePaths = paths
	}
	for i := 0; i < samplePaths; i++ {
		pts := make(plotter.XYs, days)
		for j := range pts {
			pts[j] = plotter.XY{X: float64(j), Y: res.Paths.At(i, j)}
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("path %d: %w", i, err)
		}
		l.Color = sampleLine
		l.Width = vg.Points(0.5)
		p.Add(l)
	}

	median, err := line(func(s analysis.DayStats) float64 { return s.Median }, medianLine, vg.Points(1.5))
	if err != nil {
		return fmt.Errorf("median: %w", err)
	}
	mean, err := line(func(s analysis.DayStats) float64 { return s.Mean }, meanLine, vg.Points(1.5))
	if err != nil {
		return fmt.Errorf("mean: %w", err)
	}
	mean.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(median, mean)

	p.Legend.Add("min-max", full)
	p.Legend.Add("25%-75%", iqr)
	p.Legend.Add("median", median)
	p.Legend.Add("mean", mean)
	p.Legend.Top = true

	w, err := p.WriterTo(chartWidth, chartHeight, format)
	if err != nil {
		return fmt.Errorf("render %s chart: %w", format, err)
	}
	_, err = w.WriteTo(out)
	return err
}
