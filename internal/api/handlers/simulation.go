package handlers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"bond-tc-sim/internal/analysis"
	"bond-tc-sim/internal/api/models"
	"bond-tc-sim/internal/config"
	"bond-tc-sim/internal/model"
	"bond-tc-sim/internal/observability"
	"bond-tc-sim/internal/report"
	"bond-tc-sim/internal/sim"
	"bond-tc-sim/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// chartSamplePaths individual paths are drawn on rendered charts.
const chartSamplePaths = 20

// SimulationHandler handles simulation-related requests
type SimulationHandler struct {
	store    *store.RunCache
	metrics  *observability.Metrics
	logger   *slog.Logger
	workers  int
	maxCells int
}

// SimulationOptions configures a SimulationHandler. Zero values are valid:
// no store, no metrics, the default logger, GOMAXPROCS workers, no size cap.
type SimulationOptions struct {
	Store    *store.RunCache
	Metrics  *observability.Metrics
	Logger   *slog.Logger
	Workers  int
	MaxCells int
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(opts SimulationOptions) *SimulationHandler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SimulationHandler{
		store:    opts.Store,
		metrics:  opts.Metrics,
		logger:   logger,
		workers:  opts.Workers,
		maxCells: opts.MaxCells,
	}
}

// RunSimulation handles POST /api/v1/simulations
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	var req models.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordError("invalid_request")
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	cfg := config.Default()
	req.Apply(cfg)
	if err := h.checkConfig(cfg, 1); err != nil {
		h.fail(c, err, nil)
		return
	}

	seed := cfg.ResolveSeed()
	res, err := h.simulate(c.Request.Context(), cfg, seed)
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	id := h.put(res)

	resp := h.buildResponse(id, res)
	if req.Options.IncludePaths {
		resp.Paths = res.Rows()
	}
	c.JSON(http.StatusOK, resp)
}

// GetPaths handles GET /api/v1/simulations/:id/paths
func (h *SimulationHandler) GetPaths(c *gin.Context) {
	var q models.PathsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	id := c.Param("id")
	entry, ok := h.store.Get(id)
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND",
			fmt.Sprintf("simulation %q not found or expired", id), nil)
		return
	}
	res := entry.Result

	switch q.Format {
	case "csv":
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, id))
		c.Header("Content-Type", "text/csv")
		c.Status(http.StatusOK)
		if err := report.WritePathsCSV(c.Writer, res.Paths); err != nil {
			h.logger.ErrorContext(c.Request.Context(), "write paths csv", "id", id, "error", err)
		}
	case "xlsx":
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, id))
		c.Header("Content-Type", xlsxContentType)
		c.Status(http.StatusOK)
		if err := report.WriteXLSX(c.Writer, res); err != nil {
			h.logger.ErrorContext(c.Request.Context(), "write paths xlsx", "id", id, "error", err)
		}
	case "png", "svg":
		var buf bytes.Buffer
		if err := report.WriteFanChart(&buf, res, q.Format, chartSamplePaths); err != nil {
			h.logger.ErrorContext(c.Request.Context(), "render chart", "id", id, "error", err)
			writeError(c, http.StatusInternalServerError, "RENDER_ERROR", err.Error(), nil)
			return
		}
		contentType := "image/png"
		if q.Format == "svg" {
			contentType = "image/svg+xml"
		}
		c.Data(http.StatusOK, contentType, buf.Bytes())
	default:
		paths, days := res.Dims()
		c.JSON(http.StatusOK, models.PathsResponse{
			ID:       id,
			NumPaths: paths,
			NDays:    days,
			Paths:    res.Rows(),
		})
	}
}

// CompareSimulations handles POST /api/v1/simulations/compare
func (h *SimulationHandler) CompareSimulations(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordError("invalid_request")
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	// Every variation shares one seed so differences come from the scenario.
	base := config.Default()
	req.Base.Apply(base)
	seed := base.ResolveSeed()

	cfgs := make([]*config.Config, len(req.Variations))
	for i, v := range req.Variations {
		cfg := config.Default()
		req.Base.Apply(cfg)
		v.Overrides.Apply(cfg)
		cfg.Seed = &seed
		if err := h.checkConfig(cfg, len(req.Variations)); err != nil {
			h.fail(c, err, map[string]interface{}{"variation": v.Name})
			return
		}
		cfgs[i] = cfg
	}

	names := make(map[*sim.Result]string, len(cfgs))
	ids := make(map[*sim.Result]string, len(cfgs))
	results := make([]*sim.Result, 0, len(cfgs))
	for i, cfg := range cfgs {
		res, err := h.simulate(c.Request.Context(), cfg, seed)
		if err != nil {
			h.fail(c, err, map[string]interface{}{"variation": req.Variations[i].Name})
			return
		}
		names[res] = req.Variations[i].Name
		ids[res] = h.put(res)
		results = append(results, res)
	}

	ranked := analysis.RankByFinalMean(results)
	out := models.CompareResponse{Seed: seed, Rankings: make([]models.ComparisonResult, 0, len(ranked))}
	for _, r := range ranked {
		out.Rankings = append(out.Rankings, models.ComparisonResult{
			Rank:        r.Rank,
			Name:        names[r.Result],
			ID:          ids[r.Result],
			Label:       r.Label,
			FinalMean:   r.Final.Mean,
			FinalMedian: r.Final.Median,
			FinalStd:    models.FiniteOrNil(r.Final.Std),
			FinalCost:   costInfo(r.Final, r.Result.Scenario.LotSize),
		})
	}
	c.JSON(http.StatusOK, out)
}

// checkConfig validates cfg and enforces the per-request size cap, which is
// shared across the given number of runs.
func (h *SimulationHandler) checkConfig(cfg *config.Config, runs int) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if h.maxCells > 0 && cfg.NumPaths*cfg.NDays*runs > h.maxCells {
		return fmt.Errorf("%w: %d paths x %d days x %d runs exceeds the limit of %d cells",
			model.ErrInvalidDimension, cfg.NumPaths, cfg.NDays, runs, h.maxCells)
	}
	return nil
}

func (h *SimulationHandler) simulate(ctx context.Context, cfg *config.Config, seed uint64) (*sim.Result, error) {
	behavior, err := cfg.Behavior()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidParameter, err)
	}
	opts := []sim.Option{
		sim.WithBehavior(behavior),
		sim.WithWorkers(h.workers),
		sim.WithComponents(cfg.Components),
		sim.WithLogger(h.logger),
	}
	if h.metrics != nil {
		opts = append(opts, sim.WithObserver(h.metrics))
	}
	driver, err := sim.NewDriver(cfg.CorrelationMatrix(), opts...)
	if err != nil {
		return nil, err
	}
	return driver.Run(ctx, cfg.Scenario(seed), seed)
}

func (h *SimulationHandler) put(res *sim.Result) string {
	id := h.store.Put(res)
	if h.metrics != nil {
		h.metrics.SetStoredRuns(h.store.Len())
	}
	return id
}

func (h *SimulationHandler) fail(c *gin.Context, err error, details map[string]interface{}) {
	status, code := errorStatus(err)
	h.recordError(code)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(c.Request.Context(), "simulation failed", "error", err)
	}
	writeError(c, status, code, err.Error(), details)
}

func (h *SimulationHandler) recordError(reason string) {
	if h.metrics != nil {
		h.metrics.RecordRunError(reason)
	}
}

func (h *SimulationHandler) buildResponse(id string, res *sim.Result) models.SimulationResponse {
	s := res.Scenario
	stats := analysis.Describe(res.Paths)
	final, _ := analysis.Final(stats)

	return models.SimulationResponse{
		ID:     id,
		Status: "completed",
		Scenario: models.ScenarioInfo{
			Label:              s.Label(),
			NumPaths:           s.NumPaths,
			NDays:              s.NDays,
			Timestep:           s.Timestep,
			MeanReversionSpeed: s.ReversionSpeed,
			BaseMean:           s.Base.Mean,
			BaseVol:            s.Base.Vol,
			SectorChoice:       s.Sector,
			RatingsChoice:      s.Rating,
			MaturityChoice:     s.Maturity,
			LiquidityChoice:    s.Liquidity,
			LotsizeChoice:      s.LotSize,
			Noise:              s.Noise,
			Seed:               res.Seed,
			Mode:               res.Behavior.Mode(),
		},
		Summary:     models.NewDayStats(stats),
		FinalCost:   costInfo(final, s.LotSize),
		Attribution: models.NewAttribution(analysis.FactorAttribution(res.Components)),
		FloorEvents: res.FloorEvents,
		ElapsedMS:   float64(res.Elapsed.Microseconds()) / 1000,
	}
}

func costInfo(final analysis.DayStats, lotSize int) models.CostInfo {
	c := report.SummarizeCost(final, lotSize)
	return models.CostInfo{
		LotSize: lotSize,
		Mean:    cents(c.Mean),
		Median:  cents(c.Median),
		Q25:     cents(c.Q25),
		Q75:     cents(c.Q75),
		Max:     cents(c.Max),
	}
}

// cents renders a currency amount, or null when it has no finite value.
func cents(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.StringFixed(2)
	return &s
}
