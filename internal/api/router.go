package api

import (
	"log/slog"
	"net/http"

	"bond-tc-sim/internal/api/handlers"
	"bond-tc-sim/internal/api/middleware"
	"bond-tc-sim/internal/api/models"
	"bond-tc-sim/internal/observability"
	"bond-tc-sim/internal/store"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the router wires into handlers and middleware.
type Deps struct {
	Logger         *slog.Logger
	Metrics        *observability.Metrics
	Store          *store.RunCache
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	Workers        int
	MaxCells       int
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Metrics == nil {
		d.Metrics = observability.NewMetrics("")
	}
	if len(d.AllowedOrigins) == 0 {
		d.AllowedOrigins = []string{"*"}
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler(d.Logger))
	router.Use(middleware.Logger(d.Logger))
	router.Use(middleware.Metrics(d.Metrics))
	router.Use(middleware.CORS(d.AllowedOrigins))

	simHandler := handlers.NewSimulationHandler(handlers.SimulationOptions{
		Store:    d.Store,
		Metrics:  d.Metrics,
		Logger:   d.Logger,
		Workers:  d.Workers,
		MaxCells: d.MaxCells,
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "stored_runs": d.Store.Len()})
	})
	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	// API routes
	api := router.Group("/api/v1")
	api.Use(middleware.RateLimit(d.RateLimitRPS, d.RateLimitBurst))
	{
		api.GET("/factors", handlers.ListFactors)

		api.POST("/simulations", simHandler.RunSimulation)
		api.GET("/simulations/:id/paths", simHandler.GetPaths)
		api.POST("/simulations/compare", simHandler.CompareSimulations)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "Not found"},
		})
	})
	return router
}
