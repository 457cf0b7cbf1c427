package handlers

import (
	"net/http"

	"bond-tc-sim/internal/api/models"
	"bond-tc-sim/internal/model"
	"bond-tc-sim/internal/sim"

	"github.com/gin-gonic/gin"
)

// ListFactors handles GET /api/v1/factors
func ListFactors(c *gin.Context) {
	c.JSON(http.StatusOK, models.FactorsResponse{
		Base:           models.FactorOption{Key: "base", Mean: model.DefaultBase.Mean, Vol: model.DefaultBase.Vol},
		Sectors:        options(model.Sectors),
		Ratings:        options(model.Ratings),
		Maturities:     options(model.Maturities),
		LiquidityTiers: options(model.LiquidityTiers),
		LotSizes:       options(model.LotSizes),
		Correlation:    model.DefaultCorrelation(),
		Modes:          []string{sim.ModeCorrected, sim.ModeLegacy},
	})
}

func options[K comparable](t model.Table[K]) []models.FactorOption {
	keys := t.Keys()
	out := make([]models.FactorOption, 0, len(keys))
	for _, k := range keys {
		p, err := t.Lookup(k)
		if err != nil {
			continue
		}
		out = append(out, models.FactorOption{Key: k, Mean: p.Mean, Vol: p.Vol})
	}
	return out
}
