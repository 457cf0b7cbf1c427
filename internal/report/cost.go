package report

import (
	"fmt"
	"math"

	"bond-tc-sim/internal/analysis"

	"github.com/shopspring/decimal"
)

var bpsPerUnit = decimal.NewFromInt(10000)

// NotionalCost converts a cost in basis points into currency for a lot of
// the given face value, rounded to cents. NaN and infinite inputs have no
// currency value and come back with Valid unset.
func NotionalCost(bps float64, lotSize int) decimal.NullDecimal {
	if math.IsNaN(bps) || math.IsInf(bps, 0) {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(bps).
		Mul(decimal.NewFromInt(int64(lotSize))).
		Div(bpsPerUnit).
		Round(2))
}

// CostSummary is the final-day TC distribution expressed in currency.
type CostSummary struct {
	LotSize int
	Mean    decimal.NullDecimal
	Q25     decimal.NullDecimal
	Median  decimal.NullDecimal
	Q75     decimal.NullDecimal
	Max     decimal.NullDecimal
}

func SummarizeCost(final analysis.DayStats, lotSize int) CostSummary {
	return CostSummary{
		LotSize: lotSize,
		Mean:    NotionalCost(final.Mean, lotSize),
		Q25:     NotionalCost(final.Q25, lotSize),
		Median:  NotionalCost(final.Median, lotSize),
		Q75:     NotionalCost(final.Q75, lotSize),
		Max:     NotionalCost(final.Max, lotSize),
	}
}

func (c CostSummary) String() string {
	return fmt.Sprintf("lot %d: mean %s, median %s, IQR [%s, %s], max %s",
		c.LotSize, FixedCents(c.Mean), FixedCents(c.Median),
		FixedCents(c.Q25), FixedCents(c.Q75), FixedCents(c.Max))
}

// FixedCents formats d with two decimals, or "n/a" when it is not valid.
func FixedCents(d decimal.NullDecimal) string {
	if !d.Valid {
		return "n/a"
	}
	return d.Decimal.StringFixed(2)
}
