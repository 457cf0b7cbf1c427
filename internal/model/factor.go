package model

import "fmt"

// Factor identifies one additive transaction-cost component.
// The numeric value of a correlated factor is its column in the
// correlation matrix and in every increment matrix.
type Factor int

const (
	FactorBase Factor = iota
	FactorSector
	FactorRating
	FactorMaturity
	FactorLiquidity
	FactorLotSize
)

// NumFactors is the fixed size of the factor set.
const NumFactors = 6

// NumCorrelated is the number of factors covered by the correlation matrix.
// Lot size sits outside it.
const NumCorrelated = 5

// Factors lists every factor in aggregation order.
var Factors = [NumFactors]Factor{
	FactorBase,
	FactorSector,
	FactorRating,
	FactorMaturity,
	FactorLiquidity,
	FactorLotSize,
}

func (f Factor) String() string {
	switch f {
	case FactorBase:
		return "base"
	case FactorSector:
		return "sector"
	case FactorRating:
		return "rating"
	case FactorMaturity:
		return "maturity"
	case FactorLiquidity:
		return "liquidity"
	case FactorLotSize:
		return "lot_size"
	default:
		return fmt.Sprintf("factor(%d)", int(f))
	}
}

// Correlated reports whether f has a row/column in the correlation matrix.
func (f Factor) Correlated() bool {
	return f >= FactorBase && f < FactorLotSize
}

// FactorParams is the long-run mean and volatility of one factor's OU process.
type FactorParams struct {
	Mean float64 `json:"mean" yaml:"mean"`
	Vol  float64 `json:"vol" yaml:"vol"`
}
