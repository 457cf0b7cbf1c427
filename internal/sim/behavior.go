package sim

import (
	"fmt"
	"strings"
)

// Behavior selects between the reference model's literal quirks and their
// corrected forms. Each switch is independent.
type Behavior struct {
	// SharedIncrements draws one correlated increment matrix per path and
	// hands its columns to the correlated factors. When false every factor
	// draws its own matrix and keeps only its column, so no cross-factor
	// correlation survives within a path.
	SharedIncrements bool `json:"shared_increments"`

	// LotSizeIndependent gives lot size its own uncorrelated increments.
	// When false lot size reuses column 0 (the base column).
	LotSizeIndependent bool `json:"lot_size_independent"`

	// LiquidityVolFromVolTable reads liquidity volatility from the volatility
	// table. When false the liquidity mean is used as its volatility.
	LiquidityVolFromVolTable bool `json:"liquidity_vol_from_vol_table"`

	// FloorBaseInitial floors the base process's initial draw at zero like
	// every other factor.
	FloorBaseInitial bool `json:"floor_base_initial"`
}

const (
	ModeCorrected = "corrected"
	ModeLegacy    = "legacy"
)

// Corrected applies every fix.
func Corrected() Behavior {
	return Behavior{
		SharedIncrements:         true,
		LotSizeIndependent:       true,
		LiquidityVolFromVolTable: true,
		FloorBaseInitial:         true,
	}
}

// Legacy reproduces the reference model literally.
func Legacy() Behavior {
	return Behavior{}
}

// ParseMode maps a mode name to its preset. Empty means corrected.
func ParseMode(mode string) (Behavior, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeCorrected:
		return Corrected(), nil
	case ModeLegacy:
		return Legacy(), nil
	default:
		return Behavior{}, fmt.Errorf("unknown mode %q (want %q or %q)", mode, ModeCorrected, ModeLegacy)
	}
}

// Mode names the preset b matches, or "custom".
func (b Behavior) Mode() string {
	switch b {
	case Corrected():
		return ModeCorrected
	case Legacy():
		return ModeLegacy
	default:
		return "custom"
	}
}
