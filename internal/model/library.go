package model

import "fmt"

// Table is a read-only lookup from a factor category to its OU parameters.
// Keys keep their declaration order for listing.
type Table[K comparable] struct {
	name   string
	keys   []K
	params map[K]FactorParams
}

type entry[K comparable] struct {
	key K
	p   FactorParams
}

func newTable[K comparable](name string, entries ...entry[K]) Table[K] {
	t := Table[K]{
		name:   name,
		keys:   make([]K, 0, len(entries)),
		params: make(map[K]FactorParams, len(entries)),
	}
	for _, e := range entries {
		t.keys = append(t.keys, e.key)
		t.params[e.key] = e.p
	}
	return t
}

// Name is the configuration name of the dimension (e.g. "sector").
func (t Table[K]) Name() string { return t.name }

// Len returns the number of legal categories.
func (t Table[K]) Len() int { return len(t.keys) }

// Keys returns a copy of the legal categories in declaration order.
func (t Table[K]) Keys() []K {
	out := make([]K, len(t.keys))
	copy(out, t.keys)
	return out
}

// Contains reports whether k is a legal category.
func (t Table[K]) Contains(k K) bool {
	_, ok := t.params[k]
	return ok
}

// Lookup returns the parameters for k, or ErrInvalidFactorSelection.
func (t Table[K]) Lookup(k K) (FactorParams, error) {
	p, ok := t.params[k]
	if !ok {
		return FactorParams{}, fmt.Errorf("%w: %s %v", ErrInvalidFactorSelection, t.name, k)
	}
	return p, nil
}

func e[K comparable](k K, mean, vol float64) entry[K] {
	return entry[K]{key: k, p: FactorParams{Mean: mean, Vol: vol}}
}

// DefaultBase is the base corporate-bond cost process.
var DefaultBase = FactorParams{Mean: 5, Vol: 0.001}

// Sectors holds the per-sector cost parameters.
var Sectors = newTable("sector",
	e("Industrials", 7, 0.001),
	e("Financials", 3, 0.1),
	e("Utilities", 4, 0.1),
	e("Transportation", 5, 0.1),
	e("Communication Services", 7, 0.1),
	e("Consumer Discretionary", 2, 0.1),
	e("Consumer Staples", 2, 0.1),
	e("Energy", 8, 0.1),
	e("Healthcare", 6, 0.1),
	e("Technology", 4, 0.1),
)

// Ratings holds the per-credit-rating cost parameters.
var Ratings = newTable("rating",
	e("AAA", 2, 0.1),
	e("AA+", 2, 0.1),
	e("AA", 2, 0.1),
	e("AA-", 2, 0.1),
	e("A+", 3, 0.1),
	e("A", 3, 0.1),
	e("A-", 3, 0.1),
	e("BBB+", 4, 0.001),
	e("BBB", 4, 0.1),
	e("BBB-", 4, 0.1),
	e("BB+", 5, 0.1),
	e("BB", 5, 0.1),
	e("BB-", 5, 0.1),
	e("B+", 6, 0.1),
	e("B", 6, 0.1),
	e("B-", 6, 0.1),
)

// Maturities holds the per-tenor (years, 1..30) cost parameters.
var Maturities = func() Table[int] {
	entries := make([]entry[int], 0, 30)
	for y := 1; y <= 30; y++ {
		vol := 0.1
		if y == 10 {
			vol = 0.001
		}
		entries = append(entries, e(y, 0, vol))
	}
	return newTable("maturity", entries...)
}()

// LiquidityTiers holds the per-tier cost parameters; 1 is least liquid, 5 most.
var LiquidityTiers = newTable("liquidity",
	e(1, 5, 0.1),
	e(2, 4, 0.1),
	e(3, 3, 0.001),
	e(4, 1, 0.1),
	e(5, 0, 0.1),
)

// LotSizes holds the per-notional cost parameters.
var LotSizes = newTable("lot_size",
	e(100000, 5, 0.001),
	e(1000000, 2, 0.1),
	e(5000000, 1, 0.1),
	e(10000000, 0, 0.1),
)
