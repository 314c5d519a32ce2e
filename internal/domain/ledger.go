package domain

import "fmt"

// StockLedger holds the per-instrument price and public share pool for
// one room. It is not internally locked: the owning room serializes all
// mutations, and readers go through the room's snapshot path.
type StockLedger struct {
	prices    map[string]int64 // name → price in paise
	available map[string]int64 // name → shares in the public pool
}

// NewStockLedger creates a ledger seeded from the catalog: every
// instrument at its initial price with a full pool.
func NewStockLedger() *StockLedger {
	l := &StockLedger{
		prices:    make(map[string]int64, len(Catalog)),
		available: make(map[string]int64, len(Catalog)),
	}
	for _, inst := range Catalog {
		l.prices[inst.Name] = inst.InitialPrice
		l.available[inst.Name] = InitialPool
	}
	return l
}

// Price returns the current price in paise, or 0 for an unknown
// instrument. Callers validate instrument names against the catalog
// before trading.
func (l *StockLedger) Price(name string) int64 {
	return l.prices[name]
}

// Available returns the shares remaining in the public pool.
func (l *StockLedger) Available(name string) int64 {
	return l.available[name]
}

// ApplyPriceChange moves the price by delta paise, clamped so the
// result never drops below the floor. Returns the new price.
func (l *StockLedger) ApplyPriceChange(name string, delta int64) int64 {
	p := l.prices[name] + delta
	if p < PriceFloor {
		p = PriceFloor
	}
	l.prices[name] = p
	return p
}

// Reserve removes qty shares from the public pool. It returns
// ErrPoolExhausted if fewer than qty shares are available.
func (l *StockLedger) Reserve(name string, qty int64) error {
	if qty > l.available[name] {
		return fmt.Errorf("%w: %d shares of %s requested, %d available",
			ErrPoolExhausted, qty, name, l.available[name])
	}
	l.available[name] -= qty
	return nil
}

// Release returns qty shares to the public pool. There is no upper
// cap on pool growth; this matches the price floor-only clamp.
func (l *StockLedger) Release(name string, qty int64) {
	l.available[name] += qty
}
