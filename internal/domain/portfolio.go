package domain

import "fmt"

// Portfolio is one player's cash balance and signed per-instrument
// holdings (positive = long, negative = short). A missing holdings
// entry reads as zero. Like StockLedger, it relies on the owning
// room for serialization.
type Portfolio struct {
	cash     int64 // paise
	holdings map[string]int64
}

// NewPortfolio creates a portfolio with the given opening cash and no
// holdings.
func NewPortfolio(cash int64) *Portfolio {
	return &Portfolio{
		cash:     cash,
		holdings: make(map[string]int64),
	}
}

// Cash returns the current balance in paise.
func (p *Portfolio) Cash() int64 {
	return p.cash
}

// Holding returns the signed share count for an instrument, 0 if absent.
func (p *Portfolio) Holding(name string) int64 {
	return p.holdings[name]
}

// Holdings returns a copy of the non-zero holdings map.
func (p *Portfolio) Holdings() map[string]int64 {
	out := make(map[string]int64, len(p.holdings))
	for name, qty := range p.holdings {
		if qty != 0 {
			out[name] = qty
		}
	}
	return out
}

// Debit subtracts amount from cash. It returns ErrInsufficientFunds if
// amount exceeds the balance; the balance can therefore never go negative.
func (p *Portfolio) Debit(amount int64) error {
	if amount > p.cash {
		return fmt.Errorf("%w: need %d paise, have %d", ErrInsufficientFunds, amount, p.cash)
	}
	p.cash -= amount
	return nil
}

// Credit adds amount to cash. It always succeeds.
func (p *Portfolio) Credit(amount int64) {
	p.cash += amount
}

// AdjustHolding applies the signed delta directly. Bounds are enforced
// upstream by the trade validator, so this cannot fail.
func (p *Portfolio) AdjustHolding(name string, delta int64) {
	p.holdings[name] += delta
}

// NetWorth is cash plus the signed market value of all holdings. A
// short position contributes negatively, so a price rise on a shorted
// instrument lowers net worth automatically.
func (p *Portfolio) NetWorth(l *StockLedger) int64 {
	nw := p.cash
	for name, qty := range p.holdings {
		nw += qty * l.Price(name)
	}
	return nw
}

// ShortExposure is the market value of all short positions, excluding
// the named instrument (pass "" to include everything). Used by the
// sell-side collateral check, which must not double count the prior
// short in the instrument being traded.
func (p *Portfolio) ShortExposure(l *StockLedger, exclude string) int64 {
	var total int64
	for name, qty := range p.holdings {
		if qty >= 0 || name == exclude {
			continue
		}
		total += -qty * l.Price(name)
	}
	return total
}
