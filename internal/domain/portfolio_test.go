package domain

import (
	"errors"
	"testing"
)

func TestPortfolioDebitCredit(t *testing.T) {
	p := NewPortfolio(1000)

	if err := p.Debit(400); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Cash() != 600 {
		t.Errorf("Cash = %d, want 600", p.Cash())
	}

	// Debiting more than the balance fails and leaves cash untouched.
	err := p.Debit(601)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("got %v, want ErrInsufficientFunds", err)
	}
	if p.Cash() != 600 {
		t.Errorf("failed debit changed cash: %d", p.Cash())
	}

	// Debiting the exact balance is allowed.
	if err := p.Debit(600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Cash() != 0 {
		t.Errorf("Cash = %d, want 0", p.Cash())
	}

	p.Credit(250)
	if p.Cash() != 250 {
		t.Errorf("Cash = %d, want 250", p.Cash())
	}
}

func TestPortfolioHoldings(t *testing.T) {
	p := NewPortfolio(0)

	if p.Holding("HDFC") != 0 {
		t.Errorf("missing holding should read 0, got %d", p.Holding("HDFC"))
	}

	p.AdjustHolding("HDFC", 100)
	p.AdjustHolding("HDFC", -150)
	if p.Holding("HDFC") != -50 {
		t.Errorf("Holding = %d, want -50 (crossed into short)", p.Holding("HDFC"))
	}

	p.AdjustHolding("TISCO", 200)
	p.AdjustHolding("ONGC", -200)
	p.AdjustHolding("ONGC", 200)

	// Holdings copy omits zero entries and is detached from internals.
	h := p.Holdings()
	if len(h) != 2 {
		t.Fatalf("Holdings() = %v, want 2 non-zero entries", h)
	}
	if h["HDFC"] != -50 || h["TISCO"] != 200 {
		t.Errorf("Holdings() = %v", h)
	}
	h["TISCO"] = 999
	if p.Holding("TISCO") != 200 {
		t.Error("mutating the Holdings copy leaked into the portfolio")
	}
}

func TestNetWorth(t *testing.T) {
	l := NewStockLedger() // WOCKHARDT 2000, HDFC 2500

	p := NewPortfolio(StartingCash)
	if got := p.NetWorth(l); got != StartingCash {
		t.Errorf("empty portfolio NetWorth = %d, want %d", got, StartingCash)
	}

	// Long 1000 WOCKHARDT paid at market: cash down, value up, net flat.
	p.AdjustHolding("WOCKHARDT", 1000)
	if err := p.Debit(1000 * l.Price("WOCKHARDT")); err != nil {
		t.Fatal(err)
	}
	if got := p.NetWorth(l); got != StartingCash {
		t.Errorf("NetWorth after self-financed buy = %d, want %d", got, StartingCash)
	}

	// Price moves +100 paise: net worth rises by holding × delta.
	l.ApplyPriceChange("WOCKHARDT", 100)
	if got := p.NetWorth(l); got != StartingCash+1000*100 {
		t.Errorf("NetWorth after price rise = %d, want %d", got, StartingCash+1000*100)
	}

	// A short contributes negatively.
	p.AdjustHolding("HDFC", -200)
	want := StartingCash + 1000*100 - 200*l.Price("HDFC")
	if got := p.NetWorth(l); got != want {
		t.Errorf("NetWorth with short = %d, want %d", got, want)
	}
}

func TestShortExposure(t *testing.T) {
	l := NewStockLedger()
	p := NewPortfolio(0)
	p.AdjustHolding("WOCKHARDT", 500)  // long, never counts
	p.AdjustHolding("HDFC", -100)      // 100 × 2500
	p.AdjustHolding("TISCO", -10)      // 10 × 4000

	if got := p.ShortExposure(l, ""); got != 100*2500+10*4000 {
		t.Errorf("ShortExposure(all) = %d, want %d", got, 100*2500+10*4000)
	}
	if got := p.ShortExposure(l, "HDFC"); got != 10*4000 {
		t.Errorf("ShortExposure(exclude HDFC) = %d, want %d", got, 10*4000)
	}
	if got := p.ShortExposure(l, "WOCKHARDT"); got != 100*2500+10*4000 {
		t.Errorf("excluding a long position changed exposure: %d", got)
	}
}
