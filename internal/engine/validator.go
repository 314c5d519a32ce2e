package engine

import (
	"fmt"
	"math"

	"github.com/stockparty/stockparty/internal/domain"
)

// TradeEffect is the fully computed outcome of an accepted order.
// Validation produces it without side effects; the room applies it
// atomically under its write lock.
type TradeEffect struct {
	Stock        string
	Action       domain.TradeAction
	Quantity     int64
	Price        int64 // execution price in paise
	CashDelta    int64 // negative = debit
	HoldingDelta int64
	ReserveQty   int64 // shares drawn from the public pool
	ReleaseQty   int64 // shares returned to the public pool
}

// Validate decides accept/reject for an order against current ledger and
// portfolio state, and computes the resulting deltas. It is pure: the
// room must re-run it on every submission regardless of any client-side
// precomputation, since state may have changed since the client's last
// snapshot.
//
// Pool policy for shorts: a short position is invisible to the public
// pool. Selling releases only the portion that closes a long, and buying
// draws from the pool only for the portion that extends or opens a long;
// covering a short removes no pool share.
func Validate(ledger *domain.StockLedger, p *domain.Portfolio, order domain.TradeOrder) (TradeEffect, error) {
	if order.Quantity <= 0 {
		return TradeEffect{}, fmt.Errorf("%w: quantity must be positive, got %d",
			domain.ErrInvalidOrder, order.Quantity)
	}
	if !domain.InCatalog(order.Stock) {
		return TradeEffect{}, fmt.Errorf("%w: unknown instrument %q",
			domain.ErrInvalidOrder, order.Stock)
	}

	switch order.Action {
	case domain.ActionBuy:
		return validateBuy(ledger, p, order)
	case domain.ActionSell:
		return validateSell(ledger, p, order)
	case domain.ActionRights:
		return validateRights(p, order)
	default:
		return TradeEffect{}, fmt.Errorf("%w: unknown action %q",
			domain.ErrInvalidOrder, order.Action)
	}
}

func validateBuy(ledger *domain.StockLedger, p *domain.Portfolio, order domain.TradeOrder) (TradeEffect, error) {
	price := ledger.Price(order.Stock)
	cost, err := tradeCost(price, order.Quantity)
	if err != nil {
		return TradeEffect{}, err
	}
	if cost > p.Cash() {
		return TradeEffect{}, fmt.Errorf("%w: need %d paise, have %d",
			domain.ErrInsufficientFunds, cost, p.Cash())
	}

	// Only the long-extending portion draws from the pool; the portion
	// that covers an existing short does not.
	covered := min64(order.Quantity, max64(-p.Holding(order.Stock), 0))
	reserve := order.Quantity - covered
	if reserve > ledger.Available(order.Stock) {
		return TradeEffect{}, fmt.Errorf("%w: %d shares of %s requested, %d available",
			domain.ErrPoolExhausted, reserve, order.Stock, ledger.Available(order.Stock))
	}

	return TradeEffect{
		Stock:        order.Stock,
		Action:       domain.ActionBuy,
		Quantity:     order.Quantity,
		Price:        price,
		CashDelta:    -cost,
		HoldingDelta: order.Quantity,
		ReserveQty:   reserve,
	}, nil
}

func validateSell(ledger *domain.StockLedger, p *domain.Portfolio, order domain.TradeOrder) (TradeEffect, error) {
	price := ledger.Price(order.Stock)
	proceeds, err := tradeCost(price, order.Quantity)
	if err != nil {
		return TradeEffect{}, err
	}
	owned := max64(p.Holding(order.Stock), 0)

	// Collateral check: shorts are bounded by net worth net of the
	// player's other short exposure, valued at the current price.
	collateral := p.NetWorth(ledger) - p.ShortExposure(ledger, order.Stock)
	shortCapacity := collateral / price
	if shortCapacity < 0 {
		shortCapacity = 0
	}

	maxSellable := owned + shortCapacity
	if order.Quantity > maxSellable {
		return TradeEffect{}, fmt.Errorf("%w: %d shares requested, %d sellable (%d owned, %d short capacity)",
			domain.ErrExceedsSellCapacity, order.Quantity, maxSellable, owned, shortCapacity)
	}

	return TradeEffect{
		Stock:        order.Stock,
		Action:       domain.ActionSell,
		Quantity:     order.Quantity,
		Price:        price,
		CashDelta:    proceeds,
		HoldingDelta: -order.Quantity,
		ReleaseQty:   min64(order.Quantity, owned),
	}, nil
}

func validateRights(p *domain.Portfolio, order domain.TradeOrder) (TradeEffect, error) {
	// Rights issues subscribe at the fixed price regardless of market
	// price and never touch the public pool: they dilute, not draw.
	cost, err := tradeCost(domain.RightsPrice, order.Quantity)
	if err != nil {
		return TradeEffect{}, err
	}
	if cost > p.Cash() {
		return TradeEffect{}, fmt.Errorf("%w: need %d paise, have %d",
			domain.ErrInsufficientFunds, cost, p.Cash())
	}

	return TradeEffect{
		Stock:        order.Stock,
		Action:       domain.ActionRights,
		Quantity:     order.Quantity,
		Price:        domain.RightsPrice,
		CashDelta:    -cost,
		HoldingDelta: order.Quantity,
	}, nil
}

// tradeCost computes price × quantity in paise. Quantities whose total
// does not fit in int64 are rejected before the multiply; an overflowed
// cost would wrap negative and slip past the funds check. Prices are
// clamped at PriceFloor, so price is always positive here.
func tradeCost(price, qty int64) (int64, error) {
	if qty > math.MaxInt64/price {
		return 0, fmt.Errorf("%w: quantity %d at %d paise exceeds the representable total",
			domain.ErrInvalidOrder, qty, price)
	}
	return price * qty, nil
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
