package domain

import "github.com/shopspring/decimal"

// Order sides, derived from the sign of the quantity.
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// Order is one buy or sell request. The sign of Quantity encodes the side:
// positive buys, negative sells, zero is invalid. Price is what the client
// saw when submitting and is advisory only; execution always uses the current
// market price.
type Order struct {
	Symbol    string          `json:"symbol"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	OrderType string          `json:"order_type"`
}

// Side returns "buy" or "sell" from the sign of the quantity.
func (o Order) Side() string {
	if o.Quantity > 0 {
		return SideBuy
	}
	return SideSell
}

// Validate checks an order against the loaded portfolio and the current
// market price. It is a pure decision over its three inputs: nothing is
// mutated, nothing is written.
//
// A buy needs quantity*price in cash; equality is accepted, so cash may reach
// exactly zero. A sell needs an existing position with enough shares; partial
// sells are fine.
func Validate(p Portfolio, o Order, price decimal.Decimal) error {
	switch {
	case o.Quantity == 0:
		return ErrZeroQuantity

	case o.Quantity > 0:
		required := price.Mul(decimal.NewFromInt(o.Quantity))
		if p.Cash.LessThan(required) {
			return ErrInsufficientFunds
		}

	default:
		sellQty := -o.Quantity
		if sellQty < 0 {
			// -math.MinInt64 overflows back to a negative quantity; no
			// position can cover it.
			return ErrInsufficientHoldings
		}
		pos, ok := p.Holdings[o.Symbol]
		if !ok {
			return ErrNoSuchPosition
		}
		if sellQty > pos.Quantity {
			return ErrInsufficientHoldings
		}
	}
	return nil
}

// Execute applies a validated order at the given market price and returns the
// new portfolio snapshot. The input portfolio is left untouched. Execute does
// not re-validate; callers must run Validate first.
func Execute(p Portfolio, o Order, price decimal.Decimal) Portfolio {
	next := p.Clone()
	if o.Quantity > 0 {
		executeBuy(&next, o, price)
	} else {
		executeSell(&next, o, price)
	}
	return next
}

func executeBuy(p *Portfolio, o Order, price decimal.Decimal) {
	qty := decimal.NewFromInt(o.Quantity)
	cost := price.Mul(qty)
	p.Cash = p.Cash.Sub(cost)

	pos, held := p.Holdings[o.Symbol]
	if !held {
		p.Holdings[o.Symbol] = Position{Quantity: o.Quantity, AvgPrice: price}
		return
	}

	// Quantity-weighted average cost across the old position and this fill.
	newQty := pos.Quantity + o.Quantity
	oldValue := pos.AvgPrice.Mul(decimal.NewFromInt(pos.Quantity))
	newAvg := oldValue.Add(cost).Div(decimal.NewFromInt(newQty))
	p.Holdings[o.Symbol] = Position{Quantity: newQty, AvgPrice: newAvg}
}

func executeSell(p *Portfolio, o Order, price decimal.Decimal) {
	sellQty := -o.Quantity
	p.Cash = p.Cash.Add(price.Mul(decimal.NewFromInt(sellQty)))

	pos := p.Holdings[o.Symbol]
	remaining := pos.Quantity - sellQty
	if remaining == 0 {
		delete(p.Holdings, o.Symbol)
		return
	}
	// Average cost is not recomputed on a partial sell; realized P&L is not
	// tracked here.
	pos.Quantity = remaining
	p.Holdings[o.Symbol] = pos
}
