package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// Money fields go out as bare JSON numbers, the format the API has always
	// served. Decimals still parse back from either form.
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultStartingCash is the balance a brand-new portfolio opens with.
var DefaultStartingCash = decimal.NewFromInt(100000)

// Position is a user's current quantity and average cost basis for one symbol.
type Position struct {
	Quantity int64           `json:"quantity"`
	AvgPrice decimal.Decimal `json:"avg_price"`
}

// Portfolio is a user's simulated account: a cash balance plus open positions
// keyed by upper-case symbol. A symbol is present only while its quantity is
// positive; full liquidation removes the entry.
//
// All money arithmetic is decimal (shopspring/decimal) so repeated
// weighted-average updates do not drift; share quantities are whole int64.
type Portfolio struct {
	Cash     decimal.Decimal     `json:"cash"`
	Holdings map[string]Position `json:"stocks"`
}

// NewPortfolio returns the default portfolio created on a user's first access.
func NewPortfolio(startingCash decimal.Decimal) Portfolio {
	return Portfolio{
		Cash:     startingCash,
		Holdings: make(map[string]Position),
	}
}

// Clone returns a deep copy. Executing an order never mutates the loaded
// snapshot; callers persist the copy.
func (p Portfolio) Clone() Portfolio {
	holdings := make(map[string]Position, len(p.Holdings))
	for sym, pos := range p.Holdings {
		holdings[sym] = pos
	}
	return Portfolio{Cash: p.Cash, Holdings: holdings}
}

const maxSymbolLen = 10

// ParseSymbol normalizes a user-supplied ticker symbol to upper case and
// rejects empty or oversized input.
func ParseSymbol(s string) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(s))
	if sym == "" || len(sym) > maxSymbolLen {
		return "", ErrInvalidSymbol
	}
	return sym, nil
}
