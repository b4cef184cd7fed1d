package port

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Market-data failure modes. ErrSymbolNotFound means the provider has no such
// instrument; ErrPriceUnavailable means the instrument may exist but no usable
// price came back. Both are retryable without changing the request.
var (
	ErrSymbolNotFound   = errors.New("symbol not found")
	ErrPriceUnavailable = errors.New("current price unavailable")
)

// Quote is a point-in-time stock quote. Change and ChangePercent are measured
// against the previous close and are zero when no previous close is known.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"change_percent"`
}

// Bar is one OHLCV candle. Time is a unix timestamp in seconds.
type Bar struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// PriceProvider supplies current prices and historical bars for a symbol.
// Calls block on upstream I/O and honor ctx cancellation.
type PriceProvider interface {
	// Quote returns the current quote for a symbol.
	Quote(ctx context.Context, symbol string) (Quote, error)

	// CurrentPrice returns the price orders execute at.
	CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)

	// History returns ordered bars for the period/interval pair, oldest first.
	History(ctx context.Context, symbol, period, interval string) ([]Bar, error)
}
