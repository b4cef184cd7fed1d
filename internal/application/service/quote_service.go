package service

import (
	"context"
	"fmt"

	"trademo/internal/application/port"
	"trademo/internal/domain"
)

// ChartData is the payload for the chart endpoint: the requested range echoed
// back plus the bars themselves.
type ChartData struct {
	Symbol    string     `json:"symbol"`
	Timeframe string     `json:"timeframe"`
	Period    string     `json:"period"`
	Data      []port.Bar `json:"data"`
}

// QuoteService fronts the market-data provider for the read-only quote and
// chart endpoints.
type QuoteService struct {
	prices port.PriceProvider
}

func NewQuoteService(prices port.PriceProvider) *QuoteService {
	return &QuoteService{prices: prices}
}

// Quote returns the current quote for a symbol.
func (s *QuoteService) Quote(ctx context.Context, symbol string) (port.Quote, error) {
	sym, err := domain.ParseSymbol(symbol)
	if err != nil {
		return port.Quote{}, err
	}
	q, err := s.prices.Quote(ctx, sym)
	if err != nil {
		return port.Quote{}, fmt.Errorf("quote for %s: %w", sym, err)
	}
	return q, nil
}

// Chart returns historical bars for the symbol over period at the timeframe
// interval.
func (s *QuoteService) Chart(ctx context.Context, symbol, timeframe, period string) (ChartData, error) {
	sym, err := domain.ParseSymbol(symbol)
	if err != nil {
		return ChartData{}, err
	}
	bars, err := s.prices.History(ctx, sym, period, timeframe)
	if err != nil {
		return ChartData{}, fmt.Errorf("history for %s: %w", sym, err)
	}
	return ChartData{
		Symbol:    sym,
		Timeframe: timeframe,
		Period:    period,
		Data:      bars,
	}, nil
}
