package service

import (
	"context"

	"github.com/shopspring/decimal"

	"trademo/internal/application/port"
	"trademo/internal/domain"
)

type mockStore struct {
	portfolios map[string]domain.Portfolio
	txs        map[string][]domain.Transaction
	puts       int

	getErr    error
	putErr    error
	appendErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		portfolios: make(map[string]domain.Portfolio),
		txs:        make(map[string][]domain.Transaction),
	}
}

func (m *mockStore) GetPortfolio(ctx context.Context, userID string) (domain.Portfolio, bool, error) {
	if m.getErr != nil {
		return domain.Portfolio{}, false, m.getErr
	}
	pf, ok := m.portfolios[userID]
	if !ok {
		return domain.Portfolio{}, false, nil
	}
	return pf.Clone(), true, nil
}

func (m *mockStore) PutPortfolio(ctx context.Context, userID string, p domain.Portfolio) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.puts++
	m.portfolios[userID] = p.Clone()
	return nil
}

func (m *mockStore) AppendTransaction(ctx context.Context, userID string, tx domain.Transaction) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.txs[userID] = append(m.txs[userID], tx)
	return nil
}

func (m *mockStore) Close() error { return nil }

var _ port.Store = (*mockStore)(nil)

type mockPrices struct {
	price      decimal.Decimal
	quote      port.Quote
	bars       []port.Bar
	err        error
	lastSymbol string
}

func (m *mockPrices) Quote(ctx context.Context, symbol string) (port.Quote, error) {
	m.lastSymbol = symbol
	return m.quote, m.err
}

func (m *mockPrices) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	m.lastSymbol = symbol
	return m.price, m.err
}

func (m *mockPrices) History(ctx context.Context, symbol, period, interval string) ([]port.Bar, error) {
	m.lastSymbol = symbol
	return m.bars, m.err
}

var _ port.PriceProvider = (*mockPrices)(nil)
