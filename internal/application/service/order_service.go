package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"trademo/internal/application/port"
	"trademo/internal/domain"
)

// ErrTransactionLog marks a failed transaction-log append. By the time the
// append runs the portfolio write is already committed, so the error is
// surfaced to the caller without rolling anything back.
var ErrTransactionLog = errors.New("transaction log append failed")

// OrderServiceDeps carries the collaborators for an OrderService. Locker is
// optional; without it concurrent orders for the same user can race the
// read-modify-write sequence (the store gives no isolation).
type OrderServiceDeps struct {
	Store      port.Store
	Prices     port.PriceProvider
	Portfolios *PortfolioService
	Locker     port.UserLocker
	Now        func() time.Time
}

// OrderService runs the end-to-end order transaction: load (creating the
// default portfolio on first contact), price, validate, execute, commit,
// append the transaction log.
type OrderService struct {
	store      port.Store
	prices     port.PriceProvider
	portfolios *PortfolioService
	locker     port.UserLocker
	now        func() time.Time
}

func NewOrderService(deps OrderServiceDeps) *OrderService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &OrderService{
		store:      deps.Store,
		prices:     deps.Prices,
		portfolios: deps.Portfolios,
		locker:     deps.Locker,
		now:        deps.Now,
	}
}

// PlaceOrder executes one simulated order for the user and returns the
// committed portfolio snapshot.
//
// Rejections (zero quantity, insufficient funds or holdings, unknown
// position) happen before any mutating write beyond the lazy creation of the
// default document, so they are always safe to retry with a corrected order.
// A price or store failure aborts the operation with nothing partially
// persisted: the commit is a single full-document write.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, order domain.Order) (domain.Portfolio, error) {
	symbol, err := domain.ParseSymbol(order.Symbol)
	if err != nil {
		return domain.Portfolio{}, err
	}
	order.Symbol = symbol

	if s.locker != nil {
		unlock := s.locker.LockUser(userID)
		defer unlock()
	}

	pf, created, err := s.portfolios.LoadOrCreate(ctx, userID)
	if err != nil {
		return domain.Portfolio{}, err
	}

	price, err := s.prices.CurrentPrice(ctx, order.Symbol)
	if err != nil {
		return domain.Portfolio{}, fmt.Errorf("current price for %s: %w", order.Symbol, err)
	}

	if err := domain.Validate(pf, order, price); err != nil {
		return domain.Portfolio{}, err
	}

	next := domain.Execute(pf, order, price)

	if err := s.store.PutPortfolio(ctx, userID, next); err != nil {
		return domain.Portfolio{}, fmt.Errorf("commit portfolio: %w", err)
	}

	tx := domain.NewTransaction(order, price, s.now())
	if err := s.store.AppendTransaction(ctx, userID, tx); err != nil {
		// The portfolio is committed; the log entry is lost. Surface it, the
		// snapshot still goes back so callers can see the committed state.
		log.Error().Err(err).Str("user", userID).Str("tx", tx.ID).Msg("transaction log append failed")
		return next, fmt.Errorf("%w: %v", ErrTransactionLog, err)
	}

	log.Info().
		Str("user", userID).
		Str("symbol", order.Symbol).
		Int64("quantity", order.Quantity).
		Str("price", price.String()).
		Str("type", tx.Type).
		Bool("first_order", created).
		Msg("order executed")

	return next, nil
}
