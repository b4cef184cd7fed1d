package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"trademo/internal/application/port"
	"trademo/internal/domain"
)

// PortfolioService serves portfolio reads. A read for a user with no document
// yet materializes the default portfolio and persists it, so the first read
// is also a write.
type PortfolioService struct {
	store        port.Store
	startingCash decimal.Decimal
}

func NewPortfolioService(store port.Store, startingCash decimal.Decimal) *PortfolioService {
	return &PortfolioService{store: store, startingCash: startingCash}
}

// LoadOrCreate fetches the user's portfolio. The second result is true when
// this call created the document (first access ever).
func (s *PortfolioService) LoadOrCreate(ctx context.Context, userID string) (domain.Portfolio, bool, error) {
	pf, found, err := s.store.GetPortfolio(ctx, userID)
	if err != nil {
		return domain.Portfolio{}, false, fmt.Errorf("load portfolio: %w", err)
	}
	if found {
		return pf, false, nil
	}

	pf = domain.NewPortfolio(s.startingCash)
	if err := s.store.PutPortfolio(ctx, userID, pf); err != nil {
		return domain.Portfolio{}, false, fmt.Errorf("create portfolio: %w", err)
	}
	log.Info().Str("user", userID).Str("cash", s.startingCash.String()).Msg("portfolio created")
	return pf, true, nil
}
