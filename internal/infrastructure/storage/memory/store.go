// Package memory holds the in-process store and lock implementations, used by
// tests and the dev config.
package memory

import (
	"context"
	"sync"

	"trademo/internal/application/port"
	"trademo/internal/domain"
)

// Store keeps portfolio documents and transaction logs in maps.
type Store struct {
	mu         sync.RWMutex
	portfolios map[string]domain.Portfolio
	txs        map[string][]domain.Transaction
}

func NewStore() *Store {
	return &Store{
		portfolios: make(map[string]domain.Portfolio),
		txs:        make(map[string][]domain.Transaction),
	}
}

func (s *Store) GetPortfolio(ctx context.Context, userID string) (domain.Portfolio, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pf, ok := s.portfolios[userID]
	if !ok {
		return domain.Portfolio{}, false, nil
	}
	return pf.Clone(), true, nil
}

func (s *Store) PutPortfolio(ctx context.Context, userID string, p domain.Portfolio) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.portfolios[userID] = p.Clone()
	return nil
}

func (s *Store) AppendTransaction(ctx context.Context, userID string, tx domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs[userID] = append(s.txs[userID], tx)
	return nil
}

func (s *Store) Close() error { return nil }

// Transactions returns a copy of a user's log. Not part of port.Store — the
// document-store contract has no query surface — but handy in tests.
func (s *Store) Transactions(userID string) []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Transaction, len(s.txs[userID]))
	copy(out, s.txs[userID])
	return out
}

var _ port.Store = (*Store)(nil)
