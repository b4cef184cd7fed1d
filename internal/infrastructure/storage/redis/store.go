// Package redis persists portfolio documents as JSON strings and transaction
// logs as RPUSH-only lists, one key of each per user.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"trademo/internal/application/port"
	"trademo/internal/domain"
)

type Store struct {
	rdb    *redis.Client
	prefix string
}

func New(rdb *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "trademo"
	}
	return &Store{rdb: rdb, prefix: prefix}
}

func (s *Store) portfolioKey(userID string) string {
	return fmt.Sprintf("%s:portfolio:%s", s.prefix, userID)
}

func (s *Store) transactionsKey(userID string) string {
	return fmt.Sprintf("%s:transactions:%s", s.prefix, userID)
}

func (s *Store) GetPortfolio(ctx context.Context, userID string) (domain.Portfolio, bool, error) {
	doc, err := s.rdb.Get(ctx, s.portfolioKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Portfolio{}, false, nil
	}
	if err != nil {
		return domain.Portfolio{}, false, fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
	}

	var pf domain.Portfolio
	if err := json.Unmarshal([]byte(doc), &pf); err != nil {
		return domain.Portfolio{}, false, fmt.Errorf("decode portfolio document: %w", err)
	}
	if pf.Holdings == nil {
		pf.Holdings = make(map[string]domain.Position)
	}
	return pf, true, nil
}

func (s *Store) PutPortfolio(ctx context.Context, userID string, p domain.Portfolio) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode portfolio document: %w", err)
	}
	if err := s.rdb.Set(ctx, s.portfolioKey(userID), string(doc), 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) AppendTransaction(ctx context.Context, userID string, tx domain.Transaction) error {
	rec, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("encode transaction record: %w", err)
	}
	if err := s.rdb.RPush(ctx, s.transactionsKey(userID), string(rec)).Err(); err != nil {
		return fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Close() error { return s.rdb.Close() }

var _ port.Store = (*Store)(nil)
