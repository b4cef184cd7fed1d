// Package postgres persists portfolio documents and transaction logs in
// Postgres via the pgx stdlib driver. The document layout mirrors the sqlite
// store: one JSON document per user plus an append-only transactions table.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"trademo/internal/application/port"
	"trademo/internal/domain"
)

type Store struct {
	db *sql.DB
}

func New(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS portfolios (
  user_id TEXT PRIMARY KEY,
  document JSONB NOT NULL,
  updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  symbol TEXT NOT NULL,
  quantity BIGINT NOT NULL,
  price TEXT NOT NULL,
  type TEXT NOT NULL,
  order_type TEXT NOT NULL,
  ts BIGINT NOT NULL,
  created_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id);
`)
	return err
}

func (s *Store) GetPortfolio(ctx context.Context, userID string) (domain.Portfolio, bool, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, `SELECT document FROM portfolios WHERE user_id=$1`, userID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Portfolio{}, false, nil
	}
	if err != nil {
		return domain.Portfolio{}, false, fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
	}

	var pf domain.Portfolio
	if err := json.Unmarshal(doc, &pf); err != nil {
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
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO portfolios(user_id, document, updated_at)
		VALUES($1, $2, $3)
		ON CONFLICT(user_id) DO UPDATE SET
		document=excluded.document, updated_at=excluded.updated_at
	`, userID, doc, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) AppendTransaction(ctx context.Context, userID string, tx domain.Transaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions(id, user_id, symbol, quantity, price, type, order_type, ts, created_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, tx.ID, userID, tx.Symbol, tx.Quantity, tx.Price.String(), tx.Type, tx.OrderType,
		tx.Timestamp.UnixMilli(), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
	}
	return nil
}

var _ port.Store = (*Store)(nil)
