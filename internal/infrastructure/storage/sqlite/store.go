// Package sqlite persists portfolio documents and transaction logs in a
// local SQLite file. The portfolio is stored as a single JSON document per
// user, matching the schemaless get/set semantics of the store contract.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"trademo/internal/application/port"
	"trademo/internal/domain"
)

type Store struct {
	db *sql.DB
}

func New(path string) (*Store, error) {
	// ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

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
  document TEXT NOT NULL,
  updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  symbol TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price TEXT NOT NULL,
  type TEXT NOT NULL,
  order_type TEXT NOT NULL,
  ts INTEGER NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id);
CREATE INDEX IF NOT EXISTS idx_transactions_ts ON transactions(ts);
`)
	return err
}

func (s *Store) GetPortfolio(ctx context.Context, userID string) (domain.Portfolio, bool, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM portfolios WHERE user_id=?`, userID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
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
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO portfolios(user_id, document, updated_at)
		VALUES(?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
		document=excluded.document, updated_at=excluded.updated_at
	`, userID, string(doc), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) AppendTransaction(ctx context.Context, userID string, tx domain.Transaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions(id, user_id, symbol, quantity, price, type, order_type, ts, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, tx.ID, userID, tx.Symbol, tx.Quantity, tx.Price.String(), tx.Type, tx.OrderType,
		tx.Timestamp.UnixMilli(), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
	}
	return nil
}

var _ port.Store = (*Store)(nil)
