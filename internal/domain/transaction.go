package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is the immutable log record appended once per executed order.
// Records are never updated or deleted.
type Transaction struct {
	ID        string          `json:"id"`
	Symbol    string          `json:"symbol"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	OrderType string          `json:"order_type"`
}

// NewTransaction builds the record for an order executed at price.
func NewTransaction(o Order, price decimal.Decimal, at time.Time) Transaction {
	return Transaction{
		ID:        uuid.NewString(),
		Symbol:    o.Symbol,
		Quantity:  o.Quantity,
		Price:     price,
		Type:      o.Side(),
		Timestamp: at,
		OrderType: o.OrderType,
	}
}
