package domain

import "errors"

// Order rejection reasons. These are user-correctable: the order can be
// retried after changing quantity or symbol, nothing was written.
var (
	ErrZeroQuantity         = errors.New("order quantity cannot be zero")
	ErrInsufficientFunds    = errors.New("insufficient balance")
	ErrInsufficientHoldings = errors.New("insufficient stock holdings")
	ErrNoSuchPosition       = errors.New("no holdings for symbol")
	ErrInvalidSymbol        = errors.New("invalid stock symbol")
)

// IsValidationError reports whether err is an order rejection rather than an
// infrastructure failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrZeroQuantity) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrInsufficientHoldings) ||
		errors.Is(err, ErrNoSuchPosition) ||
		errors.Is(err, ErrInvalidSymbol)
}
