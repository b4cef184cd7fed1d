package port

import (
	"context"
	"errors"

	"trademo/internal/domain"
)

// ErrStoreUnavailable wraps infrastructure failures from a Store.
var ErrStoreUnavailable = errors.New("store unavailable")

// Store persists one portfolio document and an append-only transaction log
// per user. The contract is deliberately narrow — get, full-document set, and
// append — mirroring a schemaless document store. Implementations expose no
// transactional isolation across calls; see UserLocker.
type Store interface {
	// GetPortfolio loads the user's portfolio document. The second result is
	// false when no document exists yet.
	GetPortfolio(ctx context.Context, userID string) (domain.Portfolio, bool, error)

	// PutPortfolio overwrites the user's portfolio document in full,
	// last writer wins.
	PutPortfolio(ctx context.Context, userID string, p domain.Portfolio) error

	// AppendTransaction appends one immutable record to the user's log.
	AppendTransaction(ctx context.Context, userID string, tx domain.Transaction) error

	Close() error
}

// UserLocker serializes work per user. The stores above expose plain get/set
// semantics, so two concurrent orders for one user would race the
// read-modify-write sequence and lose an update. When a locker is wired, the
// order service brackets the whole load-validate-execute-commit-log sequence
// in the user's critical section. Running without one reproduces the upstream
// design's acknowledged lost-update window.
type UserLocker interface {
	// LockUser blocks until the user's critical section is free and returns
	// the matching unlock.
	LockUser(userID string) (unlock func())
}
