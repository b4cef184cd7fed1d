package memory

import (
	"sync"

	"trademo/internal/application/port"
)

// KeyedLock hands out one mutex per user id, serializing the order service's
// read-modify-write sequence for a user. Mutexes are never reclaimed; the
// active user set is small and each entry is a few words.
type KeyedLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedLock() *KeyedLock {
	return &KeyedLock{locks: make(map[string]*sync.Mutex)}
}

func (l *KeyedLock) LockUser(userID string) func() {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

var _ port.UserLocker = (*KeyedLock)(nil)
