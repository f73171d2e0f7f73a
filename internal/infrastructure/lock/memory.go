package lock

import (
	"context"
	"sync"

	"github.com/google/uuid"

	appvaluation "github.com/erp/costing/internal/application/valuation"
)

// MemoryItemLocker serializes per-item movements within a single process.
// Suitable for development and tests; multi-instance deployments need the
// Redis-backed locker.
type MemoryItemLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewMemoryItemLocker creates a new MemoryItemLocker
func NewMemoryItemLocker() *MemoryItemLocker {
	return &MemoryItemLocker{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// AcquireItemLock blocks until the item's lock is held
func (l *MemoryItemLocker) AcquireItemLock(_ context.Context, itemID uuid.UUID) (appvaluation.UnlockFunc, error) {
	l.mu.Lock()
	itemLock, ok := l.locks[itemID]
	if !ok {
		itemLock = &sync.Mutex{}
		l.locks[itemID] = itemLock
	}
	l.mu.Unlock()

	itemLock.Lock()
	return func(context.Context) error {
		itemLock.Unlock()
		return nil
	}, nil
}

var _ appvaluation.ItemLocker = (*MemoryItemLocker)(nil)
