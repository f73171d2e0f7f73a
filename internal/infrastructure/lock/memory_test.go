package lock

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryItemLocker_SerializesSameItem(t *testing.T) {
	locker := NewMemoryItemLocker()
	itemID := uuid.New()
	ctx := context.Background()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.AcquireItemLock(ctx, itemID)
			require.NoError(t, err)
			counter++
			require.NoError(t, unlock(ctx))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestMemoryItemLocker_IndependentItems(t *testing.T) {
	locker := NewMemoryItemLocker()
	ctx := context.Background()

	unlockA, err := locker.AcquireItemLock(ctx, uuid.New())
	require.NoError(t, err)
	defer func() { _ = unlockA(ctx) }()

	// A different item's lock is free while the first is held
	unlockB, err := locker.AcquireItemLock(ctx, uuid.New())
	require.NoError(t, err)
	require.NoError(t, unlockB(ctx))
}
