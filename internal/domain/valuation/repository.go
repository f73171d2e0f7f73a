package valuation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntry is one immutable row of the per-item cost ledger. Together
// with the running figures it makes every valuation state reconstructible
// from the ledger alone.
type LedgerEntry struct {
	ID             uuid.UUID
	ItemID         uuid.UUID
	MoveType       MoveType
	QtyIn          decimal.Decimal
	QtyOut         decimal.Decimal
	UnitCost       decimal.Decimal
	TotalCost      decimal.Decimal
	RunningBalance decimal.Decimal
	RunningValue   decimal.Decimal
	AvgUnitCost    decimal.Decimal
	Reference      string
	Timestamp      time.Time
}

// ItemValuationRepository is the persistence boundary for item valuation
// state. The engine computes; the adapter behind this interface persists.
type ItemValuationRepository interface {
	// Load returns the item's valuation state, or the implicit zero-state
	// under the given method if the item has never been valued. A stored
	// state whose method differs from the configured one is an error:
	// switching method mid-lifecycle requires an explicit re-baseline.
	Load(ctx context.Context, itemID uuid.UUID, method Method) (ItemState, error)
	// Save persists the item's valuation state
	Save(ctx context.Context, state ItemState) error
}

// LedgerAppender appends immutable rows to the per-item cost ledger
type LedgerAppender interface {
	Append(ctx context.Context, entry *LedgerEntry) error
	// ListByItem returns the ledger rows for an item in chronological order
	ListByItem(ctx context.Context, itemID uuid.UUID, limit int) ([]LedgerEntry, error)
}
