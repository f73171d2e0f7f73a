package valuation

import (
	"github.com/erp/costing/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// costScale is the precision kept for derived unit costs. It matches the
// decimal(18,4) columns the valuation state is persisted into.
const costScale int32 = 4

// ItemState is the complete valuation state of one item under its
// configured method. It is a value: strategies and the movement processor
// never mutate a caller's state, they return a new one. The persistence
// layer owns durability; this type owns the invariants.
//
// For average-cost methods the batch queue is unused and stays empty. For
// FIFO/LIFO, OnHandQty and OnHandValue always equal the queue totals.
// UnitCost keeps its last value when the item is driven to zero quantity,
// serving as the cost basis reference for the next receipt.
type ItemState struct {
	ItemID      uuid.UUID
	Method      Method
	OnHandQty   decimal.Decimal
	OnHandValue decimal.Decimal
	UnitCost    decimal.Decimal
	Batches     BatchQueue
}

// NewItemState creates the implicit zero-state an item has before its
// first movement is valued.
func NewItemState(itemID uuid.UUID, method Method) (ItemState, error) {
	if itemID == uuid.Nil {
		return ItemState{}, shared.NewDomainError("INVALID_INPUT", "Item ID cannot be empty")
	}
	if !method.IsValid() {
		return ItemState{}, shared.NewDomainError("INVALID_INPUT", "Unrecognized valuation method")
	}
	return ItemState{
		ItemID:      itemID,
		Method:      method,
		OnHandQty:   decimal.Zero,
		OnHandValue: decimal.Zero,
		UnitCost:    decimal.Zero,
		Batches:     NewBatchQueue(),
	}, nil
}

// RestoreItemState rebuilds a persisted state and verifies its invariants.
// Corrupted state is rejected, never silently repaired.
func RestoreItemState(itemID uuid.UUID, method Method, onHandQty, onHandValue, unitCost decimal.Decimal, batches []Batch) (ItemState, error) {
	if itemID == uuid.Nil {
		return ItemState{}, shared.NewDomainError("INVALID_INPUT", "Item ID cannot be empty")
	}
	if !method.IsValid() {
		return ItemState{}, shared.NewDomainError("INVALID_INPUT", "Unrecognized valuation method")
	}

	queue := NewBatchQueue()
	if method.UsesBatches() {
		var err error
		queue, err = RestoreBatchQueue(batches)
		if err != nil {
			return ItemState{}, err
		}
	} else if len(batches) > 0 {
		return ItemState{}, shared.NewDomainError("INVALID_STATE", "Average-cost items do not carry batch state")
	}

	state := ItemState{
		ItemID:      itemID,
		Method:      method,
		OnHandQty:   onHandQty,
		OnHandValue: onHandValue,
		UnitCost:    unitCost,
		Batches:     queue,
	}
	if err := state.CheckInvariants(); err != nil {
		return ItemState{}, err
	}
	return state, nil
}

// Clone returns a deep copy of the state
func (s ItemState) Clone() ItemState {
	clone := s
	clone.Batches = s.Batches.Clone()
	return clone
}

// IsZero returns true if the item currently holds no stock
func (s ItemState) IsZero() bool {
	return s.OnHandQty.IsZero()
}

// CheckInvariants verifies the state's internal consistency
func (s ItemState) CheckInvariants() error {
	if s.OnHandQty.IsNegative() {
		return shared.NewDomainError("INVALID_STATE", "On-hand quantity cannot be negative")
	}
	if s.Method.UsesBatches() {
		if !s.OnHandQty.Equal(s.Batches.TotalQuantity()) {
			return shared.NewDomainError("INVALID_STATE", "On-hand quantity does not match batch totals")
		}
		if !s.OnHandValue.Equal(s.Batches.TotalValue()) {
			return shared.NewDomainError("INVALID_STATE", "On-hand value does not match batch totals")
		}
	} else if !s.Batches.IsEmpty() {
		return shared.NewDomainError("INVALID_STATE", "Average-cost items do not carry batch state")
	}
	return nil
}
