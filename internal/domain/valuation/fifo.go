package valuation

import (
	"github.com/shopspring/decimal"
)

// FIFOStrategy implements First-In-First-Out valuation: receipts append a
// lot to the back of the queue, issues consume from the front.
type FIFOStrategy struct{}

// NewFIFOStrategy creates a new FIFO strategy
func NewFIFOStrategy() *FIFOStrategy {
	return &FIFOStrategy{}
}

// Name returns the strategy name
func (s *FIFOStrategy) Name() string {
	return "fifo"
}

// Method returns the valuation method
func (s *FIFOStrategy) Method() Method {
	return MethodFIFO
}

// ApplyIncoming appends a new lot to the back of the queue
func (s *FIFOStrategy) ApplyIncoming(state ItemState, qty, unitCost decimal.Decimal) (ItemState, error) {
	return queueApplyIncoming(state, MethodFIFO, qty, unitCost)
}

// ApplyOutgoing consumes lots from the front of the queue
func (s *FIFOStrategy) ApplyOutgoing(state ItemState, qty decimal.Decimal) (ItemState, Issue, error) {
	return queueApplyOutgoing(state, MethodFIFO, qty, false)
}

// queueApplyIncoming is the receipt path shared by FIFO and LIFO: push a
// lot, then derive the aggregate figures from the queue.
func queueApplyIncoming(state ItemState, method Method, qty, unitCost decimal.Decimal) (ItemState, error) {
	if err := validateIncoming(state, method, qty, unitCost); err != nil {
		return ItemState{}, err
	}

	next := state.Clone()
	if _, err := next.Batches.Push(qty, unitCost); err != nil {
		return ItemState{}, err
	}
	next.OnHandQty = next.Batches.TotalQuantity()
	next.OnHandValue = next.Batches.TotalValue()
	next.UnitCost = next.Batches.WeightedUnitCost()
	return next, nil
}

// queueApplyOutgoing is the issue path shared by FIFO and LIFO. The
// consumption runs against a cloned queue and is committed only when the
// full quantity was covered, so the caller's state survives a failed issue
// untouched. When the queue empties, the last unit cost is retained as the
// cost basis reference for a restarted queue.
func queueApplyOutgoing(state ItemState, method Method, qty decimal.Decimal, fromBack bool) (ItemState, Issue, error) {
	if err := validateOutgoing(state, method, qty); err != nil {
		return ItemState{}, Issue{}, err
	}
	if qty.IsZero() {
		return state.Clone(), Issue{COGS: decimal.Zero, Batches: []BatchUse{}}, nil
	}

	next := state.Clone()
	uses, cogs, err := next.Batches.consume(qty, fromBack)
	if err != nil {
		return ItemState{}, Issue{}, err
	}

	next.OnHandQty = next.Batches.TotalQuantity()
	next.OnHandValue = next.Batches.TotalValue()
	if !next.Batches.IsEmpty() {
		next.UnitCost = next.Batches.WeightedUnitCost()
	}
	return next, Issue{COGS: cogs, Batches: uses}, nil
}
