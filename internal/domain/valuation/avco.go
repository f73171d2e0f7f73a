package valuation

import (
	"github.com/erp/costing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AverageCostStrategy implements running-average valuation. Weighted
// average and moving average share the same perpetual update formula; the
// configured method label is carried through for ledger reporting.
type AverageCostStrategy struct {
	method Method
}

// NewAverageCostStrategy creates an average-cost strategy for the given
// method label (MethodWeightedAverage or MethodMovingAverage)
func NewAverageCostStrategy(method Method) *AverageCostStrategy {
	return &AverageCostStrategy{method: method}
}

// Name returns the strategy name
func (s *AverageCostStrategy) Name() string {
	return "average_cost"
}

// Method returns the valuation method
func (s *AverageCostStrategy) Method() Method {
	return s.method
}

// ApplyIncoming folds a receipt into the running average:
// new value = value + qty*cost, new unit cost = new value / new qty.
func (s *AverageCostStrategy) ApplyIncoming(state ItemState, qty, unitCost decimal.Decimal) (ItemState, error) {
	if err := validateIncoming(state, s.method, qty, unitCost); err != nil {
		return ItemState{}, err
	}

	next := state.Clone()
	next.OnHandQty = state.OnHandQty.Add(qty)
	next.OnHandValue = state.OnHandValue.Add(qty.Mul(unitCost))
	next.UnitCost = next.OnHandValue.Div(next.OnHandQty).Round(costScale)
	return next, nil
}

// ApplyOutgoing recognizes COGS at the current running average. The unit
// cost is unchanged by an issue. An issue that exactly exhausts the stock
// takes the full remaining value, so no rounding residue is left behind.
func (s *AverageCostStrategy) ApplyOutgoing(state ItemState, qty decimal.Decimal) (ItemState, Issue, error) {
	if err := validateOutgoing(state, s.method, qty); err != nil {
		return ItemState{}, Issue{}, err
	}
	if qty.IsZero() {
		return state.Clone(), Issue{COGS: decimal.Zero}, nil
	}
	if qty.GreaterThan(state.OnHandQty) {
		return ItemState{}, Issue{}, shared.ErrInsufficientStock
	}

	next := state.Clone()
	var cogs decimal.Decimal
	if qty.Equal(state.OnHandQty) {
		cogs = state.OnHandValue
		next.OnHandQty = decimal.Zero
		next.OnHandValue = decimal.Zero
	} else {
		cogs = qty.Mul(state.UnitCost)
		next.OnHandQty = state.OnHandQty.Sub(qty)
		next.OnHandValue = state.OnHandValue.Sub(cogs)
	}
	return next, Issue{COGS: cogs}, nil
}
