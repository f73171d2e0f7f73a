package valuation

import (
	"github.com/erp/costing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Issue is the outcome of an outgoing application: the recognized cost of
// goods sold plus the per-batch breakdown behind it. Batches is empty for
// average-cost methods.
type Issue struct {
	COGS    decimal.Decimal
	Batches []BatchUse
}

// Strategy applies incoming and outgoing stock movements to an item's
// valuation state. Implementations are pure: they consume a state value and
// return a new one, so a failed application leaves the caller's state
// untouched.
type Strategy interface {
	// Name returns the unique name of the strategy
	Name() string
	// Method returns the valuation method this strategy implements
	Method() Method
	// ApplyIncoming values a receipt of qty units at unitCost
	ApplyIncoming(state ItemState, qty, unitCost decimal.Decimal) (ItemState, error)
	// ApplyOutgoing values an issue of qty units, returning the new state
	// and the cost of goods sold
	ApplyOutgoing(state ItemState, qty decimal.Decimal) (ItemState, Issue, error)
}

// ForMethod returns the strategy for a valuation method. The switch is
// exhaustive over the closed Method set; an unrecognized method is an
// error, never a silent fallthrough.
func ForMethod(m Method) (Strategy, error) {
	switch m {
	case MethodWeightedAverage, MethodMovingAverage:
		return NewAverageCostStrategy(m), nil
	case MethodFIFO:
		return NewFIFOStrategy(), nil
	case MethodLIFO:
		return NewLIFOStrategy(), nil
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Unrecognized valuation method")
	}
}

// validateIncoming holds the receipt edge policy shared by all strategies:
// zero or negative quantities and negative costs are rejected.
func validateIncoming(state ItemState, method Method, qty, unitCost decimal.Decimal) error {
	if state.Method != method {
		return shared.NewDomainError("INVALID_STATE", "Item state method does not match strategy")
	}
	if qty.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_INPUT", "Receipt quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Receipt unit cost cannot be negative")
	}
	return nil
}

// validateOutgoing holds the issue edge policy: negative quantities are
// rejected; zero is allowed (the strategies treat it as a no-op).
func validateOutgoing(state ItemState, method Method, qty decimal.Decimal) error {
	if state.Method != method {
		return shared.NewDomainError("INVALID_STATE", "Item state method does not match strategy")
	}
	if qty.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Issue quantity cannot be negative")
	}
	return nil
}
