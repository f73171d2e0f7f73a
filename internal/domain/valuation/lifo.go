package valuation

import (
	"github.com/shopspring/decimal"
)

// LIFOStrategy implements Last-In-First-Out valuation: receipts append a
// lot to the back of the queue, issues consume from the back as well.
type LIFOStrategy struct{}

// NewLIFOStrategy creates a new LIFO strategy
func NewLIFOStrategy() *LIFOStrategy {
	return &LIFOStrategy{}
}

// Name returns the strategy name
func (s *LIFOStrategy) Name() string {
	return "lifo"
}

// Method returns the valuation method
func (s *LIFOStrategy) Method() Method {
	return MethodLIFO
}

// ApplyIncoming appends a new lot to the back of the queue
func (s *LIFOStrategy) ApplyIncoming(state ItemState, qty, unitCost decimal.Decimal) (ItemState, error) {
	return queueApplyIncoming(state, MethodLIFO, qty, unitCost)
}

// ApplyOutgoing consumes lots from the back of the queue
func (s *LIFOStrategy) ApplyOutgoing(state ItemState, qty decimal.Decimal) (ItemState, Issue, error) {
	return queueApplyOutgoing(state, MethodLIFO, qty, true)
}
