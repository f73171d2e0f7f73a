package valuation

import (
	"github.com/shopspring/decimal"
)

// SimulateIssue computes what an outgoing movement of qty would cost
// without mutating the given state. It runs the exact same strategy logic
// as a real issue against a throwaway copy, so the returned figure is
// numerically identical to the COGS an immediate real issue would produce.
// It fails with the same insufficient-stock condition as a real issue.
func SimulateIssue(state ItemState, qty decimal.Decimal) (decimal.Decimal, error) {
	issue, err := PreviewIssue(state, qty)
	if err != nil {
		return decimal.Zero, err
	}
	return issue.COGS, nil
}

// PreviewIssue is the batch-inspector variant of SimulateIssue: it returns
// the full per-lot breakdown an issue of qty would consume, again without
// touching the caller's state. Used for UI previews and variance checks.
func PreviewIssue(state ItemState, qty decimal.Decimal) (Issue, error) {
	strategy, err := ForMethod(state.Method)
	if err != nil {
		return Issue{}, err
	}

	_, issue, err := strategy.ApplyOutgoing(state.Clone(), qty)
	if err != nil {
		return Issue{}, err
	}
	return issue, nil
}
