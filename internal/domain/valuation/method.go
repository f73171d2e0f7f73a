package valuation

// Method represents the inventory valuation method configured for an item.
// It is a closed set: unknown values are rejected at every entry point
// rather than falling through to a default.
type Method string

const (
	// MethodWeightedAverage recomputes a single running average cost on
	// every receipt.
	MethodWeightedAverage Method = "WEIGHTED_AVERAGE"
	// MethodMovingAverage is algorithmically identical to weighted average
	// in this engine; the label is kept for reporting purposes.
	MethodMovingAverage Method = "MOVING_AVERAGE"
	// MethodFIFO consumes receipt lots oldest-first.
	MethodFIFO Method = "FIFO"
	// MethodLIFO consumes receipt lots newest-first.
	MethodLIFO Method = "LIFO"
)

// String returns the string representation of the method
func (m Method) String() string {
	return string(m)
}

// IsValid returns true if the method is a recognized valuation method
func (m Method) IsValid() bool {
	switch m {
	case MethodWeightedAverage, MethodMovingAverage, MethodFIFO, MethodLIFO:
		return true
	}
	return false
}

// UsesBatches returns true if the method tracks per-lot cost state
func (m Method) UsesBatches() bool {
	return m == MethodFIFO || m == MethodLIFO
}

// AllMethods returns all recognized valuation methods
func AllMethods() []Method {
	return []Method{
		MethodWeightedAverage,
		MethodMovingAverage,
		MethodFIFO,
		MethodLIFO,
	}
}
