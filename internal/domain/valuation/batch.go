package valuation

import (
	"github.com/erp/costing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Batch is a single receipt lot in a FIFO/LIFO queue. Sequence is the
// insertion ordinal; FIFO consumes the lowest sequence first, LIFO the
// highest. A batch never holds a zero or negative quantity - exhausted
// batches are removed from the queue.
type Batch struct {
	Sequence uint64
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// TotalValue returns the value held by this batch (Quantity * UnitCost)
func (b Batch) TotalValue() decimal.Decimal {
	return b.Quantity.Mul(b.UnitCost)
}

// BatchUse records how much of a batch an operation consumed or created.
// It is the auditable breakdown behind a COGS figure.
type BatchUse struct {
	Sequence  uint64
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	TotalCost decimal.Decimal
}

// BatchQueue is an ordered sequence of receipt lots. Ordering follows
// insertion; the queue itself is the authoritative cost state for FIFO and
// LIFO items. All mutating operations validate their inputs so the queue
// invariants (positive quantities, strictly increasing sequences) hold at
// all times.
type BatchQueue struct {
	batches []Batch
	nextSeq uint64
}

// NewBatchQueue creates an empty batch queue
func NewBatchQueue() BatchQueue {
	return BatchQueue{batches: make([]Batch, 0), nextSeq: 1}
}

// RestoreBatchQueue rebuilds a queue from persisted batches. Batches must
// arrive in insertion order with positive quantities and non-negative
// costs; anything else indicates corrupted state and is rejected.
func RestoreBatchQueue(batches []Batch) (BatchQueue, error) {
	q := NewBatchQueue()
	for _, b := range batches {
		if b.Quantity.LessThanOrEqual(decimal.Zero) {
			return BatchQueue{}, shared.NewDomainError("INVALID_INPUT", "Batch quantity must be positive")
		}
		if b.UnitCost.IsNegative() {
			return BatchQueue{}, shared.NewDomainError("INVALID_INPUT", "Batch unit cost cannot be negative")
		}
		if b.Sequence < q.nextSeq {
			return BatchQueue{}, shared.NewDomainError("INVALID_INPUT", "Batch sequences must be strictly increasing")
		}
		q.batches = append(q.batches, b)
		q.nextSeq = b.Sequence + 1
	}
	return q, nil
}

// Len returns the number of batches in the queue
func (q BatchQueue) Len() int {
	return len(q.batches)
}

// IsEmpty returns true if the queue holds no batches
func (q BatchQueue) IsEmpty() bool {
	return len(q.batches) == 0
}

// Batches returns a copy of the batches in queue order
func (q BatchQueue) Batches() []Batch {
	out := make([]Batch, len(q.batches))
	copy(out, q.batches)
	return out
}

// TotalQuantity returns the summed quantity across all batches
func (q BatchQueue) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, b := range q.batches {
		total = total.Add(b.Quantity)
	}
	return total
}

// TotalValue returns the summed value across all batches
func (q BatchQueue) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, b := range q.batches {
		total = total.Add(b.TotalValue())
	}
	return total
}

// WeightedUnitCost returns the average cost of the remaining batches,
// rounded to the cost scale. Display only - issue costing always walks the
// queue itself.
func (q BatchQueue) WeightedUnitCost() decimal.Decimal {
	qty := q.TotalQuantity()
	if qty.IsZero() {
		return decimal.Zero
	}
	return q.TotalValue().Div(qty).Round(costScale)
}

// Clone returns a deep copy of the queue
func (q BatchQueue) Clone() BatchQueue {
	batches := make([]Batch, len(q.batches))
	copy(batches, q.batches)
	return BatchQueue{batches: batches, nextSeq: q.nextSeq}
}

// Push appends a new receipt lot to the back of the queue
func (q *BatchQueue) Push(quantity, unitCost decimal.Decimal) (Batch, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return Batch{}, shared.NewDomainError("INVALID_INPUT", "Batch quantity must be positive")
	}
	if unitCost.IsNegative() {
		return Batch{}, shared.NewDomainError("INVALID_INPUT", "Batch unit cost cannot be negative")
	}

	b := Batch{
		Sequence: q.nextSeq,
		Quantity: quantity,
		UnitCost: unitCost,
	}
	q.batches = append(q.batches, b)
	q.nextSeq++
	return b, nil
}

// consume removes quantity from the queue, front-first or back-first, and
// returns the per-batch breakdown plus the total cost of goods consumed.
// The receiver is mutated, so callers work on a Clone and commit only on
// success - a failed consumption never leaves a half-updated queue behind.
func (q *BatchQueue) consume(quantity decimal.Decimal, fromBack bool) ([]BatchUse, decimal.Decimal, error) {
	if quantity.IsNegative() {
		return nil, decimal.Zero, shared.ErrInvalidInput
	}

	uses := make([]BatchUse, 0)
	totalCost := decimal.Zero
	remaining := quantity

	for !remaining.IsZero() {
		if len(q.batches) == 0 {
			return nil, decimal.Zero, shared.ErrInsufficientStock
		}

		idx := 0
		if fromBack {
			idx = len(q.batches) - 1
		}
		batch := &q.batches[idx]

		take := decimal.Min(remaining, batch.Quantity)
		cost := take.Mul(batch.UnitCost)
		uses = append(uses, BatchUse{
			Sequence:  batch.Sequence,
			Quantity:  take,
			UnitCost:  batch.UnitCost,
			TotalCost: cost,
		})
		totalCost = totalCost.Add(cost)
		remaining = remaining.Sub(take)

		batch.Quantity = batch.Quantity.Sub(take)
		if batch.Quantity.IsZero() {
			if fromBack {
				q.batches = q.batches[:idx]
			} else {
				q.batches = q.batches[1:]
			}
		}
	}

	return uses, totalCost, nil
}
