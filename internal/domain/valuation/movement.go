package valuation

import (
	"github.com/erp/costing/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MoveType represents the kind of inventory movement. The string values
// are wire-stable: they appear in ledger rows and API payloads.
type MoveType string

const (
	// MoveTypePurchaseIn is goods received from a supplier
	MoveTypePurchaseIn MoveType = "PURCHASE_IN"
	// MoveTypeProdIn is finished goods received from production
	MoveTypeProdIn MoveType = "PROD_IN"
	// MoveTypeMOCons is material consumed by a manufacturing order
	MoveTypeMOCons MoveType = "MO_CONS"
	// MoveTypeSaleOut is goods shipped against a sale
	MoveTypeSaleOut MoveType = "SALE_OUT"
	// MoveTypeAdjIn is a positive stock adjustment
	MoveTypeAdjIn MoveType = "ADJ_IN"
	// MoveTypeAdjOut is a negative stock adjustment
	MoveTypeAdjOut MoveType = "ADJ_OUT"
	// MoveTypeTransferIn is stock transferred in from another location
	MoveTypeTransferIn MoveType = "TRANSFER_IN"
	// MoveTypeTransferOut is stock transferred out to another location
	MoveTypeTransferOut MoveType = "TRANSFER_OUT"
)

// String returns the string representation of the move type
func (t MoveType) String() string {
	return string(t)
}

// IsValid returns true if the move type is recognized
func (t MoveType) IsValid() bool {
	switch t {
	case MoveTypePurchaseIn, MoveTypeProdIn, MoveTypeMOCons, MoveTypeSaleOut,
		MoveTypeAdjIn, MoveTypeAdjOut, MoveTypeTransferIn, MoveTypeTransferOut:
		return true
	}
	return false
}

// IsInbound returns true if the move type brings stock in
func (t MoveType) IsInbound() bool {
	switch t {
	case MoveTypePurchaseIn, MoveTypeProdIn, MoveTypeAdjIn, MoveTypeTransferIn:
		return true
	}
	return false
}

// IsOutbound returns true if the move type takes stock out
func (t MoveType) IsOutbound() bool {
	switch t {
	case MoveTypeMOCons, MoveTypeSaleOut, MoveTypeAdjOut, MoveTypeTransferOut:
		return true
	}
	return false
}

// AllMoveTypes returns all recognized move types
func AllMoveTypes() []MoveType {
	return []MoveType{
		MoveTypePurchaseIn,
		MoveTypeProdIn,
		MoveTypeMOCons,
		MoveTypeSaleOut,
		MoveTypeAdjIn,
		MoveTypeAdjOut,
		MoveTypeTransferIn,
		MoveTypeTransferOut,
	}
}

// Movement is one inventory movement to value against an item's state.
// Exactly one of QtyIn/QtyOut is positive, and the direction must agree
// with the move type. UnitCost is required for incoming movements.
type Movement struct {
	ItemID   uuid.UUID
	Type     MoveType
	QtyIn    decimal.Decimal
	QtyOut   decimal.Decimal
	UnitCost decimal.Decimal
	// Reference is the source document number, carried into the ledger row
	Reference string
}

// Validate checks the movement's shape without touching any state
func (m Movement) Validate() error {
	if !m.Type.IsValid() {
		return shared.ErrInvalidMoveType
	}
	if m.ItemID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Item ID cannot be empty")
	}
	if m.QtyIn.IsNegative() || m.QtyOut.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Movement quantities cannot be negative")
	}
	if m.QtyIn.IsPositive() == m.QtyOut.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Exactly one of qty_in and qty_out must be positive")
	}
	if m.QtyIn.IsPositive() && !m.Type.IsInbound() {
		return shared.NewDomainError("INVALID_INPUT", "qty_in requires an inbound move type")
	}
	if m.QtyOut.IsPositive() && !m.Type.IsOutbound() {
		return shared.NewDomainError("INVALID_INPUT", "qty_out requires an outbound move type")
	}
	if m.QtyIn.IsPositive() && m.UnitCost.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Receipt unit cost cannot be negative")
	}
	return nil
}

// MovementResult is the outcome of valuing one movement: the successor
// state, the financial delta, and the per-batch audit trail. The caller
// persists NewState and the ledger row; the processor itself performs no
// I/O.
type MovementResult struct {
	NewState ItemState
	// CostImpact is the COGS for an outgoing movement or the received
	// value for an incoming one.
	CostImpact decimal.Decimal
	// BatchesTouched lists the lots created or consumed, in order.
	BatchesTouched []BatchUse
}

// RecordMovement applies one movement to an item's valuation state. It is
// pure with respect to its inputs: on any error the caller's state is
// unchanged, and no partial batch consumption is ever visible.
func RecordMovement(state ItemState, movement Movement) (*MovementResult, error) {
	if err := movement.Validate(); err != nil {
		return nil, err
	}
	if movement.ItemID != state.ItemID {
		return nil, shared.NewDomainError("INVALID_INPUT", "Movement item does not match state item")
	}

	strategy, err := ForMethod(state.Method)
	if err != nil {
		return nil, err
	}

	if movement.QtyIn.IsPositive() {
		next, err := strategy.ApplyIncoming(state, movement.QtyIn, movement.UnitCost)
		if err != nil {
			return nil, err
		}
		touched := make([]BatchUse, 0, 1)
		if state.Method.UsesBatches() {
			batches := next.Batches.Batches()
			created := batches[len(batches)-1]
			touched = append(touched, BatchUse{
				Sequence:  created.Sequence,
				Quantity:  movement.QtyIn,
				UnitCost:  movement.UnitCost,
				TotalCost: movement.QtyIn.Mul(movement.UnitCost),
			})
		}
		return &MovementResult{
			NewState:       next,
			CostImpact:     movement.QtyIn.Mul(movement.UnitCost),
			BatchesTouched: touched,
		}, nil
	}

	next, issue, err := strategy.ApplyOutgoing(state, movement.QtyOut)
	if err != nil {
		return nil, err
	}
	return &MovementResult{
		NewState:       next,
		CostImpact:     issue.COGS,
		BatchesTouched: issue.Batches,
	}, nil
}
