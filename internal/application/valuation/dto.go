package valuation

import (
	"time"

	"github.com/erp/costing/internal/domain/valuation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordMovementRequest is the input for valuing one inventory movement
type RecordMovementRequest struct {
	ItemID    uuid.UUID       `json:"item_id" binding:"required"`
	MoveType  string          `json:"move_type" binding:"required"`
	QtyIn     decimal.Decimal `json:"qty_in"`
	QtyOut    decimal.Decimal `json:"qty_out"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Reference string          `json:"reference" binding:"max=128"`
}

// BatchUseResponse is one lot created or consumed by a movement
type BatchUseResponse struct {
	Sequence  uint64          `json:"sequence"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// MovementResponse reports the valuation outcome of a movement
type MovementResponse struct {
	ItemID         uuid.UUID          `json:"item_id"`
	MoveType       string             `json:"move_type"`
	CostImpact     decimal.Decimal    `json:"cost_impact"`
	OnHandQty      decimal.Decimal    `json:"on_hand_qty"`
	OnHandValue    decimal.Decimal    `json:"on_hand_value"`
	UnitCost       decimal.Decimal    `json:"unit_cost"`
	BatchesTouched []BatchUseResponse `json:"batches_touched,omitempty"`
}

// SimulateIssueRequest is the input for a what-if issue valuation
type SimulateIssueRequest struct {
	ItemID   uuid.UUID       `json:"item_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// SimulateIssueResponse reports the would-be COGS of an issue without
// touching the item's state
type SimulateIssueResponse struct {
	ItemID   uuid.UUID          `json:"item_id"`
	Quantity decimal.Decimal    `json:"quantity"`
	COGS     decimal.Decimal    `json:"cogs"`
	Batches  []BatchUseResponse `json:"batches,omitempty"`
}

// ItemStateResponse is the current valuation state of an item
type ItemStateResponse struct {
	ItemID      uuid.UUID       `json:"item_id"`
	Method      string          `json:"method"`
	OnHandQty   decimal.Decimal `json:"on_hand_qty"`
	OnHandValue decimal.Decimal `json:"on_hand_value"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Batches     []BatchResponse `json:"batches,omitempty"`
}

// BatchResponse is one open lot in a batch-tracked item's queue
type BatchResponse struct {
	Sequence uint64          `json:"sequence"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// LedgerEntryResponse is one row of the per-item cost ledger
type LedgerEntryResponse struct {
	ID             uuid.UUID       `json:"id"`
	ItemID         uuid.UUID       `json:"item_id"`
	MoveType       string          `json:"move_type"`
	QtyIn          decimal.Decimal `json:"qty_in"`
	QtyOut         decimal.Decimal `json:"qty_out"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	RunningBalance decimal.Decimal `json:"running_balance"`
	RunningValue   decimal.Decimal `json:"running_value"`
	AvgUnitCost    decimal.Decimal `json:"avg_unit_cost"`
	Reference      string          `json:"reference,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

func toBatchUseResponses(uses []valuation.BatchUse) []BatchUseResponse {
	if len(uses) == 0 {
		return nil
	}
	out := make([]BatchUseResponse, len(uses))
	for i, u := range uses {
		out[i] = BatchUseResponse{
			Sequence:  u.Sequence,
			Quantity:  u.Quantity,
			UnitCost:  u.UnitCost,
			TotalCost: u.TotalCost,
		}
	}
	return out
}

func toItemStateResponse(state valuation.ItemState) *ItemStateResponse {
	resp := &ItemStateResponse{
		ItemID:      state.ItemID,
		Method:      state.Method.String(),
		OnHandQty:   state.OnHandQty,
		OnHandValue: state.OnHandValue,
		UnitCost:    state.UnitCost,
	}
	if state.Method.UsesBatches() {
		for _, b := range state.Batches.Batches() {
			resp.Batches = append(resp.Batches, BatchResponse{
				Sequence: b.Sequence,
				Quantity: b.Quantity,
				UnitCost: b.UnitCost,
			})
		}
	}
	return resp
}

func toLedgerEntryResponse(e valuation.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:             e.ID,
		ItemID:         e.ItemID,
		MoveType:       e.MoveType.String(),
		QtyIn:          e.QtyIn,
		QtyOut:         e.QtyOut,
		UnitCost:       e.UnitCost,
		TotalCost:      e.TotalCost,
		RunningBalance: e.RunningBalance,
		RunningValue:   e.RunningValue,
		AvgUnitCost:    e.AvgUnitCost,
		Reference:      e.Reference,
		Timestamp:      e.Timestamp,
	}
}
