package costing

import (
	"time"

	"github.com/erp/costing/internal/domain/costing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpenStageRequest opens a stage cost record for a manufacturing order.
// Stages are opened in sequence; stage N+1 pulls its transferred-in cost
// from stage N's calculated total.
type OpenStageRequest struct {
	ManufacturingOrderID uuid.UUID `json:"manufacturing_order_id" binding:"required"`
	WorkCenterID         uuid.UUID `json:"work_center_id" binding:"required"`
	StageNumber          int       `json:"stage_number" binding:"required,min=1"`
}

// ApplyCostsRequest accumulates cost inputs onto an open stage. Zero
// fields are skipped, so a caller can apply a single pool at a time.
type ApplyCostsRequest struct {
	Material      decimal.Decimal `json:"material"`
	LaborHours    decimal.Decimal `json:"labor_hours"`
	LaborRate     decimal.Decimal `json:"labor_rate"`
	OverheadBasis decimal.Decimal `json:"overhead_basis"`
	OverheadRate  decimal.Decimal `json:"overhead_rate"`
	ScrapCredit   decimal.Decimal `json:"scrap_credit"`
}

// SetQuantitiesRequest records the stage's output split
type SetQuantitiesRequest struct {
	TotalInputQty decimal.Decimal `json:"total_input_qty" binding:"required"`
	GoodQty       decimal.Decimal `json:"good_qty"`
	ScrapQty      decimal.Decimal `json:"scrap_qty"`
	ReworkQty     decimal.Decimal `json:"rework_qty"`
}

// PostStageRequest posts a calculated stage to the general ledger
type PostStageRequest struct {
	FinalStage bool `json:"final_stage"`
}

// StageResponse is the full state of a stage cost record
type StageResponse struct {
	ID                    uuid.UUID       `json:"id"`
	ManufacturingOrderID  uuid.UUID       `json:"manufacturing_order_id"`
	WorkCenterID          uuid.UUID       `json:"work_center_id"`
	StageNumber           int             `json:"stage_number"`
	Status                string          `json:"status"`
	TransferredIn         decimal.Decimal `json:"transferred_in"`
	DirectMaterial        decimal.Decimal `json:"direct_material"`
	DirectLabor           decimal.Decimal `json:"direct_labor"`
	ManufacturingOverhead decimal.Decimal `json:"manufacturing_overhead"`
	ScrapCredit           decimal.Decimal `json:"scrap_credit"`
	TotalInputQty         decimal.Decimal `json:"total_input_qty"`
	GoodQty               decimal.Decimal `json:"good_qty"`
	ScrapQty              decimal.Decimal `json:"scrap_qty"`
	ReworkQty             decimal.Decimal `json:"rework_qty"`
	TotalCost             decimal.Decimal `json:"total_cost"`
	UnitCost              decimal.Decimal `json:"unit_cost"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

func toStageResponse(stage *costing.StageCostRecord) *StageResponse {
	return &StageResponse{
		ID:                    stage.ID,
		ManufacturingOrderID:  stage.ManufacturingOrderID,
		WorkCenterID:          stage.WorkCenterID,
		StageNumber:           stage.StageNumber,
		Status:                stage.Status.String(),
		TransferredIn:         stage.TransferredIn,
		DirectMaterial:        stage.DirectMaterial,
		DirectLabor:           stage.DirectLabor,
		ManufacturingOverhead: stage.ManufacturingOverhead,
		ScrapCredit:           stage.ScrapCredit,
		TotalInputQty:         stage.TotalInputQty,
		GoodQty:               stage.GoodQty,
		ScrapQty:              stage.ScrapQty,
		ReworkQty:             stage.ReworkQty,
		TotalCost:             stage.TotalCost,
		UnitCost:              stage.UnitCost,
		CreatedAt:             stage.CreatedAt,
		UpdatedAt:             stage.UpdatedAt,
	}
}
