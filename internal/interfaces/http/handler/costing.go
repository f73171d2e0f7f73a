package handler

import (
	"strconv"

	costingapp "github.com/erp/costing/internal/application/costing"
	"github.com/erp/costing/internal/domain/costing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostingHandler handles process costing API endpoints
type CostingHandler struct {
	BaseHandler
	stageService *costingapp.StageService
}

// NewCostingHandler creates a new CostingHandler
func NewCostingHandler(stageService *costingapp.StageService) *CostingHandler {
	return &CostingHandler{
		stageService: stageService,
	}
}

// RegisterRoutes registers costing routes on the given group
func (h *CostingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	costingGroup := rg.Group("/costing")
	{
		stages := costingGroup.Group("/orders/:mo_id/stages")
		{
			stages.POST("", h.OpenStage)
			stages.GET("", h.ListStages)
			stages.GET("/:stage", h.GetStage)
			stages.POST("/:stage/costs", h.ApplyCosts)
			stages.POST("/:stage/quantities", h.SetQuantities)
			stages.POST("/:stage/calculate", h.CalculateStage)
			stages.POST("/:stage/post", h.PostStage)
		}

		costingGroup.POST("/variances", h.ComputeVariances)
	}
}

// openStageBody is the request body for opening a stage. The manufacturing
// order comes from the path.
type openStageBody struct {
	WorkCenterID uuid.UUID `json:"work_center_id" binding:"required"`
	StageNumber  int       `json:"stage_number" binding:"required,min=1"`
}

// stageParams extracts the manufacturing order ID and stage number from
// the request path
func (h *CostingHandler) stageParams(c *gin.Context) (uuid.UUID, int, bool) {
	moID, err := uuid.Parse(c.Param("mo_id"))
	if err != nil {
		h.BadRequest(c, "Invalid manufacturing order ID format")
		return uuid.Nil, 0, false
	}
	stageNumber, err := strconv.Atoi(c.Param("stage"))
	if err != nil || stageNumber < 1 {
		h.BadRequest(c, "Invalid stage number")
		return uuid.Nil, 0, false
	}
	return moID, stageNumber, true
}

// OpenStage opens a stage cost record for a manufacturing order
func (h *CostingHandler) OpenStage(c *gin.Context) {
	moID, err := uuid.Parse(c.Param("mo_id"))
	if err != nil {
		h.BadRequest(c, "Invalid manufacturing order ID format")
		return
	}

	var body openStageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.stageService.OpenStage(c.Request.Context(), costingapp.OpenStageRequest{
		ManufacturingOrderID: moID,
		WorkCenterID:         body.WorkCenterID,
		StageNumber:          body.StageNumber,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// ApplyCosts accumulates cost inputs onto an open stage
func (h *CostingHandler) ApplyCosts(c *gin.Context) {
	moID, stageNumber, ok := h.stageParams(c)
	if !ok {
		return
	}

	var req costingapp.ApplyCostsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.stageService.ApplyCosts(c.Request.Context(), moID, stageNumber, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// SetQuantities records the stage's output split
func (h *CostingHandler) SetQuantities(c *gin.Context) {
	moID, stageNumber, ok := h.stageParams(c)
	if !ok {
		return
	}

	var req costingapp.SetQuantitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.stageService.SetQuantities(c.Request.Context(), moID, stageNumber, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// CalculateStage freezes the stage's cost figures
func (h *CostingHandler) CalculateStage(c *gin.Context) {
	moID, stageNumber, ok := h.stageParams(c)
	if !ok {
		return
	}

	resp, err := h.stageService.CalculateStage(c.Request.Context(), moID, stageNumber)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// PostStage posts a calculated stage to the general ledger
func (h *CostingHandler) PostStage(c *gin.Context) {
	moID, stageNumber, ok := h.stageParams(c)
	if !ok {
		return
	}

	var req costingapp.PostStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.stageService.PostStage(c.Request.Context(), moID, stageNumber, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetStage returns one stage of a manufacturing order
func (h *CostingHandler) GetStage(c *gin.Context) {
	moID, stageNumber, ok := h.stageParams(c)
	if !ok {
		return
	}

	resp, err := h.stageService.GetStage(c.Request.Context(), moID, stageNumber)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListStages returns all stages of a manufacturing order in stage order
func (h *CostingHandler) ListStages(c *gin.Context) {
	moID, err := uuid.Parse(c.Param("mo_id"))
	if err != nil {
		h.BadRequest(c, "Invalid manufacturing order ID format")
		return
	}

	resp, err := h.stageService.ListStages(c.Request.Context(), moID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// VarianceRequest carries the standard and actual figures for variance
// reporting. All variances are computed; callers ignore what they don't need.
type VarianceRequest struct {
	ActualMaterialPrice   decimal.Decimal `json:"actual_material_price"`
	StandardMaterialPrice decimal.Decimal `json:"standard_material_price"`
	ActualMaterialQty     decimal.Decimal `json:"actual_material_qty"`
	ActualLaborHours      decimal.Decimal `json:"actual_labor_hours"`
	StandardLaborHours    decimal.Decimal `json:"standard_labor_hours"`
	StandardLaborRate     decimal.Decimal `json:"standard_labor_rate"`
	FixedOverheadRate     decimal.Decimal `json:"fixed_overhead_rate"`
}

// VarianceResponse reports the computed standard cost variances
type VarianceResponse struct {
	MaterialPriceVariance   decimal.Decimal `json:"material_price_variance"`
	LaborEfficiencyVariance decimal.Decimal `json:"labor_efficiency_variance"`
	OverheadVolumeVariance  decimal.Decimal `json:"overhead_volume_variance"`
}

// ComputeVariances computes standard cost variances from the supplied
// figures. Pure reporting, nothing is persisted.
func (h *CostingHandler) ComputeVariances(c *gin.Context) {
	var req VarianceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	h.Success(c, VarianceResponse{
		MaterialPriceVariance: costing.MaterialPriceVariance(
			req.ActualMaterialPrice, req.StandardMaterialPrice, req.ActualMaterialQty),
		LaborEfficiencyVariance: costing.LaborEfficiencyVariance(
			req.StandardLaborHours, req.ActualLaborHours, req.StandardLaborRate),
		OverheadVolumeVariance: costing.OverheadVolumeVariance(
			req.ActualLaborHours, req.StandardLaborHours, req.FixedOverheadRate),
	})
}
