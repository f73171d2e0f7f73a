package handler

import (
	"strconv"

	valuationapp "github.com/erp/costing/internal/application/valuation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ValuationHandler handles inventory valuation API endpoints
type ValuationHandler struct {
	BaseHandler
	movementService *valuationapp.MovementService
}

// NewValuationHandler creates a new ValuationHandler
func NewValuationHandler(movementService *valuationapp.MovementService) *ValuationHandler {
	return &ValuationHandler{
		movementService: movementService,
	}
}

// RegisterRoutes registers valuation routes on the given group
func (h *ValuationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	movements := rg.Group("/movements")
	{
		movements.POST("", h.RecordMovement)
		movements.POST("/simulate", h.SimulateIssue)
	}

	items := rg.Group("/items")
	{
		items.GET("/:id/valuation", h.GetState)
		items.GET("/:id/ledger", h.GetLedger)
	}
}

// RecordMovement values one inventory movement and persists its effects
func (h *ValuationHandler) RecordMovement(c *gin.Context) {
	var req valuationapp.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.movementService.RecordMovement(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// SimulateIssue reports the would-be COGS of an issue without recording it
func (h *ValuationHandler) SimulateIssue(c *gin.Context) {
	var req valuationapp.SimulateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.movementService.SimulateIssue(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetState returns the item's current valuation state
func (h *ValuationHandler) GetState(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	resp, err := h.movementService.GetState(c.Request.Context(), itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetLedger returns the item's cost ledger rows in chronological order.
// An optional limit query parameter caps the row count; zero means all.
func (h *ValuationHandler) GetLedger(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			h.BadRequest(c, "Invalid limit parameter")
			return
		}
	}

	resp, err := h.movementService.GetLedger(c.Request.Context(), itemID, limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
