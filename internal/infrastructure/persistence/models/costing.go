package models

import (
	"github.com/erp/costing/internal/domain/costing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StageCostModel is the persistence model for a stage cost record
type StageCostModel struct {
	BaseModel
	ManufacturingOrderID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stage_mo_number,priority:1"`
	WorkCenterID          uuid.UUID       `gorm:"type:uuid;not null"`
	StageNumber           int             `gorm:"not null;uniqueIndex:idx_stage_mo_number,priority:2"`
	Status                string          `gorm:"type:varchar(16);not null"`
	TransferredIn         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DirectMaterial        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DirectLabor           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ManufacturingOverhead decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ScrapCredit           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalInputQty         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	GoodQty               decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ScrapQty              decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReworkQty             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalCost             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost              decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StageCostModel) TableName() string {
	return "stage_costs"
}

// ToDomain converts the persistence model to a domain StageCostRecord
func (m *StageCostModel) ToDomain() (*costing.StageCostRecord, error) {
	return costing.RestoreStage(
		m.ID,
		m.ManufacturingOrderID,
		m.WorkCenterID,
		m.StageNumber,
		costing.StageStatus(m.Status),
		m.TransferredIn, m.DirectMaterial, m.DirectLabor, m.ManufacturingOverhead, m.ScrapCredit,
		m.TotalInputQty, m.GoodQty, m.ScrapQty, m.ReworkQty,
		m.TotalCost, m.UnitCost,
		m.CreatedAt, m.UpdatedAt,
	)
}

// FromDomain populates the persistence model from a domain StageCostRecord
func (m *StageCostModel) FromDomain(s *costing.StageCostRecord) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.ManufacturingOrderID = s.ManufacturingOrderID
	m.WorkCenterID = s.WorkCenterID
	m.StageNumber = s.StageNumber
	m.Status = s.Status.String()
	m.TransferredIn = s.TransferredIn
	m.DirectMaterial = s.DirectMaterial
	m.DirectLabor = s.DirectLabor
	m.ManufacturingOverhead = s.ManufacturingOverhead
	m.ScrapCredit = s.ScrapCredit
	m.TotalInputQty = s.TotalInputQty
	m.GoodQty = s.GoodQty
	m.ScrapQty = s.ScrapQty
	m.ReworkQty = s.ReworkQty
	m.TotalCost = s.TotalCost
	m.UnitCost = s.UnitCost
}
