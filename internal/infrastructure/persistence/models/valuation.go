package models

import (
	"time"

	"github.com/erp/costing/internal/domain/valuation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemValuationModel is the persistence model for per-item valuation state.
// One row per item; the batch queue lives in valuation_batches.
type ItemValuationModel struct {
	ItemID      uuid.UUID       `gorm:"type:uuid;primary_key"`
	Method      string          `gorm:"type:varchar(32);not null"`
	OnHandQty   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OnHandValue decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UpdatedAt   time.Time       `gorm:"not null"`
	// Associations
	Batches []ValuationBatchModel `gorm:"foreignKey:ItemID;references:ItemID"`
}

// TableName returns the table name for GORM
func (ItemValuationModel) TableName() string {
	return "item_valuations"
}

// ToDomain converts the persistence model to a domain ItemState
func (m *ItemValuationModel) ToDomain() (valuation.ItemState, error) {
	batches := make([]valuation.Batch, len(m.Batches))
	for i, b := range m.Batches {
		batches[i] = valuation.Batch{
			Sequence: b.Sequence,
			Quantity: b.Quantity,
			UnitCost: b.UnitCost,
		}
	}
	return valuation.RestoreItemState(
		m.ItemID,
		valuation.Method(m.Method),
		m.OnHandQty,
		m.OnHandValue,
		m.UnitCost,
		batches,
	)
}

// FromDomain populates the persistence model from a domain ItemState
func (m *ItemValuationModel) FromDomain(state valuation.ItemState) {
	m.ItemID = state.ItemID
	m.Method = state.Method.String()
	m.OnHandQty = state.OnHandQty
	m.OnHandValue = state.OnHandValue
	m.UnitCost = state.UnitCost
	m.UpdatedAt = time.Now()

	domainBatches := state.Batches.Batches()
	m.Batches = make([]ValuationBatchModel, len(domainBatches))
	for i, b := range domainBatches {
		m.Batches[i] = ValuationBatchModel{
			ItemID:   state.ItemID,
			Sequence: b.Sequence,
			Quantity: b.Quantity,
			UnitCost: b.UnitCost,
		}
	}
}

// ValuationBatchModel is one open lot of a batch-tracked item. The
// sequence is monotonically increasing per item and never reused.
type ValuationBatchModel struct {
	ItemID   uuid.UUID       `gorm:"type:uuid;primary_key"`
	Sequence uint64          `gorm:"primary_key;autoIncrement:false"`
	Quantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (ValuationBatchModel) TableName() string {
	return "valuation_batches"
}

// CostLedgerModel is one immutable row of the per-item cost ledger
type CostLedgerModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	ItemID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_cost_ledger_item_time,priority:1"`
	MoveType       string          `gorm:"type:varchar(32);not null"`
	QtyIn          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	QtyOut         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalCost      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RunningBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RunningValue   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AvgUnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Reference      string          `gorm:"type:varchar(128)"`
	Timestamp      time.Time       `gorm:"not null;index:idx_cost_ledger_item_time,priority:2"`
}

// TableName returns the table name for GORM
func (CostLedgerModel) TableName() string {
	return "cost_ledger"
}

// ToDomain converts the persistence model to a domain LedgerEntry
func (m *CostLedgerModel) ToDomain() valuation.LedgerEntry {
	return valuation.LedgerEntry{
		ID:             m.ID,
		ItemID:         m.ItemID,
		MoveType:       valuation.MoveType(m.MoveType),
		QtyIn:          m.QtyIn,
		QtyOut:         m.QtyOut,
		UnitCost:       m.UnitCost,
		TotalCost:      m.TotalCost,
		RunningBalance: m.RunningBalance,
		RunningValue:   m.RunningValue,
		AvgUnitCost:    m.AvgUnitCost,
		Reference:      m.Reference,
		Timestamp:      m.Timestamp,
	}
}

// CostLedgerModelFromDomain builds a persistence model from a domain
// LedgerEntry
func CostLedgerModelFromDomain(e *valuation.LedgerEntry) *CostLedgerModel {
	return &CostLedgerModel{
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
