package costing

import (
	"fmt"
	"time"

	"github.com/erp/costing/internal/domain/journal"
	"github.com/erp/costing/internal/domain/shared"
	"github.com/erp/costing/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// costScale matches the decimal(18,4) persistence columns
const costScale int32 = 4

// StageStatus is the lifecycle state of a stage cost record. The machine
// only moves forward: OPEN -> CALCULATED -> POSTED. A correction requires
// a new reversing stage; a posted record is immutable.
type StageStatus string

const (
	// StageStatusOpen means inputs are still being accumulated
	StageStatusOpen StageStatus = "OPEN"
	// StageStatusCalculated means the cost figures are frozen
	StageStatusCalculated StageStatus = "CALCULATED"
	// StageStatusPosted means a journal entry has been emitted
	StageStatusPosted StageStatus = "POSTED"
)

// String returns the string representation of the status
func (s StageStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is recognized
func (s StageStatus) IsValid() bool {
	switch s {
	case StageStatusOpen, StageStatusCalculated, StageStatusPosted:
		return true
	}
	return false
}

// StageCostRecord accumulates the cost of one production stage of a
// manufacturing order: transferred-in cost from the prior stage, direct
// material, direct labor, and applied overhead, less any scrap credit.
// Stages form a strict sequence by StageNumber; a stage's total cost seeds
// the next stage's transferred-in.
type StageCostRecord struct {
	shared.BaseEntity
	ManufacturingOrderID  uuid.UUID
	WorkCenterID          uuid.UUID
	StageNumber           int
	Status                StageStatus
	TransferredIn         decimal.Decimal
	DirectMaterial        decimal.Decimal
	DirectLabor           decimal.Decimal
	ManufacturingOverhead decimal.Decimal
	ScrapCredit           decimal.Decimal
	TotalInputQty         decimal.Decimal
	GoodQty               decimal.Decimal
	ScrapQty              decimal.Decimal
	ReworkQty             decimal.Decimal
	TotalCost             decimal.Decimal
	UnitCost              decimal.Decimal

	quantitiesSet bool
}

// NewStage opens a stage cost record for a manufacturing order. The
// transferred-in amount is zero for the first stage and the prior stage's
// total cost otherwise.
func NewStage(moID, workCenterID uuid.UUID, stageNumber int, transferredIn decimal.Decimal) (*StageCostRecord, error) {
	if moID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Manufacturing order ID cannot be empty")
	}
	if stageNumber < 1 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Stage number must be at least 1")
	}
	if transferredIn.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transferred-in cost cannot be negative")
	}

	return &StageCostRecord{
		BaseEntity:            shared.NewBaseEntity(),
		ManufacturingOrderID:  moID,
		WorkCenterID:          workCenterID,
		StageNumber:           stageNumber,
		Status:                StageStatusOpen,
		TransferredIn:         transferredIn,
		DirectMaterial:        decimal.Zero,
		DirectLabor:           decimal.Zero,
		ManufacturingOverhead: decimal.Zero,
		ScrapCredit:           decimal.Zero,
		TotalInputQty:         decimal.Zero,
		GoodQty:               decimal.Zero,
		ScrapQty:              decimal.Zero,
		ReworkQty:             decimal.Zero,
		TotalCost:             decimal.Zero,
		UnitCost:              decimal.Zero,
	}, nil
}

// RestoreStage rebuilds a persisted stage record
func RestoreStage(
	id uuid.UUID,
	moID, workCenterID uuid.UUID,
	stageNumber int,
	status StageStatus,
	transferredIn, directMaterial, directLabor, overhead, scrapCredit decimal.Decimal,
	totalInputQty, goodQty, scrapQty, reworkQty decimal.Decimal,
	totalCost, unitCost decimal.Decimal,
	createdAt, updatedAt time.Time,
) (*StageCostRecord, error) {
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unrecognized stage status")
	}
	s := &StageCostRecord{
		BaseEntity:            shared.BaseEntity{ID: id, CreatedAt: createdAt, UpdatedAt: updatedAt},
		ManufacturingOrderID:  moID,
		WorkCenterID:          workCenterID,
		StageNumber:           stageNumber,
		Status:                status,
		TransferredIn:         transferredIn,
		DirectMaterial:        directMaterial,
		DirectLabor:           directLabor,
		ManufacturingOverhead: overhead,
		ScrapCredit:           scrapCredit,
		TotalInputQty:         totalInputQty,
		GoodQty:               goodQty,
		ScrapQty:              scrapQty,
		ReworkQty:             reworkQty,
		TotalCost:             totalCost,
		UnitCost:              unitCost,
		quantitiesSet:         totalInputQty.IsPositive(),
	}
	return s, nil
}

// mutable rejects input mutation once the stage has been calculated
func (s *StageCostRecord) mutable() error {
	if s.Status != StageStatusOpen {
		return shared.ErrInvalidState
	}
	return nil
}

// ApplyMaterial adds direct material cost to the stage
func (s *StageCostRecord) ApplyMaterial(amount decimal.Decimal) error {
	if err := s.mutable(); err != nil {
		return err
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_INPUT", "Material amount must be positive")
	}
	s.DirectMaterial = s.DirectMaterial.Add(amount)
	s.UpdatedAt = time.Now()
	return nil
}

// ApplyLabor adds direct labor cost computed as hours * rate
func (s *StageCostRecord) ApplyLabor(hours, rate decimal.Decimal) error {
	if err := s.mutable(); err != nil {
		return err
	}
	if hours.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_INPUT", "Labor hours must be positive")
	}
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Labor rate cannot be negative")
	}
	s.DirectLabor = s.DirectLabor.Add(hours.Mul(rate))
	s.UpdatedAt = time.Now()
	return nil
}

// ApplyOverhead adds manufacturing overhead computed as basis * rate
func (s *StageCostRecord) ApplyOverhead(basis, rate decimal.Decimal) error {
	if err := s.mutable(); err != nil {
		return err
	}
	if basis.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_INPUT", "Overhead basis must be positive")
	}
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Overhead rate cannot be negative")
	}
	s.ManufacturingOverhead = s.ManufacturingOverhead.Add(basis.Mul(rate))
	s.UpdatedAt = time.Now()
	return nil
}

// ApplyScrapCredit records recoverable value for scrapped output,
// credited against the stage's total cost
func (s *StageCostRecord) ApplyScrapCredit(amount decimal.Decimal) error {
	if err := s.mutable(); err != nil {
		return err
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_INPUT", "Scrap credit must be positive")
	}
	s.ScrapCredit = s.ScrapCredit.Add(amount)
	s.UpdatedAt = time.Now()
	return nil
}

// SetQuantities records the stage's output split. Quantity conservation is
// enforced here: good + scrap + rework must equal the total input quantity.
func (s *StageCostRecord) SetQuantities(totalInput, good, scrap, rework decimal.Decimal) error {
	if err := s.mutable(); err != nil {
		return err
	}
	if totalInput.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_INPUT", "Total input quantity must be positive")
	}
	if good.IsNegative() || scrap.IsNegative() || rework.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Output quantities cannot be negative")
	}
	if !good.Add(scrap).Add(rework).Equal(totalInput) {
		return shared.NewDomainError("INVALID_INPUT", "Good, scrap and rework quantities must sum to the total input quantity")
	}

	s.TotalInputQty = totalInput
	s.GoodQty = good
	s.ScrapQty = scrap
	s.ReworkQty = rework
	s.quantitiesSet = true
	s.UpdatedAt = time.Now()
	return nil
}

// Calculate freezes the stage: total cost is transferred-in plus the three
// cost pools less scrap credit, unit cost is total over good output. After
// a successful calculation the record transitions to CALCULATED and no
// further input mutation is accepted.
func (s *StageCostRecord) Calculate() error {
	if s.Status != StageStatusOpen {
		return shared.ErrInvalidState
	}
	if s.WorkCenterID == uuid.Nil || !s.quantitiesSet {
		return shared.ErrIncompleteStage
	}
	if s.GoodQty.IsZero() {
		return shared.NewDomainError("INVALID_INPUT", "Unit cost is undefined for zero good quantity")
	}

	s.TotalCost = s.TransferredIn.
		Add(s.DirectMaterial).
		Add(s.DirectLabor).
		Add(s.ManufacturingOverhead).
		Sub(s.ScrapCredit)
	s.UnitCost = s.TotalCost.Div(s.GoodQty).Round(costScale)
	s.Status = StageStatusCalculated
	s.UpdatedAt = time.Now()
	return nil
}

// TransferCost returns the stage's total cost for seeding the next stage's
// transferred-in amount. Callable once the stage is CALCULATED or later.
func (s *StageCostRecord) TransferCost() (decimal.Decimal, error) {
	if s.Status == StageStatusOpen {
		return decimal.Zero, shared.ErrInvalidState
	}
	return s.TotalCost, nil
}

// EquivalentUnits expresses the stage's output as fully-completed units:
// good output counts in full, scrap and rework are weighted by their
// completion fractions (each in [0, 1]).
func (s *StageCostRecord) EquivalentUnits(scrapCompletion, reworkCompletion decimal.Decimal) (decimal.Decimal, error) {
	one := decimal.NewFromInt(1)
	if scrapCompletion.IsNegative() || scrapCompletion.GreaterThan(one) ||
		reworkCompletion.IsNegative() || reworkCompletion.GreaterThan(one) {
		return decimal.Zero, shared.NewDomainError("INVALID_INPUT", "Completion fractions must be between 0 and 1")
	}
	return s.GoodQty.
		Add(s.ScrapQty.Mul(scrapCompletion)).
		Add(s.ReworkQty.Mul(reworkCompletion)), nil
}

// CostPerEquivalentUnit spreads the frozen total cost over the equivalent
// units. Reporting only; UnitCost (total over good output) stays the
// authoritative per-unit figure.
func (s *StageCostRecord) CostPerEquivalentUnit(scrapCompletion, reworkCompletion decimal.Decimal) (decimal.Decimal, error) {
	if s.Status == StageStatusOpen {
		return decimal.Zero, shared.ErrInvalidState
	}
	eu, err := s.EquivalentUnits(scrapCompletion, reworkCompletion)
	if err != nil {
		return decimal.Zero, err
	}
	if eu.IsZero() {
		return decimal.Zero, shared.NewDomainError("INVALID_INPUT", "Equivalent units are zero")
	}
	return s.TotalCost.Div(eu).Round(costScale), nil
}

// Post transitions the stage to POSTED and returns the journal-entry
// descriptor for the GL-posting collaborator. finalStage selects the debit
// side: an intermediate stage accumulates into WIP against the inventory
// that fed it, the final stage moves WIP into finished goods. Posting is
// idempotency-protected: a second call fails with ALREADY_POSTED and emits
// no duplicate descriptor.
func (s *StageCostRecord) Post(finalStage bool) (*journal.Entry, error) {
	if s.Status == StageStatusPosted {
		return nil, shared.ErrAlreadyPosted
	}
	if s.Status != StageStatusCalculated {
		return nil, shared.ErrInvalidState
	}

	total := valueobject.NewMoney(s.TotalCost)
	debitRole := journal.AccountRoleWIP
	creditRole := journal.AccountRoleInventory
	if finalStage {
		debitRole = journal.AccountRoleFinishedGoods
		creditRole = journal.AccountRoleWIP
	}

	entry, err := journal.NewEntry(
		fmt.Sprintf("Stage %d cost posting for MO %s", s.StageNumber, s.ManufacturingOrderID),
		journal.SourceReference{Type: journal.SourceTypeStagePost, ID: s.ID.String()},
		[]journal.Line{
			journal.DebitLine(debitRole, total),
			journal.CreditLine(creditRole, total),
		},
	)
	if err != nil {
		return nil, err
	}

	s.Status = StageStatusPosted
	s.UpdatedAt = time.Now()
	return entry, nil
}
