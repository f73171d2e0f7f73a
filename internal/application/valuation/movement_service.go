package valuation

import (
	"context"
	"time"

	"github.com/erp/costing/internal/domain/journal"
	"github.com/erp/costing/internal/domain/shared"
	"github.com/erp/costing/internal/domain/shared/valueobject"
	"github.com/erp/costing/internal/domain/valuation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// UnlockFunc releases a previously acquired item lock
type UnlockFunc func(ctx context.Context) error

// ItemLocker serializes movements against a single item. Two concurrent
// movements for the same item must not interleave between load and save.
type ItemLocker interface {
	AcquireItemLock(ctx context.Context, itemID uuid.UUID) (UnlockFunc, error)
}

// MovementService values inventory movements against per-item valuation
// state. All state transitions run strictly in arrival order under the
// item lock; the service persists the successor state, appends the ledger
// row, and hands the journal entry to the posting collaborator.
type MovementService struct {
	method    valuation.Method
	stateRepo valuation.ItemValuationRepository
	ledger    valuation.LedgerAppender
	poster    journal.Poster
	locker    ItemLocker
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewMovementService creates a new MovementService. The method is the
// engine-wide valuation method; per-item overrides are not supported.
func NewMovementService(
	method valuation.Method,
	stateRepo valuation.ItemValuationRepository,
	ledger valuation.LedgerAppender,
	poster journal.Poster,
	locker ItemLocker,
	logger *zap.Logger,
) *MovementService {
	return &MovementService{
		method:    method,
		stateRepo: stateRepo,
		ledger:    ledger,
		poster:    poster,
		locker:    locker,
		logger:    logger,
		tracer:    otel.Tracer("application.valuation"),
	}
}

// RecordMovement values one movement and persists its effects: the new
// item state, one ledger row, and (for COGS-relevant move types) one
// journal entry. On any error nothing downstream of the failure point is
// applied and the returned error carries the domain code.
func (s *MovementService) RecordMovement(ctx context.Context, req RecordMovementRequest) (*MovementResponse, error) {
	ctx, span := s.tracer.Start(ctx, "MovementService.RecordMovement",
		trace.WithAttributes(
			attribute.String("item_id", req.ItemID.String()),
			attribute.String("move_type", req.MoveType),
		))
	defer span.End()

	movement := valuation.Movement{
		ItemID:    req.ItemID,
		Type:      valuation.MoveType(req.MoveType),
		QtyIn:     req.QtyIn,
		QtyOut:    req.QtyOut,
		UnitCost:  req.UnitCost,
		Reference: req.Reference,
	}
	if err := movement.Validate(); err != nil {
		return nil, err
	}

	if s.locker != nil {
		unlock, err := s.locker.AcquireItemLock(ctx, req.ItemID)
		if err != nil {
			s.logger.Warn("Failed to acquire item lock",
				zap.String("item_id", req.ItemID.String()),
				zap.Error(err))
			return nil, shared.ErrConcurrencyConflict
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				s.logger.Warn("Failed to release item lock",
					zap.String("item_id", req.ItemID.String()),
					zap.Error(err))
			}
		}()
	}

	state, err := s.stateRepo.Load(ctx, req.ItemID, s.method)
	if err != nil {
		return nil, err
	}

	result, err := valuation.RecordMovement(state, movement)
	if err != nil {
		return nil, err
	}

	if err := s.stateRepo.Save(ctx, result.NewState); err != nil {
		s.logger.Error("Failed to save valuation state",
			zap.String("item_id", req.ItemID.String()),
			zap.Error(err))
		return nil, err
	}

	entry := &valuation.LedgerEntry{
		ID:             uuid.New(),
		ItemID:         req.ItemID,
		MoveType:       movement.Type,
		QtyIn:          movement.QtyIn,
		QtyOut:         movement.QtyOut,
		UnitCost:       ledgerUnitCost(movement, result),
		TotalCost:      result.CostImpact,
		RunningBalance: result.NewState.OnHandQty,
		RunningValue:   result.NewState.OnHandValue,
		AvgUnitCost:    result.NewState.UnitCost,
		Reference:      movement.Reference,
		Timestamp:      time.Now(),
	}
	if err := s.ledger.Append(ctx, entry); err != nil {
		s.logger.Error("Failed to append ledger row",
			zap.String("item_id", req.ItemID.String()),
			zap.Error(err))
		return nil, err
	}

	if err := s.postJournalEntry(ctx, movement, result, entry.ID); err != nil {
		return nil, err
	}

	s.logger.Info("Movement recorded",
		zap.String("item_id", req.ItemID.String()),
		zap.String("move_type", movement.Type.String()),
		zap.String("cost_impact", result.CostImpact.String()),
		zap.String("on_hand_qty", result.NewState.OnHandQty.String()))

	return &MovementResponse{
		ItemID:         req.ItemID,
		MoveType:       movement.Type.String(),
		CostImpact:     result.CostImpact,
		OnHandQty:      result.NewState.OnHandQty,
		OnHandValue:    result.NewState.OnHandValue,
		UnitCost:       result.NewState.UnitCost,
		BatchesTouched: toBatchUseResponses(result.BatchesTouched),
	}, nil
}

// ledgerUnitCost is the per-unit cost recorded on the ledger row: the
// receipt cost for incoming movements, the effective issue cost otherwise.
func ledgerUnitCost(movement valuation.Movement, result *valuation.MovementResult) decimal.Decimal {
	if movement.QtyIn.IsPositive() {
		return movement.UnitCost
	}
	if movement.QtyOut.IsZero() {
		return decimal.Zero
	}
	return result.CostImpact.Div(movement.QtyOut).Round(4)
}

// postJournalEntry emits the journal entry for COGS-relevant move types.
// Move types without a role mapping (adjustments, transfers, purchases)
// produce ledger rows only.
func (s *MovementService) postJournalEntry(ctx context.Context, movement valuation.Movement, result *valuation.MovementResult, ledgerID uuid.UUID) error {
	if s.poster == nil || result.CostImpact.IsZero() {
		return nil
	}

	var debit, credit journal.AccountRole
	switch movement.Type {
	case valuation.MoveTypeSaleOut:
		debit, credit = journal.AccountRoleCOGS, journal.AccountRoleInventory
	case valuation.MoveTypeMOCons:
		debit, credit = journal.AccountRoleWIP, journal.AccountRoleInventory
	case valuation.MoveTypeProdIn:
		debit, credit = journal.AccountRoleFinishedGoods, journal.AccountRoleWIP
	default:
		return nil
	}

	amount := valueobject.NewMoney(result.CostImpact)
	entry, err := journal.NewEntry(
		movement.Type.String()+" "+movement.Reference,
		journal.SourceReference{Type: journal.SourceTypeMovement, ID: ledgerID.String()},
		[]journal.Line{
			journal.DebitLine(debit, amount),
			journal.CreditLine(credit, amount),
		},
	)
	if err != nil {
		return err
	}
	if err := s.poster.Post(ctx, entry); err != nil {
		s.logger.Error("Failed to post journal entry",
			zap.String("item_id", movement.ItemID.String()),
			zap.String("move_type", movement.Type.String()),
			zap.Error(err))
		return err
	}
	return nil
}

// SimulateIssue values a hypothetical issue against the item's current
// state without mutating anything. The returned COGS is exactly what an
// immediately following real issue of the same quantity would produce.
func (s *MovementService) SimulateIssue(ctx context.Context, req SimulateIssueRequest) (*SimulateIssueResponse, error) {
	ctx, span := s.tracer.Start(ctx, "MovementService.SimulateIssue")
	defer span.End()

	state, err := s.stateRepo.Load(ctx, req.ItemID, s.method)
	if err != nil {
		return nil, err
	}

	issue, err := valuation.PreviewIssue(state, req.Quantity)
	if err != nil {
		return nil, err
	}

	return &SimulateIssueResponse{
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
		COGS:     issue.COGS,
		Batches:  toBatchUseResponses(issue.Batches),
	}, nil
}

// GetState returns the item's current valuation state. Items with no
// recorded movements report the zero-state under the engine method.
func (s *MovementService) GetState(ctx context.Context, itemID uuid.UUID) (*ItemStateResponse, error) {
	state, err := s.stateRepo.Load(ctx, itemID, s.method)
	if err != nil {
		return nil, err
	}
	return toItemStateResponse(state), nil
}

// GetLedger returns the item's cost ledger rows in chronological order
func (s *MovementService) GetLedger(ctx context.Context, itemID uuid.UUID, limit int) ([]LedgerEntryResponse, error) {
	entries, err := s.ledger.ListByItem(ctx, itemID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = toLedgerEntryResponse(e)
	}
	return out, nil
}
