package costing

import (
	"context"

	"github.com/erp/costing/internal/domain/costing"
	"github.com/erp/costing/internal/domain/journal"
	"github.com/erp/costing/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// StageService drives the lifecycle of stage cost records: open, apply
// inputs, calculate, post. Stage sequencing is enforced here; the record
// itself enforces its own state machine.
type StageService struct {
	stages costing.StageRepository
	poster journal.Poster
	logger *zap.Logger
	tracer trace.Tracer
}

// NewStageService creates a new StageService
func NewStageService(stages costing.StageRepository, poster journal.Poster, logger *zap.Logger) *StageService {
	return &StageService{
		stages: stages,
		poster: poster,
		logger: logger,
		tracer: otel.Tracer("application.costing"),
	}
}

// OpenStage opens a stage cost record. The first stage starts with zero
// transferred-in cost; every later stage requires its predecessor to be
// CALCULATED or POSTED and inherits that stage's total cost.
func (s *StageService) OpenStage(ctx context.Context, req OpenStageRequest) (*StageResponse, error) {
	ctx, span := s.tracer.Start(ctx, "StageService.OpenStage",
		trace.WithAttributes(
			attribute.String("mo_id", req.ManufacturingOrderID.String()),
			attribute.Int("stage_number", req.StageNumber),
		))
	defer span.End()

	if existing, err := s.stages.Load(ctx, req.ManufacturingOrderID, req.StageNumber); err == nil && existing != nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Stage already exists for this manufacturing order")
	}

	transferredIn := decimal.Zero
	if req.StageNumber > 1 {
		prev, err := s.stages.Load(ctx, req.ManufacturingOrderID, req.StageNumber-1)
		if err != nil {
			return nil, shared.NewDomainError("INCOMPLETE_STAGE", "Previous stage does not exist")
		}
		transferredIn, err = prev.TransferCost()
		if err != nil {
			return nil, shared.NewDomainError("INCOMPLETE_STAGE", "Previous stage has not been calculated")
		}
	}

	stage, err := costing.NewStage(req.ManufacturingOrderID, req.WorkCenterID, req.StageNumber, transferredIn)
	if err != nil {
		return nil, err
	}
	if err := s.stages.Save(ctx, stage); err != nil {
		s.logger.Error("Failed to save stage",
			zap.String("mo_id", req.ManufacturingOrderID.String()),
			zap.Int("stage_number", req.StageNumber),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Stage opened",
		zap.String("mo_id", req.ManufacturingOrderID.String()),
		zap.Int("stage_number", req.StageNumber),
		zap.String("transferred_in", transferredIn.String()))
	return toStageResponse(stage), nil
}

// ApplyCosts accumulates cost inputs onto an open stage. Pools with zero
// inputs are skipped so partial applications are fine.
func (s *StageService) ApplyCosts(ctx context.Context, moID uuid.UUID, stageNumber int, req ApplyCostsRequest) (*StageResponse, error) {
	stage, err := s.stages.Load(ctx, moID, stageNumber)
	if err != nil {
		return nil, err
	}

	if req.Material.IsPositive() {
		if err := stage.ApplyMaterial(req.Material); err != nil {
			return nil, err
		}
	}
	if req.LaborHours.IsPositive() {
		if err := stage.ApplyLabor(req.LaborHours, req.LaborRate); err != nil {
			return nil, err
		}
	}
	if req.OverheadBasis.IsPositive() {
		if err := stage.ApplyOverhead(req.OverheadBasis, req.OverheadRate); err != nil {
			return nil, err
		}
	}
	if req.ScrapCredit.IsPositive() {
		if err := stage.ApplyScrapCredit(req.ScrapCredit); err != nil {
			return nil, err
		}
	}

	if err := s.stages.Save(ctx, stage); err != nil {
		return nil, err
	}
	return toStageResponse(stage), nil
}

// SetQuantities records the stage's output split
func (s *StageService) SetQuantities(ctx context.Context, moID uuid.UUID, stageNumber int, req SetQuantitiesRequest) (*StageResponse, error) {
	stage, err := s.stages.Load(ctx, moID, stageNumber)
	if err != nil {
		return nil, err
	}
	if err := stage.SetQuantities(req.TotalInputQty, req.GoodQty, req.ScrapQty, req.ReworkQty); err != nil {
		return nil, err
	}
	if err := s.stages.Save(ctx, stage); err != nil {
		return nil, err
	}
	return toStageResponse(stage), nil
}

// CalculateStage freezes the stage's cost figures
func (s *StageService) CalculateStage(ctx context.Context, moID uuid.UUID, stageNumber int) (*StageResponse, error) {
	ctx, span := s.tracer.Start(ctx, "StageService.CalculateStage")
	defer span.End()

	stage, err := s.stages.Load(ctx, moID, stageNumber)
	if err != nil {
		return nil, err
	}
	if err := stage.Calculate(); err != nil {
		return nil, err
	}
	if err := s.stages.Save(ctx, stage); err != nil {
		return nil, err
	}

	s.logger.Info("Stage calculated",
		zap.String("mo_id", moID.String()),
		zap.Int("stage_number", stageNumber),
		zap.String("total_cost", stage.TotalCost.String()),
		zap.String("unit_cost", stage.UnitCost.String()))
	return toStageResponse(stage), nil
}

// PostStage emits the stage's journal entry and marks it POSTED. The
// POSTED status is only saved after the posting collaborator accepts the
// entry, so a posting failure leaves the stage re-postable. A stage that
// is already POSTED fails with ALREADY_POSTED and emits nothing.
func (s *StageService) PostStage(ctx context.Context, moID uuid.UUID, stageNumber int, req PostStageRequest) (*StageResponse, error) {
	ctx, span := s.tracer.Start(ctx, "StageService.PostStage")
	defer span.End()

	stage, err := s.stages.Load(ctx, moID, stageNumber)
	if err != nil {
		return nil, err
	}

	entry, err := stage.Post(req.FinalStage)
	if err != nil {
		return nil, err
	}
	if s.poster != nil {
		if err := s.poster.Post(ctx, entry); err != nil {
			s.logger.Error("Failed to post stage journal entry",
				zap.String("mo_id", moID.String()),
				zap.Int("stage_number", stageNumber),
				zap.Error(err))
			return nil, err
		}
	}
	if err := s.stages.Save(ctx, stage); err != nil {
		return nil, err
	}

	s.logger.Info("Stage posted",
		zap.String("mo_id", moID.String()),
		zap.Int("stage_number", stageNumber),
		zap.Bool("final_stage", req.FinalStage),
		zap.String("total_cost", stage.TotalCost.String()))
	return toStageResponse(stage), nil
}

// GetStage returns one stage of a manufacturing order
func (s *StageService) GetStage(ctx context.Context, moID uuid.UUID, stageNumber int) (*StageResponse, error) {
	stage, err := s.stages.Load(ctx, moID, stageNumber)
	if err != nil {
		return nil, err
	}
	return toStageResponse(stage), nil
}

// ListStages returns all stages of a manufacturing order in stage order
func (s *StageService) ListStages(ctx context.Context, moID uuid.UUID) ([]*StageResponse, error) {
	stages, err := s.stages.ListByOrder(ctx, moID)
	if err != nil {
		return nil, err
	}
	out := make([]*StageResponse, len(stages))
	for i, stage := range stages {
		out[i] = toStageResponse(stage)
	}
	return out, nil
}
