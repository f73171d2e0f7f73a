package persistence

import (
	"context"
	"errors"

	"github.com/erp/costing/internal/domain/costing"
	"github.com/erp/costing/internal/domain/shared"
	"github.com/erp/costing/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStageRepository implements StageRepository using GORM
type GormStageRepository struct {
	db *gorm.DB
}

// NewGormStageRepository creates a new GormStageRepository
func NewGormStageRepository(db *gorm.DB) *GormStageRepository {
	return &GormStageRepository{db: db}
}

// Load returns the stage record for (manufacturing order, stage number)
func (r *GormStageRepository) Load(ctx context.Context, moID uuid.UUID, stageNumber int) (*costing.StageCostRecord, error) {
	var model models.StageCostModel
	err := r.db.WithContext(ctx).
		Where("manufacturing_order_id = ? AND stage_number = ?", moID, stageNumber).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// Save persists the stage record
func (r *GormStageRepository) Save(ctx context.Context, stage *costing.StageCostRecord) error {
	var model models.StageCostModel
	model.FromDomain(stage)
	return r.db.WithContext(ctx).Save(&model).Error
}

// ListByOrder returns all stages of a manufacturing order ordered by
// stage number
func (r *GormStageRepository) ListByOrder(ctx context.Context, moID uuid.UUID) ([]*costing.StageCostRecord, error) {
	var rows []models.StageCostModel
	err := r.db.WithContext(ctx).
		Where("manufacturing_order_id = ?", moID).
		Order("stage_number ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	stages := make([]*costing.StageCostRecord, len(rows))
	for i := range rows {
		stage, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		stages[i] = stage
	}
	return stages, nil
}
