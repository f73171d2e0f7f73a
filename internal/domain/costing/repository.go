package costing

import (
	"context"

	"github.com/google/uuid"
)

// StageRepository is the persistence boundary for stage cost records
type StageRepository interface {
	// Load returns the stage record for (manufacturing order, stage number)
	Load(ctx context.Context, moID uuid.UUID, stageNumber int) (*StageCostRecord, error)
	// Save persists the stage record
	Save(ctx context.Context, stage *StageCostRecord) error
	// ListByOrder returns all stages of a manufacturing order ordered by
	// stage number
	ListByOrder(ctx context.Context, moID uuid.UUID) ([]*StageCostRecord, error)
}
