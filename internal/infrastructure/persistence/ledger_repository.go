package persistence

import (
	"context"

	"github.com/erp/costing/internal/domain/valuation"
	"github.com/erp/costing/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCostLedgerRepository implements LedgerAppender using GORM. Ledger
// rows are append-only; there is no update or delete path.
type GormCostLedgerRepository struct {
	db *gorm.DB
}

// NewGormCostLedgerRepository creates a new GormCostLedgerRepository
func NewGormCostLedgerRepository(db *gorm.DB) *GormCostLedgerRepository {
	return &GormCostLedgerRepository{db: db}
}

// Append writes one ledger row
func (r *GormCostLedgerRepository) Append(ctx context.Context, entry *valuation.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(models.CostLedgerModelFromDomain(entry)).Error
}

// ListByItem returns the ledger rows for an item in chronological order.
// A non-positive limit returns all rows.
func (r *GormCostLedgerRepository) ListByItem(ctx context.Context, itemID uuid.UUID, limit int) ([]valuation.LedgerEntry, error) {
	query := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("timestamp ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []models.CostLedgerModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]valuation.LedgerEntry, len(rows))
	for i, row := range rows {
		entries[i] = row.ToDomain()
	}
	return entries, nil
}
