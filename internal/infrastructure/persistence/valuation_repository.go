package persistence

import (
	"context"
	"errors"

	"github.com/erp/costing/internal/domain/shared"
	"github.com/erp/costing/internal/domain/valuation"
	"github.com/erp/costing/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormItemValuationRepository implements ItemValuationRepository using GORM
type GormItemValuationRepository struct {
	db *gorm.DB
}

// NewGormItemValuationRepository creates a new GormItemValuationRepository
func NewGormItemValuationRepository(db *gorm.DB) *GormItemValuationRepository {
	return &GormItemValuationRepository{db: db}
}

// Load returns the item's valuation state. An item with no stored row is
// implicitly at zero-state under the given method. A stored row whose
// method differs from the configured one fails: switching method requires
// an explicit re-baseline, never a silent reinterpretation.
func (r *GormItemValuationRepository) Load(ctx context.Context, itemID uuid.UUID, method valuation.Method) (valuation.ItemState, error) {
	var model models.ItemValuationModel
	err := r.db.WithContext(ctx).
		Preload("Batches", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		First(&model, "item_id = ?", itemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return valuation.NewItemState(itemID, method)
		}
		return valuation.ItemState{}, err
	}

	if model.Method != method.String() {
		return valuation.ItemState{}, shared.NewDomainError("INVALID_STATE",
			"Stored valuation method does not match the configured method")
	}
	return model.ToDomain()
}

// Save persists the item's valuation state. The state row and its batch
// queue are replaced atomically.
func (r *GormItemValuationRepository) Save(ctx context.Context, state valuation.ItemState) error {
	var model models.ItemValuationModel
	model.FromDomain(state)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", state.ItemID).
			Delete(&models.ValuationBatchModel{}).Error; err != nil {
			return err
		}
		if err := tx.Save(&models.ItemValuationModel{
			ItemID:      model.ItemID,
			Method:      model.Method,
			OnHandQty:   model.OnHandQty,
			OnHandValue: model.OnHandValue,
			UnitCost:    model.UnitCost,
			UpdatedAt:   model.UpdatedAt,
		}).Error; err != nil {
			return err
		}
		if len(model.Batches) > 0 {
			if err := tx.Create(&model.Batches).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
