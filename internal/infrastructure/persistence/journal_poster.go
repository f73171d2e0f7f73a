package persistence

import (
	"context"
	"errors"

	"github.com/erp/costing/internal/domain/journal"
	"github.com/erp/costing/internal/domain/shared"
	"github.com/erp/costing/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormJournalPoster implements journal.Poster by writing entries to the
// journal tables. The downstream GL integration reads from there, so a
// committed row is a posted entry from the engine's point of view.
//
// The (source_type, source_id) unique index is the idempotency guard: a
// replayed posting for the same source record fails instead of writing a
// duplicate entry.
type GormJournalPoster struct {
	db *gorm.DB
}

// NewGormJournalPoster creates a new GormJournalPoster
func NewGormJournalPoster(db *gorm.DB) *GormJournalPoster {
	return &GormJournalPoster{db: db}
}

// Post persists the entry and its lines atomically
func (p *GormJournalPoster) Post(ctx context.Context, entry *journal.Entry) error {
	model := models.JournalEntryModelFromDomain(entry)
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		return tx.Create(&model.Lines).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyPosted
		}
		return err
	}
	return nil
}

var _ journal.Poster = (*GormJournalPoster)(nil)
