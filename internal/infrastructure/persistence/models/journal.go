package models

import (
	"time"

	"github.com/erp/costing/internal/domain/journal"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JournalEntryModel is a posted journal-entry descriptor. The engine
// writes entries here; the downstream GL integration consumes them.
type JournalEntryModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Description string    `gorm:"type:varchar(255);not null"`
	SourceType  string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_journal_source,priority:1"`
	SourceID    string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_journal_source,priority:2"`
	PostedAt    time.Time `gorm:"not null"`
	// Associations
	Lines []JournalLineModel `gorm:"foreignKey:EntryID;references:ID"`
}

// TableName returns the table name for GORM
func (JournalEntryModel) TableName() string {
	return "journal_entries"
}

// JournalLineModel is one debit or credit line of a journal entry
type JournalLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	EntryID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountRole string          `gorm:"type:varchar(32);not null"`
	Debit       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Credit      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (JournalLineModel) TableName() string {
	return "journal_lines"
}

// JournalEntryModelFromDomain builds the persistence model from a domain
// Entry
func JournalEntryModelFromDomain(e *journal.Entry) *JournalEntryModel {
	entryID := uuid.New()
	m := &JournalEntryModel{
		ID:          entryID,
		Description: e.Description,
		SourceType:  e.Source.Type.String(),
		SourceID:    e.Source.ID,
		PostedAt:    time.Now(),
		Lines:       make([]JournalLineModel, len(e.Lines)),
	}
	for i, line := range e.Lines {
		m.Lines[i] = JournalLineModel{
			ID:          uuid.New(),
			EntryID:     entryID,
			AccountRole: line.Role.String(),
			Debit:       line.Debit.Amount(),
			Credit:      line.Credit.Amount(),
		}
	}
	return m
}
