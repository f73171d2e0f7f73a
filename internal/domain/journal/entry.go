package journal

import (
	"context"

	"github.com/erp/costing/internal/domain/shared"
	"github.com/erp/costing/internal/domain/shared/valueobject"
)

// AccountRole identifies the general-ledger account a line posts to.
// The engine speaks in roles; mapping roles to a chart of accounts is the
// posting subsystem's concern.
type AccountRole string

const (
	AccountRoleWIP           AccountRole = "WIP"
	AccountRoleCOGS          AccountRole = "COGS"
	AccountRoleFinishedGoods AccountRole = "FINISHED_GOODS"
	AccountRoleInventory     AccountRole = "INVENTORY"
)

// String returns the string representation of the account role
func (r AccountRole) String() string {
	return string(r)
}

// IsValid returns true if the account role is recognized
func (r AccountRole) IsValid() bool {
	switch r {
	case AccountRoleWIP, AccountRoleCOGS, AccountRoleFinishedGoods, AccountRoleInventory:
		return true
	}
	return false
}

// SourceType identifies the kind of engine operation that produced an entry
type SourceType string

const (
	SourceTypeStagePost SourceType = "stage_post"
	SourceTypeMovement  SourceType = "movement"
)

// String returns the string representation of the source type
func (s SourceType) String() string {
	return string(s)
}

// SourceReference points back at the engine record an entry was built from
type SourceReference struct {
	Type SourceType `json:"type"`
	ID   string     `json:"id"`
}

// Line is a single debit or credit against an account role.
// Exactly one of Debit/Credit is non-zero on a well-formed line.
type Line struct {
	Role   AccountRole       `json:"account_role"`
	Debit  valueobject.Money `json:"debit"`
	Credit valueobject.Money `json:"credit"`
}

// DebitLine creates a debit line for the given role
func DebitLine(role AccountRole, amount valueobject.Money) Line {
	return Line{Role: role, Debit: amount, Credit: valueobject.ZeroMoney()}
}

// CreditLine creates a credit line for the given role
func CreditLine(role AccountRole, amount valueobject.Money) Line {
	return Line{Role: role, Credit: amount, Debit: valueobject.ZeroMoney()}
}

// Entry is a journal-entry descriptor handed to the GL-posting collaborator.
// An Entry is always balanced: NewEntry refuses to construct one otherwise.
type Entry struct {
	Description string          `json:"description"`
	Lines       []Line          `json:"lines"`
	Source      SourceReference `json:"source_reference"`
}

// NewEntry creates a journal entry descriptor, enforcing the balance
// invariant sum(debit) == sum(credit). An unbalanced entry is an internal
// defect, never a retryable condition.
func NewEntry(description string, source SourceReference, lines []Line) (*Entry, error) {
	if len(lines) == 0 {
		return nil, shared.ErrInvalidInput
	}

	totalDebit := valueobject.ZeroMoney()
	totalCredit := valueobject.ZeroMoney()
	for _, line := range lines {
		if !line.Role.IsValid() {
			return nil, shared.ErrInvalidInput
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return nil, shared.ErrInvalidInput
		}
		if line.Debit.IsPositive() && line.Credit.IsPositive() {
			return nil, shared.ErrInvalidInput
		}
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	if !totalDebit.Equals(totalCredit) {
		return nil, shared.ErrUnbalancedJournalEntry
	}

	return &Entry{
		Description: description,
		Lines:       lines,
		Source:      source,
	}, nil
}

// TotalDebit returns the sum of all debit amounts
func (e *Entry) TotalDebit() valueobject.Money {
	total := valueobject.ZeroMoney()
	for _, line := range e.Lines {
		total = total.Add(line.Debit)
	}
	return total
}

// TotalCredit returns the sum of all credit amounts
func (e *Entry) TotalCredit() valueobject.Money {
	total := valueobject.ZeroMoney()
	for _, line := range e.Lines {
		total = total.Add(line.Credit)
	}
	return total
}

// Poster is the boundary to the general-ledger posting subsystem.
// The engine prepares balanced entries; the collaborator persists them.
type Poster interface {
	Post(ctx context.Context, entry *Entry) error
}
