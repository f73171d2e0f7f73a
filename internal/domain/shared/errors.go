package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors for the costing engine.
// The engine fails closed: ambiguous input is rejected, never defaulted.
var (
	ErrNotFound               = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput           = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidMoveType        = NewDomainError("INVALID_MOVE_TYPE", "Unrecognized inventory move type")
	ErrInsufficientStock      = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrIncompleteStage        = NewDomainError("INCOMPLETE_STAGE", "Stage is missing required fields for calculation")
	ErrAlreadyPosted          = NewDomainError("ALREADY_POSTED", "Stage has already been posted to the general ledger")
	ErrUnbalancedJournalEntry = NewDomainError("UNBALANCED_JOURNAL_ENTRY", "Journal entry debits and credits do not balance")
	ErrInvalidState           = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrConcurrencyConflict    = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
)
