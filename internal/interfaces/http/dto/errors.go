package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidMoveType is used for unrecognized inventory move types
	ErrCodeInvalidMoveType = "ERR_INVALID_MOVE_TYPE"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when per-item serialization fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeInsufficientStock is used when on-hand stock cannot cover an issue
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodeIncompleteStage is used when a stage is missing required inputs
	ErrCodeIncompleteStage = "ERR_INCOMPLETE_STAGE"
	// ErrCodeAlreadyPosted is used when a posting is replayed
	ErrCodeAlreadyPosted = "ERR_ALREADY_POSTED"
	// ErrCodeUnbalancedJournal marks a journal entry whose sides do not
	// balance. This is a defect, never a caller error.
	ErrCodeUnbalancedJournal = "ERR_UNBALANCED_JOURNAL_ENTRY"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidMoveType: http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeIncompleteStage:   http.StatusUnprocessableEntity,

	// Posting replays -> 409 Conflict
	ErrCodeAlreadyPosted: http.StatusConflict,

	// Unbalanced entries are an engine defect, never retryable
	ErrCodeUnbalancedJournal: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                ErrCodeNotFound,
	"INVALID_INPUT":            ErrCodeInvalidInput,
	"INVALID_MOVE_TYPE":        ErrCodeInvalidMoveType,
	"INSUFFICIENT_STOCK":       ErrCodeInsufficientStock,
	"INCOMPLETE_STAGE":         ErrCodeIncompleteStage,
	"ALREADY_POSTED":           ErrCodeAlreadyPosted,
	"UNBALANCED_JOURNAL_ENTRY": ErrCodeUnbalancedJournal,
	"INVALID_STATE":            ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT":     ErrCodeConcurrencyConflict,
}

// NormalizeErrorCode converts a domain error code to the API format
// If the code is already in the API format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
