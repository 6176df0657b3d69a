package shared

import "fmt"

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

// Error codes for the core invariants. Callers match on Code, not Message.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeCircularReference   = "CIRCULAR_REFERENCE"
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeOverConsumption     = "OVER_CONSUMPTION"
	CodeReferentialConflict = "REFERENTIAL_CONFLICT"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// NewValidationError creates a validation error for malformed input
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewCircularReferenceError names the child whose addition would close a cycle
func NewCircularReferenceError(childName string) *DomainError {
	return NewDomainError(CodeCircularReference,
		fmt.Sprintf("Adding %q as a sub-component would create a circular reference", childName))
}

// NewInsufficientStockError names the item that lacked stock
func NewInsufficientStockError(itemName string, requested, available fmt.Stringer) *DomainError {
	return NewDomainError(CodeInsufficientStock,
		fmt.Sprintf("Insufficient stock of %q: requested %s, available %s", itemName, requested, available))
}

// NewOverConsumptionError reports a batch consumption beyond the produced amount
func NewOverConsumptionError(batchNumber string) *DomainError {
	return NewDomainError(CodeOverConsumption,
		fmt.Sprintf("Consumption of batch %q would exceed its produced amount", batchNumber))
}

// NewReferentialConflictError reports a delete attempted on a still-referenced item
func NewReferentialConflictError(itemName string, usageCount int64) *DomainError {
	return NewDomainError(CodeReferentialConflict,
		fmt.Sprintf("%q is still referenced by %d recipe line(s) and cannot be removed", itemName, usageCount))
}
