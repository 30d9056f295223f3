package shared

import "strings"

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

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized  = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden     = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// ValidationError is a hard validation failure. It blocks the operation and
// carries every violated rule so the caller can surface them verbatim.
type ValidationError struct {
	Messages []string `json:"messages"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// NewValidationError creates a validation error from rule messages
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// ConfirmationRequiredError is raised when soft validation warnings exist and
// the caller has not explicitly confirmed the operation. The operation is not
// performed; resubmitting with confirmation set proceeds past the warnings.
type ConfirmationRequiredError struct {
	Warnings []string `json:"warnings"`
}

// Error implements the error interface
func (e *ConfirmationRequiredError) Error() string {
	return "confirmation required: " + strings.Join(e.Warnings, "; ")
}

// NewConfirmationRequiredError creates a confirmation-required error
func NewConfirmationRequiredError(warnings []string) *ConfirmationRequiredError {
	return &ConfirmationRequiredError{Warnings: warnings}
}

// StateError reports an operation invoked against an aggregate that is not in
// a state accepting it, such as recording counts on a month with no worksheet.
type StateError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *StateError) Error() string {
	return e.Message
}

// NewStateError creates a new state error
func NewStateError(code, message string) *StateError {
	return &StateError{Code: code, Message: message}
}
