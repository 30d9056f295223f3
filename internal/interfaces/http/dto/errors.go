package dto

import "net/http"

// Codes attached to interface-level failures. Domain errors keep their own
// codes; HTTPStatusFor maps both kinds to status codes.
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request payloads fail validation
	ErrCodeValidation = "VALIDATION_FAILED"
	// ErrCodeConfirmationRequired is used when warnings need explicit confirmation
	ErrCodeConfirmationRequired = "CONFIRMATION_REQUIRED"
	// ErrCodeUnauthorized is used when authentication is missing or invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "FORBIDDEN"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps error codes, including domain error codes, to
// HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:           http.StatusBadRequest,
	ErrCodeValidation:           http.StatusUnprocessableEntity,
	ErrCodeConfirmationRequired: http.StatusConflict,
	ErrCodeUnauthorized:         http.StatusUnauthorized,
	ErrCodeForbidden:            http.StatusForbidden,
	ErrCodeNotFound:             http.StatusNotFound,
	ErrCodeInternal:             http.StatusInternalServerError,

	"INVALID_INPUT":            http.StatusBadRequest,
	"INVALID_DATE":             http.StatusBadRequest,
	"INVALID_MONTH":            http.StatusBadRequest,
	"INVALID_QUANTITY":         http.StatusBadRequest,
	"INVALID_PRICE":            http.StatusBadRequest,
	"INVALID_TRANSACTION_TYPE": http.StatusBadRequest,
	"EMPTY_IMPORT":             http.StatusBadRequest,
	"MISSING_COLUMNS":          http.StatusBadRequest,

	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	"TOKEN_ERROR":         http.StatusUnauthorized,

	"ACCOUNT_LOCKED":      http.StatusForbidden,
	"ACCOUNT_DEACTIVATED": http.StatusForbidden,

	"ALREADY_EXISTS":        http.StatusConflict,
	"USERNAME_TAKEN":        http.StatusConflict,
	"WORKSHEET_EXISTS":      http.StatusConflict,
	"CONFIRMATION_MISMATCH": http.StatusConflict,

	"INVALID_STATE":       http.StatusUnprocessableEntity,
	"WORKSHEET_SAVED":     http.StatusUnprocessableEntity,
	"NO_ACTIVE_WORKSHEET": http.StatusUnprocessableEntity,
	"SELF_DEACTIVATION":   http.StatusUnprocessableEntity,
	"INVALID_PASSWORD":    http.StatusUnprocessableEntity,
}

// HTTPStatusFor returns the HTTP status code for an error code.
// Unknown codes map to 422, the catch-all for rejected business operations.
func HTTPStatusFor(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
