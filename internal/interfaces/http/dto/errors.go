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

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the caller lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps standardized error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// DomainCodeHTTPStatus maps domain error codes to HTTP status codes.
// Domain codes are returned to clients verbatim; this table only resolves
// the status line so the API stays precise about what went wrong.
var DomainCodeHTTPStatus = map[string]int{
	// Sentinel errors from the domain layer
	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"INVALID_INPUT":        http.StatusBadRequest,
	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"UNAUTHORIZED":         http.StatusUnauthorized,
	"FORBIDDEN":            http.StatusForbidden,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Authentication
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,
	"ALREADY_ACTIVATED":   http.StatusConflict,

	// Lookups
	"CUSTOMER_NOT_FOUND":    http.StatusNotFound,
	"PRODUCT_NOT_FOUND":     http.StatusNotFound,
	"PRICE_ENTRY_NOT_FOUND": http.StatusNotFound,

	// Field validation
	"INVALID_EMAIL":           http.StatusBadRequest,
	"INVALID_NAME":            http.StatusBadRequest,
	"INVALID_PASSWORD":        http.StatusBadRequest,
	"INVALID_PART_NO":         http.StatusBadRequest,
	"INVALID_PRODUCT_NAME":    http.StatusBadRequest,
	"INVALID_UNIT":            http.StatusBadRequest,
	"INVALID_PRICE":           http.StatusBadRequest,
	"INVALID_QUANTITY":        http.StatusBadRequest,
	"INVALID_PRODUCT":         http.StatusBadRequest,
	"INVALID_CUSTOMER":        http.StatusBadRequest,
	"INVALID_ORDER_NO":        http.StatusBadRequest,
	"INVALID_PICKUP_LOCATION": http.StatusBadRequest,
	"INVALID_PHONE":           http.StatusBadRequest,

	// Business rules
	"PRODUCT_NOT_ORDERABLE":   http.StatusUnprocessableEntity,
	"PRODUCT_NOT_IN_CATALOG":  http.StatusUnprocessableEntity,
	"EMPTY_ORDER":             http.StatusUnprocessableEntity,
	"EMPTY_IMPORT":            http.StatusBadRequest,
	"INVALID_IMPORT":          http.StatusBadRequest,
	"ORDERING_NOT_ALLOWED":    http.StatusUnprocessableEntity,
	"ORDER_ALREADY_FULFILLED": http.StatusUnprocessableEntity,
	"ORDER_DELETED":           http.StatusUnprocessableEntity,

	// Concurrency
	"CONCURRENT_MODIFICATION": http.StatusConflict,
	"OPTIMISTIC_LOCK_FAILED":  http.StatusConflict,
	"VERSION_CONFLICT":        http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if status, ok := DomainCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
