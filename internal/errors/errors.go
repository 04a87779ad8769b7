package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/portfolio-report/internal/types"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	// CategoryValidation represents caller contract violations (4xx)
	CategoryValidation ErrorCategory = "validation"
	// CategoryRendering represents broken layout invariants (5xx)
	CategoryRendering ErrorCategory = "rendering"
	// CategorySystem represents system errors (5xx)
	CategorySystem ErrorCategory = "system"
	// CategoryDatabase represents archive database errors
	CategoryDatabase ErrorCategory = "database"
	// CategoryCache represents document cache errors
	CategoryCache ErrorCategory = "cache"
	// CategoryNotFound represents not found errors
	CategoryNotFound ErrorCategory = "not_found"
	// CategoryRateLimit represents rate limit errors
	CategoryRateLimit ErrorCategory = "rate_limit"
)

// Error codes
const (
	CodeInvalidLanguage  = "INVALID_LANGUAGE"
	CodeInvalidCurrency  = "INVALID_CURRENCY"
	CodeNegativeQuantity = "NEGATIVE_QUANTITY"
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeLayoutOverflow   = "LAYOUT_OVERFLOW"
	CodeInternal         = "INTERNAL_ERROR"
	CodeDatabase         = "DATABASE_ERROR"
	CodeCache            = "CACHE_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeRateLimit        = "RATE_LIMIT_EXCEEDED"
)

// CategorizedError represents an error with category and HTTP status code
type CategorizedError struct {
	Category   ErrorCategory
	StatusCode int
	Code       string
	Message    string
	Details    map[string]interface{}
	Cause      error
}

// Error implements the error interface
func (e *CategorizedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *CategorizedError) Unwrap() error {
	return e.Cause
}

// ToServiceError converts to a ServiceError
func (e *CategorizedError) ToServiceError() *types.ServiceError {
	return &types.ServiceError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
}

// Input violations (4xx)

// NewInvalidLanguageError creates an error for a language outside the supported set
func NewInvalidLanguageError(language string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryValidation,
		StatusCode: http.StatusBadRequest,
		Code:       CodeInvalidLanguage,
		Message:    fmt.Sprintf("unsupported language: %q", language),
		Details: map[string]interface{}{
			"language":  language,
			"supported": types.Languages,
		},
	}
}

// NewInvalidCurrencyError creates an error for a currency outside the supported set
func NewInvalidCurrencyError(currency string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryValidation,
		StatusCode: http.StatusBadRequest,
		Code:       CodeInvalidCurrency,
		Message:    fmt.Sprintf("unsupported currency: %q", currency),
		Details: map[string]interface{}{
			"currency":  currency,
			"supported": types.Currencies,
		},
	}
}

// NewNegativeQuantityError creates an error for a holding with a negative quantity
func NewNegativeQuantityError(index int, assetKey string, quantity string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryValidation,
		StatusCode: http.StatusBadRequest,
		Code:       CodeNegativeQuantity,
		Message:    fmt.Sprintf("holding %d (%s) has negative quantity %s", index, assetKey, quantity),
		Details: map[string]interface{}{
			"index":    index,
			"assetKey": assetKey,
			"quantity": quantity,
		},
	}
}

// NewInvalidParameterError creates an invalid parameter error
func NewInvalidParameterError(param string, reason string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryValidation,
		StatusCode: http.StatusBadRequest,
		Code:       CodeInvalidParameter,
		Message:    fmt.Sprintf("invalid parameter '%s': %s", param, reason),
		Details: map[string]interface{}{
			"parameter": param,
			"reason":    reason,
		},
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string, id string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryNotFound,
		StatusCode: http.StatusNotFound,
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found: %s", resource, id),
		Details: map[string]interface{}{
			"resource": resource,
			"id":       id,
		},
	}
}

// NewRateLimitError creates a rate limit error
func NewRateLimitError(limit float64) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryRateLimit,
		StatusCode: http.StatusTooManyRequests,
		Code:       CodeRateLimit,
		Message:    "rate limit exceeded",
		Details: map[string]interface{}{
			"limit": limit,
		},
	}
}

// System errors (5xx)

// NewLayoutOverflowError creates an error for a content block that cannot fit on an empty page.
// Geometry constants make this unreachable in practice; it stops an endless page-break loop.
func NewLayoutOverflowError(blockHeight, capacity float64) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryRendering,
		StatusCode: http.StatusInternalServerError,
		Code:       CodeLayoutOverflow,
		Message:    fmt.Sprintf("content block of %.2f exceeds page body capacity %.2f", blockHeight, capacity),
		Details: map[string]interface{}{
			"blockHeight": blockHeight,
			"capacity":    capacity,
		},
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategorySystem,
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternal,
		Message:    message,
		Cause:      cause,
	}
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryDatabase,
		StatusCode: http.StatusInternalServerError,
		Code:       CodeDatabase,
		Message:    fmt.Sprintf("database error during %s", operation),
		Cause:      cause,
		Details: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewCacheError creates a cache error
func NewCacheError(operation string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryCache,
		StatusCode: http.StatusInternalServerError,
		Code:       CodeCache,
		Message:    fmt.Sprintf("cache error during %s", operation),
		Cause:      cause,
		Details: map[string]interface{}{
			"operation": operation,
		},
	}
}

// Categorize categorizes an existing error
func Categorize(err error) *CategorizedError {
	if err == nil {
		return nil
	}

	// If already categorized, return as-is
	var catErr *CategorizedError
	if As(err, &catErr) {
		return catErr
	}

	// If it's a ServiceError, convert it
	var svcErr *types.ServiceError
	if As(err, &svcErr) {
		return categorizeServiceError(svcErr)
	}

	// Default to internal error
	return NewInternalError("unexpected error", err)
}

// categorizeServiceError categorizes a ServiceError
func categorizeServiceError(err *types.ServiceError) *CategorizedError {
	out := &CategorizedError{
		Category:   CategorySystem,
		StatusCode: http.StatusInternalServerError,
		Code:       err.Code,
		Message:    err.Message,
		Details:    err.Details,
	}
	switch err.Code {
	case CodeInvalidLanguage, CodeInvalidCurrency, CodeNegativeQuantity, CodeInvalidParameter:
		out.Category = CategoryValidation
		out.StatusCode = http.StatusBadRequest
	case CodeNotFound:
		out.Category = CategoryNotFound
		out.StatusCode = http.StatusNotFound
	case CodeRateLimit:
		out.Category = CategoryRateLimit
		out.StatusCode = http.StatusTooManyRequests
	}
	return out
}

// GetHTTPStatusCode returns the HTTP status code for an error
func GetHTTPStatusCode(err error) int {
	if catErr := Categorize(err); catErr != nil {
		return catErr.StatusCode
	}
	return http.StatusInternalServerError
}

// IsRetryable determines if an error is retryable
func IsRetryable(err error) bool {
	catErr := Categorize(err)
	if catErr == nil {
		return false
	}

	switch catErr.Category {
	case CategoryDatabase, CategoryCache:
		return true
	default:
		return false
	}
}

// IsUserError determines if an error is a user error (4xx)
func IsUserError(err error) bool {
	catErr := Categorize(err)
	if catErr == nil {
		return false
	}

	return catErr.StatusCode >= 400 && catErr.StatusCode < 500
}

// IsInputViolation reports whether the error rejects the caller's input
func IsInputViolation(err error) bool {
	catErr := Categorize(err)
	return catErr != nil && catErr.Category == CategoryValidation
}

// As is errors.As re-exported so callers need not import both packages
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Is is errors.Is re-exported
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// HasCode reports whether err is a categorized error carrying code
func HasCode(err error, code string) bool {
	var catErr *CategorizedError
	return As(err, &catErr) && catErr.Code == code
}
