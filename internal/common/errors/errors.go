// Package errors provides standardized error handling for the truth engine jobs.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeContributionValidationFailed ErrorCode = "CONTRIBUTION_VALIDATION_FAILED"
	ErrCodeDuplicateContribution        ErrorCode = "DUPLICATE_CONTRIBUTION"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeAggregateWriteFailed     ErrorCode = "AGGREGATE_WRITE_FAILED"
	ErrCodePropertyNotFound         ErrorCode = "PROPERTY_NOT_FOUND"

	ErrCodeSearchIndexFailed ErrorCode = "SEARCH_INDEX_FAILED"

	ErrCodeEmbeddingAPIFailed  ErrorCode = "EMBEDDING_API_FAILED"
	ErrCodeEmbeddingAPITimeout ErrorCode = "EMBEDDING_API_TIMEOUT"
	ErrCodeEmbeddingDimension  ErrorCode = "EMBEDDING_DIMENSION_MISMATCH"

	ErrCodeTasteVectorWriteFailed ErrorCode = "TASTE_VECTOR_WRITE_FAILED"
	ErrCodeUserNotFound           ErrorCode = "USER_NOT_FOUND"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewContributionValidationFailedError creates a non-retryable validation error.
func NewContributionValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeContributionValidationFailed,
		Message:   "Contribution payload validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateContributionError creates a non-retryable duplicate error.
func NewDuplicateContributionError(bookingID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateContribution,
		Message:   "A contribution already exists for this booking",
		Details:   fmt.Sprintf("bookingId: %s", bookingID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAggregateWriteFailedError creates a retryable aggregate persistence error.
// The aggregate update is a single statement, so a failure never leaves a
// half-written score.
func NewAggregateWriteFailedError(propertyID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAggregateWriteFailed,
		Message:   "Property aggregate write failed",
		Details:   fmt.Sprintf("propertyId: %s, error: %s", propertyID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPropertyNotFoundError creates a non-retryable missing property error.
func NewPropertyNotFoundError(propertyID string) *StandardError {
	return &StandardError{
		Code:      ErrCodePropertyNotFound,
		Message:   "Property record not found",
		Details:   fmt.Sprintf("propertyId: %s", propertyID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchIndexFailedError creates a retryable search index error.
func NewSearchIndexFailedError(propertyID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchIndexFailed,
		Message:   "Search index publish failed",
		Details:   fmt.Sprintf("propertyId: %s, error: %s", propertyID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmbeddingAPIFailedError creates a retryable embedding provider error.
func NewEmbeddingAPIFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmbeddingAPIFailed,
		Message:   "Embedding provider API error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmbeddingAPITimeoutError creates a retryable embedding provider timeout error.
func NewEmbeddingAPITimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmbeddingAPITimeout,
		Message:   "Embedding provider API timeout",
		Details:   "API call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmbeddingDimensionError creates a non-retryable dimension mismatch error.
func NewEmbeddingDimensionError(want, got int) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmbeddingDimension,
		Message:   "Embedding dimensionality mismatch",
		Details:   fmt.Sprintf("want: %d, got: %d", want, got),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTasteVectorWriteFailedError creates a retryable taste vector persistence
// error. The overwrite is a single statement, so the prior vector survives.
func NewTasteVectorWriteFailedError(userID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTasteVectorWriteFailed,
		Message:   "User taste vector write failed",
		Details:   fmt.Sprintf("userId: %s, error: %s", userID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUserNotFoundError creates a non-retryable missing user error.
func NewUserNotFoundError(userID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUserNotFound,
		Message:   "User record not found",
		Details:   fmt.Sprintf("userId: %s", userID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Retry Policy
// ==========================

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeAggregateWriteFailed,
		ErrCodeTasteVectorWriteFailed,
		ErrCodeSearchIndexFailed,
		ErrCodeEmbeddingAPIFailed:
		return 3 // Retryable technical errors

	case ErrCodeEmbeddingAPITimeout:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Business errors: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CONTRIBUTION"):
		return "CONTRIBUTION"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY") || strings.Contains(codeStr, "AGGREGATE"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "EMBEDDING"):
		return "EMBEDDING"
	case strings.Contains(codeStr, "TASTE") || strings.Contains(codeStr, "USER"):
		return "PERSONALIZATION"
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
