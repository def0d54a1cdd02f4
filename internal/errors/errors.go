package errors

import (
	"errors"
	"fmt"
)

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    "VALIDATION_FAILED",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    "NOT_FOUND",
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewStorageUnavailableError reports a storage slot that refused the probe write
func NewStorageUnavailableError(backend string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeStorageUnavailable,
		Message: fmt.Sprintf("storage slot unavailable: %s", backend),
		Code:    "STORAGE_UNAVAILABLE",
		Cause:   cause,
		Context: map[string]interface{}{
			"backend": backend,
		},
	}
}

// NewCorruptDocumentError reports a stored document that cannot be decoded
func NewCorruptDocumentError(key string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeCorruptDocument,
		Message: fmt.Sprintf("stored document is corrupt: %s", key),
		Code:    "CORRUPT_DOCUMENT",
		Cause:   cause,
		Context: map[string]interface{}{
			"key": key,
		},
	}
}

// NewWriteFailureError reports a write rejected by the storage slot
func NewWriteFailureError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeWriteFailure,
		Message: fmt.Sprintf("storage write failed: %s", operation),
		Code:    "WRITE_FAILED",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewInvalidArgumentError creates a new invalid argument error
func NewInvalidArgumentError(argument string, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidArgument,
		Message: fmt.Sprintf("invalid argument %s: %s", argument, reason),
		Code:    "INVALID_ARGUMENT",
		Context: map[string]interface{}{
			"argument": argument,
			"reason":   reason,
		},
	}
}

// NewDatabaseError creates a new database error
func NewDatabaseError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeDatabase,
		Message: fmt.Sprintf("database operation failed: %s", operation),
		Code:    "DATABASE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewConfigError creates a new configuration error
func NewConfigError(field string, message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: fmt.Sprintf("%s: %s", field, message),
		Code:    "CONFIG_INVALID",
		Context: map[string]interface{}{
			"field": field,
		},
	}
}

// WrapError wraps an existing error with additional context
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Code:    errorType.String(),
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// GetUserMessage returns a user-friendly error message
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidArgument, ErrorTypeConfig:
			return appErr.Message
		case ErrorTypeStorageUnavailable:
			return "Task storage is not available."
		case ErrorTypeCorruptDocument:
			return "Stored tasks could not be read and were ignored."
		case ErrorTypeWriteFailure, ErrorTypeDatabase:
			return "Tasks could not be saved. Please try again."
		default:
			return "An unexpected error occurred. Please try again."
		}
	}
	return err.Error()
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidArgument, ErrorTypeConfig:
			return false // caller mistakes, not environment faults
		default:
			return true
		}
	}
	return true
}
