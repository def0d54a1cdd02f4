package validation

import (
	"fmt"
	"strings"

	apperrors "todo-store/internal/errors"
)

// ValidationErrorType represents the type of validation error
type ValidationErrorType string

const (
	ErrorTypeRequired      ValidationErrorType = "required"
	ErrorTypeInvalidFormat ValidationErrorType = "invalid_format"
	ErrorTypeInvalidLength ValidationErrorType = "invalid_length"
	ErrorTypeInvalidValue  ValidationErrorType = "invalid_value"
	ErrorTypeInvalidRange  ValidationErrorType = "invalid_range"
)

// FieldError is a single problem with one task field
type FieldError struct {
	Field   string
	Type    ValidationErrorType
	Message string
	Value   interface{}
}

func (fe *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", fe.Field, fe.Message)
}

// ValidationError collects every field problem found in one input
type ValidationError struct {
	Errors []FieldError
}

// NewValidationError creates an empty ValidationError
func NewValidationError() *ValidationError {
	return &ValidationError{Errors: make([]FieldError, 0)}
}

func (ve *ValidationError) Error() string {
	switch len(ve.Errors) {
	case 0:
		return "validation error"
	case 1:
		return ve.Errors[0].Error()
	}

	messages := make([]string, 0, len(ve.Errors))
	for i := range ve.Errors {
		messages = append(messages, ve.Errors[i].Error())
	}
	return fmt.Sprintf("multiple validation errors: %s", strings.Join(messages, "; "))
}

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

// HasErrors returns true if any field error was recorded
func (ve *ValidationError) HasErrors() bool {
	return len(ve.Errors) > 0
}

// AddError records a field error
func (ve *ValidationError) AddError(field string, errorType ValidationErrorType, message string, value interface{}) {
	ve.Errors = append(ve.Errors, FieldError{
		Field:   field,
		Type:    errorType,
		Message: message,
		Value:   value,
	})
}

// AddRequiredError records a missing required field
func (ve *ValidationError) AddRequiredError(field string) {
	ve.AddError(field, ErrorTypeRequired, fmt.Sprintf("%s is required", field), nil)
}

// AddInvalidFormatError records a value that does not match expectedFormat
func (ve *ValidationError) AddInvalidFormatError(field string, value interface{}, expectedFormat string) {
	ve.AddError(field, ErrorTypeInvalidFormat,
		fmt.Sprintf("%s has invalid format, expected %s", field, expectedFormat), value)
}

// AddTooLongError records a value longer than max characters
func (ve *ValidationError) AddTooLongError(field string, value interface{}, max int) {
	ve.AddError(field, ErrorTypeInvalidLength,
		fmt.Sprintf("%s must be at most %d characters long", field, max), value)
}

// AddInvalidValueError records a value outside the allowed set
func (ve *ValidationError) AddInvalidValueError(field string, value interface{}, reason string) {
	ve.AddError(field, ErrorTypeInvalidValue, fmt.Sprintf("%s has invalid value: %s", field, reason), value)
}

// AddInvalidRangeError records two fields that contradict each other
func (ve *ValidationError) AddInvalidRangeError(field string, value interface{}, reason string) {
	ve.AddError(field, ErrorTypeInvalidRange, fmt.Sprintf("%s has invalid range: %s", field, reason), value)
}

// Merge appends the field errors of other, if it is a ValidationError
func (ve *ValidationError) Merge(other error) {
	if o, ok := other.(*ValidationError); ok {
		ve.Errors = append(ve.Errors, o.Errors...)
	}
}

// GetFieldErrors returns all errors for a specific field
func (ve *ValidationError) GetFieldErrors(field string) []FieldError {
	var fieldErrors []FieldError
	for _, err := range ve.Errors {
		if err.Field == field {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

// GetUserFriendlyMessage returns the messages one per line
func (ve *ValidationError) GetUserFriendlyMessage() string {
	if len(ve.Errors) == 0 {
		return "Input validation failed"
	}
	if len(ve.Errors) == 1 {
		return ve.Errors[0].Message
	}

	lines := make([]string, 0, len(ve.Errors))
	for _, err := range ve.Errors {
		lines = append(lines, "- "+err.Message)
	}
	return "Multiple validation errors occurred:\n" + strings.Join(lines, "\n")
}

// AsAppError wraps the collected errors in a validation AppError so the CLI
// error handler can render it.
func (ve *ValidationError) AsAppError() *apperrors.AppError {
	appErr := apperrors.NewValidationError(ve.GetUserFriendlyMessage(), ve)
	for _, fe := range ve.Errors {
		appErr.WithContext(fe.Field, fe.Value)
	}
	return appErr
}

// orNil returns nil when no errors were recorded, so callers can return it directly.
func (ve *ValidationError) orNil() error {
	if ve.HasErrors() {
		return ve
	}
	return nil
}
