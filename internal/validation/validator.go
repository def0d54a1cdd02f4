package validation

import (
	"strings"
	"time"
	"unicode/utf8"

	"todo-store/internal/config"
	"todo-store/internal/domain"
)

const defaultTitleMaxLength = 255

// Validator provides field-level checks
type Validator struct {
	config *config.Config
}

// NewValidator creates a validator with default limits
func NewValidator() *Validator {
	return &Validator{}
}

// NewValidatorWithConfig creates a validator using the configured limits
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{config: cfg}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidTitleLength counts characters, not bytes. An empty title is allowed.
func (v *Validator) IsValidTitleLength(title string) bool {
	return utf8.RuneCountInString(title) <= v.TitleMaxLength()
}

// IsValidDate accepts an empty string or a calendar date in YYYY-MM-DD form
func (v *Validator) IsValidDate(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse(domain.DateLayout, s)
	return err == nil
}

// IsValidStatus accepts an empty status or one of the known values
func (v *Validator) IsValidStatus(s domain.Status) bool {
	return s.IsKnown()
}

// IsValidDateRange reports whether due is not before start. Either may be empty.
func (v *Validator) IsValidDateRange(start, due string) bool {
	if start == "" || due == "" {
		return true
	}
	s, err1 := time.Parse(domain.DateLayout, start)
	d, err2 := time.Parse(domain.DateLayout, due)
	if err1 != nil || err2 != nil {
		return true // reported as format errors instead
	}
	return !d.Before(s)
}

// TitleMaxLength returns the configured maximum title length or the default
func (v *Validator) TitleMaxLength() int {
	if v.config != nil && v.config.Validation.TitleMaxLength > 0 {
		return v.config.Validation.TitleMaxLength
	}
	return defaultTitleMaxLength
}
