package validation

import (
	"strings"

	"todo-store/internal/config"
	"todo-store/internal/domain"
)

const (
	fieldID        = "id"
	fieldTitle     = "title"
	fieldStartDate = "start_date"
	fieldDueDate   = "due_date"
	fieldStatus    = "status"
)

// TaskValidator checks user input before it reaches the store. The store
// itself accepts any record.
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a task validator with default limits
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{validator: NewValidator()}
}

// NewTaskValidatorWithConfig creates a task validator using the configured limits
func NewTaskValidatorWithConfig(cfg *config.Config) *TaskValidator {
	return &TaskValidator{validator: NewValidatorWithConfig(cfg)}
}

// ValidateInput validates the fields of a new task
func (tv *TaskValidator) ValidateInput(in domain.TaskInput) error {
	ve := NewValidationError()
	tv.checkTitle(ve, in.Title)
	tv.checkDate(ve, fieldStartDate, in.StartDate)
	tv.checkDate(ve, fieldDueDate, in.DueDate)
	tv.checkStatus(ve, in.Status)
	tv.checkRange(ve, in.StartDate, in.DueDate)
	return ve.orNil()
}

// ValidatePatch validates the fields a patch sets. When current is given the
// date range is checked against the merged result, but only if the patch
// touches a date.
func (tv *TaskValidator) ValidatePatch(current *domain.Task, p domain.Patch) error {
	ve := NewValidationError()
	if p.Title != nil {
		tv.checkTitle(ve, *p.Title)
	}
	if p.StartDate != nil {
		tv.checkDate(ve, fieldStartDate, *p.StartDate)
	}
	if p.DueDate != nil {
		tv.checkDate(ve, fieldDueDate, *p.DueDate)
	}
	if p.Status != nil {
		tv.checkStatus(ve, *p.Status)
	}
	if current != nil && (p.StartDate != nil || p.DueDate != nil) {
		merged := p.ApplyTo(*current)
		tv.checkRange(ve, merged.StartDate, merged.DueDate)
	}
	return ve.orNil()
}

// ValidateTask validates a complete record, as found in an imported document
func (tv *TaskValidator) ValidateTask(task domain.Task) error {
	ve := NewValidationError()
	if !tv.validator.IsNonEmptyString(task.ID) {
		ve.AddRequiredError(fieldID)
	}
	tv.checkTitle(ve, task.Title)
	tv.checkDate(ve, fieldStartDate, task.StartDate)
	tv.checkDate(ve, fieldDueDate, task.DueDate)
	tv.checkStatus(ve, task.Status)
	tv.checkRange(ve, task.StartDate, task.DueDate)
	return ve.orNil()
}

// ValidateTaskID rejects blank ids
func (tv *TaskValidator) ValidateTaskID(id string) error {
	if tv.validator.IsNonEmptyString(id) {
		return nil
	}
	ve := NewValidationError()
	ve.AddRequiredError(fieldID)
	return ve
}

func (tv *TaskValidator) checkTitle(ve *ValidationError, title string) {
	if !tv.validator.IsValidTitleLength(title) {
		ve.AddTooLongError(fieldTitle, title, tv.validator.TitleMaxLength())
	}
}

func (tv *TaskValidator) checkDate(ve *ValidationError, field, value string) {
	if !tv.validator.IsValidDate(value) {
		ve.AddInvalidFormatError(field, value, "YYYY-MM-DD")
	}
}

func (tv *TaskValidator) checkStatus(ve *ValidationError, status domain.Status) {
	if tv.validator.IsValidStatus(status) {
		return
	}
	names := make([]string, len(domain.KnownStatuses))
	for i, s := range domain.KnownStatuses {
		names[i] = string(s)
	}
	ve.AddInvalidValueError(fieldStatus, status, "must be one of "+strings.Join(names, ", "))
}

func (tv *TaskValidator) checkRange(ve *ValidationError, start, due string) {
	if !tv.validator.IsValidDateRange(start, due) {
		ve.AddInvalidRangeError(fieldDueDate, due, "due date is before start date "+start)
	}
}
