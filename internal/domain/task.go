package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used by startDate and dueDate.
const DateLayout = "2006-01-02"

// Status is the advisory progress marker of a task. The store never enforces it.
type Status string

const (
	StatusNone       Status = ""
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// KnownStatuses lists the status values offered to users, in display order.
var KnownStatuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// IsKnown reports whether s is empty or one of KnownStatuses.
func (s Status) IsKnown() bool {
	if s == StatusNone {
		return true
	}
	for _, known := range KnownStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// canonicalFields are the JSON members owned by Task. Anything else found in a
// stored record is carried in Task.Extra.
var canonicalFields = []string{
	"id",
	"title",
	"label",
	"description",
	"startDate",
	"dueDate",
	"status",
	"completed",
	"createdAt",
	"updatedAt",
}

// IsCanonicalField reports whether name is one of the Task schema members.
// The match ignores case because encoding/json binds struct fields that way,
// so "createdat" would otherwise shadow createdAt on the next read.
func IsCanonicalField(name string) bool {
	for _, field := range canonicalFields {
		if strings.EqualFold(name, field) {
			return true
		}
	}
	return false
}

// Fields holds JSON members outside the Task schema, keyed by member name.
type Fields map[string]json.RawMessage

// Set encodes v as JSON and stores it under key.
func (f Fields) Set(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode field %s: %w", key, err)
	}
	f[key] = raw
	return nil
}

// Clone returns an independent copy of f.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		cp := make(json.RawMessage, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

// Task represents a single to-do record as persisted in the document.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	Status      Status `json:"status,omitempty"`
	Completed   bool   `json:"completed"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`

	// Extra carries members written by other consumers of the document.
	Extra Fields `json:"-"`
}

type taskAlias Task

// MarshalJSON writes the schema members followed by any extra members.
func (t Task) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(taskAlias(t))
	if err != nil {
		return nil, err
	}
	if len(t.Extra) == 0 {
		return base, nil
	}

	merged := make(map[string]json.RawMessage, len(canonicalFields)+len(t.Extra))
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range t.Extra {
		if IsCanonicalField(k) {
			continue
		}
		merged[k] = v
	}
	return json.Marshal(merged)
}

// UnmarshalJSON reads the schema members and keeps the rest in Extra.
func (t *Task) UnmarshalJSON(data []byte) error {
	var alias taskAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}

	*t = Task(alias)
	for k, v := range members {
		if IsCanonicalField(k) {
			continue
		}
		if t.Extra == nil {
			t.Extra = make(Fields)
		}
		t.Extra[k] = v
	}
	return nil
}

// Clone returns a copy of t that shares no mutable state with it.
func (t Task) Clone() Task {
	t.Extra = t.Extra.Clone()
	return t
}

// DisplayTitle returns the title or a placeholder for untitled tasks.
func (t Task) DisplayTitle() string {
	if t.Title == "" {
		return "(untitled)"
	}
	return t.Title
}

// String returns the task title for display purposes.
func (t Task) String() string {
	return t.DisplayTitle()
}

// Created returns CreatedAt as a time value.
func (t Task) Created() time.Time {
	return time.UnixMilli(t.CreatedAt)
}

// Updated returns UpdatedAt as a time value.
func (t Task) Updated() time.Time {
	return time.UnixMilli(t.UpdatedAt)
}

// IsOverdue reports whether the task is open and its due date lies before today.
// Tasks without a parseable due date are never overdue.
func (t Task) IsOverdue(today time.Time) bool {
	if t.Completed || t.DueDate == "" {
		return false
	}
	due, err := ParseDate(t.DueDate)
	if err != nil {
		return false
	}
	y, m, d := today.Date()
	return due.Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD) in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// CloneTasks deep-copies a task slice. A nil input yields an empty slice.
func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
