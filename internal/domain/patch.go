package domain

// TaskInput is the caller-supplied data for a new task. Identity and
// timestamps are assigned by the store.
type TaskInput struct {
	Title       string
	Label       string
	Description string
	StartDate   string
	DueDate     string
	Status      Status
	Completed   bool
	Extra       Fields
}

// NewTaskInput creates an input carrying only a title.
func NewTaskInput(title string) TaskInput {
	return TaskInput{Title: title}
}

// Patch is a partial update. A nil field is left untouched; a non-nil field
// overwrites the stored value even when it points at "" or false.
// Id and createdAt have no field here and cannot be patched.
type Patch struct {
	Title       *string
	Label       *string
	Description *string
	StartDate   *string
	DueDate     *string
	Status      *Status
	Completed   *bool

	// Extra overlays non-schema members. Keys naming schema members are ignored.
	Extra Fields
}

// IsEmpty reports whether the patch changes nothing besides updatedAt.
func (p Patch) IsEmpty() bool {
	if p.Title != nil || p.Label != nil || p.Description != nil ||
		p.StartDate != nil || p.DueDate != nil || p.Status != nil || p.Completed != nil {
		return false
	}
	for k := range p.Extra {
		if !IsCanonicalField(k) {
			return false
		}
	}
	return true
}

// ApplyTo returns a copy of t with every set field of p overlaid.
// UpdatedAt is left for the caller to stamp.
func (p Patch) ApplyTo(t Task) Task {
	out := t.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Label != nil {
		out.Label = *p.Label
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.StartDate != nil {
		out.StartDate = *p.StartDate
	}
	if p.DueDate != nil {
		out.DueDate = *p.DueDate
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Completed != nil {
		out.Completed = *p.Completed
	}
	for k, v := range p.Extra {
		if IsCanonicalField(k) {
			continue
		}
		if out.Extra == nil {
			out.Extra = make(Fields)
		}
		out.Extra[k] = append([]byte(nil), v...)
	}
	return out
}

// String returns a pointer to s, for building patches.
func String(s string) *string { return &s }

// Bool returns a pointer to b, for building patches.
func Bool(b bool) *bool { return &b }

// StatusPtr returns a pointer to s, for building patches.
func StatusPtr(s Status) *Status { return &s }
