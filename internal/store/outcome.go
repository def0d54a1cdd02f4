package store

// Outcome reports what a mutating store call did to the persisted document.
type Outcome int

const (
	// Written means the document was replaced and listeners were notified.
	Written Outcome = iota
	// Unchanged means there was nothing to write (unknown id, nothing completed).
	Unchanged
	// Unavailable means the storage slot failed its probe; nothing was read or written.
	Unavailable
	// WriteFailed means the slot rejected the write; the previous document is intact.
	WriteFailed
)

// OK reports whether the document was written.
func (o Outcome) OK() bool {
	return o == Written
}

// String returns a short name for the outcome.
func (o Outcome) String() string {
	switch o {
	case Written:
		return "written"
	case Unchanged:
		return "unchanged"
	case Unavailable:
		return "unavailable"
	case WriteFailed:
		return "write_failed"
	default:
		return "unknown"
	}
}
