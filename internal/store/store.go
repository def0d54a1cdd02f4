// Package store implements the task store: synchronous CRUD over one JSON
// document kept in a storage slot, with change notification.
//
// The store caches nothing. Every call re-reads the document, works on a copy,
// and writes the whole document back. Storage faults never surface as errors:
// reads degrade to an empty collection and writes report an Outcome. The only
// error returned to callers is an invalid argument to SaveAll.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"todo-store/internal/document"
	"todo-store/internal/domain"
	"todo-store/internal/errors"
	"todo-store/internal/logging"
	"todo-store/internal/storage"
)

// maxIDAttempts bounds id regeneration when a generated id is already taken.
const maxIDAttempts = 8

// Clock returns the current time.
type Clock func() time.Time

// Store is the task store. Construct one per process with New and share it.
type Store struct {
	slot   storage.Slot
	key    string
	logger *log.Logger
	now    Clock
	newID  IDGenerator

	// writeMu serializes read-modify-write cycles of this instance. Other
	// processes sharing the slot are not coordinated: last writer wins.
	writeMu sync.Mutex
	changes *broadcaster
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for storage faults and broadcasts.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces time.Now, for deterministic timestamps.
func WithClock(clock Clock) Option {
	return func(s *Store) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator replaces the default short id generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithKey stores the document under key instead of storage.DocumentKey.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// New creates a store over slot.
func New(slot storage.Slot, opts ...Option) *Store {
	s := &Store{
		slot:   slot,
		key:    storage.DocumentKey,
		logger: logging.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.newID == nil {
		gen, err := NewShortIDGenerator(s.now)
		if err != nil {
			// only reachable with an invalid alphabet constant
			s.logger.Error("short id generator unavailable, using uuid", "err", err)
			gen = UUIDGenerator
		}
		s.newID = gen
	}
	s.changes = newBroadcaster(s.logger)
	return s
}

// Key returns the slot key holding the document.
func (s *Store) Key() string {
	return s.key
}

// Backend returns the name of the storage slot backend.
func (s *Store) Backend() string {
	if s.slot == nil {
		return "none"
	}
	return s.slot.Name()
}

// Subscribe registers fn for change broadcasts and returns a function that
// removes it. Calling the returned function more than once is harmless.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	return s.changes.subscribe(fn)
}

// Listeners returns the number of registered listeners.
func (s *Store) Listeners() int {
	return s.changes.count()
}

// IsAvailable probes the slot with a throwaway write and delete.
func (s *Store) IsAvailable(ctx context.Context) bool {
	return s.probe(ctx, "probe") == nil
}

// Load returns the collection in storage order, or an error explaining why it
// could not be read: StorageUnavailable or CorruptDocument. The slice is never nil.
// A missing document is an empty collection, not an error. Corrupt documents
// and skipped records are logged.
func (s *Store) Load(ctx context.Context) ([]domain.Task, error) {
	return s.load(ctx, "read")
}

// GetAll returns the collection in storage order. Callers sort as they need.
// Unavailable storage or a corrupt document yields an empty collection.
func (s *Store) GetAll(ctx context.Context) []domain.Task {
	tasks, _ := s.load(ctx, "read")
	return tasks
}

// SaveAll replaces the whole collection. A nil slice or duplicate ids are a
// caller error; storage faults are reported through the Outcome only.
func (s *Store) SaveAll(ctx context.Context, tasks []domain.Task) (Outcome, error) {
	if tasks == nil {
		return Unchanged, errors.NewInvalidArgumentError("tasks", "expected a task slice, got nil")
	}
	seen := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		if _, dup := seen[t.ID]; dup {
			return Unchanged, errors.NewInvalidArgumentError("tasks", "duplicate task id "+t.ID).
				WithContext("id", t.ID)
		}
		seen[t.ID] = struct{}{}
	}

	s.writeMu.Lock()
	outcome := s.write(ctx, "save", tasks)
	s.writeMu.Unlock()

	s.notify(outcome, tasks)
	return outcome, nil
}

// Add creates a task from in and appends it to the collection.
// The returned task is valid even when the outcome is not Written; callers
// that need persistence check the outcome or IsAvailable first.
func (s *Store) Add(ctx context.Context, in domain.TaskInput) (domain.Task, Outcome) {
	s.writeMu.Lock()

	tasks, err := s.load(ctx, "add")

	now := s.now().UnixMilli()
	task := domain.Task{
		ID:          s.uniqueID(tasks),
		Title:       in.Title,
		Label:       in.Label,
		Description: in.Description,
		StartDate:   in.StartDate,
		DueDate:     in.DueDate,
		Status:      in.Status,
		Completed:   in.Completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for k, v := range in.Extra {
		if domain.IsCanonicalField(k) {
			continue
		}
		if task.Extra == nil {
			task.Extra = make(domain.Fields)
		}
		task.Extra[k] = append([]byte(nil), v...)
	}

	if errors.IsErrorType(err, errors.ErrorTypeStorageUnavailable) {
		s.writeMu.Unlock()
		return task, Unavailable
	}

	tasks = append(tasks, task)
	outcome := s.write(ctx, "add", tasks)
	s.writeMu.Unlock()

	s.notify(outcome, tasks)
	return task.Clone(), outcome
}

// Update overlays p onto the task with the given id, keeping its position.
// It returns nil when id is empty or no such task exists. UpdatedAt is always
// restamped and never moves backwards.
func (s *Store) Update(ctx context.Context, id string, p domain.Patch) (*domain.Task, Outcome) {
	if id == "" {
		return nil, Unchanged
	}

	s.writeMu.Lock()

	tasks, err := s.load(ctx, "update")
	if errors.IsErrorType(err, errors.ErrorTypeStorageUnavailable) {
		s.writeMu.Unlock()
		return nil, Unavailable
	}

	idx := indexOf(tasks, id)
	if idx < 0 {
		s.writeMu.Unlock()
		return nil, Unchanged
	}

	old := tasks[idx]
	updated := p.ApplyTo(old)
	updated.ID = old.ID
	updated.CreatedAt = old.CreatedAt
	updated.UpdatedAt = maxInt64(s.now().UnixMilli(), old.UpdatedAt, old.CreatedAt)
	tasks[idx] = updated

	outcome := s.write(ctx, "update", tasks)
	s.writeMu.Unlock()

	s.notify(outcome, tasks)
	result := updated.Clone()
	return &result, outcome
}

// Remove deletes the task with the given id. It reports whether a task was
// removed; the document is only written when one was.
func (s *Store) Remove(ctx context.Context, id string) (bool, Outcome) {
	if id == "" {
		return false, Unchanged
	}

	s.writeMu.Lock()

	tasks, err := s.load(ctx, "remove")
	if errors.IsErrorType(err, errors.ErrorTypeStorageUnavailable) {
		s.writeMu.Unlock()
		return false, Unavailable
	}

	kept := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tasks) {
		s.writeMu.Unlock()
		return false, Unchanged
	}

	outcome := s.write(ctx, "remove", kept)
	s.writeMu.Unlock()

	s.notify(outcome, kept)
	return true, outcome
}

// ClearCompleted removes every completed task and returns how many it removed.
func (s *Store) ClearCompleted(ctx context.Context) (int, Outcome) {
	s.writeMu.Lock()

	tasks, err := s.load(ctx, "clear_completed")
	if errors.IsErrorType(err, errors.ErrorTypeStorageUnavailable) {
		s.writeMu.Unlock()
		return 0, Unavailable
	}

	kept := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	removed := len(tasks) - len(kept)
	if removed == 0 {
		s.writeMu.Unlock()
		return 0, Unchanged
	}

	outcome := s.write(ctx, "clear_completed", kept)
	s.writeMu.Unlock()

	s.notify(outcome, kept)
	return removed, outcome
}

// ClearAll deletes the document itself and broadcasts an empty collection.
func (s *Store) ClearAll(ctx context.Context) Outcome {
	s.writeMu.Lock()

	if err := s.probe(ctx, "clear_all"); err != nil {
		s.writeMu.Unlock()
		return Unavailable
	}

	outcome := Written
	if err := s.slot.Remove(ctx, s.key); err != nil {
		s.logger.Error("failed to clear tasks", "op", "clear_all", "key", s.key,
			"err", errors.NewWriteFailureError("clear_all", err))
		outcome = WriteFailed
	}
	s.writeMu.Unlock()

	s.notify(outcome, []domain.Task{})
	return outcome
}

// Find returns the task with the given id, or nil.
func (s *Store) Find(ctx context.Context, id string) *domain.Task {
	if id == "" {
		return nil
	}
	tasks := s.GetAll(ctx)
	if idx := indexOf(tasks, id); idx >= 0 {
		found := tasks[idx]
		return &found
	}
	return nil
}

// Count returns the size of the stored collection.
func (s *Store) Count(ctx context.Context) int {
	return len(s.GetAll(ctx))
}

func (s *Store) probe(ctx context.Context, op string) error {
	if err := storage.Probe(ctx, s.slot); err != nil {
		s.logger.Debug("storage unavailable", "op", op, "backend", s.Backend(), "err", err)
		return errors.NewStorageUnavailableError(s.Backend(), err)
	}
	return nil
}

// write must be called with writeMu held.
func (s *Store) write(ctx context.Context, op string, tasks []domain.Task) Outcome {
	if err := s.probe(ctx, op); err != nil {
		return Unavailable
	}

	raw, err := document.Encode(tasks)
	if err != nil {
		s.logger.Error("failed to encode tasks", "op", op, "key", s.key, "err", err)
		return WriteFailed
	}

	if err := s.slot.Set(ctx, s.key, raw); err != nil {
		s.logger.Error("failed to write tasks to storage", "op", op, "key", s.key,
			"err", errors.NewWriteFailureError(op, err))
		return WriteFailed
	}
	return Written
}

// notify broadcasts after a successful write. It runs without writeMu so
// listeners can call back into the store.
func (s *Store) notify(outcome Outcome, tasks []domain.Task) {
	if outcome != Written {
		return
	}
	s.changes.publish(tasks)
}

func (s *Store) load(ctx context.Context, op string) ([]domain.Task, error) {
	if err := s.probe(ctx, op); err != nil {
		return []domain.Task{}, err
	}

	raw, found, err := s.slot.Get(ctx, s.key)
	if err != nil {
		return []domain.Task{}, errors.NewStorageUnavailableError(s.Backend(), err)
	}
	if !found || raw == "" {
		return []domain.Task{}, nil
	}

	tasks, skipped, err := document.Decode(raw)
	if err != nil {
		corrupt := errors.NewCorruptDocumentError(s.key, err)
		s.logger.Error("failed to read tasks from storage", "op", op, "key", s.key, "err", corrupt)
		return []domain.Task{}, corrupt
	}
	for _, rec := range skipped {
		s.logger.Warn("skipped unreadable task record", "op", op, "key", s.key, "index", rec.Index, "err", rec.Err)
	}
	return tasks, nil
}

func (s *Store) uniqueID(tasks []domain.Task) string {
	id := s.newID()
	for attempt := 1; attempt < maxIDAttempts && indexOf(tasks, id) >= 0; attempt++ {
		id = s.newID()
	}
	if indexOf(tasks, id) >= 0 {
		id = UUIDGenerator()
	}
	return id
}

func indexOf(tasks []domain.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func maxInt64(first int64, rest ...int64) int64 {
	m := first
	for _, v := range rest {
		if v > m {
			m = v
		}
	}
	return m
}
