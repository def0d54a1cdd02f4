package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"todo-store/internal/config"
	"todo-store/internal/domain"
	"todo-store/internal/errors"
	"todo-store/internal/store"
	"todo-store/internal/validation"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// App holds what every command handler needs
type App struct {
	store      *store.Store
	config     *config.Config
	validator  *validation.TaskValidator
	errHandler *ErrorHandler
	out        io.Writer
	jsonOutput bool
}

// AppOption configures an App
type AppOption func(*App)

// WithOutput sends command output to w instead of stdout
func WithOutput(w io.Writer) AppOption {
	return func(a *App) {
		if w != nil {
			a.out = w
		}
	}
}

// WithJSON makes commands print records as JSON
func WithJSON(enabled bool) AppOption {
	return func(a *App) {
		a.jsonOutput = enabled
	}
}

// NewApp creates a CLI application around an existing store. A nil cfg uses defaults.
func NewApp(s *store.Store, cfg *config.Config, opts ...AppOption) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	app := &App{
		store:      s,
		config:     cfg,
		validator:  validation.NewTaskValidatorWithConfig(cfg),
		errHandler: NewErrorHandler(),
		out:        os.Stdout,
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Store returns the task store the app operates on
func (a *App) Store() *store.Store {
	return a.store
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

// changeWatcher records the latest broadcast while a mutating command runs.
type changeWatcher struct {
	unsubscribe func()
	last        []domain.Task
	seen        bool
}

// watchChanges subscribes to the store for the duration of one command.
func (a *App) watchChanges() *changeWatcher {
	w := &changeWatcher{}
	w.unsubscribe = a.store.Subscribe(func(tasks []domain.Task) {
		w.last = tasks
		w.seen = true
	})
	return w
}

// report stops watching and prints a one-line summary of the last broadcast.
func (a *App) report(w *changeWatcher) {
	w.unsubscribe()
	if !w.seen || a.jsonOutput {
		return
	}
	a.printf("%s\n", summarize(w.last))
}

// outcomeError turns a failed store outcome into an error for the user.
func (a *App) outcomeError(op string, outcome store.Outcome) error {
	switch outcome {
	case store.Unavailable:
		return errors.NewStorageUnavailableError(a.store.Backend(), nil)
	case store.WriteFailed:
		return errors.NewWriteFailureError(op, nil)
	default:
		return nil
	}
}

// findTask returns the task or a not-found error.
func (a *App) findTask(ctx context.Context, id string) (*domain.Task, error) {
	if err := a.validator.ValidateTaskID(id); err != nil {
		return nil, err
	}
	task := a.store.Find(ctx, id)
	if task == nil {
		if !a.store.IsAvailable(ctx) {
			return nil, errors.NewStorageUnavailableError(a.store.Backend(), nil)
		}
		return nil, errors.NewNotFoundError("task", id)
	}
	return task, nil
}
