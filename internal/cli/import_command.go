package cli

import (
	"context"
	"fmt"
	"os"

	"todo-store/internal/document"
	"todo-store/internal/errors"
)

// ImportCommand handles the import command
type ImportCommand struct {
	app *App

	// Yes confirms replacing a non-empty task list.
	Yes bool
}

// NewImportCommand creates a new import command handler
func NewImportCommand(app *App) *ImportCommand {
	return &ImportCommand{app: app}
}

// Execute replaces the stored collection with the records of a JSON document file.
// Every record must decode and pass validation; nothing is written otherwise.
func (c *ImportCommand) Execute(ctx context.Context, args []string) error {
	path := firstArg(args)
	if path == "" {
		return c.app.errHandler.Handle("import tasks",
			errors.NewInvalidArgumentError("file", "a document file is required"))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c.app.errHandler.Handle("import tasks",
			errors.NewInvalidArgumentError("file", err.Error()))
	}

	tasks, skipped, err := document.Decode(string(data))
	if err != nil {
		return c.app.errHandler.Handle("import tasks", errors.NewValidationError(err.Error(), err))
	}
	if len(skipped) > 0 {
		return c.app.errHandler.Handle("import tasks", errors.NewValidationError(skipped[0].Error(), skipped[0]))
	}
	for i, task := range tasks {
		if err := c.app.validator.ValidateTask(task); err != nil {
			msg := fmt.Sprintf("record %d: %v", i, err)
			return c.app.errHandler.Handle("import tasks", errors.NewValidationError(msg, err))
		}
	}

	if !c.Yes && c.app.store.Count(ctx) > 0 {
		return c.app.errHandler.Handle("import tasks",
			errors.NewInvalidArgumentError("--yes", "importing replaces the existing tasks; pass --yes to confirm"))
	}

	watch := c.app.watchChanges()
	outcome, err := c.app.store.SaveAll(ctx, tasks)
	if err == nil {
		err = c.app.outcomeError("import", outcome)
	}
	if err != nil {
		watch.unsubscribe()
		return c.app.errHandler.Handle("import tasks", err)
	}

	c.app.printf("Imported %s\n", pluralTasks(len(tasks)))
	c.app.report(watch)
	return nil
}
