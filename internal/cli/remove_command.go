package cli

import (
	"context"

	"todo-store/internal/errors"
)

// RemoveCommand handles the remove command
type RemoveCommand struct {
	app *App
}

// NewRemoveCommand creates a new remove command handler
func NewRemoveCommand(app *App) *RemoveCommand {
	return &RemoveCommand{app: app}
}

// Execute removes the task named by the first argument
func (c *RemoveCommand) Execute(ctx context.Context, args []string) error {
	id := firstArg(args)
	if err := c.app.validator.ValidateTaskID(id); err != nil {
		return c.app.errHandler.Handle("remove task", err)
	}

	watch := c.app.watchChanges()
	removed, outcome := c.app.store.Remove(ctx, id)
	if err := c.app.outcomeError("remove", outcome); err != nil {
		watch.unsubscribe()
		return c.app.errHandler.Handle("remove task", err)
	}
	if !removed {
		watch.unsubscribe()
		return c.app.errHandler.Handle("remove task", errors.NewNotFoundError("task", id))
	}

	c.app.printf("Removed %s\n", id)
	c.app.report(watch)
	return nil
}
