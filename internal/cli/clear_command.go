package cli

import (
	"context"

	"todo-store/internal/errors"
)

// ClearCompletedCommand handles the clear-completed command
type ClearCompletedCommand struct {
	app *App
}

// NewClearCompletedCommand creates a new clear-completed command handler
func NewClearCompletedCommand(app *App) *ClearCompletedCommand {
	return &ClearCompletedCommand{app: app}
}

// Execute removes every completed task
func (c *ClearCompletedCommand) Execute(ctx context.Context, args []string) error {
	watch := c.app.watchChanges()
	removed, outcome := c.app.store.ClearCompleted(ctx)
	if err := c.app.outcomeError("clear_completed", outcome); err != nil {
		watch.unsubscribe()
		return c.app.errHandler.Handle("clear completed tasks", err)
	}

	if removed == 0 {
		watch.unsubscribe()
		c.app.printf("No completed tasks\n")
		return nil
	}
	c.app.printf("Removed %s\n", pluralTasks(removed))
	c.app.report(watch)
	return nil
}

// ClearAllCommand handles the clear-all command
type ClearAllCommand struct {
	app *App

	// Yes confirms the deletion. Without it nothing is removed.
	Yes bool
}

// NewClearAllCommand creates a new clear-all command handler
func NewClearAllCommand(app *App) *ClearAllCommand {
	return &ClearAllCommand{app: app}
}

// Execute deletes the whole stored document
func (c *ClearAllCommand) Execute(ctx context.Context, args []string) error {
	if !c.Yes {
		return c.app.errHandler.Handle("clear all tasks",
			errors.NewInvalidArgumentError("--yes", "clearing all tasks cannot be undone; pass --yes to confirm"))
	}

	watch := c.app.watchChanges()
	outcome := c.app.store.ClearAll(ctx)
	if err := c.app.outcomeError("clear_all", outcome); err != nil {
		watch.unsubscribe()
		return c.app.errHandler.Handle("clear all tasks", err)
	}

	c.app.printf("Removed all tasks\n")
	c.app.report(watch)
	return nil
}
