package cli

import (
	"context"

	"todo-store/internal/domain"
	"todo-store/internal/errors"
)

// UpdateCommand handles the update, done and undone commands. Only non-nil
// fields are patched, so an explicitly empty value clears the field.
type UpdateCommand struct {
	app *App

	Title       *string
	Label       *string
	Description *string
	StartDate   *string
	DueDate     *string
	Status      *string
	Completed   *bool
}

// NewUpdateCommand creates a new update command handler
func NewUpdateCommand(app *App) *UpdateCommand {
	return &UpdateCommand{app: app}
}

// NewCompleteCommand creates a handler that marks a task completed or open
func NewCompleteCommand(app *App, completed bool) *UpdateCommand {
	return &UpdateCommand{app: app, Completed: domain.Bool(completed)}
}

// Execute patches the task named by the first argument
func (c *UpdateCommand) Execute(ctx context.Context, args []string) error {
	id := firstArg(args)
	patch := c.patch()
	if patch.IsEmpty() {
		return c.app.errHandler.Handle("update task",
			errors.NewInvalidArgumentError("flags", "nothing to update; pass at least one field flag"))
	}

	current, err := c.app.findTask(ctx, id)
	if err != nil {
		return c.app.errHandler.Handle("update task", err)
	}
	if err := c.app.validator.ValidatePatch(current, patch); err != nil {
		return c.app.errHandler.Handle("update task", err)
	}

	watch := c.app.watchChanges()
	updated, outcome := c.app.store.Update(ctx, id, patch)
	if err := c.app.outcomeError("update", outcome); err != nil {
		watch.unsubscribe()
		return c.app.errHandler.Handle("update task", err)
	}
	if updated == nil {
		// removed by another writer between the lookup and the update
		watch.unsubscribe()
		return c.app.errHandler.Handle("update task", errors.NewNotFoundError("task", id))
	}

	if c.app.jsonOutput {
		watch.unsubscribe()
		return c.app.printJSON(updated)
	}
	c.app.printf("Updated %q (%s)\n", updated.DisplayTitle(), updated.ID)
	c.app.report(watch)
	return nil
}

func (c *UpdateCommand) patch() domain.Patch {
	p := domain.Patch{
		Title:       c.Title,
		Label:       c.Label,
		Description: c.Description,
		StartDate:   c.StartDate,
		DueDate:     c.DueDate,
		Completed:   c.Completed,
	}
	if c.Status != nil {
		p.Status = domain.StatusPtr(domain.Status(*c.Status))
	}
	return p
}
