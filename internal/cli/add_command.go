package cli

import (
	"context"
	"strings"

	"todo-store/internal/domain"
)

// AddCommand handles the add command
type AddCommand struct {
	app *App

	Label       string
	Description string
	StartDate   string
	DueDate     string
	Status      string
	Completed   bool
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App) *AddCommand {
	return &AddCommand{app: app}
}

// Execute adds a task titled with the joined arguments. No arguments adds an untitled task.
func (c *AddCommand) Execute(ctx context.Context, args []string) error {
	in := domain.TaskInput{
		Title:       strings.TrimSpace(strings.Join(args, " ")),
		Label:       strings.TrimSpace(c.Label),
		Description: c.Description,
		StartDate:   c.StartDate,
		DueDate:     c.DueDate,
		Status:      domain.Status(c.Status),
		Completed:   c.Completed,
	}
	if err := c.app.validator.ValidateInput(in); err != nil {
		return c.app.errHandler.Handle("add task", err)
	}

	watch := c.app.watchChanges()
	task, outcome := c.app.store.Add(ctx, in)
	if err := c.app.outcomeError("add", outcome); err != nil {
		watch.unsubscribe()
		return c.app.errHandler.Handle("add task", err)
	}

	if c.app.jsonOutput {
		watch.unsubscribe()
		return c.app.printJSON(task)
	}
	c.app.printf("Added %q (%s)\n", task.DisplayTitle(), task.ID)
	c.app.report(watch)
	return nil
}
