package cli

import (
	"context"

	"todo-store/internal/domain"
	"todo-store/internal/errors"
)

// ListCommand handles the list command
type ListCommand struct {
	app *App

	Completed bool
	Active    bool
	Label     string
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{app: app}
}

// Execute prints tasks oldest first. Unreadable storage prints the empty state.
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	tasks, err := c.app.store.Load(ctx)
	if err != nil {
		// storage faults are shown as a notice, never as a failure
		c.app.printf("%s\n", errors.GetUserMessage(err))
	}

	tasks = c.filter(sortByCreated(tasks))

	if c.app.jsonOutput {
		return c.app.printJSON(tasks)
	}
	if len(tasks) == 0 {
		c.app.printf("No tasks found\n")
		return nil
	}

	today := timeNow()
	for _, t := range tasks {
		c.app.printf("%s\n", formatTaskLine(t, today))
	}
	c.app.printf("%s\n", pluralTasks(len(tasks)))
	return nil
}

func (c *ListCommand) filter(tasks []domain.Task) []domain.Task {
	out := tasks[:0]
	for _, t := range tasks {
		if c.Completed && !t.Completed {
			continue
		}
		if c.Active && t.Completed {
			continue
		}
		if c.Label != "" && t.Label != c.Label {
			continue
		}
		out = append(out, t)
	}
	return out
}
