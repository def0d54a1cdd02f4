package cli

import (
	"context"
)

// CountCommand handles the count command
type CountCommand struct {
	app *App
}

// NewCountCommand creates a new count command handler
func NewCountCommand(app *App) *CountCommand {
	return &CountCommand{app: app}
}

// Execute prints the number of stored tasks; unavailable storage counts as zero
func (c *CountCommand) Execute(ctx context.Context, args []string) error {
	n := c.app.store.Count(ctx)
	if c.app.jsonOutput {
		return c.app.printJSON(map[string]int{"count": n})
	}
	c.app.printf("%d\n", n)
	return nil
}

// StatusCommand handles the status command
type StatusCommand struct {
	app *App
}

// NewStatusCommand creates a new status command handler
func NewStatusCommand(app *App) *StatusCommand {
	return &StatusCommand{app: app}
}

type storeStatus struct {
	Backend   string `json:"backend"`
	Key       string `json:"key"`
	Available bool   `json:"available"`
	Tasks     int    `json:"tasks"`
	Completed int    `json:"completed"`
	Overdue   int    `json:"overdue"`
}

// Execute reports which slot is in use and whether it accepts writes
func (c *StatusCommand) Execute(ctx context.Context, args []string) error {
	s := storeStatus{
		Backend:   c.app.store.Backend(),
		Key:       c.app.store.Key(),
		Available: c.app.store.IsAvailable(ctx),
	}

	today := timeNow()
	for _, t := range c.app.store.GetAll(ctx) {
		s.Tasks++
		if t.Completed {
			s.Completed++
		}
		if t.IsOverdue(today) {
			s.Overdue++
		}
	}

	if c.app.jsonOutput {
		return c.app.printJSON(s)
	}
	c.app.printf("Backend:   %s\n", s.Backend)
	c.app.printf("Key:       %s\n", s.Key)
	c.app.printf("Available: %s\n", yesNo(s.Available))
	c.app.printf("Tasks:     %d (%d completed, %d overdue)\n", s.Tasks, s.Completed, s.Overdue)
	return nil
}
