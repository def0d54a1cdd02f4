package cli

import (
	"context"
)

// ShowCommand handles the show command
type ShowCommand struct {
	app *App
}

// NewShowCommand creates a new show command handler
func NewShowCommand(app *App) *ShowCommand {
	return &ShowCommand{app: app}
}

// Execute prints every field of one task
func (c *ShowCommand) Execute(ctx context.Context, args []string) error {
	task, err := c.app.findTask(ctx, firstArg(args))
	if err != nil {
		return c.app.errHandler.Handle("show task", err)
	}

	if c.app.jsonOutput {
		return c.app.printJSON(task)
	}
	c.app.printTaskDetail(*task)
	return nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
