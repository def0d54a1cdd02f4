package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"todo-store/internal/config"
	"todo-store/internal/logging"
	"todo-store/internal/storage"
	"todo-store/internal/store"
)

// Command is implemented by every command handler
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd    *cobra.Command
	app    *App
	config *config.Config
	// slot is set when the root opened storage itself and must close it
	slot storage.Slot

	configFile string
	jsonOutput bool
}

// NewRootCommand creates the root cobra command. When app is nil the
// configuration is loaded and the store opened before the first subcommand
// runs; otherwise app is used as is.
func NewRootCommand(app *App) *RootCommand {
	root := &RootCommand{app: app}
	if app != nil {
		root.config = app.config
	}

	root.cmd = &cobra.Command{
		Use:   "todo",
		Short: "A command-line task list",
		Long: `todo keeps a list of tasks in a single JSON document inside a storage slot.

EXAMPLES:
  todo add "Buy milk" --label home --due 2024-05-03
  todo list --active                       # Open tasks, oldest first
  todo update <id> --status in-progress
  todo done <id>
  todo clear-completed
  todo status                              # Backend and availability

CONFIGURATION:
  Priority order: command-line flags > environment variables > config file > defaults

  Config file:
    TODO_CONFIG                            TOML file (default: ~/.todo/config.toml)

  Storage:
    TODO_STORAGE_BACKEND                   sqlite, memory or redis (default: sqlite)
    TODO_STORAGE_DIR                       sqlite directory (default: ~/.todo)
    TODO_STORAGE_FILENAME                  sqlite filename (default: todo.db)
    TODO_STORAGE_KEY                       Document key (default: binding-demo.todos.v1)
    TODO_REDIS_ADDR                        Redis address (default: localhost:6379)
    TODO_REDIS_PASSWORD, TODO_REDIS_DB, TODO_REDIS_PREFIX

  Other:
    TODO_ID_FORMAT                         short or uuid (default: short)
    TODO_LOG_LEVEL                         debug, info, warn, error (default: warn)
    TODO_DISPLAY_DATE_FORMAT               Timestamp layout (default: 2006-01-02 15:04)
    TODO_VALIDATION_TITLE_MAX              Max title length (default: 255)
    TODO_APP_TIMEOUT                       Per-command timeout (default: 30s)
    TODO_DEBUG                             Force debug logging`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return root.Close()
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

// SetArgs overrides os.Args, for tests
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// Close releases storage opened by the root command
func (r *RootCommand) Close() error {
	if r.slot == nil {
		return nil
	}
	err := r.slot.Close()
	r.slot = nil
	return err
}

func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.StringVar(&r.configFile, "config", "", "TOML config file (overrides TODO_CONFIG)")
	flags.BoolVar(&r.jsonOutput, "json", false, "Print records as JSON")

	flags.String("backend", "", "Storage backend: sqlite, memory or redis (overrides TODO_STORAGE_BACKEND)")
	flags.String("storage-dir", "", "sqlite directory (overrides TODO_STORAGE_DIR)")
	flags.String("storage-file", "", "sqlite filename (overrides TODO_STORAGE_FILENAME)")
	flags.String("key", "", "Document key (overrides TODO_STORAGE_KEY)")
	flags.String("redis-addr", "", "Redis address (overrides TODO_REDIS_ADDR)")
	flags.String("id-format", "", "Id format for new tasks: short or uuid (overrides TODO_ID_FORMAT)")
	flags.String("log-level", "", "Log level (overrides TODO_LOG_LEVEL)")
	flags.String("date-format", "", "Timestamp layout (overrides TODO_DISPLAY_DATE_FORMAT)")
	flags.Duration("app-timeout", 0, "Per-command timeout (overrides TODO_APP_TIMEOUT)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	// Add command
	add := &AddCommand{}
	addCmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task",
		Long:  "Add a task. The title is every argument joined by spaces; it may be empty.",
		RunE: func(cmd *cobra.Command, args []string) error {
			add.app = r.app
			return r.run(add, args)
		},
	}
	addCmd.Flags().StringVar(&add.Label, "label", "", "Label")
	addCmd.Flags().StringVar(&add.Description, "description", "", "Description")
	addCmd.Flags().StringVar(&add.StartDate, "start", "", "Start date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&add.DueDate, "due", "", "Due date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&add.Status, "status", "", "Status: todo, in-progress or done")
	addCmd.Flags().BoolVar(&add.Completed, "completed", false, "Create the task already completed")

	// List command
	list := &ListCommand{}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list.app = r.app
			return r.run(list, args)
		},
	}
	listCmd.Flags().BoolVar(&list.Completed, "completed", false, "Only completed tasks")
	listCmd.Flags().BoolVar(&list.Active, "active", false, "Only open tasks")
	listCmd.Flags().StringVar(&list.Label, "label", "", "Only tasks with this label")
	listCmd.MarkFlagsMutuallyExclusive("completed", "active")

	// Show command
	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(NewShowCommand(r.app), args)
		},
	}

	// Update command
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a task",
		Long: `Change fields of a task. Only the flags given are changed; an empty
value clears the field, for example --due "".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			update := NewUpdateCommand(r.app)
			update.Title = changedString(cmd, "title")
			update.Label = changedString(cmd, "label")
			update.Description = changedString(cmd, "description")
			update.StartDate = changedString(cmd, "start")
			update.DueDate = changedString(cmd, "due")
			update.Status = changedString(cmd, "status")
			if cmd.Flags().Changed("completed") {
				completed, _ := cmd.Flags().GetBool("completed")
				update.Completed = &completed
			}
			return r.run(update, args)
		},
	}
	updateCmd.Flags().String("title", "", "Title")
	updateCmd.Flags().String("label", "", "Label")
	updateCmd.Flags().String("description", "", "Description")
	updateCmd.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	updateCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	updateCmd.Flags().String("status", "", "Status: todo, in-progress or done")
	updateCmd.Flags().Bool("completed", false, "Completed")

	doneCmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(NewCompleteCommand(r.app, true), args)
		},
	}
	undoneCmd := &cobra.Command{
		Use:   "undone <id>",
		Short: "Mark a task open again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(NewCompleteCommand(r.app, false), args)
		},
	}

	removeCmd := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(NewRemoveCommand(r.app), args)
		},
	}

	clearCompletedCmd := &cobra.Command{
		Use:   "clear-completed",
		Short: "Remove every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(NewClearCompletedCommand(r.app), args)
		},
	}

	clearAll := &ClearAllCommand{}
	clearAllCmd := &cobra.Command{
		Use:   "clear-all",
		Short: "Delete the whole task list",
		Long:  "Delete the stored document. This cannot be undone and requires --yes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clearAll.app = r.app
			return r.run(clearAll, args)
		},
	}
	clearAllCmd.Flags().BoolVarP(&clearAll.Yes, "yes", "y", false, "Confirm deletion")

	importTasks := &ImportCommand{}
	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the task list with the records of a JSON document",
		Long:  "Read a JSON array of task records, validate every record, and store it as the whole task list. Replacing existing tasks requires --yes.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			importTasks.app = r.app
			return r.run(importTasks, args)
		},
	}
	importCmd.Flags().BoolVarP(&importTasks.Yes, "yes", "y", false, "Confirm replacing existing tasks")

	countCmd := &cobra.Command{
		Use:   "count",
		Short: "Print the number of tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(NewCountCommand(r.app), args)
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the storage backend and whether it is available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(NewStatusCommand(r.app), args)
		},
	}

	r.cmd.AddCommand(
		addCmd,
		listCmd,
		showCmd,
		updateCmd,
		doneCmd,
		undoneCmd,
		removeCmd,
		clearCompletedCmd,
		clearAllCmd,
		importCmd,
		countCmd,
		statusCmd,
	)
}

// run executes a handler under the configured application timeout
func (r *RootCommand) run(handler Command, args []string) error {
	r.app.jsonOutput = r.jsonOutput

	ctx, cancel := context.WithTimeout(context.Background(), r.getAppTimeout())
	defer cancel()

	return handler.Execute(ctx, args)
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 30 * time.Second
}

// setup loads configuration and opens the store, unless an App was injected
func (r *RootCommand) setup(cmd *cobra.Command) error {
	if r.app != nil {
		return nil
	}

	loader := config.NewLoader()
	if r.configFile != "" {
		loader = config.NewLoaderWithFile(r.configFile)
	}
	cfg, err := loader.LoadWithOverrides(r.overridesFromFlags(cmd))
	if err != nil {
		return NewErrorHandler().Handle("load configuration", err)
	}

	logger := logging.New(os.Stderr, logging.Options{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Prefix: "todo",
	})

	slot, err := config.CreateSlot(cfg)
	if err != nil {
		return NewErrorHandler().Handle("open storage", err)
	}

	opts := []store.Option{store.WithLogger(logger), store.WithKey(cfg.Storage.Key)}
	if cfg.Store.IDFormat == config.IDFormatUUID {
		opts = append(opts, store.WithIDGenerator(store.UUIDGenerator))
	}

	r.slot = slot
	r.config = cfg
	r.app = NewApp(store.New(slot, opts...), cfg, WithOutput(cmd.OutOrStdout()))
	logger.Debug("store ready", "backend", slot.Name(), "key", cfg.Storage.Key)
	return nil
}

// overridesFromFlags collects the global flags the user actually set
func (r *RootCommand) overridesFromFlags(cmd *cobra.Command) *config.ConfigOverrides {
	ov := &config.ConfigOverrides{
		Backend:     changedString(cmd, "backend"),
		StorageDir:  changedString(cmd, "storage-dir"),
		StorageFile: changedString(cmd, "storage-file"),
		StorageKey:  changedString(cmd, "key"),
		RedisAddr:   changedString(cmd, "redis-addr"),
		IDFormat:    changedString(cmd, "id-format"),
		LogLevel:    changedString(cmd, "log-level"),
		DateFormat:  changedString(cmd, "date-format"),
	}
	if cmd.Flags().Changed("app-timeout") {
		timeout, _ := cmd.Flags().GetDuration("app-timeout")
		ov.Timeout = &timeout
	}
	return ov
}

// changedString returns the flag value only when it was set on the command line
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil
	}
	return &v
}
