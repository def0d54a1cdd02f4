package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-store/internal/config"
	"todo-store/internal/domain"
	"todo-store/internal/storage"
	"todo-store/internal/storage/memory"
	"todo-store/internal/store"
)

type testApp struct {
	app  *App
	slot *memory.Slot
	out  *bytes.Buffer
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()

	current := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		current = current.Add(time.Second)
		return current
	}
	n := 0
	ids := func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}

	origNow := timeNow
	timeNow = func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { timeNow = origNow })

	slot := memory.New()
	s := store.New(slot, store.WithClock(clock), store.WithIDGenerator(ids))
	out := &bytes.Buffer{}
	cfg := config.NewConfig()
	cfg.Display.DateFormat = "2006-01-02"

	return &testApp{
		app:  NewApp(s, cfg, WithOutput(out)),
		slot: slot,
		out:  out,
	}
}

func (ta *testApp) seed(t *testing.T, inputs ...domain.TaskInput) {
	t.Helper()
	for _, in := range inputs {
		_, outcome := ta.app.store.Add(context.Background(), in)
		require.Equal(t, store.Written, outcome)
	}
	ta.out.Reset()
}

func TestNewApp_Defaults(t *testing.T) {
	s := store.New(memory.New())
	app := NewApp(s, nil)

	assert.Same(t, s, app.Store())
	assert.NotNil(t, app.config)
	assert.NotNil(t, app.validator)
	assert.False(t, app.jsonOutput)
}

func TestApp_ReportPrintsBroadcastSummary(t *testing.T) {
	ta := setupTestApp(t)
	ctx := context.Background()

	watch := ta.app.watchChanges()
	ta.app.store.Add(ctx, domain.NewTaskInput("a"))
	ta.app.store.Add(ctx, domain.TaskInput{Title: "b", Completed: true})
	ta.app.report(watch)

	assert.Equal(t, "2 tasks (1 active, 1 completed)\n", ta.out.String())
	assert.Zero(t, ta.app.store.Listeners(), "report unsubscribes")
}

func TestApp_ReportSilentWithoutBroadcast(t *testing.T) {
	ta := setupTestApp(t)

	watch := ta.app.watchChanges()
	ta.app.store.Remove(context.Background(), "missing")
	ta.app.report(watch)

	assert.Empty(t, ta.out.String())
}

func TestApp_FindTask(t *testing.T) {
	ta := setupTestApp(t)
	ctx := context.Background()
	ta.seed(t, domain.NewTaskInput("x"))

	task, err := ta.app.findTask(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "x", task.Title)

	_, err = ta.app.findTask(ctx, "nope")
	assert.True(t, ta.app.errHandler.IsNotFoundError(err))

	_, err = ta.app.findTask(ctx, "")
	assert.True(t, ta.app.errHandler.IsValidationError(err))

	ta.slot.Disable()
	_, err = ta.app.findTask(ctx, "t1")
	assert.True(t, ta.app.errHandler.IsStorageError(err))
}

func TestPrinter_FormatTaskLine(t *testing.T) {
	today := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		task     domain.Task
		expected string
	}{
		{"plain", domain.Task{ID: "a", Title: "Buy milk"}, "[ ] Buy milk  a"},
		{"untitled completed", domain.Task{ID: "b", Completed: true}, "[x] (untitled)  b"},
		{"label and status", domain.Task{ID: "c", Title: "Report", Label: "work", Status: domain.StatusInProgress},
			"[ ] Report  #work  [in-progress]  c"},
		{"overdue", domain.Task{ID: "d", Title: "Tax", DueDate: "2024-05-01"}, "[ ] Tax  due 2024-05-01 (overdue)  d"},
		{"completed not overdue", domain.Task{ID: "e", Title: "Tax", DueDate: "2024-05-01", Completed: true},
			"[x] Tax  due 2024-05-01  e"},
		{"due later", domain.Task{ID: "f", Title: "Trip", DueDate: "2024-06-01"}, "[ ] Trip  due 2024-06-01  f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatTaskLine(tt.task, today))
		})
	}
}

func TestPrinter_SortByCreated(t *testing.T) {
	tasks := []domain.Task{
		{ID: "late", CreatedAt: 30},
		{ID: "first-tie", CreatedAt: 10},
		{ID: "early", CreatedAt: 5},
		{ID: "second-tie", CreatedAt: 10},
	}

	sorted := sortByCreated(tasks)

	ids := make([]string, len(sorted))
	for i, task := range sorted {
		ids[i] = task.ID
	}
	assert.Equal(t, []string{"early", "first-tie", "second-tie", "late"}, ids)
	assert.Equal(t, "late", tasks[0].ID, "input is not reordered")
}

func TestPrinter_Summarize(t *testing.T) {
	assert.Equal(t, "0 tasks (0 active, 0 completed)", summarize([]domain.Task{}))
	assert.Equal(t, "1 task (0 active, 1 completed)", summarize([]domain.Task{{Completed: true}}))
}

func TestPrinter_PrintJSON(t *testing.T) {
	ta := setupTestApp(t)

	extra := domain.Fields{}
	require.NoError(t, extra.Set("priority", 1))
	require.NoError(t, ta.app.printJSON([]domain.Task{{ID: "a", Title: "x", Extra: extra}}))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(ta.out.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "a", decoded[0]["id"])
	assert.Equal(t, float64(1), decoded[0]["priority"])
}

func TestListCommand_LogsCorruptDocument(t *testing.T) {
	logs := &bytes.Buffer{}
	slot := memory.New()
	slot.Put(storage.DocumentKey, "{broken")
	s := store.New(slot, store.WithLogger(log.NewWithOptions(logs, log.Options{Level: log.DebugLevel})))
	out := &bytes.Buffer{}
	app := NewApp(s, nil, WithOutput(out))

	require.NoError(t, NewListCommand(app).Execute(context.Background(), nil))

	assert.Contains(t, out.String(), "Stored tasks could not be read and were ignored.")
	assert.Contains(t, logs.String(), "failed to read tasks from storage")
}
