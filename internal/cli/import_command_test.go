package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-store/internal/domain"
	"todo-store/internal/storage"
)

func writeDocument(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestImportCommand_Execute(t *testing.T) {
	ta := setupTestApp(t)
	ctx := context.Background()
	path := writeDocument(t, `[
		{"id":"a","title":"Plan trip","createdAt":1,"updatedAt":1,"priority":2},
		{"id":"b","title":"Pack","completed":true,"dueDate":"2024-06-01","createdAt":2,"updatedAt":3}
	]`)

	require.NoError(t, NewImportCommand(ta.app).Execute(ctx, []string{path}))

	assert.Equal(t, "Imported 2 tasks\n2 tasks (1 active, 1 completed)\n", ta.out.String())
	tasks := ta.app.store.GetAll(ctx)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID)
	assert.JSONEq(t, `2`, string(tasks[0].Extra["priority"]))
}

func TestImportCommand_RejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"not an array", `{"id":"a"}`, "failed to import tasks"},
		{"mistyped record", `[{"id":"a","title":5}]`, "record 0"},
		{"missing id", `[{"title":"x","createdAt":1,"updatedAt":1}]`, "record 0"},
		{"bad due date", `[{"id":"a","title":"x","dueDate":"June","createdAt":1,"updatedAt":1}]`, "record 0"},
		{"duplicate ids", `[{"id":"a","title":"x"},{"id":"a","title":"y"}]`, "duplicate task id a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := setupTestApp(t)
			ctx := context.Background()

			err := NewImportCommand(ta.app).Execute(ctx, []string{writeDocument(t, tt.content)})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)

			_, found := ta.slot.Raw(storage.DocumentKey)
			assert.False(t, found, "nothing is written")
		})
	}
}

func TestImportCommand_ReplacingNeedsConfirmation(t *testing.T) {
	ta := setupTestApp(t)
	ctx := context.Background()
	ta.seed(t, domain.NewTaskInput("existing"))
	path := writeDocument(t, `[{"id":"a","title":"imported","createdAt":1,"updatedAt":1}]`)

	cmd := NewImportCommand(ta.app)
	require.Error(t, cmd.Execute(ctx, []string{path}))
	assert.NotNil(t, ta.app.store.Find(ctx, "t1"))

	cmd.Yes = true
	require.NoError(t, cmd.Execute(ctx, []string{path}))
	assert.Nil(t, ta.app.store.Find(ctx, "t1"))
	assert.NotNil(t, ta.app.store.Find(ctx, "a"))
}

func TestImportCommand_MissingFile(t *testing.T) {
	ta := setupTestApp(t)

	err := NewImportCommand(ta.app).Execute(context.Background(), []string{filepath.Join(t.TempDir(), "absent.json")})
	assert.Error(t, err)
}
