package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "todo-store/internal/errors"
	"todo-store/internal/storage"
)

func setupTestSlot(t *testing.T) *Slot {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "data", "todo.db")
	slot, err := New(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { slot.Close() })

	return slot
}

func TestSlot_GetMissingKey(t *testing.T) {
	slot := setupTestSlot(t)

	value, found, err := slot.Get(context.Background(), storage.DocumentKey)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, value)
}

func TestSlot_SetOverwrites(t *testing.T) {
	slot := setupTestSlot(t)
	ctx := context.Background()

	require.NoError(t, slot.Set(ctx, "k", `[]`))
	require.NoError(t, slot.Set(ctx, "k", `[{"id":"a"}]`))

	value, found, err := slot.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"a"}]`, value)
}

func TestSlot_Remove(t *testing.T) {
	slot := setupTestSlot(t)
	ctx := context.Background()

	require.NoError(t, slot.Set(ctx, "k", "v"))
	require.NoError(t, slot.Remove(ctx, "k"))
	require.NoError(t, slot.Remove(ctx, "k"))

	_, found, err := slot.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSlot_Probe(t *testing.T) {
	slot := setupTestSlot(t)
	assert.NoError(t, storage.Probe(context.Background(), slot))
}

func TestSlot_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "todo.db")
	ctx := context.Background()

	first, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "k", "kept"))
	require.NoError(t, first.Close())

	second, err := New(dbPath)
	require.NoError(t, err)
	defer second.Close()

	value, found, err := second.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "kept", value)
}

func TestSlot_InMemory(t *testing.T) {
	slot, err := New(MemoryPath)
	require.NoError(t, err)
	defer slot.Close()

	ctx := context.Background()
	require.NoError(t, slot.Set(ctx, "k", "v"))
	value, found, err := slot.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", value)
}

func TestSlot_ClosedDatabaseFails(t *testing.T) {
	slot := setupTestSlot(t)
	require.NoError(t, slot.Close())

	err := slot.Set(context.Background(), "k", "v")
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeDatabase))

	_, _, err = slot.Get(context.Background(), "k")
	assert.Error(t, err)
}

func TestHandleDatabaseError(t *testing.T) {
	originalErr := errors.New("database connection failed")
	result := HandleDatabaseError("test operation", originalErr)

	assert.NotNil(t, result)
	assert.Contains(t, result.Error(), "test operation")
	assert.Contains(t, result.Error(), "database connection failed")
}
