package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-store/internal/storage"
)

func TestCreateSlot_SQLite(t *testing.T) {
	cfg := NewConfig()
	cfg.Storage.Dir = filepath.Join(t.TempDir(), "nested")

	slot, err := CreateSlot(cfg)
	require.NoError(t, err)
	defer slot.Close()

	assert.Equal(t, "sqlite", slot.Name())
	require.NoError(t, storage.Probe(context.Background(), slot))

	_, err = os.Stat(cfg.GetDatabasePath())
	assert.NoError(t, err, "database file is created")
}

func TestCreateSlot_Memory(t *testing.T) {
	cfg := NewConfig()
	cfg.Storage.Backend = BackendMemory

	slot, err := CreateSlot(cfg)
	require.NoError(t, err)
	assert.Equal(t, "memory", slot.Name())
}

func TestCreateSlot_Redis(t *testing.T) {
	cfg := NewConfig()
	cfg.Storage.Backend = BackendRedis

	// the client connects lazily, so construction succeeds without a server
	slot, err := CreateSlot(cfg)
	require.NoError(t, err)
	defer slot.Close()
	assert.Equal(t, "redis", slot.Name())
}

func TestCreateSlot_Unknown(t *testing.T) {
	cfg := NewConfig()
	cfg.Storage.Backend = "tape"

	_, err := CreateSlot(cfg)
	assert.Error(t, err)
}

func TestCreateTestSlot(t *testing.T) {
	slot, err := CreateTestSlot()
	require.NoError(t, err)
	defer slot.Close()

	ctx := context.Background()
	require.NoError(t, slot.Set(ctx, "k", "v"))
	v, found, err := slot.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", v)
}
