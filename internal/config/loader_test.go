package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-store/internal/errors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoader_DefaultsWhenNoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(ConfigFileEnv, "")

	loader := NewLoader()
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".todo", "config.toml"), loader.Path())
}

func TestLoader_FileThenEnvironment(t *testing.T) {
	path := writeConfigFile(t, `
[storage]
backend = "memory"
key = "file.key"

[store]
id_format = "uuid"

[log]
level = "info"

[application]
timeout = "45s"
`)
	t.Setenv(ConfigFileEnv, path)
	t.Setenv("TODO_LOG_LEVEL", "error")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "file.key", cfg.Storage.Key)
	assert.Equal(t, IDFormatUUID, cfg.Store.IDFormat)
	assert.Equal(t, "error", cfg.Log.Level, "environment wins over the file")
	assert.Equal(t, 45*time.Second, cfg.Application.Timeout)
	assert.Equal(t, "todo.db", cfg.Storage.Filename, "unset keys keep defaults")
}

func TestLoader_ExplicitFileMissing(t *testing.T) {
	_, err := NewLoaderWithFile(filepath.Join(t.TempDir(), "absent.toml")).Load()
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeConfig))
}

func TestLoader_FileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax error", "[storage\nbackend = "},
		{"unknown key", "[storage]\nbackend = \"memory\"\ncolour = \"red\"\n"},
		{"wrong type", "[validation]\ntitle_max_length = \"long\"\n"},
		{"invalid value", "[storage]\nbackend = \"floppy\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoaderWithFile(writeConfigFile(t, tt.content)).Load()
			require.Error(t, err)
			assert.True(t, errors.IsErrorType(err, errors.ErrorTypeConfig))
		})
	}
}

func TestLoader_LoadWithOverrides(t *testing.T) {
	path := writeConfigFile(t, "[storage]\nbackend = \"memory\"\n")

	backend := BackendSQLite
	dir := t.TempDir()
	key := "flag.key"
	timeout := 5 * time.Second
	cfg, err := NewLoaderWithFile(path).LoadWithOverrides(&ConfigOverrides{
		Backend:    &backend,
		StorageDir: &dir,
		StorageKey: &key,
		Timeout:    &timeout,
	})
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, dir, cfg.Storage.Dir)
	assert.Equal(t, key, cfg.Storage.Key)
	assert.Equal(t, timeout, cfg.Application.Timeout)
}

func TestLoader_OverridesAreValidated(t *testing.T) {
	path := writeConfigFile(t, "")
	level := "chatty"

	_, err := NewLoaderWithFile(path).LoadWithOverrides(&ConfigOverrides{LogLevel: &level})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestParseWithFallback(t *testing.T) {
	assert.Equal(t, 2*time.Second, ParseDurationWithFallback("2s", time.Second))
	assert.Equal(t, time.Second, ParseDurationWithFallback("two", time.Second))
	assert.Equal(t, 7, ParseIntWithFallback("7", 1))
	assert.Equal(t, 1, ParseIntWithFallback("seven", 1))
	assert.Equal(t, uint32(0700), ParseUint32WithFallback("700", 8, 0755))
	assert.Equal(t, uint32(0755), ParseUint32WithFallback("9", 8, 0755))
}
