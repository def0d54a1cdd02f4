package config

import (
	"fmt"
	"os"

	"todo-store/internal/storage"
	"todo-store/internal/storage/memory"
	"todo-store/internal/storage/redis"
	"todo-store/internal/storage/sqlite"
)

// CreateSlot opens the storage slot selected by cfg.Storage.Backend.
// The caller owns the slot and must Close it.
func CreateSlot(cfg *Config) (storage.Slot, error) {
	switch cfg.Storage.Backend {
	case BackendSQLite:
		slot, err := sqlite.NewWithOptions(cfg.GetDatabasePath(), sqlite.Options{
			QueryTimeout:   cfg.Storage.QueryTimeout,
			WriteTimeout:   cfg.Storage.WriteTimeout,
			DirPermissions: os.FileMode(cfg.Storage.DirPermissions),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return slot, nil

	case BackendMemory:
		return memory.New(), nil

	case BackendRedis:
		return redis.New(redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			Timeout:  cfg.Redis.Timeout,
		}), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// CreateTestSlot creates an in-memory sqlite slot for testing
func CreateTestSlot() (storage.Slot, error) {
	slot, err := sqlite.New(sqlite.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}
	return slot, nil
}
