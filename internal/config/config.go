package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"todo-store/internal/errors"
	"todo-store/internal/logging"
	"todo-store/internal/storage"
)

// Storage backends
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Id formats for new tasks
const (
	IDFormatShort = "short"
	IDFormatUUID  = "uuid"
)

// Config holds all configuration options for the todo application
type Config struct {
	Storage     StorageConfig     `toml:"storage"`
	Redis       RedisConfig       `toml:"redis"`
	Store       StoreConfig       `toml:"store"`
	Log         LogConfig         `toml:"log"`
	Display     DisplayConfig     `toml:"display"`
	Validation  ValidationConfig  `toml:"validation"`
	Application ApplicationConfig `toml:"application"`
}

// StorageConfig selects and tunes the storage slot
type StorageConfig struct {
	Backend        string        `toml:"backend" env:"TODO_STORAGE_BACKEND"`
	Dir            string        `toml:"dir" env:"TODO_STORAGE_DIR"`
	Filename       string        `toml:"filename" env:"TODO_STORAGE_FILENAME"`
	Key            string        `toml:"key" env:"TODO_STORAGE_KEY"`
	QueryTimeout   time.Duration `toml:"query_timeout" env:"TODO_STORAGE_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `toml:"write_timeout" env:"TODO_STORAGE_WRITE_TIMEOUT"`
	DirPermissions uint32        `toml:"dir_permissions" env:"TODO_STORAGE_DIR_PERMISSIONS"`
}

// RedisConfig holds the connection used by the redis backend
type RedisConfig struct {
	Addr     string        `toml:"addr" env:"TODO_REDIS_ADDR"`
	Password string        `toml:"password" env:"TODO_REDIS_PASSWORD"`
	DB       int           `toml:"db" env:"TODO_REDIS_DB"`
	Prefix   string        `toml:"prefix" env:"TODO_REDIS_PREFIX"`
	Timeout  time.Duration `toml:"timeout" env:"TODO_REDIS_TIMEOUT"`
}

// StoreConfig holds task store behaviour
type StoreConfig struct {
	IDFormat string `toml:"id_format" env:"TODO_ID_FORMAT"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `toml:"level" env:"TODO_LOG_LEVEL"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	DateFormat string `toml:"date_format" env:"TODO_DISPLAY_DATE_FORMAT"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TitleMaxLength int `toml:"title_max_length" env:"TODO_VALIDATION_TITLE_MAX"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `toml:"timeout" env:"TODO_APP_TIMEOUT"`
}

// DefaultDir returns ~/.todo, or .todo when the home directory is unknown.
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".todo"
	}
	return filepath.Join(homeDir, ".todo")
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:        BackendSQLite,
			Dir:            DefaultDir(),
			Filename:       "todo.db",
			Key:            storage.DocumentKey,
			QueryTimeout:   5 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Redis: RedisConfig{
			Addr:    "localhost:6379",
			Prefix:  "todo:",
			Timeout: 3 * time.Second,
		},
		Store: StoreConfig{
			IDFormat: IDFormatShort,
		},
		Log: LogConfig{
			Level: "warn",
		},
		Display: DisplayConfig{
			DateFormat: "2006-01-02 15:04",
		},
		Validation: ValidationConfig{
			TitleMaxLength: 255,
		},
		Application: ApplicationConfig{
			Timeout: 30 * time.Second,
		},
	}
}

// GetDatabasePath returns the full path to the sqlite file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Storage.Dir, c.Storage.Filename)
}

// LoadFromEnvironment overrides fields from TODO_* variables. Unparseable
// numeric values are ignored.
func (c *Config) LoadFromEnvironment() error {
	// Storage configuration
	if backend := os.Getenv("TODO_STORAGE_BACKEND"); backend != "" {
		c.Storage.Backend = backend
	}
	if dir := os.Getenv("TODO_STORAGE_DIR"); dir != "" {
		c.Storage.Dir = dir
	}
	if filename := os.Getenv("TODO_STORAGE_FILENAME"); filename != "" {
		c.Storage.Filename = filename
	}
	if key := os.Getenv("TODO_STORAGE_KEY"); key != "" {
		c.Storage.Key = key
	}
	if timeout := os.Getenv("TODO_STORAGE_QUERY_TIMEOUT"); timeout != "" {
		c.Storage.QueryTimeout = ParseDurationWithFallback(timeout, c.Storage.QueryTimeout)
	}
	if timeout := os.Getenv("TODO_STORAGE_WRITE_TIMEOUT"); timeout != "" {
		c.Storage.WriteTimeout = ParseDurationWithFallback(timeout, c.Storage.WriteTimeout)
	}
	if perms := os.Getenv("TODO_STORAGE_DIR_PERMISSIONS"); perms != "" {
		c.Storage.DirPermissions = ParseUint32WithFallback(perms, 8, c.Storage.DirPermissions)
	}

	// Redis configuration
	if addr := os.Getenv("TODO_REDIS_ADDR"); addr != "" {
		c.Redis.Addr = addr
	}
	if password := os.Getenv("TODO_REDIS_PASSWORD"); password != "" {
		c.Redis.Password = password
	}
	if db := os.Getenv("TODO_REDIS_DB"); db != "" {
		c.Redis.DB = ParseIntWithFallback(db, c.Redis.DB)
	}
	if prefix, ok := os.LookupEnv("TODO_REDIS_PREFIX"); ok {
		c.Redis.Prefix = prefix
	}
	if timeout := os.Getenv("TODO_REDIS_TIMEOUT"); timeout != "" {
		c.Redis.Timeout = ParseDurationWithFallback(timeout, c.Redis.Timeout)
	}

	if format := os.Getenv("TODO_ID_FORMAT"); format != "" {
		c.Store.IDFormat = format
	}
	if level := os.Getenv("TODO_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if format := os.Getenv("TODO_DISPLAY_DATE_FORMAT"); format != "" {
		c.Display.DateFormat = format
	}
	if maxLen := os.Getenv("TODO_VALIDATION_TITLE_MAX"); maxLen != "" {
		c.Validation.TitleMaxLength = ParseIntWithFallback(maxLen, c.Validation.TitleMaxLength)
	}
	if timeout := os.Getenv("TODO_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}

	return nil
}

// Validate returns the first invalid field as a config AppError
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.Dir == "" {
			return errors.NewConfigError("storage.dir", "storage directory cannot be empty")
		}
		if c.Storage.Filename == "" {
			return errors.NewConfigError("storage.filename", "storage filename cannot be empty")
		}
	case BackendMemory:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.NewConfigError("redis.addr", "redis address cannot be empty")
		}
		if c.Redis.DB < 0 {
			return errors.NewConfigError("redis.db", "redis database index cannot be negative")
		}
	default:
		return errors.NewConfigError("storage.backend",
			"unknown backend "+strconv.Quote(c.Storage.Backend)+", expected sqlite, memory or redis")
	}

	if c.Storage.Key == "" {
		return errors.NewConfigError("storage.key", "document key cannot be empty")
	}
	if c.Storage.QueryTimeout <= 0 {
		return errors.NewConfigError("storage.query_timeout", "query timeout must be positive")
	}
	if c.Storage.WriteTimeout <= 0 {
		return errors.NewConfigError("storage.write_timeout", "write timeout must be positive")
	}

	if c.Store.IDFormat != IDFormatShort && c.Store.IDFormat != IDFormatUUID {
		return errors.NewConfigError("store.id_format", "id format must be short or uuid")
	}
	if !logging.IsValidLevel(c.Log.Level) {
		return errors.NewConfigError("log.level", "log level must be debug, info, warn or error")
	}
	if c.Display.DateFormat == "" {
		return errors.NewConfigError("display.date_format", "date format cannot be empty")
	}
	if c.Validation.TitleMaxLength < 1 {
		return errors.NewConfigError("validation.title_max_length", "title maximum length must be at least 1")
	}
	if c.Application.Timeout <= 0 {
		return errors.NewConfigError("application.timeout", "application timeout must be positive")
	}

	return nil
}
