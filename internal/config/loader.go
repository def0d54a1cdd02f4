package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"todo-store/internal/errors"
)

// ConfigFileEnv names the variable holding an explicit config file path.
const ConfigFileEnv = "TODO_CONFIG"

// Loader handles loading configuration from multiple sources
type Loader struct {
	config *Config
	// path is the config file; explicit is false for the default location,
	// which may be absent.
	path     string
	explicit bool
}

// NewLoader creates a loader reading TODO_CONFIG or ~/.todo/config.toml
func NewLoader() *Loader {
	if path := os.Getenv(ConfigFileEnv); path != "" {
		return NewLoaderWithFile(path)
	}
	return &Loader{
		config: NewConfig(),
		path:   filepath.Join(DefaultDir(), "config.toml"),
	}
}

// NewLoaderWithFile creates a loader that requires the config file at path
func NewLoaderWithFile(path string) *Loader {
	return &Loader{config: NewConfig(), path: path, explicit: true}
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the TOML config file
// 3. Override with environment variables
// 4. Override with command line flags (LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	if err := l.loadFile(); err != nil {
		return nil, err
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Path returns the config file location the loader reads.
func (l *Loader) Path() string {
	return l.path
}

func (l *Loader) loadFile() error {
	if l.path == "" {
		return nil
	}
	if _, err := os.Stat(l.path); err != nil {
		if os.IsNotExist(err) && !l.explicit {
			return nil
		}
		return errors.NewConfigError("config_file", fmt.Sprintf("cannot read %s: %v", l.path, err))
	}

	meta, err := toml.DecodeFile(l.path, l.config)
	if err != nil {
		return errors.NewConfigError("config_file", fmt.Sprintf("cannot parse %s: %v", l.path, err))
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return errors.NewConfigError("config_file", fmt.Sprintf("unknown key %q in %s", undecoded[0].String(), l.path))
	}
	return nil
}

// ConfigOverrides holds command line flag overrides. Nil fields were not set.
type ConfigOverrides struct {
	Backend     *string
	StorageDir  *string
	StorageFile *string
	StorageKey  *string

	RedisAddr *string

	IDFormat *string
	LogLevel *string

	DateFormat *string
	Timeout    *time.Duration
}

func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	if overrides.Backend != nil {
		config.Storage.Backend = *overrides.Backend
	}
	if overrides.StorageDir != nil {
		config.Storage.Dir = *overrides.StorageDir
	}
	if overrides.StorageFile != nil {
		config.Storage.Filename = *overrides.StorageFile
	}
	if overrides.StorageKey != nil {
		config.Storage.Key = *overrides.StorageKey
	}
	if overrides.RedisAddr != nil {
		config.Redis.Addr = *overrides.RedisAddr
	}
	if overrides.IDFormat != nil {
		config.Store.IDFormat = *overrides.IDFormat
	}
	if overrides.LogLevel != nil {
		config.Log.Level = *overrides.LogLevel
	}
	if overrides.DateFormat != nil {
		config.Display.DateFormat = *overrides.DateFormat
	}
	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
