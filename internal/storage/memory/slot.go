// Package memory provides an in-process storage slot with fault injection.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrDisabled is returned by every call while the slot is disabled.
	ErrDisabled = errors.New("storage disabled")
	// ErrQuotaExceeded is returned by Set when the value is larger than the quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// Slot keeps values in a map. It is safe for concurrent use.
type Slot struct {
	mu       sync.Mutex
	values   map[string]string
	disabled bool
	quota    int
	writes   int
}

// New creates an empty, enabled slot with no quota.
func New() *Slot {
	return &Slot{values: make(map[string]string)}
}

// Name returns the backend name.
func (s *Slot) Name() string {
	return "memory"
}

// Get returns the value stored under key.
func (s *Slot) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disabled {
		return "", false, ErrDisabled
	}
	v, ok := s.values[key]
	return v, ok, nil
}

// Set stores value under key unless the slot is disabled or the quota is exceeded.
func (s *Slot) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disabled {
		return ErrDisabled
	}
	if s.quota > 0 && len(value) > s.quota {
		return fmt.Errorf("%w: %d bytes > %d", ErrQuotaExceeded, len(value), s.quota)
	}
	s.values[key] = value
	s.writes++
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (s *Slot) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disabled {
		return ErrDisabled
	}
	delete(s.values, key)
	return nil
}

// Close is a no-op.
func (s *Slot) Close() error {
	return nil
}

// Disable makes every subsequent call fail with ErrDisabled.
func (s *Slot) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disabled = true
}

// Enable reverses Disable.
func (s *Slot) Enable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disabled = false
}

// SetQuota limits the size of a single stored value in bytes. Zero removes the limit.
func (s *Slot) SetQuota(bytes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quota = bytes
}

// Put stores raw content bypassing quota and disabled checks, for simulating
// documents written by something else.
func (s *Slot) Put(key, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = raw
}

// Raw returns the stored content bypassing the disabled check.
func (s *Slot) Raw(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Writes returns the number of successful Set calls, probe writes included.
func (s *Slot) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
