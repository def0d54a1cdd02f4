// Package storage defines the key-value slot the task document lives in.
package storage

import (
	"context"
	"fmt"
)

// DocumentKey is the key the task document is stored under.
const DocumentKey = "binding-demo.todos.v1"

// probeKey is written and removed again by Probe.
const probeKey = "__ls_test__"

// Slot is a synchronous string key-value store. Set replaces a value
// atomically: a failed Set leaves the previous value readable.
type Slot interface {
	// Get returns the value under key. found is false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error

	// Name identifies the backend in logs and status output.
	Name() string
	Close() error
}

// Probe checks that slot accepts a write and a delete.
func Probe(ctx context.Context, slot Slot) error {
	if slot == nil {
		return fmt.Errorf("no storage slot configured")
	}
	if err := slot.Set(ctx, probeKey, probeKey); err != nil {
		return fmt.Errorf("probe write: %w", err)
	}
	if err := slot.Remove(ctx, probeKey); err != nil {
		return fmt.Errorf("probe delete: %w", err)
	}
	return nil
}
