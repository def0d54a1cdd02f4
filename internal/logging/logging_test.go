package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestDebugEnabled(t *testing.T) {
	t.Setenv("TODO_DEBUG", "")
	if DebugEnabled() {
		t.Error("DebugEnabled() should return false when TODO_DEBUG is empty")
	}

	t.Setenv("TODO_DEBUG", "1")
	if !DebugEnabled() {
		t.Error("DebugEnabled() should return true when TODO_DEBUG is set")
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	t.Setenv("TODO_DEBUG", "")

	var buf bytes.Buffer
	logger := New(&buf, Options{Level: log.WarnLevel})

	logger.Info("hidden")
	logger.Error("shown", "key", "binding-demo.todos.v1")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "key=binding-demo.todos.v1")
}

func TestNew_DebugOverride(t *testing.T) {
	t.Setenv("TODO_DEBUG", "1")

	var buf bytes.Buffer
	logger := New(&buf, Options{Level: log.ErrorLevel})
	logger.Debug("visible")

	assert.Contains(t, buf.String(), "visible")
}

func TestDiscard(t *testing.T) {
	// must not panic
	Discard().Error("dropped")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected log.Level
		valid    bool
	}{
		{"debug", log.DebugLevel, true},
		{"INFO", log.InfoLevel, true},
		{"warn", log.WarnLevel, true},
		{"warning", log.WarnLevel, true},
		{" error ", log.ErrorLevel, true},
		{"verbose", log.WarnLevel, false},
		{"", log.WarnLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
			assert.Equal(t, tt.valid, IsValidLevel(tt.input))
		})
	}
}
