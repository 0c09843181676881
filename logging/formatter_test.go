package logging

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formatEntry(t *testing.T, f *TextFormatter, entry *logrus.Entry) string {
	t.Helper()
	out, err := f.Format(entry)
	require.NoError(t, err)
	return string(out)
}

func TestTextFormatterBasic(t *testing.T) {
	f := &TextFormatter{}
	entry := &logrus.Entry{
		Time:    time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "snapshot published",
		Data: logrus.Fields{
			"component": "engine",
			"envs":      2,
		},
	}

	out := formatEntry(t, f, entry)
	assert.Equal(t, "2026-08-30 12:00:00 [INFO] [engine] snapshot published envs=2\n", out)
}

func TestTextFormatterShortensWarning(t *testing.T) {
	f := &TextFormatter{Config: FormatConfig{DisableTimestamp: true}}
	entry := &logrus.Entry{
		Level:   logrus.WarnLevel,
		Message: "watch degraded to timer",
		Data:    logrus.Fields{},
	}

	out := formatEntry(t, f, entry)
	assert.Equal(t, "[WARN] watch degraded to timer\n", out)
}

func TestTextFormatterStableFieldOrder(t *testing.T) {
	f := &TextFormatter{Config: FormatConfig{DisableTimestamp: true}}
	entry := &logrus.Entry{
		Level:   logrus.DebugLevel,
		Message: "transition",
		Data: logrus.Fields{
			"unit": "server",
			"env":  "abc123",
			"to":   "ready",
		},
	}

	out := formatEntry(t, f, entry)
	assert.Equal(t, "[DEBUG] transition env=abc123 to=ready unit=server\n", out)
}

func TestNewLoggerCachesPerComponent(t *testing.T) {
	a := NewLogger("formatter-test")
	b := NewLogger("formatter-test")
	assert.Same(t, a.Logger, b.Logger)

	c := NewLogger("formatter-test-other")
	assert.NotSame(t, a.Logger, c.Logger)
}
