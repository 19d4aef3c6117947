package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter_Level(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewWithWriter(&buf, int(slog.LevelInfo))

	l.Debug("hidden")
	l.Info("Auth service: login succeeded", "id", "2023ug1058")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "Auth service: login succeeded")
	assert.Contains(t, out, "id=2023ug1058")
}

func TestWith(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewWithWriter(&buf, 0).With("component", "gate")
	l.Info("rejected")

	assert.Contains(t, buf.String(), "component=gate")
}
