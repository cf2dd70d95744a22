package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, LogLevelDebug, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, LogLevelInfo, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewLogger_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf, Component: "workflow"})

	logger.Debug("hidden")
	logger.Info("workflow.build.complete", "workflow", "content_creator", "steps", 3)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "workflow.build.complete", entry["msg"])
	assert.Equal(t, "workflow", entry["component"])
	assert.Equal(t, "content_creator", entry["workflow"])
	assert.EqualValues(t, 3, entry["steps"])
}

type recordingLogger struct {
	NoOpLogger
	args []any
}

func (r *recordingLogger) Info(_ string, args ...any) { r.args = args }

func TestWith_WrapsForeignLoggers(t *testing.T) {
	rec := &recordingLogger{}
	l := With(rec, "agent", "IdeaAgent")
	l.Info("x", "k", "v")
	assert.Equal(t, []any{"agent", "IdeaAgent", "k", "v"}, rec.args)

	assert.Equal(t, NoOpLogger{}, With(nil))
}
