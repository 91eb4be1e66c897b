package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scxmgr/scxmgr/internal/cmn/logger/tag"
)

func TestLogger_SourceLocation(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(Logger)
	}{
		{name: "Info", logFunc: func(l Logger) { l.Info("message") }},
		{name: "Debug", logFunc: func(l Logger) { l.Debug("message") }},
		{name: "Warn", logFunc: func(l Logger) { l.Warn("message") }},
		{name: "Error", logFunc: func(l Logger) { l.Error("message") }},
		{name: "Infof", logFunc: func(l Logger) { l.Infof("formatted %s", "message") }},
		{name: "Errorf", logFunc: func(l Logger) { l.Errorf("error %d", 42) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewLogger(WithDebug(), WithFormat("text"), WithWriter(&buf), WithQuiet())

			tt.logFunc(l)

			out := buf.String()
			assert.Contains(t, out, "logger_test.go:")
			assert.NotContains(t, out, "cmn/logger/logger.go")
			assert.NotContains(t, out, "slog-multi")
		})
	}
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithFormat("text"), WithWriter(&buf), WithQuiet())

	l.Debug("hidden")
	l.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.NotContains(t, buf.String(), "source=", "source locations are only added in debug mode")
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithFormat("json"), WithWriter(&buf), WithQuiet())

	l.With(tag.OpID("op-1")).Warn("remote switch failed", tag.Scheduler("scx_lavd"), tag.Mode("Gaming"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "remote switch failed", record["msg"])
	assert.Equal(t, "op-1", record["op-id"])
	assert.Equal(t, "scx_lavd", record["scheduler"])
	assert.Equal(t, "Gaming", record["mode"])
}

func TestLogger_Console(t *testing.T) {
	var console bytes.Buffer
	l := NewLogger(WithConsole(&console))

	l.Info("to stderr")
	l.Write("to stdout")

	assert.Contains(t, console.String(), "to stderr")
	assert.Contains(t, console.String(), "to stdout\n")

	console.Reset()
	quiet := NewLogger(WithConsole(&console), WithQuiet())
	quiet.Info("nothing")
	quiet.Write("nothing")
	assert.Empty(t, console.String())
}

func TestLogger_WriteToSink(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithWriter(&buf), WithQuiet())

	l.Write("plain line")
	assert.Equal(t, "plain line\n", buf.String())
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithFormat("text"), WithWriter(&buf), WithQuiet())

	ctx := WithLogger(context.Background(), l)
	ctx = WithValues(ctx, "op-id", "abc", "dangling")

	Info(ctx, "applied")
	Warnf(ctx, "retrying %s", "scx")

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "op-id=abc"))
	assert.Contains(t, out, "dangling=MISSING_VALUE")
	assert.Contains(t, out, "retrying scx")

	assert.NotNil(t, FromContext(context.Background()))
}
