package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log line: %s", buf.String())
	return entry
}

func TestNewLogger_EntryFields(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.DebugLevel) })

	var buf bytes.Buffer
	l := newLogger(&buf, "fakebank", zerolog.DebugLevel)
	l.Info().Str("blz", "12030000").Msg("bank ready")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "fakebank", entry["role"])
	assert.Equal(t, "12030000", entry["blz"])
	assert.Equal(t, "bank ready", entry["message"])
	assert.Contains(t, entry, "time")

	caller, ok := entry["func"].(string)
	require.True(t, ok, "caller field must be named func")
	assert.True(t, strings.HasSuffix(caller, "TestNewLogger_EntryFields"), "caller = %q", caller)
}

func TestNewLogger_SetsGlobalLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.DebugLevel) })

	var buf bytes.Buffer
	l := newLogger(&buf, "bankconnect", zerolog.WarnLevel)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	l.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("kept")
	assert.Equal(t, "kept", decodeEntry(t, &buf)["message"])
}

func TestNewLogger_DefaultsToDebug(t *testing.T) {
	require.NotNil(t, NewLogger("fakebank"))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	assert.Equal(t, "func", zerolog.CallerFieldName)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.DebugLevel},
		{"trace", zerolog.TraceLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"loud", zerolog.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNop(t *testing.T) {
	var buf bytes.Buffer
	l := Nop()
	require.NotNil(t, l)

	l.Logger = l.Output(&buf)
	l.Error().Msg("discarded")
	assert.Empty(t, buf.String())
}

func TestGetChildLogger(t *testing.T) {
	var buf bytes.Buffer
	parent := &Logger{zerolog.New(&buf).With().Str("role", "bankconnect").Logger()}

	child := parent.GetChildLogger()
	require.NotNil(t, child)
	assert.NotSame(t, parent, child)

	child.Logger = child.With().Str("attempt", "2").Logger()
	child.Info().Msg("retrying")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "bankconnect", entry["role"])
	assert.Equal(t, "2", entry["attempt"])

	buf.Reset()
	parent.Info().Msg("parent")
	assert.NotContains(t, decodeEntry(t, &buf), "attempt")
}

func TestFromContext(t *testing.T) {
	t.Run("attached logger", func(t *testing.T) {
		var buf bytes.Buffer
		l := &Logger{zerolog.New(&buf).With().Str("request_id", "r-1").Logger()}

		FromContext(l.WithContext(context.Background())).Info().Msg("hello")
		assert.Equal(t, "r-1", decodeEntry(t, &buf)["request_id"])
	})

	t.Run("empty context", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})
}

func TestFromRequest(t *testing.T) {
	t.Run("attached logger", func(t *testing.T) {
		var buf bytes.Buffer
		zl := zerolog.New(&buf).With().Str("path", "/api/banking/sync/stream").Logger()

		req := httptest.NewRequest(http.MethodPost, "/api/banking/sync/stream", nil)
		req = req.WithContext(zl.WithContext(req.Context()))

		FromRequest(req).Info().Msg("stream opened")
		assert.Equal(t, "/api/banking/sync/stream", decodeEntry(t, &buf)["path"])
	})

	t.Run("bare request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.NotNil(t, FromRequest(req))
	})
}
