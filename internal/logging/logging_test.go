package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_Formats(t *testing.T) {
	var buf bytes.Buffer

	logger, err := New(&buf, "info", "json")
	require.NoError(t, err)
	logger.Info("hello", "outcome", "success")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "hello", entry["msg"])
	require.Equal(t, "success", entry["outcome"])

	buf.Reset()
	logger, err = New(&buf, "info", "text")
	require.NoError(t, err)
	logger.Info("hello")
	require.True(t, strings.Contains(buf.String(), "msg=hello"))
}

func TestNew_AutoIsJSONWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "", "auto")
	require.NoError(t, err)
	logger.Info("x")
	require.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn", "json")
	require.NoError(t, err)

	logger.Info("dropped")
	require.Zero(t, buf.Len())
	logger.Warn("kept")
	require.NotZero(t, buf.Len())
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud", "json")
	require.Error(t, err)

	_, err = New(&bytes.Buffer{}, "info", "xml")
	require.Error(t, err)
}

func TestContextHandler_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info", "json")
	require.NoError(t, err)

	ctx := WithRequestID(context.Background(), "req-123")
	require.Equal(t, "req-123", RequestIDFrom(ctx))

	logger.With("component", "test").InfoContext(ctx, "hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "req-123", entry["http_request_id"])
	require.Equal(t, "test", entry["component"])

	buf.Reset()
	logger.Info("no context")
	require.NotContains(t, buf.String(), "http_request_id")
}
