package telemetry_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/nikolayk812/cartkeeper/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestNewLogger_AddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer

	logger, err := telemetry.NewLogger(&buf, "info", "json")
	require.NoError(t, err)

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	ctx := trace.ContextWithSpanContext(t.Context(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	logger.With("component", "checkout").InfoContext(ctx, "order placed", "order_id", "o-1")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "order placed", record["msg"])
	assert.Equal(t, "checkout", record["component"])
	assert.Equal(t, "o-1", record["order_id"])
	assert.Equal(t, traceID.String(), record["trace_id"])
	assert.Equal(t, spanID.String(), record["span_id"])
}

func TestNewLogger_WithoutSpan(t *testing.T) {
	var buf bytes.Buffer

	logger, err := telemetry.NewLogger(&buf, "debug", "text")
	require.NoError(t, err)

	logger.DebugContext(t.Context(), "cart loaded")

	assert.Contains(t, buf.String(), "msg=\"cart loaded\"")
	assert.NotContains(t, buf.String(), "trace_id")
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer

	logger, err := telemetry.NewLogger(&buf, "warn", "json")
	require.NoError(t, err)

	logger.Info("dropped")
	assert.Empty(t, buf.String())
}

func TestNewLogger_Invalid(t *testing.T) {
	_, err := telemetry.NewLogger(&bytes.Buffer{}, "loud", "json")
	assert.EqualError(t, err, "log level[loud] is not valid")

	_, err = telemetry.NewLogger(&bytes.Buffer{}, "info", "xml")
	assert.EqualError(t, err, "log format[xml] is not valid")
}
