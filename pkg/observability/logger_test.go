package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/rbtree/pkg/observability"
)

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	return record
}

func TestTracingHandler_InjectsTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(observability.NewTracingHandler(inner, "test-svc", "1.0.0"))

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	logger.InfoContext(ctx, "test message")

	record := decodeRecord(t, &buf)
	assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", record["trace_id"])
	assert.Equal(t, "0102030405060708", record["span_id"])
	assert.Equal(t, "test-svc", record["service"])
	assert.Equal(t, "1.0.0", record["version"])
}

func TestTracingHandler_NoTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(observability.NewTracingHandler(inner, "rbtree", ""))

	logger.InfoContext(context.Background(), "no span")

	record := decodeRecord(t, &buf)

	_, hasTraceID := record["trace_id"]
	assert.False(t, hasTraceID)

	_, hasVersion := record["version"]
	assert.False(t, hasVersion)
	assert.Equal(t, "rbtree", record["service"])
}

func TestTracingHandler_WithGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(observability.NewTracingHandler(inner, "rbtree", ""))

	logger.WithGroup("workload").InfoContext(context.Background(), "phase done", slog.Int("ops", 10))

	record := decodeRecord(t, &buf)

	// Service attrs should be at top level.
	assert.Equal(t, "rbtree", record["service"])

	workload, ok := record["workload"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 10, workload["ops"], 0)
}

func TestNewLogger_LevelAndFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogJSON = true
	cfg.LogLevel = slog.LevelWarn

	logger := observability.NewLogger(&buf, cfg)
	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept", slog.String("op", "put"))

	record := decodeRecord(t, &buf)
	assert.Equal(t, "kept", record["msg"])
	assert.Equal(t, "put", record["op"])
	assert.Equal(t, "rbtree", record["service"])
}

func TestNewLogger_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	observability.NewLogger(&buf, observability.Config{}).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "service=rbtree")
}
