package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"approvalcli/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestOTelInitialization(t *testing.T) {
	cfg := OTelConfigFrom(config.TelemetryConfig{TraceExporter: "none"})
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ServiceName, cfg.ServiceName)

	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Registry)
}

func TestOTelConfiguration_UnknownExporter(t *testing.T) {
	cfg := OTelConfigFrom(config.TelemetryConfig{TraceExporter: "otlp"})
	_, err := InitializeOTel(cfg, discardLogger())
	assert.Error(t, err)
}

func TestStageSpans(t *testing.T) {
	var buf bytes.Buffer
	cfg := OTelConfigFrom(config.TelemetryConfig{TraceExporter: "stdout", Environment: "test"})
	cfg.TraceWriter = &buf

	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)

	ctx, span := providers.StartStage(context.Background(), "load")
	assert.NotEmpty(t, TraceIDFromContext(ctx))

	AddSpanEvent(ctx, "rows.read", map[string]interface{}{"rows": 3, "sheet": "Sheet1"})
	SetSpanAttributes(ctx, map[string]interface{}{"path": "data.xlsx", "ok": true})
	RecordError(ctx, errors.New("boom"))
	span.End()

	require.NoError(t, providers.Shutdown(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "analyzer.load")
	assert.Contains(t, out, "rows.read")
	assert.Contains(t, out, "boom")
}

func TestTraceIDFromContext_NoSpan(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))

	providers, err := InitializeOTel(nil, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := providers.StartStage(context.Background(), "query")
	defer span.End()
	assert.Empty(t, TraceIDFromContext(ctx))
}

func TestPipelineMetricsFile(t *testing.T) {
	metricsFile := filepath.Join(t.TempDir(), "analyzer.prom")
	cfg := OTelConfigFrom(config.TelemetryConfig{TraceExporter: "none", MetricsFile: metricsFile})

	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	RecordStage(ctx, metrics, "load", 120*time.Millisecond, 42, nil)
	RecordStage(ctx, metrics, "clean", 5*time.Millisecond, 42, nil)
	RecordQueryFailure(ctx, metrics, "top_banks", "EMPTY_RESULT")

	require.NoError(t, providers.WriteMetricsFile())

	content, err := os.ReadFile(metricsFile)
	require.NoError(t, err)

	text := string(content)
	assert.Contains(t, text, "analyzer_stage_duration")
	assert.Contains(t, text, "analyzer_rows_processed")
	assert.Contains(t, text, "analyzer_query_failures")
	assert.Contains(t, text, `query="top_banks"`)
}

func TestWriteMetricsFile_Disabled(t *testing.T) {
	providers, err := InitializeOTel(nil, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	assert.NoError(t, providers.WriteMetricsFile())
}

func TestRecordHelpers_NilMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordStage(context.Background(), nil, "load", time.Second, 1, nil)
		RecordQueryFailure(context.Background(), nil, "top_banks", "EMPTY_RESULT")
	})
}
