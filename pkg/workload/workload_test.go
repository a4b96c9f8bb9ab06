package workload_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/rbtree/pkg/config"
	"github.com/Sumatoshi-tech/rbtree/pkg/observability"
	"github.com/Sumatoshi-tech/rbtree/pkg/workload"
)

func smallConfig() config.WorkloadConfig {
	cfg := config.Default().Workload
	cfg.Operations = 5000
	cfg.KeySpace = 256
	cfg.ValidateEvery = 100
	cfg.SampleEvery = 250

	return cfg
}

func newTestProvider(t *testing.T) (*tracetest.InMemoryExporter, trace.Tracer) {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	return exporter, tp.Tracer("rbtree")
}

func TestRun_DefaultMix(t *testing.T) {
	t.Parallel()

	cfg := smallConfig()

	report, err := workload.Run(context.Background(), cfg, workload.Deps{})
	require.NoError(t, err)

	assert.Equal(t, cfg.Operations, report.Operations)
	assert.Equal(t, cfg.Seed, report.Seed)
	assert.Equal(t, config.OrderAscending, report.Order)
	assert.Equal(t, cfg.Operations/cfg.ValidateEvery+1, report.Validations)
	assert.LessOrEqual(t, report.FinalSize, cfg.KeySpace)
	assert.Positive(t, report.MaxHeight)
	assert.Positive(t, report.Elapsed)

	require.Len(t, report.Ops, 4)

	total := 0

	for _, stats := range report.Ops {
		assert.Equal(t, stats.Count, stats.Hits+stats.Misses, stats.Op)
		assert.Positive(t, stats.Count, stats.Op)

		total += stats.Count
	}

	assert.Equal(t, cfg.Operations, total)

	require.Len(t, report.Samples, cfg.Operations/cfg.SampleEvery)

	for _, sample := range report.Samples {
		assert.LessOrEqual(t, float64(sample.Height), sample.Bound, "step %d", sample.Step)
		assert.Positive(t, sample.BlackHeight)
	}
}

func TestRun_Deterministic(t *testing.T) {
	t.Parallel()

	cfg := smallConfig()

	first, err := workload.Run(context.Background(), cfg, workload.Deps{})
	require.NoError(t, err)

	second, err := workload.Run(context.Background(), cfg, workload.Deps{})
	require.NoError(t, err)

	first.Elapsed, second.Elapsed = 0, 0
	assert.Equal(t, first, second)

	cfg.Seed++

	third, err := workload.Run(context.Background(), cfg, workload.Deps{})
	require.NoError(t, err)

	third.Elapsed = 0
	assert.NotEqual(t, first.Ops, third.Ops)
}

func TestRun_Descending(t *testing.T) {
	t.Parallel()

	cfg := smallConfig()
	cfg.Order = config.OrderDescending

	report, err := workload.Run(context.Background(), cfg, workload.Deps{})
	require.NoError(t, err)
	assert.Equal(t, config.OrderDescending, report.Order)
}

func TestRun_InsertOnly(t *testing.T) {
	t.Parallel()

	cfg := smallConfig()
	cfg.PutRatio = 1
	cfg.DeleteRatio = 0
	cfg.GetOrInsertRatio = 0
	cfg.KeySpace = 1 << 20

	report, err := workload.Run(context.Background(), cfg, workload.Deps{})
	require.NoError(t, err)

	assert.Equal(t, cfg.Operations, report.Ops[0].Count)
	assert.LessOrEqual(t, float64(report.MaxHeight), workload.HeightBound(report.FinalSize))
}

func TestRun_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := workload.Run(ctx, smallConfig(), workload.Deps{})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Zero(t, report.Operations)
}

func TestRun_Spans(t *testing.T) {
	t.Parallel()

	exporter, tracer := newTestProvider(t)

	report, err := workload.Run(context.Background(), smallConfig(), workload.Deps{Tracer: tracer})
	require.NoError(t, err)

	spans := exporter.GetSpans()

	var (
		runSpan     *tracetest.SpanStub
		verifySpans []tracetest.SpanStub
	)

	for idx := range spans {
		switch spans[idx].Name {
		case "workload.run":
			runSpan = &spans[idx]
		case "workload.verify":
			verifySpans = append(verifySpans, spans[idx])
		}
	}

	require.NotNil(t, runSpan)
	assert.Len(t, verifySpans, report.Validations)

	for _, span := range verifySpans {
		assert.Equal(t, runSpan.SpanContext.SpanID(), span.Parent.SpanID())
	}

	attrs := make(map[string]any, len(runSpan.Attributes))
	for _, attr := range runSpan.Attributes {
		attrs[string(attr.Key)] = attr.Value.AsInterface()
	}

	assert.Equal(t, int64(report.FinalSize), attrs["workload.final_size"])
	assert.Equal(t, "asc", attrs["workload.order"])
}

func TestRun_Metrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	tm, err := observability.NewTreeMetrics(mp.Meter("test"))
	require.NoError(t, err)

	report, err := workload.Run(context.Background(), smallConfig(), workload.Deps{Metrics: tm})
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}

			for _, dp := range sum.DataPoints {
				counts[m.Name] += dp.Value
			}
		}
	}

	assert.Equal(t, int64(report.Operations), counts["rbtree.operations"])
	assert.Equal(t, int64(report.Validations), counts["rbtree.validations"])
}

func TestHeightBound(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0, workload.HeightBound(0), 1e-9)
	assert.InDelta(t, 2, workload.HeightBound(1), 1e-9)
	assert.InDelta(t, 4, workload.HeightBound(3), 1e-9)
	assert.InDelta(t, 20, workload.HeightBound(1023), 1e-9)
}

func TestReport_Throughput(t *testing.T) {
	t.Parallel()

	assert.Zero(t, (&workload.Report{Operations: 10}).Throughput())

	report := &workload.Report{Operations: 1000, Elapsed: 2_000_000_000}
	assert.InDelta(t, 500, report.Throughput(), 1e-9)
}

func TestNewTree_Order(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		order string
		want  []int
	}{
		{config.OrderAscending, []int{1, 2, 3}},
		{config.OrderDescending, []int{3, 2, 1}},
	} {
		tree := workload.NewTree(tc.order)
		tree.Put(2, 0)
		tree.Put(3, 0)
		tree.Put(1, 0)

		var got []int
		for key := range tree.Keys() {
			got = append(got, key)
		}

		assert.Equal(t, tc.want, got, tc.order)
	}
}
