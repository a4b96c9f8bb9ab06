package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricOperationsTotal   = "rbtree.operations"
	metricOperationDuration = "rbtree.operation.duration"
	metricValidationsTotal  = "rbtree.validations"
	metricTreeSize          = "rbtree.size"
	metricTreeHeight        = "rbtree.height"

	attrOp     = "op"
	attrResult = "result"
	attrStatus = "status"

	statusOK    = "ok"
	statusError = "error"
)

// durationBucketBoundaries covers 100ns to 1ms: single tree operations are
// logarithmic and should never reach the upper buckets.
var durationBucketBoundaries = []float64{1e-7, 2.5e-7, 5e-7, 1e-6, 2.5e-6, 5e-6, 1e-5, 5e-5, 1e-4, 1e-3}

// TreeMetrics holds the OTel instruments describing a tree under load.
type TreeMetrics struct {
	operations  metric.Int64Counter
	duration    metric.Float64Histogram
	validations metric.Int64Counter
	size        metric.Int64Gauge
	height      metric.Int64Gauge
}

// NewTreeMetrics creates the tree instruments from the given meter.
func NewTreeMetrics(mt metric.Meter) (*TreeMetrics, error) {
	operations, err := mt.Int64Counter(metricOperationsTotal,
		metric.WithDescription("Tree operations by kind and outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricOperationsTotal, err)
	}

	duration, err := mt.Float64Histogram(metricOperationDuration,
		metric.WithDescription("Tree operation latency in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricOperationDuration, err)
	}

	validations, err := mt.Int64Counter(metricValidationsTotal,
		metric.WithDescription("Full invariant checks by status"),
		metric.WithUnit("{validation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricValidationsTotal, err)
	}

	size, err := mt.Int64Gauge(metricTreeSize,
		metric.WithDescription("Number of keys stored"),
		metric.WithUnit("{key}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricTreeSize, err)
	}

	height, err := mt.Int64Gauge(metricTreeHeight,
		metric.WithDescription("Nodes on the longest root-to-leaf path"),
		metric.WithUnit("{node}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricTreeHeight, err)
	}

	return &TreeMetrics{
		operations:  operations,
		duration:    duration,
		validations: validations,
		size:        size,
		height:      height,
	}, nil
}

// RecordOperation records one completed tree operation.
// result is operation specific, e.g. "inserted", "updated", "hit", "miss".
func (tm *TreeMetrics) RecordOperation(ctx context.Context, op, result string, elapsed time.Duration) {
	tm.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrResult, result),
	))
	tm.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String(attrOp, op)))
}

// RecordShape records the current size and height of the tree.
func (tm *TreeMetrics) RecordShape(ctx context.Context, size, height int) {
	tm.size.Record(ctx, int64(size))
	tm.height.Record(ctx, int64(height))
}

// RecordValidation records the outcome of a full invariant check.
func (tm *TreeMetrics) RecordValidation(ctx context.Context, err error) {
	status := statusOK
	if err != nil {
		status = statusError
	}

	tm.validations.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, status)))
}
