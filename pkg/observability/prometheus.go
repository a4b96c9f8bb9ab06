package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/resource"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// NewPrometheusMeterProvider creates a MeterProvider whose instruments are
// exposed through registry. Each call should use its own registry to avoid
// collector conflicts.
func NewPrometheusMeterProvider(registry *prometheus.Registry, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(exporter)}
	if res != nil {
		opts = append(opts, sdkmetric.WithResource(res))
	}

	return sdkmetric.NewMeterProvider(opts...), nil
}

// WriteMetricsFile dumps everything registry gathers to path in the
// Prometheus text exposition format (node_exporter textfile collector style).
func WriteMetricsFile(path string, registry prometheus.Gatherer) error {
	err := prometheus.WriteToTextfile(path, registry)
	if err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}

	return nil
}
