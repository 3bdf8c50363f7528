package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type shutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// setupMetrics installs a global meter provider that periodically writes the
// engine instruments to w. Disabled metrics leave the no-op provider in place.
func setupMetrics(enabled bool, w io.Writer, interval time.Duration) (shutdownFunc, error) {
	if !enabled || w == nil {
		return noopShutdown, nil
	}

	exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return noopShutdown, fmt.Errorf("create metrics exporter: %w", err)
	}

	if interval <= 0 {
		interval = defaultMetricsPeriod
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(provider)

	return provider.Shutdown, nil
}
