package domain

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	m "genfix.dev/pkg/genfix/internal/model"
)

var meter = otel.Meter("genfix.domain")

var (
	evaluationTotal    metric.Int64Counter
	evaluationDuration metric.Float64Histogram
	mutationTotal      metric.Int64Counter
	generationTotal    metric.Int64Counter
	generationFitness  metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics creates the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		evaluationTotal, err = meter.Int64Counter(
			"genfix_evaluations_total",
			metric.WithDescription("Candidate evaluations by outcome"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		evaluationDuration, err = meter.Float64Histogram(
			"genfix_evaluation_duration_seconds",
			metric.WithDescription("Duration of a candidate build and test run"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		mutationTotal, err = meter.Int64Counter(
			"genfix_mutations_total",
			metric.WithDescription("Applied mutations by edit kind"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		generationTotal, err = meter.Int64Counter(
			"genfix_generations_total",
			metric.WithDescription("Evaluated generations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		generationFitness, err = meter.Float64Histogram(
			"genfix_generation_best_fitness",
			metric.WithDescription("Best fitness per generation"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})

	return metricsErr
}

func recordEvaluation(ctx context.Context, status m.EvalStatus, duration time.Duration) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("status", status.String()))

	evaluationTotal.Add(ctx, 1, attrs)
	evaluationDuration.Record(ctx, duration.Seconds(), attrs)
}

func recordMutation(ctx context.Context, edit string) {
	if err := initMetrics(); err != nil {
		return
	}

	mutationTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("edit", edit)))
}

func recordGeneration(ctx context.Context, stats m.GenerationStats) {
	if err := initMetrics(); err != nil {
		return
	}

	generationTotal.Add(ctx, 1)
	generationFitness.Record(ctx, stats.BestFitness)
}
