package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records one measurement set per analysed document.
type Metrics struct {
	analyses   metric.Int64Counter
	failures   metric.Int64Counter
	sampleSize metric.Int64Histogram
	durations  metric.Float64Histogram
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	analyses, err := meter.Int64Counter("auditor.analyses",
		metric.WithDescription("Documents analysed"))
	if err != nil {
		return nil, fmt.Errorf("create counter: %w", err)
	}

	failures, err := meter.Int64Counter("auditor.failures",
		metric.WithDescription("Analyses that produced no result"))
	if err != nil {
		return nil, fmt.Errorf("create counter: %w", err)
	}

	sampleSize, err := meter.Int64Histogram("auditor.sample.size",
		metric.WithDescription("Numeric values extracted per document"))
	if err != nil {
		return nil, fmt.Errorf("create histogram: %w", err)
	}

	durations, err := meter.Float64Histogram("auditor.duration.ms")
	if err != nil {
		return nil, fmt.Errorf("create histogram: %w", err)
	}

	return &Metrics{analyses: analyses, failures: failures, sampleSize: sampleSize, durations: durations}, nil
}

func (m *Metrics) record(ctx context.Context, source string, start time.Time, values int, errCode string) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("source", source))
	m.analyses.Add(ctx, 1, attrs)
	m.durations.Record(ctx, float64(time.Since(start).Microseconds())/1000.0, attrs)

	if errCode != "" {
		m.failures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("source", source),
			attribute.String("code", errCode),
		))
		return
	}
	m.sampleSize.Record(ctx, int64(values), attrs)
}
