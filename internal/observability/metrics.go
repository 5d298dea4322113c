package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the boolsearch-specific metric instruments.
type Metrics struct {
	parseCount    metric.Int64Counter
	parseDuration metric.Float64Histogram
	compileCount  metric.Int64Counter
	errorCount    metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with the given MeterProvider.
func NewMetrics(mp metric.MeterProvider) *Metrics {
	meter := mp.Meter(MeterName)
	m := &Metrics{}

	// Note: errors from meter instrument creation are unlikely in practice
	// and would only occur with invalid parameters. We use explicit checks
	// to satisfy the linter while continuing with partial metrics on error.
	var err error

	m.parseCount, err = meter.Int64Counter(
		"boolsearch.parse.count",
		metric.WithDescription("Total number of parsed search expressions"),
		metric.WithUnit("{expression}"),
	)
	if err != nil {
		m.parseCount, _ = meter.Int64Counter("boolsearch.parse.count")
	}

	m.parseDuration, err = meter.Float64Histogram(
		"boolsearch.parse.duration",
		metric.WithDescription("Duration of expression parsing in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.parseDuration, _ = meter.Float64Histogram("boolsearch.parse.duration")
	}

	m.compileCount, err = meter.Int64Counter(
		"boolsearch.compile.count",
		metric.WithDescription("Total number of predicate compilations"),
		metric.WithUnit("{compilation}"),
	)
	if err != nil {
		m.compileCount, _ = meter.Int64Counter("boolsearch.compile.count")
	}

	m.errorCount, err = meter.Int64Counter(
		"boolsearch.error.count",
		metric.WithDescription("Total number of parse and compile errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		m.errorCount, _ = meter.Int64Counter("boolsearch.error.count")
	}

	return m
}

// RecordParse records one parse invocation.
func (m *Metrics) RecordParse(ctx context.Context, duration time.Duration, cacheHit bool) {
	if m == nil {
		return
	}
	m.parseCount.Add(ctx, 1, metric.WithAttributes(CacheHitAttr(cacheHit)))
	m.parseDuration.Record(ctx, float64(duration.Microseconds())/1000.0)
}

// RecordCompile records one predicate compilation.
func (m *Metrics) RecordCompile(ctx context.Context) {
	if m == nil {
		return
	}
	m.compileCount.Add(ctx, 1)
}

// RecordError records a failure in the given stage ("parse" or "compile").
func (m *Metrics) RecordError(ctx context.Context, stage string) {
	if m == nil {
		return
	}
	m.errorCount.Add(ctx, 1, metric.WithAttributes(StageAttr(stage)))
}
