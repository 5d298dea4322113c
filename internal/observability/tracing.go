package observability

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps an OpenTelemetry tracer with boolsearch-specific span
// creation methods.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a new Tracer using the given TracerProvider.
func NewTracer(tp trace.TracerProvider) *Tracer {
	return &Tracer{tracer: tp.Tracer(TracerName)}
}

// StartParse starts a span covering one parse invocation.
func (t *Tracer) StartParse(ctx context.Context, expressionLength int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "boolsearch.parse", trace.WithAttributes(
		ExpressionLengthAttr(expressionLength),
	))
}

// StartCompile starts a span covering one predicate compilation.
func (t *Tracer) StartCompile(ctx context.Context, modelCount int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "boolsearch.compile", trace.WithAttributes(
		ModelCountAttr(modelCount),
	))
}

// EndSpan finalizes a span, recording err as the span status when non-nil.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
