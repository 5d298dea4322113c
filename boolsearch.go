// Package boolsearch translates a boolean search expression such as
//
//	field1=*something* and not (field2==1 or field3<=10.0)
//
// into a GORM query predicate.
//
// A minimal usage looks like:
//
//	model, err := boolsearch.Analyze(&Product{})
//	parsed, err := boolsearch.Parse(`name=lap* and price<=1500`)
//	cond, err := parsed.Filter(model)
//	db.Where(cond).Find(&products)
//
// The Parser type adds expression caching, structured logging, and
// OpenTelemetry instrumentation on top of the package-level functions.
package boolsearch

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm/clause"

	"github.com/nlstn/go-boolsearch/internal/observability"
	"github.com/nlstn/go-boolsearch/internal/query"
	"github.com/nlstn/go-boolsearch/internal/schema"
)

// Parse parses a boolean search expression into a predicate tree. Every
// call uses its own parse session, so Parse is safe for concurrent use.
func Parse(expression string) (*ParsedExpression, error) {
	return query.Parse(expression)
}

// Analyze extracts search metadata from a model struct for use as the
// schema adapter during predicate compilation.
func Analyze(model interface{}) (*Model, error) {
	return schema.Analyze(model)
}

// Parser parses boolean search expressions with expression caching,
// logging, and OpenTelemetry instrumentation. A single Parser is safe for
// concurrent use: all per-call state lives in the parse session.
type Parser struct {
	cache   *query.Cache
	logger  *slog.Logger
	tracer  *observability.Tracer
	metrics *observability.Metrics
}

type parserConfig struct {
	cacheSize      int
	disableCache   bool
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// Option configures a Parser.
type Option func(*parserConfig)

// WithLogger sets the logger used for debug logging. Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *parserConfig) {
		cfg.logger = logger
	}
}

// WithCacheSize sets the capacity of the parsed-expression cache.
func WithCacheSize(size int) Option {
	return func(cfg *parserConfig) {
		cfg.cacheSize = size
	}
}

// WithoutCache disables the parsed-expression cache.
func WithoutCache() Option {
	return func(cfg *parserConfig) {
		cfg.disableCache = true
	}
}

// WithTracerProvider enables tracing of parse and compile operations.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *parserConfig) {
		cfg.tracerProvider = tp
	}
}

// WithMeterProvider enables metric collection for parse and compile
// operations.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(cfg *parserConfig) {
		cfg.meterProvider = mp
	}
}

// New creates a Parser. Without options it caches parsed expressions,
// logs through slog.Default(), and uses no-op instrumentation.
func New(opts ...Option) *Parser {
	cfg := &parserConfig{cacheSize: query.DefaultCacheSize}
	for _, opt := range opts {
		opt(cfg)
	}

	p := &Parser{logger: cfg.logger}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if !cfg.disableCache {
		p.cache = query.NewCache(cfg.cacheSize)
	}
	if cfg.tracerProvider != nil {
		p.tracer = observability.NewTracer(cfg.tracerProvider)
	} else {
		p.tracer = observability.NewNoopTracer()
	}
	if cfg.meterProvider != nil {
		p.metrics = observability.NewMetrics(cfg.meterProvider)
	} else {
		p.metrics = observability.NewNoopMetrics()
	}
	return p
}

// Parse parses a boolean search expression into a predicate tree. Results
// may be served from the cache; cached results are immutable and must not
// be modified.
func (p *Parser) Parse(ctx context.Context, expression string) (*ParsedExpression, error) {
	ctx, span := p.tracer.StartParse(ctx, len(expression))
	start := time.Now()

	parsed, cacheHit, err := p.parse(expression)
	p.metrics.RecordParse(ctx, time.Since(start), cacheHit)
	if err != nil {
		p.metrics.RecordError(ctx, "parse")
		observability.EndSpan(span, err)
		return nil, err
	}

	span.SetAttributes(
		observability.ParamCountAttr(len(parsed.Params)),
		observability.FunctionCountAttr(len(parsed.Functions)),
		observability.CacheHitAttr(cacheHit),
	)
	p.logger.DebugContext(ctx, "parsed boolean search expression",
		"params", len(parsed.Params),
		"functions", len(parsed.Functions),
		"cache_hit", cacheHit,
	)
	observability.EndSpan(span, nil)
	return parsed, nil
}

func (p *Parser) parse(expression string) (*ParsedExpression, bool, error) {
	if p.cache != nil {
		return p.cache.Parse(expression)
	}
	parsed, err := query.Parse(expression)
	return parsed, false, err
}

// Filter compiles a parsed expression into a GORM predicate against the
// given models, probing them in order for each referenced field. The
// result may be nil when the tree consists solely of function conditions.
func (p *Parser) Filter(ctx context.Context, parsed *ParsedExpression, models ...*Model) (clause.Expression, error) {
	ctx, span := p.tracer.StartCompile(ctx, len(models))

	cond, err := parsed.Filter(models...)
	p.metrics.RecordCompile(ctx)
	if err != nil {
		p.metrics.RecordError(ctx, "compile")
		observability.EndSpan(span, err)
		return nil, err
	}

	observability.EndSpan(span, nil)
	return cond, nil
}
