package observability

import "go.opentelemetry.io/otel/attribute"

const (
	// TracerName identifies the tracer used for boolsearch spans.
	TracerName = "github.com/nlstn/go-boolsearch"

	// MeterName identifies the meter used for boolsearch instruments.
	MeterName = "github.com/nlstn/go-boolsearch"
)

// Attribute keys used on spans and metrics.
const (
	AttrExpressionLength = "boolsearch.expression.length"
	AttrParamCount       = "boolsearch.param.count"
	AttrFunctionCount    = "boolsearch.function.count"
	AttrModelCount       = "boolsearch.model.count"
	AttrCacheHit         = "boolsearch.cache.hit"
	AttrStage            = "boolsearch.stage"
)

// ExpressionLengthAttr records the length of the raw search expression.
func ExpressionLengthAttr(n int) attribute.KeyValue {
	return attribute.Int(AttrExpressionLength, n)
}

// ParamCountAttr records the number of bound parameters in a parse result.
func ParamCountAttr(n int) attribute.KeyValue {
	return attribute.Int(AttrParamCount, n)
}

// FunctionCountAttr records the number of function conditions encountered.
func FunctionCountAttr(n int) attribute.KeyValue {
	return attribute.Int(AttrFunctionCount, n)
}

// ModelCountAttr records the number of schema models probed during
// compilation.
func ModelCountAttr(n int) attribute.KeyValue {
	return attribute.Int(AttrModelCount, n)
}

// CacheHitAttr records whether a parse was served from the cache.
func CacheHitAttr(hit bool) attribute.KeyValue {
	return attribute.Bool(AttrCacheHit, hit)
}

// StageAttr records the processing stage ("parse" or "compile") an error
// occurred in.
func StageAttr(stage string) attribute.KeyValue {
	return attribute.String(AttrStage, stage)
}
