package boolsearch

import (
	"github.com/nlstn/go-boolsearch/internal/query"
	"github.com/nlstn/go-boolsearch/internal/schema"
)

// ParsedExpression re-exports the parse result type for external
// consumers. It holds the predicate tree root alongside the bound
// parameter map and the function conditions encountered.
type ParsedExpression = query.ParsedExpression

// Node re-exports the predicate tree node interface.
type Node = query.Node

// Condition re-exports the leaf comparison node.
type Condition = query.Condition

// FuncCondition re-exports the function-wrapped condition node. Function
// conditions are parsed but excluded from predicate compilation.
type FuncCondition = query.FuncCondition

// NotExpr re-exports the boolean NOT node.
type NotExpr = query.NotExpr

// AndExpr re-exports the boolean AND node.
type AndExpr = query.AndExpr

// OrExpr re-exports the boolean OR node.
type OrExpr = query.OrExpr

// Operator re-exports the comparison operator enumeration.
type Operator = query.Operator

// Comparison operator constants
const (
	OpEqual          Operator = query.OpEqual
	OpLooseEqual     Operator = query.OpLooseEqual
	OpNotEqual       Operator = query.OpNotEqual
	OpLessThan       Operator = query.OpLessThan
	OpLessOrEqual    Operator = query.OpLessOrEqual
	OpGreaterThan    Operator = query.OpGreaterThan
	OpGreaterOrEqual Operator = query.OpGreaterOrEqual
)

// Model re-exports the schema adapter model metadata.
type Model = schema.Model

// Field re-exports the schema adapter field metadata.
type Field = schema.Field

// Kind re-exports the declared field kind enumeration.
type Kind = schema.Kind

// Field kind constants
const (
	KindOther   Kind = schema.KindOther
	KindInteger Kind = schema.KindInteger
	KindFloat   Kind = schema.KindFloat
	KindDecimal Kind = schema.KindDecimal
	KindUUID    Kind = schema.KindUUID
	KindText    Kind = schema.KindText
	KindArray   Kind = schema.KindArray
)

// SyntaxError re-exports the malformed-expression error. Offset is the
// 0-based byte offset of the failure.
type SyntaxError = query.SyntaxError

// UnknownFieldError re-exports the unresolved-field compilation error.
type UnknownFieldError = query.UnknownFieldError

// TypeMismatchError re-exports the literal coercion error.
type TypeMismatchError = query.TypeMismatchError
