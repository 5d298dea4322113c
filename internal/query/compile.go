package query

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"

	"github.com/nlstn/go-boolsearch/internal/schema"
)

// Identity predicates for combinators whose children are all function
// conditions: an empty conjunction is always true, an empty disjunction
// always false.
const (
	emptyAndSQL = "1 = 1"
	emptyOrSQL  = "1 = 0"
)

// quoteIdent safely quotes identifiers in a portable way (double quotes
// work for sqlite and postgres). Embedded double quotes are escaped by
// doubling them per SQL standard.
func quoteIdent(ident string) string {
	escaped := strings.ReplaceAll(ident, "\"", "\"\"")
	return "\"" + escaped + "\""
}

// Filter compiles the condition into a GORM predicate. Models are probed
// in order; the first one resolving the field wins. The literal value is
// coerced according to the field's declared kind and bound under the
// condition's unique bind name.
func (c *Condition) Filter(models ...*schema.Model) (clause.Expression, error) {
	field, err := c.resolveField(models)
	if err != nil {
		return nil, err
	}
	return c.filterOne(field)
}

// resolveField probes the models in order for the condition's field.
func (c *Condition) resolveField(models []*schema.Model) (*schema.Field, error) {
	var last *schema.Model
	for _, model := range models {
		if model == nil {
			continue
		}
		last = model
		if field, ok := model.ResolveField(c.Name, c.BaseName); ok {
			return field, nil
		}
	}

	table := ""
	if last != nil {
		table = last.TableName
	}
	return nil, &UnknownFieldError{Table: table, Field: c.Name}
}

// filterOne builds the predicate for a resolved field, dispatching on its
// declared kind.
func (c *Condition) filterOne(field *schema.Field) (clause.Expression, error) {
	column := quoteIdent(field.Column)

	switch field.Kind {
	case schema.KindInteger:
		value, err := strconv.ParseInt(c.Value, 10, 64)
		if err != nil {
			return nil, &TypeMismatchError{Field: c.Name, Expected: "an integer", Value: c.Value}
		}
		return c.compare(column, value), nil

	case schema.KindFloat:
		value, err := strconv.ParseFloat(c.Value, 64)
		if err != nil {
			return nil, &TypeMismatchError{Field: c.Name, Expected: "a float", Value: c.Value}
		}
		return c.compare(column, value), nil

	case schema.KindDecimal:
		value, err := decimal.NewFromString(c.Value)
		if err != nil {
			return nil, &TypeMismatchError{Field: c.Name, Expected: "a decimal", Value: c.Value}
		}
		return c.compare(column, value), nil

	case schema.KindUUID:
		value, err := uuid.Parse(c.Value)
		if err != nil {
			return nil, &TypeMismatchError{Field: c.Name, Expected: "a UUID", Value: c.Value}
		}
		return c.compare(column, value), nil

	case schema.KindArray:
		if field.SupportsArrayMembership {
			return c.arrayMembership(column), nil
		}
		return c.compare(column, c.Value), nil

	case schema.KindText:
		return c.textCompare(field, column), nil

	default:
		// Unrecognized kinds compare directly against the raw value;
		// loose equality degrades to plain equality.
		return c.compare(column, c.Value), nil
	}
}

// compare emits a direct comparison with the value bound under the
// condition's bind name. clause.NamedExpr resolves the '@name' reference
// at build time and renders a dialect-correct placeholder, so dotted bind
// names work on every backend.
func (c *Condition) compare(column string, value interface{}) clause.Expression {
	return clause.NamedExpr{
		SQL:  fmt.Sprintf("%s %s @%s", column, c.Op.sqlSymbol(), c.BindName),
		Vars: []interface{}{sql.Named(c.BindName, value)},
	}
}

// arrayMembership emits the postgres membership predicate
// 'value <op> ANY(column)', matching rows where any array element
// satisfies the comparison.
func (c *Condition) arrayMembership(column string) clause.Expression {
	return clause.NamedExpr{
		SQL:  fmt.Sprintf("@%s %s ANY(%s)", c.BindName, c.Op.sqlSymbol(), column),
		Vars: []interface{}{sql.Named(c.BindName, c.Value)},
	}
}

// textCompare folds both sides to lower case. Loose equality on a field
// that supports patterns turns into a pattern match: field=foo means
// contains, field=foo* starts-with, field=*foo ends-with. Exact equality
// ('==') stays an exact, case-insensitive comparison.
func (c *Condition) textCompare(field *schema.Field, column string) clause.Expression {
	if c.Op == OpLooseEqual && field.SupportsPattern {
		return clause.NamedExpr{
			SQL:  fmt.Sprintf("LOWER(%s) LIKE LOWER(@%s) %s", column, c.BindName, likeEscapeClause),
			Vars: []interface{}{sql.Named(c.BindName, likePattern(c.Value))},
		}
	}
	return clause.NamedExpr{
		SQL:  fmt.Sprintf("LOWER(%s) %s LOWER(@%s)", column, c.Op.sqlSymbol(), c.BindName),
		Vars: []interface{}{sql.Named(c.BindName, c.Value)},
	}
}

// Filter on a function condition never produces a predicate; function
// conditions are surfaced through the parse result instead.
func (f *FuncCondition) Filter(models ...*schema.Model) (clause.Expression, error) {
	return nil, nil
}

// Filter compiles the negation of the child predicate. Negating a function
// condition is undefined and yields no predicate, matching leaf semantics.
func (n *NotExpr) Filter(models ...*schema.Model) (clause.Expression, error) {
	if _, ok := n.Child.(*FuncCondition); ok {
		return nil, nil
	}

	child, err := n.Child.Filter(models...)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, nil
	}
	return clause.Not(child), nil
}

// Filter compiles the conjunction of the non-function children.
func (a *AndExpr) Filter(models ...*schema.Model) (clause.Expression, error) {
	exprs, err := filterChildren(a.Children, models)
	if err != nil {
		return nil, err
	}
	if len(exprs) == 0 {
		return clause.Expr{SQL: emptyAndSQL}, nil
	}
	if len(exprs) == 1 {
		return exprs[0], nil
	}
	return clause.And(exprs...), nil
}

// Filter compiles the disjunction of the non-function children.
func (o *OrExpr) Filter(models ...*schema.Model) (clause.Expression, error) {
	exprs, err := filterChildren(o.Children, models)
	if err != nil {
		return nil, err
	}
	if len(exprs) == 0 {
		return clause.Expr{SQL: emptyOrSQL}, nil
	}
	if len(exprs) == 1 {
		return exprs[0], nil
	}
	return clause.Or(exprs...), nil
}

// filterChildren compiles the non-function children of a combinator,
// dropping nil results (nested all-function sub-trees).
func filterChildren(children []Node, models []*schema.Model) ([]clause.Expression, error) {
	exprs := make([]clause.Expression, 0, len(children))
	for _, child := range children {
		if _, ok := child.(*FuncCondition); ok {
			continue
		}
		expr, err := child.Filter(models...)
		if err != nil {
			return nil, err
		}
		if expr != nil {
			exprs = append(exprs, expr)
		}
	}
	return exprs, nil
}
