package query

import (
	"database/sql"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"

	"github.com/nlstn/go-boolsearch/internal/schema"
)

type compileProduct struct {
	ID       uint
	Name     string
	Price    float64
	Quantity int64
	Rating   decimal.Decimal
	Tags     []string
	Active   bool
}

func compileModel(t *testing.T) *schema.Model {
	t.Helper()
	model, err := schema.Analyze(&compileProduct{})
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	return model
}

func mustFilter(t *testing.T, input string, models ...*schema.Model) clause.Expression {
	t.Helper()
	parsed, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", input, err)
	}
	cond, err := parsed.Filter(models...)
	if err != nil {
		t.Fatalf("Filter(%q) error: %v", input, err)
	}
	return cond
}

func asExpr(t *testing.T, cond clause.Expression) clause.Expr {
	t.Helper()
	expr, ok := cond.(clause.Expr)
	if !ok {
		t.Fatalf("expected clause.Expr, got %T", cond)
	}
	return expr
}

func asNamedExpr(t *testing.T, cond clause.Expression) clause.NamedExpr {
	t.Helper()
	expr, ok := cond.(clause.NamedExpr)
	if !ok {
		t.Fatalf("expected clause.NamedExpr, got %T", cond)
	}
	return expr
}

func namedVar(t *testing.T, expr clause.NamedExpr) sql.NamedArg {
	t.Helper()
	if len(expr.Vars) != 1 {
		t.Fatalf("expected 1 bound variable, got %d", len(expr.Vars))
	}
	named, ok := expr.Vars[0].(sql.NamedArg)
	if !ok {
		t.Fatalf("expected sql.NamedArg, got %T", expr.Vars[0])
	}
	return named
}

func TestFilterIntegerCoercion(t *testing.T) {
	model := compileModel(t)

	expr := asNamedExpr(t, mustFilter(t, "quantity>5", model))
	if expr.SQL != `"quantity" > @quantity` {
		t.Errorf("unexpected SQL: %q", expr.SQL)
	}
	named := namedVar(t, expr)
	if named.Name != "quantity" {
		t.Errorf("expected bind name 'quantity', got %q", named.Name)
	}
	if named.Value != int64(5) {
		t.Errorf("expected int64(5), got %#v", named.Value)
	}
}

func TestFilterFloatCoercion(t *testing.T) {
	model := compileModel(t)

	expr := asNamedExpr(t, mustFilter(t, "price<=10.5", model))
	if expr.SQL != `"price" <= @price` {
		t.Errorf("unexpected SQL: %q", expr.SQL)
	}
	if value := namedVar(t, expr).Value; value != 10.5 {
		t.Errorf("expected float64(10.5), got %#v", value)
	}
}

func TestFilterDecimalCoercion(t *testing.T) {
	model := compileModel(t)

	expr := asNamedExpr(t, mustFilter(t, "rating>=4.5", model))
	value, ok := namedVar(t, expr).Value.(decimal.Decimal)
	if !ok {
		t.Fatalf("expected decimal.Decimal, got %#v", namedVar(t, expr).Value)
	}
	if !value.Equal(decimal.NewFromFloat(4.5)) {
		t.Errorf("expected 4.5, got %s", value)
	}
}

func TestFilterUUIDCoercion(t *testing.T) {
	type document struct {
		ID    uint
		Owner uuid.UUID
	}
	model, err := schema.Analyze(&document{})
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	id := uuid.MustParse("8a6e0804-2bd0-4672-b79d-d97027f9071a")
	expr := asNamedExpr(t, mustFilter(t, "owner==8a6e0804-2bd0-4672-b79d-d97027f9071a", model))
	if expr.SQL != `"owner" = @owner` {
		t.Errorf("unexpected SQL: %q", expr.SQL)
	}
	if value := namedVar(t, expr).Value; value != id {
		t.Errorf("expected %s, got %#v", id, value)
	}

	parsed, err := Parse("owner==not-a-uuid")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	_, err = parsed.Filter(model)
	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected *TypeMismatchError, got %v", err)
	}
	if mismatch.Expected != "a UUID" {
		t.Errorf("unexpected expectation: %q", mismatch.Expected)
	}
}

func TestFilterTypeMismatch(t *testing.T) {
	model := compileModel(t)

	tests := []struct {
		name     string
		input    string
		field    string
		expected string
		value    string
	}{
		{"Integer", "quantity>abc", "quantity", "an integer", "abc"},
		{"Integer with fraction", "quantity==1.5", "quantity", "an integer", "1.5"},
		{"Float", "price<=abc", "price", "a float", "abc"},
		{"Decimal", "rating>=abc", "rating", "a decimal", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			_, err = parsed.Filter(model)
			var mismatch *TypeMismatchError
			if !errors.As(err, &mismatch) {
				t.Fatalf("expected *TypeMismatchError, got %v", err)
			}
			if mismatch.Field != tt.field || mismatch.Expected != tt.expected || mismatch.Value != tt.value {
				t.Errorf("unexpected error detail: %v", mismatch)
			}
		})
	}
}

func TestFilterTextPatterns(t *testing.T) {
	model := compileModel(t)

	tests := []struct {
		name    string
		input   string
		pattern string
	}{
		{"Contains", "name=laptop", "%laptop%"},
		{"Starts with", "name=laptop*", "laptop%"},
		{"Ends with", "name=*laptop", "%laptop"},
		{"Inner wildcard", "name=lap*top", "lap%top"},
		{"Escaped underscore", "name=my_file", "%my\\_file%"},
		{"Escaped percent", `name="50% off"`, "%50\\% off%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := asNamedExpr(t, mustFilter(t, tt.input, model))
			if expr.SQL != `LOWER("name") LIKE LOWER(@name) ESCAPE '\'` {
				t.Errorf("unexpected SQL: %q", expr.SQL)
			}
			if value := namedVar(t, expr).Value; value != tt.pattern {
				t.Errorf("expected pattern %q, got %#v", tt.pattern, value)
			}
		})
	}
}

func TestFilterTextExactEquality(t *testing.T) {
	model := compileModel(t)

	expr := asNamedExpr(t, mustFilter(t, "name==Laptop", model))
	if expr.SQL != `LOWER("name") = LOWER(@name)` {
		t.Errorf("unexpected SQL: %q", expr.SQL)
	}
	// Exact equality keeps the raw value; no pattern anchors.
	if value := namedVar(t, expr).Value; value != "Laptop" {
		t.Errorf("expected raw value, got %#v", value)
	}
}

func TestFilterTextRelational(t *testing.T) {
	model := compileModel(t)

	expr := asNamedExpr(t, mustFilter(t, "name<m", model))
	if expr.SQL != `LOWER("name") < LOWER(@name)` {
		t.Errorf("unexpected SQL: %q", expr.SQL)
	}
}

func TestFilterArrayMembership(t *testing.T) {
	model := compileModel(t)

	expr := asNamedExpr(t, mustFilter(t, "tags==golang", model))
	if expr.SQL != `@tags = ANY("tags")` {
		t.Errorf("unexpected SQL: %q", expr.SQL)
	}
	if value := namedVar(t, expr).Value; value != "golang" {
		t.Errorf("expected raw value, got %#v", value)
	}
}

func TestFilterOtherKindComparesRaw(t *testing.T) {
	model := compileModel(t)

	expr := asNamedExpr(t, mustFilter(t, "active==true", model))
	if expr.SQL != `"active" = @active` {
		t.Errorf("unexpected SQL: %q", expr.SQL)
	}
	if value := namedVar(t, expr).Value; value != "true" {
		t.Errorf("expected raw value, got %#v", value)
	}
}

func TestFilterUnknownField(t *testing.T) {
	model := compileModel(t)

	parsed, err := Parse("missing==1")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	_, err = parsed.Filter(model)
	var unknown *UnknownFieldError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected *UnknownFieldError, got %v", err)
	}
	if unknown.Table != "compile_products" || unknown.Field != "missing" {
		t.Errorf("unexpected error detail: %v", unknown)
	}
}

func TestFilterBindNameDisambiguation(t *testing.T) {
	model := compileModel(t)

	cond := mustFilter(t, "price>=1 and price<=2", model)
	and, ok := cond.(clause.AndConditions)
	if !ok {
		t.Fatalf("expected clause.AndConditions, got %T", cond)
	}
	if len(and.Exprs) != 2 {
		t.Fatalf("expected 2 expressions, got %d", len(and.Exprs))
	}

	first := asNamedExpr(t, and.Exprs[0])
	second := asNamedExpr(t, and.Exprs[1])
	if first.SQL != `"price" >= @price` {
		t.Errorf("unexpected first SQL: %q", first.SQL)
	}
	if second.SQL != `"price" <= @price_1` {
		t.Errorf("unexpected second SQL: %q", second.SQL)
	}
	if name := namedVar(t, second).Name; name != "price_1" {
		t.Errorf("expected bind name 'price_1', got %q", name)
	}
}

func TestFilterOrCompilation(t *testing.T) {
	model := compileModel(t)

	cond := mustFilter(t, "quantity==1 or quantity==2", model)
	or, ok := cond.(clause.OrConditions)
	if !ok {
		t.Fatalf("expected clause.OrConditions, got %T", cond)
	}
	if len(or.Exprs) != 2 {
		t.Fatalf("expected 2 expressions, got %d", len(or.Exprs))
	}
}

func TestFilterFunctionConditionsProduceNoPredicate(t *testing.T) {
	model := compileModel(t)

	cond := mustFilter(t, "count(quantity==1)>3", model)
	if cond != nil {
		t.Errorf("expected nil predicate, got %#v", cond)
	}

	cond = mustFilter(t, "not count(quantity==1)>3", model)
	if cond != nil {
		t.Errorf("expected nil predicate under not, got %#v", cond)
	}
}

func TestFilterCombinatorIdentities(t *testing.T) {
	model := compileModel(t)

	// A conjunction of only function conditions is always true.
	expr := asExpr(t, mustFilter(t, "count(quantity==1)>3 and count(price==2)>4", model))
	if expr.SQL != "1 = 1" {
		t.Errorf("expected '1 = 1', got %q", expr.SQL)
	}

	// A disjunction of only function conditions is always false.
	expr = asExpr(t, mustFilter(t, "count(quantity==1)>3 or count(price==2)>4", model))
	if expr.SQL != "1 = 0" {
		t.Errorf("expected '1 = 0', got %q", expr.SQL)
	}
}

func TestFilterSingleSurvivorUnwraps(t *testing.T) {
	model := compileModel(t)

	// The function condition drops out, leaving a bare comparison rather
	// than a one-element conjunction.
	expr := asNamedExpr(t, mustFilter(t, "quantity==1 and count(price==2)>4", model))
	if expr.SQL != `"quantity" = @quantity` {
		t.Errorf("unexpected SQL: %q", expr.SQL)
	}
}

func TestFilterMultiModelProbing(t *testing.T) {
	type warehouse struct {
		ID       uint
		Location string
	}

	productModel := compileModel(t)
	warehouseModel, err := schema.Analyze(&warehouse{})
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	// Fields resolve against the first model that knows them.
	cond := mustFilter(t, "name=laptop and location=berlin", productModel, warehouseModel)
	and, ok := cond.(clause.AndConditions)
	if !ok {
		t.Fatalf("expected clause.AndConditions, got %T", cond)
	}
	second := asNamedExpr(t, and.Exprs[1])
	if second.SQL != `LOWER("location") LIKE LOWER(@location) ESCAPE '\'` {
		t.Errorf("unexpected SQL: %q", second.SQL)
	}

	// The unknown-field error names the last probed table.
	parsed, err := Parse("missing==1")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	_, err = parsed.Filter(productModel, warehouseModel)
	var unknown *UnknownFieldError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected *UnknownFieldError, got %v", err)
	}
	if unknown.Table != "warehouses" {
		t.Errorf("expected table 'warehouses', got %q", unknown.Table)
	}
}

func TestFilterBaseNameScoping(t *testing.T) {
	model := compileModel(t)

	// A base name contained in the table name resolves.
	expr := asNamedExpr(t, mustFilter(t, "compile_product.name==x", model))
	if expr.SQL != `LOWER("name") = LOWER(@compile_product.name)` {
		t.Errorf("unexpected SQL: %q", expr.SQL)
	}

	// A mismatched base name does not resolve the field.
	parsed, err := Parse("order.name==x")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if _, err := parsed.Filter(model); err == nil {
		t.Fatal("expected an error for mismatched base name")
	}
}

func TestFilterIdempotent(t *testing.T) {
	model := compileModel(t)

	parsed, err := Parse("name=lap* and not (quantity==1 or price<=10.0)")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	first, err := parsed.Filter(model)
	if err != nil {
		t.Fatalf("Filter() error: %v", err)
	}
	second, err := parsed.Filter(model)
	if err != nil {
		t.Fatalf("Filter() error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated compilation produced different predicates")
	}
}

func TestFilterCapabilityFlags(t *testing.T) {
	// Hand-built metadata can declare a text field without pattern
	// support, or an array field without membership support; the
	// compiled predicate degrades to a plain comparison.
	model := schema.NewModel("View", "views", []*schema.Field{
		{Name: "Label", Column: "label", Kind: schema.KindText},
		{Name: "Codes", Column: "codes", Kind: schema.KindArray},
	})

	expr := asNamedExpr(t, mustFilter(t, "label=foo", model))
	if expr.SQL != `LOWER("label") = LOWER(@label)` {
		t.Errorf("expected plain comparison without pattern support, got %q", expr.SQL)
	}

	expr = asNamedExpr(t, mustFilter(t, "codes==x", model))
	if expr.SQL != `"codes" = @codes` {
		t.Errorf("expected plain comparison without membership support, got %q", expr.SQL)
	}
}

func TestFilterNotCompilation(t *testing.T) {
	model := compileModel(t)

	cond := mustFilter(t, "not quantity==1", model)
	if _, ok := cond.(clause.Expr); ok {
		t.Fatalf("expected a negation wrapper, got %T", cond)
	}
	if cond == nil {
		t.Fatal("expected a predicate")
	}
}
