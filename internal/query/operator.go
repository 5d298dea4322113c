package query

// Operator enumerates the comparison operators recognized in leaf
// conditions.
type Operator string

const (
	// OpEqual is exact equality ('==').
	OpEqual Operator = "=="
	// OpLooseEqual ('=') is plain equality for non-text fields and a
	// pattern match for text fields.
	OpLooseEqual Operator = "="
	// OpNotEqual is '!='.
	OpNotEqual Operator = "!="
	// OpLessThan is '<'.
	OpLessThan Operator = "<"
	// OpLessOrEqual is '<='.
	OpLessOrEqual Operator = "<="
	// OpGreaterThan is '>'.
	OpGreaterThan Operator = ">"
	// OpGreaterOrEqual is '>='.
	OpGreaterOrEqual Operator = ">="
)

// ParseOperator validates a raw operator token.
func ParseOperator(s string) (Operator, bool) {
	switch op := Operator(s); op {
	case OpEqual, OpLooseEqual, OpNotEqual, OpLessThan, OpLessOrEqual, OpGreaterThan, OpGreaterOrEqual:
		return op, true
	default:
		return "", false
	}
}

// sqlSymbol returns the SQL comparison symbol for the operator. Loose
// equality compiles to plain equality once pattern handling has been
// ruled out.
func (op Operator) sqlSymbol() string {
	switch op {
	case OpEqual, OpLooseEqual:
		return "="
	default:
		return string(op)
	}
}
