package query

import (
	"strings"

	"gorm.io/gorm/clause"

	"github.com/nlstn/go-boolsearch/internal/schema"
)

// Node is a node in the parsed predicate tree.
type Node interface {
	// Filter compiles the node into a GORM predicate against the first
	// given model that resolves each referenced field. Function
	// conditions compile to a nil expression; callers combining
	// predicates must tolerate nil children.
	Filter(models ...*schema.Model) (clause.Expression, error)

	// String renders the node in the canonical and_()/or_()/not_()
	// notation. Feeding the rendering back through Parse reconstructs
	// an equivalent tree.
	String() string
}

// Condition represents a 'name operator value' comparison, where the
// operator is one of '<', '<=', '=', '==', '!=', '>=', '>'.
type Condition struct {
	// FullName is the field reference as written, possibly dotted.
	FullName string
	// BaseName is the part before the first dot, empty for flat names.
	BaseName string
	// Name is the local field name after the first dot.
	Name string
	// Op is the comparison operator.
	Op Operator
	// Value is the raw literal the field is compared against.
	Value string
	// BindName is the session-unique parameter name the value binds
	// under.
	BindName string
}

func (c *Condition) String() string {
	return c.FullName + string(c.Op) + c.Value
}

// FuncCondition represents a function call wrapping an inner condition,
// compared against an outer value, e.g. count(status==1)>3. Function
// conditions are parsed and surfaced to the caller but never compile into
// the backend predicate.
type FuncCondition struct {
	// FuncName is the wrapping function's name.
	FuncName string
	// Inner is the condition inside the call parentheses.
	Inner *Condition
	// Op compares the function result against Value.
	Op Operator
	// Value is the raw literal on the right of the outer comparison.
	Value string
}

func (f *FuncCondition) String() string {
	return f.FuncName + "(" + f.Inner.String() + ")" + string(f.Op) + f.Value
}

// NotExpr represents the boolean operator NOT
type NotExpr struct {
	Child Node
}

func (n *NotExpr) String() string {
	return "not_(" + n.Child.String() + ")"
}

// AndExpr represents the boolean operator AND over an ordered sequence of
// children.
type AndExpr struct {
	Children []Node
}

func (a *AndExpr) String() string {
	return "and_(" + joinChildren(a.Children) + ")"
}

// StripFunctions removes function-condition leaves from the children.
func (a *AndExpr) StripFunctions() {
	a.Children = stripFunctions(a.Children)
}

// OrExpr represents the boolean operator OR over an ordered sequence of
// children.
type OrExpr struct {
	Children []Node
}

func (o *OrExpr) String() string {
	return "or_(" + joinChildren(o.Children) + ")"
}

// StripFunctions removes function-condition leaves from the children.
func (o *OrExpr) StripFunctions() {
	o.Children = stripFunctions(o.Children)
}

func joinChildren(children []Node) string {
	parts := make([]string, len(children))
	for i, child := range children {
		parts[i] = child.String()
	}
	return strings.Join(parts, ", ")
}

func stripFunctions(children []Node) []Node {
	kept := make([]Node, 0, len(children))
	for _, child := range children {
		if _, ok := child.(*FuncCondition); ok {
			continue
		}
		kept = append(kept, child)
	}
	return kept
}
