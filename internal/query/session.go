package query

import (
	"fmt"
	"strings"
)

// Session carries the bookkeeping of a single parse invocation: the bound
// parameter map, the field occurrence sequence used for bind-name
// disambiguation, and the function conditions encountered. A fresh Session
// is created for every top-level parse, so concurrent parses never share
// state.
type Session struct {
	params    map[string]string
	sequence  []string
	functions []*FuncCondition
}

// NewSession creates an empty parse session.
func NewSession() *Session {
	return &Session{params: make(map[string]string)}
}

// newCondition builds a leaf condition and registers it with the session.
// The full name splits on the first dot into base and local names.
func (s *Session) newCondition(fullName string, op Operator, value string) *Condition {
	c := &Condition{FullName: fullName, Op: op, Value: value}
	if i := strings.Index(fullName, "."); i >= 0 {
		c.BaseName = fullName[:i]
		c.Name = fullName[i+1:]
	} else {
		c.Name = fullName
	}
	c.BindName = s.bindName(fullName, value)
	return c
}

// bindName records one occurrence of fullName and returns a unique bind
// name for it. The first occurrence binds under the field name itself;
// occurrence k binds under "name_k", where k counts prior occurrences in
// the session sequence. The parameter map keeps the last value written for
// each field and is only used for introspection; the comparison value
// itself travels with the condition node.
func (s *Session) bindName(fullName, value string) string {
	count := 0
	for _, name := range s.sequence {
		if name == fullName {
			count++
		}
	}
	s.sequence = append(s.sequence, fullName)
	s.params[fullName] = value

	if count == 0 {
		return fullName
	}
	return fmt.Sprintf("%s_%d", fullName, count)
}

// registerFunction records a function condition for out-of-band handling
// by the caller.
func (s *Session) registerFunction(f *FuncCondition) {
	s.functions = append(s.functions, f)
}

// Params returns the parameter map, keyed by full field name. Repeated
// references to the same field keep the last value.
func (s *Session) Params() map[string]string {
	return s.params
}

// UniqueParams returns the distinct field names referenced, in first
// occurrence order.
func (s *Session) UniqueParams() []string {
	seen := make(map[string]bool, len(s.sequence))
	unique := make([]string, 0, len(s.sequence))
	for _, name := range s.sequence {
		if seen[name] {
			continue
		}
		seen[name] = true
		unique = append(unique, name)
	}
	return unique
}

// Functions returns the function conditions encountered, in parse order.
func (s *Session) Functions() []*FuncCondition {
	return s.functions
}
