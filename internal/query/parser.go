package query

import (
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/nlstn/go-boolsearch/internal/schema"
)

// ParsedExpression is the result of parsing one boolean search expression.
// It is immutable after parsing (except for the explicit StripFunctions
// operation on combinator nodes) and may be shared across goroutines.
type ParsedExpression struct {
	// Root is the top of the predicate tree.
	Root Node
	// Params maps each referenced field name to the last value it was
	// compared against.
	Params map[string]string
	// UniqueParams lists the distinct field names referenced, in first
	// occurrence order.
	UniqueParams []string
	// Functions lists the function conditions encountered. They are not
	// part of the compiled predicate and are surfaced for out-of-band
	// handling.
	Functions []*FuncCondition
}

// Filter compiles the predicate tree against the given models, probing them
// in order for each referenced field. The result may be nil when the tree
// consists solely of function conditions.
func (pe *ParsedExpression) Filter(models ...*schema.Model) (clause.Expression, error) {
	return pe.Root.Filter(models...)
}

// Parse parses a boolean search expression into a predicate tree.
// Precedence from tightest to loosest is not > and > or; parentheses reset
// precedence. Parse failures return a *SyntaxError carrying the byte offset
// of the failure.
func Parse(input string) (*ParsedExpression, error) {
	tokens, err := NewTokenizer(input).TokenizeAll()
	if err != nil {
		return nil, err
	}

	session := NewSession()
	p := &parser{tokens: tokens, session: session}
	root, err := p.parse()
	if err != nil {
		return nil, err
	}

	return &ParsedExpression{
		Root:         root,
		Params:       session.Params(),
		UniqueParams: session.UniqueParams(),
		Functions:    session.Functions(),
	}, nil
}

// parser consumes the token stream via recursive descent.
type parser struct {
	tokens  []*Token
	current int
	session *Session
}

// currentToken returns the current token
func (p *parser) currentToken() *Token {
	if p.current >= len(p.tokens) {
		return &Token{Type: TokenEOF}
	}
	return p.tokens[p.current]
}

// advance moves to the next token
func (p *parser) advance() *Token {
	token := p.currentToken()
	if p.current < len(p.tokens)-1 {
		p.current++
	}
	return token
}

// parse parses the tokens into a predicate tree, requiring that the whole
// input is consumed.
func (p *parser) parse() (Node, error) {
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if token := p.currentToken(); token.Type != TokenEOF {
		return nil, &SyntaxError{
			Offset:  token.Pos,
			Message: fmt.Sprintf("unexpected %q after expression", token.Value),
		}
	}

	return node, nil
}

// parseOr handles OR expressions (lowest precedence). Consecutive or-terms
// collect into a single node with ordered children.
func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	if p.currentToken().Type != TokenLogical || p.currentToken().Value != "or" {
		return left, nil
	}

	children := []Node{left}
	for p.currentToken().Type == TokenLogical && p.currentToken().Value == "or" {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		children = append(children, right)
	}

	return &OrExpr{Children: children}, nil
}

// parseAnd handles AND expressions
func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	if p.currentToken().Type != TokenLogical || p.currentToken().Value != "and" {
		return left, nil
	}

	children := []Node{left}
	for p.currentToken().Type == TokenLogical && p.currentToken().Value == "and" {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		children = append(children, right)
	}

	return &AndExpr{Children: children}, nil
}

// parseNot handles NOT expressions. NOT is right-associative and may stack.
func (p *parser) parseNot() (Node, error) {
	if p.currentToken().Type == TokenNot {
		p.advance()
		child, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &NotExpr{Child: child}, nil
	}

	return p.parsePrimary()
}

// parsePrimary handles a leaf condition, a function condition, or a
// parenthesized sub-expression.
func (p *parser) parsePrimary() (Node, error) {
	token := p.currentToken()

	switch token.Type {
	case TokenLParen:
		p.advance()
		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.currentToken(); closing.Type != TokenRParen {
			return nil, &SyntaxError{Offset: closing.Pos, Message: "missing closing parenthesis"}
		}
		p.advance()
		return node, nil

	case TokenName:
		p.advance()
		if p.currentToken().Type == TokenLParen {
			return p.parseFuncCondition(token.Value)
		}
		return p.parseCondition(token.Value)
	}

	return nil, &SyntaxError{
		Offset:  token.Pos,
		Message: "expected field name or '('",
	}
}

// parseCondition parses the 'operator value' tail of a leaf condition.
func (p *parser) parseCondition(fullName string) (*Condition, error) {
	opToken := p.currentToken()
	if opToken.Type != TokenOperator {
		return nil, &SyntaxError{
			Offset:  opToken.Pos,
			Message: fmt.Sprintf("expected operator after field name %q", fullName),
		}
	}
	op, ok := ParseOperator(opToken.Value)
	if !ok {
		return nil, &SyntaxError{
			Offset:  opToken.Pos,
			Message: fmt.Sprintf("unknown operator %q", opToken.Value),
		}
	}
	p.advance()

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	return p.session.newCondition(fullName, op, value), nil
}

// parseFuncCondition parses 'name(condition) operator value', with the
// opening parenthesis as the current token.
func (p *parser) parseFuncCondition(funcName string) (*FuncCondition, error) {
	p.advance() // consume '('

	nameToken := p.currentToken()
	if nameToken.Type != TokenName {
		return nil, &SyntaxError{
			Offset:  nameToken.Pos,
			Message: fmt.Sprintf("expected condition inside %s()", funcName),
		}
	}
	p.advance()

	inner, err := p.parseCondition(nameToken.Value)
	if err != nil {
		return nil, err
	}

	if closing := p.currentToken(); closing.Type != TokenRParen {
		return nil, &SyntaxError{Offset: closing.Pos, Message: "missing closing parenthesis"}
	}
	p.advance()

	opToken := p.currentToken()
	if opToken.Type != TokenOperator {
		return nil, &SyntaxError{
			Offset:  opToken.Pos,
			Message: fmt.Sprintf("expected operator after %s()", funcName),
		}
	}
	op, ok := ParseOperator(opToken.Value)
	if !ok {
		return nil, &SyntaxError{
			Offset:  opToken.Pos,
			Message: fmt.Sprintf("unknown operator %q", opToken.Value),
		}
	}
	p.advance()

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	f := &FuncCondition{FuncName: funcName, Inner: inner, Op: op, Value: value}
	p.session.registerFunction(f)
	return f, nil
}

// parseValue accepts any literal token: a quoted string, a number, a bare
// value, or a bare word that also qualifies as a field name.
func (p *parser) parseValue() (string, error) {
	token := p.currentToken()
	switch token.Type {
	case TokenString, TokenNumber, TokenValue, TokenName:
		p.advance()
		return token.Value, nil
	}
	return "", &SyntaxError{Offset: token.Pos, Message: "expected value"}
}
