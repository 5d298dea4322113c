package query

import (
	"fmt"
	"strings"
	"unicode"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenName
	TokenString
	TokenNumber
	TokenValue
	TokenOperator
	TokenLogical
	TokenNot
	TokenLParen
	TokenRParen
)

// Token represents a single token in the search expression
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

// Tokenizer tokenizes boolean search expressions
type Tokenizer struct {
	input string
	pos   int
	ch    rune
}

// NewTokenizer creates a new tokenizer
func NewTokenizer(input string) *Tokenizer {
	t := &Tokenizer{
		input: input,
		pos:   0,
	}
	if len(input) > 0 {
		t.ch = rune(input[0])
	}
	return t
}

// advance moves to the next character
func (t *Tokenizer) advance() {
	t.pos++
	if t.pos >= len(t.input) {
		t.ch = 0 // EOF
	} else {
		t.ch = rune(t.input[t.pos])
	}
}

// peek looks ahead without advancing
func (t *Tokenizer) peek() rune {
	if t.pos+1 >= len(t.input) {
		return 0
	}
	return rune(t.input[t.pos+1])
}

// skipWhitespace skips whitespace characters
func (t *Tokenizer) skipWhitespace() {
	for t.ch == ' ' || t.ch == '\t' || t.ch == '\n' || t.ch == '\r' {
		t.advance()
	}
}

// readString reads a double-quoted string up to the closing quote. No
// escape processing is applied inside the quotes.
func (t *Tokenizer) readString() (string, error) {
	start := t.pos
	t.advance() // skip opening quote

	var result strings.Builder
	for t.ch != 0 && t.ch != '"' {
		result.WriteRune(t.ch)
		t.advance()
	}

	if t.ch != '"' {
		return "", &SyntaxError{Offset: start, Message: "unterminated string"}
	}
	t.advance() // skip closing quote

	return result.String(), nil
}

// readNumber reads a signed decimal number with optional exponent
func (t *Tokenizer) readNumber() string {
	var result strings.Builder

	if t.ch == '-' || t.ch == '+' {
		result.WriteRune(t.ch)
		t.advance()
	}

	for unicode.IsDigit(t.ch) {
		result.WriteRune(t.ch)
		t.advance()
	}

	if t.ch == '.' {
		result.WriteRune(t.ch)
		t.advance()
		for unicode.IsDigit(t.ch) {
			result.WriteRune(t.ch)
			t.advance()
		}
	}

	if t.ch == 'e' || t.ch == 'E' {
		result.WriteRune(t.ch)
		t.advance()
		if t.ch == '+' || t.ch == '-' {
			result.WriteRune(t.ch)
			t.advance()
		}
		for unicode.IsDigit(t.ch) {
			result.WriteRune(t.ch)
			t.advance()
		}
	}

	return result.String()
}

// isWordChar reports whether r can appear in a bare word. Bare words cover
// both field names (letters, digits, '.', '_') and unquoted values, which
// additionally allow '-' and the '*' wildcard marker.
func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) ||
		r == '.' || r == '_' || r == '*' || r == '-'
}

// readWord reads a bare word
func (t *Tokenizer) readWord() string {
	var result strings.Builder

	for t.ch != 0 && isWordChar(t.ch) {
		result.WriteRune(t.ch)
		t.advance()
	}

	return result.String()
}

// NextToken returns the next token
func (t *Tokenizer) NextToken() (*Token, error) {
	t.skipWhitespace()

	if t.ch == 0 {
		return &Token{Type: TokenEOF, Pos: t.pos}, nil
	}

	pos := t.pos

	switch t.ch {
	case '(':
		t.advance()
		return &Token{Type: TokenLParen, Value: "(", Pos: pos}, nil
	case ')':
		t.advance()
		return &Token{Type: TokenRParen, Value: ")", Pos: pos}, nil
	case '"':
		value, err := t.readString()
		if err != nil {
			return nil, err
		}
		return &Token{Type: TokenString, Value: value, Pos: pos}, nil
	}

	if token, err := t.tokenizeOperator(pos); token != nil || err != nil {
		return token, err
	}

	if unicode.IsDigit(t.ch) || ((t.ch == '-' || t.ch == '+') && unicode.IsDigit(t.peek())) {
		value := t.readNumber()
		if t.ch != 0 && isWordChar(t.ch) {
			// Not a number after all: a bare value like '10x' or '1.2.3'.
			return &Token{Type: TokenValue, Value: value + t.readWord(), Pos: pos}, nil
		}
		return &Token{Type: TokenNumber, Value: value, Pos: pos}, nil
	}

	if isWordChar(t.ch) {
		return t.classifyWord(t.readWord(), pos), nil
	}

	return nil, &SyntaxError{Offset: pos, Message: fmt.Sprintf("unexpected character '%c'", t.ch)}
}

// tokenizeOperator reads a comparison operator, longest match first.
// Returns (nil, nil) when the current character does not start an operator.
func (t *Tokenizer) tokenizeOperator(pos int) (*Token, error) {
	switch t.ch {
	case '<', '>':
		op := string(t.ch)
		t.advance()
		if t.ch == '=' {
			op += "="
			t.advance()
		}
		return &Token{Type: TokenOperator, Value: op, Pos: pos}, nil
	case '=':
		t.advance()
		if t.ch == '=' {
			t.advance()
			return &Token{Type: TokenOperator, Value: "==", Pos: pos}, nil
		}
		return &Token{Type: TokenOperator, Value: "=", Pos: pos}, nil
	case '!':
		if t.peek() != '=' {
			return nil, &SyntaxError{Offset: pos, Message: "unexpected character '!'"}
		}
		t.advance()
		t.advance()
		return &Token{Type: TokenOperator, Value: "!=", Pos: pos}, nil
	}
	return nil, nil
}

// classifyWord classifies a bare word as a keyword, a field name, or a
// bare value
func (t *Tokenizer) classifyWord(value string, pos int) *Token {
	switch strings.ToLower(value) {
	case "and":
		return &Token{Type: TokenLogical, Value: "and", Pos: pos}
	case "or":
		return &Token{Type: TokenLogical, Value: "or", Pos: pos}
	case "not":
		return &Token{Type: TokenNot, Value: "not", Pos: pos}
	}

	if isName(value) {
		return &Token{Type: TokenName, Value: value, Pos: pos}
	}
	return &Token{Type: TokenValue, Value: value, Pos: pos}
}

// isName reports whether s is a field name: a letter followed by letters,
// digits, dots, or underscores.
func isName(s string) bool {
	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' {
			return false
		}
	}
	return s != ""
}

// TokenizeAll returns all tokens from the input
func (t *Tokenizer) TokenizeAll() ([]*Token, error) {
	var tokens []*Token

	for {
		token, err := t.NextToken()
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, token)

		if token.Type == TokenEOF {
			break
		}
	}

	return tokens, nil
}
