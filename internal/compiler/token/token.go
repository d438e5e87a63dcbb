package token

import "fmt"

type TokenType int

const (
	TokenUndefined TokenType = iota
	TokenIdent
	TokenKeyword
	TokenOperator
	TokenInt
	TokenFloat
	TokenChar
	TokenString
	TokenEOF
)

var kindNames = [...]string{
	TokenUndefined: "UNDEFINED",
	TokenIdent:     "IDENT",
	TokenKeyword:   "KEYWORD",
	TokenOperator:  "OPERATOR",
	TokenInt:       "INT",
	TokenFloat:     "FLOAT",
	TokenChar:      "CHAR",
	TokenString:    "STRING",
	TokenEOF:       "EOF",
}

func (k TokenType) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("TokenType(%d)", int(k))
}

// IsLiteral reports whether tokens of this kind carry a literal value.
func (k TokenType) IsLiteral() bool {
	return k == TokenInt || k == TokenFloat || k == TokenChar || k == TokenString
}

// Tag marks a token whose value could not be materialized.
type Tag int

const (
	TagNone Tag = iota
	TagOverflow
	TagFormat
)

func (t Tag) String() string {
	switch t {
	case TagOverflow:
		return "overflow"
	case TagFormat:
		return "format"
	default:
		return ""
	}
}

// Pos is a 0-indexed source position.
type Pos struct {
	Row int
	Col int
}

func (p Pos) String() string {
	return fmt.Sprintf("(r:%d, c:%d)", p.Row, p.Col)
}

type Token struct {
	Type    TokenType
	Value   any    // nil when Tag is set
	Literal string // raw lexeme
	Pos     Pos
	Tag     Tag
}

// Malformed reports a literal whose value conversion failed.
func (t Token) Malformed() bool {
	return t.Type.IsLiteral() && t.Value == nil
}

func (t Token) Equal(o Token) bool {
	return t.Type == o.Type &&
		t.Value == o.Value &&
		t.Literal == o.Literal &&
		t.Pos == o.Pos &&
		t.Tag == o.Tag
}

// Is reports whether the token is the keyword kw (or belongs to the family kw).
func (t Token) Is(kw Keyword) bool {
	if t.Type != TokenKeyword {
		return false
	}
	v, _ := t.Value.(Keyword)
	return v.Has(kw)
}

// IsOp reports whether the token is the operator op (or belongs to the family op).
func (t Token) IsOp(op Operator) bool {
	if t.Type != TokenOperator {
		return false
	}
	v, _ := t.Value.(Operator)
	return v.Has(op)
}

func (t Token) Keyword() Keyword {
	v, _ := t.Value.(Keyword)
	return v
}

func (t Token) Operator() Operator {
	v, _ := t.Value.(Operator)
	return v
}

// Describe is the short form used in diagnostics.
func (t Token) Describe() string {
	if t.Type == TokenEOF {
		return "end of input"
	}
	return t.Literal
}

func (t Token) String() string {
	kind := t.Type.String()
	if t.Malformed() {
		kind = "ERROR-" + kind
	}
	value := fmt.Sprint(t.Value)
	if t.Tag != TagNone {
		value = "<" + t.Tag.String() + ">"
	}
	return fmt.Sprintf("r:%3d c:%3d %16s %-16s raw %s", t.Pos.Row, t.Pos.Col, kind, value, t.Literal)
}
