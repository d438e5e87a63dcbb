package ast

import (
	"bytes"

	"github.com/arnavsurve/minisharp/internal/compiler/symbols"
	"github.com/arnavsurve/minisharp/internal/compiler/token"
)

// --- Statements ---

// VariableDefinition -> int x = 1;
type VariableDefinition struct {
	Token token.Token // variable name
	Var   *symbols.Local
	Init  Expression // nil means the type's default
}

func (vd *VariableDefinition) node()                 {}
func (vd *VariableDefinition) IsStatement() bool     { return true }
func (vd *VariableDefinition) TokenLiteral() string  { return vd.Token.Literal }
func (vd *VariableDefinition) GetToken() token.Token { return vd.Token }
func (vd *VariableDefinition) String() string {
	s := vd.Var.Type().String() + " " + vd.Var.Name()
	if vd.Init != nil {
		s += " = " + vd.Init.String()
	}
	return s + ";"
}

// Block -> { statement1 \n statement2 }
type Block struct {
	Token      token.Token // {
	Statements []Statement
}

func (b *Block) node()                 {}
func (b *Block) IsStatement() bool     { return true }
func (b *Block) TokenLiteral() string  { return b.Token.Literal }
func (b *Block) GetToken() token.Token { return b.Token }
func (b *Block) String() string {
	var out bytes.Buffer
	out.WriteString("{\n")
	for _, s := range b.Statements {
		out.WriteString("\t" + statementString(s) + "\n")
	}
	out.WriteString("}")
	return out.String()
}

// If -> if (cond) { } else { }. Then and Else are a *Block or an *If.
type If struct {
	Token token.Token // if
	Cond  Expression
	Then  Statement
	Else  Statement // may be nil
}

func (i *If) node()                 {}
func (i *If) IsStatement() bool     { return true }
func (i *If) TokenLiteral() string  { return i.Token.Literal }
func (i *If) GetToken() token.Token { return i.Token }
func (i *If) String() string {
	s := "if (" + i.Cond.String() + ") " + i.Then.String()
	if i.Else != nil {
		s += " else " + i.Else.String()
	}
	return s
}

// For -> for (init; cond; step) { }. Every header part is optional.
type For struct {
	Token token.Token // for
	Init  *VariableDefinition
	Cond  Expression
	Step  Expression
	Body  *Block
}

func (f *For) node()                 {}
func (f *For) IsStatement() bool     { return true }
func (f *For) TokenLiteral() string  { return f.Token.Literal }
func (f *For) GetToken() token.Token { return f.Token }
func (f *For) String() string {
	var out bytes.Buffer
	out.WriteString("for (")
	if f.Init != nil {
		out.WriteString(f.Init.String())
	} else {
		out.WriteString(";")
	}
	if f.Cond != nil {
		out.WriteString(" " + f.Cond.String())
	}
	out.WriteString(";")
	if f.Step != nil {
		out.WriteString(" " + f.Step.String())
	}
	out.WriteString(") " + f.Body.String())
	return out.String()
}

// While -> while (cond) { }
type While struct {
	Token token.Token // while
	Cond  Expression
	Body  *Block
}

func (w *While) node()                 {}
func (w *While) IsStatement() bool     { return true }
func (w *While) TokenLiteral() string  { return w.Token.Literal }
func (w *While) GetToken() token.Token { return w.Token }
func (w *While) String() string        { return "while (" + w.Cond.String() + ") " + w.Body.String() }

type Break struct {
	Token token.Token
}

func (b *Break) node()                 {}
func (b *Break) IsStatement() bool     { return true }
func (b *Break) TokenLiteral() string  { return b.Token.Literal }
func (b *Break) GetToken() token.Token { return b.Token }
func (b *Break) String() string        { return "break;" }

// Return -> return expression; or return;
type Return struct {
	Token token.Token
	Value Expression // nil in void methods
}

func (r *Return) node()                 {}
func (r *Return) IsStatement() bool     { return true }
func (r *Return) TokenLiteral() string  { return r.Token.Literal }
func (r *Return) GetToken() token.Token { return r.Token }
func (r *Return) String() string {
	if r.Value == nil {
		return "return;"
	}
	return "return " + r.Value.String() + ";"
}

// Empty -> ;
type Empty struct {
	Token token.Token
}

func (e *Empty) node()                 {}
func (e *Empty) IsStatement() bool     { return true }
func (e *Empty) TokenLiteral() string  { return e.Token.Literal }
func (e *Empty) GetToken() token.Token { return e.Token }
func (e *Empty) String() string        { return ";" }

// statementString adds the terminating semicolon expression statements lack.
func statementString(s Statement) string {
	if _, ok := s.(Expression); ok {
		return s.String() + ";"
	}
	return s.String()
}
