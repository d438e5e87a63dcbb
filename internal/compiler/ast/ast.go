package ast

import (
	"bytes"
	"strings"

	"github.com/arnavsurve/minisharp/internal/compiler/token"
	"github.com/arnavsurve/minisharp/internal/compiler/types"
)

// --- Interfaces ---

// Node is implemented only by the types in this package.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
	String() string
	node()
}

// Statement is anything that can appear in a block. Expressions are
// statements too; IsStatement reports whether one may stand on its own.
type Statement interface {
	Node
	IsStatement() bool
}

type Expression interface {
	Statement
	ResultType() types.Type
	expressionNode()
}

// --- Program ---
type Program struct {
	Classes  []*ClassDefinition
	Registry *types.Registry
}

func (p *Program) node() {}
func (p *Program) TokenLiteral() string {
	if len(p.Classes) > 0 {
		return p.Classes[0].TokenLiteral()
	}
	return ""
}
func (p *Program) GetToken() token.Token {
	if len(p.Classes) > 0 {
		return p.Classes[0].Token
	}
	return token.Token{}
}

// String for Program concatenates the string representations of its classes
func (p *Program) String() string {
	var out bytes.Buffer
	for _, c := range p.Classes {
		out.WriteString(c.String())
		out.WriteString("\n")
	}
	return out.String()
}

// --- Definitions ---

// ClassDefinition -> public class Name : Parent { members }
type ClassDefinition struct {
	Token   token.Token // class name
	Info    *types.Info
	Members []Node // *FieldDefinition and *MethodDefinition, in source order
}

func (cd *ClassDefinition) node()                 {}
func (cd *ClassDefinition) TokenLiteral() string  { return cd.Token.Literal }
func (cd *ClassDefinition) GetToken() token.Token { return cd.Token }
func (cd *ClassDefinition) String() string {
	var out bytes.Buffer
	out.WriteString("public class " + cd.Info.Name)
	if cd.Info.Parent != nil {
		out.WriteString(" : " + cd.Info.Parent.Name)
	}
	out.WriteString(" {\n")
	for _, m := range cd.Members {
		out.WriteString("\t" + strings.ReplaceAll(m.String(), "\n", "\n\t") + "\n")
	}
	out.WriteString("}")
	return out.String()
}

// FieldDefinition -> public static int x = 1;
type FieldDefinition struct {
	Token token.Token // field name
	Field *types.Field
	Init  Expression // nil means the type's default
}

func (fd *FieldDefinition) node()                 {}
func (fd *FieldDefinition) TokenLiteral() string  { return fd.Token.Literal }
func (fd *FieldDefinition) GetToken() token.Token { return fd.Token }
func (fd *FieldDefinition) String() string {
	s := "public " + staticPrefix(fd.Field.Static()) + fd.Field.Type().String() + " " + fd.Field.Name()
	if fd.Init != nil {
		s += " = " + fd.Init.String()
	}
	return s + ";"
}

// MethodDefinition -> public static void Main() { body }
type MethodDefinition struct {
	Token  token.Token // method name
	Method *types.Method
	Body   *Block
}

func (md *MethodDefinition) node()                 {}
func (md *MethodDefinition) TokenLiteral() string  { return md.Token.Literal }
func (md *MethodDefinition) GetToken() token.Token { return md.Token }
func (md *MethodDefinition) String() string {
	return "public " + Signature(md.Method) + " " + md.Body.String()
}

// Signature renders a method header without the access modifier.
func Signature(m *types.Method) string {
	params := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		params = append(params, p.Type().String()+" "+p.Name())
	}
	return staticPrefix(m.Static) + m.Output.String() + " " + m.Name + "(" + strings.Join(params, ", ") + ")"
}

func staticPrefix(static bool) string {
	if static {
		return "static "
	}
	return ""
}
