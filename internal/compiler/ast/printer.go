package ast

import (
	"bytes"
	"fmt"
	"io"
)

// Fprint writes nodes as an indented tree:
//
//	└─ Binary =
//	  ├─ Variable a
//	  └─ Literal 1
func Fprint(w io.Writer, nodes ...Node) error {
	p := &printer{w: w}
	for i, n := range nodes {
		p.print(n, "", i == len(nodes)-1)
	}
	return p.err
}

// Sprint is Fprint into a string.
func Sprint(nodes ...Node) string {
	var buf bytes.Buffer
	Fprint(&buf, nodes...)
	return buf.String()
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) print(n Node, indent string, last bool) {
	prefix, childIndent := indent+"├─", indent+"│ "
	if last {
		prefix, childIndent = indent+"└─", indent+"  "
	}
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, "%s%s\n", prefix, label(n))
	}

	kids := children(n)
	for i, c := range kids {
		p.print(c, childIndent, i == len(kids)-1)
	}
}

func label(n Node) string {
	switch n := n.(type) {
	case *Program:
		return " Program"
	case *ClassDefinition:
		if n.Info.Parent != nil {
			return " class " + n.Info.Name + " : " + n.Info.Parent.Name
		}
		return " class " + n.Info.Name
	case *FieldDefinition:
		return " field " + staticPrefix(n.Field.Static()) + n.Field.Type().String() + " " + n.Field.Name()
	case *MethodDefinition:
		return " method " + Signature(n.Method)
	case *Literal:
		if n.Malformed() {
			return fmt.Sprintf(" Literal <%s> %s", n.Token.Tag, n.Token.Literal)
		}
		return " Literal " + n.Token.Literal
	case *VariableReference:
		return " Variable " + n.Var.Name()
	case *MethodReference:
		return " Method " + n.Method.Name
	case *TypeReference:
		return " " + n.Info.Name + " TypeReference"
	case *UnaryOperation:
		return " Unary " + n.Op.String()
	case *BinaryOperation:
		return " Binary " + n.Op.String()
	case *ArrayCreation:
		return " new array of " + n.ValueType.String()
	case *ArrayAccess:
		return "[] index child"
	case *MemberAccess:
		return " ." + n.Name
	case *Invocation:
		return " () Invocation"
	case *ObjectCreation:
		return " new " + n.Info.Name + "(... ObjectCreation"
	case *TypeCast:
		return " (" + n.To.String() + ") TypeCast"
	case *Parenthesis:
		return "() Parenthesis"
	case *VariableDefinition:
		return " var " + n.Var.Type().String() + " " + n.Var.Name()
	case *Block:
		return " Block"
	case *If:
		return " If"
	case *For:
		return " For"
	case *While:
		return " While"
	case *Break:
		return " Break"
	case *Return:
		return " Return"
	case *Empty:
		return " ;"
	default:
		return fmt.Sprintf(" %T", n)
	}
}

func children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if !isNil(c) {
				out = append(out, c)
			}
		}
	}

	switch n := n.(type) {
	case *Program:
		for _, c := range n.Classes {
			add(c)
		}
	case *ClassDefinition:
		add(n.Members...)
	case *FieldDefinition:
		add(n.Init)
	case *MethodDefinition:
		for _, s := range n.Body.Statements {
			add(s)
		}
	case *UnaryOperation:
		add(n.Operand)
	case *BinaryOperation:
		add(n.Left, n.Right)
	case *ArrayCreation:
		add(n.Size)
		for _, e := range n.Elems {
			add(e)
		}
	case *ArrayAccess:
		add(n.Index, n.Target)
	case *MemberAccess:
		add(n.Target)
	case *Invocation:
		add(n.Callee)
		for _, e := range n.Args {
			add(e)
		}
	case *ObjectCreation:
		for _, e := range n.Args {
			add(e)
		}
	case *TypeCast:
		add(n.Operand)
	case *Parenthesis:
		add(n.Inner)
	case *VariableDefinition:
		add(n.Init)
	case *Block:
		for _, s := range n.Statements {
			add(s)
		}
	case *If:
		add(n.Cond, n.Then, n.Else)
	case *For:
		add(n.Init, n.Cond, n.Step, n.Body)
	case *While:
		add(n.Cond, n.Body)
	case *Return:
		add(n.Value)
	}
	return out
}

// isNil also catches a nil *VariableDefinition, the one optional part stored
// as a concrete pointer.
func isNil(n Node) bool {
	switch n := n.(type) {
	case nil:
		return true
	case *VariableDefinition:
		return n == nil
	}
	return false
}
