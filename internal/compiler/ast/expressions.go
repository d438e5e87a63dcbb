package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/arnavsurve/minisharp/internal/compiler/symbols"
	"github.com/arnavsurve/minisharp/internal/compiler/token"
	"github.com/arnavsurve/minisharp/internal/compiler/types"
)

// --- Expressions ---

// Literal -> 1, 2.5, 'c', "text", true, null
type Literal struct {
	Token     token.Token
	ValueType types.Type
	Value     any // nil for null and for malformed number literals
}

func (l *Literal) node()                  {}
func (l *Literal) expressionNode()        {}
func (l *Literal) IsStatement() bool      { return false }
func (l *Literal) TokenLiteral() string   { return l.Token.Literal }
func (l *Literal) GetToken() token.Token  { return l.Token }
func (l *Literal) ResultType() types.Type { return l.ValueType }
func (l *Literal) String() string         { return l.Token.Literal }

// Malformed reports a number literal whose value could not be represented.
func (l *Literal) Malformed() bool { return l.Token.Tag != token.TagNone }

// VariableReference -> x (a local, a parameter or a field of the current class)
type VariableReference struct {
	Token token.Token
	Var   symbols.Variable
}

func (vr *VariableReference) node()                  {}
func (vr *VariableReference) expressionNode()        {}
func (vr *VariableReference) IsStatement() bool      { return false }
func (vr *VariableReference) TokenLiteral() string   { return vr.Token.Literal }
func (vr *VariableReference) GetToken() token.Token  { return vr.Token }
func (vr *VariableReference) ResultType() types.Type { return vr.Var.Type() }
func (vr *VariableReference) String() string         { return vr.Var.Name() }

// MethodReference -> Foo, a method of the current class named without a target.
// It is only valid as the callee of an Invocation.
type MethodReference struct {
	Token  token.Token
	Method *types.Method
}

func (mr *MethodReference) node()                  {}
func (mr *MethodReference) expressionNode()        {}
func (mr *MethodReference) IsStatement() bool      { return false }
func (mr *MethodReference) TokenLiteral() string   { return mr.Token.Literal }
func (mr *MethodReference) GetToken() token.Token  { return mr.Token }
func (mr *MethodReference) ResultType() types.Type { return mr.Method.Output }
func (mr *MethodReference) String() string         { return mr.Method.Name }

// TypeReference -> Console, a type name used as the target of a member access.
type TypeReference struct {
	Token token.Token
	Info  *types.Info
}

func (tr *TypeReference) node()                  {}
func (tr *TypeReference) expressionNode()        {}
func (tr *TypeReference) IsStatement() bool      { return false }
func (tr *TypeReference) TokenLiteral() string   { return tr.Token.Literal }
func (tr *TypeReference) GetToken() token.Token  { return tr.Token }
func (tr *TypeReference) ResultType() types.Type { return types.Of(tr.Info) }
func (tr *TypeReference) String() string         { return tr.Info.Name }

// UnaryOperation -> -x, !b, ~n
type UnaryOperation struct {
	Token     token.Token // the operator
	Op        token.Operator
	Operand   Expression
	ValueType types.Type
}

func (uo *UnaryOperation) node()                  {}
func (uo *UnaryOperation) expressionNode()        {}
func (uo *UnaryOperation) IsStatement() bool      { return false }
func (uo *UnaryOperation) TokenLiteral() string   { return uo.Token.Literal }
func (uo *UnaryOperation) GetToken() token.Token  { return uo.Token }
func (uo *UnaryOperation) ResultType() types.Type { return uo.ValueType }
func (uo *UnaryOperation) String() string         { return uo.Op.String() + uo.Operand.String() }

// BinaryOperation -> (left op right). Assignment is a BinaryOperation with OpAssign.
type BinaryOperation struct {
	Token     token.Token // the operator
	Op        token.Operator
	Left      Expression
	Right     Expression
	ValueType types.Type
}

func (bo *BinaryOperation) node()                  {}
func (bo *BinaryOperation) expressionNode()        {}
func (bo *BinaryOperation) IsStatement() bool      { return bo.Op == token.OpAssign }
func (bo *BinaryOperation) TokenLiteral() string   { return bo.Token.Literal }
func (bo *BinaryOperation) GetToken() token.Token  { return bo.Token }
func (bo *BinaryOperation) ResultType() types.Type { return bo.ValueType }
func (bo *BinaryOperation) String() string {
	if bo.Op == token.OpAssign {
		return bo.Left.String() + " = " + bo.Right.String()
	}
	return "(" + bo.Left.String() + " " + bo.Op.String() + " " + bo.Right.String() + ")"
}

// ArrayCreation -> new int[n][] { ... }
type ArrayCreation struct {
	Token     token.Token // new
	ValueType types.Type  // the array type, rank >= 1
	Size      Expression
	Elems     []Expression
}

func (ac *ArrayCreation) node()                  {}
func (ac *ArrayCreation) expressionNode()        {}
func (ac *ArrayCreation) IsStatement() bool      { return false }
func (ac *ArrayCreation) TokenLiteral() string   { return ac.Token.Literal }
func (ac *ArrayCreation) GetToken() token.Token  { return ac.Token }
func (ac *ArrayCreation) ResultType() types.Type { return ac.ValueType }
func (ac *ArrayCreation) String() string {
	var out bytes.Buffer
	fmt.Fprintf(&out, "new %s[%s]%s", ac.ValueType.Info.Name, ac.Size.String(), strings.Repeat("[]", ac.ValueType.Rank-1))
	if len(ac.Elems) > 0 {
		out.WriteString(" {" + joinExpressions(ac.Elems) + "}")
	}
	return out.String()
}

// ArrayAccess -> target[index]
type ArrayAccess struct {
	Token  token.Token // [
	Target Expression
	Index  Expression
}

func (aa *ArrayAccess) node()                  {}
func (aa *ArrayAccess) expressionNode()        {}
func (aa *ArrayAccess) IsStatement() bool      { return false }
func (aa *ArrayAccess) TokenLiteral() string   { return aa.Token.Literal }
func (aa *ArrayAccess) GetToken() token.Token  { return aa.Token }
func (aa *ArrayAccess) ResultType() types.Type { return aa.Target.ResultType().Elem() }
func (aa *ArrayAccess) String() string         { return aa.Target.String() + "[" + aa.Index.String() + "]" }

// MemberAccess -> target.Name. Exactly one of Field and Method is set.
type MemberAccess struct {
	Token  token.Token // member name
	Target Expression
	Name   string
	Field  *types.Field
	Method *types.Method
}

func (ma *MemberAccess) node()                 {}
func (ma *MemberAccess) expressionNode()       {}
func (ma *MemberAccess) IsStatement() bool     { return false }
func (ma *MemberAccess) TokenLiteral() string  { return ma.Token.Literal }
func (ma *MemberAccess) GetToken() token.Token { return ma.Token }
func (ma *MemberAccess) ResultType() types.Type {
	if ma.Field != nil {
		return ma.Field.Type()
	}
	return ma.Method.Output
}
func (ma *MemberAccess) String() string { return ma.Target.String() + "." + ma.Name }

// Invocation -> callee(args). The callee is a MethodReference or a
// MemberAccess naming a method.
type Invocation struct {
	Token  token.Token // (
	Callee Expression
	Method *types.Method
	Args   []Expression
}

func (in *Invocation) node()                  {}
func (in *Invocation) expressionNode()        {}
func (in *Invocation) IsStatement() bool      { return true }
func (in *Invocation) TokenLiteral() string   { return in.Token.Literal }
func (in *Invocation) GetToken() token.Token  { return in.Token }
func (in *Invocation) ResultType() types.Type { return in.Method.Output }
func (in *Invocation) String() string {
	return in.Callee.String() + "(" + joinExpressions(in.Args) + ")"
}

// ObjectCreation -> new Name(args). Arguments are evaluated and otherwise ignored.
type ObjectCreation struct {
	Token token.Token // new
	Info  *types.Info
	Args  []Expression
}

func (oc *ObjectCreation) node()                  {}
func (oc *ObjectCreation) expressionNode()        {}
func (oc *ObjectCreation) IsStatement() bool      { return true }
func (oc *ObjectCreation) TokenLiteral() string   { return oc.Token.Literal }
func (oc *ObjectCreation) GetToken() token.Token  { return oc.Token }
func (oc *ObjectCreation) ResultType() types.Type { return types.Of(oc.Info) }
func (oc *ObjectCreation) String() string {
	return "new " + oc.Info.Name + "(" + joinExpressions(oc.Args) + ")"
}

// TypeCast -> (int)x
type TypeCast struct {
	Token   token.Token // (
	To      types.Type
	Operand Expression
}

func (tc *TypeCast) node()                  {}
func (tc *TypeCast) expressionNode()        {}
func (tc *TypeCast) IsStatement() bool      { return false }
func (tc *TypeCast) TokenLiteral() string   { return tc.Token.Literal }
func (tc *TypeCast) GetToken() token.Token  { return tc.Token }
func (tc *TypeCast) ResultType() types.Type { return tc.To }
func (tc *TypeCast) String() string         { return "(" + tc.To.String() + ")" + tc.Operand.String() }

// Parenthesis -> (inner)
type Parenthesis struct {
	Token token.Token // (
	Inner Expression
}

func (pa *Parenthesis) node()                  {}
func (pa *Parenthesis) expressionNode()        {}
func (pa *Parenthesis) IsStatement() bool      { return false }
func (pa *Parenthesis) TokenLiteral() string   { return pa.Token.Literal }
func (pa *Parenthesis) GetToken() token.Token  { return pa.Token }
func (pa *Parenthesis) ResultType() types.Type { return pa.Inner.ResultType() }
func (pa *Parenthesis) String() string         { return "(" + pa.Inner.String() + ")" }

// IsAddressable reports whether e may be the left side of an assignment.
func IsAddressable(e Expression) bool {
	switch e := e.(type) {
	case *VariableReference, *ArrayAccess:
		return true
	case *MemberAccess:
		return e.Field != nil
	default:
		return false
	}
}

func joinExpressions(list []Expression) string {
	parts := make([]string, 0, len(list))
	for _, e := range list {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}
