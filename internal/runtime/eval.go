package runtime

import (
	"fmt"

	"github.com/arnavsurve/minisharp/internal/compiler/ast"
	"github.com/arnavsurve/minisharp/internal/compiler/token"
	"github.com/arnavsurve/minisharp/internal/compiler/types"
)

// --- Evaluate Expressions ---

func (in *Interpreter) eval(expr ast.Expression) (Instance, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		if e.Malformed() {
			return Instance{}, fault(e.Token, "malformed literal %s (%s)", e.Token.Literal, e.Token.Tag)
		}
		return Instance{Value: e.Value}, nil
	case *ast.VariableReference, *ast.ArrayAccess, *ast.MemberAccess:
		slot, err := in.locate(expr)
		if err != nil {
			return Instance{}, err
		}
		return *slot, nil
	case *ast.Parenthesis:
		return in.eval(e.Inner)
	case *ast.UnaryOperation:
		return in.evalUnary(e)
	case *ast.BinaryOperation:
		if e.Op == token.OpAssign {
			return in.evalAssignment(e)
		}
		return in.evalBinary(e)
	case *ast.TypeCast:
		v, err := in.eval(e.Operand)
		if err != nil {
			return Instance{}, err
		}
		return Instance{Value: convert(v.Value, e.To.Info)}, nil
	case *ast.Invocation:
		return in.evalInvocation(e)
	case *ast.ObjectCreation:
		if _, err := in.evalArgs(e.Args); err != nil {
			return Instance{}, err
		}
		obj, err := in.newObject(e.Info, e.Token)
		if err != nil {
			return Instance{}, err
		}
		return Instance{Value: obj}, nil
	case *ast.ArrayCreation:
		return in.evalArrayCreation(e)
	default:
		return Instance{}, fmt.Errorf("interpreter cannot evaluate %T", expr)
	}
}

// locate returns the slot an addressable expression names.
func (in *Interpreter) locate(expr ast.Expression) (*Instance, error) {
	switch e := expr.(type) {
	case *ast.VariableReference:
		slot, ok := in.current().slot(e.Var)
		if !ok {
			return nil, fault(e.Token, "variable %s has no storage", e.Var.Name())
		}
		return slot, nil

	case *ast.ArrayAccess:
		target, err := in.eval(e.Target)
		if err != nil {
			return nil, err
		}
		arr, _ := target.Value.(*Array)
		if arr == nil {
			return nil, fault(e.Token, "null dereference: %s", e.Target)
		}
		index, err := in.eval(e.Index)
		if err != nil {
			return nil, err
		}
		i := index.Value.(int32)
		if i < 0 || int(i) >= len(arr.Elems) {
			return nil, fault(e.Token, "index %d out of range [0, %d)", i, len(arr.Elems))
		}
		return arr.Elems[i], nil

	case *ast.MemberAccess:
		if e.Field == nil {
			return nil, fault(e.Token, "method %s used as a value", e.Name)
		}
		if e.Field.Static() {
			if err := in.evalForEffect(e.Target); err != nil {
				return nil, err
			}
			return in.statics[e.Field], nil
		}
		obj, err := in.evalObject(e.Target, e.Token)
		if err != nil {
			return nil, err
		}
		return obj.Fields[e.Field], nil

	default:
		return nil, fmt.Errorf("interpreter cannot assign to %T", expr)
	}
}

// evalForEffect evaluates the target of a static member access unless it is
// a bare type name.
func (in *Interpreter) evalForEffect(target ast.Expression) error {
	if _, isType := target.(*ast.TypeReference); isType {
		return nil
	}
	_, err := in.eval(target)
	return err
}

func (in *Interpreter) evalObject(target ast.Expression, at token.Token) (*Object, error) {
	v, err := in.eval(target)
	if err != nil {
		return nil, err
	}
	obj, _ := v.Value.(*Object)
	if obj == nil {
		return nil, fault(at, "null dereference: %s", target)
	}
	return obj, nil
}

func (in *Interpreter) evalAssignment(e *ast.BinaryOperation) (Instance, error) {
	slot, err := in.locate(e.Left)
	if err != nil {
		return Instance{}, err
	}
	v, err := in.eval(e.Right)
	if err != nil {
		return Instance{}, err
	}
	slot.Value = v.Value
	return v, nil
}

func (in *Interpreter) evalArgs(args []ast.Expression) ([]Instance, error) {
	values := make([]Instance, 0, len(args))
	for _, a := range args {
		v, err := in.eval(a)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func (in *Interpreter) evalInvocation(e *ast.Invocation) (Instance, error) {
	var self *Object
	switch callee := e.Callee.(type) {
	case *ast.MethodReference:
		if !e.Method.Static {
			self = in.current().Fields
		}
	case *ast.MemberAccess:
		if e.Method.Static {
			if err := in.evalForEffect(callee.Target); err != nil {
				return Instance{}, err
			}
			break
		}
		obj, err := in.evalObject(callee.Target, callee.Token)
		if err != nil {
			return Instance{}, err
		}
		self = obj
	}

	args, err := in.evalArgs(e.Args)
	if err != nil {
		return Instance{}, err
	}
	return in.call(e.Method, self, args)
}

func (in *Interpreter) evalArrayCreation(e *ast.ArrayCreation) (Instance, error) {
	size, err := in.eval(e.Size)
	if err != nil {
		return Instance{}, err
	}
	n := size.Value.(int32)
	if n < 0 {
		return Instance{}, fault(e.Token, "negative array size %d", n)
	}
	if len(e.Elems) > int(n) {
		return Instance{}, fault(e.Token, "array initializer has %d elements, size is %d", len(e.Elems), n)
	}

	arr := newArray(e.ValueType.Elem(), int(n))
	for i, elem := range e.Elems {
		v, err := in.eval(elem)
		if err != nil {
			return Instance{}, err
		}
		arr.Elems[i].Value = v.Value
	}
	return Instance{Value: arr}, nil
}

// --- Operators ---

func (in *Interpreter) evalUnary(e *ast.UnaryOperation) (Instance, error) {
	v, err := in.eval(e.Operand)
	if err != nil {
		return Instance{}, err
	}
	switch x := v.Value.(type) {
	case int32:
		switch e.Op {
		case token.OpAdd:
			return v, nil
		case token.OpSub:
			return Instance{Value: -x}, nil
		case token.OpNot:
			return Instance{Value: boolInt(x == 0)}, nil
		case token.OpBitNot:
			return Instance{Value: ^x}, nil
		}
	case float32:
		switch e.Op {
		case token.OpAdd:
			return v, nil
		case token.OpSub:
			return Instance{Value: -x}, nil
		}
	case bool:
		if e.Op == token.OpNot {
			return Instance{Value: !x}, nil
		}
	}
	return Instance{}, fault(e.Token, "operator '%s' not defined for %s", e.Op, e.ValueType)
}

func (in *Interpreter) evalBinary(e *ast.BinaryOperation) (Instance, error) {
	left, err := in.eval(e.Left)
	if err != nil {
		return Instance{}, err
	}

	// && and || skip the right side once the left decides
	if e.Op == token.OpAnd || e.Op == token.OpOr {
		if truthy(left.Value) == (e.Op == token.OpOr) {
			return Instance{Value: logical(left.Value, truthy(left.Value))}, nil
		}
		right, err := in.eval(e.Right)
		if err != nil {
			return Instance{}, err
		}
		return Instance{Value: logical(right.Value, truthy(right.Value))}, nil
	}

	right, err := in.eval(e.Right)
	if err != nil {
		return Instance{}, err
	}
	if e.Op.Has(token.OpEquality) {
		eq := e.Left.ResultType().Info.Equal(left.Value, right.Value)
		return Instance{Value: eq == (e.Op == token.OpEq)}, nil
	}

	v, err := binary(e.Op, left.Value, right.Value)
	if err != nil {
		return Instance{}, fault(e.Token, "%s", err)
	}
	return Instance{Value: v}, nil
}

// truthy reads a logical operand: bool as is, int as non-zero.
func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case int32:
		return x != 0
	}
	return false
}

// logical shapes a logical result like its operand: bool stays bool, int
// becomes 0 or 1.
func logical(operand any, result bool) any {
	if _, isInt := operand.(int32); isInt {
		return boolInt(result)
	}
	return result
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// convert applies a checked cast to a scalar value.
func convert(v any, to *types.Info) any {
	if to == types.String {
		return format(v)
	}
	var n float64
	var whole int32
	switch x := v.(type) {
	case int32:
		n, whole = float64(x), x
	case float32:
		n, whole = float64(x), int32(x)
	case byte:
		n, whole = float64(x), int32(x)
	default:
		return v
	}
	switch to {
	case types.Int:
		return whole
	case types.Float:
		return float32(n)
	case types.Char:
		return byte(whole)
	}
	return v
}
