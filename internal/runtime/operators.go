package runtime

import (
	"errors"
	"fmt"
	"math"

	"github.com/arnavsurve/minisharp/internal/compiler/token"
)

var errDivideByZero = errors.New("division by zero")

// binary applies an arithmetic, bitwise or relational operator. The parser
// has already unified both operand types.
func binary(op token.Operator, left, right any) (any, error) {
	switch l := left.(type) {
	case int32:
		return intOp(op, l, right.(int32))
	case float32:
		return floatOp(op, l, right.(float32))
	case byte:
		return charOp(op, l, right.(byte))
	}
	return nil, fmt.Errorf("operator '%s' not defined for %T", op, left)
}

// int32 arithmetic wraps on overflow.
func intOp(op token.Operator, l, r int32) (any, error) {
	switch op {
	case token.OpAdd:
		return l + r, nil
	case token.OpSub:
		return l - r, nil
	case token.OpMul:
		return l * r, nil
	case token.OpDiv:
		if r == 0 {
			return nil, errDivideByZero
		}
		return l / r, nil
	case token.OpRem:
		if r == 0 {
			return nil, errDivideByZero
		}
		return l % r, nil
	case token.OpBitAnd:
		return l & r, nil
	case token.OpBitOr:
		return l | r, nil
	case token.OpLt:
		return l < r, nil
	case token.OpGt:
		return l > r, nil
	}
	return nil, fmt.Errorf("operator '%s' not defined for int", op)
}

func floatOp(op token.Operator, l, r float32) (any, error) {
	switch op {
	case token.OpAdd:
		return l + r, nil
	case token.OpSub:
		return l - r, nil
	case token.OpMul:
		return l * r, nil
	case token.OpDiv:
		return l / r, nil
	case token.OpRem:
		return float32(math.Mod(float64(l), float64(r))), nil
	case token.OpLt:
		return l < r, nil
	case token.OpGt:
		return l > r, nil
	}
	return nil, fmt.Errorf("operator '%s' not defined for float", op)
}

func charOp(op token.Operator, l, r byte) (any, error) {
	switch op {
	case token.OpLt:
		return l < r, nil
	case token.OpGt:
		return l > r, nil
	}
	return nil, fmt.Errorf("operator '%s' not defined for char", op)
}
