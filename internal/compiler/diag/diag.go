// Package diag holds the error categories reported by the tokenizer, the
// parser and the interpreter.
package diag

import (
	"errors"
	"fmt"

	"github.com/arnavsurve/minisharp/internal/compiler/token"
)

type Kind int

const (
	LexicalFault Kind = iota + 1
	SyntaxError
	SemanticError
	RuntimeFault
)

func (k Kind) String() string {
	switch k {
	case LexicalFault:
		return "Lexical fault"
	case SyntaxError:
		return "Syntax error"
	case SemanticError:
		return "Semantic error"
	case RuntimeFault:
		return "Runtime fault"
	default:
		return "Error"
	}
}

type Error struct {
	Kind   Kind
	Pos    token.Pos
	HasPos bool
	Msg    string
}

func (e *Error) Error() string {
	if e.HasPos {
		return fmt.Sprintf("%s %s: %s", e.Pos, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// At builds a positioned error.
func At(kind Kind, pos token.Pos, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, HasPos: true, Msg: fmt.Sprintf(format, args...)}
}

// New builds an error that has no source position.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the category of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}
