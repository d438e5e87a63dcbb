package diag

import (
	"fmt"
	"testing"

	"github.com/arnavsurve/minisharp/internal/compiler/token"
)

func TestErrorFormat(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{At(SyntaxError, token.Pos{Row: 2, Col: 7}, "'%s' expected, but '%s' found", ";", "}"),
			"(r:2, c:7) Syntax error: ';' expected, but '}' found"},
		{New(RuntimeFault, "division by zero"), "Runtime fault: division by zero"},
		{At(LexicalFault, token.Pos{}, "unsupported character"), "(r:0, c:0) Lexical fault: unsupported character"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("parse main.msh: %w", New(SemanticError, "missing return"))
	if got := KindOf(wrapped); got != SemanticError {
		t.Fatalf("KindOf(wrapped) = %v, want %v", got, SemanticError)
	}
	if got := KindOf(fmt.Errorf("plain")); got != 0 {
		t.Fatalf("KindOf(plain) = %v, want 0", got)
	}
}
