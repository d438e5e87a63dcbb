package symbols

import "github.com/arnavsurve/minisharp/internal/compiler/types"

// Variable is anything an identifier can name and hold a value in: a field,
// a parameter or a local.
type Variable interface {
	Name() string
	Type() types.Type
}

var (
	_ Variable = (*types.Field)(nil)
	_ Variable = (*types.Param)(nil)
	_ Variable = (*Local)(nil)
)

// Local is a variable declared inside a method body.
type Local struct {
	name string
	typ  types.Type
}

func NewLocal(name string, typ types.Type) *Local {
	return &Local{name: name, typ: typ}
}

func (l *Local) Name() string     { return l.name }
func (l *Local) Type() types.Type { return l.typ }
