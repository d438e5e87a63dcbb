package scope

import (
	"fmt"

	"github.com/arnavsurve/minisharp/internal/compiler/symbols"
)

// --- Scope ---
type Scope struct {
	Symbols map[string]symbols.Variable
	Outer   *Scope
	Name    string
}

func NewScope(outer *Scope, name string) *Scope {
	return &Scope{
		Symbols: make(map[string]symbols.Variable),
		Outer:   outer,
		Name:    name,
	}
}

// Define adds a variable to the current scope level. The name must not be
// visible from here at all: inner scopes never shadow outer ones.
func (s *Scope) Define(v symbols.Variable) error {
	if _, exists := s.Lookup(v.Name()); exists {
		return fmt.Errorf("identifier %s not unique", v.Name())
	}
	s.Symbols[v.Name()] = v
	return nil
}

// Lookup searches for a variable starting from the current scope and traversing outwards.
func (s *Scope) Lookup(name string) (symbols.Variable, bool) {
	for scope := s; scope != nil; scope = scope.Outer {
		if v, ok := scope.Symbols[name]; ok {
			return v, true
		}
	}
	return nil, false
}
