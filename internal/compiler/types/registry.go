package types

import "fmt"

const (
	ConsoleClass = "Console"
	ConsoleWrite = "Write"
)

// Registry maps type names to Infos for one program. Each registry gets its
// own builtin classes, so separate parses never share class identities.
type Registry struct {
	infos   map[string]*Info
	classes []*Info
}

func NewRegistry() *Registry {
	r := &Registry{infos: make(map[string]*Info)}
	for _, p := range primitives {
		r.infos[p.Name] = p
	}

	console := NewClass(ConsoleClass)
	console.Builtin = true
	console.AddMethod(&Method{
		Name:    ConsoleWrite,
		Output:  Of(Void),
		Params:  []*Param{NewParam("text", Of(String))},
		Static:  true,
		Owner:   console,
		Builtin: true,
	})
	r.infos[console.Name] = console

	return r
}

// Declare admits a new class. Names already taken are rejected.
func (r *Registry) Declare(name string) (*Info, error) {
	if _, exists := r.infos[name]; exists {
		return nil, fmt.Errorf("type name %s is not unique", name)
	}
	info := NewClass(name)
	r.infos[name] = info
	r.classes = append(r.classes, info)
	return info, nil
}

func (r *Registry) Lookup(name string) (*Info, bool) {
	info, ok := r.infos[name]
	return info, ok
}

// Classes returns the user classes in declaration order.
func (r *Registry) Classes() []*Info {
	return r.classes
}
