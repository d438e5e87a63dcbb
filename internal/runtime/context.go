package runtime

import (
	"github.com/arnavsurve/minisharp/internal/compiler/symbols"
	"github.com/arnavsurve/minisharp/internal/compiler/types"
)

// Context is one activation: the implicit object (nil in static code), the
// program's static fields, and the locals and parameters of the running
// method.
type Context struct {
	Fields  *Object
	Statics map[*types.Field]*Instance
	Locals  map[symbols.Variable]*Instance
}

func newContext(self *Object, statics map[*types.Field]*Instance) *Context {
	return &Context{
		Fields:  self,
		Statics: statics,
		Locals:  make(map[symbols.Variable]*Instance),
	}
}

// slot finds the storage of v. The parser guarantees v is visible here, so
// a miss is an interpreter bug.
func (c *Context) slot(v symbols.Variable) (*Instance, bool) {
	if f, ok := v.(*types.Field); ok {
		if f.Static() {
			inst, ok := c.Statics[f]
			return inst, ok
		}
		if c.Fields == nil {
			return nil, false
		}
		inst, ok := c.Fields.Fields[f]
		return inst, ok
	}
	inst, ok := c.Locals[v]
	return inst, ok
}

func (c *Context) define(v symbols.Variable, value any) {
	c.Locals[v] = &Instance{Value: value}
}

func (c *Context) forget(v symbols.Variable) {
	delete(c.Locals, v)
}
