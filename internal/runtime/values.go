// Package runtime executes a parsed program by walking its tree.
package runtime

import (
	"fmt"
	"strconv"

	"github.com/arnavsurve/minisharp/internal/compiler/types"
)

// Instance is a value slot. Value holds int32, float32, byte, bool, string,
// *Object, *Array, or nil for null.
type Instance struct {
	Value any
}

// Object is a class instance. It owns a slot for every non-static field of
// its class, inherited ones included.
type Object struct {
	Class  *types.Info
	Fields map[*types.Field]*Instance
}

// Array is a fixed-size run of slots of one element type.
type Array struct {
	Elem  types.Type
	Elems []*Instance
}

func newArray(elem types.Type, size int) *Array {
	a := &Array{Elem: elem, Elems: make([]*Instance, size)}
	for i := range a.Elems {
		a.Elems[i] = &Instance{Value: elem.Default()}
	}
	return a
}

func (o *Object) String() string { return o.Class.Name }

func (a *Array) String() string {
	return fmt.Sprintf("%s[%d]", a.Elem, len(a.Elems))
}

// format renders a scalar the way a cast to string does.
func format(v any) string {
	switch v := v.(type) {
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case byte:
		return string([]byte{v})
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	case nil:
		return "null"
	default:
		return fmt.Sprint(v)
	}
}
