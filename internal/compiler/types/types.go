// Package types describes the language's types: primitive singletons,
// user classes and arrays of either.
package types

import (
	"fmt"
	"strings"
)

// Caps are the operator families a scalar type supports.
type Caps uint8

const (
	CapArithmetic Caps = 1 << iota
	CapBitwise
	CapLogical
	CapOrdered
)

// Info is a named type. Primitives are package-level singletons; class
// Infos belong to one Registry.
type Info struct {
	Name    string
	Parent  *Info
	Caps    Caps
	Builtin bool

	def        any
	hasDefault bool

	fields    []*Field
	methods   []*Method
	fieldIdx  map[string]*Field
	methodIdx map[string]*Method
}

func newPrimitive(name string, caps Caps, def any) *Info {
	return &Info{Name: name, Caps: caps, def: def, hasDefault: def != nil}
}

// NewClass returns an empty class type.
func NewClass(name string) *Info {
	return &Info{
		Name:      name,
		fieldIdx:  make(map[string]*Field),
		methodIdx: make(map[string]*Method),
	}
}

// --- Primitives ---

var (
	Void   = newPrimitive("void", 0, nil)
	Bool   = newPrimitive("bool", CapLogical, false)
	Char   = newPrimitive("char", CapOrdered, byte(0))
	Int    = newPrimitive("int", CapArithmetic|CapBitwise|CapLogical|CapOrdered, int32(0))
	Float  = newPrimitive("float", CapArithmetic|CapOrdered, float32(0))
	String = newPrimitive("string", 0, "")
	Null   = newPrimitive("null", 0, nil)
)

var primitives = []*Info{Void, Bool, Char, Int, Float, String, Null}

func (i *Info) IsPrimitive() bool {
	for _, p := range primitives {
		if i == p {
			return true
		}
	}
	return false
}

// IsReference reports whether values of the type are references. A type
// with no default value is a reference type; void is neither.
func (i *Info) IsReference() bool {
	return !i.hasDefault && i != Void
}

func (i *Info) Default() (any, bool) {
	return i.def, i.hasDefault
}

func (i *Info) Has(c Caps) bool {
	return i.Caps&c == c
}

// Equal compares two scalar values of this type.
func (i *Info) Equal(a, b any) bool {
	return a == b
}

// --- Members ---

func (i *Info) Fields() []*Field   { return i.fields }
func (i *Info) Methods() []*Method { return i.methods }

func (i *Info) Field(name string) (*Field, bool) {
	f, ok := i.fieldIdx[name]
	return f, ok
}

func (i *Info) Method(name string) (*Method, bool) {
	m, ok := i.methodIdx[name]
	return m, ok
}

// HasMember reports whether name is taken by a field or a method.
func (i *Info) HasMember(name string) bool {
	_, f := i.fieldIdx[name]
	_, m := i.methodIdx[name]
	return f || m
}

func (i *Info) AddField(f *Field) error {
	if i.HasMember(f.name) {
		return fmt.Errorf("identifier %s not unique", f.name)
	}
	i.fields = append(i.fields, f)
	i.fieldIdx[f.name] = f
	return nil
}

func (i *Info) AddMethod(m *Method) error {
	if i.HasMember(m.Name) {
		return fmt.Errorf("identifier %s not unique", m.Name)
	}
	i.methods = append(i.methods, m)
	i.methodIdx[m.Name] = m
	return nil
}

// Inherit copies the parent's members into i, ahead of i's own members.
// The member values are shared, so a field keeps its identity in every
// subclass.
func (i *Info) Inherit(parent *Info) {
	i.Parent = parent
	i.fields = append(append([]*Field(nil), parent.fields...), i.fields...)
	i.methods = append(append([]*Method(nil), parent.methods...), i.methods...)
	for _, f := range parent.fields {
		i.fieldIdx[f.name] = f
	}
	for _, m := range parent.methods {
		i.methodIdx[m.Name] = m
	}
}

// --- Type ---

// Type is an Info plus an array rank. Rank 0 is a scalar.
type Type struct {
	Info *Info
	Rank int
}

func Of(info *Info) Type { return Type{Info: info} }

func (t Type) Equal(o Type) bool {
	return t.Info == o.Info && t.Rank == o.Rank
}

// Is reports whether t is the scalar type info.
func (t Type) Is(info *Info) bool {
	return t.Rank == 0 && t.Info == info
}

func (t Type) IsArray() bool { return t.Rank > 0 }

func (t Type) IsReference() bool {
	return t.Rank > 0 || t.Info.IsReference()
}

// Elem is the type produced by indexing t once.
func (t Type) Elem() Type {
	return Type{Info: t.Info, Rank: t.Rank - 1}
}

func (t Type) ArrayOf() Type {
	return Type{Info: t.Info, Rank: t.Rank + 1}
}

// Default is the zero value of t; nil for references.
func (t Type) Default() any {
	if t.Rank > 0 {
		return nil
	}
	v, _ := t.Info.Default()
	return v
}

func (t Type) Has(c Caps) bool {
	return t.Rank == 0 && t.Info.Has(c)
}

func (t Type) String() string {
	if t.Info == nil {
		return "<none>"
	}
	return t.Info.Name + strings.Repeat("[]", t.Rank)
}

// Assignable reports whether a value of type src may be stored in dst.
func Assignable(dst, src Type) bool {
	if dst.Equal(src) {
		return true
	}
	return dst.IsReference() && src.Is(Null)
}

// Comparable reports whether a and b may be tested with == and !=.
func Comparable(a, b Type) bool {
	return Assignable(a, b) || Assignable(b, a)
}
