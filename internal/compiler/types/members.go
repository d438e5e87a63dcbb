package types

// Field is a class member variable.
type Field struct {
	name   string
	typ    Type
	static bool
	owner  *Info
}

func NewField(name string, typ Type, static bool, owner *Info) *Field {
	return &Field{name: name, typ: typ, static: static, owner: owner}
}

func (f *Field) Name() string   { return f.name }
func (f *Field) Type() Type     { return f.typ }
func (f *Field) Static() bool   { return f.static }
func (f *Field) Owner() *Info   { return f.owner }
func (f *Field) String() string { return f.owner.Name + "." + f.name }

// Param is a method parameter.
type Param struct {
	name string
	typ  Type
}

func NewParam(name string, typ Type) *Param {
	return &Param{name: name, typ: typ}
}

func (p *Param) Name() string { return p.name }
func (p *Param) Type() Type   { return p.typ }

// Method is a class member function. Builtin methods have no body; the
// interpreter supplies their behaviour.
type Method struct {
	Name    string
	Output  Type
	Params  []*Param
	Static  bool
	Owner   *Info
	Builtin bool
}

func (m *Method) String() string {
	return m.Owner.Name + "." + m.Name
}
