package types

import "testing"

func TestPrimitiveCaps(t *testing.T) {
	tests := []struct {
		info *Info
		caps Caps
		ref  bool
	}{
		{Int, CapArithmetic | CapBitwise | CapLogical | CapOrdered, false},
		{Float, CapArithmetic | CapOrdered, false},
		{Char, CapOrdered, false},
		{Bool, CapLogical, false},
		{String, 0, false},
		{Void, 0, false},
		{Null, 0, true},
	}

	for _, tt := range tests {
		if tt.info.Caps != tt.caps {
			t.Errorf("%s caps = %b, want %b", tt.info.Name, tt.info.Caps, tt.caps)
		}
		if tt.info.IsReference() != tt.ref {
			t.Errorf("%s IsReference = %v, want %v", tt.info.Name, tt.info.IsReference(), tt.ref)
		}
	}

	if v, ok := Int.Default(); !ok || v != int32(0) {
		t.Errorf("int default = %v, %v", v, ok)
	}
	if _, ok := Void.Default(); ok {
		t.Errorf("void must have no default")
	}
}

func TestTypeEquality(t *testing.T) {
	if !Of(Int).Equal(Type{Info: Int}) {
		t.Errorf("int != int")
	}
	if Of(Int).Equal(Of(Int).ArrayOf()) {
		t.Errorf("int == int[]")
	}
	arr := Type{Info: Float, Rank: 2}
	if got := arr.Elem(); !got.Equal(Type{Info: Float, Rank: 1}) {
		t.Errorf("Elem() = %s", got)
	}
	if arr.String() != "float[][]" {
		t.Errorf("String() = %q", arr.String())
	}
	if !arr.IsReference() {
		t.Errorf("arrays are references")
	}
}

func TestAssignable(t *testing.T) {
	r := NewRegistry()
	point, _ := r.Declare("Point")

	tests := []struct {
		dst, src Type
		want     bool
	}{
		{Of(Int), Of(Int), true},
		{Of(Int), Of(Float), false},
		{Of(point), Of(Null), true},
		{Of(Int).ArrayOf(), Of(Null), true},
		{Of(Int), Of(Null), false},
		{Of(String), Of(Null), false},
		{Of(point), Of(point), true},
	}

	for i, tt := range tests {
		if got := Assignable(tt.dst, tt.src); got != tt.want {
			t.Errorf("tests[%d] - Assignable(%s, %s) = %v, want %v", i, tt.dst, tt.src, got, tt.want)
		}
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Declare("A"); err != nil {
		t.Fatalf("Declare(A): %v", err)
	}
	if _, err := r.Declare("A"); err == nil {
		t.Fatalf("duplicate class accepted")
	}
	if _, err := r.Declare("Console"); err == nil {
		t.Fatalf("builtin class name accepted")
	}

	console, ok := r.Lookup(ConsoleClass)
	if !ok {
		t.Fatalf("Console missing")
	}
	write, ok := console.Method(ConsoleWrite)
	if !ok || !write.Static || !write.Builtin || len(write.Params) != 1 {
		t.Fatalf("Console.Write = %+v", write)
	}

	other := NewRegistry()
	oc, _ := other.Lookup(ConsoleClass)
	if oc == console {
		t.Fatalf("registries share class identities")
	}
	if len(r.Classes()) != 1 {
		t.Fatalf("Classes() = %d, want 1", len(r.Classes()))
	}
}

func TestInherit(t *testing.T) {
	r := NewRegistry()
	base, _ := r.Declare("Base")
	derived, _ := r.Declare("Derived")

	x := NewField("x", Of(Int), false, base)
	if err := base.AddField(x); err != nil {
		t.Fatal(err)
	}
	base.AddMethod(&Method{Name: "Get", Output: Of(Int), Owner: base})

	derived.AddField(NewField("y", Of(Int), false, derived))
	derived.Inherit(base)

	if f, ok := derived.Field("x"); !ok || f != x {
		t.Fatalf("inherited field lost its identity")
	}
	if _, ok := derived.Method("Get"); !ok {
		t.Fatalf("inherited method missing")
	}
	if names := derived.Fields(); names[0].Name() != "x" || names[1].Name() != "y" {
		t.Fatalf("field order = %v", names)
	}
	if err := derived.AddField(NewField("Get", Of(Int), false, derived)); err == nil {
		t.Fatalf("field shadowing an inherited method accepted")
	}
	if derived.Parent != base {
		t.Fatalf("Parent = %v, want base", derived.Parent)
	}
}
