package parser

import (
	"strings"
	"testing"

	"github.com/arnavsurve/minisharp/internal/compiler/ast"
	"github.com/arnavsurve/minisharp/internal/compiler/diag"
	"github.com/arnavsurve/minisharp/internal/compiler/token"
	"github.com/arnavsurve/minisharp/internal/compiler/types"
)

// --- Test Helper Functions ---

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	program, err := New("test.msh", []byte(src)).ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram() failed: %v", err)
	}
	if program == nil {
		t.Fatalf("ParseProgram() returned nil")
	}
	return program
}

// findMethod returns the definition of class.name.
func findMethod(t *testing.T, program *ast.Program, class, name string) *ast.MethodDefinition {
	t.Helper()
	for _, c := range program.Classes {
		if c.Info.Name != class {
			continue
		}
		for _, m := range c.Members {
			if md, ok := m.(*ast.MethodDefinition); ok && md.Method.Name == name {
				return md
			}
		}
	}
	t.Fatalf("method %s.%s not found", class, name)
	return nil
}

// inMethod wraps statements in a class with a void method.
func inMethod(body string) string {
	return "public class P {\n  public void Run() {\n" + body + "\n  }\n}\n"
}

func checkBinary(t *testing.T, e ast.Expression, op token.Operator, typ *types.Info) *ast.BinaryOperation {
	t.Helper()
	bin, ok := e.(*ast.BinaryOperation)
	if !ok {
		t.Fatalf("expected *ast.BinaryOperation, got=%T (%s)", e, e)
	}
	if bin.Op != op {
		t.Fatalf("operator expected=%s, got=%s", op, bin.Op)
	}
	if !bin.ResultType().Is(typ) {
		t.Errorf("type of %s expected=%s, got=%s", bin, typ.Name, bin.ResultType())
	}
	return bin
}

func checkVariable(t *testing.T, e ast.Expression, name string) {
	t.Helper()
	ref, ok := e.(*ast.VariableReference)
	if !ok {
		t.Fatalf("expected *ast.VariableReference, got=%T", e)
	}
	if ref.Var.Name() != name {
		t.Errorf("variable expected=%s, got=%s", name, ref.Var.Name())
	}
}

// --- The Test Cases ---

func TestAssignmentPrecedence(t *testing.T) {
	program := parse(t, inMethod(`
    int a; int b; int c; int d; float e;
    a = b && c || d * (int)e;`))

	body := findMethod(t, program, "P", "Run").Body
	if len(body.Statements) != 6 {
		t.Fatalf("body.Statements expected=6 statements, got=%d", len(body.Statements))
	}
	stmt, ok := body.Statements[5].(ast.Expression)
	if !ok {
		t.Fatalf("statement is not an expression. got=%T", body.Statements[5])
	}

	assign := checkBinary(t, stmt, token.OpAssign, types.Int)
	checkVariable(t, assign.Left, "a")

	or := checkBinary(t, assign.Right, token.OpOr, types.Int)
	and := checkBinary(t, or.Left, token.OpAnd, types.Int)
	checkVariable(t, and.Left, "b")
	checkVariable(t, and.Right, "c")

	mul := checkBinary(t, or.Right, token.OpMul, types.Int)
	checkVariable(t, mul.Left, "d")
	cast, ok := mul.Right.(*ast.TypeCast)
	if !ok {
		t.Fatalf("expected *ast.TypeCast, got=%T", mul.Right)
	}
	if !cast.To.Is(types.Int) || !cast.Operand.ResultType().Is(types.Float) {
		t.Errorf("cast expected float -> int, got %s -> %s", cast.Operand.ResultType(), cast.To)
	}

	if got, want := assign.String(), "a = ((b && c) || (d * (int)e))"; got != want {
		t.Errorf("assign.String() expected=%q, got=%q", want, got)
	}
}

func TestRightAssociativeAssignment(t *testing.T) {
	program := parse(t, inMethod(`int a; int b; a = b = 3;`))

	stmt := findMethod(t, program, "P", "Run").Body.Statements[2].(ast.Expression)
	outer := checkBinary(t, stmt, token.OpAssign, types.Int)
	checkVariable(t, outer.Left, "a")
	inner := checkBinary(t, outer.Right, token.OpAssign, types.Int)
	checkVariable(t, inner.Left, "b")
}

func TestLeftAssociativeChain(t *testing.T) {
	program := parse(t, inMethod(`int a; a = 1 - 2 - 3;`))

	stmt := findMethod(t, program, "P", "Run").Body.Statements[1].(ast.Expression)
	assign := checkBinary(t, stmt, token.OpAssign, types.Int)
	outer := checkBinary(t, assign.Right, token.OpSub, types.Int)
	checkBinary(t, outer.Left, token.OpSub, types.Int)
	if _, ok := outer.Right.(*ast.Literal); !ok {
		t.Errorf("right operand expected *ast.Literal, got=%T", outer.Right)
	}
}

func TestComparisonYieldsBool(t *testing.T) {
	program := parse(t, inMethod(`bool x = 1 < 2; bool y = 'a' == 'b'; bool z = true != false;`))

	for i, stmt := range findMethod(t, program, "P", "Run").Body.Statements {
		def := stmt.(*ast.VariableDefinition)
		if !def.Init.ResultType().Is(types.Bool) {
			t.Errorf("statement %d: type expected=bool, got=%s", i, def.Init.ResultType())
		}
	}
}

func TestForwardReferences(t *testing.T) {
	src := `
public class A {
  public static void Main() {
    int n = Twice(B.Base);
    Console.Write((string)n);
  }
  public static int Twice(int x) {
    return x * 2;
  }
}
public class B {
  public static int Base = 21;
}
`
	program := parse(t, src)
	if len(program.Classes) != 2 {
		t.Fatalf("program.Classes expected=2, got=%d", len(program.Classes))
	}

	def := findMethod(t, program, "A", "Main").Body.Statements[0].(*ast.VariableDefinition)
	call, ok := def.Init.(*ast.Invocation)
	if !ok {
		t.Fatalf("initializer expected *ast.Invocation, got=%T", def.Init)
	}
	if call.Method.Name != "Twice" || len(call.Args) != 1 {
		t.Errorf("call expected Twice/1, got %s/%d", call.Method.Name, len(call.Args))
	}
	member, ok := call.Args[0].(*ast.MemberAccess)
	if !ok || member.Field == nil || member.Field.Owner().Name != "B" {
		t.Errorf("argument expected field B.Base, got %s", call.Args[0])
	}
}

func TestInheritance(t *testing.T) {
	src := `
public class Child : Base {
  public int Sum() {
    return x + Get();
  }
}
public class Base {
  public int x = 1;
  public int Get() {
    return x;
  }
}
`
	program := parse(t, src)
	child, ok := program.Registry.Lookup("Child")
	if !ok {
		t.Fatalf("class Child not registered")
	}
	if child.Parent == nil || child.Parent.Name != "Base" {
		t.Fatalf("Child.Parent expected=Base, got=%v", child.Parent)
	}
	f, ok := child.Field("x")
	if !ok {
		t.Fatalf("inherited field x missing")
	}
	if f.Owner().Name != "Base" {
		t.Errorf("field x owner expected=Base, got=%s", f.Owner().Name)
	}
	if len(child.Methods()) != 2 || child.Methods()[0].Name != "Get" {
		t.Errorf("Child methods expected [Get Sum], got %v", child.Methods())
	}
}

func TestBreakInsideConstructs(t *testing.T) {
	parse(t, inMethod(`
    while (true) { break; }
    for (int i = 0; i < 3; i = i + 1) { break; }
    if (true) { break; }`))
}

func TestPrintIsStable(t *testing.T) {
	src := `
public class Shapes {
  public static int[] sizes = new int[3] { 1, 2, 3 };
  public static void Main() {
    int total = 0;
    for (int i = 0; i < 3; i = i + 1) {
      total = total + sizes[i];
    }
    if (total > 5) {
      Console.Write("big");
    } else if (total > 2) {
      Console.Write("medium");
    } else {
      Console.Write("small");
    }
  }
}
`
	first := ast.Sprint(parse(t, src))
	second := ast.Sprint(parse(t, src))
	if first != second {
		t.Fatalf("printing differs between parses:\n%s\n---\n%s", first, second)
	}
	for _, want := range []string{" Program", " class Shapes", " For", " If", " Invocation"} {
		if !strings.Contains(first, want) {
			t.Errorf("tree missing %q:\n%s", want, first)
		}
	}
}

func TestNullToReferences(t *testing.T) {
	program := parse(t, inMethod(`
    P p = null;
    int[] a = null;
    p = null;
    a = null;
    bool b = p == null;`))
	body := findMethod(t, program, "P", "Run").Body
	if len(body.Statements) != 5 {
		t.Fatalf("statements expected=5, got=%d", len(body.Statements))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind diag.Kind
		msg  string
	}{
		{"duplicate local", inMethod(`int x; int x;`), diag.SemanticError, "identifier x not unique"},
		{"local hides parameter",
			"public class P { public void Run(int x) { int x; } }",
			diag.SemanticError, "identifier x not unique"},
		{"local hides field",
			"public class P { public int x; public void Run() { int x; } }",
			diag.SemanticError, "identifier x not unique"},
		{"duplicate member",
			"public class P { public int x; public void x() { } }",
			diag.SemanticError, "identifier x not unique"},
		{"duplicate class",
			"public class P { } public class P { }",
			diag.SemanticError, "type name P is not unique"},
		{"missing return",
			"public class P { public int F() { if (true) { return 1; } } }",
			diag.SemanticError, "missing return"},
		{"break outside construct", inMethod(`break;`), diag.SemanticError, "Break out of loops or ifs"},
		{"unknown type", "public class P { public Foo x; }", diag.SyntaxError, "type 'Foo' not found"},
		{"unknown parent", "public class P : Q { }", diag.SyntaxError, "type 'Q' not found"},
		{"inheritance cycle",
			"public class A : B { } public class B : A { }",
			diag.SemanticError, "inheritance cycle"},
		{"cycle above a class",
			"public class A : B { } public class B : C { } public class C : B { }",
			diag.SemanticError, "inheritance cycle through class B"},
		{"not a statement", inMethod(`1 + 2;`), diag.SemanticError, "is not a statement"},
		{"condition not bool", inMethod(`if (1) { }`), diag.SemanticError, "expected bool"},
		{"mismatched initializer", inMethod(`int x = "s";`), diag.SemanticError, "cannot assign string"},
		{"mismatched operands", inMethod(`int x = 1 + 2.0;`), diag.SemanticError, "operator '+' not defined for int and float"},
		{"not assignable", inMethod(`1 = 2;`), diag.SemanticError, "cannot assign to 1"},
		{"static context",
			"public class P { public int f; public static void M() { f = 1; } }",
			diag.SemanticError, "non-static field f"},
		{"method as value",
			"public class P { public int F() { return 1; } public void M() { int x = F; } }",
			diag.SemanticError, "method F used without invocation"},
		{"type as value", inMethod(`Console;`), diag.SemanticError, "type Console used as a value"},
		{"instance member through type",
			"public class P { public int f; public void M() { int x = P.f; } }",
			diag.SemanticError, "member f of P is not static"},
		{"wrong arity", inMethod(`Console.Write();`), diag.SemanticError, "takes 1 arguments, 0 given"},
		{"wrong argument", inMethod(`Console.Write(1);`), diag.SemanticError, "cannot use int as string"},
		{"bad cast", inMethod(`bool b = (bool)1;`), diag.SemanticError, "cannot cast int to bool"},
		{"index non array", inMethod(`int x; x[0] = 1;`), diag.SemanticError, "cannot index x"},
		{"mismatched array element", inMethod(`int[] a = new int[2] { 1, "x" };`),
			diag.SemanticError, "cannot use string as array element of type int"},
		{"mismatched return value",
			"public class P { public int F() { return \"s\"; } }",
			diag.SemanticError, "cannot return string from method F returning int"},
		{"null to int", inMethod(`int x = null;`), diag.SemanticError, "cannot assign null to variable x of type int"},
		{"null to string", inMethod(`string s = null;`), diag.SemanticError, "cannot assign null to variable s of type string"},
		{"array size type", inMethod(`int[] a = new int[true];`), diag.SemanticError, "array size must be int"},
		{"void variable", inMethod(`void v;`), diag.SemanticError, "type void"},
		{"return value from void", inMethod(`return 1;`), diag.SemanticError, "cannot return a value"},
		{"undeclared", inMethod(`y = 1;`), diag.SemanticError, "identifier y not declared"},
		{"empty parenthesis", inMethod(`int x = ();`), diag.SyntaxError, "empty parenthesis expression"},
		{"missing semicolon", inMethod(`int x = 1`), diag.SyntaxError, "';' expected, but '}' found"},
		{"bad keyword", inMethod(`int x = class;`), diag.SyntaxError, "bad keyword 'class'"},
		{"lexical fault", inMethod(`int x = 1#;`), diag.LexicalFault, "unexpected character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("test.msh", []byte(tt.src)).ParseProgram()
			if err == nil {
				t.Fatalf("expected error containing %q, got none", tt.msg)
			}
			if kind := diag.KindOf(err); kind != tt.kind {
				t.Errorf("kind expected=%s, got=%s (%v)", tt.kind, kind, err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error expected to contain %q, got=%q", tt.msg, err.Error())
			}
		})
	}
}

func TestErrorPosition(t *testing.T) {
	_, err := New("test.msh", []byte("public class P {\n  public Foo x;\n}\n")).ParseProgram()
	if err == nil {
		t.Fatalf("expected an error")
	}
	if got, want := err.Error(), "(r:1, c:9) Syntax error: type 'Foo' not found"; got != want {
		t.Errorf("error expected=%q, got=%q", want, got)
	}
}
