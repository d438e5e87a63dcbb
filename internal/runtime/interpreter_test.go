package runtime

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/arnavsurve/minisharp/internal/compiler/diag"
	"github.com/arnavsurve/minisharp/internal/compiler/parser"
)

// --- Test Helper Functions ---

// run parses src and executes it, returning what the program wrote.
func run(t *testing.T, ctx context.Context, src string, opts ...Option) (string, error) {
	t.Helper()
	program, err := parser.New("test.msh", []byte(src)).ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram() failed: %v", err)
	}
	var out bytes.Buffer
	err = New(append(opts, WithOutput(&out))...).Execute(ctx, program)
	return out.String(), err
}

func checkOutput(t *testing.T, src, want string) {
	t.Helper()
	got, err := run(t, context.Background(), src)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if got != want {
		t.Errorf("output expected=%q, got=%q", want, got)
	}
}

// mainBody wraps statements in a static Main of class P, which also has an
// instance field f.
func mainBody(body string) string {
	return "public class P {\n  public int f;\n  public static void Main() {\n" + body + "\n  }\n}\n"
}

// --- The Test Cases ---

func TestConsoleWrite(t *testing.T) {
	checkOutput(t, mainBody(`Console.Write("Hello, world");`), "Hello, world")
}

func TestOperators(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"7 / 2", "3"},
		{"7 % 3", "1"},
		{"0 - 7 / 2", "-3"},
		{"1.5 * 2.0", "3"},
		{"1.0 / 4.0", "0.25"},
		{"7.5 % 2.0", "1.5"},
		{"2147483647 + 1", "-2147483648"},
		{"0xffffffff", "-1"},
		{"(int)2.9", "2"},
		{"(int)'A'", "65"},
		{"(char)66", "B"},
		{"(float)3", "3"},
		{"'a' < 'b'", "true"},
		{"2.5 > 3.0", "false"},
		{"3 && 0", "0"},
		{"0 || 5", "1"},
		{"!0", "1"},
		{"~0", "-1"},
		{"6 & 3 | 8", "10"},
		{"1 + 2 * 3", "7"},
		{"(1 + 2) * 3", "9"},
		{"-(2 - 5)", "3"},
		{"1 == 1 && 2 != 3", "true"},
		{"!(1 < 2)", "false"},
		{"\"ab\" == \"ab\"", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			checkOutput(t, mainBody("Console.Write((string)("+tt.expr+"));"), tt.want)
		})
	}
}

func TestShortCircuit(t *testing.T) {
	src := `
public class P {
  public static int calls;
  public static bool Touch() {
    calls = calls + 1;
    return true;
  }
  public static void Main() {
    bool a = false && Touch();
    bool b = true || Touch();
    bool c = true && Touch();
    Console.Write((string)calls);
  }
}
`
	checkOutput(t, src, "1")
}

func TestControlFlow(t *testing.T) {
	src := `
public class P {
  public static int Fact(int n) {
    if (n < 2) {
      return 1;
    }
    return n * Fact(n - 1);
  }
  public static string Size(int n) {
    if (n > 100) {
      return "big";
    } else if (n > 10) {
      return "medium";
    } else {
      return "small";
    }
    return "unreachable";
  }
  public static void Main() {
    int sum = 0;
    for (int i = 0; i < 5; i = i + 1) {
      sum = sum + i;
    }
    int k = 3;
    while (k > 0) {
      k = k - 1;
    }
    Console.Write((string)sum);
    Console.Write(",");
    Console.Write((string)k);
    Console.Write(",");
    Console.Write((string)Fact(5));
    Console.Write(",");
    Console.Write(Size(50));
  }
}
`
	checkOutput(t, src, "10,0,120,medium")
}

func TestLocalsStartFresh(t *testing.T) {
	checkOutput(t, mainBody(`
    for (int i = 0; i < 3; i = i + 1) {
      int x;
      x = x + 1;
      Console.Write((string)x);
    }`), "111")
}

func TestObjects(t *testing.T) {
	src := `
public class Counter {
  public int count = 10;
  public void Add(int n) {
    count = count + n;
  }
  public int Get() {
    return count;
  }
}
public class Program {
  public static Counter shared = new Counter();
  public void Main() {
    Counter c = new Counter();
    c.Add(5);
    shared.Add(1);
    Console.Write((string)c.Get());
    Console.Write(" ");
    Console.Write((string)shared.count);
    Counter alias = c;
    Console.Write(" ");
    Console.Write((string)(alias == c));
    Console.Write((string)(c == new Counter()));
    Console.Write((string)(shared != null));
  }
}
`
	checkOutput(t, src, "15 11 truefalsetrue")
}

func TestInheritedMembers(t *testing.T) {
	src := `
public class Dog : Animal {
  public string sound = "woof";
  public static void Main() {
    Dog d = new Dog();
    Console.Write(d.Name());
    Console.Write(d.sound);
  }
}
public class Animal {
  public string name = "animal";
  public string Name() {
    return name;
  }
}
`
	checkOutput(t, src, "animalwoof")
}

func TestArrays(t *testing.T) {
	checkOutput(t, mainBody(`
    int[] a = new int[3] { 4, 5 };
    a[2] = a[0] + a[1];
    Console.Write((string)a[2]);
    int[][] grid = new int[2][];
    grid[0] = new int[1];
    grid[0][0] = 7;
    Console.Write((string)grid[0][0]);
    Console.Write((string)(grid[1] == null));`), "97true")
}

func TestStaticInitOrder(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"declared before use", `
public class A { public static int x = 1; }
public class B {
  public static int y = A.x + 1;
  public static void Main() { Console.Write((string)B.y); }
}
`, "2"},
		{"declared after use", `
public class B {
  public static int y = A.x + 1;
  public static void Main() { Console.Write((string)y); }
}
public class A { public static int x = 1; }
`, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkOutput(t, tt.src, tt.want)
		})
	}
}

func TestRuntimeFaults(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"division by zero", `int z = 0; int x = 1 / z;`, "division by zero"},
		{"remainder by zero", `int z = 0; int x = 1 % z;`, "division by zero"},
		{"null object", `P p = null; p.f = 1;`, "null dereference: p"},
		{"null array", `int[] a; a[0] = 1;`, "null dereference: a"},
		{"index out of range", `int[] a = new int[2]; a[2] = 1;`, "index 2 out of range [0, 2)"},
		{"negative size", `int[] a = new int[0 - 1];`, "negative array size -1"},
		{"too many elements", `int[] a = new int[1] { 1, 2 };`, "array initializer has 2 elements"},
		{"break", `while (true) { break; }`, "break is not supported at run time"},
		{"overflowed literal", `int x = 2147483648;`, "malformed literal 2147483648 (overflow)"},
		{"malformed float", `float x = 1.;`, "malformed literal 1. (format)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, context.Background(), mainBody(tt.body))
			if err == nil {
				t.Fatalf("expected error containing %q, got none", tt.msg)
			}
			if kind := diag.KindOf(err); kind != diag.RuntimeFault {
				t.Errorf("kind expected=%s, got=%s (%v)", diag.RuntimeFault, kind, err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error expected to contain %q, got=%q", tt.msg, err.Error())
			}
		})
	}
}

func TestOutputBeforeFault(t *testing.T) {
	out, err := run(t, context.Background(), mainBody(`Console.Write("before"); int z = 0; z = 1 / z;`))
	if err == nil {
		t.Fatalf("expected a runtime fault")
	}
	if out != "before" {
		t.Errorf("output expected=%q, got=%q", "before", out)
	}
}

func TestEntryPointErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"none", "public class A { public static void Run() { } }", "no program entry point"},
		{"several",
			"public class A { public static void Main() { } } public class B { public static void Main() { } }",
			"multiple program entry points"},
		{"not void", "public class A { public static int Main() { return 0; } }", "entry point invalid type"},
		{"parameters", "public class A { public static void Main(int x) { } }", "entry point invalid params count"},
		{"field", "public class A { public int Main; } public class B { public static void Main() { } }",
			"not available for class field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, context.Background(), tt.src)
			if err == nil {
				t.Fatalf("expected error containing %q, got none", tt.msg)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error expected to contain %q, got=%q", tt.msg, err.Error())
			}
		})
	}
}

func TestInheritedMainIsNotDuplicated(t *testing.T) {
	src := `
public class Base {
  public static void Main() { Console.Write("base"); }
}
public class Derived : Base { }
`
	checkOutput(t, src, "base")
}

func TestStackOverflow(t *testing.T) {
	src := `
public class P {
  public static void Loop() { Loop(); }
  public static void Main() { Loop(); }
}
`
	_, err := run(t, context.Background(), src, WithMaxDepth(50))
	if err == nil || !strings.Contains(err.Error(), "stack overflow in P.Loop") {
		t.Fatalf("expected stack overflow, got=%v", err)
	}
}

func TestRecursiveFieldInitializer(t *testing.T) {
	src := `
public class Node {
  public Node next = new Node();
}
public class P {
  public static void Main() {
    Node n = new Node();
  }
}
`
	_, err := run(t, context.Background(), src, WithMaxDepth(50))
	if err == nil || !strings.Contains(err.Error(), "stack overflow creating Node") {
		t.Fatalf("expected stack overflow, got=%v", err)
	}
	if kind := diag.KindOf(err); kind != diag.RuntimeFault {
		t.Errorf("kind expected=%s, got=%s", diag.RuntimeFault, kind)
	}
}

func TestCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := run(t, ctx, mainBody(`while (true) { }`))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got=%v", err)
	}
}
