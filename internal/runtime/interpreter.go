package runtime

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/arnavsurve/minisharp/internal/compiler/ast"
	"github.com/arnavsurve/minisharp/internal/compiler/diag"
	"github.com/arnavsurve/minisharp/internal/compiler/token"
	"github.com/arnavsurve/minisharp/internal/compiler/types"
)

// EntryPoint is the name of the method a program starts in.
const EntryPoint = "Main"

const defaultMaxDepth = 10000

type Interpreter struct {
	out      io.Writer
	maxDepth int

	ctx     context.Context
	stack   []*Context
	statics map[*types.Field]*Instance

	bodies     map[*types.Method]*ast.MethodDefinition
	fieldInits map[*types.Field]ast.Expression
}

type Option func(*Interpreter)

// WithOutput sends Console.Write output to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) { in.out = w }
}

// WithMaxDepth bounds the invocation stack; deeper calls are a runtime fault.
func WithMaxDepth(n int) Option {
	return func(in *Interpreter) { in.maxDepth = n }
}

func New(opts ...Option) *Interpreter {
	in := &Interpreter{out: os.Stdout, maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// flow tells the enclosing statements that a return is unwinding.
type flow struct {
	returning bool
	value     Instance
}

// --- Program Execution ---

// Execute validates the entry point, initializes static fields in class
// order and runs Main. The context is polled at every loop iteration and
// invocation.
func (in *Interpreter) Execute(ctx context.Context, program *ast.Program) error {
	in.ctx = ctx
	in.stack = nil
	in.indexProgram(program)

	entry, err := findEntryPoint(program)
	if err != nil {
		return err
	}
	if err := in.initStatics(program); err != nil {
		return err
	}

	var self *Object
	if !entry.Static {
		if self, err = in.newObject(entry.Owner, in.bodies[entry].Token); err != nil {
			return err
		}
	}
	_, err = in.call(entry, self, nil)
	return err
}

// indexProgram records method bodies and field initializers by symbol.
func (in *Interpreter) indexProgram(program *ast.Program) {
	in.bodies = make(map[*types.Method]*ast.MethodDefinition)
	in.fieldInits = make(map[*types.Field]ast.Expression)
	for _, class := range program.Classes {
		for _, member := range class.Members {
			switch m := member.(type) {
			case *ast.MethodDefinition:
				in.bodies[m.Method] = m
			case *ast.FieldDefinition:
				if m.Init != nil {
					in.fieldInits[m.Field] = m.Init
				}
			}
		}
	}
}

func findEntryPoint(program *ast.Program) (*types.Method, error) {
	var entry *types.Method
	for _, class := range program.Registry.Classes() {
		for _, f := range class.Fields() {
			if f.Owner() == class && f.Name() == EntryPoint {
				return nil, diag.New(diag.SemanticError, "identifier '%s' not available for class field", EntryPoint)
			}
		}
		m, ok := class.Method(EntryPoint)
		if !ok || m.Owner != class {
			continue
		}
		if entry != nil {
			return nil, diag.New(diag.SemanticError, "multiple program entry points")
		}
		entry = m
	}

	switch {
	case entry == nil:
		return nil, diag.New(diag.SemanticError, "no program entry point '%s'", EntryPoint)
	case !entry.Output.Is(types.Void):
		return nil, diag.New(diag.SemanticError, "entry point invalid type %s", entry.Output)
	case len(entry.Params) != 0:
		return nil, diag.New(diag.SemanticError, "entry point invalid params count %d", len(entry.Params))
	}
	return entry, nil
}

// initStatics gives every static field its default, then runs the static
// initializers once each, in class declaration order.
func (in *Interpreter) initStatics(program *ast.Program) error {
	in.statics = make(map[*types.Field]*Instance)
	for _, class := range program.Registry.Classes() {
		for _, f := range class.Fields() {
			if f.Static() && f.Owner() == class {
				in.statics[f] = &Instance{Value: f.Type().Default()}
			}
		}
	}

	in.push(newContext(nil, in.statics))
	defer in.pop()
	for _, class := range program.Classes {
		for _, member := range class.Members {
			def, ok := member.(*ast.FieldDefinition)
			if !ok || !def.Field.Static() || def.Init == nil {
				continue
			}
			v, err := in.eval(def.Init)
			if err != nil {
				return err
			}
			in.statics[def.Field].Value = v.Value
		}
	}
	return nil
}

// newObject creates an instance with default fields and runs the instance
// initializers, parent fields first. Initializers count against the call
// depth like method bodies do.
func (in *Interpreter) newObject(class *types.Info, at token.Token) (*Object, error) {
	if err := in.checkCancelled(); err != nil {
		return nil, err
	}
	if len(in.stack) >= in.maxDepth {
		return nil, fault(at, "stack overflow creating %s", class.Name)
	}

	obj := &Object{Class: class, Fields: make(map[*types.Field]*Instance)}
	for _, f := range class.Fields() {
		if !f.Static() {
			obj.Fields[f] = &Instance{Value: f.Type().Default()}
		}
	}

	in.push(newContext(obj, in.statics))
	defer in.pop()
	for _, f := range class.Fields() {
		init, ok := in.fieldInits[f]
		if !ok || f.Static() {
			continue
		}
		v, err := in.eval(init)
		if err != nil {
			return nil, err
		}
		obj.Fields[f].Value = v.Value
	}
	return obj, nil
}

// --- Context Stack ---

func (in *Interpreter) push(c *Context) { in.stack = append(in.stack, c) }
func (in *Interpreter) pop()            { in.stack = in.stack[:len(in.stack)-1] }
func (in *Interpreter) current() *Context {
	return in.stack[len(in.stack)-1]
}

func (in *Interpreter) checkCancelled() error {
	if err := in.ctx.Err(); err != nil {
		return fmt.Errorf("execution stopped: %w", err)
	}
	return nil
}

func fault(tok token.Token, format string, args ...any) error {
	return diag.At(diag.RuntimeFault, tok.Pos, format, args...)
}

// --- Invocation ---

// call runs m with self as the implicit object (nil for static methods).
func (in *Interpreter) call(m *types.Method, self *Object, args []Instance) (Instance, error) {
	if err := in.checkCancelled(); err != nil {
		return Instance{}, err
	}
	if m.Builtin {
		return in.callBuiltin(m, args)
	}
	def, ok := in.bodies[m]
	if !ok {
		return Instance{}, diag.New(diag.RuntimeFault, "method %s has no body", m)
	}
	if len(in.stack) >= in.maxDepth {
		return Instance{}, fault(def.Token, "stack overflow in %s", m)
	}

	frame := newContext(self, in.statics)
	for i, p := range m.Params {
		frame.define(p, args[i].Value)
	}
	in.push(frame)
	defer in.pop()

	f, err := in.execBlock(def.Body)
	if err != nil {
		return Instance{}, err
	}
	return f.value, nil
}

func (in *Interpreter) callBuiltin(m *types.Method, args []Instance) (Instance, error) {
	switch {
	case m.Owner.Name == types.ConsoleClass && m.Name == types.ConsoleWrite:
		text, _ := args[0].Value.(string)
		if _, err := io.WriteString(in.out, text); err != nil {
			return Instance{}, fmt.Errorf("console write: %w", err)
		}
		return Instance{}, nil
	default:
		return Instance{}, diag.New(diag.RuntimeFault, "builtin %s is not implemented", m)
	}
}

// --- Execute Statements ---

func (in *Interpreter) execStatement(stmt ast.Statement) (flow, error) {
	switch s := stmt.(type) {
	case *ast.Block:
		return in.execBlock(s)
	case *ast.VariableDefinition:
		return flow{}, in.execVariableDefinition(s)
	case *ast.If:
		return in.execIf(s)
	case *ast.For:
		return in.execFor(s)
	case *ast.While:
		return in.execWhile(s)
	case *ast.Return:
		return in.execReturn(s)
	case *ast.Break:
		return flow{}, fault(s.Token, "break is not supported at run time")
	case *ast.Empty:
		return flow{}, nil
	case ast.Expression:
		_, err := in.eval(s)
		return flow{}, err
	default:
		return flow{}, fmt.Errorf("interpreter encountered unknown statement type: %T", stmt)
	}
}

// execBlock runs the statements in order, then drops the locals the block
// declared.
func (in *Interpreter) execBlock(b *ast.Block) (flow, error) {
	ctx := in.current()
	for _, stmt := range b.Statements {
		if def, ok := stmt.(*ast.VariableDefinition); ok {
			defer ctx.forget(def.Var)
		}
		f, err := in.execStatement(stmt)
		if err != nil || f.returning {
			return f, err
		}
	}
	return flow{}, nil
}

func (in *Interpreter) execVariableDefinition(s *ast.VariableDefinition) error {
	value := s.Var.Type().Default()
	if s.Init != nil {
		v, err := in.eval(s.Init)
		if err != nil {
			return err
		}
		value = v.Value
	}
	in.current().define(s.Var, value)
	return nil
}

func (in *Interpreter) evalBool(e ast.Expression) (bool, error) {
	v, err := in.eval(e)
	if err != nil {
		return false, err
	}
	b, _ := v.Value.(bool)
	return b, nil
}

func (in *Interpreter) execIf(s *ast.If) (flow, error) {
	cond, err := in.evalBool(s.Cond)
	if err != nil {
		return flow{}, err
	}
	if cond {
		return in.execStatement(s.Then)
	}
	if s.Else != nil {
		return in.execStatement(s.Else)
	}
	return flow{}, nil
}

func (in *Interpreter) execFor(s *ast.For) (flow, error) {
	if s.Init != nil {
		if err := in.execVariableDefinition(s.Init); err != nil {
			return flow{}, err
		}
		defer in.current().forget(s.Init.Var)
	}
	for {
		if err := in.checkCancelled(); err != nil {
			return flow{}, err
		}
		if s.Cond != nil {
			cond, err := in.evalBool(s.Cond)
			if err != nil || !cond {
				return flow{}, err
			}
		}
		f, err := in.execBlock(s.Body)
		if err != nil || f.returning {
			return f, err
		}
		if s.Step != nil {
			if _, err := in.eval(s.Step); err != nil {
				return flow{}, err
			}
		}
	}
}

func (in *Interpreter) execWhile(s *ast.While) (flow, error) {
	for {
		if err := in.checkCancelled(); err != nil {
			return flow{}, err
		}
		cond, err := in.evalBool(s.Cond)
		if err != nil || !cond {
			return flow{}, err
		}
		f, err := in.execBlock(s.Body)
		if err != nil || f.returning {
			return f, err
		}
	}
}

func (in *Interpreter) execReturn(s *ast.Return) (flow, error) {
	f := flow{returning: true}
	if s.Value != nil {
		v, err := in.eval(s.Value)
		if err != nil {
			return flow{}, err
		}
		f.value = v
	}
	return f, nil
}
