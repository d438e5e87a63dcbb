package parser

import (
	"github.com/arnavsurve/minisharp/internal/compiler/ast"
	"github.com/arnavsurve/minisharp/internal/compiler/token"
	"github.com/arnavsurve/minisharp/internal/compiler/types"
)

// --- Expression Parsing ---

// binaryLevels lists the left-associative operator families from the
// loosest to the tightest binding.
var binaryLevels = []token.Operator{
	token.OpOr,
	token.OpAnd,
	token.OpBitOr,
	token.OpBitAnd,
	token.OpEquality,
	token.OpRelational,
	token.OpAdditive,
	token.OpMultiplicative,
}

// parseExpression parses an assignment, the loosest form. Assignment is
// right-associative.
func (p *Parser) parseExpression() (ast.Expression, error) {
	left, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if !p.curTok.IsOp(token.OpAssign) {
		return left, nil
	}

	opTok := p.curTok
	if !ast.IsAddressable(left) {
		return nil, p.semanticError(opTok, "cannot assign to %s", left)
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	right, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !types.Assignable(left.ResultType(), right.ResultType()) {
		return nil, p.semanticError(opTok, "cannot assign %s to %s of type %s",
			right.ResultType(), left, left.ResultType())
	}
	return &ast.BinaryOperation{
		Token:     opTok,
		Op:        token.OpAssign,
		Left:      left,
		Right:     right,
		ValueType: left.ResultType(),
	}, nil
}

func (p *Parser) parseBinary(level int) (ast.Expression, error) {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}
	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for p.curTok.IsOp(binaryLevels[level]) {
		opTok := p.curTok
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		typ, err := p.binaryType(opTok, left, right)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOperation{
			Token:     opTok,
			Op:        opTok.Operator(),
			Left:      left,
			Right:     right,
			ValueType: typ,
		}
	}
	return left, nil
}

// binaryType applies the operator's type rule and returns the result type.
func (p *Parser) binaryType(opTok token.Token, left, right ast.Expression) (types.Type, error) {
	op := opTok.Operator()
	l, r := left.ResultType(), right.ResultType()
	undefined := func() (types.Type, error) {
		return types.Type{}, p.semanticError(opTok, "operator '%s' not defined for %s and %s", op, l, r)
	}

	if op.Has(token.OpEquality) {
		if !types.Comparable(l, r) || l.Is(types.Void) {
			return undefined()
		}
		return types.Of(types.Bool), nil
	}
	if !l.Equal(r) {
		return undefined()
	}

	var caps types.Caps
	switch {
	case op.Has(token.OpRelational):
		if !l.Has(types.CapOrdered) {
			return undefined()
		}
		return types.Of(types.Bool), nil
	case op.Has(token.OpAdditive), op.Has(token.OpMultiplicative):
		caps = types.CapArithmetic
	case op == token.OpAnd, op == token.OpOr:
		caps = types.CapLogical
	case op == token.OpBitAnd, op == token.OpBitOr:
		caps = types.CapBitwise
	}
	if caps == 0 || !l.Has(caps) {
		return undefined()
	}
	return l, nil
}

// unaryCaps maps each prefix operator to the capability it needs.
var unaryCaps = map[token.Operator]types.Caps{
	token.OpAdd:    types.CapArithmetic,
	token.OpSub:    types.CapArithmetic,
	token.OpNot:    types.CapLogical,
	token.OpBitNot: types.CapBitwise,
}

// parseUnary parses prefix operators and casts, then array creation and
// primary chains.
func (p *Parser) parseUnary() (ast.Expression, error) {
	tok := p.curTok
	if tok.IsOp(token.OpUnary) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		op := tok.Operator()
		typ := operand.ResultType()
		if !typ.Has(unaryCaps[op]) {
			return nil, p.semanticError(tok, "operator '%s' not defined for %s", op, typ)
		}
		return &ast.UnaryOperation{Token: tok, Op: op, Operand: operand, ValueType: typ}, nil
	}

	if tok.IsOp(token.OpLParen) {
		to, ok, err := p.tryCastPrefix()
		if err != nil {
			return nil, err
		}
		if ok {
			operandTok := p.curTok
			operand, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			if !castable(operand.ResultType(), to) {
				return nil, p.semanticError(operandTok, "cannot cast %s to %s", operand.ResultType(), to)
			}
			return &ast.TypeCast{Token: tok, To: to, Operand: operand}, nil
		}
	}
	return p.parsePrimary()
}

// tryCastPrefix consumes "(T)" when T is a primitive type keyword. Anything
// else is handed back to the token stream untouched.
func (p *Parser) tryCastPrefix() (types.Type, bool, error) {
	lparen := p.curTok
	if err := p.nextToken(); err != nil {
		return types.Type{}, false, err
	}
	typeTok := p.curTok
	info, isType := p.lookupTypeName(typeTok)
	if !isType || !typeTok.Is(token.KwType) || info == types.Void {
		p.backtrack(lparen)
		return types.Type{}, false, nil
	}
	if err := p.nextToken(); err != nil {
		return types.Type{}, false, err
	}
	if !p.curTok.IsOp(token.OpRParen) {
		p.backtrack(typeTok)
		p.backtrack(lparen)
		return types.Type{}, false, nil
	}
	return types.Of(info), true, p.nextToken()
}

// castable reports whether an explicit cast from src to dst is allowed:
// identity, numeric conversions among int, float and char, and any scalar
// primitive value to string.
func castable(src, dst types.Type) bool {
	if src.IsArray() || dst.IsArray() {
		return false
	}
	if src.Equal(dst) {
		return true
	}
	numeric := func(i *types.Info) bool {
		return i == types.Int || i == types.Float || i == types.Char
	}
	if numeric(src.Info) && numeric(dst.Info) {
		return true
	}
	if dst.Is(types.String) {
		_, hasDefault := src.Info.Default()
		return hasDefault
	}
	return false
}

// --- Primary Expressions ---

// parsePrimary parses an operand followed by any number of (), [] and .
// suffixes.
func (p *Parser) parsePrimary() (ast.Expression, error) {
	if p.curTok.Is(token.KwNew) {
		creation, err := p.parseNew()
		if err != nil {
			return nil, err
		}
		if _, isArray := creation.(*ast.ArrayCreation); isArray {
			return creation, nil
		}
		return p.parsePostfix(creation)
	}
	operand, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return p.parsePostfix(operand)
}

func (p *Parser) parseOperand() (ast.Expression, error) {
	tok := p.curTok
	switch tok.Type {
	case token.TokenInt:
		return p.literal(types.Int, tok.Value)
	case token.TokenFloat:
		return p.literal(types.Float, tok.Value)
	case token.TokenChar:
		return p.literal(types.Char, tok.Value)
	case token.TokenString:
		return p.literal(types.String, tok.Value)
	case token.TokenIdent:
		return p.parseReference()
	case token.TokenKeyword:
		switch tok.Keyword() {
		case token.KwTrue:
			return p.literal(types.Bool, true)
		case token.KwFalse:
			return p.literal(types.Bool, false)
		case token.KwNull:
			return p.literal(types.Null, nil)
		}
		return nil, p.syntaxError(tok, "bad keyword '%s'", tok.Literal)
	case token.TokenOperator:
		if tok.IsOp(token.OpLParen) {
			return p.parseParenthesis()
		}
	}
	return nil, p.expected("expression")
}

func (p *Parser) literal(info *types.Info, value any) (ast.Expression, error) {
	lit := &ast.Literal{Token: p.curTok, ValueType: types.Of(info), Value: value}
	return lit, p.nextToken()
}

// parseReference resolves an identifier: a variable in scope, then a method
// of the current class, then a type name.
func (p *Parser) parseReference() (ast.Expression, error) {
	tok := p.curTok
	name := tok.Literal
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	if p.currentScope != nil {
		if v, ok := p.currentScope.Lookup(name); ok {
			if f, isField := v.(*types.Field); isField && !f.Static() && p.staticContext {
				return nil, p.semanticError(tok, "non-static field %s used in a static context", name)
			}
			return &ast.VariableReference{Token: tok, Var: v}, nil
		}
	}
	if p.currentClass != nil {
		if m, ok := p.currentClass.Method(name); ok {
			if !m.Static && p.staticContext {
				return nil, p.semanticError(tok, "non-static method %s used in a static context", name)
			}
			return &ast.MethodReference{Token: tok, Method: m}, nil
		}
	}
	if info, ok := p.lookupTypeName(tok); ok {
		return &ast.TypeReference{Token: tok, Info: info}, nil
	}
	return nil, p.semanticError(tok, "identifier %s not declared", name)
}

func (p *Parser) parseParenthesis() (ast.Expression, error) {
	lparen := p.curTok
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	if p.curTok.IsOp(token.OpRParen) {
		return nil, p.syntaxError(p.curTok, "empty parenthesis expression")
	}
	inner, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.requireValue(inner); err != nil {
		return nil, err
	}
	return &ast.Parenthesis{Token: lparen, Inner: inner}, p.expectOp(token.OpRParen)
}

// parsePostfix applies (), [] and . suffixes to left, left to right.
func (p *Parser) parsePostfix(left ast.Expression) (ast.Expression, error) {
	for {
		var err error
		switch {
		case p.curTok.IsOp(token.OpLParen):
			left, err = p.parseInvocation(left)
		case p.curTok.IsOp(token.OpLBracket):
			if err = p.requireValue(left); err == nil {
				left, err = p.parseArrayAccess(left)
			}
		case p.curTok.IsOp(token.OpDot):
			if _, isType := left.(*ast.TypeReference); !isType {
				err = p.requireValue(left)
			}
			if err == nil {
				left, err = p.parseMemberAccess(left)
			}
		default:
			return left, p.requireValue(left)
		}
		if err != nil {
			return nil, err
		}
	}
}

// requireValue rejects type names and methods that are not invoked.
func (p *Parser) requireValue(e ast.Expression) error {
	switch e := e.(type) {
	case *ast.TypeReference:
		return p.semanticError(e.Token, "type %s used as a value", e.Info.Name)
	case *ast.MethodReference:
		return p.semanticError(e.Token, "method %s used without invocation", e.Method.Name)
	case *ast.MemberAccess:
		if e.Method != nil {
			return p.semanticError(e.Token, "method %s used without invocation", e.Name)
		}
	}
	return nil
}

func (p *Parser) parseInvocation(callee ast.Expression) (ast.Expression, error) {
	lparen := p.curTok
	var method *types.Method
	switch c := callee.(type) {
	case *ast.MethodReference:
		method = c.Method
	case *ast.MemberAccess:
		method = c.Method
	}
	if method == nil {
		return nil, p.semanticError(lparen, "%s is not a method", callee)
	}

	args, err := p.parseArguments()
	if err != nil {
		return nil, err
	}
	if len(args) != len(method.Params) {
		return nil, p.semanticError(lparen, "method %s takes %d arguments, %d given",
			method.Name, len(method.Params), len(args))
	}
	for i, arg := range args {
		param := method.Params[i]
		if !types.Assignable(param.Type(), arg.ResultType()) {
			return nil, p.semanticError(arg.GetToken(), "cannot use %s as %s for parameter %s of %s",
				arg.ResultType(), param.Type(), param.Name(), method.Name)
		}
	}
	return &ast.Invocation{Token: lparen, Callee: callee, Method: method, Args: args}, nil
}

// parseArguments parses "( expr, ... )".
func (p *Parser) parseArguments() ([]ast.Expression, error) {
	if err := p.expectOp(token.OpLParen); err != nil {
		return nil, err
	}
	var args []ast.Expression
	if p.curTok.IsOp(token.OpRParen) {
		return args, p.nextToken()
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.curTok.IsOp(token.OpComma) {
			break
		}
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}
	return args, p.expectOp(token.OpRParen)
}

func (p *Parser) parseArrayAccess(target ast.Expression) (ast.Expression, error) {
	lbracket := p.curTok
	if !target.ResultType().IsArray() {
		return nil, p.semanticError(lbracket, "cannot index %s of type %s", target, target.ResultType())
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	indexTok := p.curTok
	index, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !index.ResultType().Is(types.Int) {
		return nil, p.semanticError(indexTok, "array index must be int, not %s", index.ResultType())
	}
	return &ast.ArrayAccess{Token: lbracket, Target: target, Index: index}, p.expectOp(token.OpRBracket)
}

func (p *Parser) parseMemberAccess(target ast.Expression) (ast.Expression, error) {
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	nameTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	name := nameTok.Literal

	var owner *types.Info
	_, viaType := target.(*ast.TypeReference)
	if typ := target.ResultType(); typ.Rank == 0 && typ.Info != nil && !typ.Info.IsPrimitive() {
		owner = typ.Info
	}
	if owner == nil {
		return nil, p.semanticError(nameTok, "%s of type %s has no members", target, target.ResultType())
	}

	access := &ast.MemberAccess{Token: nameTok, Target: target, Name: name}
	static := false
	if f, ok := owner.Field(name); ok {
		access.Field, static = f, f.Static()
	} else if m, ok := owner.Method(name); ok {
		access.Method, static = m, m.Static
	} else {
		return nil, p.semanticError(nameTok, "%s has no member %s", owner.Name, name)
	}
	if viaType && !static {
		return nil, p.semanticError(nameTok, "member %s of %s is not static", name, owner.Name)
	}
	return access, nil
}

// --- Creation ---

// parseNew parses "new T[size][]... {elems}?" or "new Name(args)".
func (p *Parser) parseNew() (ast.Expression, error) {
	newTok := p.curTok
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	typeTok := p.curTok
	info, ok := p.lookupTypeName(typeTok)
	if !ok {
		return nil, p.typeNotFound(typeTok)
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	switch {
	case p.curTok.IsOp(token.OpLBracket):
		if info == types.Void {
			return nil, p.semanticError(typeTok, "cannot create an array of void")
		}
		return p.parseArrayCreation(newTok, info)
	case p.curTok.IsOp(token.OpLParen):
		if info.IsPrimitive() {
			return nil, p.semanticError(typeTok, "cannot create an object of primitive type %s", info.Name)
		}
		// constructors take no declared signature; arguments are only evaluated
		args, err := p.parseArguments()
		if err != nil {
			return nil, err
		}
		return &ast.ObjectCreation{Token: newTok, Info: info, Args: args}, nil
	default:
		return nil, p.expected("[' or '(")
	}
}

func (p *Parser) parseArrayCreation(newTok token.Token, info *types.Info) (ast.Expression, error) {
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	if p.curTok.IsOp(token.OpRBracket) {
		return nil, p.syntaxError(p.curTok, "array size not set")
	}
	sizeTok := p.curTok
	size, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !size.ResultType().Is(types.Int) {
		return nil, p.semanticError(sizeTok, "array size must be int, not %s", size.ResultType())
	}
	if err := p.expectOp(token.OpRBracket); err != nil {
		return nil, err
	}
	rank, err := p.parseRank()
	if err != nil {
		return nil, err
	}

	node := &ast.ArrayCreation{
		Token:     newTok,
		ValueType: types.Type{Info: info, Rank: rank + 1},
		Size:      size,
	}
	if !p.curTok.IsOp(token.OpLBrace) {
		return node, nil
	}

	if err := p.nextToken(); err != nil {
		return nil, err
	}
	elem := node.ValueType.Elem()
	for !p.curTok.IsOp(token.OpRBrace) {
		if len(node.Elems) > 0 {
			if err := p.expectOp(token.OpComma); err != nil {
				return nil, err
			}
		}
		elemTok := p.curTok
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if !types.Assignable(elem, e.ResultType()) {
			return nil, p.semanticError(elemTok, "cannot use %s as array element of type %s", e.ResultType(), elem)
		}
		node.Elems = append(node.Elems, e)
	}
	return node, p.nextToken()
}
