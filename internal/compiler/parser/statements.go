package parser

import (
	"github.com/arnavsurve/minisharp/internal/compiler/ast"
	"github.com/arnavsurve/minisharp/internal/compiler/symbols"
	"github.com/arnavsurve/minisharp/internal/compiler/token"
	"github.com/arnavsurve/minisharp/internal/compiler/types"
)

// --- Statement Parsing ---

func (p *Parser) parseStatement() (ast.Statement, error) {
	tok := p.curTok
	switch {
	case tok.Is(token.KwType):
		return p.parseVariableDefinition()
	case tok.Type == token.TokenIdent:
		if _, isType := p.lookupTypeName(tok); isType {
			// "Name x", "Name[] x" declare; "Name.Member" is an expression
			if err := p.nextToken(); err != nil {
				return nil, err
			}
			declares := p.curTok.Type == token.TokenIdent || p.curTok.IsOp(token.OpLBracket)
			p.backtrack(tok)
			if declares {
				return p.parseVariableDefinition()
			}
		}
		return p.parseExpressionStatement()
	case tok.Is(token.KwIf):
		return p.parseIf()
	case tok.Is(token.KwFor):
		return p.parseFor()
	case tok.Is(token.KwWhile):
		return p.parseWhile()
	case tok.IsOp(token.OpLBrace):
		return p.parseBlock()
	case tok.IsOp(token.OpSemicolon):
		return &ast.Empty{Token: tok}, p.nextToken()
	case tok.Is(token.KwReturn):
		return p.parseReturn()
	case tok.Is(token.KwBreak):
		return p.parseBreak()
	default:
		return p.parseExpressionStatement()
	}
}

// parseBlock parses "{ statements }" in a scope of its own.
func (p *Parser) parseBlock() (*ast.Block, error) {
	block := &ast.Block{Token: p.curTok}
	if err := p.expectOp(token.OpLBrace); err != nil {
		return nil, err
	}
	p.pushScope("block")
	defer p.popScope()

	for !p.curTok.IsOp(token.OpRBrace) {
		if p.curTok.Type == token.TokenEOF {
			return nil, p.expected("}")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
	return block, p.nextToken()
}

// parseVariableDefinition parses "Type name (= init)? ;".
func (p *Parser) parseVariableDefinition() (*ast.VariableDefinition, error) {
	typeTok := p.curTok
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if typ.Is(types.Void) {
		return nil, p.semanticError(typeTok, "cannot create a variable of type void")
	}
	nameTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	local := symbols.NewLocal(nameTok.Literal, typ)
	def := &ast.VariableDefinition{Token: nameTok, Var: local}
	if p.curTok.IsOp(token.OpAssign) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		initTok := p.curTok
		init, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if !types.Assignable(typ, init.ResultType()) {
			return nil, p.semanticError(initTok, "cannot assign %s to variable %s of type %s",
				init.ResultType(), local.Name(), typ)
		}
		def.Init = init
	}
	// the name is visible only after its own initializer
	if err := p.define(nameTok, local); err != nil {
		return nil, err
	}
	return def, p.expectOp(token.OpSemicolon)
}

func (p *Parser) parseExpressionStatement() (ast.Statement, error) {
	tok := p.curTok
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !expr.IsStatement() {
		return nil, p.semanticError(tok, "expression %s is not a statement", expr)
	}
	return expr, p.expectOp(token.OpSemicolon)
}

// parseCondition parses "( expr )" and requires a bool.
func (p *Parser) parseCondition() (ast.Expression, error) {
	if err := p.expectOp(token.OpLParen); err != nil {
		return nil, err
	}
	condTok := p.curTok
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.requireBool(condTok, cond); err != nil {
		return nil, err
	}
	return cond, p.expectOp(token.OpRParen)
}

func (p *Parser) requireBool(tok token.Token, e ast.Expression) error {
	if !e.ResultType().Is(types.Bool) {
		return p.semanticError(tok, "invalid expression type %s, expected bool", e.ResultType())
	}
	return nil
}

// parseIf parses "if (cond) body (else body)?" where each body is a block
// or another if.
func (p *Parser) parseIf() (*ast.If, error) {
	node := &ast.If{Token: p.curTok}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	p.constructs++
	defer func() { p.constructs-- }()

	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	node.Cond = cond

	if node.Then, err = p.parseIfBody("{"); err != nil {
		return nil, err
	}
	if p.curTok.Is(token.KwElse) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		if node.Else, err = p.parseIfBody("if' or '{"); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func (p *Parser) parseIfBody(want string) (ast.Statement, error) {
	switch {
	case p.curTok.Is(token.KwIf):
		return p.parseIf()
	case p.curTok.IsOp(token.OpLBrace):
		return p.parseBlock()
	default:
		return nil, p.expected(want)
	}
}

// parseFor parses "for (init? ; cond? ; step?) { body }". The init variable
// is scoped to the loop.
func (p *Parser) parseFor() (*ast.For, error) {
	node := &ast.For{Token: p.curTok}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	p.constructs++
	defer func() { p.constructs-- }()

	if err := p.expectOp(token.OpLParen); err != nil {
		return nil, err
	}
	p.pushScope("for")
	defer p.popScope()

	if p.curTok.IsOp(token.OpSemicolon) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	} else {
		if _, isType := p.lookupTypeName(p.curTok); !isType {
			return nil, p.expected(";")
		}
		init, err := p.parseVariableDefinition()
		if err != nil {
			return nil, err
		}
		node.Init = init
	}

	if !p.curTok.IsOp(token.OpSemicolon) {
		condTok := p.curTok
		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.requireBool(condTok, cond); err != nil {
			return nil, err
		}
		node.Cond = cond
	}
	if err := p.expectOp(token.OpSemicolon); err != nil {
		return nil, err
	}

	if !p.curTok.IsOp(token.OpRParen) {
		stepTok := p.curTok
		step, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if !step.IsStatement() {
			return nil, p.semanticError(stepTok, "expression %s is not a statement", step)
		}
		node.Step = step
	}
	if err := p.expectOp(token.OpRParen); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	node.Body = body
	return node, nil
}

func (p *Parser) parseWhile() (*ast.While, error) {
	node := &ast.While{Token: p.curTok}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	p.constructs++
	defer func() { p.constructs-- }()

	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	node.Cond = cond
	if node.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *Parser) parseReturn() (*ast.Return, error) {
	node := &ast.Return{Token: p.curTok}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	method := p.currentMethod
	void := method.Output.Is(types.Void)

	if p.curTok.IsOp(token.OpSemicolon) {
		if !void {
			return nil, p.semanticError(node.Token, "method %s must return a value of type %s", method.Name, method.Output)
		}
		return node, p.nextToken()
	}

	valueTok := p.curTok
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if void {
		return nil, p.semanticError(valueTok, "void method %s cannot return a value", method.Name)
	}
	if !types.Assignable(method.Output, value.ResultType()) {
		return nil, p.semanticError(valueTok, "cannot return %s from method %s returning %s",
			value.ResultType(), method.Name, method.Output)
	}
	node.Value = value
	return node, p.expectOp(token.OpSemicolon)
}

func (p *Parser) parseBreak() (*ast.Break, error) {
	node := &ast.Break{Token: p.curTok}
	if p.constructs == 0 {
		return nil, p.semanticError(node.Token, "Break out of loops or ifs")
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	return node, p.expectOp(token.OpSemicolon)
}
