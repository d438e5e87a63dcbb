package parser

import (
	"github.com/arnavsurve/minisharp/internal/compiler/ast"
	"github.com/arnavsurve/minisharp/internal/compiler/symbols"
	"github.com/arnavsurve/minisharp/internal/compiler/token"
	"github.com/arnavsurve/minisharp/internal/compiler/types"
)

// --- Class Parsing (Pass 2) ---

// parseClass parses a class whose header and member signatures were already
// admitted by the declaration pass.
func (p *Parser) parseClass() (*ast.ClassDefinition, error) {
	if err := p.expectKeyword(token.KwPublic); err != nil {
		return nil, err
	}
	if err := p.expectKeyword(token.KwClass); err != nil {
		return nil, err
	}
	nameTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	info, _ := p.registry.Lookup(nameTok.Literal)

	if p.curTok.IsOp(token.OpColon) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		if _, err := p.expectIdent(); err != nil {
			return nil, err
		}
	}
	if err := p.expectOp(token.OpLBrace); err != nil {
		return nil, err
	}

	p.currentClass = info
	p.pushScope("class " + info.Name)
	defer func() {
		p.popScope()
		p.currentClass = nil
	}()
	for _, f := range info.Fields() {
		if err := p.currentScope.Define(f); err != nil {
			return nil, p.semanticError(nameTok, "%s", err)
		}
	}

	class := &ast.ClassDefinition{Token: nameTok, Info: info}
	for !p.curTok.IsOp(token.OpRBrace) {
		member, err := p.parseMember()
		if err != nil {
			return nil, err
		}
		class.Members = append(class.Members, member)
	}
	return class, p.nextToken()
}

func (p *Parser) parseMember() (ast.Node, error) {
	if err := p.expectKeyword(token.KwPublic); err != nil {
		return nil, err
	}
	if p.curTok.Is(token.KwStatic) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}
	if _, err := p.parseType(); err != nil {
		return nil, err
	}
	nameTok, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	if p.curTok.IsOp(token.OpLParen) {
		method, _ := p.currentClass.Method(nameTok.Literal)
		return p.parseMethod(nameTok, method)
	}
	field, _ := p.currentClass.Field(nameTok.Literal)
	return p.parseField(nameTok, field)
}

// parseField parses the rest of "Type name (= init)? ;".
func (p *Parser) parseField(nameTok token.Token, field *types.Field) (*ast.FieldDefinition, error) {
	def := &ast.FieldDefinition{Token: nameTok, Field: field}
	if p.curTok.IsOp(token.OpAssign) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		p.staticContext = field.Static()
		initTok := p.curTok
		init, err := p.parseExpression()
		p.staticContext = false
		if err != nil {
			return nil, err
		}
		if !types.Assignable(field.Type(), init.ResultType()) {
			return nil, p.semanticError(initTok, "cannot assign %s to field %s of type %s",
				init.ResultType(), field.Name(), field.Type())
		}
		def.Init = init
	}
	return def, p.expectOp(token.OpSemicolon)
}

// parseMethod parses "(params) { body }" for a method admitted in pass 1.
func (p *Parser) parseMethod(nameTok token.Token, method *types.Method) (*ast.MethodDefinition, error) {
	p.pushScope("method " + method.Name)
	defer p.popScope()

	if err := p.expectOp(token.OpLParen); err != nil {
		return nil, err
	}
	for i := 0; !p.curTok.IsOp(token.OpRParen); i++ {
		if i > 0 {
			if err := p.expectOp(token.OpComma); err != nil {
				return nil, err
			}
		}
		if _, err := p.parseType(); err != nil {
			return nil, err
		}
		paramTok, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.define(paramTok, method.Params[i]); err != nil {
			return nil, err
		}
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	p.currentMethod = method
	p.staticContext = method.Static
	body, err := p.parseBlock()
	p.currentMethod = nil
	p.staticContext = false
	if err != nil {
		return nil, err
	}

	if !method.Output.Is(types.Void) && !hasDirectReturn(body) {
		return nil, p.semanticError(nameTok, "missing return")
	}
	return &ast.MethodDefinition{Token: nameTok, Method: method, Body: body}, nil
}

func hasDirectReturn(body *ast.Block) bool {
	for _, s := range body.Statements {
		if _, ok := s.(*ast.Return); ok {
			return true
		}
	}
	return false
}

// define admits a new variable into the current scope.
func (p *Parser) define(tok token.Token, v symbols.Variable) error {
	if err := p.checkUnique(tok); err != nil {
		return err
	}
	if err := p.currentScope.Define(v); err != nil {
		return p.semanticError(tok, "%s", err)
	}
	return nil
}

// parseType parses a type name with its [] pairs.
func (p *Parser) parseType() (types.Type, error) {
	info, ok := p.lookupTypeName(p.curTok)
	if !ok {
		return types.Type{}, p.typeNotFound(p.curTok)
	}
	if err := p.nextToken(); err != nil {
		return types.Type{}, err
	}
	rank, err := p.parseRank()
	return types.Type{Info: info, Rank: rank}, err
}
