package parser

import (
	"bytes"
	"fmt"

	"github.com/arnavsurve/minisharp/internal/compiler/ast"
	"github.com/arnavsurve/minisharp/internal/compiler/diag"
	"github.com/arnavsurve/minisharp/internal/compiler/lexer"
	"github.com/arnavsurve/minisharp/internal/compiler/scope"
	"github.com/arnavsurve/minisharp/internal/compiler/token"
	"github.com/arnavsurve/minisharp/internal/compiler/types"
)

// Parser builds a type-checked AST for one source file. It stops at the
// first error.
type Parser struct {
	name string // file name, used only for messages
	src  []byte

	l        *lexer.Lexer
	curTok   token.Token
	pushback []token.Token // tokens handed back by backtrack, most recent last

	registry *types.Registry

	// Scope management
	currentScope  *scope.Scope
	currentClass  *types.Info
	currentMethod *types.Method // nil inside field initializers
	staticContext bool          // no implicit object: static method or static field initializer
	constructs    int           // open if/for/while constructs, for break
}

func New(name string, src []byte) *Parser {
	return &Parser{name: name, src: src}
}


// --- Token Handling ---

func (p *Parser) nextToken() error {
	if n := len(p.pushback); n > 0 {
		p.curTok = p.pushback[n-1]
		p.pushback = p.pushback[:n-1]
		return nil
	}
	tok, err := p.l.Next()
	if err != nil {
		return err
	}
	p.curTok = tok
	return nil
}

// backtrack hands the current token back and makes prev current again.
// Calls nest: backtracking twice restores two consumed tokens.
func (p *Parser) backtrack(prev token.Token) {
	p.pushback = append(p.pushback, p.curTok)
	p.curTok = prev
}

// expectOp checks that the current token is op and moves past it.
func (p *Parser) expectOp(op token.Operator) error {
	if !p.curTok.IsOp(op) {
		return p.expected(op.String())
	}
	return p.nextToken()
}

func (p *Parser) expectKeyword(kw token.Keyword) error {
	if !p.curTok.Is(kw) {
		return p.expected(kw.String())
	}
	return p.nextToken()
}

// expectIdent returns the current identifier token and moves past it.
func (p *Parser) expectIdent() (token.Token, error) {
	tok := p.curTok
	if tok.Type != token.TokenIdent {
		return tok, p.expected("identifier")
	}
	return tok, p.nextToken()
}

// --- Error Handling ---

func (p *Parser) expected(what string) error {
	return diag.At(diag.SyntaxError, p.curTok.Pos, "'%s' expected, but '%s' found", what, p.curTok.Describe())
}

func (p *Parser) syntaxError(tok token.Token, format string, args ...any) error {
	return diag.At(diag.SyntaxError, tok.Pos, format, args...)
}

func (p *Parser) semanticError(tok token.Token, format string, args ...any) error {
	return diag.At(diag.SemanticError, tok.Pos, format, args...)
}

func (p *Parser) typeNotFound(tok token.Token) error {
	return p.syntaxError(tok, "type '%s' not found", tok.Describe())
}

// --- Scope Management ---

func (p *Parser) pushScope(name string) {
	p.currentScope = scope.NewScope(p.currentScope, name)
}

func (p *Parser) popScope() {
	p.currentScope = p.currentScope.Outer
}

// checkUnique rejects a new identifier that is already visible or that
// names a type.
func (p *Parser) checkUnique(tok token.Token) error {
	name := tok.Literal
	if _, ok := p.registry.Lookup(name); ok {
		return p.semanticError(tok, "identifier %s not unique", name)
	}
	if p.currentScope != nil {
		if _, ok := p.currentScope.Lookup(name); ok {
			return p.semanticError(tok, "identifier %s not unique", name)
		}
	}
	return nil
}

// --- Program Parsing (Two-Pass Orchestration) ---

// ParseProgram parses the whole source. The first pass collects every class
// and member signature so bodies can refer to declarations that appear
// later in the file; the second pass parses and checks the bodies.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	p.registry = types.NewRegistry()
	p.pushback = nil

	// --- Pass 1: Collect Declarations ---
	if err := p.collectDeclarations(); err != nil {
		return nil, err
	}

	// --- Pass 2: Full Parse ---
	p.l = lexer.New(bytes.NewReader(p.src))
	p.currentScope = nil
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	program := &ast.Program{Registry: p.registry}
	for p.curTok.Type != token.TokenEOF {
		class, err := p.parseClass()
		if err != nil {
			return nil, err
		}
		program.Classes = append(program.Classes, class)
	}

	if p.currentScope != nil {
		return nil, fmt.Errorf("internal parser error: scope mismatch at end of %s", p.name)
	}
	return program, nil
}
