package parser

import (
	"bytes"

	"github.com/arnavsurve/minisharp/internal/compiler/lexer"
	"github.com/arnavsurve/minisharp/internal/compiler/token"
	"github.com/arnavsurve/minisharp/internal/compiler/types"
)

// Pass 1 records signatures as tokens; names are resolved only once every
// class header has been seen.

type typeRef struct {
	tok  token.Token // type keyword or class name
	rank int
}

type paramDecl struct {
	name token.Token
	typ  typeRef
}

type memberDecl struct {
	name   token.Token
	static bool
	typ    typeRef
	method bool
	params []paramDecl
}

type classDecl struct {
	name    token.Token
	parent  *token.Token
	members []memberDecl
	info    *types.Info
}

// collectDeclarations scans the source with its own lexer, skipping method
// bodies and field initializers, and fills the registry.
func (p *Parser) collectDeclarations() error {
	pre := &Parser{
		name:     p.name,
		l:        lexer.New(bytes.NewReader(p.src)),
		registry: p.registry,
	}
	if err := pre.nextToken(); err != nil {
		return err
	}

	var decls []*classDecl
	for pre.curTok.Type != token.TokenEOF {
		decl, err := pre.scanClass()
		if err != nil {
			return err
		}
		decls = append(decls, decl)
	}

	// --- Classes ---
	for _, d := range decls {
		info, err := p.registry.Declare(d.name.Literal)
		if err != nil {
			return p.semanticError(d.name, "type name %s is not unique", d.name.Literal)
		}
		d.info = info
	}

	// --- Parents ---
	for _, d := range decls {
		if d.parent == nil {
			continue
		}
		parent, ok := p.registry.Lookup(d.parent.Literal)
		if !ok {
			return p.typeNotFound(*d.parent)
		}
		if parent.IsPrimitive() || parent.Builtin {
			return p.semanticError(*d.parent, "class %s cannot derive from %s", d.name.Literal, parent.Name)
		}
		d.info.Parent = parent
	}
	// a chain longer than the number of classes has entered a cycle that
	// does not contain d; that cycle is reported for one of its own members
	for _, d := range decls {
		steps := 0
		for t := d.info.Parent; t != nil && steps <= len(decls); t = t.Parent {
			if t == d.info {
				return p.semanticError(d.name, "inheritance cycle through class %s", d.name.Literal)
			}
			steps++
		}
	}

	// --- Members, parents first ---
	done := make(map[*types.Info]bool)
	byInfo := make(map[*types.Info]*classDecl, len(decls))
	for _, d := range decls {
		byInfo[d.info] = d
	}
	var admit func(d *classDecl) error
	admit = func(d *classDecl) error {
		if done[d.info] {
			return nil
		}
		done[d.info] = true
		if parent := d.info.Parent; parent != nil {
			if err := admit(byInfo[parent]); err != nil {
				return err
			}
			d.info.Inherit(parent)
		}
		return p.admitMembers(d)
	}
	for _, d := range decls {
		if err := admit(d); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) admitMembers(d *classDecl) error {
	for _, m := range d.members {
		if _, ok := p.registry.Lookup(m.name.Literal); ok {
			return p.semanticError(m.name, "identifier %s not unique", m.name.Literal)
		}
		typ, err := p.resolveType(m.typ)
		if err != nil {
			return err
		}

		if !m.method {
			if typ.Is(types.Void) {
				return p.semanticError(m.name, "cannot create a field of type void")
			}
			if err := d.info.AddField(types.NewField(m.name.Literal, typ, m.static, d.info)); err != nil {
				return p.semanticError(m.name, "%s", err)
			}
			continue
		}

		method := &types.Method{Name: m.name.Literal, Output: typ, Static: m.static, Owner: d.info}
		for _, pd := range m.params {
			ptyp, err := p.resolveType(pd.typ)
			if err != nil {
				return err
			}
			if ptyp.Is(types.Void) {
				return p.semanticError(pd.name, "cannot create a parameter of type void")
			}
			method.Params = append(method.Params, types.NewParam(pd.name.Literal, ptyp))
		}
		if err := d.info.AddMethod(method); err != nil {
			return p.semanticError(m.name, "%s", err)
		}
	}
	return nil
}

// resolveType maps a type keyword or class name to its Type.
func (p *Parser) resolveType(ref typeRef) (types.Type, error) {
	info, ok := p.lookupTypeName(ref.tok)
	if !ok {
		return types.Type{}, p.typeNotFound(ref.tok)
	}
	return types.Type{Info: info, Rank: ref.rank}, nil
}

// lookupTypeName resolves a token naming a type, if it does.
func (p *Parser) lookupTypeName(tok token.Token) (*types.Info, bool) {
	switch tok.Type {
	case token.TokenKeyword:
		switch tok.Keyword() {
		case token.KwVoid:
			return types.Void, true
		case token.KwInt:
			return types.Int, true
		case token.KwFloat:
			return types.Float, true
		case token.KwChar:
			return types.Char, true
		case token.KwString:
			return types.String, true
		case token.KwBool:
			return types.Bool, true
		}
	case token.TokenIdent:
		info, ok := p.registry.Lookup(tok.Literal)
		if ok && info.Name == tok.Literal && !info.IsPrimitive() {
			return info, true
		}
	}
	return nil, false
}

// --- Pass 1 scanning ---

func (p *Parser) scanClass() (*classDecl, error) {
	if err := p.expectKeyword(token.KwPublic); err != nil {
		return nil, err
	}
	if err := p.expectKeyword(token.KwClass); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	decl := &classDecl{name: name}

	if p.curTok.IsOp(token.OpColon) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		parent, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		decl.parent = &parent
	}

	if err := p.expectOp(token.OpLBrace); err != nil {
		return nil, err
	}
	for !p.curTok.IsOp(token.OpRBrace) {
		m, err := p.scanMember()
		if err != nil {
			return nil, err
		}
		decl.members = append(decl.members, m)
	}
	return decl, p.nextToken()
}

func (p *Parser) scanMember() (memberDecl, error) {
	var m memberDecl
	if err := p.expectKeyword(token.KwPublic); err != nil {
		return m, err
	}
	if p.curTok.Is(token.KwStatic) {
		m.static = true
		if err := p.nextToken(); err != nil {
			return m, err
		}
	}
	typ, err := p.scanType()
	if err != nil {
		return m, err
	}
	m.typ = typ
	if m.name, err = p.expectIdent(); err != nil {
		return m, err
	}

	switch {
	case p.curTok.IsOp(token.OpLParen):
		m.method = true
		if m.params, err = p.scanParams(); err != nil {
			return m, err
		}
		if !p.curTok.IsOp(token.OpLBrace) {
			return m, p.expected("{")
		}
		return m, p.skipBalanced()
	case p.curTok.IsOp(token.OpAssign):
		return m, p.skipInitializer()
	case p.curTok.IsOp(token.OpSemicolon):
		return m, p.nextToken()
	default:
		return m, p.expected("( or = or ;")
	}
}

// scanType reads a type name and its [] pairs without resolving it.
func (p *Parser) scanType() (typeRef, error) {
	ref := typeRef{tok: p.curTok}
	if !p.curTok.Is(token.KwType) && p.curTok.Type != token.TokenIdent {
		return ref, p.typeNotFound(p.curTok)
	}
	if err := p.nextToken(); err != nil {
		return ref, err
	}
	rank, err := p.parseRank()
	ref.rank = rank
	return ref, err
}

// parseRank counts trailing [] pairs.
func (p *Parser) parseRank() (int, error) {
	rank := 0
	for p.curTok.IsOp(token.OpLBracket) {
		if err := p.nextToken(); err != nil {
			return 0, err
		}
		if err := p.expectOp(token.OpRBracket); err != nil {
			return 0, err
		}
		rank++
	}
	return rank, nil
}

func (p *Parser) scanParams() ([]paramDecl, error) {
	if err := p.expectOp(token.OpLParen); err != nil {
		return nil, err
	}
	var params []paramDecl
	if p.curTok.IsOp(token.OpRParen) {
		return params, p.nextToken()
	}
	for {
		typ, err := p.scanType()
		if err != nil {
			return nil, err
		}
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		params = append(params, paramDecl{name: name, typ: typ})
		if !p.curTok.IsOp(token.OpComma) {
			break
		}
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}
	return params, p.expectOp(token.OpRParen)
}

// skipBalanced skips from an opening brace to just past its partner.
func (p *Parser) skipBalanced() error {
	depth := 0
	for {
		switch {
		case p.curTok.Type == token.TokenEOF:
			return p.expected("}")
		case p.curTok.IsOp(token.OpLBrace):
			depth++
		case p.curTok.IsOp(token.OpRBrace):
			depth--
		}
		if err := p.nextToken(); err != nil {
			return err
		}
		if depth == 0 {
			return nil
		}
	}
}

// skipInitializer skips "= expr ;", honouring nested brackets.
func (p *Parser) skipInitializer() error {
	depth := 0
	for {
		switch {
		case p.curTok.Type == token.TokenEOF:
			return p.expected(";")
		case p.curTok.IsOp(token.OpLParen), p.curTok.IsOp(token.OpLBracket), p.curTok.IsOp(token.OpLBrace):
			depth++
		case p.curTok.IsOp(token.OpRParen), p.curTok.IsOp(token.OpRBracket), p.curTok.IsOp(token.OpRBrace):
			depth--
		case p.curTok.IsOp(token.OpSemicolon) && depth == 0:
			return p.nextToken()
		}
		if err := p.nextToken(); err != nil {
			return err
		}
	}
}
