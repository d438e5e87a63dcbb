package lexer

import (
	"io"

	"github.com/arnavsurve/minisharp/internal/compiler/diag"
	"github.com/arnavsurve/minisharp/internal/compiler/source"
	"github.com/arnavsurve/minisharp/internal/compiler/token"
)

type Lexer struct {
	src *source.Reader

	state state
	tok   token.Token // token under construction
	raw   []byte
	done  bool

	last token.Token // most recently produced token
	err  error       // once set, every Next returns it until Reset
}

func New(r io.Reader) *Lexer {
	return &Lexer{src: source.New(r)}
}

// Reset switches to a new input and clears a previous fault.
func (l *Lexer) Reset(r io.Reader) {
	l.src.Reset(r)
	l.state = stStart
	l.raw = l.raw[:0]
	l.last = token.Token{}
	l.err = nil
}

// Peek returns the most recently produced token without reading further.
func (l *Lexer) Peek() token.Token {
	return l.last
}

// Next scans one token. At the end of the input it returns a TokenEOF token.
func (l *Lexer) Next() (token.Token, error) {
	if l.err != nil {
		return token.Token{}, l.err
	}

	l.state = stStart
	l.tok = token.Token{}
	l.raw = l.raw[:0]
	l.done = false

	for !l.done {
		ch, ok, err := l.src.Next()
		if err != nil {
			l.err = err
			return token.Token{}, err
		}
		if !ok {
			l.atEOF()
			break
		}
		if ch >= alphabetSize {
			l.fault("unsupported character %#x", ch)
		} else {
			table[l.state][ch](l, ch)
		}
		if l.err != nil {
			return token.Token{}, l.err
		}
	}
	if l.err != nil {
		return token.Token{}, l.err
	}

	l.convert()
	l.last = l.tok
	return l.tok, nil
}

func (l *Lexer) here() token.Pos {
	return token.Pos{Row: l.src.Row(), Col: l.src.Col()}
}

func (l *Lexer) fault(format string, args ...any) {
	l.err = diag.At(diag.LexicalFault, l.here(), format, args...)
	l.done = true
}

// atEOF completes whatever the current state was building.
func (l *Lexer) atEOF() {
	switch l.state {
	case stStart, stLineComment:
		l.tok = token.Token{Type: token.TokenEOF, Pos: token.Pos{Row: l.src.Row(), Col: l.src.Col() + 1}}
	case stString, stStringEscape:
		l.fault("unterminated string literal")
	case stChar:
		l.fault("unterminated char literal")
	}
	l.done = true
}

// convert materializes the token value from its raw text. Failures do not
// stop the scan; the token is returned with a nil value and a tag.
func (l *Lexer) convert() {
	if l.tok.Type == token.TokenEOF {
		return
	}
	l.tok.Literal = string(l.raw)
	raw := l.tok.Literal

	switch l.tok.Type {
	case token.TokenIdent:
		if kw, ok := keywords[raw]; ok {
			l.tok.Type = token.TokenKeyword
			l.tok.Value = kw
		} else {
			l.tok.Value = raw
		}
	case token.TokenInt:
		l.tok.Value, l.tok.Tag = parseInt(raw)
	case token.TokenFloat:
		l.tok.Value, l.tok.Tag = parseFloat(raw)
	case token.TokenChar:
		l.tok.Value = raw[1]
	case token.TokenString:
		l.tok.Value = raw[1 : len(raw)-1]
	}
}

var keywords = token.Keywords()
