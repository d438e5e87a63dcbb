// Package compiler ties the front end and the interpreter together for the
// command line.
package compiler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/arnavsurve/minisharp/internal/compiler/ast"
	"github.com/arnavsurve/minisharp/internal/compiler/lexer"
	"github.com/arnavsurve/minisharp/internal/compiler/parser"
	"github.com/arnavsurve/minisharp/internal/compiler/token"
	"github.com/arnavsurve/minisharp/internal/runtime"
)

// Extension is the file extension of MiniSharp sources.
const Extension = ".msh"

// Source is one program text and the name used in messages.
type Source struct {
	Name string
	Text []byte
}

// Load reads a source file from disk.
func Load(path string) (Source, error) {
	if err := validateExtension(path); err != nil {
		return Source{}, err
	}
	text, err := readSource(path)
	if err != nil {
		return Source{}, err
	}
	return Source{Name: path, Text: text}, nil
}

// Check parses and type-checks src.
func Check(src Source) (*ast.Program, error) {
	return parseProgram(src)
}

// Run checks src and executes it, writing program output to out.
func Run(ctx context.Context, src Source, out io.Writer, opts ...runtime.Option) error {
	prog, err := parseProgram(src)
	if err != nil {
		return err
	}
	return execute(ctx, prog, out, opts)
}

// Tokens scans src to the end of input. The tokens read before a lexical
// fault are returned along with it.
func Tokens(src Source) ([]token.Token, error) {
	l := lexer.New(bytes.NewReader(src.Text))
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Type == token.TokenEOF {
			return toks, nil
		}
	}
}

func validateExtension(path string) error {
	if filepath.Ext(path) != Extension {
		return fmt.Errorf("source must have %s extension", Extension)
	}
	return nil
}

func readSource(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return b, nil
}

func parseProgram(src Source) (*ast.Program, error) {
	return parser.New(src.Name, src.Text).ParseProgram()
}

func execute(ctx context.Context, prog *ast.Program, out io.Writer, opts []runtime.Option) error {
	opts = append(opts, runtime.WithOutput(out))
	return runtime.New(opts...).Execute(ctx, prog)
}
