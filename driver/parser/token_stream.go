package parser

import (
	"io"

	"github.com/nihei9/sccheck/driver/lexer"
	spec "github.com/nihei9/sccheck/spec/grammar"
)

// VToken is a token a parser consumes.
type VToken interface {
	// TerminalID returns the terminal number of a token. The EOF token returns the EOF symbol.
	TerminalID() int

	Lexeme() []byte
	EOF() bool
	Position() lexer.Position
}

type TokenStream interface {
	Next() (VToken, error)
}

// DiagnosticSource is implemented by token streams that record diagnostics of their own.
// A parser merges them into its result after the stream reaches EOF.
type DiagnosticSource interface {
	Diagnostics() []Diagnostic
}

type vToken struct {
	tok *lexer.Token
}

func (t *vToken) TerminalID() int {
	return t.tok.TerminalID
}

func (t *vToken) Lexeme() []byte {
	return t.tok.Lexeme
}

func (t *vToken) EOF() bool {
	return t.tok.EOF
}

func (t *vToken) Position() lexer.Position {
	return t.tok.Position
}

var (
	_ TokenStream      = &tokenStream{}
	_ DiagnosticSource = &tokenStream{}
)

type tokenStream struct {
	scanner *lexer.Scanner
}

// NewTokenStream returns a token stream backed by a Scanner. The stream reports the lexical errors
// of the scanner as its diagnostics.
func NewTokenStream(g *spec.CompiledGrammar, src io.Reader) (TokenStream, error) {
	s, err := lexer.NewScanner(g, src)
	if err != nil {
		return nil, err
	}
	return &tokenStream{
		scanner: s,
	}, nil
}

func (s *tokenStream) Next() (VToken, error) {
	tok, err := s.scanner.Next()
	if err != nil {
		return nil, err
	}
	return &vToken{
		tok: tok,
	}, nil
}

func (s *tokenStream) Diagnostics() []Diagnostic {
	lexErrs := s.scanner.LexicalErrors()
	if len(lexErrs) == 0 {
		return nil
	}
	diags := make([]Diagnostic, len(lexErrs))
	for i, e := range lexErrs {
		diags[i] = e
	}
	return diags
}
