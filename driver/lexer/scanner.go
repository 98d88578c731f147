package lexer

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	mldriver "github.com/nihei9/maleeni/driver"
	spec "github.com/nihei9/sccheck/spec/grammar"
)

// Position is a place in a source text. Row and Col start at 0, and Col is counted in code points.
type Position struct {
	Offset int
	Row    int
	Col    int
}

// String returns the 1-based `row:col` form.
func (p Position) String() string {
	return fmt.Sprintf("%v:%v", p.Row+1, p.Col+1)
}

type Token struct {
	TerminalID int
	KindName   string
	Lexeme     []byte
	Position   Position
	EOF        bool
}

// LexicalError is a piece of text no pattern matches. Text holds the offending text and
// the text the scanner swallowed while resynchronising.
type LexicalError struct {
	Position Position
	Text     string
	Char     rune
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("%v: %v: %v", e.Position, e.Kind(), e.Message())
}

func (e *LexicalError) Kind() string {
	return "lexical error"
}

func (e *LexicalError) Pos() Position {
	return e.Position
}

func (e *LexicalError) Message() string {
	if utf8.RuneLen(e.Char) < len(e.Text) {
		return fmt.Sprintf("invalid character %q (skipped %q)", e.Char, e.Text)
	}
	return fmt.Sprintf("invalid character %q", e.Char)
}

func (e *LexicalError) Expected() []string {
	return nil
}

// Scanner turns a source text into tokens the parser consumes. Skip kinds never leave the scanner.
type Scanner struct {
	lexSpec *spec.Maleeni
	eof     int
	terms   []string
	src     []byte
	lex     *mldriver.Lexer
	offset  int
	errs    []*LexicalError

	// cursor is the byte offset row and col have been counted up to. It can be ahead of offset
	// when a lexeme ends inside a multi-byte character.
	cursor int
	row    int
	col    int
}

func NewScanner(g *spec.CompiledGrammar, src io.Reader) (*Scanner, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	s := &Scanner{
		lexSpec: g.LexicalSpecification.Maleeni,
		eof:     g.ParsingTable.EOFSymbol,
		terms:   g.ParsingTable.Terminals,
		src:     b,
	}
	err = s.Restart()
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Restart rewinds the scanner to the beginning of the source text and discards the lexical errors.
func (s *Scanner) Restart() error {
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(s.lexSpec.Spec), bytes.NewReader(s.src))
	if err != nil {
		return err
	}
	s.lex = lex
	s.offset = 0
	s.cursor = 0
	s.row = 0
	s.col = 0
	s.errs = nil
	return nil
}

// Next returns the next token. After the EOF token, Next keeps returning EOF tokens.
func (s *Scanner) Next() (*Token, error) {
	for {
		tok, pos, err := s.read()
		if err != nil {
			return nil, err
		}
		switch {
		case tok.EOF:
			return s.newEOFToken(pos), nil
		case tok.Invalid:
			resumed, err := s.resynchronise(tok, pos)
			if err != nil {
				return nil, err
			}
			if resumed != nil {
				return resumed, nil
			}
		case s.isSkip(tok):
		default:
			return s.newToken(tok, pos), nil
		}
	}
}

// LexicalErrors returns the errors found so far in the order of their positions.
func (s *Scanner) LexicalErrors() []*LexicalError {
	return s.errs
}

// Source returns the whole source text.
func (s *Scanner) Source() []byte {
	return s.src
}

func (s *Scanner) read() (*mldriver.Token, Position, error) {
	tok, err := s.lex.Next()
	if err != nil {
		return nil, Position{}, err
	}
	pos := s.position()
	s.offset += len(tok.Lexeme)
	return tok, pos, nil
}

// position returns the position of the current offset. maleeni's EOF token has no position,
// so the scanner counts rows and columns by itself.
func (s *Scanner) position() Position {
	for s.cursor < s.offset {
		r, size := utf8.DecodeRune(s.src[s.cursor:])
		if r == '\n' {
			s.row++
			s.col = 0
		} else {
			s.col++
		}
		s.cursor += size
	}
	return Position{
		Offset: s.offset,
		Row:    s.row,
		Col:    s.col,
	}
}

// resynchronise records a lexical error and swallows the following tokens until a skip kind,
// a delimiter kind, or EOF appears. It returns the token the parser should see next, or nil
// when scanning should simply go on.
func (s *Scanner) resynchronise(errTok *mldriver.Token, pos Position) (*Token, error) {
	var text bytes.Buffer
	text.Write(errTok.Lexeme)
	lexErr := &LexicalError{
		Position: pos,
	}
	s.errs = append(s.errs, lexErr)

	var resumed *Token
	for {
		tok, pos, err := s.read()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			resumed = s.newEOFToken(pos)
			break
		}
		if !tok.Invalid && s.isSkip(tok) {
			break
		}
		if !tok.Invalid && s.isDelimiter(tok) {
			resumed = s.newToken(tok, pos)
			break
		}
		text.Write(tok.Lexeme)
	}

	lexErr.Text = text.String()
	lexErr.Char, _ = utf8.DecodeRune(text.Bytes())
	return resumed, nil
}

func (s *Scanner) isSkip(tok *mldriver.Token) bool {
	return s.lexSpec.Skip[tok.KindID] == 1
}

func (s *Scanner) isDelimiter(tok *mldriver.Token) bool {
	return s.lexSpec.Delimiter[tok.KindID] == 1
}

func (s *Scanner) newToken(tok *mldriver.Token, pos Position) *Token {
	term := s.lexSpec.KindToTerminal[tok.KindID]
	return &Token{
		TerminalID: term,
		KindName:   s.terms[term],
		Lexeme:     tok.Lexeme,
		Position:   pos,
	}
}

func (s *Scanner) newEOFToken(pos Position) *Token {
	return &Token{
		TerminalID: s.eof,
		KindName:   s.terms[s.eof],
		Position:   pos,
		EOF:        true,
	}
}
