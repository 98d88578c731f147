package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nihei9/sccheck/driver/lexer"
)

// Diagnostic is a problem found in a source text. *lexer.LexicalError and *SyntaxError implement it.
type Diagnostic interface {
	error

	// Kind returns a short category such as `syntax error`.
	Kind() string

	Pos() lexer.Position
	Message() string

	// Expected returns the terminals that could have appeared at the position, or nil.
	Expected() []string
}

var (
	_ Diagnostic = &SyntaxError{}
	_ Diagnostic = &lexer.LexicalError{}
)

// SyntaxError is a token the parser could not accept at its position.
type SyntaxError struct {
	Position lexer.Position

	// Found is the lexeme of the offending token. It is empty when FoundEOF is true.
	Found     string
	FoundKind string
	FoundEOF  bool

	ExpectedTerminals []string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: %v: %v", e.Position, e.Kind(), e.Message())
	if len(e.ExpectedTerminals) > 0 {
		fmt.Fprintf(&b, "; expected: %v", strings.Join(e.ExpectedTerminals, ", "))
	}
	return b.String()
}

func (e *SyntaxError) Kind() string {
	return "syntax error"
}

func (e *SyntaxError) Pos() lexer.Position {
	return e.Position
}

func (e *SyntaxError) Message() string {
	if e.FoundEOF {
		return "unexpected <eof>"
	}
	return fmt.Sprintf("unexpected '%v'", e.Found)
}

func (e *SyntaxError) Expected() []string {
	return e.ExpectedTerminals
}

// InternalError means the parsing table or the parser itself is broken. It is never caused by
// a source text.
type InternalError struct {
	Message string
	State   int
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %v; state: %v", e.Message, e.State)
}

// Result is either *Success or *Failure.
type Result interface {
	result()
}

// Success means the parser accepted an input and no diagnostic was recorded.
type Success struct {
	Tree *Node
}

// Failure holds one or more diagnostics sorted by their offsets. Tree is the syntax tree when
// the parser accepted the input after recovering from errors, otherwise nil.
type Failure struct {
	Errors []Diagnostic
	Tree   *Node
}

func (*Success) result() {}
func (*Failure) result() {}

func newResult(accepted bool, tree *Node, diags []Diagnostic) Result {
	if accepted && len(diags) == 0 {
		return &Success{
			Tree: tree,
		}
	}
	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Pos().Offset < diags[j].Pos().Offset
	})
	f := &Failure{
		Errors: diags,
	}
	if accepted {
		f.Tree = tree
	}
	return f
}
