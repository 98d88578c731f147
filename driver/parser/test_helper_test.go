package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/nihei9/sccheck/grammar"
	spec "github.com/nihei9/sccheck/spec/grammar"
)

func compileTestGrammar(t *testing.T, declare func(b *grammar.Builder)) *spec.CompiledGrammar {
	t.Helper()

	b := grammar.NewBuilder("test")
	declare(b)
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	cg, _, err := grammar.Compile(g)
	if err != nil {
		t.Fatal(err)
	}
	return cg
}

func parseTestSource(t *testing.T, cg *spec.CompiledGrammar, src string, opts ...ParserOption) Result {
	t.Helper()

	toks, err := NewTokenStream(cg, strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewParser(toks, NewGrammar(cg), opts...)
	if err != nil {
		t.Fatal(err)
	}
	res, err := p.Parse()
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func syntaxErrors(res Result) []*SyntaxError {
	f, ok := res.(*Failure)
	if !ok {
		return nil
	}
	var synErrs []*SyntaxError
	for _, e := range f.Errors {
		if synErr, ok := e.(*SyntaxError); ok {
			synErrs = append(synErrs, synErr)
		}
	}
	return synErrs
}

func declareSpaces(b *grammar.Builder) {
	b.Skip("ws", "[\\u{0009}\\u{000A}\\u{0020}]+")
}

func termNode(kind string, text string) *Node {
	return &Node{
		Type:     NodeTypeTerminal,
		KindName: kind,
		Text:     text,
	}
}

func nonTermNode(kind string, children ...*Node) *Node {
	return &Node{
		Type:     NodeTypeNonTerminal,
		KindName: kind,
		Children: children,
	}
}

func errorNode(children ...*Node) *Node {
	return &Node{
		Type:     NodeTypeError,
		KindName: "error",
		Children: children,
	}
}

// testTree compares trees ignoring positions.
func testTree(t *testing.T, node, expected *Node) {
	t.Helper()

	if node.Type != expected.Type || node.KindName != expected.KindName || node.Text != expected.Text {
		t.Fatalf("unexpected node; want: %+v, got: %+v", expected, node)
	}
	if len(node.Children) != len(expected.Children) {
		t.Fatalf("unexpected children; want: %v, got: %v", len(expected.Children), len(node.Children))
	}
	for i, c := range node.Children {
		testTree(t, c, expected.Children[i])
	}
}

type testSemAct struct {
	gram   *spec.CompiledGrammar
	actLog []string
}

func (a *testSemAct) Shift(tok VToken, recovered bool) {
	t := a.gram.ParsingTable.Terminals[tok.TerminalID()]
	if recovered {
		a.actLog = append(a.actLog, "shift/"+t+"/recovered")
		return
	}
	a.actLog = append(a.actLog, "shift/"+t)
}

func (a *testSemAct) Reduce(prodNum int, recovered bool) {
	lhs := a.gram.ParsingTable.LHSSymbols[prodNum]
	lhsText := a.gram.ParsingTable.NonTerminals[lhs]
	if recovered {
		a.actLog = append(a.actLog, "reduce/"+lhsText+"/recovered")
		return
	}
	a.actLog = append(a.actLog, "reduce/"+lhsText)
}

func (a *testSemAct) Accept() {
	a.actLog = append(a.actLog, "accept")
}

func (a *testSemAct) TrapAndShiftError(cause VToken, popped int) {
	a.actLog = append(a.actLog, fmt.Sprintf("trap/%v/shift/error", popped))
}

func (a *testSemAct) MissError(cause VToken) {
	a.actLog = append(a.actLog, "miss")
}
