package parser

import (
	"testing"

	"github.com/nihei9/sccheck/grammar"
)

func TestParserWithConflicts(t *testing.T) {
	tests := []struct {
		caption string
		declare func(b *grammar.Builder)
		src     string
		cst     *Node
	}{
		{
			caption: "when a shift/reduce conflict occurred, we prioritize the shift action",
			declare: func(b *grammar.Builder) {
				b.Literal("assign", "=")
				b.Terminal("id", "[A-Za-z0-9_]+")
				b.Start("expr")
				b.Production("expr", "expr", "assign", "expr")
				b.Production("expr", "id")
			},
			src: `foo=bar=baz`,
			cst: nonTermNode("expr",
				nonTermNode("expr",
					termNode("id", "foo"),
				),
				termNode("assign", "="),
				nonTermNode("expr",
					nonTermNode("expr",
						termNode("id", "bar"),
					),
					termNode("assign", "="),
					nonTermNode("expr",
						termNode("id", "baz"),
					),
				),
			),
		},
		{
			caption: "when a reduce/reduce conflict occurred, we prioritize the production defined earlier in the grammar",
			declare: func(b *grammar.Builder) {
				b.Terminal("id", "[A-Za-z0-9_]+")
				b.Start("s")
				b.Production("s", "a")
				b.Production("s", "b")
				b.Production("a", "id")
				b.Production("b", "id")
			},
			src: `foo`,
			cst: nonTermNode("s",
				nonTermNode("a",
					termNode("id", "foo"),
				),
			),
		},
		{
			caption: "left associativities declared in the same call have the same precedence",
			declare: func(b *grammar.Builder) {
				b.Literal("add", "+")
				b.Literal("sub", "-")
				b.Terminal("id", "[A-Za-z0-9_]+")
				b.Precedence(grammar.AssocLeft, "add", "sub")
				b.Start("expr")
				b.Production("expr", "expr", "add", "expr")
				b.Production("expr", "expr", "sub", "expr")
				b.Production("expr", "id")
			},
			src: `a-b+c+d-e`,
			cst: nonTermNode("expr",
				nonTermNode("expr",
					nonTermNode("expr",
						nonTermNode("expr",
							nonTermNode("expr",
								termNode("id", "a"),
							),
							termNode("sub", "-"),
							nonTermNode("expr",
								termNode("id", "b"),
							),
						),
						termNode("add", "+"),
						nonTermNode("expr",
							termNode("id", "c"),
						),
					),
					termNode("add", "+"),
					nonTermNode("expr",
						termNode("id", "d"),
					),
				),
				termNode("sub", "-"),
				nonTermNode("expr",
					termNode("id", "e"),
				),
			),
		},
		{
			caption: "right associativities declared later have higher precedence",
			declare: func(b *grammar.Builder) {
				declareSpaces(b)
				b.Literal("r1", "r1")
				b.Literal("r2", "r2")
				b.Terminal("id", "[A-Za-z0-9_]+")
				b.Precedence(grammar.AssocRight, "r2")
				b.Precedence(grammar.AssocRight, "r1")
				b.Start("expr")
				b.Production("expr", "expr", "r2", "expr")
				b.Production("expr", "expr", "r1", "expr")
				b.Production("expr", "id")
			},
			src: `a r2 b r1 c r1 d r2 e`,
			cst: nonTermNode("expr",
				nonTermNode("expr",
					termNode("id", "a"),
				),
				termNode("r2", "r2"),
				nonTermNode("expr",
					nonTermNode("expr",
						nonTermNode("expr",
							termNode("id", "b"),
						),
						termNode("r1", "r1"),
						nonTermNode("expr",
							nonTermNode("expr",
								termNode("id", "c"),
							),
							termNode("r1", "r1"),
							nonTermNode("expr",
								termNode("id", "d"),
							),
						),
					),
					termNode("r2", "r2"),
					nonTermNode("expr",
						termNode("id", "e"),
					),
				),
			),
		},
		{
			caption: "right associativities declared in the same call have the same precedence",
			declare: func(b *grammar.Builder) {
				declareSpaces(b)
				b.Literal("r1", "r1")
				b.Literal("r2", "r2")
				b.Terminal("id", "[A-Za-z0-9_]+")
				b.Precedence(grammar.AssocRight, "r1", "r2")
				b.Start("expr")
				b.Production("expr", "expr", "r2", "expr")
				b.Production("expr", "expr", "r1", "expr")
				b.Production("expr", "id")
			},
			src: `a r2 b r1 c r1 d r2 e`,
			cst: nonTermNode("expr",
				nonTermNode("expr",
					termNode("id", "a"),
				),
				termNode("r2", "r2"),
				nonTermNode("expr",
					nonTermNode("expr",
						termNode("id", "b"),
					),
					termNode("r1", "r1"),
					nonTermNode("expr",
						nonTermNode("expr",
							termNode("id", "c"),
						),
						termNode("r1", "r1"),
						nonTermNode("expr",
							nonTermNode("expr",
								termNode("id", "d"),
							),
							termNode("r2", "r2"),
							nonTermNode("expr",
								termNode("id", "e"),
							),
						),
					),
				),
			),
		},
		{
			caption: "left, right, and explicit precedences can be mixed",
			declare: func(b *grammar.Builder) {
				declareSpaces(b)
				b.Literal("assign", "=")
				b.Literal("add", "+")
				b.Literal("sub", "-")
				b.Literal("mul", "*")
				b.Literal("div", "/")
				b.Terminal("id", "[A-Za-z0-9_]+")
				b.Precedence(grammar.AssocRight, "assign")
				b.Precedence(grammar.AssocLeft, "add", "sub")
				b.Precedence(grammar.AssocLeft, "mul", "div")
				b.Precedence(grammar.AssocRight, "uminus")
				b.Start("expr")
				b.Production("expr", "expr", "assign", "expr")
				b.Production("expr", "expr", "add", "expr")
				b.Production("expr", "expr", "sub", "expr")
				b.Production("expr", "expr", "mul", "expr")
				b.Production("expr", "expr", "div", "expr")
				b.Production("expr", "sub", "expr").Prec("uminus")
				b.Production("expr", "id")
			},
			src: `x = y = - a + b * c - d / e`,
			cst: nonTermNode("expr",
				nonTermNode("expr",
					termNode("id", "x"),
				),
				termNode("assign", "="),
				nonTermNode("expr",
					nonTermNode("expr",
						termNode("id", "y"),
					),
					termNode("assign", "="),
					nonTermNode("expr",
						nonTermNode("expr",
							nonTermNode("expr",
								termNode("sub", "-"),
								nonTermNode("expr",
									termNode("id", "a"),
								),
							),
							termNode("add", "+"),
							nonTermNode("expr",
								nonTermNode("expr",
									termNode("id", "b"),
								),
								termNode("mul", "*"),
								nonTermNode("expr",
									termNode("id", "c"),
								),
							),
						),
						termNode("sub", "-"),
						nonTermNode("expr",
							nonTermNode("expr",
								termNode("id", "d"),
							),
							termNode("div", "/"),
							nonTermNode("expr",
								termNode("id", "e"),
							),
						),
					),
				),
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			cg := compileTestGrammar(t, tt.declare)
			res := parseTestSource(t, cg, tt.src)
			s, ok := res.(*Success)
			if !ok {
				t.Fatalf("unexpected result: %#v", res)
			}
			testTree(t, s.Tree, tt.cst)
		})
	}
}

func TestParserWithNonAssociativeOperators(t *testing.T) {
	cg := compileTestGrammar(t, func(b *grammar.Builder) {
		declareSpaces(b)
		b.Literal("eq", "==")
		b.Literal("add", "+")
		b.Terminal("id", "[A-Za-z0-9_]+")
		b.Precedence(grammar.AssocNonAssoc, "eq")
		b.Precedence(grammar.AssocLeft, "add")
		b.Start("expr")
		b.Production("expr", "expr", "eq", "expr")
		b.Production("expr", "expr", "add", "expr")
		b.Production("expr", "id")
	})

	if _, ok := parseTestSource(t, cg, `a == b + c`).(*Success); !ok {
		t.Fatalf("`a == b + c` must be accepted")
	}

	synErrs := syntaxErrors(parseTestSource(t, cg, `a == b == c`))
	if len(synErrs) != 1 {
		t.Fatalf("unexpected syntax errors: %v", synErrs)
	}
	if synErrs[0].Found != "==" || synErrs[0].Position.Offset != 7 {
		t.Fatalf("unexpected syntax error: %+v", synErrs[0])
	}
}
