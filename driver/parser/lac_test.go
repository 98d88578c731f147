package parser

import (
	"strings"
	"testing"

	"github.com/nihei9/sccheck/grammar"
)

func TestParserWithLAC(t *testing.T) {
	gram := compileTestGrammar(t, func(b *grammar.Builder) {
		b.Literal("c", "c")
		b.Literal("d", "d")
		b.Start("s")
		b.Production("s", "t", "t")
		b.Production("t", "c", "t")
		b.Production("t", "d")
	})

	src := `ccd`

	actLogWithLAC := []string{
		"shift/c",
		"shift/c",
		"shift/d",
		"miss",
	}

	actLogWithoutLAC := []string{
		"shift/c",
		"shift/c",
		"shift/d",
		"reduce/t",
		"reduce/t",
		"reduce/t",
		"miss",
	}

	tests := []struct {
		caption string
		opts    []ParserOption
		actLog  []string
	}{
		{
			caption: "LAC is enabled",
			actLog:  actLogWithLAC,
		},
		{
			caption: "LAC is disabled",
			opts:    []ParserOption{DisableLAC()},
			actLog:  actLogWithoutLAC,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			semAct := &testSemAct{
				gram: gram,
			}

			toks, err := NewTokenStream(gram, strings.NewReader(src))
			if err != nil {
				t.Fatal(err)
			}

			p, err := NewParser(toks, NewGrammar(gram), append(tt.opts, SemanticAction(semAct))...)
			if err != nil {
				t.Fatal(err)
			}

			res, err := p.Parse()
			if err != nil {
				t.Fatal(err)
			}
			if _, ok := res.(*Failure); !ok {
				t.Fatalf("unexpected result: %T", res)
			}

			if len(semAct.actLog) != len(tt.actLog) {
				t.Fatalf("unexpected action log; want: %+v, got: %+v", tt.actLog, semAct.actLog)
			}

			for i, e := range tt.actLog {
				if semAct.actLog[i] != e {
					t.Fatalf("unexpected action log; want: %+v, got: %+v", tt.actLog, semAct.actLog)
				}
			}
		})
	}
}

func TestParserWithLAC_ExpectedTerminals(t *testing.T) {
	gram := compileTestGrammar(t, func(b *grammar.Builder) {
		b.Literal("c", "c")
		b.Literal("d", "d")
		b.Start("s")
		b.Production("s", "t", "t")
		b.Production("t", "c", "t")
		b.Production("t", "d")
	})

	// The table of the state after `d` has reductions on c, d, and EOF, but only c and d can
	// follow `c c d` actually.
	for _, opts := range [][]ParserOption{nil, {DisableLAC()}} {
		synErrs := syntaxErrors(parseTestSource(t, gram, "ccd", opts...))
		if len(synErrs) != 1 {
			t.Fatalf("unexpected syntax errors: %v", synErrs)
		}
		expected := synErrs[0].ExpectedTerminals
		if len(expected) != 2 || expected[0] != "'c'" || expected[1] != "'d'" {
			t.Fatalf("unexpected expected terminals: %v", expected)
		}
	}
}
