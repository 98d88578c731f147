package grammar

import (
	"testing"
)

func genTestParsingTable(t *testing.T, gram *Grammar) (*ParsingTable, *lrTableBuilder) {
	t.Helper()

	lr0, err := genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol, gram.errorSymbol)
	if err != nil {
		t.Fatal(err)
	}
	firstSet, err := genFirstSet(gram.productionSet)
	if err != nil {
		t.Fatal(err)
	}
	lalr1, err := genLALR1Automaton(lr0, gram.productionSet, firstSet)
	if err != nil {
		t.Fatal(err)
	}
	b := &lrTableBuilder{
		automaton:    lalr1.lr0Automaton,
		prods:        gram.productionSet,
		termCount:    gram.symbolTable.TerminalCount(),
		nonTermCount: gram.symbolTable.NonTerminalCount(),
		symTab:       gram.symbolTable,
		precAndAssoc: gram.precAndAssoc,
	}
	tab, err := b.build()
	if err != nil {
		t.Fatal(err)
	}
	return tab, b
}

func TestLRTableBuilder_LALR1Grammar(t *testing.T) {
	gram := buildTestGrammar(t, declareLALR1Grammar)
	tab, b := genTestParsingTable(t, gram)

	if len(b.conflicts) != 0 {
		t.Fatalf("a LALR(1) grammar must have no conflicts; got: %v", len(b.conflicts))
	}

	genSym := newTestSymbolGenerator(t, gram.symbolTable)
	genProd := newTestProductionGenerator(t, genSym, gram.productionSet)
	genItem := newTestLRItemGenerator(t, genProd)

	s2 := findState(t, b.automaton, genItem("S", 1, "L", "eq", "R"))
	ty, next, _ := tab.getAction(s2.num, genSym("eq").Num())
	if ty != ActionTypeShift || b.automaton.states[next].items[0] != genItem("S", 2, "L", "eq", "R") {
		t.Fatalf("state %v must shift eq; got: %v %v", s2.num, ty, next)
	}
	ty, _, prod := tab.getAction(s2.num, genSym("<eof>").Num())
	if ty != ActionTypeReduce || prod != genProd("R", "L").num {
		t.Fatalf("state %v must reduce `R → L` on EOF; got: %v %v", s2.num, ty, prod)
	}

	s1 := findState(t, b.automaton, genItem("S'", 1, "S"))
	ty, _, prod = tab.getAction(s1.num, genSym("<eof>").Num())
	if ty != ActionTypeReduce || prod != productionNumStart {
		t.Fatalf("state %v must accept; got: %v %v", s1.num, ty, prod)
	}

	gty, _ := tab.getGoTo(tab.InitialState, genSym("S").Num())
	if gty != GoToTypeRegistered {
		t.Fatalf("the initial state must have a goto entry on S")
	}
	gty, _ = tab.getGoTo(s1.num, genSym("S").Num())
	if gty != GoToTypeError {
		t.Fatalf("state %v must not have a goto entry on S", s1.num)
	}
}

func TestLRTableBuilder_ConflictResolution(t *testing.T) {
	declareExpr := func(b *Builder) {
		b.Literal("add", "+")
		b.Literal("mul", "*")
		b.Literal("eq", "==")
		b.Literal("pow", "^")
		b.Literal("sub", "-")
		b.Terminal("id", "[a-z]+")
		b.Precedence(AssocNonAssoc, "eq")
		b.Precedence(AssocLeft, "add", "sub")
		b.Precedence(AssocLeft, "mul")
		b.Precedence(AssocRight, "pow")
		b.Precedence(AssocRight, "uminus")
		b.Start("expr")
		b.Production("expr", "expr", "eq", "expr")
		b.Production("expr", "expr", "add", "expr")
		b.Production("expr", "expr", "sub", "expr")
		b.Production("expr", "expr", "mul", "expr")
		b.Production("expr", "expr", "pow", "expr")
		b.Production("expr", "sub", "expr").Prec("uminus")
		b.Production("expr", "id")
	}
	gram := buildTestGrammar(t, declareExpr)
	tab, b := genTestParsingTable(t, gram)

	genSym := newTestSymbolGenerator(t, gram.symbolTable)
	genProd := newTestProductionGenerator(t, genSym, gram.productionSet)
	genItem := newTestLRItemGenerator(t, genProd)

	tests := []struct {
		caption string
		item    lrItem
		sym     string
		action  ActionType
		prod    *production
	}{
		{
			caption: "a tighter operator is shifted",
			item:    genItem("expr", 3, "expr", "add", "expr"),
			sym:     "mul",
			action:  ActionTypeShift,
		},
		{
			caption: "a looser operator causes a reduction",
			item:    genItem("expr", 3, "expr", "mul", "expr"),
			sym:     "add",
			action:  ActionTypeReduce,
			prod:    genProd("expr", "expr", "mul", "expr"),
		},
		{
			caption: "a left-associative operator causes a reduction",
			item:    genItem("expr", 3, "expr", "add", "expr"),
			sym:     "sub",
			action:  ActionTypeReduce,
			prod:    genProd("expr", "expr", "add", "expr"),
		},
		{
			caption: "a right-associative operator is shifted",
			item:    genItem("expr", 3, "expr", "pow", "expr"),
			sym:     "pow",
			action:  ActionTypeShift,
		},
		{
			caption: "a non-associative operator is an error",
			item:    genItem("expr", 3, "expr", "eq", "expr"),
			sym:     "eq",
			action:  ActionTypeError,
		},
		{
			caption: "a production with an explicit precedence binds tighter than the operators",
			item:    genItem("expr", 2, "sub", "expr"),
			sym:     "pow",
			action:  ActionTypeReduce,
			prod:    genProd("expr", "sub", "expr"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			s := findState(t, b.automaton, tt.item)
			ty, _, prod := tab.getAction(s.num, genSym(tt.sym).Num())
			if ty != tt.action {
				t.Fatalf("unexpected action; want: %v, got: %v", tt.action, ty)
			}
			if tt.prod != nil && prod != tt.prod.num {
				t.Fatalf("unexpected production; want: %v, got: %v", tt.prod.num, prod)
			}
		})
	}

	report, err := b.genReport(tab, gram)
	if err != nil {
		t.Fatal(err)
	}
	sr, rr := report.ConflictCount()
	if sr == 0 {
		t.Fatalf("the ambiguous grammar must have resolved shift/reduce conflicts")
	}
	if rr != 0 {
		t.Fatalf("unexpected reduce/reduce conflicts: %v", rr)
	}
	for _, s := range report.States {
		for _, c := range s.SRConflict {
			if c.ResolvedBy != ResolvedByPrec.Int() && c.ResolvedBy != ResolvedByAssoc.Int() {
				t.Fatalf("every conflict must be resolved by precedence or associativity; got: %v", c.ResolvedBy)
			}
		}
	}
}

func TestLRTableBuilder_DefaultResolution(t *testing.T) {
	t.Run("a shift/reduce conflict is resolved in favor of the shift", func(t *testing.T) {
		gram := buildTestGrammar(t, func(b *Builder) {
			b.Terminal("if", "if")
			b.Terminal("else", "else")
			b.Terminal("id", "[a-z]+")
			b.Start("stmt")
			b.Production("stmt", "if", "stmt")
			b.Production("stmt", "if", "stmt", "else", "stmt")
			b.Production("stmt", "id")
		})
		tab, b := genTestParsingTable(t, gram)

		genSym := newTestSymbolGenerator(t, gram.symbolTable)
		genProd := newTestProductionGenerator(t, genSym, gram.productionSet)
		genItem := newTestLRItemGenerator(t, genProd)

		s := findState(t, b.automaton, genItem("stmt", 2, "if", "stmt"))
		ty, _, _ := tab.getAction(s.num, genSym("else").Num())
		if ty != ActionTypeShift {
			t.Fatalf("the dangling else must be shifted; got: %v", ty)
		}
		if len(b.conflicts) != 1 {
			t.Fatalf("unexpected conflict count: %v", len(b.conflicts))
		}
		c, ok := b.conflicts[0].(*shiftReduceConflict)
		if !ok || c.resolvedBy != ResolvedByShift {
			t.Fatalf("unexpected conflict: %#v", b.conflicts[0])
		}
	})

	t.Run("a reduce/reduce conflict is resolved in favor of the earlier production", func(t *testing.T) {
		gram := buildTestGrammar(t, func(b *Builder) {
			b.Terminal("id", "[a-z]+")
			b.Start("s")
			b.Production("s", "a")
			b.Production("s", "b")
			b.Production("a", "id")
			b.Production("b", "id")
		})
		tab, b := genTestParsingTable(t, gram)

		genSym := newTestSymbolGenerator(t, gram.symbolTable)
		genProd := newTestProductionGenerator(t, genSym, gram.productionSet)
		genItem := newTestLRItemGenerator(t, genProd)

		s := findState(t, b.automaton, genItem("a", 1, "id"))
		ty, _, prod := tab.getAction(s.num, genSym("<eof>").Num())
		if ty != ActionTypeReduce || prod != genProd("a", "id").num {
			t.Fatalf("`a → id` must be adopted; got: %v %v", ty, prod)
		}
		report, err := b.genReport(tab, gram)
		if err != nil {
			t.Fatal(err)
		}
		_, rr := report.ConflictCount()
		if rr != 1 {
			t.Fatalf("unexpected reduce/reduce conflict count: %v", rr)
		}
	})
}

func TestLRTableBuilder_ErrorTrapperStates(t *testing.T) {
	gram := buildTestGrammar(t, func(b *Builder) {
		b.Literal("semi", ";")
		b.Terminal("id", "[a-z]+")
		b.Start("stmts")
		b.Production("stmts", "stmts", "stmt")
		b.Production("stmts")
		b.Production("stmt", "id", "semi")
		b.Production("stmt", "error", "semi").Recover()
	})
	tab, b := genTestParsingTable(t, gram)

	count := 0
	for _, s := range b.automaton.states {
		if tab.errorTrapperStates[s.num] != 0 {
			count++
			if !s.isErrorTrapper {
				t.Fatalf("state %v is not an error trapper", s.num)
			}
		}
	}
	if count != 1 {
		t.Fatalf("unexpected error trapper count: %v", count)
	}
}
