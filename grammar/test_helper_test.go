package grammar

import (
	"testing"

	"github.com/nihei9/sccheck/grammar/symbol"
)

type testSymbolGenerator func(text string) symbol.Symbol

func newTestSymbolGenerator(t *testing.T, symTab *symbol.Table) testSymbolGenerator {
	return func(text string) symbol.Symbol {
		t.Helper()

		sym, ok := symTab.ToSymbol(text)
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

type testProductionGenerator func(lhs string, rhs ...string) *production

// newTestProductionGenerator returns the registered production, so items made of it are
// comparable with the items of an automaton.
func newTestProductionGenerator(t *testing.T, genSym testSymbolGenerator, prods *productionSet) testProductionGenerator {
	return func(lhs string, rhs ...string) *production {
		t.Helper()

		rhsSym := []symbol.Symbol{}
		for _, text := range rhs {
			rhsSym = append(rhsSym, genSym(text))
		}
		p, err := newProduction(genSym(lhs), rhsSym)
		if err != nil {
			t.Fatalf("failed to create a production: %v", err)
		}
		prod, ok := prods.key2Prod[p.key()]
		if !ok {
			t.Fatalf("production was not found: %v", p.key())
		}

		return prod
	}
}

type testLRItemGenerator func(lhs string, dot int, rhs ...string) lrItem

func newTestLRItemGenerator(t *testing.T, genProd testProductionGenerator) testLRItemGenerator {
	return func(lhs string, dot int, rhs ...string) lrItem {
		t.Helper()

		item, err := newLRItem(genProd(lhs, rhs...), dot)
		if err != nil {
			t.Fatalf("failed to create a LR item: %v", err)
		}

		return item
	}
}

func buildTestGrammar(t *testing.T, declare func(b *Builder)) *Grammar {
	t.Helper()

	b := NewBuilder("test")
	declare(b)
	gram, err := b.Build()
	if err != nil {
		t.Fatalf("failed to build a grammar: %v", err)
	}
	return gram
}

// declareLALR1Grammar declares the grammar which belongs to LALR(1) class, not SLR(1).
//
//	S → L eq R | R
//	L → ref R | id
//	R → L
func declareLALR1Grammar(b *Builder) {
	b.Literal("eq", "=")
	b.Literal("ref", "*")
	b.Terminal("id", "[A-Za-z0-9_]+")
	b.Start("S")
	b.Production("S", "L", "eq", "R")
	b.Production("S", "R")
	b.Production("L", "ref", "R")
	b.Production("L", "id")
	b.Production("R", "L")
}

func findState(t *testing.T, automaton *lr0Automaton, item lrItem) *lrState {
	t.Helper()

	for _, s := range automaton.states {
		for _, kItem := range s.items {
			if kItem == item {
				return s
			}
		}
	}
	t.Fatalf("a state having the kernel item was not found: %v", item)
	return nil
}
