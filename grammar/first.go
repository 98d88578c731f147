package grammar

import (
	"fmt"

	"github.com/nihei9/sccheck/grammar/symbol"
)

type firstEntry struct {
	symbols map[symbol.Symbol]struct{}
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		symbols: map[symbol.Symbol]struct{}{},
	}
}

func (e *firstEntry) add(sym symbol.Symbol) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *firstEntry) addEmpty() bool {
	if e.empty {
		return false
	}
	e.empty = true
	return true
}

func (e *firstEntry) mergeExceptEmpty(target *firstEntry) bool {
	if target == nil {
		return false
	}
	changed := false
	for sym := range target.symbols {
		if e.add(sym) {
			changed = true
		}
	}
	return changed
}

type firstSet struct {
	set map[symbol.Symbol]*firstEntry
}

// findBySymbol returns FIRST(sym) of a non-terminal.
func (fst *firstSet) findBySymbol(sym symbol.Symbol) *firstEntry {
	return fst.set[sym]
}

// ofSequence returns FIRST(syms). The returned entry is a fresh one, so callers can modify it.
func (fst *firstSet) ofSequence(syms []symbol.Symbol) (*firstEntry, error) {
	entry := newFirstEntry()
	for _, sym := range syms {
		if sym.IsTerminal() {
			entry.add(sym)
			return entry, nil
		}

		e := fst.findBySymbol(sym)
		if e == nil {
			return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		entry.mergeExceptEmpty(e)
		if !e.empty {
			return entry, nil
		}
	}
	entry.addEmpty()
	return entry, nil
}

// find returns FIRST of the RHS suffix of a production starting at head.
func (fst *firstSet) find(prod *production, head int) (*firstEntry, error) {
	if head >= prod.rhsLen {
		entry := newFirstEntry()
		entry.addEmpty()
		return entry, nil
	}
	return fst.ofSequence(prod.rhs[head:])
}

func genFirstSet(prods *productionSet) (*firstSet, error) {
	fst := &firstSet{
		set: map[symbol.Symbol]*firstEntry{},
	}
	for _, prod := range prods.getAllProductions() {
		if _, ok := fst.set[prod.lhs]; ok {
			continue
		}
		fst.set[prod.lhs] = newFirstEntry()
	}

	for {
		more := false
		for _, prod := range prods.getAllProductions() {
			changed, err := genProdFirstEntry(fst, fst.findBySymbol(prod.lhs), prod)
			if err != nil {
				return nil, err
			}
			if changed {
				more = true
			}
		}
		if !more {
			break
		}
	}
	return fst, nil
}

func genProdFirstEntry(fst *firstSet, acc *firstEntry, prod *production) (bool, error) {
	if prod.isEmpty() {
		return acc.addEmpty(), nil
	}

	changed := false
	for _, sym := range prod.rhs {
		if sym.IsTerminal() {
			return acc.add(sym) || changed, nil
		}

		e := fst.findBySymbol(sym)
		if e == nil {
			return false, fmt.Errorf("a non-terminal has no production; symbol: %s", sym)
		}
		if acc.mergeExceptEmpty(e) {
			changed = true
		}
		if !e.empty {
			return changed, nil
		}
	}
	return acc.addEmpty() || changed, nil
}
