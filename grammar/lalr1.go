package grammar

import (
	"fmt"

	"github.com/nihei9/sccheck/grammar/symbol"
)

// symbolPropagation is the dummy look-ahead `#` of the propagation method. symbol.Nil never appears
// in a real look-ahead set.
const symbolPropagation = symbol.Nil

type stateAndLRItem struct {
	state stateNum
	item  lrItem
}

type propagation struct {
	src  stateAndLRItem
	dest []stateAndLRItem
}

type lalr1Automaton struct {
	*lr0Automaton
}

// genLALR1Automaton attaches LALR(1) look-ahead symbols to the LR(0) automaton by discovering
// spontaneously generated look-aheads and propagating them.
func genLALR1Automaton(lr0 *lr0Automaton, prods *productionSet, first *firstSet) (*lalr1Automaton, error) {
	// [S' → ・S, $]
	iniState := lr0.states[lr0.initialState]
	iniState.lookAhead[iniState.items[0]].add(symbol.EOF)

	var props []*propagation
	for _, state := range lr0.states {
		for _, kItem := range state.items {
			closure, err := genLALR1Closure(kItem, prods, first)
			if err != nil {
				return nil, err
			}

			var dests []stateAndLRItem
			for _, ent := range closure {
				var dest stateAndLRItem
				if ent.item.reducible() {
					if ent.item == kItem {
						continue
					}
					dest = stateAndLRItem{
						state: state.num,
						item:  ent.item,
					}
				} else {
					next, ok := state.next[ent.item.dottedSymbol()]
					if !ok {
						return nil, fmt.Errorf("a transition is missing; state: %v, symbol: %v", state.num, ent.item.dottedSymbol())
					}
					dest = stateAndLRItem{
						state: next,
						item:  ent.item.advance(),
					}
				}

				if ent.lookAhead == symbolPropagation {
					dests = append(dests, dest)
					continue
				}

				las, ok := lr0.states[dest.state].lookAhead[dest.item]
				if !ok {
					return nil, fmt.Errorf("an item is missing; state: %v, item: %v", dest.state, dest.item)
				}
				las.add(ent.lookAhead)
			}
			if len(dests) == 0 {
				continue
			}

			props = append(props, &propagation{
				src: stateAndLRItem{
					state: state.num,
					item:  kItem,
				},
				dest: dests,
			})
		}
	}

	err := propagateLookAhead(lr0, props)
	if err != nil {
		return nil, fmt.Errorf("failed to propagate look-ahead symbols: %v", err)
	}

	return &lalr1Automaton{
		lr0Automaton: lr0,
	}, nil
}

type lr1ClosureEntry struct {
	item      lrItem
	lookAhead symbol.Symbol
}

// genLALR1Closure computes CLOSURE({[srcItem, #]}).
func genLALR1Closure(srcItem lrItem, prods *productionSet, first *firstSet) ([]lr1ClosureEntry, error) {
	src := lr1ClosureEntry{
		item:      srcItem,
		lookAhead: symbolPropagation,
	}
	entries := []lr1ClosureEntry{src}
	known := map[lr1ClosureEntry]struct{}{
		src: {},
	}
	unchecked := []lr1ClosureEntry{src}
	for len(unchecked) > 0 {
		var nextUnchecked []lr1ClosureEntry
		for _, ent := range unchecked {
			sym := ent.item.dottedSymbol()
			if !sym.IsNonTerminal() {
				continue
			}

			fst, err := first.find(ent.item.prod, ent.item.dot+1)
			if err != nil {
				return nil, err
			}
			lookAhead := make([]symbol.Symbol, 0, len(fst.symbols)+1)
			for a := range fst.symbols {
				lookAhead = append(lookAhead, a)
			}
			if fst.empty {
				lookAhead = append(lookAhead, ent.lookAhead)
			}

			ps, _ := prods.findByLHS(sym)
			for _, prod := range ps {
				item, err := newLRItem(prod, 0)
				if err != nil {
					return nil, err
				}
				for _, a := range lookAhead {
					newEnt := lr1ClosureEntry{
						item:      item,
						lookAhead: a,
					}
					if _, ok := known[newEnt]; ok {
						continue
					}
					known[newEnt] = struct{}{}
					entries = append(entries, newEnt)
					nextUnchecked = append(nextUnchecked, newEnt)
				}
			}
		}
		unchecked = nextUnchecked
	}

	return entries, nil
}

func propagateLookAhead(lr0 *lr0Automaton, props []*propagation) error {
	for {
		changed := false
		for _, prop := range props {
			srcLAs, ok := lr0.states[prop.src.state].lookAhead[prop.src.item]
			if !ok {
				return fmt.Errorf("source item not found: %v", prop.src.item)
			}

			for _, dest := range prop.dest {
				destLAs, ok := lr0.states[dest.state].lookAhead[dest.item]
				if !ok {
					return fmt.Errorf("destination item not found; state: %v, item: %v", dest.state, dest.item)
				}
				for a := range srcLAs {
					if destLAs.add(a) {
						changed = true
					}
				}
			}
		}
		if !changed {
			break
		}
	}

	return nil
}
