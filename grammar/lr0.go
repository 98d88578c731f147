package grammar

import (
	"fmt"
	"sort"

	"github.com/nihei9/sccheck/grammar/symbol"
)

type lr0Automaton struct {
	initialState stateNum

	// states is indexed by state numbers.
	states []*lrState
}

func genLR0Automaton(prods *productionSet, startSym symbol.Symbol, errSym symbol.Symbol) (*lr0Automaton, error) {
	if !startSym.IsStart() {
		return nil, fmt.Errorf("passed symbold is not a start symbol")
	}

	automaton := &lr0Automaton{
		initialState: stateNumInitial,
	}

	known := map[kernelKey]stateNum{}
	var unchecked []*kernel

	{
		ps, _ := prods.findByLHS(startSym)
		if len(ps) != 1 {
			return nil, fmt.Errorf("the start symbol must have exactly one production")
		}
		initialItem, err := newLRItem(ps[0], 0)
		if err != nil {
			return nil, err
		}
		k, err := newKernel([]lrItem{initialItem})
		if err != nil {
			return nil, err
		}
		known[k.key] = stateNumInitial
		unchecked = append(unchecked, k)
	}

	for len(unchecked) > 0 {
		k := unchecked[0]
		unchecked = unchecked[1:]

		state, neighbours, err := genStateAndNeighbourKernels(k, prods, errSym)
		if err != nil {
			return nil, err
		}
		state.num = known[k.key]

		for _, n := range neighbours {
			num, ok := known[n.kernel.key]
			if !ok {
				num = stateNum(len(known))
				known[n.kernel.key] = num
				unchecked = append(unchecked, n.kernel)
			}
			state.next[n.symbol] = num
		}

		automaton.states = append(automaton.states, state)
	}

	// States are discovered and processed in the same FIFO order, so the slice is already indexed by numbers.
	for i, s := range automaton.states {
		if s.num.Int() != i {
			return nil, fmt.Errorf("state numbering is broken; index: %v, state: %v", i, s.num)
		}
	}

	return automaton, nil
}

func genStateAndNeighbourKernels(k *kernel, prods *productionSet, errSym symbol.Symbol) (*lrState, []*neighbourKernel, error) {
	items, err := genLR0Closure(k, prods)
	if err != nil {
		return nil, nil, err
	}
	neighbours, err := genNeighbourKernels(items)
	if err != nil {
		return nil, nil, err
	}

	state := &lrState{
		kernel:    k,
		next:      map[symbol.Symbol]stateNum{},
		lookAhead: map[lrItem]lookAheadSet{},
	}
	for _, item := range k.items {
		state.lookAhead[item] = lookAheadSet{}
	}
	for _, item := range items {
		if item.dottedSymbol() == errSym {
			state.isErrorTrapper = true
		}
		if !item.reducible() {
			continue
		}
		state.reducible = append(state.reducible, item)
		if item.prod.isEmpty() {
			state.lookAhead[item] = lookAheadSet{}
		}
	}

	return state, neighbours, nil
}

func genLR0Closure(k *kernel, prods *productionSet) ([]lrItem, error) {
	var items []lrItem
	known := map[lrItem]struct{}{}
	var unchecked []lrItem
	for _, item := range k.items {
		items = append(items, item)
		known[item] = struct{}{}
		unchecked = append(unchecked, item)
	}
	for len(unchecked) > 0 {
		var nextUnchecked []lrItem
		for _, item := range unchecked {
			sym := item.dottedSymbol()
			if !sym.IsNonTerminal() {
				continue
			}

			ps, _ := prods.findByLHS(sym)
			for _, prod := range ps {
				newItem, err := newLRItem(prod, 0)
				if err != nil {
					return nil, err
				}
				if _, ok := known[newItem]; ok {
					continue
				}
				known[newItem] = struct{}{}
				items = append(items, newItem)
				nextUnchecked = append(nextUnchecked, newItem)
			}
		}
		unchecked = nextUnchecked
	}

	return items, nil
}

type neighbourKernel struct {
	symbol symbol.Symbol
	kernel *kernel
}

// genNeighbourKernels returns the kernels of goto(I, X) sorted by X so that state numbers are deterministic.
func genNeighbourKernels(items []lrItem) ([]*neighbourKernel, error) {
	kItemMap := map[symbol.Symbol][]lrItem{}
	for _, item := range items {
		sym := item.dottedSymbol()
		if sym.IsNil() {
			continue
		}
		kItemMap[sym] = append(kItemMap[sym], item.advance())
	}

	nextSyms := make([]symbol.Symbol, 0, len(kItemMap))
	for sym := range kItemMap {
		nextSyms = append(nextSyms, sym)
	}
	sort.Slice(nextSyms, func(i, j int) bool {
		return nextSyms[i] < nextSyms[j]
	})

	kernels := make([]*neighbourKernel, 0, len(nextSyms))
	for _, sym := range nextSyms {
		k, err := newKernel(kItemMap[sym])
		if err != nil {
			return nil, err
		}
		kernels = append(kernels, &neighbourKernel{
			symbol: sym,
			kernel: k,
		})
	}

	return kernels, nil
}
