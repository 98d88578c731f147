package grammar

import (
	"fmt"
	"sort"

	"github.com/nihei9/sccheck/grammar/symbol"
	spec "github.com/nihei9/sccheck/spec/grammar"
)

type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeError  = ActionType("error")
)

// actionEntry encodes a shift by a negative state number, a reduce by a positive production number,
// and an error by zero. The initial state is never a shift target, so the encoding is unambiguous.
type actionEntry int

const actionEntryEmpty = actionEntry(0)

func newShiftActionEntry(state stateNum) actionEntry {
	return actionEntry(state * -1)
}

func newReduceActionEntry(prod productionNum) actionEntry {
	return actionEntry(prod)
}

func (e actionEntry) isEmpty() bool {
	return e == actionEntryEmpty
}

func (e actionEntry) describe() (ActionType, stateNum, productionNum) {
	if e == actionEntryEmpty {
		return ActionTypeError, stateNumInitial, productionNumNil
	}
	if e < 0 {
		return ActionTypeShift, stateNum(e * -1), productionNumNil
	}
	return ActionTypeReduce, stateNumInitial, productionNum(e)
}

type GoToType string

const (
	GoToTypeRegistered = GoToType("registered")
	GoToTypeError      = GoToType("error")
)

type goToEntry uint

const goToEntryEmpty = goToEntry(0)

func newGoToEntry(state stateNum) goToEntry {
	return goToEntry(state)
}

func (e goToEntry) describe() (GoToType, stateNum) {
	if e == goToEntryEmpty {
		return GoToTypeError, stateNumInitial
	}
	return GoToTypeRegistered, stateNum(e)
}

type conflictResolutionMethod int

func (m conflictResolutionMethod) Int() int {
	return int(m)
}

const (
	ResolvedByPrec      conflictResolutionMethod = 1
	ResolvedByAssoc     conflictResolutionMethod = 2
	ResolvedByShift     conflictResolutionMethod = 3
	ResolvedByProdOrder conflictResolutionMethod = 4
)

type conflict interface {
	conflict()
}

type shiftReduceConflict struct {
	state      stateNum
	sym        symbol.Symbol
	nextState  stateNum
	prodNum    productionNum
	resolvedBy conflictResolutionMethod
}

func (c *shiftReduceConflict) conflict() {
}

type reduceReduceConflict struct {
	state      stateNum
	sym        symbol.Symbol
	prodNum1   productionNum
	prodNum2   productionNum
	resolvedBy conflictResolutionMethod
}

func (c *reduceReduceConflict) conflict() {
}

var (
	_ conflict = &shiftReduceConflict{}
	_ conflict = &reduceReduceConflict{}
)

type ParsingTable struct {
	actionTable      []actionEntry
	goToTable        []goToEntry
	stateCount       int
	terminalCount    int
	nonTerminalCount int

	// errorTrapperStates's index means a state number, and when `errorTrapperStates[stateNum]` is `1`,
	// the state has an item having the following form. The `α` and `β` can be empty.
	//
	// A → α・error β
	errorTrapperStates []int

	InitialState stateNum
}

func (t *ParsingTable) getAction(state stateNum, sym symbol.Num) (ActionType, stateNum, productionNum) {
	pos := state.Int()*t.terminalCount + sym.Int()
	return t.actionTable[pos].describe()
}

func (t *ParsingTable) getGoTo(state stateNum, sym symbol.Num) (GoToType, stateNum) {
	pos := state.Int()*t.nonTerminalCount + sym.Int()
	return t.goToTable[pos].describe()
}

func (t *ParsingTable) readAction(row int, col int) actionEntry {
	return t.actionTable[row*t.terminalCount+col]
}

func (t *ParsingTable) writeAction(row int, col int, act actionEntry) {
	t.actionTable[row*t.terminalCount+col] = act
}

func (t *ParsingTable) writeGoTo(state stateNum, sym symbol.Symbol, nextState stateNum) {
	pos := state.Int()*t.nonTerminalCount + sym.Num().Int()
	t.goToTable[pos] = newGoToEntry(nextState)
}

type tableCell struct {
	state stateNum
	sym   symbol.Num
}

type lrTableBuilder struct {
	automaton    *lr0Automaton
	prods        *productionSet
	termCount    int
	nonTermCount int
	symTab       *symbol.Table
	precAndAssoc *precAndAssoc

	conflicts []conflict

	// nonAssocErrors contains the cells a non-associative conflict turned into errors.
	// No later write may fill them.
	nonAssocErrors map[tableCell]struct{}
}

func (b *lrTableBuilder) build() (*ParsingTable, error) {
	ptab := &ParsingTable{
		actionTable:        make([]actionEntry, len(b.automaton.states)*b.termCount),
		goToTable:          make([]goToEntry, len(b.automaton.states)*b.nonTermCount),
		stateCount:         len(b.automaton.states),
		terminalCount:      b.termCount,
		nonTerminalCount:   b.nonTermCount,
		errorTrapperStates: make([]int, len(b.automaton.states)),
		InitialState:       b.automaton.initialState,
	}
	b.nonAssocErrors = map[tableCell]struct{}{}

	for _, state := range b.automaton.states {
		if state.isErrorTrapper {
			ptab.errorTrapperStates[state.num] = 1
		}

		syms := make([]symbol.Symbol, 0, len(state.next))
		for sym := range state.next {
			syms = append(syms, sym)
		}
		sort.Slice(syms, func(i, j int) bool {
			return syms[i] < syms[j]
		})
		for _, sym := range syms {
			nextState := state.next[sym]
			if sym.IsTerminal() {
				b.writeShiftAction(ptab, state.num, sym, nextState)
			} else {
				ptab.writeGoTo(state.num, sym, nextState)
			}
		}

		for _, item := range state.reducible {
			las, ok := state.lookAhead[item]
			if !ok {
				return nil, fmt.Errorf("reducible item not found; state: %v, production: %v", state.num, item.prod.num)
			}
			syms := make([]symbol.Symbol, 0, len(las))
			for a := range las {
				syms = append(syms, a)
			}
			sort.Slice(syms, func(i, j int) bool {
				return syms[i] < syms[j]
			})
			for _, a := range syms {
				b.writeReduceAction(ptab, state.num, a, item.prod.num)
			}
		}
	}

	return ptab, nil
}

func (b *lrTableBuilder) isNonAssocError(state stateNum, sym symbol.Symbol) bool {
	_, ok := b.nonAssocErrors[tableCell{state: state, sym: sym.Num()}]
	return ok
}

func (b *lrTableBuilder) markNonAssocError(tab *ParsingTable, state stateNum, sym symbol.Symbol) {
	b.nonAssocErrors[tableCell{state: state, sym: sym.Num()}] = struct{}{}
	tab.writeAction(state.Int(), sym.Num().Int(), actionEntryEmpty)
}

// writeShiftAction writes a shift action to the parsing table. When a shift/reduce conflict occurs,
// the precedence and associativity decide, and the shift wins when they cannot.
func (b *lrTableBuilder) writeShiftAction(tab *ParsingTable, state stateNum, sym symbol.Symbol, nextState stateNum) {
	if b.isNonAssocError(state, sym) {
		return
	}
	act := tab.readAction(state.Int(), sym.Num().Int())
	if !act.isEmpty() {
		ty, _, p := act.describe()
		if ty == ActionTypeReduce {
			act, method := b.resolveSRConflict(sym.Num(), p)
			b.conflicts = append(b.conflicts, &shiftReduceConflict{
				state:      state,
				sym:        sym,
				nextState:  nextState,
				prodNum:    p,
				resolvedBy: method,
			})
			switch act {
			case ActionTypeShift:
				tab.writeAction(state.Int(), sym.Num().Int(), newShiftActionEntry(nextState))
			case ActionTypeError:
				b.markNonAssocError(tab, state, sym)
			}
			return
		}
	}
	tab.writeAction(state.Int(), sym.Num().Int(), newShiftActionEntry(nextState))
}

// writeReduceAction writes a reduce action to the parsing table. A reduce/reduce conflict is resolved
// in favor of the production declared earlier.
func (b *lrTableBuilder) writeReduceAction(tab *ParsingTable, state stateNum, sym symbol.Symbol, prod productionNum) {
	if b.isNonAssocError(state, sym) {
		return
	}
	act := tab.readAction(state.Int(), sym.Num().Int())
	if !act.isEmpty() {
		ty, s, p := act.describe()
		switch ty {
		case ActionTypeReduce:
			if p == prod {
				return
			}

			b.conflicts = append(b.conflicts, &reduceReduceConflict{
				state:      state,
				sym:        sym,
				prodNum1:   p,
				prodNum2:   prod,
				resolvedBy: ResolvedByProdOrder,
			})
			if p < prod {
				tab.writeAction(state.Int(), sym.Num().Int(), newReduceActionEntry(p))
			} else {
				tab.writeAction(state.Int(), sym.Num().Int(), newReduceActionEntry(prod))
			}
		case ActionTypeShift:
			act, method := b.resolveSRConflict(sym.Num(), prod)
			b.conflicts = append(b.conflicts, &shiftReduceConflict{
				state:      state,
				sym:        sym,
				nextState:  s,
				prodNum:    prod,
				resolvedBy: method,
			})
			switch act {
			case ActionTypeReduce:
				tab.writeAction(state.Int(), sym.Num().Int(), newReduceActionEntry(prod))
			case ActionTypeError:
				b.markNonAssocError(tab, state, sym)
			}
		}
		return
	}
	tab.writeAction(state.Int(), sym.Num().Int(), newReduceActionEntry(prod))
}

func (b *lrTableBuilder) resolveSRConflict(sym symbol.Num, prod productionNum) (ActionType, conflictResolutionMethod) {
	symPrec := b.precAndAssoc.terminalPrecedence(sym)
	prodPrec := b.precAndAssoc.productionPrecedence(prod)
	if symPrec == precNil || prodPrec == precNil {
		return ActionTypeShift, ResolvedByShift
	}
	if symPrec == prodPrec {
		switch b.precAndAssoc.productionAssociativity(prod) {
		case AssocLeft:
			return ActionTypeReduce, ResolvedByAssoc
		case AssocNonAssoc:
			return ActionTypeError, ResolvedByAssoc
		default:
			return ActionTypeShift, ResolvedByAssoc
		}
	}
	if symPrec > prodPrec {
		return ActionTypeShift, ResolvedByPrec
	}
	return ActionTypeReduce, ResolvedByPrec
}

func assocToReport(assoc Assoc) string {
	switch assoc {
	case AssocLeft:
		return "l"
	case AssocRight:
		return "r"
	case AssocNonAssoc:
		return "n"
	}
	return ""
}

func (b *lrTableBuilder) genReport(tab *ParsingTable, gram *Grammar) (*spec.Report, error) {
	var terms []*spec.Terminal
	{
		termSyms := b.symTab.TerminalSymbols()
		terms = make([]*spec.Terminal, b.termCount)
		for _, sym := range termSyms {
			name, ok := b.symTab.ToText(sym)
			if !ok {
				return nil, fmt.Errorf("failed to generate terminals: symbol not found: %v", sym)
			}

			terms[sym.Num()] = &spec.Terminal{
				Number:        sym.Num().Int(),
				Name:          name,
				Alias:         gram.kindAliases[sym],
				Pattern:       gram.sym2Pattern[sym],
				Precedence:    b.precAndAssoc.terminalPrecedence(sym.Num()),
				Associativity: assocToReport(b.precAndAssoc.terminalAssociativity(sym.Num())),
			}
		}
	}

	var nonTerms []*spec.NonTerminal
	{
		nonTermSyms := b.symTab.NonTerminalSymbols()
		nonTerms = make([]*spec.NonTerminal, b.nonTermCount)
		for _, sym := range nonTermSyms {
			name, ok := b.symTab.ToText(sym)
			if !ok {
				return nil, fmt.Errorf("failed to generate non-terminals: symbol not found: %v", sym)
			}

			nonTerms[sym.Num()] = &spec.NonTerminal{
				Number: sym.Num().Int(),
				Name:   name,
			}
		}
	}

	prods := make([]*spec.Production, b.prods.count())
	for _, p := range b.prods.getAllProductions() {
		rhs := make([]int, len(p.rhs))
		for i, e := range p.rhs {
			if e.IsTerminal() {
				rhs[i] = e.Num().Int()
			} else {
				rhs[i] = e.Num().Int() * -1
			}
		}

		prods[p.num.Int()] = &spec.Production{
			Number:        p.num.Int(),
			LHS:           p.lhs.Num().Int(),
			RHS:           rhs,
			Precedence:    b.precAndAssoc.productionPrecedence(p.num),
			Associativity: assocToReport(b.precAndAssoc.productionAssociativity(p.num)),
			Recover:       gram.isRecoverProduction(p.num),
		}
	}

	srConflicts := map[stateNum][]*shiftReduceConflict{}
	rrConflicts := map[stateNum][]*reduceReduceConflict{}
	for _, con := range b.conflicts {
		switch c := con.(type) {
		case *shiftReduceConflict:
			srConflicts[c.state] = append(srConflicts[c.state], c)
		case *reduceReduceConflict:
			rrConflicts[c.state] = append(rrConflicts[c.state], c)
		}
	}

	states := make([]*spec.State, len(b.automaton.states))
	for _, s := range b.automaton.states {
		kernel := make([]*spec.Item, len(s.items))
		for i, item := range s.items {
			kernel[i] = &spec.Item{
				Production: item.prod.num.Int(),
				Dot:        item.dot,
			}
		}

		var shift []*spec.Transition
		var reduce []*spec.Reduce
		var goTo []*spec.Transition
		{
		TERMINALS_LOOP:
			for _, t := range b.symTab.TerminalSymbols() {
				act, next, prod := tab.getAction(s.num, t.Num())
				switch act {
				case ActionTypeShift:
					shift = append(shift, &spec.Transition{
						Symbol: t.Num().Int(),
						State:  next.Int(),
					})
				case ActionTypeReduce:
					for _, r := range reduce {
						if r.Production == prod.Int() {
							r.LookAhead = append(r.LookAhead, t.Num().Int())
							continue TERMINALS_LOOP
						}
					}
					reduce = append(reduce, &spec.Reduce{
						LookAhead:  []int{t.Num().Int()},
						Production: prod.Int(),
					})
				}
			}

			for _, n := range b.symTab.NonTerminalSymbols() {
				ty, next := tab.getGoTo(s.num, n.Num())
				if ty == GoToTypeRegistered {
					goTo = append(goTo, &spec.Transition{
						Symbol: n.Num().Int(),
						State:  next.Int(),
					})
				}
			}

			sort.Slice(shift, func(i, j int) bool {
				return shift[i].State < shift[j].State
			})
			sort.Slice(reduce, func(i, j int) bool {
				return reduce[i].Production < reduce[j].Production
			})
			sort.Slice(goTo, func(i, j int) bool {
				return goTo[i].State < goTo[j].State
			})
		}

		sr := []*spec.SRConflict{}
		for _, c := range srConflicts[s.num] {
			conflict := &spec.SRConflict{
				Symbol:     c.sym.Num().Int(),
				State:      c.nextState.Int(),
				Production: c.prodNum.Int(),
				ResolvedBy: c.resolvedBy.Int(),
			}

			ty, next, p := tab.getAction(s.num, c.sym.Num())
			switch ty {
			case ActionTypeShift:
				n := next.Int()
				conflict.AdoptedState = &n
			case ActionTypeReduce:
				n := p.Int()
				conflict.AdoptedProduction = &n
			}

			sr = append(sr, conflict)
		}
		sort.Slice(sr, func(i, j int) bool {
			return sr[i].Symbol < sr[j].Symbol
		})

		rr := []*spec.RRConflict{}
		for _, c := range rrConflicts[s.num] {
			_, _, p := tab.getAction(s.num, c.sym.Num())
			rr = append(rr, &spec.RRConflict{
				Symbol:            c.sym.Num().Int(),
				Production1:       c.prodNum1.Int(),
				Production2:       c.prodNum2.Int(),
				ResolvedBy:        c.resolvedBy.Int(),
				AdoptedProduction: p.Int(),
			})
		}
		sort.Slice(rr, func(i, j int) bool {
			return rr[i].Symbol < rr[j].Symbol
		})

		states[s.num.Int()] = &spec.State{
			Number:       s.num.Int(),
			Kernel:       kernel,
			Shift:        shift,
			Reduce:       reduce,
			GoTo:         goTo,
			SRConflict:   sr,
			RRConflict:   rr,
			ErrorTrapper: s.isErrorTrapper,
		}
	}

	return &spec.Report{
		Terminals:    terms,
		NonTerminals: nonTerms,
		Productions:  prods,
		States:       states,
	}, nil
}
