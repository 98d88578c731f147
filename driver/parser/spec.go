package parser

import (
	"fmt"

	spec "github.com/nihei9/sccheck/spec/grammar"
)

// Grammar is the read-only view of a parsing table a parser runs on.
type Grammar interface {
	// InitialState returns the initial state of the automaton.
	InitialState() int

	// StartProduction returns the augmented start production. Reducing it means accepting an input.
	StartProduction() int

	// Action returns an action on a state and a look-ahead terminal. A negative value means a shift
	// to the state of the absolute value, a positive value means a reduction by the production of
	// the value, and 0 means an error.
	Action(state int, terminal int) (int, error)

	// GoTo returns the next state after reducing to `lhs`. 0 means no entry.
	GoTo(state int, lhs int) (int, error)

	// ErrorTrapperState returns true when a state can shift the error symbol.
	ErrorTrapperState(state int) bool

	// LHS returns the LHS symbol of a production.
	LHS(prod int) int

	// AlternativeSymbolCount returns the length of the RHS of a production.
	AlternativeSymbolCount(prod int) int

	// RecoverProduction returns true when reducing a production makes the parser leave error mode.
	RecoverProduction(prod int) bool

	NonTerminal(nonTerminal int) string
	TerminalCount() int
	Terminal(terminal int) string

	// TerminalAlias returns the alias of a terminal, or an empty string when the terminal has none.
	TerminalAlias(terminal int) string

	EOF() int
	Error() int
}

var _ Grammar = &grammarImpl{}

type grammarImpl struct {
	g *spec.CompiledGrammar
}

func NewGrammar(g *spec.CompiledGrammar) *grammarImpl {
	return &grammarImpl{
		g: g,
	}
}

func (g *grammarImpl) InitialState() int {
	return g.g.ParsingTable.InitialState
}

func (g *grammarImpl) StartProduction() int {
	return g.g.ParsingTable.StartProduction
}

func (g *grammarImpl) Action(state int, terminal int) (int, error) {
	act, err := g.g.ParsingTable.Action.Lookup(state, terminal)
	if err != nil {
		return 0, fmt.Errorf("failed to look up the action table; state: %v, terminal: %v: %w", state, terminal, err)
	}
	return act, nil
}

func (g *grammarImpl) GoTo(state int, lhs int) (int, error) {
	next, err := g.g.ParsingTable.GoTo.Lookup(state, lhs)
	if err != nil {
		return 0, fmt.Errorf("failed to look up the goto table; state: %v, non-terminal: %v: %w", state, lhs, err)
	}
	return next, nil
}

func (g *grammarImpl) ErrorTrapperState(state int) bool {
	return g.g.ParsingTable.ErrorTrapperStates[state] != 0
}

func (g *grammarImpl) LHS(prod int) int {
	return g.g.ParsingTable.LHSSymbols[prod]
}

func (g *grammarImpl) AlternativeSymbolCount(prod int) int {
	return g.g.ParsingTable.AlternativeSymbolCounts[prod]
}

func (g *grammarImpl) RecoverProduction(prod int) bool {
	return g.g.ParsingTable.RecoverProductions[prod] != 0
}

func (g *grammarImpl) NonTerminal(nonTerminal int) string {
	return g.g.ParsingTable.NonTerminals[nonTerminal]
}

func (g *grammarImpl) TerminalCount() int {
	return g.g.ParsingTable.TerminalCount
}

func (g *grammarImpl) Terminal(terminal int) string {
	return g.g.ParsingTable.Terminals[terminal]
}

func (g *grammarImpl) TerminalAlias(terminal int) string {
	return g.g.LexicalSpecification.Maleeni.KindAliases[terminal]
}

func (g *grammarImpl) EOF() int {
	return g.g.ParsingTable.EOFSymbol
}

func (g *grammarImpl) Error() int {
	return g.g.ParsingTable.ErrorSymbol
}
