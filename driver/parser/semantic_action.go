package parser

import (
	"github.com/rs/zerolog"
)

// SemanticActionSet is a set of semantic actions a parser calls.
type SemanticActionSet interface {
	// Shift runs when the parser shifts a symbol onto a state stack. `tok` is a token corresponding to the symbol.
	// When the parser recovered from an error state by shifting the token, `recovered` is true.
	Shift(tok VToken, recovered bool)

	// Reduce runs when the parser reduces an RHS of a production to its LHS. `prodNum` is a number of the production.
	// When the parser recovered from an error state by reducing the production, `recovered` is true.
	Reduce(prodNum int, recovered bool)

	// Accept runs when the parser accepts an input.
	Accept()

	// TrapAndShiftError runs when the parser traps a syntax error and shifts a error symbol onto the state stack.
	// `cause` is a token that caused a syntax error. `popped` is the number of frames that the parser discards
	// from the state stack.
	TrapAndShiftError(cause VToken, popped int)

	// MissError runs when the parser fails to trap a syntax error. `cause` is a token that caused a syntax error.
	MissError(cause VToken)
}

var _ SemanticActionSet = &TraceActionSet{}

// TraceActionSet logs every step of a parser at the trace level.
type TraceActionSet struct {
	gram   Grammar
	logger zerolog.Logger
}

func NewTraceActionSet(gram Grammar, logger zerolog.Logger) *TraceActionSet {
	return &TraceActionSet{
		gram:   gram,
		logger: logger,
	}
}

func (a *TraceActionSet) Shift(tok VToken, recovered bool) {
	a.logger.Trace().
		Str("terminal", a.gram.Terminal(tok.TerminalID())).
		Bytes("lexeme", tok.Lexeme()).
		Stringer("pos", tok.Position()).
		Bool("recovered", recovered).
		Msg("shift")
}

func (a *TraceActionSet) Reduce(prodNum int, recovered bool) {
	a.logger.Trace().
		Int("production", prodNum).
		Str("lhs", a.gram.NonTerminal(a.gram.LHS(prodNum))).
		Int("rhs_len", a.gram.AlternativeSymbolCount(prodNum)).
		Bool("recovered", recovered).
		Msg("reduce")
}

func (a *TraceActionSet) Accept() {
	a.logger.Trace().Msg("accept")
}

func (a *TraceActionSet) TrapAndShiftError(cause VToken, popped int) {
	a.logger.Trace().
		Str("cause", a.gram.Terminal(cause.TerminalID())).
		Stringer("pos", cause.Position()).
		Int("popped", popped).
		Msg("trap an error")
}

func (a *TraceActionSet) MissError(cause VToken) {
	a.logger.Trace().
		Str("cause", a.gram.Terminal(cause.TerminalID())).
		Stringer("pos", cause.Position()).
		Msg("miss an error")
}
