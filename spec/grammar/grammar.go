package grammar

import (
	mlspec "github.com/nihei9/maleeni/spec"
	"github.com/nihei9/sccheck/compressor"
)

// CompiledGrammar is the immutable table asset a parser runs on. One value is shared by every run.
type CompiledGrammar struct {
	Name                 string                `json:"name"`
	LexicalSpecification *LexicalSpecification `json:"lexical_specification"`
	ParsingTable         *ParsingTable         `json:"parsing_table"`
}

type LexicalSpecification struct {
	Lexer   string   `json:"lexer"`
	Maleeni *Maleeni `json:"maleeni"`
}

// Maleeni holds a compiled maleeni spec. Slices named by kinds are indexed by lexical kind IDs,
// and slices named by terminals are indexed by terminal numbers.
type Maleeni struct {
	Spec           *mlspec.CompiledLexSpec `json:"spec"`
	KindToTerminal []int                   `json:"kind_to_terminal"`
	TerminalToKind []int                   `json:"terminal_to_kind"`
	Skip           []int                   `json:"skip"`
	Delimiter      []int                   `json:"delimiter"`
	KindAliases    []string                `json:"kind_aliases"`
}

type ParsingTable struct {
	Action                  *compressor.Table `json:"action"`
	GoTo                    *compressor.Table `json:"goto"`
	StateCount              int               `json:"state_count"`
	InitialState            int               `json:"initial_state"`
	StartProduction         int               `json:"start_production"`
	LHSSymbols              []int             `json:"lhs_symbols"`
	AlternativeSymbolCounts []int             `json:"alternative_symbol_counts"`
	Terminals               []string          `json:"terminals"`
	TerminalCount           int               `json:"terminal_count"`
	NonTerminals            []string          `json:"non_terminals"`
	NonTerminalCount        int               `json:"non_terminal_count"`
	EOFSymbol               int               `json:"eof_symbol"`
	ErrorSymbol             int               `json:"error_symbol"`
	ErrorTrapperStates      []int             `json:"error_trapper_states"`
	RecoverProductions      []int             `json:"recover_productions"`
}
