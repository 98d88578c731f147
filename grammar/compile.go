package grammar

import (
	"fmt"
	"io"
	"strings"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mlspec "github.com/nihei9/maleeni/spec"
	"github.com/nihei9/sccheck/compressor"
	"github.com/nihei9/sccheck/grammar/symbol"
	spec "github.com/nihei9/sccheck/spec/grammar"
)

type compileConfig struct {
	isReportingEnabled bool
}

type CompileOption func(config *compileConfig)

func EnableReporting() CompileOption {
	return func(config *compileConfig) {
		config.isReportingEnabled = true
	}
}

// Compile generates the LALR(1) parsing table of a grammar. The report is nil unless
// EnableReporting is passed.
func Compile(gram *Grammar, opts ...CompileOption) (*spec.CompiledGrammar, *spec.Report, error) {
	config := &compileConfig{}
	for _, opt := range opts {
		opt(config)
	}

	lexSpec, err, cErrs := mlcompiler.Compile(gram.lexSpec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cerr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cerr)
			}
			return nil, nil, fmt.Errorf("%v", b.String())
		}
		return nil, nil, err
	}

	kind2Term := make([]int, len(lexSpec.KindNames))
	term2Kind := make([]int, gram.symbolTable.TerminalCount())
	skip := make([]int, len(lexSpec.KindNames))
	delimiter := make([]int, len(lexSpec.KindNames))
	for i, k := range lexSpec.KindNames {
		if k == mlspec.LexKindNameNil {
			kind2Term[mlspec.LexKindIDNil] = symbol.Nil.Num().Int()
			term2Kind[symbol.Nil.Num()] = mlspec.LexKindIDNil.Int()
			continue
		}

		sym, ok := gram.symbolTable.ToSymbol(k.String())
		if !ok {
			return nil, nil, fmt.Errorf("terminal symbol '%v' was not found in a symbol table", k)
		}
		kind2Term[i] = sym.Num().Int()
		term2Kind[sym.Num()] = i

		if containsKind(gram.skipLexKinds, k) {
			skip[i] = 1
		}
		if containsKind(gram.delimiterLexKinds, k) {
			delimiter[i] = 1
		}
	}

	terms, err := gram.symbolTable.TerminalTexts()
	if err != nil {
		return nil, nil, err
	}

	kindAliases := make([]string, gram.symbolTable.TerminalCount())
	for _, sym := range gram.symbolTable.TerminalSymbols() {
		kindAliases[sym.Num().Int()] = gram.kindAliases[sym]
	}

	nonTerms, err := gram.symbolTable.NonTerminalTexts()
	if err != nil {
		return nil, nil, err
	}

	firstSet, err := genFirstSet(gram.productionSet)
	if err != nil {
		return nil, nil, err
	}

	lr0, err := genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol, gram.errorSymbol)
	if err != nil {
		return nil, nil, err
	}

	var tab *ParsingTable
	var report *spec.Report
	{
		lalr1, err := genLALR1Automaton(lr0, gram.productionSet, firstSet)
		if err != nil {
			return nil, nil, err
		}

		b := &lrTableBuilder{
			automaton:    lalr1.lr0Automaton,
			prods:        gram.productionSet,
			termCount:    len(terms),
			nonTermCount: len(nonTerms),
			symTab:       gram.symbolTable,
			precAndAssoc: gram.precAndAssoc,
		}
		tab, err = b.build()
		if err != nil {
			return nil, nil, err
		}

		if config.isReportingEnabled {
			report, err = b.genReport(tab, gram)
			if err != nil {
				return nil, nil, err
			}
		}
	}

	action, err := compressTable(convertActionEntries(tab.actionTable), tab.terminalCount)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compress the action table: %w", err)
	}
	goTo, err := compressTable(convertGoToEntries(tab.goToTable), tab.nonTerminalCount)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compress the goto table: %w", err)
	}

	prodCount := gram.productionSet.count()
	lhsSyms := make([]int, prodCount)
	altSymCounts := make([]int, prodCount)
	recoverProds := make([]int, prodCount)
	for _, p := range gram.productionSet.getAllProductions() {
		lhsSyms[p.num] = p.lhs.Num().Int()
		altSymCounts[p.num] = p.rhsLen

		if gram.isRecoverProduction(p.num) {
			recoverProds[p.num] = 1
		}
	}

	return &spec.CompiledGrammar{
		Name: gram.name,
		LexicalSpecification: &spec.LexicalSpecification{
			Lexer: "maleeni",
			Maleeni: &spec.Maleeni{
				Spec:           lexSpec,
				KindToTerminal: kind2Term,
				TerminalToKind: term2Kind,
				Skip:           skip,
				Delimiter:      delimiter,
				KindAliases:    kindAliases,
			},
		},
		ParsingTable: &spec.ParsingTable{
			Action:                  action,
			GoTo:                    goTo,
			StateCount:              tab.stateCount,
			InitialState:            tab.InitialState.Int(),
			StartProduction:         productionNumStart.Int(),
			LHSSymbols:              lhsSyms,
			AlternativeSymbolCounts: altSymCounts,
			Terminals:               terms,
			TerminalCount:           tab.terminalCount,
			NonTerminals:            nonTerms,
			NonTerminalCount:        tab.nonTerminalCount,
			EOFSymbol:               symbol.EOF.Num().Int(),
			ErrorSymbol:             gram.errorSymbol.Num().Int(),
			ErrorTrapperStates:      tab.errorTrapperStates,
			RecoverProductions:      recoverProds,
		},
	}, report, nil
}

func containsKind(kinds []mlspec.LexKindName, k mlspec.LexKindName) bool {
	for _, kind := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}

func convertActionEntries(entries []actionEntry) []int {
	s := make([]int, len(entries))
	for i, e := range entries {
		s[i] = int(e)
	}
	return s
}

func convertGoToEntries(entries []goToEntry) []int {
	s := make([]int, len(entries))
	for i, e := range entries {
		s[i] = int(e)
	}
	return s
}

func compressTable(entries []int, colCount int) (*compressor.Table, error) {
	orig, err := compressor.NewOriginalTable(entries, colCount)
	if err != nil {
		return nil, err
	}
	tab := compressor.NewTable(0)
	err = tab.Compress(orig)
	if err != nil {
		return nil, err
	}
	return tab, nil
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}
