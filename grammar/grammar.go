package grammar

import (
	"fmt"
	"strings"

	mlspec "github.com/nihei9/maleeni/spec"
	verr "github.com/nihei9/sccheck/error"
	"github.com/nihei9/sccheck/grammar/symbol"
)

type Assoc string

const (
	AssocNil      = Assoc("")
	AssocLeft     = Assoc("left")
	AssocRight    = Assoc("right")
	AssocNonAssoc = Assoc("nonassoc")
)

const (
	precNil = 0
	precMin = 1
)

// precAndAssoc represents precedence and associativities of terminal symbols and productions.
// We use the priority of the production to resolve shift/reduce conflicts.
type precAndAssoc struct {
	// termPrec and termAssoc represent the precedence of the terminal symbols.
	termPrec  map[symbol.Num]int
	termAssoc map[symbol.Num]Assoc

	// prodPrec and prodAssoc represent the precedence and the associativities of the production.
	// These values are inherited from the right-most terminal symbols in the RHS of the productions
	// unless the production names a terminal explicitly.
	prodPrec  map[productionNum]int
	prodAssoc map[productionNum]Assoc
}

func (pa *precAndAssoc) terminalPrecedence(sym symbol.Num) int {
	prec, ok := pa.termPrec[sym]
	if !ok {
		return precNil
	}

	return prec
}

func (pa *precAndAssoc) terminalAssociativity(sym symbol.Num) Assoc {
	assoc, ok := pa.termAssoc[sym]
	if !ok {
		return AssocNil
	}

	return assoc
}

func (pa *precAndAssoc) productionPrecedence(prod productionNum) int {
	prec, ok := pa.prodPrec[prod]
	if !ok {
		return precNil
	}

	return prec
}

func (pa *precAndAssoc) productionAssociativity(prod productionNum) Assoc {
	assoc, ok := pa.prodAssoc[prod]
	if !ok {
		return AssocNil
	}

	return assoc
}

type Grammar struct {
	name                 string
	lexSpec              *mlspec.LexSpec
	skipLexKinds         []mlspec.LexKindName
	delimiterLexKinds    []mlspec.LexKindName
	kindAliases          map[symbol.Symbol]string
	sym2Pattern          map[symbol.Symbol]string
	productionSet        *productionSet
	augmentedStartSymbol symbol.Symbol
	errorSymbol          symbol.Symbol
	symbolTable          *symbol.Table
	precAndAssoc         *precAndAssoc

	// recoverProductions is a set of productions having the recover directive.
	recoverProductions map[productionNum]struct{}
}

func (g *Grammar) Name() string {
	return g.name
}

func (g *Grammar) isRecoverProduction(num productionNum) bool {
	_, ok := g.recoverProductions[num]
	return ok
}

type terminalDecl struct {
	name      string
	pattern   string
	alias     string
	skip      bool
	delimiter bool
}

type TerminalOption func(t *terminalDecl)

// Alias names a terminal in diagnostics instead of its terminal name.
func Alias(alias string) TerminalOption {
	return func(t *terminalDecl) {
		t.alias = alias
	}
}

// Delimiter marks a terminal at which the scanner resumes after a lexical error.
func Delimiter() TerminalOption {
	return func(t *terminalDecl) {
		t.delimiter = true
	}
}

type precDecl struct {
	assoc Assoc
	names []string
}

type productionDecl struct {
	lhs     string
	rhs     []string
	prec    string
	recover bool
}

// ProductionHandle adjusts a production after its declaration.
type ProductionHandle struct {
	decl *productionDecl
}

// Prec makes the production take the precedence and the associativity of the terminal.
func (h *ProductionHandle) Prec(terminal string) *ProductionHandle {
	h.decl.prec = terminal
	return h
}

// Recover makes reducing the production end error recovery immediately.
func (h *ProductionHandle) Recover() *ProductionHandle {
	h.decl.recover = true
	return h
}

// Builder collects the declarations of a grammar. Declarations are checked all together by Build.
type Builder struct {
	name  string
	terms []*terminalDecl
	precs []*precDecl
	start string
	prods []*productionDecl

	errs verr.SpecErrors
}

func NewBuilder(name string) *Builder {
	return &Builder{
		name: name,
	}
}

// Terminal declares a terminal matched by a maleeni pattern. Terminals declared earlier win
// when two patterns match the same longest text, so keywords go before identifiers.
func (b *Builder) Terminal(name string, pattern string, opts ...TerminalOption) {
	t := &terminalDecl{
		name:    name,
		pattern: pattern,
	}
	for _, opt := range opts {
		opt(t)
	}
	b.terms = append(b.terms, t)
}

// Literal declares a terminal matching the text as it is. Its alias defaults to the quoted text.
func (b *Builder) Literal(name string, text string, opts ...TerminalOption) {
	t := &terminalDecl{
		name:    name,
		pattern: mlspec.EscapePattern(text),
		alias:   fmt.Sprintf("'%v'", text),
	}
	if text == "" {
		t.pattern = ""
	}
	for _, opt := range opts {
		opt(t)
	}
	b.terms = append(b.terms, t)
}

// Skip declares a terminal the scanner drops, such as white spaces and comments.
func (b *Builder) Skip(name string, pattern string) {
	b.terms = append(b.terms, &terminalDecl{
		name:    name,
		pattern: pattern,
		skip:    true,
	})
}

// Precedence declares the associativity of terminals. Terminals of a later call bind tighter.
// A name not declared as a terminal becomes a precedence marker usable only by ProductionHandle.Prec.
func (b *Builder) Precedence(assoc Assoc, names ...string) {
	b.precs = append(b.precs, &precDecl{
		assoc: assoc,
		names: names,
	})
}

func (b *Builder) Start(nonTerminal string) {
	b.start = nonTerminal
}

// Production declares `lhs → rhs`. An empty rhs declares an empty production.
func (b *Builder) Production(lhs string, rhs ...string) *ProductionHandle {
	p := &productionDecl{
		lhs: lhs,
		rhs: rhs,
	}
	b.prods = append(b.prods, p)
	return &ProductionHandle{
		decl: p,
	}
}

func (b *Builder) addError(cause error, detail string) {
	b.errs = append(b.errs, &verr.SpecError{
		Cause:      cause,
		Detail:     detail,
		SourceName: b.name,
	})
}

func (b *Builder) Build() (*Grammar, error) {
	b.errs = nil

	if b.name == "" {
		b.addError(semErrNoGrammarName, "")
	}
	if b.start == "" {
		b.addError(semErrNoStart, "")
	}
	if len(b.prods) == 0 {
		b.addError(semErrNoProduction, "")
	}
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	symTabAndLexSpec, err := b.genSymbolTableAndLexSpec()
	if err != nil {
		return nil, err
	}
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	prods, err := b.genProductions(symTabAndLexSpec)
	if err != nil {
		return nil, err
	}
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	b.checkUnusedSymbols(symTabAndLexSpec, prods)
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	pa := b.genPrecAndAssoc(symTabAndLexSpec, prods)
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	return &Grammar{
		name:                 b.name,
		lexSpec:              symTabAndLexSpec.lexSpec,
		skipLexKinds:         symTabAndLexSpec.skip,
		delimiterLexKinds:    symTabAndLexSpec.delimiters,
		kindAliases:          symTabAndLexSpec.aliases,
		sym2Pattern:          symTabAndLexSpec.sym2Pattern,
		productionSet:        prods.prods,
		augmentedStartSymbol: prods.augStartSym,
		errorSymbol:          symTabAndLexSpec.errSym,
		symbolTable:          symTabAndLexSpec.symTab,
		precAndAssoc:         pa,
		recoverProductions:   prods.recoverProds,
	}, nil
}

type symbolTableAndLexSpec struct {
	symTab      *symbol.Table
	lexSpec     *mlspec.LexSpec
	errSym      symbol.Symbol
	skip        []mlspec.LexKindName
	delimiters  []mlspec.LexKindName
	aliases     map[symbol.Symbol]string
	sym2Pattern map[symbol.Symbol]string

	// skipSyms and markerSyms are terminals that never appear in productions.
	skipSyms   map[symbol.Symbol]struct{}
	markerSyms map[symbol.Symbol]struct{}
}

func (b *Builder) genSymbolTableAndLexSpec() (*symbolTableAndLexSpec, error) {
	symTab := symbol.NewTable()
	entries := []*mlspec.LexEntry{}

	// We need to register the reserved symbol before registering others.
	errSym, err := symTab.RegisterTerminal(symbol.NameError)
	if err != nil {
		return nil, err
	}

	var skipKinds []mlspec.LexKindName
	var delimiterKinds []mlspec.LexKindName
	aliases := map[symbol.Symbol]string{}
	sym2Pattern := map[symbol.Symbol]string{}
	skipSyms := map[symbol.Symbol]struct{}{}
	for _, t := range b.terms {
		if t.name == symbol.NameError {
			b.addError(semErrErrSymIsReserved, t.name)
			continue
		}
		if _, exist := symTab.ToSymbol(t.name); exist {
			b.addError(semErrDuplicateTerminal, t.name)
			continue
		}
		if t.pattern == "" {
			b.addError(semErrEmptyPattern, t.name)
			continue
		}

		sym, err := symTab.RegisterTerminal(t.name)
		if err != nil {
			return nil, err
		}
		kind := mlspec.LexKindName(t.name)
		entries = append(entries, &mlspec.LexEntry{
			Kind:    kind,
			Pattern: mlspec.LexPattern(t.pattern),
		})
		sym2Pattern[sym] = t.pattern
		if t.alias != "" {
			aliases[sym] = t.alias
		}
		if t.skip {
			skipKinds = append(skipKinds, kind)
			skipSyms[sym] = struct{}{}
		}
		if t.delimiter {
			delimiterKinds = append(delimiterKinds, kind)
		}
	}

	markerSyms := map[symbol.Symbol]struct{}{}
	for _, p := range b.precs {
		for _, name := range p.names {
			if _, exist := symTab.ToSymbol(name); exist {
				continue
			}
			if b.isNonTerminalName(name) {
				continue
			}
			sym, err := symTab.RegisterTerminal(name)
			if err != nil {
				return nil, err
			}
			markerSyms[sym] = struct{}{}
		}
	}

	return &symbolTableAndLexSpec{
		symTab: symTab,
		lexSpec: &mlspec.LexSpec{
			Name:    b.name,
			Entries: entries,
		},
		errSym:      errSym,
		skip:        skipKinds,
		delimiters:  delimiterKinds,
		aliases:     aliases,
		sym2Pattern: sym2Pattern,
		skipSyms:    skipSyms,
		markerSyms:  markerSyms,
	}, nil
}

func (b *Builder) isNonTerminalName(name string) bool {
	for _, p := range b.prods {
		if p.lhs == name {
			return true
		}
	}
	return false
}

type productions struct {
	prods        *productionSet
	augStartSym  symbol.Symbol
	recoverProds map[productionNum]struct{}

	// precTerms holds the terminals productions name explicitly for their precedence.
	precTerms map[productionNum]symbol.Symbol
}

func (b *Builder) genProductions(stl *symbolTableAndLexSpec) (*productions, error) {
	symTab := stl.symTab

	for _, p := range b.prods {
		if p.lhs == symbol.NameError {
			b.addError(semErrErrSymIsReserved, p.lhs)
			continue
		}
		if sym, exist := symTab.ToSymbol(p.lhs); exist && sym.IsTerminal() {
			b.addError(semErrDuplicateName, p.lhs)
			continue
		}
		_, err := symTab.RegisterNonTerminal(p.lhs)
		if err != nil {
			return nil, err
		}
	}
	if len(b.errs) > 0 {
		return nil, nil
	}

	startSym, ok := symTab.ToSymbol(b.start)
	if !ok || !startSym.IsNonTerminal() {
		b.addError(semErrUndefinedStart, b.start)
		return nil, nil
	}

	prods := newProductionSet()
	augStartSym, err := symTab.RegisterStart(fmt.Sprintf("%v'", b.start))
	if err != nil {
		return nil, err
	}
	{
		p, err := newProduction(augStartSym, []symbol.Symbol{startSym})
		if err != nil {
			return nil, err
		}
		prods.append(p)
	}

	recoverProds := map[productionNum]struct{}{}
	precTerms := map[productionNum]symbol.Symbol{}
	for _, decl := range b.prods {
		lhs, _ := symTab.ToSymbol(decl.lhs)

		rhs := make([]symbol.Symbol, 0, len(decl.rhs))
		ok := true
		for _, name := range decl.rhs {
			sym, exist := symTab.ToSymbol(name)
			if !exist {
				b.addError(semErrUndefinedSym, fmt.Sprintf("%v in %v", name, describeProduction(decl)))
				ok = false
				continue
			}
			if _, skip := stl.skipSyms[sym]; skip {
				b.addError(semErrTermCannotBeSkipped, name)
				ok = false
				continue
			}
			if _, marker := stl.markerSyms[sym]; marker {
				b.addError(semErrTermHasNoPattern, name)
				ok = false
				continue
			}
			rhs = append(rhs, sym)
		}
		if !ok {
			continue
		}

		p, err := newProduction(lhs, rhs)
		if err != nil {
			return nil, err
		}
		if !prods.append(p) {
			b.addError(semErrDuplicateProduction, describeProduction(decl))
			continue
		}

		if decl.recover {
			recoverProds[p.num] = struct{}{}
		}
		if decl.prec != "" {
			sym, exist := symTab.ToSymbol(decl.prec)
			if !exist || !sym.IsTerminal() || sym == stl.errSym {
				b.addError(semErrInvalidPrec, fmt.Sprintf("%v in %v", decl.prec, describeProduction(decl)))
				continue
			}
			precTerms[p.num] = sym
		}
	}

	return &productions{
		prods:        prods,
		augStartSym:  augStartSym,
		recoverProds: recoverProds,
		precTerms:    precTerms,
	}, nil
}

func describeProduction(decl *productionDecl) string {
	if len(decl.rhs) == 0 {
		return fmt.Sprintf("%v → ε", decl.lhs)
	}
	return fmt.Sprintf("%v → %v", decl.lhs, strings.Join(decl.rhs, " "))
}

// checkUnusedSymbols reports non-terminals unreachable from the start symbol and terminals
// no production uses. Skip terminals, precedence markers, and the error symbol are exempt.
func (b *Builder) checkUnusedSymbols(stl *symbolTableAndLexSpec, prods *productions) {
	reached := map[symbol.Symbol]struct{}{
		prods.augStartSym: {},
	}
	unchecked := []symbol.Symbol{prods.augStartSym}
	for len(unchecked) > 0 {
		lhs := unchecked[0]
		unchecked = unchecked[1:]
		ps, _ := prods.prods.findByLHS(lhs)
		for _, p := range ps {
			for _, sym := range p.rhs {
				if _, ok := reached[sym]; ok {
					continue
				}
				reached[sym] = struct{}{}
				if sym.IsNonTerminal() {
					unchecked = append(unchecked, sym)
				}
			}
		}
	}

	for _, sym := range stl.symTab.NonTerminalSymbols() {
		if _, ok := reached[sym]; ok {
			continue
		}
		text, _ := stl.symTab.ToText(sym)
		b.addError(semErrUnusedProduction, text)
	}
	for _, sym := range stl.symTab.TerminalSymbols() {
		if sym.IsEOF() || sym == stl.errSym {
			continue
		}
		if _, ok := stl.skipSyms[sym]; ok {
			continue
		}
		if _, ok := stl.markerSyms[sym]; ok {
			continue
		}
		if _, ok := reached[sym]; ok {
			continue
		}
		text, _ := stl.symTab.ToText(sym)
		b.addError(semErrUnusedTerminal, text)
	}
}

func (b *Builder) genPrecAndAssoc(stl *symbolTableAndLexSpec, prods *productions) *precAndAssoc {
	termPrec := map[symbol.Num]int{}
	termAssoc := map[symbol.Num]Assoc{}
	{
		precN := precMin
		for _, p := range b.precs {
			switch p.assoc {
			case AssocLeft, AssocRight, AssocNonAssoc:
			default:
				b.addError(semErrInvalidPrec, fmt.Sprintf("unknown associativity '%v'", p.assoc))
				continue
			}
			for _, name := range p.names {
				sym, ok := stl.symTab.ToSymbol(name)
				if !ok || !sym.IsTerminal() {
					b.addError(semErrInvalidPrec, fmt.Sprintf("associativity can take only terminal symbols ('%v')", name))
					continue
				}
				if sym == stl.errSym {
					b.addError(semErrInvalidPrec, "an error symbol cannot have associativity")
					continue
				}
				if _, exist := termPrec[sym.Num()]; exist {
					b.addError(semErrDuplicateAssoc, name)
					continue
				}
				termPrec[sym.Num()] = precN
				termAssoc[sym.Num()] = p.assoc
			}
			precN++
		}
	}

	prodPrec := map[productionNum]int{}
	prodAssoc := map[productionNum]Assoc{}
	for _, prod := range prods.prods.getAllProductions() {
		if term, ok := prods.precTerms[prod.num]; ok {
			prec, ok := termPrec[term.Num()]
			if !ok {
				text, _ := stl.symTab.ToText(term)
				b.addError(semErrInvalidPrec, text)
				continue
			}
			prodPrec[prod.num] = prec
			prodAssoc[prod.num] = termAssoc[term.Num()]
			continue
		}

		// A production inherits precedence and associativity from the right-most terminal symbol.
		mostrightTerm := symbol.Nil
		for _, sym := range prod.rhs {
			if !sym.IsTerminal() {
				continue
			}
			mostrightTerm = sym
		}
		if mostrightTerm.IsNil() {
			continue
		}
		if prec, ok := termPrec[mostrightTerm.Num()]; ok {
			prodPrec[prod.num] = prec
			prodAssoc[prod.num] = termAssoc[mostrightTerm.Num()]
		}
	}

	return &precAndAssoc{
		termPrec:  termPrec,
		termAssoc: termAssoc,
		prodPrec:  prodPrec,
		prodAssoc: prodAssoc,
	}
}
