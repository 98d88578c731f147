package symbol

import (
	"fmt"
	"sort"
)

// Num is a number of a symbol. Terminals and non-terminals are numbered independently,
// so a number is unique only among the symbols of the same kind.
type Num uint16

func (n Num) Int() int {
	return int(n)
}

// Symbol packs a kind bit and a number into 16 bits.
//
//	bit 15    : 1 when the symbol is a terminal
//	bit 0..14 : the number
type Symbol uint16

const (
	terminalBit = uint16(0x8000)
	numMask     = uint16(0x7fff)

	// NumMax is the largest number a symbol can have.
	NumMax = Num(numMask)
)

const (
	Nil   = Symbol(0)
	Start = Symbol(1)                 // The augmented start symbol S'.
	EOF   = Symbol(terminalBit | 0x1) // The EOF symbol is a terminal.

	// NameEOF contains `<` and `>` so that it never collides with user-defined names.
	NameEOF = "<eof>"

	// NameError is the reserved name of the error terminal.
	NameError = "error"

	nonTerminalNumMin = Num(2)
	terminalNumMin    = Num(2)
)

func newSymbol(terminal bool, num Num) (Symbol, error) {
	if num > NumMax {
		return Nil, fmt.Errorf("a symbol number exceeds the limit; limit: %v, passed: %v", NumMax, num)
	}
	if terminal {
		return Symbol(terminalBit | uint16(num)), nil
	}
	return Symbol(num), nil
}

func (s Symbol) Num() Num {
	return Num(uint16(s) & numMask)
}

func (s Symbol) IsNil() bool {
	return s.Num() == 0
}

func (s Symbol) IsStart() bool {
	return s == Start
}

func (s Symbol) IsEOF() bool {
	return s == EOF
}

func (s Symbol) IsTerminal() bool {
	return !s.IsNil() && uint16(s)&terminalBit != 0
}

func (s Symbol) IsNonTerminal() bool {
	return !s.IsNil() && uint16(s)&terminalBit == 0
}

func (s Symbol) String() string {
	switch {
	case s.IsNil():
		return "nil"
	case s.IsStart():
		return "s1"
	case s.IsEOF():
		return "e1"
	case s.IsTerminal():
		return fmt.Sprintf("t%v", s.Num())
	default:
		return fmt.Sprintf("n%v", s.Num())
	}
}

// Table maps symbol names to symbols. Names are shared between terminals and non-terminals,
// so a name denotes at most one symbol.
type Table struct {
	text2Sym     map[string]Symbol
	sym2Text     map[Symbol]string
	termTexts    []string
	nonTermTexts []string
	termNum      Num
	nonTermNum   Num
}

func NewTable() *Table {
	return &Table{
		text2Sym: map[string]Symbol{
			NameEOF: EOF,
		},
		sym2Text: map[Symbol]string{
			EOF: NameEOF,
		},
		termTexts: []string{
			"",      // Nil
			NameEOF, // EOF
		},
		nonTermTexts: []string{
			"", // Nil
			"", // Start
		},
		termNum:    terminalNumMin,
		nonTermNum: nonTerminalNumMin,
	}
}

// RegisterStart registers the augmented start symbol under the given name.
func (t *Table) RegisterStart(text string) (Symbol, error) {
	if sym, ok := t.text2Sym[text]; ok && sym != Start {
		return Nil, fmt.Errorf("the name of the start symbol is already used: %v", text)
	}
	t.text2Sym[text] = Start
	t.sym2Text[Start] = text
	t.nonTermTexts[Start.Num()] = text
	return Start, nil
}

func (t *Table) RegisterNonTerminal(text string) (Symbol, error) {
	if sym, ok := t.text2Sym[text]; ok {
		if !sym.IsNonTerminal() {
			return Nil, fmt.Errorf("%v is already registered as a terminal", text)
		}
		return sym, nil
	}
	sym, err := newSymbol(false, t.nonTermNum)
	if err != nil {
		return Nil, err
	}
	t.nonTermNum++
	t.text2Sym[text] = sym
	t.sym2Text[sym] = text
	t.nonTermTexts = append(t.nonTermTexts, text)
	return sym, nil
}

func (t *Table) RegisterTerminal(text string) (Symbol, error) {
	if sym, ok := t.text2Sym[text]; ok {
		if !sym.IsTerminal() {
			return Nil, fmt.Errorf("%v is already registered as a non-terminal", text)
		}
		return sym, nil
	}
	sym, err := newSymbol(true, t.termNum)
	if err != nil {
		return Nil, err
	}
	t.termNum++
	t.text2Sym[text] = sym
	t.sym2Text[sym] = text
	t.termTexts = append(t.termTexts, text)
	return sym, nil
}

func (t *Table) ToSymbol(text string) (Symbol, bool) {
	sym, ok := t.text2Sym[text]
	return sym, ok
}

func (t *Table) ToText(sym Symbol) (string, bool) {
	text, ok := t.sym2Text[sym]
	return text, ok
}

// TerminalCount returns the number of terminals including the nil entry and EOF.
func (t *Table) TerminalCount() int {
	return t.termNum.Int()
}

// NonTerminalCount returns the number of non-terminals including the nil entry and the start symbol.
func (t *Table) NonTerminalCount() int {
	return t.nonTermNum.Int()
}

// TerminalSymbols returns all terminals, EOF included, in number order.
func (t *Table) TerminalSymbols() []Symbol {
	return t.symbols(Symbol.IsTerminal)
}

// NonTerminalSymbols returns all non-terminals, the start symbol included, in number order.
func (t *Table) NonTerminalSymbols() []Symbol {
	return t.symbols(Symbol.IsNonTerminal)
}

func (t *Table) symbols(pred func(Symbol) bool) []Symbol {
	var syms []Symbol
	for sym := range t.sym2Text {
		if pred(sym) {
			syms = append(syms, sym)
		}
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

// TerminalTexts returns terminal names indexed by terminal numbers.
func (t *Table) TerminalTexts() ([]string, error) {
	if t.termNum == terminalNumMin {
		return nil, fmt.Errorf("symbol table has no terminals")
	}
	return t.termTexts, nil
}

// NonTerminalTexts returns non-terminal names indexed by non-terminal numbers.
func (t *Table) NonTerminalTexts() ([]string, error) {
	if t.nonTermNum == nonTerminalNumMin || t.nonTermTexts[Start.Num()] == "" {
		return nil, fmt.Errorf("symbol table has no non-terminals or no start symbol")
	}
	return t.nonTermTexts, nil
}
