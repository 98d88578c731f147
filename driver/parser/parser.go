package parser

import (
	"fmt"
	"sort"
)

const defaultRecoveryShiftCount = 3

type ParserOption func(p *Parser) error

// DisableLAC disables LAC (lookahead correction). LAC is enabled by default.
func DisableLAC() ParserOption {
	return func(p *Parser) error {
		p.disableLAC = true
		return nil
	}
}

func SemanticAction(semAct SemanticActionSet) ParserOption {
	return func(p *Parser) error {
		p.semAct = semAct
		return nil
	}
}

// RecoveryShiftCount sets how many tokens the parser must shift after the error symbol to leave
// error mode. The default is 3.
func RecoveryShiftCount(n int) ParserOption {
	return func(p *Parser) error {
		if n < 1 {
			return fmt.Errorf("a recovery shift count must be greater than or equal to 1; got: %v", n)
		}
		p.recoveryShifts = n
		return nil
	}
}

// MaxErrors makes the parser give up after recording `n` syntax errors. 0 means no limit.
func MaxErrors(n int) ParserOption {
	return func(p *Parser) error {
		if n < 0 {
			return fmt.Errorf("a maximum error count must be greater than or equal to 0; got: %v", n)
		}
		p.maxErrors = n
		return nil
	}
}

type parserStatus int

const (
	statusReady parserStatus = iota
	statusParsing
	statusAccepted
	statusFailed
)

type frame struct {
	state int
	node  *Node
}

// Parser runs a shift/reduce automaton over a token stream. A Parser is good for one run.
type Parser struct {
	toks           TokenStream
	gram           Grammar
	semAct         SemanticActionSet
	disableLAC     bool
	recoveryShifts int
	maxErrors      int

	status parserStatus
	result Result
	err    error

	stack      []frame
	tok        VToken
	validated  bool
	onError    bool
	shiftCount int
	synErrs    []*SyntaxError
	tree       *Node
}

func NewParser(toks TokenStream, gram Grammar, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		toks:           toks,
		gram:           gram,
		recoveryShifts: defaultRecoveryShiftCount,
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Parse consumes the whole token stream. Problems in the input make a *Failure, and only
// an *InternalError or an error of the token stream is returned as an error. Calling Parse on
// a finished parser returns the same values again.
func (p *Parser) Parse() (Result, error) {
	switch p.status {
	case statusAccepted, statusFailed:
		return p.result, p.err
	}

	p.status = statusParsing
	accepted, err := p.run()
	if err != nil {
		p.status = statusFailed
		p.err = err
		return nil, err
	}

	var diags []Diagnostic
	if src, ok := p.toks.(DiagnosticSource); ok {
		diags = append(diags, src.Diagnostics()...)
	}
	for _, e := range p.synErrs {
		diags = append(diags, e)
	}
	p.result = newResult(accepted, p.tree, diags)
	if accepted {
		p.status = statusAccepted
	} else {
		p.status = statusFailed
	}
	return p.result, nil
}

func (p *Parser) run() (bool, error) {
	p.push(p.gram.InitialState(), nil)
	err := p.nextToken()
	if err != nil {
		return false, err
	}

ACTION_LOOP:
	for {
		act, err := p.lookupAction()
		if err != nil {
			return false, err
		}
		switch {
		case act < 0: // Shift
			nextState := act * -1

			recovered := false
			if p.onError {
				p.shiftCount++

				// When the parser performs shift enough times, the parser recovers from the error state.
				if p.shiftCount >= p.recoveryShifts {
					p.onError = false
					p.shiftCount = 0
					recovered = true
				}
			}

			p.shift(nextState)

			if p.semAct != nil {
				p.semAct.Shift(p.tok, recovered)
			}

			err = p.nextToken()
			if err != nil {
				return false, err
			}
		case act > 0: // Reduce
			prodNum := act

			recovered := false
			if p.onError && p.gram.RecoverProduction(prodNum) {
				p.onError = false
				p.shiftCount = 0
				recovered = true
			}

			accepted, err := p.reduce(prodNum)
			if err != nil {
				return false, err
			}
			if accepted {
				if p.semAct != nil {
					p.semAct.Accept()
				}

				return true, nil
			}

			if p.semAct != nil {
				p.semAct.Reduce(prodNum, recovered)
			}
		default: // Error
			if p.onError {
				if p.tok.EOF() {
					if p.semAct != nil {
						p.semAct.MissError(p.tok)
					}

					return false, nil
				}

				err = p.nextToken()
				if err != nil {
					return false, err
				}

				continue ACTION_LOOP
			}

			expected, err := p.searchLookahead()
			if err != nil {
				return false, err
			}
			p.synErrs = append(p.synErrs, p.newSyntaxError(expected))
			if p.maxErrors > 0 && len(p.synErrs) >= p.maxErrors {
				return false, p.drain()
			}

			popped, ok := p.trapError()
			if !ok {
				if p.semAct != nil {
					p.semAct.MissError(p.tok)
				}

				// Read the rest of the input so that the token stream can still find lexical errors.
				return false, p.drain()
			}

			p.onError = true
			p.shiftCount = 0

			act, err := p.lookupActionOnError()
			if err != nil {
				return false, err
			}

			p.shiftError(act*-1, popped)

			if p.semAct != nil {
				p.semAct.TrapAndShiftError(p.tok, len(popped))
			}
		}
	}
}

func (p *Parser) nextToken() error {
	tok, err := p.toks.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	p.validated = false
	return nil
}

func (p *Parser) drain() error {
	for !p.tok.EOF() {
		err := p.nextToken()
		if err != nil {
			return err
		}
	}
	return nil
}

// lookupAction returns the action on the current look-ahead. With LAC, a look-ahead the parser
// would never shift results in an error before any reduction happens.
func (p *Parser) lookupAction() (int, error) {
	term := p.tok.TerminalID()
	if !p.disableLAC && !p.validated {
		ok, err := p.validateLookahead(term)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, nil
		}

		// Reductions on a validated look-ahead keep it valid until the parser shifts it.
		p.validated = true
	}
	return p.action(p.top().state, term)
}

func (p *Parser) lookupActionOnError() (int, error) {
	errSym := p.gram.Error()
	act, err := p.action(p.top().state, errSym)
	if err != nil {
		return 0, err
	}
	if act >= 0 {
		return 0, p.internalError(fmt.Sprintf("an entry must be a shift action by the error symbol; entry: %v, symbol: %v", act, p.gram.Terminal(errSym)))
	}
	return act, nil
}

func (p *Parser) action(state, term int) (int, error) {
	act, err := p.gram.Action(state, term)
	if err != nil {
		return 0, &InternalError{
			Message: err.Error(),
			State:   state,
		}
	}
	return act, nil
}

func (p *Parser) goTo(state, lhs int) (int, error) {
	next, err := p.gram.GoTo(state, lhs)
	if err != nil {
		return 0, &InternalError{
			Message: err.Error(),
			State:   state,
		}
	}
	if next == 0 {
		return 0, &InternalError{
			Message: fmt.Sprintf("a goto entry is missing; non-terminal: %v", p.gram.NonTerminal(lhs)),
			State:   state,
		}
	}
	return next, nil
}

// validateLookahead simulates reductions on the current stack without modifying it and reports
// whether the parser would eventually shift or accept `term`.
func (p *Parser) validateLookahead(term int) (bool, error) {
	depth := len(p.stack)
	var pushed []int
	top := func() int {
		if len(pushed) > 0 {
			return pushed[len(pushed)-1]
		}
		return p.stack[depth-1].state
	}

	for {
		state := top()
		act, err := p.action(state, term)
		if err != nil {
			return false, err
		}
		switch {
		case act < 0: // Shift
			return true, nil
		case act > 0: // Reduce
			prodNum := act
			if prodNum == p.gram.StartProduction() {
				return true, nil
			}

			n := p.gram.AlternativeSymbolCount(prodNum)
			if n >= len(pushed)+depth {
				return false, &InternalError{
					Message: fmt.Sprintf("the stack underflows while validating a look-ahead; production: %v", prodNum),
					State:   state,
				}
			}
			for ; n > 0; n-- {
				if len(pushed) > 0 {
					pushed = pushed[:len(pushed)-1]
				} else {
					depth--
				}
			}

			next, err := p.goTo(top(), p.gram.LHS(prodNum))
			if err != nil {
				return false, err
			}
			pushed = append(pushed, next)
		default: // Error
			return false, nil
		}
	}
}

func (p *Parser) shift(nextState int) {
	p.push(nextState, &Node{
		Type:     NodeTypeTerminal,
		KindName: p.gram.Terminal(p.tok.TerminalID()),
		Text:     string(p.tok.Lexeme()),
		Position: p.tok.Position(),
	})
}

func (p *Parser) shiftError(nextState int, popped []*Node) {
	p.push(nextState, &Node{
		Type:     NodeTypeError,
		KindName: p.gram.Terminal(p.gram.Error()),
		Position: p.tok.Position(),
		Children: popped,
	})

	// The look-ahead must be validated again on the new stack.
	p.validated = false
}

func (p *Parser) reduce(prodNum int) (bool, error) {
	if prodNum == p.gram.StartProduction() {
		if len(p.stack) != 2 {
			return false, p.internalError(fmt.Sprintf("the stack must have exactly two frames on acceptance; got: %v", len(p.stack)))
		}
		p.tree = p.top().node
		return true, nil
	}

	lhs := p.gram.LHS(prodNum)

	// When an alternative is empty, `n` will be 0, and `handle` will be empty slice.
	n := p.gram.AlternativeSymbolCount(prodNum)
	if n >= len(p.stack) {
		return false, p.internalError(fmt.Sprintf("the stack underflows; production: %v", prodNum))
	}
	handle := p.stack[len(p.stack)-n:]
	children := make([]*Node, n)
	for i, f := range handle {
		children[i] = f.node
	}
	p.stack = p.stack[:len(p.stack)-n]

	next, err := p.goTo(p.top().state, lhs)
	if err != nil {
		return false, err
	}

	pos := p.tok.Position()
	if n > 0 {
		pos = children[0].Position
	}
	p.push(next, &Node{
		Type:     NodeTypeNonTerminal,
		KindName: p.gram.NonTerminal(lhs),
		Position: pos,
		Children: children,
	})
	return false, nil
}

// trapError pops frames until the top state can shift the error symbol. It returns the nodes of
// the popped frames.
func (p *Parser) trapError() ([]*Node, bool) {
	bottom := len(p.stack)
	for {
		if p.gram.ErrorTrapperState(p.stack[bottom-1].state) {
			break
		}
		if bottom == 1 {
			return nil, false
		}
		bottom--
	}

	var popped []*Node
	for _, f := range p.stack[bottom:] {
		popped = append(popped, f.node)
	}
	p.stack = p.stack[:bottom]
	return popped, true
}

// searchLookahead returns the names of the terminals acceptable on the current stack. The error
// symbol is never included because users cannot write it.
func (p *Parser) searchLookahead() ([]string, error) {
	var kinds []string
	for term := 0; term < p.gram.TerminalCount(); term++ {
		if term == p.gram.Error() {
			continue
		}

		var ok bool
		if p.disableLAC {
			act, err := p.action(p.top().state, term)
			if err != nil {
				return nil, err
			}
			ok = act != 0
		} else {
			var err error
			ok, err = p.validateLookahead(term)
			if err != nil {
				return nil, err
			}
		}
		if !ok {
			continue
		}

		if alias := p.gram.TerminalAlias(term); alias != "" {
			kinds = append(kinds, alias)
		} else {
			kinds = append(kinds, p.gram.Terminal(term))
		}
	}
	sort.Strings(kinds)
	return kinds, nil
}

func (p *Parser) newSyntaxError(expected []string) *SyntaxError {
	e := &SyntaxError{
		Position:          p.tok.Position(),
		FoundKind:         p.gram.Terminal(p.tok.TerminalID()),
		FoundEOF:          p.tok.EOF(),
		ExpectedTerminals: expected,
	}
	if !e.FoundEOF {
		e.Found = string(p.tok.Lexeme())
	}
	return e
}

func (p *Parser) internalError(msg string) *InternalError {
	return &InternalError{
		Message: msg,
		State:   p.top().state,
	}
}

func (p *Parser) top() frame {
	return p.stack[len(p.stack)-1]
}

func (p *Parser) push(state int, node *Node) {
	p.stack = append(p.stack, frame{
		state: state,
		node:  node,
	})
}
