package grammar

import (
	"fmt"
	"strings"

	"github.com/nihei9/sccheck/grammar/symbol"
)

type productionNum uint16

const (
	productionNumNil   = productionNum(0)
	productionNumStart = productionNum(1)
	productionNumMin   = productionNum(2)
)

func (n productionNum) Int() int {
	return int(n)
}

type production struct {
	num    productionNum
	lhs    symbol.Symbol
	rhs    []symbol.Symbol
	rhsLen int
}

func newProduction(lhs symbol.Symbol, rhs []symbol.Symbol) (*production, error) {
	if lhs.IsNil() {
		return nil, fmt.Errorf("LHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	if !lhs.IsNonTerminal() {
		return nil, fmt.Errorf("LHS must be a non-terminal symbol; LHS: %v", lhs)
	}
	for _, sym := range rhs {
		if sym.IsNil() {
			return nil, fmt.Errorf("a symbol of RHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
		}
	}

	return &production{
		lhs:    lhs,
		rhs:    rhs,
		rhsLen: len(rhs),
	}, nil
}

// key identifies a production by its symbols.
func (p *production) key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v:", p.lhs)
	for _, sym := range p.rhs {
		fmt.Fprintf(&b, " %v", sym)
	}
	return b.String()
}

func (p *production) isEmpty() bool {
	return p.rhsLen == 0
}

type productionSet struct {
	lhs2Prods map[symbol.Symbol][]*production
	key2Prod  map[string]*production

	// prods is indexed by production numbers. prods[0] is always nil.
	prods []*production
}

func newProductionSet() *productionSet {
	return &productionSet{
		lhs2Prods: map[symbol.Symbol][]*production{},
		key2Prod:  map[string]*production{},
		prods:     []*production{nil, nil},
	}
}

// append registers a production and numbers it. The production of the augmented start symbol
// always gets productionNumStart. append returns false when the same production already exists.
func (ps *productionSet) append(prod *production) bool {
	k := prod.key()
	if _, ok := ps.key2Prod[k]; ok {
		return false
	}

	if prod.lhs.IsStart() {
		prod.num = productionNumStart
		ps.prods[productionNumStart] = prod
	} else {
		prod.num = productionNum(len(ps.prods))
		ps.prods = append(ps.prods, prod)
	}

	ps.lhs2Prods[prod.lhs] = append(ps.lhs2Prods[prod.lhs], prod)
	ps.key2Prod[k] = prod

	return true
}

func (ps *productionSet) findByNum(num productionNum) (*production, bool) {
	if num == productionNumNil || num.Int() >= len(ps.prods) {
		return nil, false
	}
	prod := ps.prods[num]
	return prod, prod != nil
}

func (ps *productionSet) findByLHS(lhs symbol.Symbol) ([]*production, bool) {
	if lhs.IsNil() {
		return nil, false
	}

	prods, ok := ps.lhs2Prods[lhs]
	return prods, ok
}

// getAllProductions returns the productions in number order.
func (ps *productionSet) getAllProductions() []*production {
	all := make([]*production, 0, len(ps.prods))
	for _, p := range ps.prods {
		if p == nil {
			continue
		}
		all = append(all, p)
	}
	return all
}

// count returns the length of a table indexed by production numbers.
func (ps *productionSet) count() int {
	return len(ps.prods)
}
