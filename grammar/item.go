package grammar

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nihei9/sccheck/grammar/symbol"
)

// lrItem is a production with a dot. Productions are unique, so the pair is comparable
// and usable as a map key.
//
//	E → E + T
//
//	Dot | Dotted Symbol | Item
//	----+---------------+------------
//	0   | E             | E →・E + T
//	1   | +             | E → E・+ T
//	2   | T             | E → E +・T
//	3   | Nil           | E → E + T・
type lrItem struct {
	prod *production
	dot  int
}

func newLRItem(prod *production, dot int) (lrItem, error) {
	if prod == nil {
		return lrItem{}, fmt.Errorf("production must be non-nil")
	}
	if dot < 0 || dot > prod.rhsLen {
		return lrItem{}, fmt.Errorf("dot must be between 0 and %v", prod.rhsLen)
	}
	return lrItem{
		prod: prod,
		dot:  dot,
	}, nil
}

func (i lrItem) dottedSymbol() symbol.Symbol {
	if i.dot >= i.prod.rhsLen {
		return symbol.Nil
	}
	return i.prod.rhs[i.dot]
}

// initial reports whether the item looks like S' →・S.
func (i lrItem) initial() bool {
	return i.prod.lhs.IsStart() && i.dot == 0
}

// reducible reports whether the item looks like E → E + T・.
func (i lrItem) reducible() bool {
	return i.dot == i.prod.rhsLen
}

func (i lrItem) kernel() bool {
	return i.initial() || i.dot > 0
}

func (i lrItem) advance() lrItem {
	return lrItem{
		prod: i.prod,
		dot:  i.dot + 1,
	}
}

func (i lrItem) less(j lrItem) bool {
	if i.prod.num != j.prod.num {
		return i.prod.num < j.prod.num
	}
	return i.dot < j.dot
}

func (i lrItem) String() string {
	return fmt.Sprintf("%v.%v", i.prod.num, i.dot)
}

type kernelKey string

type kernel struct {
	key   kernelKey
	items []lrItem
}

func newKernel(items []lrItem) (*kernel, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("a kernel need at least one item")
	}

	known := map[lrItem]struct{}{}
	sorted := make([]lrItem, 0, len(items))
	for _, item := range items {
		if !item.kernel() {
			return nil, fmt.Errorf("not a kernel item: %v", item)
		}
		if _, ok := known[item]; ok {
			continue
		}
		known[item] = struct{}{}
		sorted = append(sorted, item)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].less(sorted[j])
	})

	var b strings.Builder
	for _, item := range sorted {
		fmt.Fprintf(&b, "%v;", item)
	}

	return &kernel{
		key:   kernelKey(b.String()),
		items: sorted,
	}, nil
}

type stateNum int

const stateNumInitial = stateNum(0)

func (n stateNum) Int() int {
	return int(n)
}

func (n stateNum) String() string {
	return strconv.Itoa(int(n))
}

type lookAheadSet map[symbol.Symbol]struct{}

func (s lookAheadSet) add(sym symbol.Symbol) bool {
	if _, ok := s[sym]; ok {
		return false
	}
	s[sym] = struct{}{}
	return true
}

type lrState struct {
	*kernel
	num  stateNum
	next map[symbol.Symbol]stateNum

	// reducible contains the reducible kernel items and the items of empty productions in the closure.
	reducible []lrItem

	// lookAhead holds the look-ahead symbols of the kernel items and the items of empty productions.
	// An item is reducible only when one of its look-ahead symbols is the next input symbol.
	lookAhead map[lrItem]lookAheadSet

	// isErrorTrapper is true when the closure has an item looking like A → α・error β.
	isErrorTrapper bool
}
