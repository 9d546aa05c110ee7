package expression

import (
	"fmt"
	"sort"
	"sync"
	"unicode"
)

// Associativity decides grouping of equal-precedence operators
type Associativity uint8

const (
	Left Associativity = iota
	Right
)

func (a Associativity) String() string {
	if a == Right {
		return "right"
	}
	return "left"
}

// Operator describes a binary operator. Precedence follows the ranking
// convention where a smaller number binds tighter, so "*" (6) is applied
// before "+" (7).
type Operator struct {
	Symbol        rune
	Precedence    int
	Associativity Associativity
	Apply         func(left, right float64) float64
}

// BindsTighter reports whether o binds strictly tighter than other
func (o *Operator) BindsTighter(other *Operator) bool {
	return o.Precedence < other.Precedence
}

// SamePrecedence reports whether o and other share a precedence rank
func (o *Operator) SamePrecedence(other *Operator) bool {
	return o.Precedence == other.Precedence
}

// baseOperators is the statically declared operator table. adding a row
// here (or calling Register) is all that is needed for a new operator.
var baseOperators = []Operator{
	{Symbol: '+', Precedence: 7, Associativity: Left, Apply: func(l, r float64) float64 { return l + r }},
	{Symbol: '-', Precedence: 7, Associativity: Left, Apply: func(l, r float64) float64 { return l - r }},
	{Symbol: '*', Precedence: 6, Associativity: Left, Apply: func(l, r float64) float64 { return l * r }},
	{Symbol: '/', Precedence: 6, Associativity: Left, Apply: func(l, r float64) float64 { return l / r }},
}

// negationPrecedence ranks the synthetic unary minus above every base
// operator.
const negationPrecedence = 1

// Registry maps operator symbols to their descriptors
type Registry struct {
	mu        sync.RWMutex
	operators map[rune]*Operator
}

// NewRegistry creates a registry holding the base operator table
func NewRegistry() *Registry {
	r := &Registry{
		operators: make(map[rune]*Operator, len(baseOperators)),
	}
	for i := range baseOperators {
		op := baseOperators[i]
		r.operators[op.Symbol] = &op
	}
	return r
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the shared registry used when a tree is built
// without an explicit one
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Register adds or replaces an operator. symbols that carry syntax of
// their own (parentheses, whitespace, digits, letters) are rejected.
func (r *Registry) Register(op Operator) error {
	if op.Apply == nil {
		return fmt.Errorf("operator %q has no evaluation function", op.Symbol)
	}
	if op.Precedence <= negationPrecedence {
		return fmt.Errorf("operator %q precedence %d is reserved", op.Symbol, op.Precedence)
	}
	switch {
	case op.Symbol == '(' || op.Symbol == ')':
		return fmt.Errorf("operator %q conflicts with grouping", op.Symbol)
	case op.Symbol == '.':
		return fmt.Errorf("operator %q conflicts with numeric literals", op.Symbol)
	case unicode.IsSpace(op.Symbol), unicode.IsLetter(op.Symbol), unicode.IsDigit(op.Symbol):
		return fmt.Errorf("operator %q conflicts with operands", op.Symbol)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.operators[op.Symbol] = &op
	return nil
}

// Lookup returns the operator registered for symbol
func (r *Registry) Lookup(symbol rune) (*Operator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.operators[symbol]
	return op, ok
}

// IsOperator reports whether symbol is a registered operator
func (r *Registry) IsOperator(symbol rune) bool {
	_, ok := r.Lookup(symbol)
	return ok
}

// lookupToken resolves a postfix token value to an operator. only single
// rune values can name an operator.
func (r *Registry) lookupToken(value string) (*Operator, bool) {
	runes := []rune(value)
	if len(runes) != 1 {
		return nil, false
	}
	return r.Lookup(runes[0])
}

// Symbols returns the registered symbols in sorted order
func (r *Registry) Symbols() []rune {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]rune, 0, len(r.operators))
	for symbol := range r.operators {
		result = append(result, symbol)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
