package expression

import (
	"strings"
	"unicode"
)

// TokenType represents the kind of a postfix token
type TokenType int

const (
	TokenOperand TokenType = iota
	TokenOperator
)

func (t TokenType) String() string {
	if t == TokenOperator {
		return "operator"
	}
	return "operand"
}

// Token is one element of a postfix sequence
type Token struct {
	Type  TokenType
	Value string
	Pos   int // rune position in the infix input
}

// character classification constants
const (
	charLParen = '('
	charRParen = ')'
	charPlus   = '+'
	charMinus  = '-'
)

type stackEntryKind uint8

const (
	entryParen stackEntryKind = iota
	entryOperator
	entryNegation
)

type stackEntry struct {
	kind stackEntryKind
	op   *Operator
	pos  int
}

// negation is the stack placeholder for a unary minus. it is ranked
// tighter than every registered operator and groups right to left, and
// it is emitted as the binary "-" against an implicit zero operand.
var negation = &Operator{Symbol: charMinus, Precedence: negationPrecedence, Associativity: Right}

func (e stackEntry) precedenceOp() *Operator {
	if e.kind == entryNegation {
		return negation
	}
	return e.op
}

// converter holds the working state of one infix to postfix conversion
type converter struct {
	registry *Registry
	runes    []rune
	output   []Token
	stack    []stackEntry

	operandStart  int
	expectOperand bool
}

// ToPostfix converts an infix expression into postfix order using the
// shunting yard algorithm. operands are contiguous runs of characters that
// are not operators, parentheses or whitespace.
func ToPostfix(input string, registry *Registry) ([]Token, error) {
	if registry == nil {
		registry = DefaultRegistry()
	}
	c := &converter{
		registry:      registry,
		runes:         []rune(input),
		output:        []Token{},
		operandStart:  -1,
		expectOperand: true,
	}
	return c.convert()
}

func (c *converter) convert() ([]Token, error) {
	for pos := 0; pos < len(c.runes); pos++ {
		ch := c.runes[pos]

		if c.operandStart != -1 && c.continuesExponent(pos) {
			continue
		}

		switch {
		case ch == charLParen:
			c.flushOperand(pos)
			c.stack = append(c.stack, stackEntry{kind: entryParen, pos: pos})
			c.expectOperand = true

		case ch == charRParen:
			c.flushOperand(pos)
			if err := c.closeGroup(pos); err != nil {
				return nil, err
			}
			c.expectOperand = false

		case c.registry.IsOperator(ch):
			c.flushOperand(pos)
			if err := c.pushOperator(ch, pos); err != nil {
				return nil, err
			}

		case unicode.IsSpace(ch):
			c.flushOperand(pos)

		default:
			if c.operandStart == -1 {
				c.operandStart = pos
				c.expectOperand = false
			}
		}
	}

	c.flushOperand(len(c.runes))

	for len(c.stack) > 0 {
		top := c.pop()
		if top.kind == entryParen {
			return nil, NewError(ErrorCodeSyntax, "unmatched '(' at position %d", top.pos)
		}
		c.emitOperator(top)
	}

	return c.output, nil
}

// flushOperand emits the operand in progress, if any
func (c *converter) flushOperand(end int) {
	if c.operandStart == -1 {
		return
	}
	c.output = append(c.output, Token{
		Type:  TokenOperand,
		Value: string(c.runes[c.operandStart:end]),
		Pos:   c.operandStart,
	})
	c.operandStart = -1
}

// continuesExponent reports whether the sign at pos belongs to a numeric
// literal in scientific notation, as in "1.5e-3"
func (c *converter) continuesExponent(pos int) bool {
	ch := c.runes[pos]
	if ch != charPlus && ch != charMinus {
		return false
	}
	if pos+1 >= len(c.runes) || !isDigit(c.runes[pos+1]) {
		return false
	}
	text := string(c.runes[c.operandStart:pos])
	if !strings.HasSuffix(text, "e") && !strings.HasSuffix(text, "E") {
		return false
	}
	mantissa := text[:len(text)-1]
	if mantissa == "" {
		return false
	}
	seenDigit := false
	seenPeriod := false
	for _, r := range mantissa {
		switch {
		case isDigit(r):
			seenDigit = true
		case r == '.' && !seenPeriod:
			seenPeriod = true
		default:
			return false
		}
	}
	return seenDigit
}

// closeGroup pops operators to the output until the matching "(" is found
func (c *converter) closeGroup(pos int) error {
	for {
		if len(c.stack) == 0 {
			return NewError(ErrorCodeSyntax, "unmatched ')' at position %d", pos)
		}
		top := c.pop()
		if top.kind == entryParen {
			return nil
		}
		c.emitOperator(top)
	}
}

// pushOperator places an incoming operator on the stack, first emitting
// every stacked operator that must be applied before it
func (c *converter) pushOperator(symbol rune, pos int) error {
	if c.expectOperand {
		switch symbol {
		case charPlus:
			// unary plus has no effect
			return nil
		case charMinus:
			c.output = append(c.output, Token{Type: TokenOperand, Value: "0", Pos: pos})
			c.stack = append(c.stack, stackEntry{kind: entryNegation, pos: pos})
			return nil
		default:
			return NewError(ErrorCodeSyntax, "operator %q at position %d is missing its left operand", symbol, pos)
		}
	}

	op, _ := c.registry.Lookup(symbol)
	for len(c.stack) > 0 {
		top := c.stack[len(c.stack)-1]
		if top.kind == entryParen {
			break
		}
		topOp := top.precedenceOp()
		if op.BindsTighter(topOp) || (op.SamePrecedence(topOp) && op.Associativity == Right) {
			break
		}
		c.emitOperator(c.pop())
	}
	c.stack = append(c.stack, stackEntry{kind: entryOperator, op: op, pos: pos})
	c.expectOperand = true
	return nil
}

func (c *converter) pop() stackEntry {
	top := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return top
}

func (c *converter) emitOperator(e stackEntry) {
	c.output = append(c.output, Token{
		Type:  TokenOperator,
		Value: string(e.precedenceOp().Symbol),
		Pos:   e.pos,
	})
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
