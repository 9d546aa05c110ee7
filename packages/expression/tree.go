package expression

import (
	"strconv"
	"strings"
)

// nodeKind tags the variants a tree node can take
type nodeKind uint8

const (
	nodeConstant nodeKind = iota
	nodeVariable
	nodeOperator
)

// noNode marks an absent child or an empty tree
const noNode = -1

// node is an arena entry. only the fields relevant to kind are set: value
// for constants, name for variables, op and the child indices for
// operators.
type node struct {
	kind  nodeKind
	value float64
	name  string
	op    *Operator
	left  int
	right int
}

// Tree is an expression tree built from a single infix expression. nodes
// live in an arena addressed by index and every operator exclusively owns
// its two children.
type Tree struct {
	expression string
	registry   *Registry
	postfix    []Token

	nodes []node
	root  int

	variables     map[string]float64
	variableNames []string
}

// Option configures tree construction
type Option func(*Tree)

// WithRegistry builds the tree against a specific operator registry
func WithRegistry(registry *Registry) Option {
	return func(t *Tree) {
		if registry != nil {
			t.registry = registry
		}
	}
}

// New parses expression and builds its tree. an expression with no
// operands (empty, whitespace, "()") builds successfully but fails on
// Evaluate. malformed input fails here with an ErrSyntax error.
func New(expression string, opts ...Option) (*Tree, error) {
	t := &Tree{
		expression: expression,
		registry:   DefaultRegistry(),
		root:       noNode,
		variables:  make(map[string]float64),
	}
	for _, opt := range opts {
		opt(t)
	}

	postfix, err := ToPostfix(expression, t.registry)
	if err != nil {
		return nil, err
	}
	t.postfix = postfix

	if err := t.build(); err != nil {
		return nil, err
	}
	return t, nil
}

// build consumes the postfix sequence with a node stack
func (t *Tree) build() error {
	stack := make([]int, 0, len(t.postfix))

	for _, tok := range t.postfix {
		if tok.Value == "" {
			continue
		}

		if tok.Type == TokenOperand {
			if value, err := strconv.ParseFloat(tok.Value, 64); err == nil {
				stack = append(stack, t.addNode(node{kind: nodeConstant, value: value, left: noNode, right: noNode}))
				continue
			}
			if _, isOp := t.registry.lookupToken(tok.Value); !isOp {
				t.variableNames = append(t.variableNames, tok.Value)
				stack = append(stack, t.addNode(node{kind: nodeVariable, name: tok.Value, left: noNode, right: noNode}))
				continue
			}
		}

		op, ok := t.registry.lookupToken(tok.Value)
		if !ok {
			return NewError(ErrorCodeSyntax, "unknown operator %q at position %d", tok.Value, tok.Pos)
		}
		if len(stack) < 2 {
			return NewError(ErrorCodeSyntax, "operator %q at position %d is missing an operand", tok.Value, tok.Pos)
		}
		// right operand is on top; order matters for "-" and "/"
		right := stack[len(stack)-1]
		left := stack[len(stack)-2]
		stack = stack[:len(stack)-2]
		stack = append(stack, t.addNode(node{kind: nodeOperator, op: op, left: left, right: right}))
	}

	switch len(stack) {
	case 0:
		t.root = noNode
	case 1:
		t.root = stack[0]
	default:
		return NewError(ErrorCodeSyntax, "expression %q has %d operands without an operator", t.expression, len(stack))
	}
	return nil
}

func (t *Tree) addNode(n node) int {
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

// Expression returns the infix text the tree was built from
func (t *Tree) Expression() string {
	return t.expression
}

// Postfix returns the postfix token values the tree was built from
func (t *Tree) Postfix() []string {
	result := make([]string, len(t.postfix))
	for i, tok := range t.postfix {
		result[i] = tok.Value
	}
	return result
}

// IsEmpty reports whether the tree has no root
func (t *Tree) IsEmpty() bool {
	return t.root == noNode
}

// VariableNames returns variable operands in the order they appear,
// duplicates included
func (t *Tree) VariableNames() []string {
	result := make([]string, len(t.variableNames))
	copy(result, t.variableNames)
	return result
}

// SetVariable inserts or overwrites a variable value
func (t *Tree) SetVariable(name string, value float64) {
	t.variables[name] = value
}

// SetVariableString parses value as a float, storing 0 when it is not
// numeric. empty cells and text cells therefore act as zero operands.
func (t *Tree) SetVariableString(name, value string) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		parsed = 0
	}
	t.variables[name] = parsed
}

// GetVariable returns the value of name, or 0 when it was never set. use
// LookupVariable to tell the two apart.
func (t *Tree) GetVariable(name string) float64 {
	return t.variables[name]
}

// LookupVariable returns the value of name and whether it was ever set
func (t *Tree) LookupVariable(name string) (float64, bool) {
	value, ok := t.variables[name]
	return value, ok
}

// UnsetVariable forgets the value of name
func (t *Tree) UnsetVariable(name string) {
	delete(t.variables, name)
}

// Evaluate computes the value of the tree. division by zero and overflow
// follow IEEE-754 and are not errors.
func (t *Tree) Evaluate() (float64, error) {
	if t.root == noNode {
		return 0, NewError(ErrorCodeEmpty, "expression %q has nothing to evaluate", t.expression)
	}
	return t.evaluate(t.root)
}

func (t *Tree) evaluate(index int) (float64, error) {
	n := &t.nodes[index]
	switch n.kind {
	case nodeConstant:
		return n.value, nil

	case nodeVariable:
		value, ok := t.variables[n.name]
		if !ok {
			return 0, NewError(ErrorCodeUnresolved, "variable %q has no value", n.name)
		}
		return value, nil

	case nodeOperator:
		left, err := t.evaluate(n.left)
		if err != nil {
			return 0, err
		}
		right, err := t.evaluate(n.right)
		if err != nil {
			return 0, err
		}
		return n.op.Apply(left, right), nil

	default:
		return 0, NewError(ErrorCodeSyntax, "unknown node kind %d", n.kind)
	}
}

// String renders the tree fully parenthesized, e.g. "((1+2)*x)"
func (t *Tree) String() string {
	if t.root == noNode {
		return ""
	}
	var sb strings.Builder
	t.render(&sb, t.root)
	return sb.String()
}

func (t *Tree) render(sb *strings.Builder, index int) {
	n := &t.nodes[index]
	switch n.kind {
	case nodeConstant:
		sb.WriteString(strconv.FormatFloat(n.value, 'g', -1, 64))
	case nodeVariable:
		sb.WriteString(n.name)
	case nodeOperator:
		sb.WriteByte('(')
		t.render(sb, n.left)
		sb.WriteRune(n.op.Symbol)
		t.render(sb, n.right)
		sb.WriteByte(')')
	}
}
