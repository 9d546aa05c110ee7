package expression

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evaluate(t *testing.T, input string) float64 {
	t.Helper()
	tree, err := New(input)
	require.NoError(t, err, input)
	value, err := tree.Evaluate()
	require.NoError(t, err, input)
	return value
}

func TestEvaluateArithmetic(t *testing.T) {
	cases := []struct {
		input    string
		expected float64
	}{
		{"3+5", 8},
		{"10-4-3", 3},
		{"100/10/5", 2},
		{"2*3*4", 24},
		{"1+2*3", 7},
		{"(1+2)*(2+3)", 15},
		{"((((2))))", 2},
		{" 4 * 2 ", 8},
		{"15/3*5+1/13", 25.076923076923077},
		{"-5", -5},
		{"2*-3", -6},
		{"-(1+2)*2", -6},
		{"--2", 2},
		{"1.5e2+1", 151},
		{"0.5*4", 2},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			assert.InDelta(t, tc.expected, evaluate(t, tc.input), 1e-12)
		})
	}
}

func TestEvaluateFloatEdgeCases(t *testing.T) {
	assert.True(t, math.IsInf(evaluate(t, "1/0"), 1))
	assert.True(t, math.IsInf(evaluate(t, "(0-1)/0"), -1))
	assert.True(t, math.IsInf(evaluate(t, "1e308*10"), 1))
	assert.Equal(t, 0.0, evaluate(t, "1e-308/1e308"))
	assert.True(t, math.IsNaN(evaluate(t, "0/0")))
}

func TestEvaluateVariables(t *testing.T) {
	tree, err := New("A1+B1*C1")
	require.NoError(t, err)

	tree.SetVariable("A1", 1)
	tree.SetVariable("B1", 2)
	tree.SetVariable("C1", 3)

	value, err := tree.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 7.0, value)

	// overwrite
	tree.SetVariable("A1", 10)
	value, err = tree.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 16.0, value)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	tree, err := New("x/y-x")
	require.NoError(t, err)
	tree.SetVariable("x", 9)
	tree.SetVariable("y", 3)

	first, err := tree.Evaluate()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := tree.Evaluate()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSetVariableString(t *testing.T) {
	tree, err := New("a+b")
	require.NoError(t, err)

	tree.SetVariableString("a", "2.5")
	tree.SetVariableString("b", "not a number")
	assert.Equal(t, 2.5, tree.GetVariable("a"))
	assert.Equal(t, 0.0, tree.GetVariable("b"))

	value, err := tree.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 2.5, value)

	tree.SetVariableString("b", "")
	_, ok := tree.LookupVariable("b")
	assert.True(t, ok)
}

func TestGetVariableUnset(t *testing.T) {
	tree, err := New("x")
	require.NoError(t, err)

	assert.Equal(t, 0.0, tree.GetVariable("x"))
	_, ok := tree.LookupVariable("x")
	assert.False(t, ok)

	tree.SetVariable("x", 4)
	tree.UnsetVariable("x")
	_, ok = tree.LookupVariable("x")
	assert.False(t, ok)
}

func TestEvaluateFailures(t *testing.T) {
	t.Run("empty parentheses", func(t *testing.T) {
		tree, err := New("()")
		require.NoError(t, err)
		assert.True(t, tree.IsEmpty())
		_, err = tree.Evaluate()
		assert.True(t, errors.Is(err, ErrEmptyExpression), "got %v", err)
	})

	t.Run("empty input", func(t *testing.T) {
		tree, err := New("   ")
		require.NoError(t, err)
		_, err = tree.Evaluate()
		assert.True(t, errors.Is(err, ErrEmptyExpression), "got %v", err)
	})

	t.Run("unset variable", func(t *testing.T) {
		tree, err := New("(A)")
		require.NoError(t, err)
		_, err = tree.Evaluate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnresolvedVariable), "got %v", err)

		var exprErr *Error
		require.True(t, errors.As(err, &exprErr))
		assert.Equal(t, "#VALUE!", exprErr.Display())
	})
}

func TestNewSyntaxErrors(t *testing.T) {
	invalid := []string{"1+", "1 2", "(3", "3)", "2(3)", "*"}

	for _, input := range invalid {
		t.Run(input, func(t *testing.T) {
			_, err := New(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSyntax), "got %v", err)
		})
	}
}

func TestVariableNames(t *testing.T) {
	tree, err := New("A1+B1+A1*C1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "B1", "A1", "C1"}, tree.VariableNames())

	tree, err = New("1+2")
	require.NoError(t, err)
	assert.Empty(t, tree.VariableNames())
}

func TestTreeAccessors(t *testing.T) {
	tree, err := New("(1+x)*3")
	require.NoError(t, err)

	assert.Equal(t, "(1+x)*3", tree.Expression())
	assert.Equal(t, []string{"1", "x", "+", "3", "*"}, tree.Postfix())
	assert.Equal(t, "((1+x)*3)", tree.String())

	empty, err := New("()")
	require.NoError(t, err)
	assert.Equal(t, "", empty.String())
}

func TestCustomOperator(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(Operator{
		Symbol:        '^',
		Precedence:    5,
		Associativity: Right,
		Apply:         math.Pow,
	}))

	tree, err := New("2^3^2", WithRegistry(registry))
	require.NoError(t, err)
	value, err := tree.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 512.0, value)

	tree, err = New("2*3^2", WithRegistry(registry))
	require.NoError(t, err)
	value, err = tree.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 18.0, value)

	// the default registry stays untouched, "^" is part of an operand there
	tree, err = New("2^3")
	require.NoError(t, err)
	assert.Equal(t, []string{"2^3"}, tree.VariableNames())
}
