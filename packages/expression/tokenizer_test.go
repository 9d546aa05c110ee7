package expression

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postfixValues(t *testing.T, input string) []string {
	t.Helper()
	tokens, err := ToPostfix(input, nil)
	require.NoError(t, err, input)
	values := make([]string, len(tokens))
	for i, tok := range tokens {
		values[i] = tok.Value
	}
	return values
}

func TestToPostfix(t *testing.T) {
	cases := []struct {
		input    string
		expected []string
	}{
		{"1+2+3+4", []string{"1", "2", "+", "3", "+", "4", "+"}},
		{"1-2-3", []string{"1", "2", "-", "3", "-"}},
		{"1+2*3", []string{"1", "2", "3", "*", "+"}},
		{"1*2+3", []string{"1", "2", "*", "3", "+"}},
		{"(1+2)*3", []string{"1", "2", "+", "3", "*"}},
		{"15/3*5+1/13", []string{"15", "3", "/", "5", "*", "1", "13", "/", "+"}},
		{"A1+B10", []string{"A1", "B10", "+"}},
		{"Hello-World", []string{"Hello", "World", "-"}},
		{" 4 * 2 ", []string{"4", "2", "*"}},
		{"((x))", []string{"x"}},
		{"1.5e-3+2", []string{"1.5e-3", "2", "+"}},
		{"e-3", []string{"e", "3", "-"}},
		{"()", []string{}},
		{"", []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, postfixValues(t, tc.input))
		})
	}
}

func TestToPostfixUnaryOperators(t *testing.T) {
	cases := []struct {
		input    string
		expected []string
	}{
		{"-5", []string{"0", "5", "-"}},
		{"2*-3", []string{"2", "0", "3", "-", "*"}},
		{"-2*3", []string{"0", "2", "-", "3", "*"}},
		{"-(1+2)", []string{"0", "1", "2", "+", "-"}},
		{"--2", []string{"0", "0", "2", "-", "-"}},
		{"1++2", []string{"1", "2", "+"}},
		{"+4", []string{"4"}},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, postfixValues(t, tc.input))
		})
	}
}

func TestToPostfixTokenTypes(t *testing.T) {
	tokens, err := ToPostfix("A1 * 2", nil)
	require.NoError(t, err)
	require.Len(t, tokens, 3)

	assert.Equal(t, Token{Type: TokenOperand, Value: "A1", Pos: 0}, tokens[0])
	assert.Equal(t, Token{Type: TokenOperand, Value: "2", Pos: 5}, tokens[1])
	assert.Equal(t, Token{Type: TokenOperator, Value: "*", Pos: 3}, tokens[2])
}

func TestToPostfixErrors(t *testing.T) {
	invalid := []string{
		")",
		"(1+2))",
		"(1+2",
		"((1)",
		"*2",
		"(/3)",
		"1+(*2)",
	}

	for _, input := range invalid {
		t.Run(input, func(t *testing.T) {
			_, err := ToPostfix(input, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSyntax), "got %v", err)
		})
	}
}

func TestToPostfixRightAssociative(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(Operator{
		Symbol:        '^',
		Precedence:    5,
		Associativity: Right,
		Apply:         func(l, r float64) float64 { return l * r },
	}))

	tokens, err := ToPostfix("2^3^2", registry)
	require.NoError(t, err)

	values := make([]string, len(tokens))
	for i, tok := range tokens {
		values[i] = tok.Value
	}
	assert.Equal(t, []string{"2", "3", "2", "^", "^"}, values)
}
