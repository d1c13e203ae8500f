package splitter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/fnspec/pkg/specs"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		delim    rune
		expected []string
	}{
		{
			name:     "empty input",
			input:    "",
			delim:    ',',
			expected: []string{""},
		},
		{
			name:     "no delimiter",
			input:    "  one: param  ",
			delim:    ',',
			expected: []string{"one: param"},
		},
		{
			name:     "simple list",
			input:    "one, two ,three",
			delim:    ',',
			expected: []string{"one", "two", "three"},
		},
		{
			name:     "nested brackets stay together",
			input:    "1, 2, [3, 4], {a: 5, b: (6, 7)}",
			delim:    ',',
			expected: []string{"1", "2", "[3, 4]", "{a: 5, b: (6, 7)}"},
		},
		{
			name:     "quoted delimiters are ignored",
			input:    `"a, b", 'c, d'`,
			delim:    ',',
			expected: []string{`"a, b"`, `'c, d'`},
		},
		{
			name:     "escaped quotes inside strings",
			input:    `"say \"hi, there\"", x`,
			delim:    ',',
			expected: []string{`"say \"hi, there\""`, "x"},
		},
		{
			name:     "brackets inside strings are ignored",
			input:    `"(", ")"`,
			delim:    ',',
			expected: []string{`"("`, `")"`},
		},
		{
			name:     "empty pieces are kept",
			input:    "a,,b",
			delim:    ',',
			expected: []string{"a", "", "b"},
		},
		{
			name:     "other delimiters",
			input:    `two = {a: 1}: param`,
			delim:    ':',
			expected: []string{"two = {a: 1}", "param"},
		},
		{
			name:     "multi-line input",
			input:    "one: a,\n\ttwo: b",
			delim:    ',',
			expected: []string{"one: a", "two: b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.input, tt.delim)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSplitUnbalanced(t *testing.T) {
	inputs := []string{
		"[1, 2",
		"1, 2]",
		"{a: [1}",
		`"unterminated, x`,
		`'single`,
		"(a, b))",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Split(input, ',')
			require.Error(t, err)
			assert.True(t, errors.Is(err, specs.ErrUnbalancedDelimiter))
		})
	}
}

func TestMatchClosing(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		open     int
		expected int
	}{
		{"empty parens", "()", 0, 1},
		{"nested", "(a, (b), [c]) rest", 0, 12},
		{"offset", "@second(1, [2]) ()", 7, 14},
		{"quoted close", `(")") x`, 0, 4},
		{"brace", "{a: {b: 1}}", 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchClosing(tt.input, tt.open)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMatchClosingErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		open  int
	}{
		{"never closed", "(a, b", 0},
		{"mismatched", "(a]", 0},
		{"not a bracket", "abc", 0},
		{"out of range", "()", 5},
		{"stray quote", `("a)`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MatchClosing(tt.input, tt.open)
			require.Error(t, err)
			assert.True(t, errors.Is(err, specs.ErrUnbalancedDelimiter))
		})
	}
}
