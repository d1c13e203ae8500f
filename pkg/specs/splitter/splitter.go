// Package splitter splits delimited lists while treating bracketed and
// quoted regions as opaque units.
package splitter

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/fnspec/pkg/specs"
)

// The lexer only needs to tell quoted strings and brackets apart from
// everything else. Stray matches an opening quote with no closing partner.
var structure = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\.|[^"\\])*"|'(\\.|[^'\\])*'`},
	{Name: "Stray", Pattern: `["']`},
	{Name: "Open", Pattern: `[(\[{]`},
	{Name: "Close", Pattern: `[)\]}]`},
	{Name: "Char", Pattern: `[^"'()\[\]{}]`},
})

var (
	strayToken = structure.Symbols()["Stray"]
	openToken  = structure.Symbols()["Open"]
	closeToken = structure.Symbols()["Close"]
	charToken  = structure.Symbols()["Char"]
)

var pairs = map[string]string{"(": ")", "[": "]", "{": "}"}

// Split splits text on top-level occurrences of delim and trims each piece.
// Text without a top-level delimiter, including empty text, yields a single
// element.
func Split(text string, delim rune) ([]string, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return nil, err
	}

	var (
		pieces []string
		stack  []string
		start  int
	)
	for _, token := range tokens {
		switch token.Type {
		case strayToken:
			return nil, specs.NewError(specs.KindUnbalancedDelimiter, text)
		case openToken:
			stack = append(stack, pairs[token.Value])
		case closeToken:
			if len(stack) == 0 || stack[len(stack)-1] != token.Value {
				return nil, specs.NewError(specs.KindUnbalancedDelimiter, text)
			}
			stack = stack[:len(stack)-1]
		case charToken:
			if len(stack) == 0 && token.Value == string(delim) {
				pieces = append(pieces, strings.TrimSpace(text[start:token.Pos.Offset]))
				start = token.Pos.Offset + len(token.Value)
			}
		}
	}
	if len(stack) > 0 {
		return nil, specs.NewError(specs.KindUnbalancedDelimiter, text)
	}

	return append(pieces, strings.TrimSpace(text[start:])), nil
}

// MatchClosing returns the index of the bracket that closes the one at
// text[open].
func MatchClosing(text string, open int) (int, error) {
	if open < 0 || open >= len(text) {
		return 0, specs.NewError(specs.KindUnbalancedDelimiter, text)
	}
	if _, ok := pairs[text[open:open+1]]; !ok {
		return 0, specs.NewError(specs.KindUnbalancedDelimiter, text)
	}

	tokens, err := tokenize(text[open:])
	if err != nil {
		return 0, err
	}

	var stack []string
	for _, token := range tokens {
		switch token.Type {
		case strayToken:
			return 0, specs.NewError(specs.KindUnbalancedDelimiter, text)
		case openToken:
			stack = append(stack, pairs[token.Value])
		case closeToken:
			if len(stack) == 0 || stack[len(stack)-1] != token.Value {
				return 0, specs.NewError(specs.KindUnbalancedDelimiter, text)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return open + token.Pos.Offset, nil
			}
		}
	}

	return 0, specs.NewError(specs.KindUnbalancedDelimiter, text)
}

func tokenize(text string) ([]lexer.Token, error) {
	lex, err := structure.LexString("", text)
	if err != nil {
		return nil, specs.Wrap(specs.KindUnbalancedDelimiter, text, err)
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, specs.Wrap(specs.KindUnbalancedDelimiter, text, err)
	}
	return tokens, nil
}
