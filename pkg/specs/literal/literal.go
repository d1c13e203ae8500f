// Package literal parses the literal expressions used as decorator
// arguments and parameter default values.
package literal

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/fnspec/pkg/specs"
)

// value is the grammar root. Alternatives are tried in order: booleans
// first, so `true` never falls through to an identifier.
type value struct {
	Bool   *string  `parser:"  @('true' | 'false')"`
	Number *float64 `parser:"| @Number"`
	String *string  `parser:"| @String"`
	Array  *array   `parser:"| @@"`
	Object *object  `parser:"| @@"`
}

type array struct {
	Open  string   `parser:"@'['"`
	Items []*value `parser:"( @@ ( ',' @@ )* )? ']'"`
}

type object struct {
	Open    string   `parser:"@'{'"`
	Entries []*entry `parser:"( @@ ( ',' @@ )* )? '}'"`
}

type entry struct {
	Ident  *string `parser:"( @Ident"`
	Quoted *string `parser:"| @String )"`
	Value  *value  `parser:"':' @@"`
}

var grammar = participle.MustBuild[value](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Number", Pattern: `[-+]?(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?`},
		{Name: "String", Pattern: `"(\\.|[^"\\])*"|'(\\.|[^'\\])*'`},
		{Name: "Ident", Pattern: `[a-zA-Z_$][a-zA-Z0-9_$]*`},
		{Name: "Punct", Pattern: `[\[\]{}:,]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// Parser implements builder.LiteralParser
type Parser struct{}

// NewParser creates a literal parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses text into a literal
func (p *Parser) Parse(text string) (specs.Literal, error) {
	return Parse(text)
}

// Parse parses a single literal expression: a boolean, number, quoted
// string, array of literals or object of literals.
func Parse(text string) (specs.Literal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, specs.NewError(specs.KindInvalidLiteral, text)
	}

	root, err := grammar.ParseString("", text)
	if err != nil {
		return nil, specs.Wrap(specs.KindInvalidLiteral, text, err)
	}

	lit, err := convert(root)
	if err != nil {
		return nil, specs.Wrap(specs.KindInvalidLiteral, text, err)
	}
	return lit, nil
}

func convert(v *value) (specs.Literal, error) {
	switch {
	case v.Bool != nil:
		return specs.Bool(*v.Bool == "true"), nil
	case v.Number != nil:
		return specs.Number(*v.Number), nil
	case v.String != nil:
		s, err := unquote(*v.String)
		if err != nil {
			return nil, err
		}
		return specs.String(s), nil
	case v.Array != nil:
		items := make(specs.Array, 0, len(v.Array.Items))
		for _, item := range v.Array.Items {
			lit, err := convert(item)
			if err != nil {
				return nil, err
			}
			items = append(items, lit)
		}
		return items, nil
	case v.Object != nil:
		fields := make(specs.Object, len(v.Object.Entries))
		for _, e := range v.Object.Entries {
			key := ""
			if e.Ident != nil {
				key = *e.Ident
			} else {
				k, err := unquote(*e.Quoted)
				if err != nil {
					return nil, err
				}
				key = k
			}
			lit, err := convert(e.Value)
			if err != nil {
				return nil, err
			}
			fields[key] = lit
		}
		return fields, nil
	default:
		return nil, strconv.ErrSyntax
	}
}

// unquote decodes a single- or double-quoted string. Either quote may be
// escaped inside either kind of string.
func unquote(raw string) (string, error) {
	if len(raw) < 2 {
		return "", strconv.ErrSyntax
	}
	body := raw[1 : len(raw)-1]

	buf := make([]byte, 0, len(body))
	for len(body) > 0 {
		if len(body) >= 2 && body[0] == '\\' && (body[1] == '"' || body[1] == '\'') {
			buf = append(buf, body[1])
			body = body[2:]
			continue
		}

		c, multibyte, tail, err := strconv.UnquoteChar(body, 0)
		if err != nil {
			return "", err
		}
		if c < utf8.RuneSelf || !multibyte {
			buf = append(buf, byte(c))
		} else {
			buf = utf8.AppendRune(buf, c)
		}
		body = tail
	}

	return string(buf), nil
}
