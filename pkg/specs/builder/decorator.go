package builder

import (
	"regexp"
	"strings"

	"github.com/toyz/fnspec/pkg/specs"
	"github.com/toyz/fnspec/pkg/specs/splitter"
)

var decoratorName = regexp.MustCompile(`^@([a-zA-Z][a-zA-Z0-9-]*)`)

// DecoratorBuilder builds decorators from `@name` and `@name(args...)` tokens
type DecoratorBuilder struct {
	literals LiteralParser
}

// NewDecoratorBuilder creates a decorator builder that parses arguments
// with the given literal parser
func NewDecoratorBuilder(literals LiteralParser) *DecoratorBuilder {
	return &DecoratorBuilder{literals: literals}
}

// Build parses a decorator token. `@name` and `@name()` are equivalent.
func (b *DecoratorBuilder) Build(token string) (specs.DecoratorSpec, error) {
	token = strings.TrimSpace(token)

	match := decoratorName.FindStringSubmatch(token)
	if match == nil {
		return specs.DecoratorSpec{}, specs.NewError(specs.KindInvalidDecorator, token)
	}
	name := match[1]
	rest := token[len(match[0]):]

	if rest == "" {
		return specs.NewDecoratorSpec(name), nil
	}

	if rest[0] != '(' {
		return specs.DecoratorSpec{}, specs.NewError(specs.KindInvalidDecorator, token)
	}
	end, err := splitter.MatchClosing(rest, 0)
	if err != nil || end != len(rest)-1 {
		return specs.DecoratorSpec{}, specs.Wrap(specs.KindInvalidDecorator, token, err)
	}

	inner := strings.TrimSpace(rest[1:end])
	if inner == "" {
		return specs.NewDecoratorSpec(name), nil
	}

	parts, err := splitter.Split(inner, ',')
	if err != nil {
		return specs.DecoratorSpec{}, specs.Wrap(specs.KindInvalidDecorator, token, err)
	}

	args := make([]specs.Literal, 0, len(parts))
	for _, part := range parts {
		arg, err := b.literals.Parse(part)
		if err != nil {
			return specs.DecoratorSpec{}, specs.Wrap(specs.KindInvalidDecorator, token, err)
		}
		args = append(args, arg)
	}

	return specs.NewDecoratorSpec(name, args...), nil
}
