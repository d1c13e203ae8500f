package builder

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/toyz/fnspec/pkg/specs"
	"github.com/toyz/fnspec/pkg/specs/literal"
	"github.com/toyz/fnspec/pkg/specs/splitter"
)

var (
	returnAnnotation = regexp.MustCompile(`^:\s*(` + typeIdent + `)`)
	throwsClause     = regexp.MustCompile(`(?s)^throws\s+(.+)$`)
)

// FunctionBuilder builds a FunctionSpec from a full definition string
type FunctionBuilder struct {
	decorators DecoratorSpecBuilder
	parameters ParameterSpecBuilder
}

// NewFunctionBuilder creates a function builder that delegates decorator
// and parameter tokens to the given builders
func NewFunctionBuilder(decorators DecoratorSpecBuilder, parameters ParameterSpecBuilder) *FunctionBuilder {
	return &FunctionBuilder{
		decorators: decorators,
		parameters: parameters,
	}
}

// New creates a function builder wired with the default decorator,
// parameter and literal parsers
func New() *FunctionBuilder {
	literals := literal.NewParser()
	return NewFunctionBuilder(NewDecoratorBuilder(literals), NewParameterBuilder(literals))
}

// Build parses definition in a single pass: decorators, the parenthesized
// parameter list, an optional `: void|any` return annotation and an
// optional `throws A, B` clause. The first problem found aborts the build.
func (b *FunctionBuilder) Build(definition string) (*specs.FunctionSpec, error) {
	rest := strings.TrimSpace(definition)
	if rest == "" {
		return nil, specs.NewError(specs.KindEmptyDefinition, definition)
	}

	unparsable := func(cause error) error {
		return specs.Wrap(specs.KindUnparsableDefinition, definition, cause)
	}

	// Step 1: decorators
	var decorators []specs.DecoratorSpec
	for strings.HasPrefix(rest, "@") {
		token, tail, err := cutDecorator(rest)
		if err != nil {
			return nil, unparsable(err)
		}

		decorator, err := b.decorators.Build(token)
		if err != nil {
			return nil, asSpecError(specs.KindInvalidDecorator, token, err)
		}
		decorators = append(decorators, decorator)
		rest = strings.TrimLeftFunc(tail, unicode.IsSpace)
	}

	// Step 2: parameter list
	if !strings.HasPrefix(rest, "(") {
		return nil, unparsable(nil)
	}
	end, err := splitter.MatchClosing(rest, 0)
	if err != nil {
		return nil, unparsable(err)
	}
	paramList := strings.TrimSpace(rest[1:end])
	rest = strings.TrimLeftFunc(rest[end+1:], unicode.IsSpace)

	var parameters []specs.ParameterSpec
	if paramList != "" {
		tokens, err := splitter.Split(paramList, ',')
		if err != nil {
			return nil, unparsable(err)
		}
		for _, token := range tokens {
			param, err := b.parameters.Build(token)
			if err != nil {
				return nil, asSpecError(specs.KindInvalidParameter, token, err)
			}
			parameters = append(parameters, param)
		}
	}

	// Step 3: return annotation
	ret := specs.ReturnAny
	if strings.HasPrefix(rest, ":") {
		match := returnAnnotation.FindStringSubmatch(rest)
		if match == nil {
			return nil, unparsable(nil)
		}
		switch match[1] {
		case "void":
			ret = specs.ReturnVoid
		case "any":
			ret = specs.ReturnAny
		default:
			return nil, specs.NewError(specs.KindInvalidReturnType, match[1])
		}
		rest = strings.TrimLeftFunc(rest[len(match[0]):], unicode.IsSpace)
	}

	// Step 4: throws clause
	var throws []specs.ThrowSpec
	if rest != "" {
		match := throwsClause.FindStringSubmatch(rest)
		if match == nil {
			return nil, unparsable(nil)
		}
		names, err := splitter.Split(match[1], ',')
		if err != nil {
			return nil, unparsable(err)
		}
		for _, name := range names {
			if !typeName.MatchString(name) {
				return nil, unparsable(nil)
			}
			throws = append(throws, specs.ThrowSpec{ExceptionType: name})
		}
	}

	if err := checkParameters(parameters); err != nil {
		return nil, err
	}

	return specs.NewFunctionSpec(
		decorators,
		specs.NewParametersSpec(parameters...),
		ret,
		specs.NewExceptionsSpec(throws...),
	), nil
}

// cutDecorator splits the leading `@name` or `@name(...)` token off text.
// A parenthesis belongs to the decorator only when it directly follows the
// name; after whitespace it opens the parameter list.
func cutDecorator(text string) (token, tail string, err error) {
	name := decoratorName.FindString(text)
	if name == "" {
		return "", "", specs.NewError(specs.KindInvalidDecorator, text)
	}

	n := len(name)
	if n < len(text) && text[n] == '(' {
		end, err := splitter.MatchClosing(text, n)
		if err != nil {
			return "", "", err
		}
		n = end + 1
	}

	tail = text[n:]
	if tail != "" && !unicode.IsSpace(rune(tail[0])) && tail[0] != '(' {
		return "", "", specs.NewError(specs.KindInvalidDecorator, text[:n])
	}
	return text[:n], tail, nil
}

func checkParameters(parameters []specs.ParameterSpec) error {
	seen := make(map[string]struct{}, len(parameters))
	for _, param := range parameters {
		if _, exists := seen[param.Name]; exists {
			return specs.NewError(specs.KindDuplicateParameterName, param.Name)
		}
		seen[param.Name] = struct{}{}
	}

	for i, param := range parameters {
		if param.Variadic && i != len(parameters)-1 {
			return specs.NewError(specs.KindMisplacedVariadic, param.Name)
		}
	}
	return nil
}

// asSpecError passes *specs.Error values through unchanged and wraps
// anything else returned by an injected sub-builder.
func asSpecError(kind specs.ErrorKind, token string, err error) error {
	if _, ok := err.(*specs.Error); ok {
		return err
	}
	return specs.Wrap(kind, token, err)
}
