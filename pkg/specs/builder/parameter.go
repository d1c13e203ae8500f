package builder

import (
	"regexp"
	"strings"

	"github.com/toyz/fnspec/pkg/specs"
	"github.com/toyz/fnspec/pkg/specs/splitter"
)

const typeIdent = `[a-zA-Z_\\][a-zA-Z0-9_.\\-]*`

var (
	parameterHead = regexp.MustCompile(`(?s)^(\.\.\.)?\s*([a-zA-Z_$][a-zA-Z0-9_$]*)\s*(.*)$`)
	typeName      = regexp.MustCompile(`^` + typeIdent + `$`)
)

// ParameterBuilder builds parameters from `[...]name [= default] [?] : type`
// tokens
type ParameterBuilder struct {
	literals LiteralParser
}

// NewParameterBuilder creates a parameter builder that parses default
// values with the given literal parser
func NewParameterBuilder(literals LiteralParser) *ParameterBuilder {
	return &ParameterBuilder{literals: literals}
}

// Build parses a single parameter token. Cross-parameter rules (unique
// names, variadic position) are checked by the function builder.
func (b *ParameterBuilder) Build(token string) (specs.ParameterSpec, error) {
	token = strings.TrimSpace(token)

	// The type follows the only top-level colon; colons inside a default
	// object or string are not split on.
	parts, err := splitter.Split(token, ':')
	if err != nil {
		return specs.ParameterSpec{}, specs.Wrap(specs.KindInvalidParameter, token, err)
	}
	if len(parts) != 2 || !typeName.MatchString(parts[1]) {
		return specs.ParameterSpec{}, specs.NewError(specs.KindInvalidParameter, token)
	}

	head := parameterHead.FindStringSubmatch(parts[0])
	if head == nil {
		return specs.ParameterSpec{}, specs.NewError(specs.KindInvalidParameter, token)
	}

	param := specs.ParameterSpec{
		Name:     head[2],
		Type:     parts[1],
		Variadic: head[1] != "",
	}

	modifiers := strings.TrimSpace(head[3])
	if strings.HasSuffix(modifiers, "?") {
		param.Nullable = true
		modifiers = strings.TrimSpace(strings.TrimSuffix(modifiers, "?"))
	}

	if modifiers != "" {
		if !strings.HasPrefix(modifiers, "=") {
			return specs.ParameterSpec{}, specs.NewError(specs.KindInvalidParameter, token)
		}
		def, err := b.literals.Parse(modifiers[1:])
		if err != nil {
			return specs.ParameterSpec{}, specs.Wrap(specs.KindInvalidParameter, token, err)
		}
		param.HasDefault = true
		param.Default = def
	}

	if param.Variadic && (param.HasDefault || param.Nullable) {
		return specs.ParameterSpec{}, specs.NewError(specs.KindInvalidParameter, token)
	}

	return param, nil
}
