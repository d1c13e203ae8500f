// Package builder turns textual function definitions into specs.FunctionSpec
// values.
//
// A definition looks like:
//
//	@inject-context @cache(ttl: 60)
//	(id: string, limit = 10: int, ...rest: any): any throws NotFound
//
// The Function builder splits the definition into decorator tokens and
// parameter tokens and hands each one to its sub-builder, so every piece
// can be replaced independently.
package builder

import "github.com/toyz/fnspec/pkg/specs"

// LiteralParser parses decorator arguments and parameter defaults
type LiteralParser interface {
	Parse(text string) (specs.Literal, error)
}

// DecoratorSpecBuilder builds a decorator from a single `@name(args)` token
type DecoratorSpecBuilder interface {
	Build(token string) (specs.DecoratorSpec, error)
}

// ParameterSpecBuilder builds a parameter from a single `name: type` token
type ParameterSpecBuilder interface {
	Build(token string) (specs.ParameterSpec, error)
}

// FunctionSpecBuilder builds a complete specification from a definition
type FunctionSpecBuilder interface {
	Build(definition string) (*specs.FunctionSpec, error)
}
