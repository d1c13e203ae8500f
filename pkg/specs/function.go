// Package specs holds the immutable specification of a native function's
// calling contract: decorators, parameters, return kind and declared
// exceptions.
package specs

import (
	"encoding/json"
	"slices"
)

// DecoratorSpec is a single `@name(args...)` tag attached to a function
type DecoratorSpec struct {
	name      string
	arguments []Literal
}

// NewDecoratorSpec creates a decorator descriptor
func NewDecoratorSpec(name string, arguments ...Literal) DecoratorSpec {
	return DecoratorSpec{name: name, arguments: cloneAll(arguments)}
}

func (d DecoratorSpec) Name() string { return d.name }

// Arguments returns the parsed arguments in source order
func (d DecoratorSpec) Arguments() []Literal { return cloneAll(d.arguments) }

// ParameterSpec describes one declared parameter
type ParameterSpec struct {
	Name     string
	Type     string // opaque to this package
	Nullable bool
	Variadic bool

	HasDefault bool
	Default    Literal // set only when HasDefault
}

// ParametersSpec is the ordered parameter list; order is call-binding order
type ParametersSpec struct {
	parameters []ParameterSpec
}

// NewParametersSpec creates a parameter list
func NewParametersSpec(parameters ...ParameterSpec) ParametersSpec {
	return ParametersSpec{parameters: cloneParameters(parameters)}
}

func (p ParametersSpec) Parameters() []ParameterSpec { return cloneParameters(p.parameters) }
func (p ParametersSpec) Len() int                    { return len(p.parameters) }

func cloneParameters(parameters []ParameterSpec) []ParameterSpec {
	out := slices.Clone(parameters)
	for i := range out {
		out[i].Default = Clone(out[i].Default)
	}
	return out
}

// ReturnSpec is the declared return kind
type ReturnSpec int

const (
	ReturnAny ReturnSpec = iota
	ReturnVoid
)

// String returns the keyword used for the return kind in definitions
func (r ReturnSpec) String() string {
	switch r {
	case ReturnVoid:
		return "void"
	default:
		return "any"
	}
}

// ThrowSpec names one exception type a function may raise
type ThrowSpec struct {
	ExceptionType string
}

// ExceptionsSpec is the ordered list of declared exception types
type ExceptionsSpec struct {
	throws []ThrowSpec
}

// NewExceptionsSpec creates an exception list
func NewExceptionsSpec(throws ...ThrowSpec) ExceptionsSpec {
	return ExceptionsSpec{throws: slices.Clone(throws)}
}

func (e ExceptionsSpec) ThrowSpecs() []ThrowSpec { return slices.Clone(e.throws) }
func (e ExceptionsSpec) Len() int                { return len(e.throws) }

// FunctionSpec is the complete calling contract produced from one
// definition string. It is never modified after construction.
type FunctionSpec struct {
	decorators []DecoratorSpec
	parameters ParametersSpec
	ret        ReturnSpec
	exceptions ExceptionsSpec
}

// NewFunctionSpec assembles a FunctionSpec
func NewFunctionSpec(decorators []DecoratorSpec, parameters ParametersSpec, ret ReturnSpec, exceptions ExceptionsSpec) *FunctionSpec {
	return &FunctionSpec{
		decorators: slices.Clone(decorators),
		parameters: parameters,
		ret:        ret,
		exceptions: exceptions,
	}
}

// Decorators returns the decorators in source order; never nil
func (f *FunctionSpec) Decorators() []DecoratorSpec {
	if len(f.decorators) == 0 {
		return []DecoratorSpec{}
	}
	return slices.Clone(f.decorators)
}

func (f *FunctionSpec) Parameters() ParametersSpec { return f.parameters }
func (f *FunctionSpec) Return() ReturnSpec         { return f.ret }
func (f *FunctionSpec) Exceptions() ExceptionsSpec { return f.exceptions }

type decoratorJSON struct {
	Name      string `json:"name"`
	Arguments []any  `json:"arguments"`
}

type parameterJSON struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable,omitempty"`
	Variadic bool   `json:"variadic,omitempty"`
	Default  *any   `json:"default,omitempty"`
}

type functionJSON struct {
	Decorators []decoratorJSON `json:"decorators"`
	Parameters []parameterJSON `json:"parameters"`
	Return     string          `json:"return"`
	Throws     []string        `json:"throws"`
}

// MarshalJSON renders the specification for tooling and the HTTP service
func (f *FunctionSpec) MarshalJSON() ([]byte, error) {
	doc := functionJSON{
		Decorators: make([]decoratorJSON, 0, len(f.decorators)),
		Parameters: make([]parameterJSON, 0, f.parameters.Len()),
		Return:     f.ret.String(),
		Throws:     make([]string, 0, f.exceptions.Len()),
	}

	for _, d := range f.decorators {
		args := make([]any, len(d.arguments))
		for i, arg := range d.arguments {
			args[i] = Native(arg)
		}
		doc.Decorators = append(doc.Decorators, decoratorJSON{Name: d.name, Arguments: args})
	}

	for _, p := range f.parameters.parameters {
		param := parameterJSON{
			Name:     p.Name,
			Type:     p.Type,
			Nullable: p.Nullable,
			Variadic: p.Variadic,
		}
		if p.HasDefault {
			value := Native(p.Default)
			param.Default = &value
		}
		doc.Parameters = append(doc.Parameters, param)
	}

	for _, t := range f.exceptions.throws {
		doc.Throws = append(doc.Throws, t.ExceptionType)
	}

	return json.Marshal(doc)
}
