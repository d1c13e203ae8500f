package builder

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/fnspec/pkg/specs"
)

// fakeDecorators returns a prepared decorator per known token and records
// every token it was asked to build
type fakeDecorators struct {
	known map[string]specs.DecoratorSpec
	calls []string
}

func (f *fakeDecorators) Build(token string) (specs.DecoratorSpec, error) {
	f.calls = append(f.calls, token)
	if d, ok := f.known[token]; ok {
		return d, nil
	}
	return specs.DecoratorSpec{}, fmt.Errorf("unexpected decorator token %q", token)
}

type fakeParameters struct {
	known map[string]specs.ParameterSpec
	calls []string
}

func (f *fakeParameters) Build(token string) (specs.ParameterSpec, error) {
	f.calls = append(f.calls, token)
	if p, ok := f.known[token]; ok {
		return p, nil
	}
	return specs.ParameterSpec{}, fmt.Errorf("unexpected parameter token %q", token)
}

func decoratorsOn(tokens ...string) *fakeDecorators {
	f := &fakeDecorators{known: make(map[string]specs.DecoratorSpec)}
	for _, token := range tokens {
		f.known[token] = specs.NewDecoratorSpec(token)
	}
	return f
}

func parametersOn(tokens map[string]specs.ParameterSpec) *fakeParameters {
	return &fakeParameters{known: tokens}
}

func newTestBuilder() (*FunctionBuilder, *fakeDecorators, *fakeParameters) {
	d := decoratorsOn()
	p := parametersOn(map[string]specs.ParameterSpec{})
	return NewFunctionBuilder(d, p), d, p
}

func TestFunctionBuilderEmptyDefinition(t *testing.T) {
	b, _, _ := newTestBuilder()

	for _, definition := range []string{"", "   ", "\n\t"} {
		_, err := b.Build(definition)
		require.Error(t, err)
		assert.Equal(t, "Definition must be non-empty string", err.Error())
		assert.True(t, errors.Is(err, specs.ErrEmptyDefinition))
	}
}

func TestFunctionBuilderInvalidDefinition(t *testing.T) {
	b, _, _ := newTestBuilder()

	_, err := b.Build("invalid")
	require.Error(t, err)
	assert.Equal(t, "Unable to parse definition: 'invalid'", err.Error())
	assert.True(t, errors.Is(err, specs.ErrUnparsableDefinition))
}

func TestFunctionBuilderUnparsableShapes(t *testing.T) {
	b, _, _ := newTestBuilder()

	definitions := []string{
		"(",
		"(()",
		"())",
		"() extra",
		"():",
		"(): 1",
		"() throws",
		"() throws A,",
		"() throws A B",
		"() throws A: void",
		"@first(true",
		"@first(true)x ()",
		"@ ()",
		"@first(true)@second ()",
		`("unterminated)`,
	}

	for _, definition := range definitions {
		t.Run(definition, func(t *testing.T) {
			_, err := b.Build(definition)
			require.Error(t, err)
			assert.True(t, errors.Is(err, specs.ErrUnparsableDefinition), "got %v", err)
		})
	}
}

func TestFunctionBuilderEmptySpec(t *testing.T) {
	b, d, p := newTestBuilder()

	spec, err := b.Build("()")
	require.NoError(t, err)
	assert.Equal(t, []specs.DecoratorSpec{}, spec.Decorators())
	assert.Equal(t, 0, spec.Parameters().Len())
	assert.Equal(t, specs.ReturnAny, spec.Return())
	assert.Empty(t, spec.Exceptions().ThrowSpecs())
	assert.Empty(t, d.calls)
	assert.Empty(t, p.calls)
}

func TestFunctionBuilderReturnTypes(t *testing.T) {
	b, _, _ := newTestBuilder()

	tests := []struct {
		definition string
		expected   specs.ReturnSpec
	}{
		{"(): void", specs.ReturnVoid},
		{"(): any", specs.ReturnAny},
		{"()", specs.ReturnAny},
		{"()   :void", specs.ReturnVoid},
	}

	for _, tt := range tests {
		t.Run(tt.definition, func(t *testing.T) {
			spec, err := b.Build(tt.definition)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, spec.Return())
		})
	}
}

func TestFunctionBuilderInvalidReturnType(t *testing.T) {
	b, _, _ := newTestBuilder()

	_, err := b.Build("(): invalid")
	require.Error(t, err)
	assert.Equal(t, "Invalid return type: 'invalid'", err.Error())
	assert.True(t, errors.Is(err, specs.ErrInvalidReturnType))

	var specErr *specs.Error
	require.True(t, errors.As(err, &specErr))
	assert.Equal(t, "invalid", specErr.Text)
}

func TestFunctionBuilderParameters(t *testing.T) {
	d := decoratorsOn()
	p := parametersOn(map[string]specs.ParameterSpec{
		"one: param":              {Name: "one", Type: "param"},
		`two = "default": param`: {Name: "two", Type: "param", HasDefault: true, Default: specs.String("default")},
		"...params: rest":         {Name: "params", Type: "rest", Variadic: true},
	})
	b := NewFunctionBuilder(d, p)

	spec, err := b.Build(`(one: param, two = "default": param, ...params: rest)`)
	require.NoError(t, err)

	assert.Equal(t, []string{"one: param", `two = "default": param`, "...params: rest"}, p.calls)

	params := spec.Parameters().Parameters()
	require.Len(t, params, 3)
	assert.Equal(t, "one", params[0].Name)
	assert.Equal(t, "two", params[1].Name)
	assert.Equal(t, "params", params[2].Name)
	assert.True(t, params[2].Variadic)
	assert.Equal(t, specs.String("default"), params[1].Default)
}

func TestFunctionBuilderNullableParameters(t *testing.T) {
	p := parametersOn(map[string]specs.ParameterSpec{
		"one: param":  {Name: "one", Type: "param"},
		"two?: param": {Name: "two", Type: "param", Nullable: true},
	})
	b := NewFunctionBuilder(decoratorsOn(), p)

	spec, err := b.Build("(one: param, two?: param)")
	require.NoError(t, err)
	assert.Equal(t, 2, spec.Parameters().Len())
}

func TestFunctionBuilderThrows(t *testing.T) {
	b, _, _ := newTestBuilder()

	tests := []struct {
		definition string
		expected   []string
	}{
		{"()", nil},
		{"() throws Test", []string{"Test"}},
		{"() throws Test, Foo, Bar", []string{"Test", "Foo", "Bar"}},
		{"(): void throws \\Ns\\Error,Other", []string{`\Ns\Error`, "Other"}},
	}

	for _, tt := range tests {
		t.Run(tt.definition, func(t *testing.T) {
			spec, err := b.Build(tt.definition)
			require.NoError(t, err)

			var got []string
			for _, throw := range spec.Exceptions().ThrowSpecs() {
				got = append(got, throw.ExceptionType)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFunctionBuilderDecorators(t *testing.T) {
	tests := []struct {
		name       string
		definition string
		tokens     []string
	}{
		{"single", "@test ()", []string{"@test"}},
		{"dashed", "@inject-context ()", []string{"@inject-context"}},
		{"multiple", "@first @second ()", []string{"@first", "@second"}},
		{
			name: "multi line",
			definition: `
        @first(true)
        @second(1, 2, [], {})
        @third @forth()
        ()`,
			tokens: []string{"@first(true)", "@second(1, 2, [], {})", "@third", "@forth()"},
		},
		{"attached parameter list", "@forth()()", []string{"@forth()"}},
		{"parenthesis inside string argument", `@doc("a (b") ()`, []string{`@doc("a (b")`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decoratorsOn(tt.tokens...)
			b := NewFunctionBuilder(d, parametersOn(nil))

			spec, err := b.Build(tt.definition)
			require.NoError(t, err)
			assert.Equal(t, tt.tokens, d.calls)

			decorators := spec.Decorators()
			require.Len(t, decorators, len(tt.tokens))
			for i, token := range tt.tokens {
				assert.Equal(t, token, decorators[i].Name())
			}
		})
	}
}

func TestFunctionBuilderDecoratorWithParameters(t *testing.T) {
	d := decoratorsOn("@inject-context")
	p := parametersOn(map[string]specs.ParameterSpec{
		"id: string": {Name: "id", Type: "string"},
	})
	b := NewFunctionBuilder(d, p)

	spec, err := b.Build("@inject-context (id: string)")
	require.NoError(t, err)
	assert.Len(t, spec.Decorators(), 1)
	assert.Equal(t, 1, spec.Parameters().Len())
}

func TestFunctionBuilderDuplicateParameterName(t *testing.T) {
	p := parametersOn(map[string]specs.ParameterSpec{
		"one: a":  {Name: "one", Type: "a"},
		"one?: b": {Name: "one", Type: "b", Nullable: true},
		"two: c":  {Name: "two", Type: "c"},
	})
	b := NewFunctionBuilder(decoratorsOn(), p)

	_, err := b.Build("(one: a, two: c, one?: b)")
	require.Error(t, err)
	assert.Equal(t, "Duplicate parameter name: 'one'", err.Error())
	assert.True(t, errors.Is(err, specs.ErrDuplicateParameterName))
}

func TestFunctionBuilderMisplacedVariadic(t *testing.T) {
	p := parametersOn(map[string]specs.ParameterSpec{
		"...first: a":  {Name: "first", Type: "a", Variadic: true},
		"...second: b": {Name: "second", Type: "b", Variadic: true},
		"plain: c":     {Name: "plain", Type: "c"},
	})
	b := NewFunctionBuilder(decoratorsOn(), p)

	definitions := []string{
		"(...first: a, plain: c)",
		"(...first: a, ...second: b)",
		"(plain: c, ...first: a, ...second: b): void throws E",
	}

	for _, definition := range definitions {
		t.Run(definition, func(t *testing.T) {
			_, err := b.Build(definition)
			require.Error(t, err)
			assert.True(t, errors.Is(err, specs.ErrMisplacedVariadic))
			assert.Equal(t, "Variadic parameter should be the last one: 'first'", err.Error())
		})
	}
}

func TestFunctionBuilderDuplicateReportedBeforeMisplacedVariadic(t *testing.T) {
	tests := []struct {
		name       string
		definition string
	}{
		{"two variadics sharing a name", "(...a: x, ...a: y)"},
		{"variadic then plain sharing a name", "(...a: x, a: y)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Build(tt.definition)
			require.Error(t, err)
			assert.Equal(t, "Duplicate parameter name: 'a'", err.Error())
			assert.True(t, errors.Is(err, specs.ErrDuplicateParameterName))
			assert.False(t, errors.Is(err, specs.ErrMisplacedVariadic))
		})
	}

	_, err := New().Build("(...a: x, ...b: y)")
	assert.True(t, errors.Is(err, specs.ErrMisplacedVariadic))
}

func TestFunctionBuilderWrapsForeignSubBuilderErrors(t *testing.T) {
	b, _, _ := newTestBuilder()

	_, err := b.Build("(unknown: x)")
	require.Error(t, err)
	assert.True(t, errors.Is(err, specs.ErrInvalidParameter))
	assert.Contains(t, errors.Unwrap(err).Error(), "unexpected parameter token")

	_, err = b.Build("@unknown ()")
	require.Error(t, err)
	assert.True(t, errors.Is(err, specs.ErrInvalidDecorator))
}

func TestFunctionBuilderStopsAtFirstFailure(t *testing.T) {
	p := parametersOn(map[string]specs.ParameterSpec{
		"one: a": {Name: "one", Type: "a"},
	})
	b := NewFunctionBuilder(decoratorsOn(), p)

	_, err := b.Build("(one: a, broken, never: b)")
	require.Error(t, err)
	assert.Equal(t, []string{"one: a", "broken"}, p.calls)
}

func TestNewBuildsFullDefinitions(t *testing.T) {
	b := New()

	spec, err := b.Build(`
        @first(true)
        @second(1, 2, [], {})
        @third @forth()
        (one: param, two = "default": param, three = {a: [1, 'x']}?: object, ...params: rest): void throws Test, Foo, Bar`)
	require.NoError(t, err)

	decorators := spec.Decorators()
	require.Len(t, decorators, 4)
	assert.Equal(t, "first", decorators[0].Name())
	assert.Equal(t, []specs.Literal{specs.Bool(true)}, decorators[0].Arguments())
	assert.Equal(t, "second", decorators[1].Name())
	assert.Equal(t, []specs.Literal{specs.Number(1), specs.Number(2), specs.Array{}, specs.Object{}}, decorators[1].Arguments())
	assert.Equal(t, "third", decorators[2].Name())
	assert.Empty(t, decorators[2].Arguments())
	assert.Equal(t, "forth", decorators[3].Name())
	assert.Empty(t, decorators[3].Arguments())

	params := spec.Parameters().Parameters()
	require.Len(t, params, 4)
	assert.Equal(t, specs.ParameterSpec{Name: "one", Type: "param"}, params[0])
	assert.Equal(t, specs.ParameterSpec{Name: "two", Type: "param", HasDefault: true, Default: specs.String("default")}, params[1])
	assert.True(t, params[2].Nullable)
	assert.True(t, specs.Equal(specs.Object{"a": specs.Array{specs.Number(1), specs.String("x")}}, params[2].Default))
	assert.True(t, params[3].Variadic)

	assert.Equal(t, specs.ReturnVoid, spec.Return())
	assert.Equal(t, []specs.ThrowSpec{{ExceptionType: "Test"}, {ExceptionType: "Foo"}, {ExceptionType: "Bar"}}, spec.Exceptions().ThrowSpecs())
}

func TestNewIsDeterministic(t *testing.T) {
	b := New()
	definition := `@cache({ttl: 60}) (id: string, opts = {}: object): any throws NotFound`

	first, err := b.Build(definition)
	require.NoError(t, err)
	second, err := b.Build(definition)
	require.NoError(t, err)

	firstJSON, err := first.MarshalJSON()
	require.NoError(t, err)
	secondJSON, err := second.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(firstJSON), string(secondJSON))
}

func TestNewSurfacesSubBuilderErrorsVerbatim(t *testing.T) {
	b := New()

	tests := []struct {
		definition string
		target     error
		message    string
	}{
		{"@first(nope) ()", specs.ErrInvalidDecorator, "Invalid decorator definition: '@first(nope)'"},
		{"(one)", specs.ErrInvalidParameter, "Invalid parameter definition: 'one'"},
		{"(...rest: a, one: b)", specs.ErrMisplacedVariadic, "Variadic parameter should be the last one: 'rest'"},
		{"(a: x, a: y)", specs.ErrDuplicateParameterName, "Duplicate parameter name: 'a'"},
	}

	for _, tt := range tests {
		t.Run(tt.definition, func(t *testing.T) {
			_, err := b.Build(tt.definition)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestFunctionBuilderConcurrentUse(t *testing.T) {
	b := New()
	done := make(chan error, 16)

	for i := 0; i < 16; i++ {
		go func(i int) {
			_, err := b.Build(fmt.Sprintf("@n(%d) (a%d: int, ...rest: any): void", i, i))
			done <- err
		}(i)
	}
	for i := 0; i < 16; i++ {
		assert.NoError(t, <-done)
	}
}
