// Package modules pairs native callables with their specifications and
// hands them to the script runtime's module compiler.
//
// Compilation itself (isolates, contexts, argument marshalling) lives in the
// runtime integration; this package only declares the contract.
package modules

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/toyz/fnspec/pkg/specs"
	"github.com/toyz/fnspec/pkg/specs/builder"
)

// NativeFunction is a callable together with the contract it exposes
type NativeFunction struct {
	Name       string
	Definition string
	Spec       *specs.FunctionSpec
	Callable   any
}

// Compiler makes a native function invocable from the sandboxed runtime,
// honoring the parameter, return and throws contract of its spec
type Compiler interface {
	Compile(ctx context.Context, fn NativeFunction) error
}

// Registry collects native functions by name
type Registry struct {
	mu        sync.RWMutex
	builder   builder.FunctionSpecBuilder
	functions map[string]NativeFunction
}

// NewRegistry creates a registry that builds definitions with b
func NewRegistry(b builder.FunctionSpecBuilder) *Registry {
	return &Registry{
		builder:   b,
		functions: make(map[string]NativeFunction),
	}
}

// Define builds definition and registers callable under name
func (r *Registry) Define(name, definition string, callable any) error {
	if name == "" {
		return fmt.Errorf("function name cannot be empty")
	}
	if callable == nil {
		return fmt.Errorf("function %s has no callable", name)
	}

	spec, err := r.builder.Build(definition)
	if err != nil {
		return fmt.Errorf("function %s: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.functions[name]; exists {
		return fmt.Errorf("function %s is already defined", name)
	}

	r.functions[name] = NativeFunction{
		Name:       name,
		Definition: definition,
		Spec:       spec,
		Callable:   callable,
	}
	return nil
}

// Get returns the function registered under name
func (r *Registry) Get(name string) (NativeFunction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, exists := r.functions[name]
	return fn, exists
}

// Names returns all registered names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CompileAll hands every registered function to c in name order and stops
// at the first failure
func (r *Registry) CompileAll(ctx context.Context, c Compiler) error {
	for _, name := range r.Names() {
		if err := ctx.Err(); err != nil {
			return err
		}

		fn, _ := r.Get(name)
		if err := c.Compile(ctx, fn); err != nil {
			return fmt.Errorf("failed to compile function %s: %w", name, err)
		}
	}
	return nil
}
