package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/toyz/fnspec/internal/catalog"
	"github.com/toyz/fnspec/internal/utils"
	"github.com/toyz/fnspec/pkg/specs"
	"github.com/toyz/fnspec/pkg/specs/builder"
)

// ErrDefinitionsFailed is returned by Run when at least one definition was
// rejected
var ErrDefinitionsFailed = errors.New("one or more definitions failed to parse")

// Summary counts the outcome of a run
type Summary struct {
	Parsed int
	Failed int
}

// Result is the outcome of a single definition
type Result struct {
	Name       string
	Definition string
	Spec       *specs.FunctionSpec
	Err        error
}

type item struct {
	name       string
	definition string
}

// Runner parses definitions and reports them
type Runner struct {
	config      Config
	builder     builder.FunctionSpecBuilder
	diagnostics *utils.DiagnosticSystem
	stdin       io.Reader
	stdout      io.Writer
}

// NewRunner creates a runner using b to build definitions
func NewRunner(config Config, b builder.FunctionSpecBuilder, diagnostics *utils.DiagnosticSystem) *Runner {
	return &Runner{
		config:      config,
		builder:     b,
		diagnostics: diagnostics,
		stdin:       os.Stdin,
		stdout:      os.Stdout,
	}
}

// SetIO replaces the reader used for "-" and the writer used for JSON output
func (r *Runner) SetIO(stdin io.Reader, stdout io.Writer) {
	r.stdin = stdin
	r.stdout = stdout
}

// Run parses every configured definition and renders the results
func (r *Runner) Run() (Summary, error) {
	items, err := r.collect()
	if err != nil {
		return Summary{}, err
	}
	if len(items) == 0 {
		return Summary{}, fmt.Errorf("no definitions given")
	}

	r.diagnostics.Verbose("Parsing %d definition(s)", len(items))

	results := make([]Result, 0, len(items))
	var summary Summary
	for _, it := range items {
		spec, err := r.builder.Build(it.definition)
		if err != nil {
			summary.Failed++
			r.diagnostics.Debug("%s rejected: %v", it.name, err)
		} else {
			summary.Parsed++
		}
		results = append(results, Result{Name: it.name, Definition: it.definition, Spec: spec, Err: err})
	}

	if r.config.JSON {
		if err := r.renderJSON(results); err != nil {
			return summary, err
		}
	} else {
		r.renderPretty(results, summary)
	}

	if summary.Failed > 0 {
		return summary, ErrDefinitionsFailed
	}
	return summary, nil
}

func (r *Runner) collect() ([]item, error) {
	var items []item

	if r.config.CatalogPath != "" {
		c, err := catalog.LoadFile(r.config.CatalogPath)
		if err != nil {
			return nil, err
		}
		r.diagnostics.Verbose("Loaded %d function(s) from %s", len(c.Functions), r.config.CatalogPath)
		for _, fn := range c.Functions {
			items = append(items, item{name: fn.Name, definition: fn.Definition})
		}
	}

	for i, definition := range r.config.Definitions {
		if definition == "-" {
			data, err := io.ReadAll(r.stdin)
			if err != nil {
				return nil, fmt.Errorf("failed to read definition from stdin: %w", err)
			}
			definition = string(data)
		}
		items = append(items, item{name: fmt.Sprintf("#%d", i+1), definition: definition})
	}

	return items, nil
}

type errorJSON struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type resultJSON struct {
	Name       string              `json:"name"`
	Definition string              `json:"definition"`
	Spec       *specs.FunctionSpec `json:"spec,omitempty"`
	Error      *errorJSON          `json:"error,omitempty"`
}

func (r *Runner) renderJSON(results []Result) error {
	doc := make([]resultJSON, 0, len(results))
	for _, result := range results {
		entry := resultJSON{Name: result.Name, Definition: result.Definition, Spec: result.Spec}
		if result.Err != nil {
			entry.Error = &errorJSON{Kind: errorKind(result.Err), Message: result.Err.Error()}
		}
		doc = append(doc, entry)
	}

	encoder := json.NewEncoder(r.stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func (r *Runner) renderPretty(results []Result, summary Summary) {
	d := r.diagnostics

	for _, result := range results {
		d.Category(result.Name)
		d.Indent()

		if result.Err != nil {
			d.Failure("%s: %s", errorKind(result.Err), result.Err.Error())
			if r.config.Verbose {
				d.Indent()
				for cause := errors.Unwrap(result.Err); cause != nil; cause = errors.Unwrap(cause) {
					d.Failure("caused by: %v", cause)
				}
				d.Unindent()
			}
			d.Unindent()
			continue
		}

		spec := result.Spec
		for _, decorator := range spec.Decorators() {
			d.List("%s", FormatDecorator(decorator))
		}
		if spec.Parameters().Len() == 0 {
			d.Field("parameters", "none")
		} else {
			d.Field("parameters", spec.Parameters().Len())
			d.Indent()
			for _, param := range spec.Parameters().Parameters() {
				d.List("%s", FormatParameter(param))
			}
			d.Unindent()
		}
		d.Field("return", spec.Return())
		if spec.Exceptions().Len() > 0 {
			names := make([]string, 0, spec.Exceptions().Len())
			for _, t := range spec.Exceptions().ThrowSpecs() {
				names = append(names, t.ExceptionType)
			}
			d.Field("throws", strings.Join(names, ", "))
		}
		d.Success("parsed")
		d.Unindent()
	}

	d.Summary("Done", []string{"Parsed", "Failed"}, map[string]any{
		"Parsed": summary.Parsed,
		"Failed": summary.Failed,
	})
}

func errorKind(err error) string {
	var specErr *specs.Error
	if errors.As(err, &specErr) {
		return specErr.Kind.String()
	}
	return "Error"
}

// FormatLiteral renders a literal in JSON notation
func FormatLiteral(l specs.Literal) string {
	data, err := json.Marshal(specs.Native(l))
	if err != nil {
		return fmt.Sprintf("%v", l)
	}
	return string(data)
}

// FormatDecorator renders a decorator as @name(arg, ...)
func FormatDecorator(d specs.DecoratorSpec) string {
	args := d.Arguments()
	if len(args) == 0 {
		return "@" + d.Name()
	}

	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = FormatLiteral(arg)
	}
	return fmt.Sprintf("@%s(%s)", d.Name(), strings.Join(parts, ", "))
}

// FormatParameter renders a parameter in definition syntax
func FormatParameter(p specs.ParameterSpec) string {
	var b strings.Builder
	if p.Variadic {
		b.WriteString("...")
	}
	b.WriteString(p.Name)
	if p.HasDefault {
		b.WriteString(" = ")
		b.WriteString(FormatLiteral(p.Default))
	}
	if p.Nullable {
		b.WriteString("?")
	}
	b.WriteString(": ")
	b.WriteString(p.Type)
	return b.String()
}
