// Package catalog loads named function definitions from YAML documents and
// builds them in bulk.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/toyz/fnspec/pkg/specs"
	"github.com/toyz/fnspec/pkg/specs/builder"
)

// Definition is a single named entry of a catalog document
type Definition struct {
	Name       string `yaml:"name"`
	Definition string `yaml:"definition"`
}

// Catalog is an ordered list of named definitions
type Catalog struct {
	Functions []Definition `yaml:"functions"`
}

// Entry is a built catalog definition
type Entry struct {
	Name       string
	Definition string
	Spec       *specs.FunctionSpec
}

// EntryError reports the catalog entry whose definition failed to build
type EntryError struct {
	Index int
	Name  string
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("function %q (entry %d): %v", e.Name, e.Index, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// Load decodes a catalog document from r
func Load(r io.Reader) (*Catalog, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var c Catalog
	if err := decoder.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return &Catalog{}, nil
		}
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile reads and decodes the catalog at path
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (c *Catalog) validate() error {
	seen := make(map[string]int, len(c.Functions))
	for i, fn := range c.Functions {
		name := strings.TrimSpace(fn.Name)
		if name == "" {
			return fmt.Errorf("entry %d: function name cannot be empty", i)
		}
		if first, exists := seen[name]; exists {
			return fmt.Errorf("entry %d: function %q already declared at entry %d", i, name, first)
		}
		seen[name] = i
		c.Functions[i].Name = name
	}
	return nil
}

// Build builds every definition in document order and stops at the first
// failure
func (c *Catalog) Build(b builder.FunctionSpecBuilder) ([]Entry, error) {
	entries := make([]Entry, 0, len(c.Functions))
	for i, fn := range c.Functions {
		spec, err := b.Build(fn.Definition)
		if err != nil {
			return nil, &EntryError{Index: i, Name: fn.Name, Err: err}
		}
		entries = append(entries, Entry{
			Name:       fn.Name,
			Definition: fn.Definition,
			Spec:       spec,
		})
	}
	return entries, nil
}
