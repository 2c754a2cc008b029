package codegen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Request is a kind-agnostic generation request: the artifact name plus the
// raw option values collected by a front end.
type Request struct {
	Name    string
	Options map[string]string
}

// String returns the option value for key, or def when unset.
func (r Request) String(key, def string) string {
	if v, ok := r.Options[key]; ok && v != "" {
		return v
	}
	return def
}

// Bool parses the option value for key; unset means false.
func (r Request) Bool(key string) (bool, error) {
	v, ok := r.Options[key]
	if !ok || v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("option %s: %w", key, err)
	}
	return b, nil
}

// List splits a comma-separated option value, dropping blanks.
func (r Request) List(key string) []string {
	var out []string
	for _, part := range strings.Split(r.Options[key], ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// OptionSpec describes one option a kind accepts so front ends can expose it.
type OptionSpec struct {
	Name    string
	Usage   string
	Bool    bool
	Default string
}

// Kind is a named artifact family that can be generated from a Request.
type Kind struct {
	Name        string
	Description string
	Options     []OptionSpec
	Generate    func(g *Generator, req Request) ([]Artifact, error)
}

// Registry manages the available artifact kinds
type Registry struct {
	kinds map[string]Kind
}

// NewRegistry creates an empty kind registry
func NewRegistry() *Registry {
	return &Registry{
		kinds: make(map[string]Kind),
	}
}

// Register adds a kind, replacing any kind of the same name
func (r *Registry) Register(kind Kind) {
	r.kinds[kind.Name] = kind
}

// Get returns the kind registered under name
func (r *Registry) Get(name string) (Kind, error) {
	kind, exists := r.kinds[name]
	if !exists {
		return Kind{}, fmt.Errorf("unsupported kind: %s", name)
	}
	return kind, nil
}

// Kinds returns the registered kinds sorted by name
func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.kinds))
	for _, k := range r.kinds {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i].Name < kinds[j].Name })
	return kinds
}

// Generate dispatches req to the kind registered under name.
func (r *Registry) Generate(g *Generator, name string, req Request) ([]Artifact, error) {
	kind, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return kind.Generate(g, req)
}
