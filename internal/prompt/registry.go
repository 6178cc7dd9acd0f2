// Package prompt holds the versioned prompt templates and the category
// guidance injected into them. Templates are declarative: placeholders only,
// no control flow. Branching (user categories vs built-in taxonomy) is
// resolved by the caller before variables are passed in, which keeps every
// rendered prompt snapshot-testable.
package prompt

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"fjacquet/stmt-extract/internal/extracterror"
)

// Template is an immutable prompt template with named placeholders.
type Template struct {
	ID                string
	RequiredVariables []string
	Body              string
}

// Registry stores templates by id. It is explicitly constructed and passed
// to the pipeline entry point; there is no package-level instance.
type Registry struct {
	templates map[string]Template
}

// NewRegistry creates an empty template registry.
func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]Template)}
}

// Register adds or replaces a template.
func (r *Registry) Register(t Template) {
	r.templates[t.ID] = t
}

// Get returns the template with the given id.
func (r *Registry) Get(id string) (Template, bool) {
	t, ok := r.templates[id]
	return t, ok
}

// Build renders the template with the given variables. Every required
// variable is checked before substitution begins, so a missing placeholder
// is reported up front instead of surfacing as a half-rendered prompt.
func (r *Registry) Build(id string, variables map[string]interface{}) (string, error) {
	t, ok := r.templates[id]
	if !ok {
		return "", &extracterror.UnknownTemplateError{TemplateID: id}
	}

	var missing []string
	for _, name := range t.RequiredVariables {
		if _, present := variables[name]; !present {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", &extracterror.MissingVariablesError{TemplateID: id, Missing: missing}
	}

	rendered := t.Body
	for name, value := range variables {
		rendered = strings.ReplaceAll(rendered, "{{"+name+"}}", stringify(value))
	}
	return rendered, nil
}

// stringify converts a variable value to its prompt representation.
// Primitives render naturally; anything structured is serialized as JSON.
func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return fmt.Sprintf("%v", v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}
