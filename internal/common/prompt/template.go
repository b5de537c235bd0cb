// Package prompt renders the natural-language instructions sent to the model.
//
// Templates use a small block syntax:
//
//	{{path.to.field}}             interpolate a scalar
//	{{#if path}}...{{else}}...{{/if}}  render when the value is truthy
//	{{#each path}}...{{/each}}     render once per element
//
// Inside an each block {{this}} is the current element, {{@index}} its
// zero-based position and {{@number}} its one-based position. Element fields
// are resolved before fields of enclosing scopes.
package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingField = errors.New("MISSING_FIELD")
	ErrNotScalar    = errors.New("NOT_SCALAR")
	ErrSyntax       = errors.New("TEMPLATE_SYNTAX")
)

// MissingFieldError lists the fields a render needed but did not find.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field: %s", strings.Join(e.Fields, ", "))
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// Template is a parsed prompt. It is immutable and safe for concurrent use.
type Template struct {
	name     string
	required []string
	nodes    []node
}

// Parse compiles source. required names the top-level fields that must be
// present in every render, checked before any output is produced.
func Parse(name, source string, required ...string) (*Template, error) {
	nodes, err := parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return &Template{
		name:     name,
		required: append([]string(nil), required...),
		nodes:    nodes,
	}, nil
}

// MustParse is Parse for package-level declarations.
func MustParse(name, source string, required ...string) *Template {
	t, err := Parse(name, source, required...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Template) Name() string { return t.name }

// Required returns a copy of the fields checked before rendering.
func (t *Template) Required() []string {
	return append([]string(nil), t.required...)
}

// Render produces the prompt for data. A required field that is absent, null
// or an empty string yields a *MissingFieldError naming every such field.
func (t *Template) Render(data map[string]interface{}) (string, error) {
	var missing []string
	for _, field := range t.required {
		if isAbsent(lookup(data, splitPath(field))) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return "", &MissingFieldError{Fields: missing}
	}

	var b strings.Builder
	s := &scope{frames: []frame{{value: data}}}
	if err := renderNodes(&b, t.nodes, s); err != nil {
		return "", err
	}
	return b.String(), nil
}

func isAbsent(v interface{}, ok bool) bool {
	if !ok || v == nil {
		return true
	}
	if s, isString := v.(string); isString && s == "" {
		return true
	}
	return false
}

// ToData converts a tagged struct into the generic form templates render from.
func ToData(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode template data: %w", err)
	}
	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode template data: %w", err)
	}
	return data, nil
}
