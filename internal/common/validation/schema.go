package validation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "edudesk/internal/common/errors"
)

// Property describes one field of a task's input or output shape.
// Description is steering text for the model and is never validated.
type Property struct {
	Type        string              `json:"type"`
	Description string              `json:"description,omitempty"`
	Minimum     *float64            `json:"minimum,omitempty"`
	Maximum     *float64            `json:"maximum,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Pattern     *string             `json:"pattern,omitempty"`
	MinLength   *int                `json:"minLength,omitempty"`
	MaxLength   *int                `json:"maxLength,omitempty"`
	MinItems    *int                `json:"minItems,omitempty"`
	MaxItems    *int                `json:"maxItems,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Required    []string            `json:"required,omitempty"`
	// Order lists Properties in the order the model should emit them.
	Order []string `json:"-"`
}

func String(description string) Property {
	return Property{Type: "string", Description: description}
}

func Number(description string) Property {
	return Property{Type: "number", Description: description}
}

func Integer(description string) Property {
	return Property{Type: "integer", Description: description}
}

func Boolean(description string) Property {
	return Property{Type: "boolean", Description: description}
}

func Array(description string, items Property) Property {
	return Property{Type: "array", Description: description, Items: &items}
}

// Field is one named property of an object, kept in declaration order.
type Field struct {
	Name     string
	Property Property
	Optional bool
}

func Required(name string, p Property) Field { return Field{Name: name, Property: p} }

func Optional(name string, p Property) Field { return Field{Name: name, Property: p, Optional: true} }

// Object builds an object property. Fields are required unless declared Optional.
func Object(description string, fields ...Field) Property {
	p := Property{
		Type:        "object",
		Description: description,
		Properties:  make(map[string]Property, len(fields)),
	}
	for _, f := range fields {
		p.Properties[f.Name] = f.Property
		p.Order = append(p.Order, f.Name)
		if !f.Optional {
			p.Required = append(p.Required, f.Name)
		}
	}
	return p
}

// Range constrains a numeric property to [min, max].
func (p Property) Range(min, max float64) Property {
	p.Minimum = &min
	p.Maximum = &max
	return p
}

// Min constrains a numeric property to values >= min.
func (p Property) Min(min float64) Property {
	p.Minimum = &min
	return p
}

// Len constrains an array property to exactly n elements.
func (p Property) Len(n int) Property {
	p.MinItems = &n
	p.MaxItems = &n
	return p
}

// OneOf constrains a string property to the given values.
func (p Property) OneOf(values ...string) Property {
	p.Enum = values
	return p
}

// Schema is the compiled shape of one task's data. It is immutable once built
// and safe for concurrent use.
type Schema struct {
	Name        string
	Description string
	Root        Property

	compiled *gojsonschema.Schema
}

// NewSchema compiles root into a Schema.
func NewSchema(name, description string, root Property) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(root))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return &Schema{
		Name:        name,
		Description: description,
		Root:        root,
		compiled:    compiled,
	}, nil
}

// MustNewSchema is NewSchema for package-level contract declarations.
func MustNewSchema(name, description string, root Property) *Schema {
	s, err := NewSchema(name, description, root)
	if err != nil {
		panic(err)
	}
	return s
}

// Document returns the schema as a generic JSON-schema document.
func (s *Schema) Document() map[string]interface{} {
	raw, err := json.Marshal(s.Root)
	if err != nil {
		return nil
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	return doc
}

// ViolationKind tells an absent field apart from a mistyped one or a violated constraint.
type ViolationKind string

const (
	KindAbsent     ViolationKind = "absent"
	KindWrongType  ViolationKind = "wrong_type"
	KindConstraint ViolationKind = "constraint"
	KindMalformed  ViolationKind = "malformed"
)

type Violation struct {
	Field   string        `json:"field"`
	Kind    ViolationKind `json:"kind"`
	Message string        `json:"message"`
}

type ValidationResult struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations,omitempty"`
}

// Validate checks a raw JSON document against the schema. It never modifies raw.
func (s *Schema) Validate(raw []byte) *ValidationResult {
	result, err := s.compiled.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &ValidationResult{
			Violations: []Violation{{Field: rootContext, Kind: KindMalformed, Message: err.Error()}},
		}
	}
	return fromResult(result)
}

// ValidateValue checks an already decoded value against the schema.
func (s *Schema) ValidateValue(value interface{}) *ValidationResult {
	result, err := s.compiled.Validate(gojsonschema.NewGoLoader(value))
	if err != nil {
		return &ValidationResult{
			Violations: []Violation{{Field: rootContext, Kind: KindMalformed, Message: err.Error()}},
		}
	}
	return fromResult(result)
}

func fromResult(result *gojsonschema.Result) *ValidationResult {
	if result.Valid() {
		return &ValidationResult{Valid: true}
	}
	out := &ValidationResult{}
	for _, re := range result.Errors() {
		out.Violations = append(out.Violations, Violation{
			Field:   fieldPath(re),
			Kind:    kindOf(re.Type()),
			Message: re.Description(),
		})
	}
	sort.SliceStable(out.Violations, func(i, j int) bool {
		return out.Violations[i].Field < out.Violations[j].Field
	})
	return out
}

func kindOf(errType string) ViolationKind {
	switch errType {
	case "required":
		return KindAbsent
	case "invalid_type":
		return KindWrongType
	default:
		return KindConstraint
	}
}

const rootContext = "(root)"

// fieldPath renders the offending location as a dotted path from the root,
// e.g. "days.2.topic". Required errors point at the missing property itself.
func fieldPath(re gojsonschema.ResultError) string {
	path := ""
	if ctx := re.Context(); ctx != nil {
		path = strings.TrimPrefix(ctx.String(), rootContext)
		path = strings.TrimPrefix(path, ".")
	}
	if re.Type() == "required" {
		if prop, ok := re.Details()["property"].(string); ok {
			if path == "" {
				return prop
			}
			return path + "." + prop
		}
	}
	if path == "" {
		return rootContext
	}
	return path
}

// HasViolation reports whether field was reported with the given kind.
func (vr *ValidationResult) HasViolation(field string, kind ViolationKind) bool {
	for _, v := range vr.Violations {
		if v.Field == field && v.Kind == kind {
			return true
		}
	}
	return false
}

// GetErrorMessages returns a simple list of violation messages.
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Violations))
	for i, v := range vr.Violations {
		messages[i] = fmt.Sprintf("%s: %s", v.Field, v.Message)
	}
	return messages
}

// FieldErrors converts the violations for use in a StandardError.
func (vr *ValidationResult) FieldErrors() []apperrors.FieldError {
	out := make([]apperrors.FieldError, 0, len(vr.Violations))
	for _, v := range vr.Violations {
		out = append(out, apperrors.FieldError{Field: v.Field, Kind: string(v.Kind), Message: v.Message})
	}
	return out
}
