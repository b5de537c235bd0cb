// Package flow composes guard, render, invoke and validate into one call per
// analytical task.
package flow

import (
	"fmt"

	"edudesk/internal/common/prompt"
	"edudesk/internal/common/validation"
)

// Task is the static declaration of one analytical function. Tasks are
// built once at package init and never mutated.
type Task[In any, Out any] struct {
	Name        string
	Description string
	Category    string

	// Input documents the caller-supplied shape. It is not enforced beyond
	// the template's required fields.
	Input    *validation.Schema
	Output   *validation.Schema
	Template *prompt.Template

	// Guard returns a fixed result and true when in cannot be analyzed.
	Guard func(in *In) (*Out, bool)

	// Shape runs after schema validation for constraints that depend on the
	// input, and may fill derived fields of out.
	Shape func(in *In, out *Out) []validation.Violation

	Temperature *float32
}

// Validate reports a task declaration that cannot run.
func (t *Task[In, Out]) Validate() error {
	switch {
	case t.Name == "":
		return fmt.Errorf("task name is required")
	case t.Template == nil:
		return fmt.Errorf("task %s: template is required", t.Name)
	case t.Output == nil:
		return fmt.Errorf("task %s: output schema is required", t.Name)
	}
	return nil
}

// Descriptor is the type-erased view of a Task used by the flow registry.
type Descriptor struct {
	Name           string
	Description    string
	Category       string
	Input          *validation.Schema
	Output         *validation.Schema
	RequiredFields []string
	HasGuard       bool
}

func (t *Task[In, Out]) Describe() Descriptor {
	d := Descriptor{
		Name:        t.Name,
		Description: t.Description,
		Category:    t.Category,
		Input:       t.Input,
		Output:      t.Output,
		HasGuard:    t.Guard != nil,
	}
	if t.Template != nil {
		d.RequiredFields = t.Template.Required()
	}
	return d
}
