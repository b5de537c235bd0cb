// Package registry builds, stores and checks the flow registry file.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"edudesk/internal/common/config"
	apperrors "edudesk/internal/common/errors"
	"edudesk/internal/common/flow"
)

var flowErrorCodes = []apperrors.ErrorCode{
	apperrors.ErrCodeMissingField,
	apperrors.ErrCodeTemplateRenderFailed,
	apperrors.ErrCodeTransportFailure,
	apperrors.ErrCodeSchemaViolation,
}

const defaultTimeout = 60 * time.Second

// formatTimeout writes d in whole or fractional seconds, e.g. "60s" or "1.5s".
func formatTimeout(d time.Duration) string {
	return fmt.Sprintf("%gs", d.Seconds())
}

// Build describes flows. Timeouts come from cfg when it is non-nil.
func Build(version string, flows []flow.Descriptor, cfg *config.Config, now time.Time) *FlowRegistry {
	reg := &FlowRegistry{
		Version:     version,
		LastUpdated: now.UTC().Format(time.RFC3339),
		Flows:       make([]Flow, 0, len(flows)),
	}

	codes := make([]string, 0, len(flowErrorCodes))
	retries := 0
	for _, c := range flowErrorCodes {
		codes = append(codes, string(c))
		if r := apperrors.GetRetryCount(c); r > retries {
			retries = r
		}
	}

	for _, d := range flows {
		timeout := formatTimeout(defaultTimeout)
		if cfg != nil {
			if ms := cfg.Flow(d.Name).Timeout; ms > 0 {
				timeout = formatTimeout(config.GetDuration(ms))
			}
		}
		f := Flow{
			TaskType:       d.Name,
			DisplayName:    DisplayName(d.Name),
			Description:    d.Description,
			Category:       d.Category,
			RequiredFields: d.RequiredFields,
			HasGuard:       d.HasGuard,
			ErrorCodes:     codes,
			Timeout:        timeout,
			Retries:        retries,
		}
		if d.Input != nil {
			f.InputSchema = d.Input.Document()
		}
		if d.Output != nil {
			f.OutputSchema = d.Output.Document()
		}
		reg.Flows = append(reg.Flows, f)
	}
	return reg
}

// DisplayName turns a task type such as grade-test into "Grade Test".
func DisplayName(taskType string) string {
	words := strings.Split(taskType, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func Load(path string) (*FlowRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg FlowRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode registry %s: %w", path, err)
	}
	return &reg, nil
}

func Save(reg *FlowRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Validate checks required fields, duplicate task types and that every
// output schema compiles. It returns one error per problem found.
func Validate(reg *FlowRegistry) []error {
	var problems []error
	if len(reg.Flows) == 0 {
		return []error{fmt.Errorf("registry contains no flows")}
	}

	seen := make(map[string]bool, len(reg.Flows))
	for i, f := range reg.Flows {
		if f.TaskType == "" {
			problems = append(problems, fmt.Errorf("flow %d missing required field: taskType", i))
			continue
		}
		if seen[f.TaskType] {
			problems = append(problems, fmt.Errorf("duplicate task type: %s", f.TaskType))
		}
		seen[f.TaskType] = true

		if f.Category == "" {
			problems = append(problems, fmt.Errorf("flow %s missing required field: category", f.TaskType))
		}
		if len(f.OutputSchema) == 0 {
			problems = append(problems, fmt.Errorf("flow %s missing required field: outputSchema", f.TaskType))
			continue
		}
		if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(f.OutputSchema)); err != nil {
			problems = append(problems, fmt.Errorf("flow %s: output schema does not compile: %w", f.TaskType, err))
		}
	}
	return problems
}

// Diff lists task types present in only one of the two registries and those
// whose output schema changed.
func Diff(current, built *FlowRegistry) []string {
	var out []string
	have := make(map[string]Flow, len(current.Flows))
	for _, f := range current.Flows {
		have[f.TaskType] = f
	}
	for _, f := range built.Flows {
		old, ok := have[f.TaskType]
		if !ok {
			out = append(out, "+ "+f.TaskType)
			continue
		}
		delete(have, f.TaskType)
		a, _ := json.Marshal(old.OutputSchema)
		b, _ := json.Marshal(f.OutputSchema)
		if string(a) != string(b) {
			out = append(out, "~ "+f.TaskType)
		}
	}
	for _, f := range current.Flows {
		if _, ok := have[f.TaskType]; ok {
			out = append(out, "- "+f.TaskType)
		}
	}
	return out
}
