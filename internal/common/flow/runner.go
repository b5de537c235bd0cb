package flow

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "edudesk/internal/common/errors"
	"edudesk/internal/common/llm"
	"edudesk/internal/common/logger"
	"edudesk/internal/common/metrics"
	"edudesk/internal/common/observability"
	"edudesk/internal/common/prompt"
	"edudesk/internal/common/validation"
)

// State is a step of one flow call. Calls only move forward.
type State string

const (
	StateIdle               State = "Idle"
	StateGuardChecked       State = "GuardChecked"
	StateShortCircuitReturn State = "ShortCircuitReturn"
	StateRendering          State = "Rendering"
	StateRendered           State = "Rendered"
	StateInvoking           State = "Invoking"
	StateInvoked            State = "Invoked"
	StateValidating         State = "Validating"
	StateSuccess            State = "Success"
	StateFatal              State = "Fatal"
)

const (
	OutcomeSuccess      = "success"
	OutcomeShortCircuit = "short_circuit"
	OutcomeFatal        = "fatal"
)

// Result is what a call ended with. Output is nil when State is StateFatal.
type Result[Out any] struct {
	Output *Out
	State  State
	// ShortCircuited is true when the guard answered without a model call.
	ShortCircuited bool
	Model          string
	Transitions    []State
}

// Runner executes tasks against one model invoker. It holds no per-call
// state and may be shared by concurrent callers.
type Runner struct {
	invoker      llm.Invoker
	defaultModel string
	logger       logger.Logger
	obs          *observability.Observability
}

func NewRunner(invoker llm.Invoker, defaultModel string, log logger.Logger, obs *observability.Observability) *Runner {
	return &Runner{
		invoker:      invoker,
		defaultModel: defaultModel,
		logger:       log,
		obs:          obs,
	}
}

type call[Out any] struct {
	runner *Runner
	log    logger.Logger
	result *Result[Out]
}

func (c *call[Out]) enter(s State) {
	c.result.State = s
	c.result.Transitions = append(c.result.Transitions, s)
	c.log.Debug("flow state", map[string]interface{}{"state": string(s)})
}

// Run executes task once for in: guard, render, invoke, validate. model
// overrides the runner's default model when non-empty.
//
// The returned Result is never nil. On failure the error is a
// *errors.StandardError with code INVALID_INPUT (nil in), MISSING_FIELD,
// TEMPLATE_RENDER_FAILED, TRANSPORT_FAILURE or SCHEMA_VIOLATION.
func Run[In any, Out any](ctx context.Context, r *Runner, task *Task[In, Out], model string, in *In) (*Result[Out], error) {
	if model == "" {
		model = r.defaultModel
	}
	c := &call[Out]{
		runner: r,
		log:    r.logger.WithFields(map[string]interface{}{"taskType": task.Name}),
		result: &Result[Out]{Model: model},
	}

	start := time.Now()
	metrics.FlowRunsActive.WithLabelValues(task.Name).Inc()
	ctx, span := r.obs.StartSpan(ctx, "flow."+task.Name,
		attribute.String("task_type", task.Name),
		attribute.String("model", model),
	)
	defer func() {
		metrics.FlowRunsActive.WithLabelValues(task.Name).Dec()
		span.End()
	}()

	c.enter(StateIdle)

	out, err := execute(ctx, c, task, model, in)

	outcome := OutcomeSuccess
	switch {
	case err != nil:
		outcome = OutcomeFatal
		c.enter(StateFatal)
		code := apperrors.CodeOf(err)
		metrics.FlowFailuresTotal.WithLabelValues(task.Name, string(code)).Inc()
		span.SetStatus(codes.Error, string(code))
		span.RecordError(err)
		c.log.Error("flow failed", map[string]interface{}{
			"errorCode": string(code),
			"error":     err.Error(),
			"model":     model,
		})
	case c.result.ShortCircuited:
		outcome = OutcomeShortCircuit
		c.result.Output = out
		c.log.Info("flow short-circuited on degenerate input", nil)
	default:
		c.enter(StateSuccess)
		c.result.Output = out
		c.log.Info("flow completed", map[string]interface{}{"model": model})
	}

	elapsed := time.Since(start)
	metrics.FlowRunsTotal.WithLabelValues(task.Name, outcome).Inc()
	metrics.FlowDuration.WithLabelValues(task.Name).Observe(elapsed.Seconds())
	r.obs.RecordFlow(ctx, task.Name, outcome, elapsed)
	span.SetAttributes(attribute.String("outcome", outcome))

	return c.result, err
}

func execute[In any, Out any](ctx context.Context, c *call[Out], task *Task[In, Out], model string, in *In) (*Out, error) {
	if in == nil {
		return nil, apperrors.NewInvalidInputError("input for " + task.Name + " is required")
	}
	if task.Guard != nil {
		if fallback, ok := task.Guard(in); ok {
			c.enter(StateGuardChecked)
			c.result.ShortCircuited = true
			c.enter(StateShortCircuitReturn)
			return fallback, nil
		}
	}
	c.enter(StateGuardChecked)

	c.enter(StateRendering)
	text, err := render(task, in)
	if err != nil {
		return nil, err
	}
	c.enter(StateRendered)

	c.enter(StateInvoking)
	metrics.FlowModelCalls.WithLabelValues(task.Name, model).Inc()
	c.runner.obs.RecordModelCall(ctx, task.Name, model)
	raw, err := c.runner.invoker.Invoke(ctx, &llm.Request{
		TaskType:    task.Name,
		Prompt:      text,
		Schema:      task.Output,
		Model:       model,
		Temperature: task.Temperature,
	})
	if err != nil {
		return nil, apperrors.NewTransportFailureError(task.Name, model, err)
	}
	c.enter(StateInvoked)

	c.enter(StateValidating)
	return validate(task, in, raw)
}

func render[In any, Out any](task *Task[In, Out], in *In) (string, error) {
	data, err := prompt.ToData(in)
	if err != nil {
		return "", apperrors.NewTemplateRenderFailedError(task.Name, err)
	}
	text, err := task.Template.Render(data)
	if err != nil {
		var mfe *prompt.MissingFieldError
		if errors.As(err, &mfe) {
			return "", apperrors.NewMissingFieldError(task.Name, mfe.Fields...)
		}
		return "", apperrors.NewTemplateRenderFailedError(task.Name, err)
	}
	return text, nil
}

func validate[In any, Out any](task *Task[In, Out], in *In, raw json.RawMessage) (*Out, error) {
	result := task.Output.Validate(raw)
	if !result.Valid {
		return nil, apperrors.NewSchemaViolationError(task.Name, result.FieldErrors())
	}

	var out Out
	if err := decode(raw, &out); err != nil {
		return nil, apperrors.NewSchemaViolationError(task.Name, []apperrors.FieldError{
			{Field: "(root)", Kind: string(validation.KindMalformed), Message: err.Error()},
		})
	}

	if task.Shape != nil {
		if violations := task.Shape(in, &out); len(violations) > 0 {
			shaped := &validation.ValidationResult{Violations: violations}
			return nil, apperrors.NewSchemaViolationError(task.Name, shaped.FieldErrors())
		}
	}
	return &out, nil
}

// decode round-trips raw through interface{} so integral numbers such as
// 2.0, which the schema accepts as integers, fit int fields.
func decode(raw json.RawMessage, out interface{}) error {
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	normalized, err := json.Marshal(generic)
	if err != nil {
		return err
	}
	return json.Unmarshal(normalized, out)
}
