package flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "edudesk/internal/common/errors"
	"edudesk/internal/common/llm"
	"edudesk/internal/common/logger"
	"edudesk/internal/common/prompt"
	"edudesk/internal/common/validation"
)

// ==========================
// Test Helper Functions
// ==========================

type testInput struct {
	Topic    string   `json:"topic"`
	Items    []string `json:"items"`
	Previous string   `json:"previous,omitempty"`
	Limit    int      `json:"limit"`
}

type testOutput struct {
	Summary string   `json:"summary"`
	Count   int      `json:"count"`
	Tags    []string `json:"tags"`
	Derived float64  `json:"derived,omitempty"`
}

func createTestTask() *Task[testInput, testOutput] {
	return &Task[testInput, testOutput]{
		Name:     "summarize-items",
		Category: "test",
		Output: validation.MustNewSchema("summary", "", validation.Object("out",
			validation.Required("summary", validation.String("one line")),
			validation.Required("count", validation.Integer("items counted").Min(0)),
			validation.Required("tags", validation.Array("labels", validation.String("tag"))),
		)),
		Template: prompt.MustParse("summarize-items",
			"Summarize {{topic}}.\n{{#if previous}}Before: {{previous}}\n{{/if}}{{#each items}}{{@number}}. {{this}}\n{{/each}}",
			"topic", "items"),
		Guard: func(in *testInput) (*testOutput, bool) {
			if len(in.Items) > 0 {
				return nil, false
			}
			return &testOutput{Summary: "Nothing to summarize.", Tags: []string{}}, true
		},
		Shape: func(in *testInput, out *testOutput) []validation.Violation {
			if in.Limit > 0 && out.Count > in.Limit {
				return []validation.Violation{{
					Field:   "count",
					Kind:    validation.KindConstraint,
					Message: fmt.Sprintf("count %d exceeds limit %d", out.Count, in.Limit),
				}}
			}
			out.Derived = float64(out.Count) / 2
			return nil
		},
	}
}

type spyInvoker struct {
	calls    int32
	requests []*llm.Request
	mu       sync.Mutex
	response json.RawMessage
	err      error
}

func (s *spyInvoker) Invoke(ctx context.Context, req *llm.Request) (json.RawMessage, error) {
	atomic.AddInt32(&s.calls, 1)
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	return s.response, s.err
}

func (s *spyInvoker) Calls() int { return int(atomic.LoadInt32(&s.calls)) }

func createTestRunner(t *testing.T, inv llm.Invoker) *Runner {
	return NewRunner(inv, "gemini-2.0-flash", logger.NewTestLogger(t), nil)
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) *apperrors.StandardError {
	t.Helper()
	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr), "expected StandardError, got %v", err)
	assert.Equal(t, code, stdErr.Code)
	return stdErr
}

// ==========================
// Guard Tests
// ==========================

func TestRun_GuardShortCircuitsWithoutModelCall(t *testing.T) {
	spy := &spyInvoker{response: json.RawMessage(`{}`)}
	r := createTestRunner(t, spy)

	res, err := Run(context.Background(), r, createTestTask(), "", &testInput{Topic: "week 3"})

	require.NoError(t, err)
	assert.Equal(t, 0, spy.Calls())
	assert.True(t, res.ShortCircuited)
	assert.Equal(t, StateShortCircuitReturn, res.State)
	assert.Equal(t, []State{StateIdle, StateGuardChecked, StateShortCircuitReturn}, res.Transitions)
	assert.Equal(t, &testOutput{Summary: "Nothing to summarize.", Tags: []string{}}, res.Output)
}

func TestRun_GuardRunsBeforeRequiredFieldCheck(t *testing.T) {
	spy := &spyInvoker{}
	r := createTestRunner(t, spy)

	res, err := Run(context.Background(), r, createTestTask(), "", &testInput{})

	require.NoError(t, err)
	assert.True(t, res.ShortCircuited)
	assert.Equal(t, 0, spy.Calls())
}

func TestRun_NilInputIsInvalid(t *testing.T) {
	spy := &spyInvoker{}
	r := createTestRunner(t, spy)

	res, err := Run(context.Background(), r, createTestTask(), "", nil)

	requireCode(t, err, apperrors.ErrCodeInvalidInput)
	assert.Equal(t, 0, spy.Calls())
	assert.Equal(t, StateFatal, res.State)
	assert.Nil(t, res.Output)
	assert.Equal(t, []State{StateIdle, StateFatal}, res.Transitions)
}

// ==========================
// Render Tests
// ==========================

func TestRun_MissingFieldFailsBeforeInvoker(t *testing.T) {
	spy := &spyInvoker{response: json.RawMessage(`{"summary":"x","count":1,"tags":[]}`)}
	r := createTestRunner(t, spy)

	res, err := Run(context.Background(), r, createTestTask(), "", &testInput{Items: []string{"a"}})

	stdErr := requireCode(t, err, apperrors.ErrCodeMissingField)
	assert.True(t, stdErr.HasField("topic"))
	assert.Equal(t, 0, spy.Calls())
	assert.Equal(t, StateFatal, res.State)
	assert.Nil(t, res.Output)
	assert.Equal(t, []State{StateIdle, StateGuardChecked, StateRendering, StateFatal}, res.Transitions)
}

func TestRun_SendsRenderedPromptSchemaAndModel(t *testing.T) {
	spy := &spyInvoker{response: json.RawMessage(`{"summary":"two items","count":2,"tags":["a"]}`)}
	r := createTestRunner(t, spy)
	task := createTestTask()

	_, err := Run(context.Background(), r, task, "gemini-2.5-pro", &testInput{
		Topic:    "fractions",
		Items:    []string{"halves", "thirds"},
		Previous: "ok",
	})

	require.NoError(t, err)
	require.Len(t, spy.requests, 1)
	req := spy.requests[0]
	assert.Equal(t, "Summarize fractions.\nBefore: ok\n1. halves\n2. thirds\n", req.Prompt)
	assert.Equal(t, "gemini-2.5-pro", req.Model)
	assert.Same(t, task.Output, req.Schema)
	assert.Equal(t, "summarize-items", req.TaskType)
}

func TestRun_DefaultModelUsedWhenNoneGiven(t *testing.T) {
	spy := &spyInvoker{response: json.RawMessage(`{"summary":"s","count":1,"tags":[]}`)}
	r := createTestRunner(t, spy)

	res, err := Run(context.Background(), r, createTestTask(), "", &testInput{Topic: "t", Items: []string{"a"}})

	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", spy.requests[0].Model)
	assert.Equal(t, "gemini-2.0-flash", res.Model)
}

// ==========================
// Invoke Tests
// ==========================

func TestRun_TransportFailurePropagates(t *testing.T) {
	cause := fmt.Errorf("%w: status 503", llm.ErrTransport)
	spy := &spyInvoker{err: cause}
	r := createTestRunner(t, spy)

	res, err := Run(context.Background(), r, createTestTask(), "", &testInput{Topic: "t", Items: []string{"a"}})

	requireCode(t, err, apperrors.ErrCodeTransportFailure)
	assert.ErrorIs(t, err, llm.ErrTransport)
	assert.Equal(t, 1, spy.Calls())
	assert.Equal(t, StateFatal, res.State)
	assert.Equal(t, []State{StateIdle, StateGuardChecked, StateRendering, StateRendered, StateInvoking, StateFatal}, res.Transitions)
}

// ==========================
// Validate Tests
// ==========================

func TestRun_SuccessReturnsValidatedResponse(t *testing.T) {
	raw := json.RawMessage(`{"summary":"three items","count":3,"tags":["x","y"]}`)
	spy := &spyInvoker{response: raw}
	r := createTestRunner(t, spy)

	res, err := Run(context.Background(), r, createTestTask(), "", &testInput{Topic: "t", Items: []string{"a", "b", "c"}})

	require.NoError(t, err)
	assert.Equal(t, StateSuccess, res.State)
	assert.False(t, res.ShortCircuited)
	assert.Equal(t, "three items", res.Output.Summary)
	assert.Equal(t, 3, res.Output.Count)
	assert.Equal(t, []string{"x", "y"}, res.Output.Tags)
	assert.Equal(t, 1.5, res.Output.Derived)
	assert.Equal(t, []State{
		StateIdle, StateGuardChecked, StateRendering, StateRendered,
		StateInvoking, StateInvoked, StateValidating, StateSuccess,
	}, res.Transitions)
}

func TestRun_SchemaViolations(t *testing.T) {
	tests := []struct {
		name     string
		response string
		field    string
		kind     string
	}{
		{name: "missing field", response: `{"count":1,"tags":[]}`, field: "summary", kind: "absent"},
		{name: "wrong type", response: `{"summary":"s","count":"one","tags":[]}`, field: "count", kind: "wrong_type"},
		{name: "range", response: `{"summary":"s","count":-1,"tags":[]}`, field: "count", kind: "constraint"},
		{name: "not json", response: `Sure! Here is the summary`, field: "(root)", kind: "malformed"},
		{name: "shape hook", response: `{"summary":"s","count":9,"tags":[]}`, field: "count", kind: "constraint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spy := &spyInvoker{response: json.RawMessage(tt.response)}
			r := createTestRunner(t, spy)

			res, err := Run(context.Background(), r, createTestTask(), "", &testInput{Topic: "t", Items: []string{"a"}, Limit: 5})

			stdErr := requireCode(t, err, apperrors.ErrCodeSchemaViolation)
			require.NotEmpty(t, stdErr.Fields)
			found := false
			for _, f := range stdErr.Fields {
				if f.Field == tt.field && f.Kind == tt.kind {
					found = true
				}
			}
			assert.True(t, found, "fields: %+v", stdErr.Fields)
			assert.Equal(t, StateFatal, res.State)
			assert.Nil(t, res.Output)
			assert.Equal(t, 1, spy.Calls())
		})
	}
}

func TestRun_IntegralFloatDecodesIntoIntField(t *testing.T) {
	spy := &spyInvoker{response: json.RawMessage(`{"summary":"two","count":2.0,"tags":[]}`)}
	r := createTestRunner(t, spy)

	res, err := Run(context.Background(), r, createTestTask(), "", &testInput{Topic: "t", Items: []string{"a", "b"}, Limit: 5})

	require.NoError(t, err)
	assert.Equal(t, StateSuccess, res.State)
	assert.Equal(t, 2, res.Output.Count)
	assert.Equal(t, 1.0, res.Output.Derived)
}

// ==========================
// Concurrency and Cancellation
// ==========================

func TestRun_ConcurrentCallsAreIndependent(t *testing.T) {
	inv := llm.InvokerFunc(func(ctx context.Context, req *llm.Request) (json.RawMessage, error) {
		return json.Marshal(map[string]interface{}{"summary": req.Prompt, "count": 1, "tags": []string{}})
	})
	r := createTestRunner(t, inv)
	task := createTestTask()

	var wg sync.WaitGroup
	results := make([]*Result[testOutput], 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := Run(context.Background(), r, task, "", &testInput{Topic: fmt.Sprintf("topic-%d", i), Items: []string{"a"}})
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	for i, res := range results {
		require.NotNil(t, res)
		assert.Contains(t, res.Output.Summary, fmt.Sprintf("topic-%d.", i))
	}
}

func TestRun_CancelledContextSurfacesAsTransportFailure(t *testing.T) {
	inv := llm.InvokerFunc(func(ctx context.Context, req *llm.Request) (json.RawMessage, error) {
		<-ctx.Done()
		return nil, fmt.Errorf("%w: %v", llm.ErrTransport, ctx.Err())
	})
	r := createTestRunner(t, inv)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, r, createTestTask(), "", &testInput{Topic: "t", Items: []string{"a"}})

	requireCode(t, err, apperrors.ErrCodeTransportFailure)
}

// ==========================
// Declaration Tests
// ==========================

func TestTask_ValidateAndDescribe(t *testing.T) {
	task := createTestTask()
	require.NoError(t, task.Validate())

	d := task.Describe()
	assert.Equal(t, "summarize-items", d.Name)
	assert.Equal(t, []string{"topic", "items"}, d.RequiredFields)
	assert.True(t, d.HasGuard)

	assert.Error(t, (&Task[testInput, testOutput]{}).Validate())
	assert.Error(t, (&Task[testInput, testOutput]{Name: "x"}).Validate())
	assert.Error(t, (&Task[testInput, testOutput]{Name: "x", Template: task.Template}).Validate())
}
