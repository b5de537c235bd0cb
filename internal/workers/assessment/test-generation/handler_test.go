package testgeneration

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "edudesk/internal/common/errors"
	"edudesk/internal/common/flow"
	"edudesk/internal/common/llm/llmtest"
	"edudesk/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
		Model:   "gemini-2.0-flash",
	}
}

func createTestHandler(t *testing.T, spy *llmtest.Spy) *Handler {
	log := logger.NewTestLogger(t)
	return NewHandler(createTestConfig(), flow.NewRunner(spy, "gemini-2.0-flash", log, nil), log)
}

func createTestInput() *Input {
	return &Input{
		Subject:       "Biology",
		GradeLevel:    "Grade 9",
		Topic:         "Cell structure",
		QuestionCount: 3,
	}
}

func mcq(n int, answer string, options ...string) Question {
	return Question{Number: n, Type: QuestionMultipleChoice, Text: "Which organelle?", Options: options, Answer: answer, Points: 2}
}

func testResponse(t *testing.T, questions ...Question) string {
	t.Helper()
	raw, err := json.Marshal(Output{Title: "Cells Quiz", Questions: questions})
	require.NoError(t, err)
	return string(raw)
}

// ==========================
// Degenerate Input Tests
// ==========================

func TestHandler_Execute_NonPositiveCountReturnsEmptyTest(t *testing.T) {
	for _, count := range []int{0, -2} {
		spy := llmtest.Respond(`{}`)
		h := createTestHandler(t, spy)
		input := createTestInput()
		input.QuestionCount = count

		output, err := h.Execute(context.Background(), input)

		require.NoError(t, err)
		assert.Equal(t, &Output{Title: "Biology: Cell structure", Questions: []Question{}}, output)
		assert.Equal(t, 0, spy.Calls())
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	spy := llmtest.Respond(testResponse(t,
		mcq(1, "Nucleus", "Nucleus", "Ribosome"),
		Question{Number: 2, Type: QuestionTrueFalse, Text: "Plant cells have walls.", Answer: "true", Points: 1},
		Question{Number: 3, Type: QuestionShortAnswer, Text: "Name the powerhouse of the cell.", Answer: "Mitochondria", Points: 3},
	))
	h := createTestHandler(t, spy)
	input := createTestInput()
	input.Difficulty = "medium"

	output, err := h.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "Cells Quiz", output.Title)
	require.Len(t, output.Questions, 3)
	assert.Equal(t, "Mitochondria", output.Questions[2].Answer)

	req := spy.Last()
	assert.Contains(t, req.Prompt, "Write exactly 3 questions of medium difficulty.")
	assert.NotContains(t, req.Prompt, "Use only these question types")
}

func TestHandler_Execute_RendersQuestionTypes(t *testing.T) {
	spy := llmtest.Respond(testResponse(t, mcq(1, "A", "A", "B")))
	h := createTestHandler(t, spy)
	input := createTestInput()
	input.QuestionCount = 1
	input.QuestionTypes = []string{QuestionMultipleChoice, QuestionTrueFalse}

	_, err := h.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Contains(t, spy.Last().Prompt, "Use only these question types:\n- multiple_choice\n- true_false\n")
}

// ==========================
// Failure Tests
// ==========================

func TestHandler_Execute_Violations(t *testing.T) {
	tests := []struct {
		name      string
		types     []string
		questions []Question
		field     string
	}{
		{
			name:      "too few questions",
			questions: []Question{mcq(1, "A", "A", "B"), mcq(2, "A", "A", "B")},
			field:     "questions",
		},
		{
			name:      "too many questions",
			questions: []Question{mcq(1, "A", "A", "B"), mcq(2, "A", "A", "B"), mcq(3, "A", "A", "B"), mcq(4, "A", "A", "B")},
			field:     "questions",
		},
		{
			name:      "single option",
			questions: []Question{mcq(1, "A", "A", "B"), mcq(2, "A", "A"), mcq(3, "A", "A", "B")},
			field:     "questions.1.options",
		},
		{
			name:      "answer outside options",
			questions: []Question{mcq(1, "A", "A", "B"), mcq(2, "A", "A", "B"), mcq(3, "C", "A", "B")},
			field:     "questions.2.answer",
		},
		{
			name:  "type not requested",
			types: []string{QuestionMultipleChoice},
			questions: []Question{
				mcq(1, "A", "A", "B"),
				{Number: 2, Type: QuestionShortAnswer, Text: "t", Answer: "a", Points: 1},
				mcq(3, "A", "A", "B"),
			},
			field: "questions.1.type",
		},
		{
			name: "unknown type",
			questions: []Question{
				mcq(1, "A", "A", "B"),
				{Number: 2, Type: "essay", Text: "t", Answer: "a", Points: 1},
				mcq(3, "A", "A", "B"),
			},
			field: "questions.1.type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spy := llmtest.Respond(testResponse(t, tt.questions...))
			h := createTestHandler(t, spy)
			input := createTestInput()
			input.QuestionTypes = tt.types

			output, err := h.Execute(context.Background(), input)

			assert.Nil(t, output)
			var stdErr *apperrors.StandardError
			require.True(t, errors.As(err, &stdErr))
			assert.Equal(t, apperrors.ErrCodeSchemaViolation, stdErr.Code)
			assert.True(t, stdErr.HasField(tt.field), "fields: %+v", stdErr.Fields)
			assert.Equal(t, 1, spy.Calls())
		})
	}
}

func TestHandler_Execute_MissingTopic(t *testing.T) {
	spy := llmtest.Respond(`{}`)
	h := createTestHandler(t, spy)

	_, err := h.Execute(context.Background(), &Input{Subject: "Biology", GradeLevel: "Grade 9", QuestionCount: 5})

	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeMissingField))
	assert.Equal(t, 0, spy.Calls())
}

func TestTask_Declaration(t *testing.T) {
	require.NoError(t, Task.Validate())
	assert.Equal(t, []string{"subject", "gradeLevel", "topic", "questionCount"}, Task.Describe().RequiredFields)
}
