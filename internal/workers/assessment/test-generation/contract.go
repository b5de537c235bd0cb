package testgeneration

import (
	"fmt"

	"edudesk/internal/common/flow"
	"edudesk/internal/common/prompt"
	"edudesk/internal/common/validation"
)

const promptTemplate = `You are a {{subject}} teacher writing a test for {{gradeLevel}} students on "{{topic}}".

Write exactly {{questionCount}} questions{{#if difficulty}} of {{difficulty}} difficulty{{/if}}.
{{#if questionTypes}}Use only these question types:
{{#each questionTypes}}- {{this}}
{{/each}}{{/if}}
Number the questions from 1. Multiple-choice questions need at least two options and an answer copied exactly from the options. True/false answers are "true" or "false". Give each question a point value and a title for the whole test.`

var outputSchema = validation.MustNewSchema(TaskType, "Generated test", validation.Object("Test",
	validation.Required("title", validation.String("Test title.")),
	validation.Required("questions", validation.Array("Questions in order.", validation.Object("Question",
		validation.Required("number", validation.Integer("Question number starting at 1.").Min(1)),
		validation.Required("type", validation.String("Question type.").OneOf(QuestionMultipleChoice, QuestionTrueFalse, QuestionShortAnswer)),
		validation.Required("text", validation.String("Question text.")),
		validation.Optional("options", validation.Array("Choices for multiple-choice questions.", validation.String("Choice."))),
		validation.Required("answer", validation.String("Expected answer.")),
		validation.Required("points", validation.Number("Points awarded.").Min(0)),
	))),
))

var inputSchema = validation.MustNewSchema(TaskType+"-input", "Test request", validation.Object("Test request",
	validation.Required("subject", validation.String("Subject.")),
	validation.Required("gradeLevel", validation.String("Grade level.")),
	validation.Required("topic", validation.String("Topic covered.")),
	validation.Required("questionCount", validation.Integer("Number of questions to write.")),
	validation.Optional("difficulty", validation.String("Difficulty.").OneOf("easy", "medium", "hard")),
	validation.Optional("questionTypes", validation.Array("Allowed question types.",
		validation.String("Question type.").OneOf(QuestionMultipleChoice, QuestionTrueFalse, QuestionShortAnswer))),
))

var Task = &flow.Task[Input, Output]{
	Name:        TaskType,
	Description: "Write a test with a fixed number of questions on a topic",
	Category:    "assessment",
	Input:       inputSchema,
	Output:      outputSchema,
	Template:    prompt.MustParse(TaskType, promptTemplate, "subject", "gradeLevel", "topic", "questionCount"),
	Guard:       noQuestionsRequested,
	Shape:       matchesRequest,
}

func noQuestionsRequested(in *Input) (*Output, bool) {
	if in.QuestionCount > 0 {
		return nil, false
	}
	return &Output{
		Title:     fmt.Sprintf("%s: %s", in.Subject, in.Topic),
		Questions: []Question{},
	}, true
}

// matchesRequest enforces the requested question count, the requested types
// and well-formed multiple-choice answers.
func matchesRequest(in *Input, out *Output) []validation.Violation {
	var violations []validation.Violation
	if len(out.Questions) != in.QuestionCount {
		violations = append(violations, validation.Violation{
			Field:   "questions",
			Kind:    validation.KindConstraint,
			Message: fmt.Sprintf("expected %d questions, got %d", in.QuestionCount, len(out.Questions)),
		})
	}

	allowed := make(map[string]bool, len(in.QuestionTypes))
	for _, t := range in.QuestionTypes {
		allowed[t] = true
	}

	for i, q := range out.Questions {
		if len(allowed) > 0 && !allowed[q.Type] {
			violations = append(violations, validation.Violation{
				Field:   fmt.Sprintf("questions.%d.type", i),
				Kind:    validation.KindConstraint,
				Message: fmt.Sprintf("question type %q was not requested", q.Type),
			})
		}
		if q.Type != QuestionMultipleChoice {
			continue
		}
		if len(q.Options) < 2 {
			violations = append(violations, validation.Violation{
				Field:   fmt.Sprintf("questions.%d.options", i),
				Kind:    validation.KindConstraint,
				Message: "multiple-choice question needs at least two options",
			})
			continue
		}
		if !contains(q.Options, q.Answer) {
			violations = append(violations, validation.Violation{
				Field:   fmt.Sprintf("questions.%d.answer", i),
				Kind:    validation.KindConstraint,
				Message: fmt.Sprintf("answer %q is not one of the options", q.Answer),
			})
		}
	}
	return violations
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
