package testgrading

import (
	"fmt"

	"edudesk/internal/common/flow"
	"edudesk/internal/common/prompt"
	"edudesk/internal/common/validation"
)

const promptTemplate = `You are grading the test "{{testTitle}}" taken by {{studentName}}.

{{#each questions}}Question {{@number}}: {{text}}
Correct answer: {{correctAnswer}}
Student answer: {{studentAnswer}}

{{/each}}Decide for each question whether the student's answer is correct, accepting answers that mean the same as the correct answer even when worded differently. Return one result per question in order with a short comment, the number of correct answers and brief overall feedback for the student. Do not compute a score.`

// The score is derived locally from correctCount, so the model is not asked for it.
var outputSchema = validation.MustNewSchema(TaskType, "Graded test", validation.Object("Graded test",
	validation.Required("correctCount", validation.Integer("Number of questions answered correctly.").Min(0)),
	validation.Required("feedback", validation.String("Overall feedback for the student.")),
	validation.Required("questionResults", validation.Array("One result per question, in order.", validation.Object("Question result",
		validation.Required("number", validation.Integer("Question number starting at 1.").Min(1)),
		validation.Required("correct", validation.Boolean("Whether the answer is correct.")),
		validation.Required("comment", validation.String("Short comment on the answer.")),
	))),
))

var inputSchema = validation.MustNewSchema(TaskType+"-input", "Answered test", validation.Object("Answered test",
	validation.Required("studentName", validation.String("Student name.")),
	validation.Required("testTitle", validation.String("Test title.")),
	validation.Required("questions", validation.Array("Questions with expected and given answers.", validation.Object("Answered question",
		validation.Required("text", validation.String("Question text.")),
		validation.Required("correctAnswer", validation.String("Expected answer.")),
		validation.Required("studentAnswer", validation.String("Answer given.")),
	))),
))

var Task = &flow.Task[Input, Output]{
	Name:        TaskType,
	Description: "Grade a student's answers and score the test out of 20",
	Category:    "assessment",
	Input:       inputSchema,
	Output:      outputSchema,
	Template:    prompt.MustParse(TaskType, promptTemplate, "studentName", "testTitle", "questions"),
	Guard:       noQuestions,
	Shape:       scoreAnswers,
}

func noQuestions(in *Input) (*Output, bool) {
	if len(in.Questions) > 0 {
		return nil, false
	}
	return &Output{
		CorrectCount:    0,
		Score:           0,
		Feedback:        "There are no questions to grade.",
		QuestionResults: []QuestionResult{},
	}, true
}

// Score scales a correct count onto MaxScore.
func Score(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) * (MaxScore / float64(total))
}

// scoreAnswers checks the model's tally against the question list and fills
// in the score.
func scoreAnswers(in *Input, out *Output) []validation.Violation {
	total := len(in.Questions)
	var violations []validation.Violation

	if out.CorrectCount < 0 || out.CorrectCount > total {
		violations = append(violations, validation.Violation{
			Field:   "correctCount",
			Kind:    validation.KindConstraint,
			Message: fmt.Sprintf("correctCount %d is outside [0, %d]", out.CorrectCount, total),
		})
	}
	if len(out.QuestionResults) != total {
		violations = append(violations, validation.Violation{
			Field:   "questionResults",
			Kind:    validation.KindConstraint,
			Message: fmt.Sprintf("expected %d results, got %d", total, len(out.QuestionResults)),
		})
	} else {
		marked := 0
		for _, r := range out.QuestionResults {
			if r.Correct {
				marked++
			}
		}
		if marked != out.CorrectCount {
			violations = append(violations, validation.Violation{
				Field:   "correctCount",
				Kind:    validation.KindConstraint,
				Message: fmt.Sprintf("correctCount is %d but %d results are marked correct", out.CorrectCount, marked),
			})
		}
	}
	if len(violations) > 0 {
		return violations
	}

	out.Score = Score(out.CorrectCount, total)
	return nil
}
