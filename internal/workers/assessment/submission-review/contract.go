package submissionreview

import (
	"fmt"

	"edudesk/internal/common/flow"
	"edudesk/internal/common/prompt"
	"edudesk/internal/common/validation"
)

const promptTemplate = `You are a {{subject}} teacher reviewing submissions for the assignment "{{assignmentTitle}}".
{{#if instructions}}
The assignment asked students to: {{instructions}}
{{/if}}
{{#each submissions}}Submission {{@number}} by {{studentName}}:
"""
{{content}}
"""

{{/each}}Rate each submission's quality from 0 to 10 and give the student short, specific feedback. Then summarize the batch, give the average quality and list the strengths and issues that several students share. Use the student names exactly as written.`

var outputSchema = validation.MustNewSchema(TaskType, "Submission review", validation.Object("Submission review",
	validation.Required("summary", validation.String("Two or three sentences on the batch.")),
	validation.Required("averageQuality", validation.Number("Mean quality rating.").Range(0, 10)),
	validation.Required("commonStrengths", validation.Array("Strengths shared by several students.", validation.String("Strength."))),
	validation.Required("commonIssues", validation.Array("Issues shared by several students.", validation.String("Issue."))),
	validation.Required("reviews", validation.Array("One review per submission, in order.", validation.Object("Review",
		validation.Required("studentName", validation.String("Student name exactly as given.")),
		validation.Required("quality", validation.Number("Quality rating.").Range(0, 10)),
		validation.Required("feedback", validation.String("Feedback for the student.")),
	))),
))

var inputSchema = validation.MustNewSchema(TaskType+"-input", "Assignment submissions", validation.Object("Assignment submissions",
	validation.Required("assignmentTitle", validation.String("Assignment title.")),
	validation.Required("subject", validation.String("Subject.")),
	validation.Optional("instructions", validation.String("What the assignment asked for.")),
	validation.Required("submissions", validation.Array("Student work.", validation.Object("Submission",
		validation.Required("studentName", validation.String("Student name.")),
		validation.Required("content", validation.String("Submitted text.")),
	))),
))

var Task = &flow.Task[Input, Output]{
	Name:        TaskType,
	Description: "Rate and give feedback on a batch of assignment submissions",
	Category:    "assessment",
	Input:       inputSchema,
	Output:      outputSchema,
	Template:    prompt.MustParse(TaskType, promptTemplate, "assignmentTitle", "subject", "submissions"),
	Guard:       noSubmissions,
	Shape:       oneReviewPerSubmission,
}

func noSubmissions(in *Input) (*Output, bool) {
	if len(in.Submissions) > 0 {
		return nil, false
	}
	return &Output{
		Summary:         fmt.Sprintf("There are no submissions for %s to review.", in.AssignmentTitle),
		AverageQuality:  0,
		CommonStrengths: []string{},
		CommonIssues:    []string{},
		Reviews:         []Review{},
	}, true
}

func oneReviewPerSubmission(in *Input, out *Output) []validation.Violation {
	if len(out.Reviews) != len(in.Submissions) {
		return []validation.Violation{{
			Field:   "reviews",
			Kind:    validation.KindConstraint,
			Message: fmt.Sprintf("expected %d reviews, got %d", len(in.Submissions), len(out.Reviews)),
		}}
	}

	var violations []validation.Violation
	for i, r := range out.Reviews {
		if r.StudentName != in.Submissions[i].StudentName {
			violations = append(violations, validation.Violation{
				Field:   fmt.Sprintf("reviews.%d.studentName", i),
				Kind:    validation.KindConstraint,
				Message: fmt.Sprintf("expected %q, got %q", in.Submissions[i].StudentName, r.StudentName),
			})
		}
	}
	return violations
}
