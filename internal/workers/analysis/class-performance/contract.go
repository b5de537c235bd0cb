package classperformance

import (
	"fmt"

	"edudesk/internal/common/flow"
	"edudesk/internal/common/prompt"
	"edudesk/internal/common/validation"
)

const promptTemplate = `You are an experienced educational data analyst helping a teacher understand how class {{className}} is doing in {{subject}}.

Grades (0-100):
{{#each grades}}- {{studentName}}: {{score}}{{#if assessment}} ({{assessment}}){{/if}}
{{/each}}{{#if previousAnalysis}}
An analysis from {{previousAnalysis.date}} concluded:
"{{previousAnalysis.analysis}}"
Compare the current grades with that analysis and say whether the class has improved, declined or stayed the same.
{{/if}}
Write a short analysis of overall performance and the spread of scores. Give one concrete recommendation the teacher can act on this week. Set interventionNeeded to true only if a significant share of students is failing or the class average is below 60.`

var outputSchema = validation.MustNewSchema(TaskType, "Class performance analysis", validation.Object("Class performance analysis",
	validation.Required("analysis", validation.String("Two to four sentences on overall performance, score spread and notable outliers.")),
	validation.Required("recommendation", validation.String("One actionable recommendation for the teacher.")),
	validation.Required("interventionNeeded", validation.Boolean("True when the class needs intervention from staff.")),
))

var inputSchema = validation.MustNewSchema(TaskType+"-input", "Grades of one class in one subject", validation.Object("Class grades",
	validation.Required("className", validation.String("Class name, e.g. 10-A.")),
	validation.Required("subject", validation.String("Subject the grades belong to.")),
	validation.Required("grades", validation.Array("Grades recorded for the class.", validation.Object("Grade",
		validation.Required("studentName", validation.String("Student name.")),
		validation.Required("score", validation.Number("Score out of 100.").Range(0, 100)),
		validation.Optional("assessment", validation.String("Assessment the score came from.")),
	))),
	validation.Optional("previousAnalysis", validation.Object("Earlier analysis to compare against.",
		validation.Required("date", validation.String("When the earlier analysis ran.")),
		validation.Required("analysis", validation.String("Earlier analysis text.")),
		validation.Optional("interventionNeeded", validation.Boolean("Earlier intervention flag.")),
	)),
))

// Task analyzes the grades of one class in one subject.
var Task = &flow.Task[Input, Output]{
	Name:        TaskType,
	Description: "Summarize class performance in a subject and flag when intervention is needed",
	Category:    "analysis",
	Input:       inputSchema,
	Output:      outputSchema,
	Template:    prompt.MustParse(TaskType, promptTemplate, "className", "subject", "grades"),
	Guard:       noGrades,
}

func noGrades(in *Input) (*Output, bool) {
	if len(in.Grades) > 0 {
		return nil, false
	}
	return &Output{
		Analysis:           fmt.Sprintf("There is not enough grade data for %s in %s to perform an analysis.", in.Subject, in.ClassName),
		Recommendation:     "Please ensure grades are recorded for this class and subject to enable AI insights.",
		InterventionNeeded: false,
	}, true
}
