package studentperformance

import (
	"fmt"

	"edudesk/internal/common/flow"
	"edudesk/internal/common/prompt"
	"edudesk/internal/common/validation"
)

const promptTemplate = `You are a supportive academic advisor reviewing the record of {{studentName}} from class {{className}}.

Grades (0-100):
{{#each grades}}- {{subject}}: {{score}}{{#if assessment}} on {{assessment}}{{/if}}{{#if date}} ({{date}}){{/if}}
{{/each}}{{#if attendance}}
Attendance this term: {{attendance.present}} days present, {{attendance.absent}} absent, {{attendance.late}} late.
{{/if}}{{#if previousAnalysis}}
Previous review ({{previousAnalysis.date}}): {{previousAnalysis.summary}}
Use it to judge the overall trend.
{{/if}}
Summarize how the student is doing. List their strengths and the areas that need work, and give practical recommendations a parent or teacher can follow. Classify the overall trend and the academic risk level.`

var outputSchema = validation.MustNewSchema(TaskType, "Student performance review", validation.Object("Student performance review",
	validation.Required("summary", validation.String("Two or three sentences on the student's overall performance.")),
	validation.Required("strengths", validation.Array("Subjects or skills where the student does well.", validation.String("Strength."))),
	validation.Required("areasForImprovement", validation.Array("Subjects or skills that need work.", validation.String("Area."))),
	validation.Required("recommendations", validation.Array("Concrete next steps.", validation.String("Recommendation."))),
	validation.Required("overallTrend", validation.String("Direction of performance over time.").
		OneOf(TrendImproving, TrendDeclining, TrendStable, TrendInsufficientData)),
	validation.Required("riskLevel", validation.String("Academic risk.").OneOf(RiskLow, RiskMedium, RiskHigh)),
))

var inputSchema = validation.MustNewSchema(TaskType+"-input", "Grades and attendance of one student", validation.Object("Student record",
	validation.Required("studentName", validation.String("Student name.")),
	validation.Required("className", validation.String("Class the student belongs to.")),
	validation.Required("grades", validation.Array("Grades across subjects.", validation.Object("Grade",
		validation.Required("subject", validation.String("Subject.")),
		validation.Required("score", validation.Number("Score out of 100.").Range(0, 100)),
		validation.Optional("assessment", validation.String("Assessment name.")),
		validation.Optional("date", validation.String("Assessment date.")),
	))),
	validation.Optional("attendance", validation.Object("Attendance counts for the term.",
		validation.Required("present", validation.Integer("Days present.").Min(0)),
		validation.Required("absent", validation.Integer("Days absent.").Min(0)),
		validation.Required("late", validation.Integer("Days late.").Min(0)),
	)),
	validation.Optional("previousAnalysis", validation.Object("Earlier review.",
		validation.Required("date", validation.String("Date of the earlier review.")),
		validation.Required("summary", validation.String("Summary of the earlier review.")),
	)),
))

var Task = &flow.Task[Input, Output]{
	Name:        TaskType,
	Description: "Review one student's grades and attendance and classify trend and risk",
	Category:    "analysis",
	Input:       inputSchema,
	Output:      outputSchema,
	Template:    prompt.MustParse(TaskType, promptTemplate, "studentName", "className", "grades"),
	Guard:       noGrades,
}

func noGrades(in *Input) (*Output, bool) {
	if len(in.Grades) > 0 {
		return nil, false
	}
	return &Output{
		Summary:             fmt.Sprintf("There is not enough grade data for %s to perform an analysis.", in.StudentName),
		Strengths:           []string{},
		AreasForImprovement: []string{},
		Recommendations:     []string{"Record grades for this student to enable AI insights."},
		OverallTrend:        TrendInsufficientData,
		RiskLevel:           RiskLow,
	}, true
}
