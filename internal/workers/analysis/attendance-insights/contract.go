package attendanceinsights

import (
	"fmt"

	"edudesk/internal/common/flow"
	"edudesk/internal/common/prompt"
	"edudesk/internal/common/validation"
)

const promptTemplate = `You are a school attendance officer. Review the attendance of class {{className}} for {{period}}.

Records:
{{#each records}}{{date}} {{studentName}}: {{status}}
{{/each}}
Report the overall attendance rate as a percentage of present or late marks, describe any patterns (days of the week, repeated lateness, clusters of absences) and list the students whose attendance puts them at risk with their absence count. Finish with recommendations for the class teacher.`

var outputSchema = validation.MustNewSchema(TaskType, "Attendance insights", validation.Object("Attendance insights",
	validation.Required("attendanceRate", validation.Number("Percentage of records marked present or late.").Range(0, 100)),
	validation.Required("summary", validation.String("Two or three sentences on attendance for the period.")),
	validation.Required("patterns", validation.Array("Observed patterns.", validation.String("Pattern."))),
	validation.Required("atRiskStudents", validation.Array("Students with concerning attendance.", validation.Object("At-risk student",
		validation.Required("studentName", validation.String("Name exactly as it appears in the records.")),
		validation.Required("absences", validation.Integer("Absences in the period.").Min(0)),
		validation.Required("reason", validation.String("Why the student is at risk.")),
	))),
	validation.Required("recommendations", validation.Array("Next steps for the teacher.", validation.String("Recommendation."))),
))

var inputSchema = validation.MustNewSchema(TaskType+"-input", "Attendance records of one class", validation.Object("Attendance records",
	validation.Required("className", validation.String("Class name.")),
	validation.Required("period", validation.String("Period the records cover, e.g. March 2026.")),
	validation.Required("records", validation.Array("Daily attendance marks.", validation.Object("Record",
		validation.Required("studentName", validation.String("Student name.")),
		validation.Required("date", validation.String("Date of the mark.")),
		validation.Required("status", validation.String("Mark.").OneOf("present", "absent", "late", "excused")),
	))),
))

var Task = &flow.Task[Input, Output]{
	Name:        TaskType,
	Description: "Find attendance patterns and at-risk students in one class",
	Category:    "analysis",
	Input:       inputSchema,
	Output:      outputSchema,
	Template:    prompt.MustParse(TaskType, promptTemplate, "className", "period", "records"),
	Guard:       noRecords,
	Shape:       knownStudents,
}

func noRecords(in *Input) (*Output, bool) {
	if len(in.Records) > 0 {
		return nil, false
	}
	return &Output{
		AttendanceRate:  0,
		Summary:         fmt.Sprintf("There are no attendance records for %s in %s to analyze.", in.ClassName, in.Period),
		Patterns:        []string{},
		AtRiskStudents:  []AtRiskStudent{},
		Recommendations: []string{"Please ensure attendance is recorded for this class to enable AI insights."},
	}, true
}

// knownStudents rejects at-risk entries naming students absent from the records.
func knownStudents(in *Input, out *Output) []validation.Violation {
	names := make(map[string]bool, len(in.Records))
	for _, r := range in.Records {
		names[r.StudentName] = true
	}

	var violations []validation.Violation
	for i, s := range out.AtRiskStudents {
		if !names[s.StudentName] {
			violations = append(violations, validation.Violation{
				Field:   fmt.Sprintf("atRiskStudents.%d.studentName", i),
				Kind:    validation.KindConstraint,
				Message: fmt.Sprintf("student %q does not appear in the attendance records", s.StudentName),
			})
		}
	}
	return violations
}
