package scheduleconflicts

import (
	"fmt"

	"edudesk/internal/common/flow"
	"edudesk/internal/common/prompt"
	"edudesk/internal/common/validation"
)

const promptTemplate = `You are a timetabling assistant{{#if schoolName}} for {{schoolName}}{{/if}}. Check the weekly course schedule below for conflicts.

{{#each courses}}Course {{@number}}: {{name}} (teacher: {{teacher}})
{{#each schedule}}  - {{day}} {{startTime}}-{{endTime}}{{#if room}} in {{room}}{{/if}}
{{/each}}{{/each}}
A conflict is a teacher booked in two places at once, a room booked by two courses at once, or two sessions of the same course that overlap. Report every conflict with the names of the courses involved exactly as written above, the day and the overlapping time range. If there are none, say so in the summary and return an empty list.`

var outputSchema = validation.MustNewSchema(TaskType, "Schedule conflict report", validation.Object("Schedule conflict report",
	validation.Required("hasConflicts", validation.Boolean("True when at least one conflict was found.")),
	validation.Required("summary", validation.String("One or two sentences describing the result.")),
	validation.Required("conflicts", validation.Array("Every conflict found.", validation.Object("Conflict",
		validation.Required("type", validation.String("Kind of conflict.").OneOf(ConflictTeacher, ConflictRoom, ConflictOverlap)),
		validation.Required("courses", validation.Array("Names of the courses involved.", validation.String("Course name."))),
		validation.Required("day", validation.String("Day of the week.")),
		validation.Required("time", validation.String("Overlapping time range, e.g. 09:00-09:30.")),
		validation.Required("description", validation.String("Short human-readable explanation.")),
	))),
))

var inputSchema = validation.MustNewSchema(TaskType+"-input", "Courses with weekly schedule slots", validation.Object("Course schedule",
	validation.Optional("schoolName", validation.String("School name.")),
	validation.Required("courses", validation.Array("Courses to check.", validation.Object("Course",
		validation.Required("name", validation.String("Course name.")),
		validation.Required("teacher", validation.String("Teacher name.")),
		validation.Required("schedule", validation.Array("Weekly slots.", validation.Object("Slot",
			validation.Required("day", validation.String("Day of the week.")),
			validation.Required("startTime", validation.String("Start time, HH:MM.")),
			validation.Required("endTime", validation.String("End time, HH:MM.")),
			validation.Optional("room", validation.String("Room.")),
		))),
	))),
))

var Task = &flow.Task[Input, Output]{
	Name:        TaskType,
	Description: "Detect teacher, room and overlap conflicts in a weekly course schedule",
	Category:    "planning",
	Input:       inputSchema,
	Output:      outputSchema,
	Template:    prompt.MustParse(TaskType, promptTemplate, "courses"),
	Guard:       tooFewCourses,
	Shape:       consistentConflicts,
}

func tooFewCourses(in *Input) (*Output, bool) {
	if len(in.Courses) >= 2 {
		return nil, false
	}
	return &Output{
		HasConflicts: false,
		Summary:      "Not enough course data to analyze for conflicts.",
		Conflicts:    []Conflict{},
	}, true
}

// consistentConflicts requires hasConflicts to agree with the list and every
// conflict to name only courses from the input.
func consistentConflicts(in *Input, out *Output) []validation.Violation {
	var violations []validation.Violation
	if out.HasConflicts != (len(out.Conflicts) > 0) {
		violations = append(violations, validation.Violation{
			Field:   "hasConflicts",
			Kind:    validation.KindConstraint,
			Message: fmt.Sprintf("hasConflicts is %t but %d conflicts were listed", out.HasConflicts, len(out.Conflicts)),
		})
	}

	known := make(map[string]bool, len(in.Courses))
	for _, c := range in.Courses {
		known[c.Name] = true
	}
	for i, c := range out.Conflicts {
		for j, name := range c.Courses {
			if !known[name] {
				violations = append(violations, validation.Violation{
					Field:   fmt.Sprintf("conflicts.%d.courses.%d", i, j),
					Kind:    validation.KindConstraint,
					Message: fmt.Sprintf("course %q is not in the schedule", name),
				})
			}
		}
	}
	return violations
}
