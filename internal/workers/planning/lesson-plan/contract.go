package lessonplan

import (
	"fmt"

	"edudesk/internal/common/flow"
	"edudesk/internal/common/prompt"
	"edudesk/internal/common/validation"
)

// DaysPerWeek is the fixed length of every generated plan.
const DaysPerWeek = 5

const promptTemplate = `You are an experienced {{subject}} teacher. Write a five-day lesson plan on "{{topic}}" for {{gradeLevel}} students.
{{#if learningObjectives}}
By the end of the week students should be able to:
{{#each learningObjectives}}- {{this}}
{{/each}}{{/if}}{{#if notes}}
Notes from the teacher: {{notes}}
{{/if}}
Give the plan a title and a short overview. For each day, numbered 1 to 5, give the day's topic, its objectives, the classroom activities, the materials needed and how learning will be checked.`

var outputSchema = validation.MustNewSchema(TaskType, "Five-day lesson plan", validation.Object("Lesson plan",
	validation.Required("title", validation.String("Title of the unit.")),
	validation.Required("overview", validation.String("Short description of the week.")),
	validation.Required("days", validation.Array("One entry per teaching day.", validation.Object("Day",
		validation.Required("day", validation.Integer("Day number, 1 to 5.").Range(1, DaysPerWeek)),
		validation.Required("topic", validation.String("Topic of the day.")),
		validation.Required("objectives", validation.Array("Objectives for the day.", validation.String("Objective."))),
		validation.Required("activities", validation.Array("Classroom activities.", validation.String("Activity."))),
		validation.Required("materials", validation.Array("Materials needed.", validation.String("Material."))),
		validation.Required("assessment", validation.String("How learning is checked.")),
	)).Len(DaysPerWeek)),
))

var inputSchema = validation.MustNewSchema(TaskType+"-input", "Lesson plan request", validation.Object("Lesson plan request",
	validation.Required("subject", validation.String("Subject taught.")),
	validation.Required("gradeLevel", validation.String("Grade level, e.g. Grade 7.")),
	validation.Required("topic", validation.String("Unit topic.")),
	validation.Optional("learningObjectives", validation.Array("Objectives for the week.", validation.String("Objective."))),
	validation.Optional("notes", validation.String("Free-form notes from the teacher.")),
))

var Task = &flow.Task[Input, Output]{
	Name:        TaskType,
	Description: "Draft a five-day lesson plan for a topic",
	Category:    "planning",
	Input:       inputSchema,
	Output:      outputSchema,
	Template:    prompt.MustParse(TaskType, promptTemplate, "subject", "gradeLevel", "topic"),
	Shape:       daysInOrder,
}

func daysInOrder(_ *Input, out *Output) []validation.Violation {
	var violations []validation.Violation
	for i, d := range out.Days {
		if d.Day != i+1 {
			violations = append(violations, validation.Violation{
				Field:   fmt.Sprintf("days.%d.day", i),
				Kind:    validation.KindConstraint,
				Message: fmt.Sprintf("expected day %d, got %d", i+1, d.Day),
			})
		}
	}
	return violations
}
