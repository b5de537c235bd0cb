package loadclassgrades

import (
	classperformance "edudesk/internal/workers/analysis/class-performance"
)

type Input struct {
	ClassID string `json:"classId"`
	Subject string `json:"subject"`
}

// Output merges into the process as the input of analyze-class-performance.
// TeacherID is carried for the notification step that follows the analysis.
type Output struct {
	ClassID   string                        `json:"classId"`
	TeacherID string                        `json:"teacherId"`
	ClassName string                        `json:"className"`
	Subject   string                        `json:"subject"`
	Grades    []classperformance.GradeEntry `json:"grades"`
}
