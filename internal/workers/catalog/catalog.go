// Package catalog lists every analytical flow compiled into the service.
package catalog

import (
	"edudesk/internal/common/flow"
	attendanceinsights "edudesk/internal/workers/analysis/attendance-insights"
	classperformance "edudesk/internal/workers/analysis/class-performance"
	studentperformance "edudesk/internal/workers/analysis/student-performance"
	submissionreview "edudesk/internal/workers/assessment/submission-review"
	testgeneration "edudesk/internal/workers/assessment/test-generation"
	testgrading "edudesk/internal/workers/assessment/test-grading"
	lessonplan "edudesk/internal/workers/planning/lesson-plan"
	scheduleconflicts "edudesk/internal/workers/planning/schedule-conflicts"
)

// Flows returns the descriptors of all flow tasks in registration order.
func Flows() []flow.Descriptor {
	return []flow.Descriptor{
		classperformance.Task.Describe(),
		studentperformance.Task.Describe(),
		attendanceinsights.Task.Describe(),
		scheduleconflicts.Task.Describe(),
		lessonplan.Task.Describe(),
		testgeneration.Task.Describe(),
		testgrading.Task.Describe(),
		submissionreview.Task.Describe(),
	}
}

// Validate reports the first flow declaration that cannot run.
func Validate() error {
	tasks := []interface{ Validate() error }{
		classperformance.Task,
		studentperformance.Task,
		attendanceinsights.Task,
		scheduleconflicts.Task,
		lessonplan.Task,
		testgeneration.Task,
		testgrading.Task,
		submissionreview.Task,
	}
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}
