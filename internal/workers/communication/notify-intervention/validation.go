package notifyintervention

import (
	apperrors "edudesk/internal/common/errors"
)

func validateInput(input *Input) error {
	if input == nil {
		return apperrors.NewInvalidInputError("input is required")
	}
	if !input.InterventionNeeded {
		return nil
	}
	if input.TeacherID == "" || input.ClassID == "" {
		return apperrors.NewInvalidInputError("classId and teacherId are required when an intervention is needed")
	}
	switch input.Priority {
	case "", PriorityNormal, PriorityHigh:
		return nil
	}
	return apperrors.NewInvalidInputError("priority must be normal or high")
}
