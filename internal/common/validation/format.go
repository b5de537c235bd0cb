package validation

import (
	"fmt"
	"regexp"
)

var (
	taskTypePattern = regexp.MustCompile(`^[a-z]+(-[a-z]+)+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern    = regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,}$`)
)

// ValidateTaskType checks a Zeebe job type follows the verb-noun naming used by every worker.
func ValidateTaskType(taskType string) error {
	if !taskTypePattern.MatchString(taskType) {
		return fmt.Errorf("task type %q must be lowercase words joined by hyphens (e.g. analyze-class-performance)", taskType)
	}
	return nil
}

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePhone validates basic phone number format
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
