package notifyintervention

import (
	"context"

	"edudesk/internal/common/logger"
	"edudesk/internal/models"
	"edudesk/internal/repository"
)

const (
	PriorityHigh   = "high"
	PriorityNormal = "normal"

	StatusSent     = "sent"
	StatusSkipped  = "skipped"
	StatusDisabled = "disabled"
	StatusFailed   = "failed"

	notificationType = "intervention_needed"
)

// Input is the class-performance analysis plus the identifiers loaded
// before it.
type Input struct {
	ClassID            string `json:"classId"`
	TeacherID          string `json:"teacherId"`
	ClassName          string `json:"className"`
	Subject            string `json:"subject"`
	Analysis           string `json:"analysis"`
	Recommendation     string `json:"recommendation"`
	InterventionNeeded bool   `json:"interventionNeeded"`
	Priority           string `json:"priority,omitempty"`
}

type Output struct {
	Status        string                `json:"status"`
	Notifications []models.Notification `json:"notifications"`
}

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, text, html string) (string, error)
}

type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type ServiceDependencies struct {
	Email     EmailSender
	SMS       SMSSender
	Teachers  repository.Repository[models.Teacher]
	Students  repository.Repository[models.Student]
	Guardians repository.Repository[models.Guardian]
	Logger    logger.Logger
}
