package notifyintervention

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/google/uuid"

	apperrors "edudesk/internal/common/errors"
	"edudesk/internal/common/logger"
	"edudesk/internal/common/validation"
	"edudesk/internal/models"
	"edudesk/internal/repository"
)

type Service struct {
	config    *Config
	email     EmailSender
	sms       SMSSender
	teachers  repository.Repository[models.Teacher]
	students  repository.Repository[models.Student]
	guardians repository.Repository[models.Guardian]
	logger    logger.Logger
	now       func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:    config,
		email:     deps.Email,
		sms:       deps.SMS,
		teachers:  deps.Teachers,
		students:  deps.Students,
		guardians: deps.Guardians,
		logger:    deps.Logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Execute emails the class teacher when the analysis asks for an
// intervention and, for high priority, texts every guardian of the class.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if !input.InterventionNeeded {
		s.logger.Info("no intervention needed", map[string]interface{}{"classId": input.ClassID})
		return &Output{Status: StatusSkipped, Notifications: []models.Notification{}}, nil
	}

	var sent []models.Notification

	teacher, err := s.teachers.Get(ctx, input.TeacherID)
	if err != nil {
		return nil, lookupError(models.EntityTeachers, input.TeacherID, err)
	}
	var contacts []guardianContact
	if input.Priority == PriorityHigh {
		if contacts, err = s.resolveGuardians(ctx, input, teacher.SchoolID); err != nil {
			return nil, err
		}
	}

	n, err := s.notifyTeacher(ctx, input, teacher)
	if err != nil {
		return nil, err
	}
	sent = append(sent, n)
	sent = append(sent, s.textGuardians(ctx, input, contacts)...)

	s.logger.Info("intervention notifications sent", map[string]interface{}{
		"classId":       input.ClassID,
		"priority":      input.Priority,
		"notifications": len(sent),
	})
	return &Output{Status: StatusSent, Notifications: sent}, nil
}

func (s *Service) notifyTeacher(ctx context.Context, input *Input, teacher *repository.Record[models.Teacher]) (models.Notification, error) {
	n := s.newNotification(teacher.ID, "teacher", "email", input)
	if !s.config.EmailEnabled {
		n.Status = StatusDisabled
		return n, nil
	}
	if !validation.ValidateEmail(teacher.Data.Email) {
		return n, apperrors.NewInvalidInputError(fmt.Sprintf("teacher %s has no valid email address", teacher.ID))
	}

	subject := fmt.Sprintf("Intervention needed: %s %s", input.ClassName, input.Subject)
	text := fmt.Sprintf("Hello %s,\n\nThe latest %s analysis for class %s suggests an intervention.\n\n%s\n\nRecommendation: %s\n",
		teacher.Data.Name, input.Subject, input.ClassName, input.Analysis, input.Recommendation)
	body := fmt.Sprintf("<p>Hello %s,</p><p>The latest %s analysis for class %s suggests an intervention.</p><p>%s</p><p><strong>Recommendation:</strong> %s</p>",
		html.EscapeString(teacher.Data.Name), html.EscapeString(input.Subject), html.EscapeString(input.ClassName),
		html.EscapeString(input.Analysis), html.EscapeString(input.Recommendation))

	messageID, err := s.email.SendEmail(ctx, teacher.Data.Email, subject, text, body)
	if err != nil {
		return n, apperrors.NewNotificationSendFailedError("email", err)
	}
	n.Status = StatusSent
	n.Payload["messageId"] = messageID
	return n, nil
}

// guardianContact is one guardian to text, with the student it is texted about.
type guardianContact struct {
	id          string
	guardian    models.Guardian
	studentName string
}

// resolveGuardians loads every distinct guardian of the class. It runs before
// any message is sent.
func (s *Service) resolveGuardians(ctx context.Context, input *Input, schoolID string) ([]guardianContact, error) {
	students, err := s.students.List(ctx, repository.Filter{
		SchoolID: schoolID,
		Fields:   map[string]string{"classId": input.ClassID},
	})
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError(models.EntityStudents.String(), err)
	}

	seen := map[string]bool{}
	var contacts []guardianContact
	for _, st := range students {
		for _, gid := range st.Data.GuardianIDs {
			if seen[gid] {
				continue
			}
			seen[gid] = true

			guardian, err := s.guardians.Get(ctx, gid)
			if err != nil {
				return nil, lookupError(models.EntityGuardians, gid, err)
			}
			contacts = append(contacts, guardianContact{id: gid, guardian: guardian.Data, studentName: st.Data.Name})
		}
	}
	return contacts, nil
}

// textGuardians never fails. A rejected SMS is recorded on its notification
// so the job completes once the teacher email is out.
func (s *Service) textGuardians(ctx context.Context, input *Input, contacts []guardianContact) []models.Notification {
	notes := make([]models.Notification, 0, len(contacts))
	for _, c := range contacts {
		n := s.newNotification(c.id, "guardian", "sms", input)
		switch {
		case !s.config.SMSEnabled:
			n.Status = StatusDisabled
		case !validation.ValidatePhone(c.guardian.Phone):
			s.logger.Warn("guardian has no usable phone number", map[string]interface{}{"guardianId": c.id})
			n.Status = StatusFailed
		default:
			msg := fmt.Sprintf("EduDesk: %s's teacher has flagged %s in class %s for extra support. Please contact the school.",
				c.studentName, input.Subject, input.ClassName)
			messageID, err := s.sms.SendSMS(ctx, c.guardian.Phone, msg)
			if err != nil {
				s.logger.Warn("guardian sms failed", map[string]interface{}{"guardianId": c.id, "error": err.Error()})
				n.Status = StatusFailed
				n.Payload["error"] = err.Error()
				break
			}
			n.Status = StatusSent
			n.Payload["messageId"] = messageID
		}
		notes = append(notes, n)
	}
	return notes
}

func (s *Service) newNotification(recipientID, recipientType, channel string, input *Input) models.Notification {
	return models.Notification{
		ID:            uuid.New().String(),
		RecipientID:   recipientID,
		RecipientType: recipientType,
		Type:          notificationType,
		Channel:       channel,
		Payload: map[string]interface{}{
			"classId": input.ClassID,
			"subject": input.Subject,
		},
		SentAt: s.now().Format(time.RFC3339),
	}
}

func lookupError(entity models.EntityType, id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewRecordNotFoundError(entity.String(), id)
	}
	return apperrors.NewQueryExecutionFailedError(entity.String(), err)
}
