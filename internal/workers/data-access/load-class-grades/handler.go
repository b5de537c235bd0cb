package loadclassgrades

import (
	"context"
	"errors"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"edudesk/internal/common/camunda"
	apperrors "edudesk/internal/common/errors"
	"edudesk/internal/common/logger"
	"edudesk/internal/models"
	"edudesk/internal/repository"
	classperformance "edudesk/internal/workers/analysis/class-performance"
)

const (
	TaskType = "load-class-grades"
)

type Handler struct {
	config       *Config
	classes      repository.Repository[models.Class]
	grades       repository.Repository[models.Grade]
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, classes repository.Repository[models.Class], grades repository.Repository[models.Grade], log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		classes:      classes,
		grades:       grades,
		errorHandler: apperrors.NewErrorHandler(scoped),
		logger:       scoped,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Process(client, job, camunda.JobOptions{
		TaskType:     TaskType,
		Timeout:      h.config.Timeout,
		Logger:       h.logger,
		ErrorHandler: h.errorHandler,
	}, h.Execute)
}

// Execute loads a class and its grades for one subject. A class with no
// grades yields an empty list, which the analysis answers without the model.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || strings.TrimSpace(input.ClassID) == "" || strings.TrimSpace(input.Subject) == "" {
		return nil, apperrors.NewInvalidInputError("classId and subject are required")
	}

	class, err := h.classes.Get(ctx, input.ClassID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewRecordNotFoundError(models.EntityClasses.String(), input.ClassID)
		}
		return nil, apperrors.NewQueryExecutionFailedError(models.EntityClasses.String(), err)
	}

	records, err := h.grades.List(ctx, repository.Filter{
		SchoolID: class.SchoolID,
		Fields: map[string]string{
			"classId": input.ClassID,
			"subject": input.Subject,
		},
		Limit: h.config.MaxGrades,
	})
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError(models.EntityGrades.String(), err)
	}

	grades := make([]classperformance.GradeEntry, 0, len(records))
	for _, r := range records {
		grades = append(grades, classperformance.GradeEntry{
			StudentName: r.Data.StudentName,
			Score:       r.Data.Percent(),
			Assessment:  r.Data.Assessment,
		})
	}

	h.logger.Debug("class grades loaded", map[string]interface{}{
		"classId": input.ClassID,
		"subject": input.Subject,
		"count":   len(grades),
	})

	return &Output{
		ClassID:   input.ClassID,
		TeacherID: class.Data.TeacherID,
		ClassName: class.Data.Name,
		Subject:   input.Subject,
		Grades:    grades,
	}, nil
}
