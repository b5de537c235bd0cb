package notifyintervention

import (
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"edudesk/internal/common/camunda"
	apperrors "edudesk/internal/common/errors"
	"edudesk/internal/common/logger"
)

const (
	TaskType = "notify-intervention"
)

type Handler struct {
	config       *Config
	service      *Service
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, deps ServiceDependencies) *Handler {
	scoped := deps.Logger.WithFields(map[string]interface{}{"taskType": TaskType})
	deps.Logger = scoped
	return &Handler{
		config:       config,
		service:      NewService(deps, config),
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
	}, h.service.Execute)
}
