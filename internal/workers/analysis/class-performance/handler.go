package classperformance

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"edudesk/internal/common/camunda"
	apperrors "edudesk/internal/common/errors"
	"edudesk/internal/common/flow"
	"edudesk/internal/common/logger"
)

const (
	TaskType = "analyze-class-performance"
)

type Handler struct {
	config       *Config
	runner       *flow.Runner
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, runner *flow.Runner, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		runner:       runner,
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

// Execute analyzes one class. An empty grade list returns the fixed
// not-enough-data answer without calling the model.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	result, err := flow.Run(ctx, h.runner, Task, h.config.Model, input)
	if err != nil {
		return nil, err
	}
	return result.Output, nil
}
