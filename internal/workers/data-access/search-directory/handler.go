package searchdirectory

import (
	"context"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"edudesk/internal/common/camunda"
	apperrors "edudesk/internal/common/errors"
	"edudesk/internal/common/logger"
	"edudesk/internal/models"
	"edudesk/internal/repository"
)

const (
	TaskType = "search-directory"

	defaultPageSize = 20
)

// Searcher is the part of repository.DirectoryIndex the worker needs.
type Searcher interface {
	Search(ctx context.Context, q repository.DirectoryQuery) (*repository.DirectoryResult, error)
}

type Handler struct {
	config       *Config
	directory    Searcher
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, directory Searcher, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		directory:    directory,
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.SchoolID == "" {
		return nil, apperrors.NewInvalidInputError("schoolId is required")
	}
	role := models.Role(input.Role)
	if input.Role != "" && !role.Valid() {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("unknown role %q", input.Role))
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	size := input.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	if size > h.config.MaxPageSize {
		size = h.config.MaxPageSize
	}

	result, err := h.directory.Search(ctx, repository.DirectoryQuery{
		SchoolID: input.SchoolID,
		Name:     input.Name,
		Role:     role,
		From:     (page - 1) * size,
		Size:     size,
	})
	if err != nil {
		return nil, err
	}

	return &Output{
		Total:    result.Total,
		Page:     page,
		PageSize: size,
		Results:  result.Hits,
	}, nil
}
