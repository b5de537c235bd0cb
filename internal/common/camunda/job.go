package camunda

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "edudesk/internal/common/errors"
	"edudesk/internal/common/logger"
	"edudesk/internal/common/metrics"
)

// JobOptions describes how one Zeebe job is run.
type JobOptions struct {
	TaskType     string
	Timeout      time.Duration
	Logger       logger.Logger
	ErrorHandler *apperrors.ErrorHandler
}

// Process decodes the job variables into In, runs exec under the configured
// timeout and either completes the job with Out or hands the error to the
// BPMN error handler.
func Process[In any, Out any](client worker.JobClient, job entities.Job, opts JobOptions, exec func(ctx context.Context, input *In) (*Out, error)) {
	start := time.Now()
	log := opts.Logger.WithFields(map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})
	log.Info("processing job", nil)

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	defer func() {
		metrics.WorkerJobDuration.WithLabelValues(opts.TaskType).Observe(time.Since(start).Seconds())
	}()

	input, err := DecodeVariables[In](job)
	if err != nil {
		fail(ctx, client, job, opts, err)
		return
	}

	output, err := exec(ctx, input)
	if err != nil {
		fail(ctx, client, job, opts, err)
		return
	}

	if err := CompleteJob(ctx, client, job, output); err != nil {
		log.Error("failed to complete job", map[string]interface{}{"error": err.Error()})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(opts.TaskType).Inc()
	log.Info("job completed", map[string]interface{}{"duration_ms": time.Since(start).Milliseconds()})
}

// DecodeVariables parses the job's variable document into a new In.
func DecodeVariables[In any](job entities.Job) (*In, error) {
	var input In
	raw := job.GetVariables()
	if raw == "" {
		raw = "{}"
	}
	if err := json.Unmarshal([]byte(raw), &input); err != nil {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("parse job variables: %v", err))
	}
	return &input, nil
}

// CompleteJob sends output as the job's result variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("create complete job command: %w", err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		return fmt.Errorf("send complete job command: %w", err)
	}
	return nil
}

func fail(ctx context.Context, client worker.JobClient, job entities.Job, opts JobOptions, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(opts.TaskType, string(apperrors.CodeOf(err))).Inc()
	// the job deadline may already have passed; the failure report must still go out
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}
	opts.ErrorHandler.HandleJobError(ctx, client, job, err)
}
