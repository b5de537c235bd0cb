package camunda

import (
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"edudesk/internal/common/config"
	"edudesk/internal/common/logger"
)

// StartWorker opens a job worker for taskType. It returns nil when the flow
// is disabled in config.
func StartWorker(client zbc.Client, taskType string, fcfg config.FlowConfig, handler worker.JobHandler, log logger.Logger) worker.JobWorker {
	if !fcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(fcfg.MaxJobsActive).
		Timeout(config.GetDuration(fcfg.Timeout)).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": fcfg.MaxJobsActive,
		"timeout_ms":    fcfg.Timeout,
	})
	return jobWorker
}
