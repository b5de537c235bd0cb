package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Job-level metrics, recorded for every Zeebe job regardless of worker kind.
var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)
)

// Flow-level metrics, recorded by the orchestration runner.
var (
	FlowRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flow_runs_total",
			Help: "Total number of AI flow calls by terminal state",
		},
		[]string{"task_type", "outcome"},
	)

	FlowFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flow_failures_total",
			Help: "Total number of failed AI flow calls by error code",
		},
		[]string{"task_type", "error_code"},
	)

	FlowDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flow_duration_seconds",
			Help:    "Duration of AI flow calls in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"task_type"},
	)

	FlowRunsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "flow_runs_active",
			Help: "Number of AI flow calls in progress",
		},
		[]string{"task_type"},
	)

	FlowModelCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flow_model_calls_total",
			Help: "Total number of hosted model invocations",
		},
		[]string{"task_type", "model"},
	)
)
