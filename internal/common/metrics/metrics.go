// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EngineJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_jobs_completed_total",
			Help: "Total number of jobs completed by the truth engine",
		},
		[]string{"task_type"},
	)

	EngineJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_jobs_failed_total",
			Help: "Total number of jobs failed by the truth engine",
		},
		[]string{"task_type", "error_code"},
	)

	EngineJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "engine_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	TruthScoresRecomputed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_truth_scores_recomputed_total",
			Help: "Total number of property truth scores recomputed",
		},
	)

	BatchItemsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_batch_items_processed_total",
			Help: "Items processed per batch job",
		},
		[]string{"task_type"},
	)

	BatchItemsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_batch_items_failed_total",
			Help: "Items skipped after failure per batch job",
		},
		[]string{"task_type"},
	)
)
