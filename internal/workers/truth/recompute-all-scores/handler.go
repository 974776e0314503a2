// internal/workers/truth/recompute-all-scores/handler.go
package recomputeallscores

import (
	"context"
	"sync"
	"time"

	apperrors "staytruth-engine/internal/common/errors"
	"staytruth-engine/internal/common/logger"
	"staytruth-engine/internal/common/metrics"
	computetruthscore "staytruth-engine/internal/workers/truth/compute-truth-score"
)

const (
	TaskType = "recompute-all-scores"
)

// Handler sweeps every property that has at least one verified contribution
// and recomputes its score through a bounded worker pool. A failed property
// is counted and skipped; one bad record never aborts the sweep. The sweep
// is safe to rerun at any time.
type Handler struct {
	config        *Config
	contributions PropertyIDLister
	scorer        Scorer
	logger        logger.Logger
}

func NewHandler(config *Config, contributions PropertyIDLister, scorer Scorer, log logger.Logger) *Handler {
	return &Handler{
		config:        config,
		contributions: contributions,
		scorer:        scorer,
		logger:        log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()

	ids, err := h.contributions.DistinctVerifiedPropertyIDs(ctx)
	if err != nil {
		metrics.EngineJobsFailed.WithLabelValues(TaskType, string(apperrors.ErrCodeQueryExecutionFailed)).Inc()
		return nil, err
	}

	h.logger.Info("recomputing scores", map[string]interface{}{
		"properties": len(ids),
	})

	concurrency := h.config.Concurrency
	if input != nil && input.Concurrency > 0 {
		concurrency = input.Concurrency
	}
	if concurrency < 1 {
		concurrency = 1
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		processed int
		failed    int
	)
	sem := make(chan struct{}, concurrency)

	for _, id := range ids {
		propertyID := id
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			_, err := h.scorer.Execute(ctx, &computetruthscore.Input{PropertyID: propertyID})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				metrics.BatchItemsFailed.WithLabelValues(TaskType).Inc()
				h.logger.Error("score recompute failed, skipping property", map[string]interface{}{
					"propertyId": propertyID,
					"error":      err,
				})
				return
			}
			processed++
			metrics.BatchItemsProcessed.WithLabelValues(TaskType).Inc()
		}()
	}
	wg.Wait()

	metrics.EngineJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.EngineJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())

	h.logger.Info("batch complete", map[string]interface{}{
		"total":     len(ids),
		"processed": processed,
		"failed":    failed,
		"duration":  time.Since(start).String(),
	})

	return &Output{Total: len(ids), Processed: processed, Failed: failed}, nil
}
