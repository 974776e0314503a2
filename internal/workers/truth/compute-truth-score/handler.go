// internal/workers/truth/compute-truth-score/handler.go
package computetruthscore

import (
	"context"
	"fmt"
	"time"

	apperrors "staytruth-engine/internal/common/errors"
	"staytruth-engine/internal/common/logger"
	"staytruth-engine/internal/common/metrics"
)

const (
	TaskType = "compute-truth-score"
)

// Handler recomputes one property's Truth Score from scratch. Every run
// re-derives the full aggregate from all verified contributions, so reruns
// are idempotent and ordering between concurrent triggers does not matter
// beyond last-write-wins on the single-statement update.
type Handler struct {
	config        *Config
	contributions ContributionLister
	properties    AggregateWriter
	cache         CacheInvalidator
	indexer       AggregateIndexer
	logger        logger.Logger
}

func NewHandler(config *Config, contributions ContributionLister, properties AggregateWriter, cache CacheInvalidator, indexer AggregateIndexer, log logger.Logger) *Handler {
	return &Handler{
		config:        config,
		contributions: contributions,
		properties:    properties,
		cache:         cache,
		indexer:       indexer,
		logger:        log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()
	if input.PropertyID == "" {
		return nil, fmt.Errorf("propertyId is required")
	}

	h.logger.Info("computing truth score", map[string]interface{}{
		"propertyId": input.PropertyID,
	})

	contributions, err := h.contributions.ListVerifiedByProperty(ctx, input.PropertyID)
	if err != nil {
		metrics.EngineJobsFailed.WithLabelValues(TaskType, string(apperrors.ErrCodeQueryExecutionFailed)).Inc()
		return nil, err
	}

	agg := Aggregate(input.PropertyID, contributions, time.Now().UTC())
	if agg == nil {
		// Nothing verified yet: leave the stored aggregate untouched so the
		// property keeps reading as "no data" rather than "scored zero".
		h.logger.Info("no verified contributions, skipping write", map[string]interface{}{
			"propertyId": input.PropertyID,
		})
		metrics.EngineJobsCompleted.WithLabelValues(TaskType).Inc()
		return &Output{PropertyID: input.PropertyID, Updated: false}, nil
	}

	score := CalculateScore(agg)
	confidence := CalculateConfidence(agg.ContributionCount)
	agg.TruthScore = &score
	agg.TruthConfidence = &confidence

	if err := h.properties.UpdateAggregate(ctx, agg); err != nil {
		errCode := apperrors.ErrCodeAggregateWriteFailed
		if stdErr, ok := err.(*apperrors.StandardError); ok {
			errCode = stdErr.Code
		}
		metrics.EngineJobsFailed.WithLabelValues(TaskType, string(errCode)).Inc()
		return nil, err
	}

	// Downstream surfaces are refreshed best-effort: the database is the
	// source of truth and both the cache TTL and the next recompute heal a
	// missed propagation.
	if h.cache != nil {
		h.cache.Invalidate(ctx, input.PropertyID)
	}
	if h.indexer != nil {
		if err := h.indexer.IndexAggregate(ctx, agg); err != nil {
			h.logger.Warn("search index publish failed", map[string]interface{}{
				"propertyId": input.PropertyID,
				"error":      err,
			})
		}
	}

	metrics.EngineJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.EngineJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	metrics.TruthScoresRecomputed.Inc()

	h.logger.Info("truth score updated", map[string]interface{}{
		"propertyId":    input.PropertyID,
		"score":         score,
		"confidence":    confidence,
		"contributions": agg.ContributionCount,
	})

	return &Output{
		PropertyID:        input.PropertyID,
		TruthScore:        &score,
		TruthConfidence:   &confidence,
		ContributionCount: agg.ContributionCount,
		Updated:           true,
	}, nil
}
