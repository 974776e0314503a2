// internal/workers/personalization/embed-properties/handler.go
package embedproperties

import (
	"context"
	"time"

	apperrors "staytruth-engine/internal/common/errors"
	"staytruth-engine/internal/common/logger"
	"staytruth-engine/internal/common/metrics"
	"staytruth-engine/internal/embeddings"
	"staytruth-engine/internal/models"
)

const (
	TaskType = "embed-properties"
)

// PropertyEmbeddingStore is the persistence surface the backfill needs.
type PropertyEmbeddingStore interface {
	PropertyContentLister
	EmbeddingWriter
}

// Handler backfills embeddings for properties that do not have one yet. It
// works in bounded batches with a pause between them to stay inside the
// embedding provider's rate limits, and stops early once a batch comes back
// empty. A property whose embedding fails is counted and retried on the
// next run since it still has no embedding.
type Handler struct {
	config     *Config
	properties PropertyEmbeddingStore
	provider   embeddings.Provider
	logger     logger.Logger
}

func NewHandler(config *Config, properties PropertyEmbeddingStore, provider embeddings.Provider, log logger.Logger) *Handler {
	return &Handler{
		config:     config,
		properties: properties,
		provider:   provider,
		logger:     log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()

	batchSize := h.config.BatchSize
	maxBatches := h.config.MaxBatches
	if input != nil {
		if input.BatchSize > 0 {
			batchSize = input.BatchSize
		}
		if input.MaxBatches > 0 {
			maxBatches = input.MaxBatches
		}
	}
	if batchSize > maxBatchSize {
		batchSize = maxBatchSize
	}
	if batchSize < 1 {
		batchSize = 1
	}
	if maxBatches < 1 {
		maxBatches = 1
	}

	out := &Output{}
	for batch := 0; batch < maxBatches; batch++ {
		if batch > 0 {
			select {
			case <-ctx.Done():
				return out, ctx.Err()
			case <-time.After(h.config.Pause):
			}
		}

		pending, err := h.properties.ListMissingEmbeddings(ctx, batchSize)
		if err != nil {
			metrics.EngineJobsFailed.WithLabelValues(TaskType, string(apperrors.ErrCodeQueryExecutionFailed)).Inc()
			return out, err
		}
		if len(pending) == 0 {
			break
		}

		out.Batches++
		processed, failed := h.embedBatch(ctx, pending)
		out.Processed += processed
		out.Failed += failed

		h.logger.Info("batch embedded", map[string]interface{}{
			"batch":     out.Batches,
			"processed": processed,
			"failed":    failed,
		})

		// Everything in the batch failed: backing off to the next run beats
		// hammering a provider that is refusing us.
		if processed == 0 {
			break
		}
	}

	metrics.EngineJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.EngineJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())

	h.logger.Info("embedding backfill complete", map[string]interface{}{
		"batches":   out.Batches,
		"processed": out.Processed,
		"failed":    out.Failed,
	})
	return out, nil
}

func (h *Handler) embedBatch(ctx context.Context, pending []models.PropertyContent) (processed, failed int) {
	for i := range pending {
		p := &pending[i]

		vector, err := h.provider.Embed(ctx, embeddings.BuildText(p))
		if err != nil {
			failed++
			metrics.BatchItemsFailed.WithLabelValues(TaskType).Inc()
			h.logger.Error("embedding failed, skipping property", map[string]interface{}{
				"propertyId": p.ID,
				"error":      err,
			})
			continue
		}

		if err := h.properties.UpdateEmbedding(ctx, p.ID, vector); err != nil {
			failed++
			metrics.BatchItemsFailed.WithLabelValues(TaskType).Inc()
			h.logger.Error("embedding store failed, skipping property", map[string]interface{}{
				"propertyId": p.ID,
				"error":      err,
			})
			continue
		}

		processed++
		metrics.BatchItemsProcessed.WithLabelValues(TaskType).Inc()
	}
	return processed, failed
}
