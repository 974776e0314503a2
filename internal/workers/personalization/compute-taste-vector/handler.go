// internal/workers/personalization/compute-taste-vector/handler.go
package computetastevector

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "staytruth-engine/internal/common/errors"
	"staytruth-engine/internal/common/logger"
	"staytruth-engine/internal/common/metrics"
)

const (
	TaskType = "compute-taste-vector"
)

// Handler recomputes a user's taste vector as the unweighted mean of the
// embeddings of every property they liked. Super-likes count once, the same
// as ordinary likes. Two triggers for the same user are serialized through a
// per-user lock so the slower computation cannot overwrite the fresher one
// with interleaved reads.
type Handler struct {
	config *Config
	swipes LikedEmbeddingLister
	users  TasteVectorWriter
	logger logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewHandler(config *Config, swipes LikedEmbeddingLister, users TasteVectorWriter, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		swipes: swipes,
		users:  users,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		locks:  make(map[string]*sync.Mutex),
	}
}

func (h *Handler) userLock(userID string) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	lock, ok := h.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		h.locks[userID] = lock
	}
	return lock
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()
	if input.UserID == "" {
		return nil, fmt.Errorf("userId is required")
	}

	lock := h.userLock(input.UserID)
	lock.Lock()
	defer lock.Unlock()

	embeddings, err := h.swipes.LikedEmbeddings(ctx, input.UserID)
	if err != nil {
		metrics.EngineJobsFailed.WithLabelValues(TaskType, string(apperrors.ErrCodeQueryExecutionFailed)).Inc()
		return nil, err
	}

	if len(embeddings) == 0 {
		// No eligible likes: keep whatever vector the user already has.
		// A user who liked only unembedded properties must not lose their
		// previously computed taste.
		h.logger.Info("no liked embeddings, keeping existing taste vector", map[string]interface{}{
			"userId": input.UserID,
		})
		metrics.EngineJobsCompleted.WithLabelValues(TaskType).Inc()
		return &Output{UserID: input.UserID, Computed: false}, nil
	}

	vector, err := meanVector(embeddings)
	if err != nil {
		metrics.EngineJobsFailed.WithLabelValues(TaskType, string(apperrors.ErrCodeEmbeddingDimension)).Inc()
		return nil, err
	}

	if err := h.users.UpdateTasteVector(ctx, input.UserID, vector); err != nil {
		errCode := apperrors.ErrCodeTasteVectorWriteFailed
		if stdErr, ok := err.(*apperrors.StandardError); ok {
			errCode = stdErr.Code
		}
		metrics.EngineJobsFailed.WithLabelValues(TaskType, string(errCode)).Inc()
		return nil, err
	}

	metrics.EngineJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.EngineJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())

	h.logger.Info("taste vector updated", map[string]interface{}{
		"userId":     input.UserID,
		"likedCount": len(embeddings),
		"dimensions": len(vector),
	})

	return &Output{
		UserID:     input.UserID,
		Computed:   true,
		LikedCount: len(embeddings),
		Dimensions: len(vector),
	}, nil
}

// meanVector averages the embeddings component-wise. All inputs must share
// one dimensionality; a mismatch means corrupt stored vectors and aborts the
// computation instead of producing a garbage mean.
func meanVector(embeddings [][]float64) ([]float64, error) {
	dims := len(embeddings[0])
	sum := make([]float64, dims)
	for _, vec := range embeddings {
		if len(vec) != dims {
			return nil, apperrors.NewEmbeddingDimensionError(dims, len(vec))
		}
		for i, v := range vec {
			sum[i] += v
		}
	}
	n := float64(len(embeddings))
	for i := range sum {
		sum[i] /= n
	}
	return sum, nil
}
