// internal/workers/search/index-property-aggregate/handler.go
package indexpropertyaggregate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	apperrors "staytruth-engine/internal/common/errors"
	"staytruth-engine/internal/common/logger"
	"staytruth-engine/internal/common/metrics"
	"staytruth-engine/internal/models"
)

const (
	TaskType = "index-property-aggregate"
)

// Handler publishes refreshed aggregates to the search-ranking index so the
// discovery surface can sort and filter on Truth Score without touching the
// primary database. The document ID is the property ID, so republishing is
// an overwrite, never a duplicate.
type Handler struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewHandler(client *elasticsearch.Client, index string, log logger.Logger) *Handler {
	return &Handler{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// propertyDocument is the projection pushed to the index: the fields search
// ranks or filters on, nothing more.
type propertyDocument struct {
	PropertyID        string   `json:"propertyId"`
	TruthScore        *int     `json:"truthScore"`
	TruthConfidence   *float64 `json:"truthConfidence"`
	ContributionCount int      `json:"contributionCount"`
	AvgWifiDownload   *float64 `json:"avgWifiDownload"`
	AvgNoiseLevel     *float64 `json:"avgNoiseLevel"`
	CommunityRating   *float64 `json:"communityRating"`
	PhotoCount        int      `json:"photoCount"`
	UpdatedAt         string   `json:"updatedAt"`
}

func (h *Handler) IndexAggregate(ctx context.Context, agg *models.PropertyAggregate) error {
	doc := propertyDocument{
		PropertyID:        agg.PropertyID,
		TruthScore:        agg.TruthScore,
		TruthConfidence:   agg.TruthConfidence,
		ContributionCount: agg.ContributionCount,
		AvgWifiDownload:   agg.AvgWifiDownload,
		AvgNoiseLevel:     agg.AvgNoiseLevel,
		CommunityRating:   agg.CommunityRating,
		PhotoCount:        agg.PhotoCount,
		UpdatedAt:         agg.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return apperrors.NewSearchIndexFailedError(agg.PropertyID, err)
	}

	res, err := h.client.Index(
		h.index,
		bytes.NewReader(body),
		h.client.Index.WithDocumentID(agg.PropertyID),
		h.client.Index.WithContext(ctx),
	)
	if err != nil {
		metrics.EngineJobsFailed.WithLabelValues(TaskType, string(apperrors.ErrCodeSearchIndexFailed)).Inc()
		return apperrors.NewSearchIndexFailedError(agg.PropertyID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		metrics.EngineJobsFailed.WithLabelValues(TaskType, string(apperrors.ErrCodeSearchIndexFailed)).Inc()
		return apperrors.NewSearchIndexFailedError(agg.PropertyID,
			fmt.Errorf("index response: %s", res.Status()))
	}

	metrics.EngineJobsCompleted.WithLabelValues(TaskType).Inc()
	h.logger.Debug("aggregate indexed", map[string]interface{}{
		"propertyId": agg.PropertyID,
		"index":      h.index,
	})
	return nil
}
