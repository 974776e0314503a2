// internal/workers/truth/compute-truth-score/models.go
package computetruthscore

import (
	"context"

	"staytruth-engine/internal/models"
)

type Input struct {
	PropertyID string `json:"propertyId"`
}

type Output struct {
	PropertyID        string   `json:"propertyId"`
	TruthScore        *int     `json:"truthScore"`
	TruthConfidence   *float64 `json:"truthConfidence"`
	ContributionCount int      `json:"contributionCount"`
	Updated           bool     `json:"updated"`
}

// ContributionLister supplies the verified contributions to aggregate.
type ContributionLister interface {
	ListVerifiedByProperty(ctx context.Context, propertyID string) ([]models.Contribution, error)
}

// AggregateWriter persists the recomputed aggregate atomically.
type AggregateWriter interface {
	UpdateAggregate(ctx context.Context, agg *models.PropertyAggregate) error
}

// CacheInvalidator drops the cached copy of a property aggregate after a
// successful write. Implementations must not fail the scoring pipeline.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, propertyID string)
}

// AggregateIndexer publishes the refreshed aggregate to the search index.
type AggregateIndexer interface {
	IndexAggregate(ctx context.Context, agg *models.PropertyAggregate) error
}
