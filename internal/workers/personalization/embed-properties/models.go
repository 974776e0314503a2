// internal/workers/personalization/embed-properties/models.go
package embedproperties

import (
	"context"

	"staytruth-engine/internal/models"
)

type Input struct {
	// BatchSize and MaxBatches override the configured values when positive.
	BatchSize  int `json:"batchSize,omitempty"`
	MaxBatches int `json:"maxBatches,omitempty"`
}

type Output struct {
	Batches   int `json:"batches"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// PropertyContentLister pages through properties that still lack embeddings.
type PropertyContentLister interface {
	ListMissingEmbeddings(ctx context.Context, limit int) ([]models.PropertyContent, error)
}

// EmbeddingWriter stores a generated embedding.
type EmbeddingWriter interface {
	UpdateEmbedding(ctx context.Context, propertyID string, vector []float64) error
}
