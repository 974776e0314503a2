// internal/workers/personalization/compute-taste-vector/models.go
package computetastevector

import "context"

type Input struct {
	UserID string `json:"userId"`
}

type Output struct {
	UserID     string `json:"userId"`
	Computed   bool   `json:"computed"`
	LikedCount int    `json:"likedCount"`
	Dimensions int    `json:"dimensions"`
}

// LikedEmbeddingLister supplies the embeddings of properties the user liked.
type LikedEmbeddingLister interface {
	LikedEmbeddings(ctx context.Context, userID string) ([][]float64, error)
}

// TasteVectorWriter overwrites the stored taste vector atomically.
type TasteVectorWriter interface {
	UpdateTasteVector(ctx context.Context, userID string, vector []float64) error
}
