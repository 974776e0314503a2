// internal/store/swipes.go
package store

import (
	"context"
	"database/sql"

	apperrors "staytruth-engine/internal/common/errors"

	"github.com/lib/pq"
)

// SwipeStore reads swipe history for taste vector computation.
type SwipeStore struct {
	db *sql.DB
}

func NewSwipeStore(db *sql.DB) *SwipeStore {
	return &SwipeStore{db: db}
}

const likedEmbeddingsQuery = `
SELECT p.embedding
FROM swipes s
JOIN properties p ON p.id = s.property_id
WHERE s.user_id = $1
  AND s.direction IN ('RIGHT', 'SUPER_LIKE')
  AND p.embedding IS NOT NULL
ORDER BY s.created_at`

// LikedEmbeddings returns the embedding of every property the user liked,
// one row per like. Liked properties without an embedding are excluded here
// rather than zero-filled, so they cannot drag the mean toward the origin.
func (s *SwipeStore) LikedEmbeddings(ctx context.Context, userID string) ([][]float64, error) {
	rows, err := s.db.QueryContext(ctx, likedEmbeddingsQuery, userID)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("liked_embeddings", err)
	}
	defer rows.Close()

	var out [][]float64
	for rows.Next() {
		var vec pq.Float64Array
		if err := rows.Scan(&vec); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("scan_embedding", err)
		}
		out = append(out, []float64(vec))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("iterate_embeddings", err)
	}
	return out, nil
}
