// internal/store/properties.go
package store

import (
	"context"
	"database/sql"

	apperrors "staytruth-engine/internal/common/errors"
	"staytruth-engine/internal/models"

	"github.com/lib/pq"
)

// PropertyStore reads property content and persists the derived aggregate
// columns and embeddings.
type PropertyStore struct {
	db *sql.DB
}

func NewPropertyStore(db *sql.DB) *PropertyStore {
	return &PropertyStore{db: db}
}

const getAggregateQuery = `
SELECT id, truth_score, truth_confidence, contribution_count,
       avg_wifi_download, avg_wifi_upload, wifi_test_count,
       avg_noise_level, noise_test_count,
       has_hot_water, has_blackout_curtains, has_quiet_rooms,
       has_good_ac, has_work_desk,
       community_rating, photo_count, aggregate_updated_at
FROM properties
WHERE id = $1`

// GetAggregate loads the stored aggregate for a property.
func (s *PropertyStore) GetAggregate(ctx context.Context, propertyID string) (*models.PropertyAggregate, error) {
	var agg models.PropertyAggregate
	err := s.db.QueryRowContext(ctx, getAggregateQuery, propertyID).Scan(
		&agg.PropertyID, &agg.TruthScore, &agg.TruthConfidence, &agg.ContributionCount,
		&agg.AvgWifiDownload, &agg.AvgWifiUpload, &agg.WifiTestCount,
		&agg.AvgNoiseLevel, &agg.NoiseTestCount,
		&agg.HasHotWater, &agg.HasBlackoutCurtains, &agg.HasQuietRooms,
		&agg.HasGoodAC, &agg.HasWorkDesk,
		&agg.CommunityRating, &agg.PhotoCount, &agg.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewPropertyNotFoundError(propertyID)
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("get_property_aggregate", err)
	}
	return &agg, nil
}

const updateAggregateQuery = `
UPDATE properties SET
    truth_score = $2,
    truth_confidence = $3,
    contribution_count = $4,
    avg_wifi_download = $5,
    avg_wifi_upload = $6,
    wifi_test_count = $7,
    avg_noise_level = $8,
    noise_test_count = $9,
    has_hot_water = $10,
    has_blackout_curtains = $11,
    has_quiet_rooms = $12,
    has_good_ac = $13,
    has_work_desk = $14,
    community_rating = $15,
    photo_count = $16,
    aggregate_updated_at = $17
WHERE id = $1`

// UpdateAggregate overwrites the full aggregate in one statement. Readers see
// either the previous aggregate or the new one, never a blend.
func (s *PropertyStore) UpdateAggregate(ctx context.Context, agg *models.PropertyAggregate) error {
	res, err := s.db.ExecContext(ctx, updateAggregateQuery,
		agg.PropertyID,
		agg.TruthScore, agg.TruthConfidence, agg.ContributionCount,
		agg.AvgWifiDownload, agg.AvgWifiUpload, agg.WifiTestCount,
		agg.AvgNoiseLevel, agg.NoiseTestCount,
		agg.HasHotWater, agg.HasBlackoutCurtains, agg.HasQuietRooms,
		agg.HasGoodAC, agg.HasWorkDesk,
		agg.CommunityRating, agg.PhotoCount, agg.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewAggregateWriteFailedError(agg.PropertyID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewAggregateWriteFailedError(agg.PropertyID, err)
	}
	if affected == 0 {
		return apperrors.NewPropertyNotFoundError(agg.PropertyID)
	}
	return nil
}

// ListMissingEmbeddings returns properties that have no embedding yet, oldest
// first, up to limit.
func (s *PropertyStore) ListMissingEmbeddings(ctx context.Context, limit int) ([]models.PropertyContent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, amenities
		 FROM properties
		 WHERE embedding IS NULL
		 ORDER BY created_at
		 LIMIT $1`, limit)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list_missing_embeddings", err)
	}
	defer rows.Close()

	var out []models.PropertyContent
	for rows.Next() {
		var p models.PropertyContent
		var amenities pq.StringArray
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &amenities); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("scan_property_content", err)
		}
		p.Amenities = []string(amenities)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("iterate_property_content", err)
	}
	return out, nil
}

// UpdateEmbedding stores the embedding vector for a property.
func (s *PropertyStore) UpdateEmbedding(ctx context.Context, propertyID string, vector []float64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE properties SET embedding = $2, embedding_updated_at = NOW() WHERE id = $1`,
		propertyID, pq.Float64Array(vector))
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("update_property_embedding", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("update_property_embedding", err)
	}
	if affected == 0 {
		return apperrors.NewPropertyNotFoundError(propertyID)
	}
	return nil
}
