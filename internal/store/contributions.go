// internal/store/contributions.go
package store

import (
	"context"
	"database/sql"

	apperrors "staytruth-engine/internal/common/errors"
	"staytruth-engine/internal/models"
)

// ContributionStore persists and reads guest contributions. Contributions are
// append-only; there is no update path.
type ContributionStore struct {
	db *sql.DB
}

func NewContributionStore(db *sql.DB) *ContributionStore {
	return &ContributionStore{db: db}
}

const listVerifiedByPropertyQuery = `
SELECT c.id, c.property_id, c.user_id, c.booking_id,
       c.wifi_download_mbps, c.wifi_upload_mbps, c.noise_level,
       c.hot_water_reliable, c.blackout_curtains, c.quiet_at_night,
       c.ac_works_well, c.work_desk_present,
       c.overall_rating, COALESCE(p.photo_count, 0) AS photo_count,
       c.verified, c.verified_at, c.created_at
FROM contributions c
LEFT JOIN (
    SELECT contribution_id, COUNT(*) AS photo_count
    FROM contribution_photos
    GROUP BY contribution_id
) p ON p.contribution_id = c.id
WHERE c.property_id = $1 AND c.verified = TRUE
ORDER BY c.created_at`

// ListVerifiedByProperty returns every verified contribution for a property,
// photo counts included. Unverified rows never reach the aggregation path.
func (s *ContributionStore) ListVerifiedByProperty(ctx context.Context, propertyID string) ([]models.Contribution, error) {
	rows, err := s.db.QueryContext(ctx, listVerifiedByPropertyQuery, propertyID)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("list_verified_contributions", err)
	}
	defer rows.Close()

	var out []models.Contribution
	for rows.Next() {
		var c models.Contribution
		var verifiedAt sql.NullTime
		if err := rows.Scan(
			&c.ID, &c.PropertyID, &c.UserID, &c.BookingID,
			&c.WifiDownloadMbps, &c.WifiUploadMbps, &c.NoiseLevel,
			&c.HotWaterReliable, &c.BlackoutCurtains, &c.QuietAtNight,
			&c.ACWorksWell, &c.WorkDeskPresent,
			&c.OverallRating, &c.PhotoCount,
			&c.Verified, &verifiedAt, &c.CreatedAt,
		); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("scan_contribution", err)
		}
		if verifiedAt.Valid {
			t := verifiedAt.Time
			c.VerifiedAt = &t
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("iterate_contributions", err)
	}
	return out, nil
}

// DistinctVerifiedPropertyIDs returns the IDs of every property with at least
// one verified contribution. This is the batch recompute work list.
func (s *ContributionStore) DistinctVerifiedPropertyIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT property_id FROM contributions WHERE verified = TRUE ORDER BY property_id`)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("distinct_verified_properties", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("scan_property_id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("iterate_property_ids", err)
	}
	return ids, nil
}

// ExistsForBooking reports whether a contribution is already recorded for the
// booking. One booking yields at most one contribution.
func (s *ContributionStore) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM contributions WHERE booking_id = $1)`, bookingID).Scan(&exists)
	if err != nil {
		return false, apperrors.NewQueryExecutionFailedError("contribution_exists_for_booking", err)
	}
	return exists, nil
}

const insertContributionQuery = `
INSERT INTO contributions (
    id, property_id, user_id, booking_id,
    wifi_download_mbps, wifi_upload_mbps, noise_level,
    hot_water_reliable, blackout_curtains, quiet_at_night,
    ac_works_well, work_desk_present,
    overall_rating, additional_notes, discount_code,
    verified, verified_at, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`

func (s *ContributionStore) Insert(ctx context.Context, c *models.Contribution) error {
	_, err := s.db.ExecContext(ctx, insertContributionQuery,
		c.ID, c.PropertyID, c.UserID, c.BookingID,
		c.WifiDownloadMbps, c.WifiUploadMbps, c.NoiseLevel,
		c.HotWaterReliable, c.BlackoutCurtains, c.QuietAtNight,
		c.ACWorksWell, c.WorkDeskPresent,
		c.OverallRating, c.AdditionalNotes, c.DiscountCode,
		c.Verified, c.VerifiedAt, c.CreatedAt,
	)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("insert_contribution", err)
	}
	return nil
}

// InsertPhotos records photo URLs attached to a contribution.
func (s *ContributionStore) InsertPhotos(ctx context.Context, contributionID string, urls []string) error {
	for _, url := range urls {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO contribution_photos (contribution_id, url) VALUES ($1, $2)`,
			contributionID, url)
		if err != nil {
			return apperrors.NewQueryExecutionFailedError("insert_contribution_photo", err)
		}
	}
	return nil
}
