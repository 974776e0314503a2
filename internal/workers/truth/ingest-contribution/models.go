// internal/workers/truth/ingest-contribution/models.go
package ingestcontribution

import (
	"context"
	"time"

	"staytruth-engine/internal/models"
	computetruthscore "staytruth-engine/internal/workers/truth/compute-truth-score"
)

type Input struct {
	PropertyID string `json:"propertyId"`
	UserID     string `json:"userId"`
	BookingID  string `json:"bookingId"`

	WifiDownloadMbps *float64 `json:"wifiDownloadMbps,omitempty"`
	WifiUploadMbps   *float64 `json:"wifiUploadMbps,omitempty"`
	NoiseLevel       *int     `json:"noiseLevel,omitempty"`

	HotWaterReliable *bool `json:"hotWaterReliable,omitempty"`
	BlackoutCurtains *bool `json:"blackoutCurtains,omitempty"`
	QuietAtNight     *bool `json:"quietAtNight,omitempty"`
	ACWorksWell      *bool `json:"acWorksWell,omitempty"`
	WorkDeskPresent  *bool `json:"workDeskPresent,omitempty"`

	OverallRating   *int     `json:"overallRating,omitempty"`
	AdditionalNotes *string  `json:"additionalNotes,omitempty"`
	PhotoURLs       []string `json:"photoUrls,omitempty"`
}

type Output struct {
	ContributionID     string    `json:"contributionId"`
	DiscountCode       string    `json:"discountCode"`
	DiscountValidUntil time.Time `json:"discountValidUntil"`
	ScoreRecomputed    bool      `json:"scoreRecomputed"`
}

// ContributionWriter persists new contributions and their photos.
type ContributionWriter interface {
	ExistsForBooking(ctx context.Context, bookingID string) (bool, error)
	Insert(ctx context.Context, c *models.Contribution) error
	InsertPhotos(ctx context.Context, contributionID string, urls []string) error
}

// DiscountWriter records the reward code issued to the contributor.
type DiscountWriter interface {
	InsertDiscountCode(ctx context.Context, code string, discount float64, validUntil time.Time) error
}

// Scorer triggers the per-property score recompute after ingest.
type Scorer interface {
	Execute(ctx context.Context, input *computetruthscore.Input) (*computetruthscore.Output, error)
}
