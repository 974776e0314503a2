// internal/models/contribution.go
package models

import "time"

// Contribution is one guest's structured post-stay observation about a
// property. Every measurement field is optional; a contribution that only
// answered the amenity questions is still a valid contribution. Records are
// immutable once created.
type Contribution struct {
	ID         string `json:"id"`
	PropertyID string `json:"propertyId"`
	UserID     string `json:"userId"`
	BookingID  string `json:"bookingId"`

	WifiDownloadMbps *float64 `json:"wifiDownloadMbps,omitempty"`
	WifiUploadMbps   *float64 `json:"wifiUploadMbps,omitempty"`

	// 1 = silent, 5 = very loud
	NoiseLevel *int `json:"noiseLevel,omitempty"`

	HotWaterReliable *bool `json:"hotWaterReliable,omitempty"`
	BlackoutCurtains *bool `json:"blackoutCurtains,omitempty"`
	QuietAtNight     *bool `json:"quietAtNight,omitempty"`
	ACWorksWell      *bool `json:"acWorksWell,omitempty"`
	WorkDeskPresent  *bool `json:"workDeskPresent,omitempty"`

	OverallRating *int `json:"overallRating,omitempty"`

	PhotoCount int `json:"photoCount"`

	AdditionalNotes *string `json:"additionalNotes,omitempty"`
	DiscountCode    string  `json:"discountCode,omitempty"`

	// Only verified contributions participate in aggregation. Verification
	// is an external trust gate.
	Verified   bool       `json:"verified"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}
