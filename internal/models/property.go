// internal/models/property.go
package models

import "time"

// PropertyAggregate is the derived, never hand-edited consensus record for
// one property. TruthScore and TruthConfidence are nil iff the property has
// zero verified contributions; otherwise both are set together.
type PropertyAggregate struct {
	PropertyID string `json:"propertyId"`

	TruthScore      *int     `json:"truthScore"`
	TruthConfidence *float64 `json:"truthConfidence"`

	ContributionCount int `json:"contributionCount"`

	AvgWifiDownload *float64 `json:"avgWifiDownload"`
	AvgWifiUpload   *float64 `json:"avgWifiUpload"`
	WifiTestCount   int      `json:"wifiTestCount"`

	AvgNoiseLevel  *float64 `json:"avgNoiseLevel"`
	NoiseTestCount int      `json:"noiseTestCount"`

	// Majority-vote amenity consensus. nil means nobody answered.
	HasHotWater         *bool `json:"hasHotWater"`
	HasBlackoutCurtains *bool `json:"hasBlackoutCurtains"`
	HasQuietRooms       *bool `json:"hasQuietRooms"`
	HasGoodAC           *bool `json:"hasGoodAC"`
	HasWorkDesk         *bool `json:"hasWorkDesk"`

	CommunityRating *float64 `json:"communityRating"`
	PhotoCount      int      `json:"photoCount"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// PropertyContent is the text material a property embedding is built from.
type PropertyContent struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Amenities   []string `json:"amenities"`
}
