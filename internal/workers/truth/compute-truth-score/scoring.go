// internal/workers/truth/compute-truth-score/scoring.go
package computetruthscore

import (
	"math"

	"staytruth-engine/internal/models"
)

// ==========================
// 1. Scoring Constants
// ==========================

// Contribution count at which confidence reaches 1.0.
const minConfidentContributions = 3

// Dimension weights. A dimension with no data drops out entirely and the
// score is renormalized over the weights that remain, so missing data never
// reads as bad data.
const (
	weightWifi      = 25
	weightNoise     = 15
	weightAmenities = 30
	weightPhotos    = 10
	weightRatings   = 20
)

// ==========================
// 2. Truth Score
// ==========================

// CalculateScore derives the 0-100 Truth Score from an aggregate. Returns 0
// when no dimension has any data at all.
func CalculateScore(agg *models.PropertyAggregate) int {
	var totalWeight, weightedScore float64

	if agg.WifiTestCount > 0 {
		totalWeight += weightWifi
		// 100 Mbps and up is a full score.
		var downloadScore float64
		if agg.AvgWifiDownload != nil {
			downloadScore = math.Min(*agg.AvgWifiDownload/100, 1)
		}
		weightedScore += weightWifi * downloadScore
	}

	if agg.NoiseTestCount > 0 {
		totalWeight += weightNoise
		// Lower is better: 1.0 quiet scores 1, 5.0 loud scores 0.2.
		noiseScore := 0.5
		if agg.AvgNoiseLevel != nil {
			noiseScore = math.Max(0, 1-(*agg.AvgNoiseLevel-1)/5)
		}
		weightedScore += weightNoise * noiseScore
	}

	amenities := []*bool{
		agg.HasHotWater,
		agg.HasBlackoutCurtains,
		agg.HasQuietRooms,
		agg.HasGoodAC,
		agg.HasWorkDesk,
	}
	var answered, positive int
	for _, a := range amenities {
		if a == nil {
			continue
		}
		answered++
		if *a {
			positive++
		}
	}
	if answered > 0 {
		totalWeight += weightAmenities
		// Denominator stays 5: unanswered amenities hold the sub-score down
		// until the community confirms them.
		weightedScore += weightAmenities * (float64(positive) / 5)
	}

	if agg.PhotoCount > 0 {
		totalWeight += weightPhotos
		weightedScore += weightPhotos * math.Min(float64(agg.PhotoCount)/5, 1)
	}

	if agg.CommunityRating != nil {
		totalWeight += weightRatings
		// 1-5 stars maps to 0-1.
		weightedScore += weightRatings * ((*agg.CommunityRating - 1) / 4)
	}

	if totalWeight == 0 {
		return 0
	}
	return int(math.Round(weightedScore / totalWeight * 100))
}

// CalculateConfidence maps contribution count to 0-1, saturating at
// minConfidentContributions.
func CalculateConfidence(contributionCount int) float64 {
	return math.Min(float64(contributionCount)/minConfidentContributions, 1)
}
