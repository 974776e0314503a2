// internal/workers/truth/compute-truth-score/aggregate.go
package computetruthscore

import (
	"time"

	"staytruth-engine/internal/models"
)

// ==========================
// 1. Aggregation
// ==========================

// Aggregate folds verified contributions into a single consensus record.
// Returns nil when there are no contributions: a property nobody has
// reported on keeps its null aggregate rather than a zero-filled one.
func Aggregate(propertyID string, contributions []models.Contribution, now time.Time) *models.PropertyAggregate {
	if len(contributions) == 0 {
		return nil
	}

	agg := &models.PropertyAggregate{
		PropertyID:        propertyID,
		ContributionCount: len(contributions),
		UpdatedAt:         now,
	}

	var wifiDowns, wifiUps, noises, ratings []float64
	for _, c := range contributions {
		if c.WifiDownloadMbps != nil {
			wifiDowns = append(wifiDowns, *c.WifiDownloadMbps)
		}
		if c.WifiUploadMbps != nil {
			wifiUps = append(wifiUps, *c.WifiUploadMbps)
		}
		if c.NoiseLevel != nil {
			noises = append(noises, float64(*c.NoiseLevel))
		}
		if c.OverallRating != nil {
			ratings = append(ratings, float64(*c.OverallRating))
		}
		agg.PhotoCount += c.PhotoCount
	}

	agg.AvgWifiDownload = mean(wifiDowns)
	agg.AvgWifiUpload = mean(wifiUps)
	agg.WifiTestCount = len(wifiDowns)
	agg.AvgNoiseLevel = mean(noises)
	agg.NoiseTestCount = len(noises)
	agg.CommunityRating = mean(ratings)

	agg.HasHotWater = majorityVote(contributions, func(c models.Contribution) *bool { return c.HotWaterReliable })
	agg.HasBlackoutCurtains = majorityVote(contributions, func(c models.Contribution) *bool { return c.BlackoutCurtains })
	agg.HasQuietRooms = majorityVote(contributions, func(c models.Contribution) *bool { return c.QuietAtNight })
	agg.HasGoodAC = majorityVote(contributions, func(c models.Contribution) *bool { return c.ACWorksWell })
	agg.HasWorkDesk = majorityVote(contributions, func(c models.Contribution) *bool { return c.WorkDeskPresent })

	return agg
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	m := sum / float64(len(values))
	return &m
}

// majorityVote resolves an amenity across contributors who answered it:
// true only when strictly more than half said true, so a tie reads false.
// Nobody answering leaves the amenity unknown.
func majorityVote(contributions []models.Contribution, field func(models.Contribution) *bool) *bool {
	var answered, trueCount int
	for _, c := range contributions {
		v := field(c)
		if v == nil {
			continue
		}
		answered++
		if *v {
			trueCount++
		}
	}
	if answered == 0 {
		return nil
	}
	result := trueCount*2 > answered
	return &result
}
