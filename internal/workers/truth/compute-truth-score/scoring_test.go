// internal/workers/truth/compute-truth-score/scoring_test.go
package computetruthscore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staytruth-engine/internal/models"
)

func fPtr(v float64) *float64 { return &v }
func iPtr(v int) *int         { return &v }
func bPtr(v bool) *bool       { return &v }

func TestAggregate_Empty(t *testing.T) {
	assert.Nil(t, Aggregate("prop-1", nil, time.Now()))
	assert.Nil(t, Aggregate("prop-1", []models.Contribution{}, time.Now()))
}

func TestAggregate_MeansSkipNulls(t *testing.T) {
	contributions := []models.Contribution{
		{WifiDownloadMbps: fPtr(60), NoiseLevel: iPtr(1), OverallRating: iPtr(5)},
		{WifiDownloadMbps: fPtr(80), NoiseLevel: iPtr(2), OverallRating: iPtr(5)},
		{OverallRating: iPtr(4)},
	}

	agg := Aggregate("prop-1", contributions, time.Now())
	require.NotNil(t, agg)

	assert.Equal(t, 3, agg.ContributionCount)
	assert.InDelta(t, 70.0, *agg.AvgWifiDownload, 1e-9)
	assert.Equal(t, 2, agg.WifiTestCount)
	assert.Nil(t, agg.AvgWifiUpload)
	assert.InDelta(t, 1.5, *agg.AvgNoiseLevel, 1e-9)
	assert.Equal(t, 2, agg.NoiseTestCount)
	assert.InDelta(t, 14.0/3, *agg.CommunityRating, 1e-9)
}

func TestAggregate_MajorityVote(t *testing.T) {
	contributions := []models.Contribution{
		{HotWaterReliable: bPtr(true), BlackoutCurtains: bPtr(true)},
		{HotWaterReliable: bPtr(true), BlackoutCurtains: bPtr(false)},
		{HotWaterReliable: bPtr(false)},
	}

	agg := Aggregate("prop-1", contributions, time.Now())
	require.NotNil(t, agg)

	// 2 of 3 say yes.
	assert.True(t, *agg.HasHotWater)
	// 1-1 tie reads false.
	assert.False(t, *agg.HasBlackoutCurtains)
	// Nobody answered.
	assert.Nil(t, agg.HasQuietRooms)
	assert.Nil(t, agg.HasGoodAC)
	assert.Nil(t, agg.HasWorkDesk)
}

func TestAggregate_PhotoCountSums(t *testing.T) {
	contributions := []models.Contribution{
		{PhotoCount: 2},
		{PhotoCount: 0},
		{PhotoCount: 3},
	}
	agg := Aggregate("prop-1", contributions, time.Now())
	require.NotNil(t, agg)
	assert.Equal(t, 5, agg.PhotoCount)
}

func TestCalculateScore_AllDimensions(t *testing.T) {
	agg := &models.PropertyAggregate{
		ContributionCount:   3,
		AvgWifiDownload:     fPtr(70),
		WifiTestCount:       2,
		AvgNoiseLevel:       fPtr(1.5),
		NoiseTestCount:      2,
		HasHotWater:         bPtr(true),
		HasBlackoutCurtains: bPtr(false),
		CommunityRating:     fPtr(14.0 / 3),
		PhotoCount:          2,
	}

	// 25*0.7 + 15*0.9 + 30*0.2 + 10*0.4 + 20*(11/12) = 59.33 -> 59
	assert.Equal(t, 59, CalculateScore(agg))
}

func TestCalculateScore_RenormalizesOverPresentDimensions(t *testing.T) {
	// Only ratings present: a 5-star consensus scores 100, not 20.
	agg := &models.PropertyAggregate{
		ContributionCount: 1,
		CommunityRating:   fPtr(5),
	}
	assert.Equal(t, 100, CalculateScore(agg))
}

func TestCalculateScore_NoDimensions(t *testing.T) {
	agg := &models.PropertyAggregate{ContributionCount: 1}
	assert.Equal(t, 0, CalculateScore(agg))
}

func TestCalculateScore_WifiCapsAtHundredMbps(t *testing.T) {
	fast := &models.PropertyAggregate{AvgWifiDownload: fPtr(400), WifiTestCount: 1}
	exact := &models.PropertyAggregate{AvgWifiDownload: fPtr(100), WifiTestCount: 1}
	assert.Equal(t, CalculateScore(exact), CalculateScore(fast))
	assert.Equal(t, 100, CalculateScore(fast))
}

func TestCalculateScore_NoiseMapping(t *testing.T) {
	quiet := &models.PropertyAggregate{AvgNoiseLevel: fPtr(1), NoiseTestCount: 1}
	loud := &models.PropertyAggregate{AvgNoiseLevel: fPtr(5), NoiseTestCount: 1}
	assert.Equal(t, 100, CalculateScore(quiet))
	assert.Equal(t, 20, CalculateScore(loud))
}

func TestCalculateScore_AmenityDenominatorIsAlwaysFive(t *testing.T) {
	// One answered amenity, confirmed true: still only 1/5 of the dimension.
	agg := &models.PropertyAggregate{HasHotWater: bPtr(true)}
	assert.Equal(t, 20, CalculateScore(agg))
}

func TestCalculateScore_PhotoCapsAtFive(t *testing.T) {
	many := &models.PropertyAggregate{PhotoCount: 50}
	five := &models.PropertyAggregate{PhotoCount: 5}
	assert.Equal(t, CalculateScore(five), CalculateScore(many))
	assert.Equal(t, 100, CalculateScore(many))
}

func TestCalculateConfidence(t *testing.T) {
	assert.InDelta(t, 1.0/3, CalculateConfidence(1), 1e-9)
	assert.InDelta(t, 2.0/3, CalculateConfidence(2), 1e-9)
	assert.Equal(t, 1.0, CalculateConfidence(3))
	assert.Equal(t, 1.0, CalculateConfidence(10))
}
