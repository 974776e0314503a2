// internal/workers/truth/compute-truth-score/handler_test.go
package computetruthscore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "staytruth-engine/internal/common/errors"
	"staytruth-engine/internal/common/logger"
	"staytruth-engine/internal/models"
)

type fakeContributions struct {
	byProperty map[string][]models.Contribution
	err        error
}

func (f *fakeContributions) ListVerifiedByProperty(ctx context.Context, propertyID string) ([]models.Contribution, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byProperty[propertyID], nil
}

type fakeProperties struct {
	written []*models.PropertyAggregate
	err     error
}

func (f *fakeProperties) UpdateAggregate(ctx context.Context, agg *models.PropertyAggregate) error {
	if f.err != nil {
		return f.err
	}
	f.written = append(f.written, agg)
	return nil
}

type fakeCache struct {
	invalidated []string
}

func (f *fakeCache) Invalidate(ctx context.Context, propertyID string) {
	f.invalidated = append(f.invalidated, propertyID)
}

type fakeIndexer struct {
	indexed []*models.PropertyAggregate
	err     error
}

func (f *fakeIndexer) IndexAggregate(ctx context.Context, agg *models.PropertyAggregate) error {
	if f.err != nil {
		return f.err
	}
	f.indexed = append(f.indexed, agg)
	return nil
}

func scenarioContributions() []models.Contribution {
	return []models.Contribution{
		{
			ID: "c1", PropertyID: "prop-1", Verified: true,
			WifiDownloadMbps: fPtr(80), NoiseLevel: iPtr(2),
			HotWaterReliable: bPtr(true), OverallRating: iPtr(5),
		},
		{
			ID: "c2", PropertyID: "prop-1", Verified: true,
			WifiDownloadMbps: fPtr(60),
			HotWaterReliable: bPtr(true), OverallRating: iPtr(4),
		},
		{
			ID: "c3", PropertyID: "prop-1", Verified: true,
			NoiseLevel:       iPtr(1),
			HotWaterReliable: bPtr(false), OverallRating: iPtr(5),
			PhotoCount: 2,
		},
	}
}

func newTestHandler(contributions *fakeContributions, properties *fakeProperties, cache *fakeCache, indexer *fakeIndexer) *Handler {
	return NewHandler(LoadConfig(), contributions, properties, cache, indexer, logger.NewNoOpLogger())
}

func TestExecute(t *testing.T) {
	contributions := &fakeContributions{byProperty: map[string][]models.Contribution{
		"prop-1": scenarioContributions(),
	}}
	properties := &fakeProperties{}
	cache := &fakeCache{}
	indexer := &fakeIndexer{}

	h := newTestHandler(contributions, properties, cache, indexer)
	out, err := h.Execute(context.Background(), &Input{PropertyID: "prop-1"})
	require.NoError(t, err)

	assert.True(t, out.Updated)
	assert.Equal(t, 59, *out.TruthScore)
	assert.Equal(t, 1.0, *out.TruthConfidence)
	assert.Equal(t, 3, out.ContributionCount)

	require.Len(t, properties.written, 1)
	written := properties.written[0]
	assert.Equal(t, "prop-1", written.PropertyID)
	assert.Equal(t, 59, *written.TruthScore)
	assert.InDelta(t, 70.0, *written.AvgWifiDownload, 1e-9)
	assert.True(t, *written.HasHotWater)
	assert.Nil(t, written.HasBlackoutCurtains)
	assert.Equal(t, 2, written.PhotoCount)

	assert.Equal(t, []string{"prop-1"}, cache.invalidated)
	require.Len(t, indexer.indexed, 1)
	assert.Equal(t, "prop-1", indexer.indexed[0].PropertyID)
}

func TestExecute_NoVerifiedContributionsSkipsWrite(t *testing.T) {
	contributions := &fakeContributions{byProperty: map[string][]models.Contribution{}}
	properties := &fakeProperties{}
	cache := &fakeCache{}
	indexer := &fakeIndexer{}

	h := newTestHandler(contributions, properties, cache, indexer)
	out, err := h.Execute(context.Background(), &Input{PropertyID: "prop-quiet"})
	require.NoError(t, err)

	assert.False(t, out.Updated)
	assert.Nil(t, out.TruthScore)
	assert.Nil(t, out.TruthConfidence)
	assert.Empty(t, properties.written)
	assert.Empty(t, cache.invalidated)
	assert.Empty(t, indexer.indexed)
}

func TestExecute_WriteFailureSurfaces(t *testing.T) {
	contributions := &fakeContributions{byProperty: map[string][]models.Contribution{
		"prop-1": scenarioContributions(),
	}}
	properties := &fakeProperties{err: apperrors.NewPropertyNotFoundError("prop-1")}

	h := newTestHandler(contributions, properties, &fakeCache{}, &fakeIndexer{})
	_, err := h.Execute(context.Background(), &Input{PropertyID: "prop-1"})
	require.Error(t, err)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodePropertyNotFound, stdErr.Code)
}

func TestExecute_IndexFailureDoesNotFailJob(t *testing.T) {
	contributions := &fakeContributions{byProperty: map[string][]models.Contribution{
		"prop-1": scenarioContributions(),
	}}
	properties := &fakeProperties{}
	indexer := &fakeIndexer{err: apperrors.NewSearchIndexFailedError("prop-1", assert.AnError)}

	h := newTestHandler(contributions, properties, &fakeCache{}, indexer)
	out, err := h.Execute(context.Background(), &Input{PropertyID: "prop-1"})
	require.NoError(t, err)
	assert.True(t, out.Updated)
	require.Len(t, properties.written, 1)
}

func TestExecute_Idempotent(t *testing.T) {
	contributions := &fakeContributions{byProperty: map[string][]models.Contribution{
		"prop-1": scenarioContributions(),
	}}
	properties := &fakeProperties{}

	h := newTestHandler(contributions, properties, &fakeCache{}, &fakeIndexer{})
	first, err := h.Execute(context.Background(), &Input{PropertyID: "prop-1"})
	require.NoError(t, err)
	second, err := h.Execute(context.Background(), &Input{PropertyID: "prop-1"})
	require.NoError(t, err)

	assert.Equal(t, *first.TruthScore, *second.TruthScore)
	assert.Equal(t, *first.TruthConfidence, *second.TruthConfidence)
	require.Len(t, properties.written, 2)
	assert.Equal(t, *properties.written[0].TruthScore, *properties.written[1].TruthScore)
}

func TestExecute_MissingPropertyID(t *testing.T) {
	h := newTestHandler(&fakeContributions{}, &fakeProperties{}, &fakeCache{}, &fakeIndexer{})
	_, err := h.Execute(context.Background(), &Input{})
	assert.Error(t, err)
}
