// internal/workers/truth/recompute-all-scores/handler_test.go
package recomputeallscores

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staytruth-engine/internal/common/logger"
	computetruthscore "staytruth-engine/internal/workers/truth/compute-truth-score"
)

type fakeLister struct {
	ids []string
	err error
}

func (f *fakeLister) DistinctVerifiedPropertyIDs(ctx context.Context) ([]string, error) {
	return f.ids, f.err
}

type fakeScorer struct {
	mu      sync.Mutex
	scored  []string
	failFor map[string]error
}

func (f *fakeScorer) Execute(ctx context.Context, input *computetruthscore.Input) (*computetruthscore.Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[input.PropertyID]; ok {
		return nil, err
	}
	f.scored = append(f.scored, input.PropertyID)
	return &computetruthscore.Output{PropertyID: input.PropertyID, Updated: true}, nil
}

func TestExecute_AllProcessed(t *testing.T) {
	lister := &fakeLister{ids: []string{"p1", "p2", "p3", "p4", "p5"}}
	scorer := &fakeScorer{}

	h := NewHandler(LoadConfig(), lister, scorer, logger.NewNoOpLogger())
	out, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.Equal(t, 5, out.Total)
	assert.Equal(t, 5, out.Processed)
	assert.Equal(t, 0, out.Failed)
	assert.ElementsMatch(t, lister.ids, scorer.scored)
}

func TestExecute_FailedPropertyIsSkippedNotFatal(t *testing.T) {
	lister := &fakeLister{ids: []string{"p1", "p2", "p3"}}
	scorer := &fakeScorer{failFor: map[string]error{"p2": errors.New("write failed")}}

	h := NewHandler(LoadConfig(), lister, scorer, logger.NewNoOpLogger())
	out, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.Equal(t, 3, out.Total)
	assert.Equal(t, 2, out.Processed)
	assert.Equal(t, 1, out.Failed)
	assert.ElementsMatch(t, []string{"p1", "p3"}, scorer.scored)
}

func TestExecute_EmptyWorkList(t *testing.T) {
	h := NewHandler(LoadConfig(), &fakeLister{}, &fakeScorer{}, logger.NewNoOpLogger())
	out, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Total)
	assert.Equal(t, 0, out.Processed)
	assert.Equal(t, 0, out.Failed)
}

func TestExecute_ListerErrorSurfaces(t *testing.T) {
	lister := &fakeLister{err: errors.New("db down")}
	h := NewHandler(LoadConfig(), lister, &fakeScorer{}, logger.NewNoOpLogger())
	_, err := h.Execute(context.Background(), &Input{})
	assert.Error(t, err)
}

func TestExecute_ConcurrencyOverride(t *testing.T) {
	ids := make([]string, 50)
	for i := range ids {
		ids[i] = string(rune('a' + i%26))
	}
	// Unique IDs so the assertion below is meaningful.
	for i := range ids {
		ids[i] = ids[i] + string(rune('0'+i/26))
	}

	lister := &fakeLister{ids: ids}
	scorer := &fakeScorer{}

	h := NewHandler(LoadConfig(), lister, scorer, logger.NewNoOpLogger())
	out, err := h.Execute(context.Background(), &Input{Concurrency: 1})
	require.NoError(t, err)
	assert.Equal(t, 50, out.Processed)
}
