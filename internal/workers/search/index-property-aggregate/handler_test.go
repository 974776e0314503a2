// internal/workers/search/index-property-aggregate/handler_test.go
package indexpropertyaggregate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "staytruth-engine/internal/common/errors"
	"staytruth-engine/internal/common/logger"
	"staytruth-engine/internal/models"
)

func iPtr(v int) *int         { return &v }
func fPtr(v float64) *float64 { return &v }

func newTestES(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

func sampleAggregate() *models.PropertyAggregate {
	return &models.PropertyAggregate{
		PropertyID:        "prop-1",
		TruthScore:        iPtr(59),
		TruthConfidence:   fPtr(1.0),
		ContributionCount: 3,
		AvgWifiDownload:   fPtr(70),
		CommunityRating:   fPtr(14.0 / 3),
		PhotoCount:        2,
		UpdatedAt:         time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestIndexAggregate(t *testing.T) {
	var gotPath string
	var gotDoc map[string]interface{}

	client := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotDoc)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"result":"created"}`))
	})

	h := NewHandler(client, "properties", logger.NewNoOpLogger())
	err := h.IndexAggregate(context.Background(), sampleAggregate())
	require.NoError(t, err)

	assert.Equal(t, "/properties/_doc/prop-1", gotPath)
	assert.Equal(t, "prop-1", gotDoc["propertyId"])
	assert.Equal(t, float64(59), gotDoc["truthScore"])
	assert.Equal(t, float64(3), gotDoc["contributionCount"])
	assert.Equal(t, "2026-08-01T12:00:00Z", gotDoc["updatedAt"])
}

func TestIndexAggregate_ServerError(t *testing.T) {
	client := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"shard failure"}`))
	})

	h := NewHandler(client, "properties", logger.NewNoOpLogger())
	err := h.IndexAggregate(context.Background(), sampleAggregate())
	require.Error(t, err)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeSearchIndexFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestIndexAggregate_NullScoreIndexedAsNull(t *testing.T) {
	var gotDoc map[string]interface{}
	client := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotDoc)
		w.Write([]byte(`{"result":"updated"}`))
	})

	agg := sampleAggregate()
	agg.TruthScore = nil
	agg.TruthConfidence = nil

	h := NewHandler(client, "properties", logger.NewNoOpLogger())
	require.NoError(t, h.IndexAggregate(context.Background(), agg))

	_, hasScore := gotDoc["truthScore"]
	assert.True(t, hasScore)
	assert.Nil(t, gotDoc["truthScore"])
}
