// internal/embeddings/embeddings_test.go
package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staytruth-engine/internal/common/config"
	apperrors "staytruth-engine/internal/common/errors"
	"staytruth-engine/internal/common/logger"
	"staytruth-engine/internal/models"
)

func strPtr(s string) *string { return &s }

func TestBuildText(t *testing.T) {
	tests := []struct {
		name     string
		content  models.PropertyContent
		expected string
	}{
		{
			name: "full content",
			content: models.PropertyContent{
				Name:        "Hotel Aurora",
				Description: strPtr("Boutique stay near the old town"),
				Amenities:   []string{"wifi", "pool", "gym"},
			},
			expected: "Hotel Aurora. Boutique stay near the old town. Amenities: wifi, pool, gym",
		},
		{
			name:     "name only",
			content:  models.PropertyContent{Name: "Casa Verde"},
			expected: "Casa Verde",
		},
		{
			name: "empty description skipped",
			content: models.PropertyContent{
				Name:        "Casa Verde",
				Description: strPtr(""),
				Amenities:   []string{"wifi"},
			},
			expected: "Casa Verde. Amenities: wifi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildText(&tt.content))
		})
	}
}

func newTestClient(url string, dims int) *Client {
	return NewClient(&config.EmbeddingsConfig{
		BaseURL:    url,
		APIKey:     "test-key",
		Model:      "text-embedding-3-small",
		Dimensions: dims,
		Timeout:    2000,
	}, logger.NewNoOpLogger())
}

func TestEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text-embedding-3-small", req["model"])
		assert.Equal(t, "Hotel Aurora", req["input"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"embedding": []float64{0.1, 0.2, 0.3}},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 3)
	vec, err := c.Embed(context.Background(), "Hotel Aurora")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vec)
}

func TestEmbed_DimensionMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"embedding": []float64{0.1, 0.2}},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 3)
	_, err := c.Embed(context.Background(), "x")
	require.Error(t, err)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeEmbeddingDimension, stdErr.Code)
	assert.False(t, stdErr.Retryable)
}

func TestEmbed_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream overloaded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 3)
	_, err := c.Embed(context.Background(), "x")
	require.Error(t, err)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeEmbeddingAPIFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestEmbed_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(&config.EmbeddingsConfig{
		BaseURL: srv.URL,
		Model:   "text-embedding-3-small",
		Timeout: 20,
	}, logger.NewNoOpLogger())

	_, err := c.Embed(context.Background(), "x")
	require.Error(t, err)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeEmbeddingAPITimeout, stdErr.Code)
}

func TestEmbed_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 3)
	_, err := c.Embed(context.Background(), "x")
	assert.Error(t, err)
}
