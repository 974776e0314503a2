// internal/embeddings/embeddings.go
package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"staytruth-engine/internal/common/config"
	apperrors "staytruth-engine/internal/common/errors"
	"staytruth-engine/internal/common/logger"
	"staytruth-engine/internal/models"
)

// ==========================
// 1. Provider Interface
// ==========================

// Provider turns property text into a fixed-dimensionality vector.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Dimensions() int
}

// BuildText assembles the canonical embedding input for a property:
// name, description, then the amenity list. The same property content
// always yields the same text, so re-embedding is deterministic.
func BuildText(p *models.PropertyContent) string {
	var b strings.Builder
	b.WriteString(p.Name)
	if p.Description != nil && *p.Description != "" {
		b.WriteString(". ")
		b.WriteString(*p.Description)
	}
	if len(p.Amenities) > 0 {
		b.WriteString(". Amenities: ")
		b.WriteString(strings.Join(p.Amenities, ", "))
	}
	return b.String()
}

// ==========================
// 2. HTTP Client
// ==========================

// Client calls an OpenAI-compatible embeddings endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	dimensions int
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(cfg *config.EmbeddingsConfig, log logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		httpClient: &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Millisecond},
		logger:     log.WithFields(map[string]interface{}{"component": "embeddings-client"}),
	}
}

func (c *Client) Dimensions() int {
	return c.dimensions
}

type embedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Embed requests one embedding for the given text. The vector dimensionality
// is validated against the configured size before it is returned; a mismatch
// is a hard failure rather than something to silently store.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(embedRequest{Model: c.model, Input: text})
	if err != nil {
		return nil, apperrors.NewEmbeddingAPIFailedError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewEmbeddingAPIFailedError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded || isTimeout(err) {
			return nil, apperrors.NewEmbeddingAPITimeoutError()
		}
		return nil, apperrors.NewEmbeddingAPIFailedError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewEmbeddingAPIFailedError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewEmbeddingAPIFailedError(
			fmt.Errorf("embeddings endpoint returned %d: %s", resp.StatusCode, truncate(string(raw), 200)))
	}

	var parsed embedResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, apperrors.NewEmbeddingAPIFailedError(err)
	}
	if parsed.Error != nil {
		return nil, apperrors.NewEmbeddingAPIFailedError(fmt.Errorf("%s", parsed.Error.Message))
	}
	if len(parsed.Data) == 0 {
		return nil, apperrors.NewEmbeddingAPIFailedError(fmt.Errorf("empty data array in response"))
	}

	vec := parsed.Data[0].Embedding
	if c.dimensions > 0 && len(vec) != c.dimensions {
		return nil, apperrors.NewEmbeddingDimensionError(c.dimensions, len(vec))
	}
	return vec, nil
}

func isTimeout(err error) bool {
	type timeouter interface{ Timeout() bool }
	for e := err; e != nil; {
		if t, ok := e.(timeouter); ok && t.Timeout() {
			return true
		}
		type unwrapper interface{ Unwrap() error }
		u, ok := e.(unwrapper)
		if !ok {
			return false
		}
		e = u.Unwrap()
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
