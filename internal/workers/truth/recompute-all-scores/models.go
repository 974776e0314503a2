// internal/workers/truth/recompute-all-scores/models.go
package recomputeallscores

import (
	"context"

	computetruthscore "staytruth-engine/internal/workers/truth/compute-truth-score"
)

type Input struct {
	// Concurrency overrides the configured pool size when positive.
	Concurrency int `json:"concurrency,omitempty"`
}

type Output struct {
	Total     int `json:"total"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// PropertyIDLister supplies the batch work list.
type PropertyIDLister interface {
	DistinctVerifiedPropertyIDs(ctx context.Context) ([]string, error)
}

// Scorer recomputes a single property. Satisfied by the scoring handler.
type Scorer interface {
	Execute(ctx context.Context, input *computetruthscore.Input) (*computetruthscore.Output, error)
}
