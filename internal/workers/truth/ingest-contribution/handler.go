// internal/workers/truth/ingest-contribution/handler.go
package ingestcontribution

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "staytruth-engine/internal/common/errors"
	"staytruth-engine/internal/common/logger"
	"staytruth-engine/internal/common/metrics"
	"staytruth-engine/internal/models"
	computetruthscore "staytruth-engine/internal/workers/truth/compute-truth-score"
)

const (
	TaskType = "ingest-contribution"
)

// Handler records a post-stay contribution, issues the contributor's reward
// code, and triggers the property's score recompute. Contributions arrive
// from completed bookings, so they are auto-verified on insert.
type Handler struct {
	config        *Config
	contributions ContributionWriter
	discounts     DiscountWriter
	scorer        Scorer
	logger        logger.Logger
}

func NewHandler(config *Config, contributions ContributionWriter, discounts DiscountWriter, scorer Scorer, log logger.Logger) *Handler {
	return &Handler{
		config:        config,
		contributions: contributions,
		discounts:     discounts,
		scorer:        scorer,
		logger:        log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()

	if err := ValidateInput(input); err != nil {
		metrics.EngineJobsFailed.WithLabelValues(TaskType, string(apperrors.ErrCodeContributionValidationFailed)).Inc()
		return nil, err
	}

	exists, err := h.contributions.ExistsForBooking(ctx, input.BookingID)
	if err != nil {
		metrics.EngineJobsFailed.WithLabelValues(TaskType, string(apperrors.ErrCodeQueryExecutionFailed)).Inc()
		return nil, err
	}
	if exists {
		metrics.EngineJobsFailed.WithLabelValues(TaskType, string(apperrors.ErrCodeDuplicateContribution)).Inc()
		return nil, apperrors.NewDuplicateContributionError(input.BookingID)
	}

	now := time.Now().UTC()
	code := generateDiscountCode(now)
	validUntil := now.Add(h.config.DiscountValidity)

	if err := h.discounts.InsertDiscountCode(ctx, code, h.config.DiscountRate, validUntil); err != nil {
		metrics.EngineJobsFailed.WithLabelValues(TaskType, string(apperrors.ErrCodeQueryExecutionFailed)).Inc()
		return nil, err
	}

	contribution := &models.Contribution{
		ID:               uuid.New().String(),
		PropertyID:       input.PropertyID,
		UserID:           input.UserID,
		BookingID:        input.BookingID,
		WifiDownloadMbps: input.WifiDownloadMbps,
		WifiUploadMbps:   input.WifiUploadMbps,
		NoiseLevel:       input.NoiseLevel,
		HotWaterReliable: input.HotWaterReliable,
		BlackoutCurtains: input.BlackoutCurtains,
		QuietAtNight:     input.QuietAtNight,
		ACWorksWell:      input.ACWorksWell,
		WorkDeskPresent:  input.WorkDeskPresent,
		OverallRating:    input.OverallRating,
		PhotoCount:       len(input.PhotoURLs),
		AdditionalNotes:  input.AdditionalNotes,
		DiscountCode:     code,
		Verified:         true,
		VerifiedAt:       &now,
		CreatedAt:        now,
	}

	if err := h.contributions.Insert(ctx, contribution); err != nil {
		metrics.EngineJobsFailed.WithLabelValues(TaskType, string(apperrors.ErrCodeQueryExecutionFailed)).Inc()
		return nil, err
	}

	if len(input.PhotoURLs) > 0 {
		if err := h.contributions.InsertPhotos(ctx, contribution.ID, input.PhotoURLs); err != nil {
			metrics.EngineJobsFailed.WithLabelValues(TaskType, string(apperrors.ErrCodeQueryExecutionFailed)).Inc()
			return nil, err
		}
	}

	// The contribution is committed at this point. A recompute failure is
	// logged but never unwinds the ingest; the next recompute sweep picks
	// the property up anyway.
	recomputed := true
	if _, err := h.scorer.Execute(ctx, &computetruthscore.Input{PropertyID: input.PropertyID}); err != nil {
		recomputed = false
		h.logger.Error("truth score recompute after ingest failed", map[string]interface{}{
			"propertyId": input.PropertyID,
			"error":      err,
		})
	}

	metrics.EngineJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.EngineJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())

	h.logger.Info("contribution ingested", map[string]interface{}{
		"contributionId": contribution.ID,
		"propertyId":     input.PropertyID,
		"bookingId":      input.BookingID,
		"photos":         len(input.PhotoURLs),
	})

	return &Output{
		ContributionID:     contribution.ID,
		DiscountCode:       code,
		DiscountValidUntil: validUntil,
		ScoreRecomputed:    recomputed,
	}, nil
}

const codeCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// generateDiscountCode builds a TRUTH-<timestamp>-<suffix> code. The
// base36 millisecond timestamp keeps codes roughly sortable by issue time.
func generateDiscountCode(now time.Time) string {
	stamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return "TRUTH-" + stamp + "-" + string(suffix)
}
