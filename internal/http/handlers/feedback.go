package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/adcopy-backend/internal/http/response"
	"github.com/yungbote/adcopy-backend/internal/observability"
	"github.com/yungbote/adcopy-backend/internal/platform/apierr"
	"github.com/yungbote/adcopy-backend/internal/services"
)

const headerIdempotencyKey = "Idempotency-Key"

type FeedbackHandler struct {
	feedback services.FeedbackService
	metrics  *observability.Metrics
}

func NewFeedbackHandler(feedback services.FeedbackService, metrics *observability.Metrics) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback, metrics: metrics}
}

type recordUsageRequest struct {
	ExampleIDs []string `json:"example_ids"`
}

// POST /api/copies/:copy_id/usage
func (h *FeedbackHandler) RecordUsage(c *gin.Context) {
	copyID := strings.TrimSpace(c.Param("copy_id"))
	if err := requireText("invalid_copy_id", "copy_id", copyID); err != nil {
		response.RespondAPIError(c, err, "invalid_copy_id")
		return
	}
	var req recordUsageRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, err, "invalid_request")
		return
	}
	ids := make([]uuid.UUID, 0, len(req.ExampleIDs))
	for _, raw := range req.ExampleIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			response.RespondAPIError(c, apierr.Invalid("invalid_example_id", "example_ids", fmt.Errorf("%q: %w", raw, err)), "invalid_example_id")
			return
		}
		ids = append(ids, id)
	}

	out := h.feedback.RecordUsage(c.Request.Context(), copyID, ids)
	h.metrics.AddUsageRecorded(out.Recorded)
	response.RespondOK(c, gin.H{
		"recorded": out.Recorded,
		"degraded": out.Degraded,
	})
}

type feedbackRequest struct {
	Rating               int      `json:"rating"`
	ActualCTR            *float64 `json:"actual_ctr"`
	ActualConversionRate *float64 `json:"actual_conversion_rate"`
}

// POST /api/copies/:copy_id/feedback
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	copyID := strings.TrimSpace(c.Param("copy_id"))
	if err := requireText("invalid_copy_id", "copy_id", copyID); err != nil {
		response.RespondAPIError(c, err, "invalid_copy_id")
		return
	}
	var req feedbackRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, err, "invalid_request")
		return
	}
	for _, err := range []error{
		validateRating(req.Rating),
		validateRate("actual_ctr", req.ActualCTR),
		validateRate("actual_conversion_rate", req.ActualConversionRate),
	} {
		if err != nil {
			response.RespondAPIError(c, err, "invalid_request")
			return
		}
	}

	out := h.feedback.ApplyFeedback(c.Request.Context(), services.FeedbackInput{
		CopyID:               copyID,
		Rating:               req.Rating,
		ActualCTR:            req.ActualCTR,
		ActualConversionRate: req.ActualConversionRate,
		IdempotencyKey:       c.GetHeader(headerIdempotencyKey),
	})
	h.metrics.ObserveFeedback(feedbackOutcomeLabel(out), string(out.Adjustment))
	response.RespondOK(c, gin.H{
		"applied":    out.Applied,
		"skipped":    out.Skipped,
		"degraded":   out.Degraded,
		"linked":     out.Linked,
		"adjustment": out.Adjustment,
	})
}

func feedbackOutcomeLabel(out services.FeedbackOutcome) string {
	switch {
	case out.Degraded:
		return "degraded"
	case out.Skipped:
		return "skipped"
	default:
		return "applied"
	}
}
