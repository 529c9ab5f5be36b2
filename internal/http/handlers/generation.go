package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/adcopy-backend/internal/compliance"
	types "github.com/yungbote/adcopy-backend/internal/domain"
	"github.com/yungbote/adcopy-backend/internal/http/response"
	"github.com/yungbote/adcopy-backend/internal/observability"
	"github.com/yungbote/adcopy-backend/internal/services"
)

type GenerationHandler struct {
	generation services.GenerationContextService
	metrics    *observability.Metrics
	limits     Limits
}

func NewGenerationHandler(generation services.GenerationContextService, metrics *observability.Metrics, limits Limits) *GenerationHandler {
	return &GenerationHandler{generation: generation, metrics: metrics, limits: limits}
}

type generationContextRequest struct {
	Intent   types.Intent `json:"intent"`
	Limit    *int         `json:"limit"`
	Platform string       `json:"platform"`
	AdType   string       `json:"ad_type"`
}

// POST /api/generation/context
func (h *GenerationHandler) Context(c *gin.Context) {
	var req generationContextRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, err, "invalid_request")
		return
	}
	limit, err := h.limits.resolve(req.Limit)
	if err != nil {
		response.RespondAPIError(c, err, "invalid_limit")
		return
	}

	out := h.generation.Prepare(c.Request.Context(), services.PrepareInput{
		Intent:   req.Intent,
		Limit:    limit,
		Platform: req.Platform,
		AdType:   req.AdType,
	})
	h.metrics.ObserveSelection(out.Degraded, len(out.Examples))
	response.RespondOK(c, gin.H{
		"examples":         out.Examples,
		"examples_block":   out.ExamplesBlock,
		"compliance_block": out.ComplianceBlock,
		"system_prompt":    out.SystemPrompt,
		"degraded":         out.Degraded,
	})
}

type reviewRequest struct {
	CopyText  string `json:"copy_text"`
	Platform  string `json:"platform"`
	AdType    string `json:"ad_type"`
	FieldType string `json:"field_type"`
}

// POST /api/generation/review
func (h *GenerationHandler) Review(c *gin.Context) {
	var req reviewRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, err, "invalid_request")
		return
	}
	if err := requireText("invalid_field_type", "field_type", req.FieldType); err != nil {
		response.RespondAPIError(c, err, "invalid_field_type")
		return
	}

	out := h.generation.Review(c.Request.Context(), services.ReviewInput{
		CopyText:  req.CopyText,
		Platform:  req.Platform,
		AdType:    req.AdType,
		FieldType: compliance.ParseFieldType(req.FieldType),
	})
	h.metrics.ObserveCompliance(out.Report.Platform, out.Report.Known, out.Report.Compliant)
	response.RespondOK(c, gin.H{
		"report": out.Report,
		"retry":  out.Retry,
	})
}
