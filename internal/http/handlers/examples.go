package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/adcopy-backend/internal/domain"
	"github.com/yungbote/adcopy-backend/internal/http/response"
	"github.com/yungbote/adcopy-backend/internal/modules/adcopy/prompts"
	"github.com/yungbote/adcopy-backend/internal/observability"
	"github.com/yungbote/adcopy-backend/internal/services"
)

type ExampleHandler struct {
	selector services.ExampleSelector
	metrics  *observability.Metrics
	limits   Limits
}

func NewExampleHandler(selector services.ExampleSelector, metrics *observability.Metrics, limits Limits) *ExampleHandler {
	return &ExampleHandler{selector: selector, metrics: metrics, limits: limits}
}

type selectExamplesRequest struct {
	Intent types.Intent `json:"intent"`
	Limit  *int         `json:"limit"`
}

// POST /api/examples/select
func (h *ExampleHandler) Select(c *gin.Context) {
	var req selectExamplesRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, err, "invalid_request")
		return
	}
	limit, err := h.limits.resolve(req.Limit)
	if err != nil {
		response.RespondAPIError(c, err, "invalid_limit")
		return
	}

	sel := h.selector.Select(c.Request.Context(), req.Intent, limit)
	h.metrics.ObserveSelection(sel.Degraded, len(sel.Examples))
	response.RespondOK(c, gin.H{
		"examples":     sel.Examples,
		"prompt_block": prompts.BuildExamplesBlock(sel.Examples),
		"degraded":     sel.Degraded,
	})
}
