package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/adcopy-backend/internal/compliance"
	"github.com/yungbote/adcopy-backend/internal/http/response"
	"github.com/yungbote/adcopy-backend/internal/observability"
)

type ComplianceHandler struct {
	validator *compliance.Validator
	metrics   *observability.Metrics
}

func NewComplianceHandler(validator *compliance.Validator, metrics *observability.Metrics) *ComplianceHandler {
	return &ComplianceHandler{validator: validator, metrics: metrics}
}

type validateRequest struct {
	CopyText  string `json:"copy_text"`
	Platform  string `json:"platform"`
	AdType    string `json:"ad_type"`
	FieldType string `json:"field_type"`
}

// POST /api/compliance/validate
func (h *ComplianceHandler) Validate(c *gin.Context) {
	var req validateRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, err, "invalid_request")
		return
	}
	if err := requireText("invalid_platform", "platform", req.Platform); err != nil {
		response.RespondAPIError(c, err, "invalid_platform")
		return
	}
	if err := requireText("invalid_field_type", "field_type", req.FieldType); err != nil {
		response.RespondAPIError(c, err, "invalid_field_type")
		return
	}

	rep := h.validator.ValidateAdType(req.CopyText, req.Platform, req.AdType, compliance.ParseFieldType(req.FieldType))
	h.metrics.ObserveCompliance(rep.Platform, rep.Known, rep.Compliant)
	response.RespondOK(c, gin.H{"report": rep})
}

// GET /api/compliance/platforms
func (h *ComplianceHandler) ListPlatforms(c *gin.Context) {
	table := h.validator.Table()
	response.RespondOK(c, gin.H{
		"version":   table.Version(),
		"platforms": table.Platforms(),
	})
}
