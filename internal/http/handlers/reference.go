package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/adcopy-backend/internal/domain"
	"github.com/yungbote/adcopy-backend/internal/http/response"
	"github.com/yungbote/adcopy-backend/internal/platform/apierr"
	"github.com/yungbote/adcopy-backend/internal/services"
)

type ReferenceHandler struct {
	admin services.ReferenceAdminService
}

func NewReferenceHandler(admin services.ReferenceAdminService) *ReferenceHandler {
	return &ReferenceHandler{admin: admin}
}

type createReferenceRequest struct {
	CopyText      string   `json:"copy_text"`
	Headline      *string  `json:"headline"`
	Description   *string  `json:"description"`
	Category      string   `json:"category"`
	Brand         *string  `json:"brand"`
	Industry      *string  `json:"industry"`
	Formula       string   `json:"formula"`
	Triggers      []string `json:"triggers"`
	QualityRating int      `json:"quality_rating"`
}

// POST /api/references
func (h *ReferenceHandler) Create(c *gin.Context) {
	var req createReferenceRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, err, "invalid_request")
		return
	}
	row, err := h.admin.CreateManual(c.Request.Context(), services.ManualReferenceInput{
		CopyText:      req.CopyText,
		Headline:      req.Headline,
		Description:   req.Description,
		Category:      req.Category,
		Brand:         req.Brand,
		Industry:      req.Industry,
		Formula:       req.Formula,
		Triggers:      req.Triggers,
		QualityRating: req.QualityRating,
	})
	if err != nil {
		response.RespondAPIError(c, mapReferenceError(err), "create_reference_failed")
		return
	}
	response.RespondCreated(c, gin.H{"reference": row})
}

// GET /api/references/:id
func (h *ReferenceHandler) Get(c *gin.Context) {
	h.withID(c, "load_reference_failed", h.admin.Get)
}

// PUT /api/references/:id/pin
func (h *ReferenceHandler) Pin(c *gin.Context) {
	h.withID(c, "pin_reference_failed", h.admin.Pin)
}

// DELETE /api/references/:id/pin
func (h *ReferenceHandler) Unpin(c *gin.Context) {
	h.withID(c, "unpin_reference_failed", h.admin.Unpin)
}

// POST /api/references/:id/deactivate
func (h *ReferenceHandler) Deactivate(c *gin.Context) {
	h.withID(c, "deactivate_reference_failed", h.admin.Deactivate)
}

func (h *ReferenceHandler) withID(c *gin.Context, failCode string, fn func(ctx context.Context, id uuid.UUID) (*types.ReferenceExample, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_reference_id", err)
		return
	}
	row, err := fn(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, mapReferenceError(err), failCode)
		return
	}
	response.RespondOK(c, gin.H{"reference": row})
}

func mapReferenceError(err error) error {
	switch {
	case errors.Is(err, services.ErrReferenceNotFound):
		return apierr.NotFound("reference_not_found", err)
	case errors.Is(err, services.ErrManualEntryLocked):
		return apierr.Conflict("manual_entry_locked", err)
	case errors.Is(err, services.ErrInvalidReference):
		return apierr.Invalid("invalid_reference", "copy_text", errors.New("is required"))
	default:
		return err
	}
}
