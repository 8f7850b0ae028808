// Package handler exposes the lead conversion HTTP endpoints.
package handler

import (
	"context"
	"net/http"

	"participant_portal_backend/internal/leads/transport"
	"participant_portal_backend/platform/apperr"
	"participant_portal_backend/platform/httpkit"
	"participant_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgBatchFailed      = "batch processing failed"
)

// ConversionService is the service contract the handler depends on.
type ConversionService interface {
	ConvertParticipation(ctx context.Context, caller httpkit.Identity, req transport.CreateLeadRequest) (transport.CreateLeadResponse, error)
	ConvertBatch(ctx context.Context, caller httpkit.Identity, req transport.BatchConvertRequest) (transport.BatchConvertResponse, error)
}

type Handler struct {
	svc ConversionService
	val *validator.Validator
}

func New(svc ConversionService, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/create-lead", h.CreateLead)
	rg.PUT("/create-lead", h.CreateLeadBatch)
}

// CreateLead converts one participation into a new lead.
func (h *Handler) CreateLead(c *gin.Context) {
	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpkit.ErrorResponse{
			Error: msgInvalidRequest,
			Code:  apperr.CodeInvalidInput,
		})
		return
	}
	if err := h.val.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, httpkit.ErrorResponse{
			Error:   msgValidationFailed,
			Code:    apperr.CodeInvalidInput,
			Details: validator.FieldErrors(err),
		})
		return
	}

	resp, err := h.svc.ConvertParticipation(c.Request.Context(), httpkit.GetIdentity(c), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, resp)
}

// CreateLeadBatch converts a list of participations automatically.
// A malformed top-level body is an operation failure, not an item failure,
// and returns 500 with no partial summary.
func (h *Handler) CreateLeadBatch(c *gin.Context) {
	var req transport.BatchConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusInternalServerError, httpkit.ErrorResponse{
			Error: msgBatchFailed,
			Code:  apperr.CodeInternal,
		})
		return
	}

	resp, err := h.svc.ConvertBatch(c.Request.Context(), httpkit.GetIdentity(c), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resp)
}
