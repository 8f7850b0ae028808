// Package handler exposes the auth HTTP endpoints.
package handler

import (
	"net/http"

	"participant_portal_backend/internal/auth/service"
	"participant_portal_backend/platform/apperr"
	"participant_portal_backend/platform/httpkit"
	"participant_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)
}

// Login verifies credentials and returns a bearer token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpkit.ErrorResponse{
			Error: "invalid request",
			Code:  apperr.CodeInvalidInput,
		})
		return
	}
	if err := h.val.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, httpkit.ErrorResponse{
			Error:   "validation failed",
			Code:    apperr.CodeInvalidInput,
			Details: validator.FieldErrors(err),
		})
		return
	}

	result, err := h.svc.Login(c.Request.Context(), service.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
